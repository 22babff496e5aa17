package detour

// See classify_amd64.go for the rationale; 386 uses the same relative
// jump/call shapes for its unsettled thunks, just without the REX prefix
// that never applied to 32-bit code anyway.
var stubPatterns = []struct {
	mask, bytes []byte
}{
	{
		mask:  []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00},
		bytes: []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00}, // FF 25 <disp32>: JMP [disp32] (absolute form used by 386 PLT stubs)
	},
	{
		mask:  []byte{0xFF},
		bytes: []byte{0xE9}, // E9 <rel32>: JMP rel32
	},
}

func isStub(entry uintptr) bool {
	const probeLen = 6
	buf := peekCode(entry, probeLen)
	if buf == nil {
		return false
	}
	for _, p := range stubPatterns {
		if matchesPattern(buf, p.bytes, p.mask) {
			return true
		}
	}
	return false
}
