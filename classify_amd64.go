package detour

import "golang.org/x/arch/x86/x86asm"

// stubPatterns lists the byte shapes the amd64 classifier treats as an
// unsettled thunk rather than a finished function body: a bare indirect
// jump through a global (the shape the linker emits for a plugin-imported
// symbol before its first call binds it) and a bare near relative jump
// (the shape left behind by some ABI0/ABIInternal wrapper stubs). Like the
// stub shapes this classifier is modelled on, this table is configuration:
// a toolchain change that emits a new wrapper shape means adding a row
// here, not touching isStub's logic.
var stubPatterns = []struct {
	mask, bytes []byte
}{
	{
		mask:  []byte{0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00},
		bytes: []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00}, // FF 25 <rel32>: JMP [rip+disp]
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
	return !decodesCleanly(entry)
}

// decodesCleanly reports whether entry starts with at least one valid
// x86-64 instruction. It is a cheap sanity check layered on top of the
// fixed stubPatterns table, not a replacement for it: a real compiled
// function's entry should always decode as *something*, so a decode
// failure here is a stronger signal of a not-yet-settled address (e.g. a
// zeroed or partially written page) than of a false positive on a
// legitimately tiny function body.
func decodesCleanly(entry uintptr) bool {
	const maxInstLen = 15 // longest possible x86-64 instruction encoding
	buf := peekCode(entry, maxInstLen)
	if buf == nil {
		return false
	}
	inst, err := x86asm.Decode(buf, 64)
	return err == nil && inst.Len > 0
}
