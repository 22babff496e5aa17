package detour

import "encoding/binary"

// See classify_arm.go. The arm64 trampoline this module writes reuses the
// same 4-byte prefix (see arch_arm64.go), so the same check for an
// already-installed literal-load shape serves as the unsettled-thunk
// signal here too.
var literalLoadPC = [4]byte{0x04, 0xF0, 0x1F, 0xE5}

func isStub(entry uintptr) bool {
	buf := peekCode(entry, 4)
	if buf == nil {
		return false
	}
	return binary.LittleEndian.Uint32(buf) == binary.LittleEndian.Uint32(literalLoadPC[:])
}
