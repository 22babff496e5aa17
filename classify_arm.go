package detour

import "encoding/binary"

// On ARM the unsettled-thunk shape worth recognising is a PC-relative
// literal load into PC, the same shape jmpBytes itself writes (see
// arch_arm.go) and the one the linker emits for some lazily bound
// imported symbols. A function whose first word is this load hasn't
// settled on its final body yet, so forcing it through tryPrepare first
// is worth attempting before patching over it.
var literalLoadPC = [4]byte{0x04, 0xF0, 0x1F, 0xE5}

func isStub(entry uintptr) bool {
	buf := peekCode(entry, 4)
	if buf == nil {
		return false
	}
	return binary.LittleEndian.Uint32(buf) == binary.LittleEndian.Uint32(literalLoadPC[:])
}
