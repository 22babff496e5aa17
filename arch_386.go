package detour

import "encoding/binary"

// patchSize is the number of bytes jmpBytes writes at the start of a
// redirected function's entry point: push imm32; ret.
const patchSize = 6

// jmpBytes encodes an absolute jump to dest using push+ret, since 386 has
// no single instruction that loads a 32-bit immediate straight into a
// general-purpose register and jumps to it in fewer bytes.
func jmpBytes(dest uintptr) []byte {
	buf := make([]byte, patchSize)
	buf[0] = 0x68 // PUSH imm32
	binary.LittleEndian.PutUint32(buf[1:5], uint32(dest))
	buf[5] = 0xC3 // RET
	return buf
}

func flushInstructionCache(_ uintptr, _ int) {
	// x86 keeps the instruction cache coherent with writes to the data
	// side automatically; no explicit flush is needed.
}
