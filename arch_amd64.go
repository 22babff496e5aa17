package detour

import "encoding/binary"

// patchSize is the number of bytes jmpBytes writes at the start of a
// redirected function's entry point: mov rax, imm64; jmp rax.
const patchSize = 12

// jmpBytes encodes an absolute jump to dest that does not depend on the
// distance between the patch site and dest, unlike a relative near jump.
// A dynamically built function value (see dynamic.go) and the target it
// jumps to can end up arbitrarily far apart in the address space, which a
// 32-bit relative displacement cannot always reach.
func jmpBytes(dest uintptr) []byte {
	buf := make([]byte, patchSize)
	buf[0] = 0x48 // REX.W
	buf[1] = 0xB8 // MOV RAX, imm64
	binary.LittleEndian.PutUint64(buf[2:10], uint64(dest))
	buf[10] = 0xFF // JMP
	buf[11] = 0xE0 // /4 (rax)
	return buf
}

func flushInstructionCache(_ uintptr, _ int) {
	// x86/x86-64 keeps the instruction cache coherent with writes to the
	// data side automatically; no explicit flush is needed.
}
