package detour

/*
// ARM doesn't keep the instruction cache coherent with stores through the
// data side automatically, so a patched region needs an explicit flush
// before the CPU is guaranteed to fetch the new bytes.
#include <stdint.h>
void detourFlushCacheARM(uintptr_t addr, size_t len) {
	char *p = (char *)addr;
	__builtin___clear_cache(p, p+len);
}
*/
import "C"

import "encoding/binary"

// patchSize is the number of bytes jmpBytes writes at the start of a
// redirected function's entry point: ldr pc, [pc, #-4] followed by the
// literal absolute address it loads.
const patchSize = 8

// jmpBytes encodes an absolute jump to dest via a PC-relative literal
// load, since ARM's branch instructions cannot encode an arbitrary 32-bit
// absolute address directly.
func jmpBytes(dest uintptr) []byte {
	buf := make([]byte, patchSize)
	buf[0], buf[1], buf[2], buf[3] = 0x04, 0xF0, 0x1F, 0xE5
	binary.LittleEndian.PutUint32(buf[4:8], uint32(dest))
	return buf
}

func flushInstructionCache(addr uintptr, n int) {
	C.detourFlushCacheARM(C.uintptr_t(addr), C.size_t(n))
}
