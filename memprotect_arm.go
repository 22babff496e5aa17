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

//go:build arm || arm64

package detour

import "unsafe"

// patchCode is a no-op over page protection on ARM and ARM64: code
// patching semantics differ enough on these architectures that changing
// the page's protection bits is not part of the sequence at all — the
// page is written to directly, the same way the teacher's own ARM64
// override/reset pair skipped calling makeMemWritable before patching,
// and the instruction cache is flushed afterwards.
func patchCode(entry uintptr, buf []byte) error {
	dst := unsafe.Slice((*byte)(unsafe.Pointer(entry)), len(buf))
	copy(dst, buf)

	flushInstructionCache(entry, len(buf))
	return nil
}
