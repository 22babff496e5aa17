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

//go:build windows && !arm && !arm64

package detour

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// patchCode makes the page(s) covering [entry, entry+len(buf)) writable,
// copies buf over the existing bytes, and restores the previous
// protection. ARM and ARM64 never reach this file: memprotect_arm.go
// overrides patchCode for those architectures, since code-patching
// semantics differ there and changing page protection is not part of the
// sequence.
func patchCode(entry uintptr, buf []byte) error {
	var oldPerms uint32
	if err := windows.VirtualProtect(entry, uintptr(len(buf)), windows.PAGE_EXECUTE_READWRITE, &oldPerms); err != nil {
		return &MemoryProtectError{Addr: entry, Err: err}
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(entry)), len(buf))
	copy(dst, buf)

	var unused uint32
	if err := windows.VirtualProtect(entry, uintptr(len(buf)), oldPerms, &unused); err != nil {
		return &MemoryProtectError{Addr: entry, Err: err}
	}

	flushInstructionCache(entry, len(buf))
	return nil
}
