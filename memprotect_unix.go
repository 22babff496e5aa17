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

//go:build (linux || darwin || dragonfly || freebsd || netbsd || openbsd) && !arm && !arm64

package detour

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// patchCode makes the page(s) covering [entry, entry+len(buf)) writable,
// copies buf over the existing bytes, restores the page to read+execute,
// and flushes the instruction cache where the architecture requires it.
//
// ARM and ARM64 never reach this file: memprotect_arm.go overrides
// patchCode for those architectures, since code-patching semantics differ
// there and changing page protection is not part of the sequence.
func patchCode(entry uintptr, buf []byte) error {
	start, size := pageBoundaries(entry, len(buf))

	page := unsafe.Slice((*byte)(unsafe.Pointer(start)), size)
	if err := unix.Mprotect(page, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC); err != nil {
		return &MemoryProtectError{Addr: entry, Err: err}
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(entry)), len(buf))
	copy(dst, buf)

	if err := unix.Mprotect(page, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return &MemoryProtectError{Addr: entry, Err: err}
	}

	flushInstructionCache(entry, len(buf))
	return nil
}

func pageBoundaries(ptr uintptr, size int) (uintptr, uintptr) {
	pageSize := uintptr(os.Getpagesize())
	areaStart := ptr &^ (pageSize - 1)
	areaSize := (ptr + uintptr(size)) - areaStart
	return areaStart, areaSize
}
