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

//go:build ((linux || darwin) && (amd64 || arm64 || 386 || arm)) || (windows && (amd64 || 386))

/*
Package detour transparently redirects every call to one already-compiled
Go function or method to the entry point of another, without touching call
sites and without recompiling.

It resolves a function value to the address of the machine code the CPU
jumps to when it's called, overwrites the first bytes of that code with an
architecture-specific absolute jump to the replacement's entry point, and
keeps the original bytes around so the redirection can be reversed, or the
original invoked explicitly, while the redirection is active.

# Platforms supported

This package patches the running process's own text segment, so it is
OS- and CPU-arch-specific.

Supported OSes:

  - Linux
  - macOS
  - Windows

Supported CPU archs:

  - x86 (386)
  - x86-64 (amd64)
  - ARM
  - ARM64 (aarch64)

# Command line options

Inlining can fold a call site to the original function before this package
ever sees it called, at which point redirecting the out-of-line copy has no
effect on that call site. Disable inlining on any target you intend to
redirect:

	go build -gcflags="all=-N -l"

# The concept

Create a [Redirection] for an (original, replacement) pair of functions
with matching signatures. While the redirection is [Redirection.Active],
any call made through the original's entry point lands in the replacement
instead. [Redirection.Stop] puts the original bytes back; [Redirection.Start]
reinstalls the jump; [Redirection.InvokeOriginal] calls through to the
original regardless of the current state; [Redirection.Dispose] releases the
redirection for good.

Typical use:

	func add1(x int) int { return x + 1 }
	func sub1(x int) int { return x - 1 }

	r, err := detour.New(add1, sub1, true)
	if err != nil {
	    log.Fatal(err)
	}
	add1(10) // 9 - redirected to sub1
	r.Stop()
	add1(10) // 11 - original restored
	r.Dispose()

Methods can be redirected the same way as functions, by passing a method
expression — the receiver becomes the replacement's first argument:

	r, _ := detour.New((*os.File).Read, func(f *os.File, b []byte) (int, error) {
	    copy(b, []byte("foo"))
	    return 3, nil
	}, true)

Package-level, instance, and dynamically built ([reflect.MakeFunc]) function
values can all serve as either side of a [Redirection]; interface method
values cannot, because there is no single compiled body behind an interface
method to patch.
*/
package detour
