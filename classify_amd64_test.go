package detour

import (
	"reflect"
	"testing"
	"unsafe"
)

func TestIsStubDetectsIndirectJumpPattern(t *testing.T) {
	stub := []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00}
	addr := uintptr(unsafe.Pointer(&stub[0]))
	if !isStub(addr) {
		t.Fatal("isStub = false for a FF 25 indirect-jump stub shape")
	}
}

func TestIsStubDetectsRelativeJumpPattern(t *testing.T) {
	stub := []byte{0xE9, 0x11, 0x22, 0x33, 0x44, 0x00}
	addr := uintptr(unsafe.Pointer(&stub[0]))
	if !isStub(addr) {
		t.Fatal("isStub = false for an E9 relative-jump stub shape")
	}
}

func TestIsCompiledTrueForRealFunction(t *testing.T) {
	entry := reflect.ValueOf(add1).Pointer()
	if !isCompiled(entry) {
		t.Fatal("isCompiled = false for a real, already-compiled function")
	}
}

func TestIsCompiledFalseForStubShape(t *testing.T) {
	// isCompiled first asks validEntry (runtime.findfunc) whether the
	// address belongs to a function the runtime knows about; a bare byte
	// buffer never does, so this also exercises the validEntry guard
	// ahead of isStub.
	stub := []byte{0xFF, 0x25, 0x00, 0x00, 0x00, 0x00}
	addr := uintptr(unsafe.Pointer(&stub[0]))
	if isCompiled(addr) {
		t.Fatal("isCompiled = true for an address the runtime doesn't recognise")
	}
}
