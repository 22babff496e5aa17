package detour

import (
	"reflect"
	"runtime/debug"
	"sync"
	"unsafe"
)

// eface mirrors the runtime's internal representation of an interface
// value: a type word and a data word. For a value of Kind() == reflect.Func
// the data word is a *funcval.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// funcval mirrors the runtime's representation of a Go function value: the
// code entry point, followed immediately by whatever the closure captured.
// reflect.MakeFunc-built values all share one code entry (makeFuncStub /
// methodValueCall), so distinguishing one dynamically built function from
// another means walking past fn into the captured data that follows it.
type funcval struct {
	fn uintptr
}

func funcvalOf(v reflect.Value) *funcval {
	i := v.Interface()
	e := (*eface)(unsafe.Pointer(&i))
	return (*funcval)(e.data)
}

// dynamicStubEntry is the entry address reflect.MakeFunc installs in every
// funcval it creates. Any resolved function whose Pointer() equals this
// address was built dynamically, not compiled from source, and needs the
// fallback resolution path in resolveDynamic.
var dynamicStubEntry = sync.OnceValue(func() uintptr {
	fn := reflect.MakeFunc(reflect.TypeOf(func() {}), func([]reflect.Value) []reflect.Value {
		return nil
	})
	return fn.Pointer()
})

// candidateOffsets lists the byte offsets, relative to the start of a
// dynamically built function's funcval, at which successive Go releases
// have stashed the pointer-sized word that (directly or after one more
// indirection) leads to code the runtime's function table recognises.
// Like spec precode-stub shapes, this table is configuration: a toolchain
// upgrade that moves the field again means appending an offset here, not
// rewriting the resolver.
var candidateOffsets = []uintptr{
	8,  // Go 1.21+: ctxt *makeFuncImpl directly follows fn
	16, // earlier layouts observed with one extra pointer-sized field first
	24,
}

// resolveDynamic implements the two-path probe spec.md's resolver
// describes for dynamically emitted methods: try the "get method
// descriptor"-equivalent fast path (the runtime's own findfunc against the
// closure's first captured field) and fall back to scanning the remaining
// known field offsets for a candidate the runtime table still recognises.
func resolveDynamic(v reflect.Value) (entry uintptr, err error) {
	fv := funcvalOf(v)
	if fv == nil {
		return 0, ErrResolverUnavailable
	}
	base := uintptr(unsafe.Pointer(fv))

	for _, off := range candidateOffsets {
		candidate := readUintptrAt(base, off)
		if candidate == 0 {
			continue
		}
		// The captured word is usually a pointer to a struct (*makeFuncImpl)
		// whose own first field is the target code address, so a direct hit
		// and one extra indirection are both worth trying.
		if validEntry(candidate) {
			return candidate, nil
		}
		if indirect := readUintptrAt(candidate, 0); validEntry(indirect) {
			return indirect, nil
		}
	}

	return 0, ErrResolverUnavailable
}

// readUintptrAt reads one pointer-sized word at base+off, recovering from
// any fault so a bad guess in candidateOffsets degrades to "not found"
// instead of taking the process down.
func readUintptrAt(base, off uintptr) (val uintptr) {
	defer func() {
		if recover() != nil {
			val = 0
		}
	}()
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	if base == 0 {
		return 0
	}
	return *(*uintptr)(unsafe.Pointer(base + off))
}
