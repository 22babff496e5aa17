package detour

import (
	"fmt"
	"reflect"
	"sync"
)

// descriptorKind distinguishes the two ways a Go func value can come to
// exist: compiled ahead of time from source, or synthesised at run time by
// reflect.MakeFunc. The two need different address-resolution paths.
type descriptorKind int

const (
	kindRegular descriptorKind = iota
	kindDynamic
)

// Descriptor is an opaque handle to a function or method, resolved to the
// address of the machine code the CPU executes when it is called.
//
// Descriptor keeps the original reflect.Value alive for as long as it
// lives, which keeps the underlying function reachable from a GC root for
// as long as any Redirection referencing it is not disposed (see rootset.go).
type Descriptor struct {
	value reflect.Value
	kind  descriptorKind
	name  string

	mu    sync.Mutex
	entry uintptr // 0 until resolved
}

func newDescriptor(fn any) (*Descriptor, error) {
	if fn == nil {
		return nil, fmt.Errorf("detour: nil function")
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return nil, fmt.Errorf("detour: %T is not a function", fn)
	}
	if v.IsNil() {
		return nil, fmt.Errorf("detour: nil function value")
	}

	d := &Descriptor{value: v, name: funcName(v)}
	if v.Pointer() == dynamicStubEntry() {
		d.kind = kindDynamic
	}
	return d, nil
}

func funcName(v reflect.Value) string {
	if fn := runtimeFuncForPC(v.Pointer()); fn != "" {
		return fn
	}
	return v.Type().String()
}

// resolve returns the address of the first byte the CPU executes when the
// descriptor's function is called, resolving and compiling it the first
// time and memoising the result afterwards.
func (d *Descriptor) resolve() (uintptr, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entry != 0 && isCompiled(d.entry) {
		return d.entry, nil
	}

	var entry uintptr
	var err error
	switch d.kind {
	case kindDynamic:
		entry, err = resolveDynamic(d.value)
	default:
		entry, err = resolveRegular(d.value)
	}
	if err != nil {
		return 0, err
	}

	if !isCompiled(entry) {
		if !tryPrepare(d.value) {
			return 0, ErrNotCompiled
		}
		// Re-resolve: forcing compilation of a regular function doesn't
		// move it, but re-reads the address anyway, because that is what
		// it would take for a descriptor kind where it could.
		switch d.kind {
		case kindDynamic:
			entry, err = resolveDynamic(d.value)
		default:
			entry, err = resolveRegular(d.value)
		}
		if err != nil {
			return 0, err
		}
		if !isCompiled(entry) {
			return 0, ErrNotCompiled
		}
	}

	d.entry = entry
	return entry, nil
}

func resolveRegular(v reflect.Value) (uintptr, error) {
	pc := v.Pointer()
	if pc == 0 {
		return 0, ErrResolverUnavailable
	}
	return pc, nil
}
