package detour

import "reflect"

// isCompiled reports whether entry points at code the classifier
// recognises as a finished function body rather than one of the
// lazy-binding stub shapes isStub knows about. The per-architecture
// byte tables it consults live in classify_<arch>.go.
func isCompiled(entry uintptr) bool {
	if !validEntry(entry) {
		return false
	}
	return !isStub(entry)
}

// tryPrepare forces v into its final, callable form by invoking it once
// with synthesised zero-value arguments, then discards whatever it
// returns. This is the Go analogue of forcing a not-yet-jitted method
// through the runtime's compiler: calling a function is what makes the
// linker's lazy-binding thunks (and, for reflect.MakeFunc values, the
// first real dispatch through the closure) resolve to their final
// addresses. Every panic raised while calling v is swallowed, whether it
// comes from v's body or from reflect's own call machinery (a nil function
// value, for example): tryPrepare only cares whether v became callable,
// not what calling it produced.
func tryPrepare(v reflect.Value) (ok bool) {
	defer func() {
		recover()
		ok = true
	}()

	t := v.Type()
	args := make([]reflect.Value, t.NumIn())
	for i := range args {
		in := t.In(i)
		if t.IsVariadic() && i == len(args)-1 {
			args = args[:i]
			break
		}
		args[i] = reflect.Zero(in)
	}
	v.Call(args)
	return true
}
