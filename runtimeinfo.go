package detour

import "runtime"

// runtimeFuncForPC returns the symbol name the runtime associates with pc,
// or "" if pc doesn't lie within any function the runtime knows about.
func runtimeFuncForPC(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return fn.Name()
}
