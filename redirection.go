package detour

import (
	"reflect"
	"sync"
)

type redirectionState int

const (
	stateDisarmed redirectionState = iota
	stateArmed
	stateDisposed
)

// Redirection composes the architecture trampoline builder, the platform
// memory broker, and the method-address resolver into a reversible patch:
// while active, every call that lands on original's entry point is
// diverted to replacement instead.
//
// A Redirection is not safe for concurrent use by multiple goroutines
// calling Start, Stop, InvokeOriginal, or Dispose at once: the byte-copy
// that installs or removes the trampoline is not atomic at instruction
// granularity, and another thread calling the redirected function mid-copy
// observes a torn instruction stream. The mutex below only serializes this
// Redirection's own bookkeeping against itself; it does nothing to
// quiesce unrelated callers of original, which remains the caller's job.
type Redirection struct {
	mu          sync.Mutex
	original    *Descriptor
	replacement *Descriptor
	origEntry   uintptr
	replEntry   uintptr
	saved       []byte
	state       redirectionState
}

// New creates a Redirection from original to replacement. Both must be
// non-nil functions or methods of identical type T; passing values of
// different underlying signatures is a compile error, not a runtime one,
// the same way it would be for any other generic function.
//
// If startImmediately is true the redirection is armed before New returns.
// On any construction failure, New leaves no residue: the process-wide GC
// root set is left untouched.
func New[T any](original, replacement T, startImmediately bool) (*Redirection, error) {
	origDesc, err := newDescriptor(original)
	if err != nil {
		return nil, err
	}
	replDesc, err := newDescriptor(replacement)
	if err != nil {
		return nil, err
	}

	origEntry, err := origDesc.resolve()
	if err != nil {
		return nil, err
	}
	replEntry, err := replDesc.resolve()
	if err != nil {
		return nil, err
	}

	if origEntry == replEntry {
		return nil, ErrSelfRedirect
	}
	if diff := absDiff(origEntry, replEntry); diff <= patchSize {
		return nil, ErrBodiesTooClose
	}

	saved := peekCode(origEntry, patchSize)
	if saved == nil {
		return nil, ErrResolverUnavailable
	}

	r := &Redirection{
		original:    origDesc,
		replacement: replDesc,
		origEntry:   origEntry,
		replEntry:   replEntry,
		saved:       saved,
		state:       stateDisarmed,
	}

	rootAdd(r)

	if startImmediately {
		if err := r.Start(); err != nil {
			rootRemove(r)
			return nil, err
		}
	}

	return r, nil
}

func absDiff(a, b uintptr) uintptr {
	if a > b {
		return a - b
	}
	return b - a
}

// Start arms the redirection, installing the jump to replacement at
// original's entry point. Idempotent: starting an already-armed
// Redirection does nothing.
func (r *Redirection) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.armLocked()
}

func (r *Redirection) armLocked() error {
	if r.state == stateDisposed {
		return ErrDisposed
	}
	if r.state == stateArmed {
		return nil
	}
	if err := patchCode(r.origEntry, jmpBytes(r.replEntry)); err != nil {
		return err
	}
	r.state = stateArmed
	return nil
}

// Stop disarms the redirection, restoring the bytes captured at creation
// time. Idempotent: stopping an already-disarmed Redirection does
// nothing.
func (r *Redirection) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disarmLocked()
}

func (r *Redirection) disarmLocked() error {
	if r.state == stateDisposed {
		return ErrDisposed
	}
	if r.state == stateDisarmed {
		return nil
	}
	if err := patchCode(r.origEntry, r.saved); err != nil {
		return err
	}
	r.state = stateDisarmed
	return nil
}

// Active reports whether the redirection is currently armed.
func (r *Redirection) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == stateArmed
}

// InvokeOriginal calls through to the original function regardless of
// whether the redirection is currently armed, and returns what it
// returned. If the redirection was armed on entry, InvokeOriginal
// un-patches original's entry point for the duration of the call and
// re-installs the jump to replacement before returning on every exit
// path, including a panic inside the original body. A panic is recovered
// and reported as a *HostInvocationError rather than propagated, so that
// a replacement re-entering through InvokeOriginal can't take the
// redirected function down with it.
func (r *Redirection) InvokeOriginal(args ...any) (results []any, err error) {
	r.mu.Lock()
	if r.state == stateDisposed {
		r.mu.Unlock()
		return nil, ErrDisposed
	}
	wasArmed := r.state == stateArmed
	if wasArmed {
		if err := r.disarmLocked(); err != nil {
			r.mu.Unlock()
			return nil, err
		}
	}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		if wasArmed {
			r.armLocked()
		}
		r.mu.Unlock()

		if p := recover(); p != nil {
			err = &HostInvocationError{Recovered: p}
		}
	}()

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	out := r.original.value.Call(in)
	results = make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

// Dispose stops the redirection and removes both descriptors from the
// process-wide GC root set. Idempotent: a second Dispose returns nil.
// Start, Stop and InvokeOriginal on r after Dispose return ErrDisposed.
func (r *Redirection) Dispose() error {
	r.mu.Lock()
	if r.state == stateDisposed {
		r.mu.Unlock()
		return nil
	}
	err := r.disarmLocked()
	r.state = stateDisposed
	r.mu.Unlock()

	rootRemove(r)
	return err
}
