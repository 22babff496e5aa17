package detour

import (
	"runtime"
	"testing"
)

//go:noinline
func add1(x int) int { return x + 1 }

//go:noinline
func sub1(x int) int { return x - 1 }

//go:noinline
func double(x int) int { return x * 2 }

func TestPureRedirection(t *testing.T) {
	if got := add1(10); got != 11 {
		t.Fatalf("add1(10) = %d before redirection, want 11", got)
	}

	r, err := New(add1, sub1, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	if got := add1(10); got != 9 {
		t.Errorf("add1(10) = %d while armed, want 9", got)
	}

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := add1(10); got != 11 {
		t.Errorf("add1(10) = %d after Stop, want 11", got)
	}

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	results, err := r.InvokeOriginal(10)
	if err != nil {
		t.Fatalf("InvokeOriginal: %v", err)
	}
	if len(results) != 1 || results[0].(int) != 11 {
		t.Errorf("InvokeOriginal(10) = %v, want [11]", results)
	}
	if got := add1(10); got != 9 {
		t.Errorf("add1(10) = %d after InvokeOriginal while armed, want 9", got)
	}

	if err := r.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if got := add1(10); got != 11 {
		t.Errorf("add1(10) = %d after Dispose, want 11", got)
	}
}

func TestSelfRedirectionRejected(t *testing.T) {
	_, err := New(add1, add1, false)
	if err != ErrSelfRedirect {
		t.Fatalf("New(add1, add1, false) error = %v, want ErrSelfRedirect", err)
	}
}

// TestBodiesTooCloseBoundary exercises the exact boundary invariant 4
// requires: a gap of exactly patchSize is still rejected as too close, even
// though a patchSize-byte trampoline written at the lower of the two
// entries ends on the byte just before the other one. Two real, already-compiled
// functions can land anywhere in the address space depending on the
// linker, so this checks the comparison New uses directly rather than
// hoping two picked-by-name functions happen to be adjacent.
func TestBodiesTooCloseBoundary(t *testing.T) {
	origEntry, replEntry := uintptr(0x1000), uintptr(0x1000)+patchSize
	if diff := absDiff(origEntry, replEntry); diff != patchSize {
		t.Fatalf("absDiff = %d, want %d", diff, patchSize)
	}
	if diff := absDiff(origEntry, replEntry); diff > patchSize {
		t.Fatal("a gap of exactly patchSize must still count as too close")
	}

	beyond := replEntry + 1
	if diff := absDiff(origEntry, beyond); diff <= patchSize {
		t.Fatal("a gap of patchSize+1 must not count as too close")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	r, err := New(double, sub1, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	if err := r.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if !r.Active() {
		t.Fatal("Active() = false after Start; Start")
	}

	if err := r.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if r.Active() {
		t.Fatal("Active() = true after Stop; Stop")
	}
}

func TestDisposeIsTerminal(t *testing.T) {
	r, err := New(double, sub1, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if err := r.Dispose(); err != nil {
		t.Errorf("second Dispose = %v, want nil (idempotent)", err)
	}
	if err := r.Start(); err != ErrDisposed {
		t.Errorf("Start after Dispose = %v, want ErrDisposed", err)
	}
	if _, err := r.InvokeOriginal(1); err != ErrDisposed {
		t.Errorf("InvokeOriginal after Dispose = %v, want ErrDisposed", err)
	}
}

// TestSurvivesGC forces a full collection while a Redirection is armed.
// Patched machine code references original and replacement only by
// address, not through any reference the garbage collector can trace, so
// without rootset.go's explicit root either descriptor's func value would
// be free for the collector to treat as unreachable and reclaim mid-flight.
func TestSurvivesGC(t *testing.T) {
	r, err := New(add1, sub1, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	runtime.GC()
	runtime.GC()

	if got := add1(10); got != 9 {
		t.Errorf("add1(10) after GC = %d, want 9", got)
	}
}

func TestInvokeOriginalReentrantFromReplacement(t *testing.T) {
	var r *Redirection
	replacement := func(x int) int {
		results, err := r.InvokeOriginal(x)
		if err != nil {
			t.Fatalf("InvokeOriginal inside replacement: %v", err)
		}
		return results[0].(int) * 10
	}

	var err error
	r, err = New(add1, replacement, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Dispose()

	for i := 0; i < 10; i++ {
		if got := add1(i); got != (i+1)*10 {
			t.Errorf("add1(%d) = %d, want %d", i, got, (i+1)*10)
		}
	}
}
