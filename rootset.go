package detour

import "sync"

// rootSet keeps every live Redirection's original and replacement
// reflect.Values reachable from a GC root for as long as the Redirection
// itself exists. Patched machine code references these by address, not by
// any ordinary Go reference the garbage collector can see, so without this
// the collector would be free to treat either function as unreachable and
// reclaim whatever it closes over.
var rootSet = struct {
	mu   sync.Mutex
	live map[*Redirection]struct{}
}{live: make(map[*Redirection]struct{})}

func rootAdd(r *Redirection) {
	rootSet.mu.Lock()
	defer rootSet.mu.Unlock()
	rootSet.live[r] = struct{}{}
}

func rootRemove(r *Redirection) {
	rootSet.mu.Lock()
	defer rootSet.mu.Unlock()
	delete(rootSet.live, r)
}
