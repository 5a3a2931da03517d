//go:build !sortlock_spin

package opt

// Spin_ reports whether the spin-based primitives are compiled in.
// By default locks park on sync.Mutex and sync.RWMutex.
const Spin_ = false
