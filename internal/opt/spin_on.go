//go:build sortlock_spin

package opt

// Spin_ reports whether the spin-based primitives are compiled in.
// Enabled via the sortlock_spin build tag, for environments where
// parking goroutines is undesirable.
// Use: go build -tags=sortlock_spin
const Spin_ = true
