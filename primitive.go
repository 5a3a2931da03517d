//go:build !sortlock_spin

package sortlock

import "sync"

// The primitives below do the actual blocking. By default goroutines park
// in the runtime; build with -tags=sortlock_spin to busy-wait instead.
type (
	mutex   = sync.Mutex
	rwMutex = sync.RWMutex
)
