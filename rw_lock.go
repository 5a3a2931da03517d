package sortlock

import (
	"sync/atomic"
)

// spinRWLock is a spin-based Reader-Writer lock used as the shared/exclusive
// primitive under the sortlock_spin build tag.
//
// It is writer-preferred: once a writer has claimed the write bit, new
// readers wait until it is done, so readers cannot starve writers.
type spinRWLock struct {
	_ noCopy
	// state:
	//   bit 0: writer holding or draining readers
	//   bits 1-31: reader count
	state atomic.Uint32
}

const (
	rwWriteMask = 1
	rwReadShift = 1
	rwReadUnit  = 1 << rwReadShift
)

// Lock acquires the write lock.
// It spins until the lock is free.
func (rw *spinRWLock) Lock() {
	var spins int
	for {
		// 1. Acquire the write bit. This blocks NEW readers.
		s := rw.state.Load()
		if s&rwWriteMask == 0 && rw.state.CompareAndSwap(s, s|rwWriteMask) {
			// 2. Wait for existing readers to drain.
			for rw.state.Load()>>rwReadShift != 0 {
				delay(&spins)
			}
			return
		}
		delay(&spins)
	}
}

// TryLock acquires the write lock only if there are no readers or writer.
func (rw *spinRWLock) TryLock() bool {
	return rw.state.CompareAndSwap(0, rwWriteMask)
}

// Unlock releases the write lock.
// While the write bit is held no reader can register, so the whole state
// belongs to the writer.
func (rw *spinRWLock) Unlock() {
	rw.state.Store(0)
}

// RLock acquires a read lock.
func (rw *spinRWLock) RLock() {
	var spins int
	for !rw.TryRLock() {
		delay(&spins)
	}
}

// TryRLock acquires a read lock only if no writer holds or awaits it.
func (rw *spinRWLock) TryRLock() bool {
	for {
		s := rw.state.Load()
		if s&rwWriteMask != 0 {
			return false
		}
		if rw.state.CompareAndSwap(s, s+rwReadUnit) {
			return true
		}
	}
}

// RUnlock releases a read lock.
func (rw *spinRWLock) RUnlock() {
	rw.state.Add(^uint32(rwReadUnit - 1))
}
