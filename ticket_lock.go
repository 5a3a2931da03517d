package sortlock

import (
	"sync/atomic"
)

// ticketLock is a fair, FIFO spin-lock used as the exclusive primitive
// under the sortlock_spin build tag.
//
// Unlike sync.Mutex, which allows "barging" (newcomers can steal the lock),
// ticketLock hands the lock out in the exact order Lock was called.
//   - Lock(): Takes a ticket number. Spins/Sleeps until `serving` == `my_ticket`.
//   - Unlock(): Increments `serving`, allowing the next ticket holder to proceed.
//   - TryLock(): Takes a ticket only if it would be served immediately.
type ticketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

// Lock acquires the lock. Blocks until the lock is available.
func (m *ticketLock) Lock() {
	my := m.next.Add(1) - 1
	var spins int
	for {
		if m.serving.Load() == my {
			return
		}
		delay(&spins)
	}
}

// TryLock acquires the lock only if nobody holds it or waits for it.
func (m *ticketLock) TryLock() bool {
	s := m.serving.Load()
	return m.next.CompareAndSwap(s, s+1)
}

// Unlock releases the lock.
func (m *ticketLock) Unlock() {
	m.serving.Add(1)
}
