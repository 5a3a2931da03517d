package sortlock

import (
	"context"
)

// Unlocker is implemented by every guard. Unlock releases the lock the guard
// was issued for.
type Unlocker interface {
	Unlock()
}

// Sortable is a pending lock request: it names a lock, the mode to take it
// in and the lock's Key, but acquires nothing until a group operation such
// as LockAll2 asks it to.
//
// G is the guard type the request produces once locked.
type Sortable[G Unlocker] interface {
	// SortKey returns the Key of the requested lock.
	SortKey() Key

	// LockPresorted blocks until the lock is held and returns its guard.
	//
	// It assumes the caller already orders acquisitions by SortKey; use the
	// LockAll family to get that ordering.
	LockPresorted() G

	// TryLockPresorted acquires the lock only if that does not block.
	TryLockPresorted() (G, bool)
}

// maxGroup is the largest group the LockAll family accepts.
const maxGroup = 5

// action is what a group asks of one of its members.
type action uint8

const (
	actLock action = iota
	actTryLock
	actUnlock
)

// stepFunc performs act on the member passed at argument position i and
// reports whether it succeeded. Only actTryLock can fail.
type stepFunc func(i int, act action) bool

// step performs act on req, writing the guard to (or clearing it from) out.
func step[G Unlocker](req Sortable[G], out *G, act action) bool {
	switch act {
	case actLock:
		*out = req.LockPresorted()
	case actTryLock:
		g, ok := req.TryLockPresorted()
		if !ok {
			return false
		}
		*out = g
	case actUnlock:
		(*out).Unlock()
		var zero G
		*out = zero
	}
	return true
}

// group is the acquisition order of at most maxGroup requests. It is a
// plain value so that a LockAll call keeps it on the stack.
type group struct {
	keys  [maxGroup]Key
	order [maxGroup]int
	n     int
}

func newGroup(keys ...Key) group {
	g := group{n: len(keys)}
	copy(g.keys[:], keys)
	g.sort()
	return g
}

// sort fills order with the argument positions by ascending key. It panics
// if a key shows up twice: taking the same lock twice on one goroutine would
// deadlock it against itself.
func (g *group) sort() {
	for i := range g.n {
		g.order[i] = i
	}
	// Insertion sort: groups are tiny and keys are unique, so stability
	// does not matter.
	for i := 1; i < g.n; i++ {
		for j := i; j > 0; j-- {
			a, b := g.keys[g.order[j-1]], g.keys[g.order[j]]
			if a < b {
				break
			}
			if a == b {
				panic("sortlock: lock requested twice in one group")
			}
			g.order[j-1], g.order[j] = g.order[j], g.order[j-1]
		}
	}
}

// lock takes every member in key order, blocking as long as needed.
func (g *group) lock(do stepFunc) {
	for _, i := range g.order[:g.n] {
		do(i, actLock)
	}
}

// tryLock takes every member in key order without blocking. If any member
// is busy, the ones already taken are released and tryLock reports false.
func (g *group) tryLock(do stepFunc) bool {
	for pos, i := range g.order[:g.n] {
		if !do(i, actTryLock) {
			g.rollback(do, pos)
			return false
		}
	}
	return true
}

// lockContext takes every member in key order, waiting on a busy member
// until it frees up or ctx is done. On cancellation the members already
// taken are released and ctx.Err() is returned.
func (g *group) lockContext(ctx context.Context, do stepFunc) error {
	if ctx == nil {
		panic("sortlock: nil Context")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for pos, i := range g.order[:g.n] {
		var spins int
		for !do(i, actTryLock) {
			select {
			case <-ctx.Done():
				g.rollback(do, pos)
				return ctx.Err()
			default:
			}
			delay(&spins)
		}
	}
	return nil
}

// rollback releases the first n members in reverse key order.
func (g *group) rollback(do stepFunc, n int) {
	for pos := n - 1; pos >= 0; pos-- {
		do(g.order[pos], actUnlock)
	}
}
