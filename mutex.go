package sortlock

import (
	"fmt"
)

// Mutex is a mutual exclusion lock protecting a value of type T that can be
// locked together with other sortlock locks in a globally consistent order.
//
// Locking goes through a request: Request returns a token that does not
// block, and the LockAll family acquires a whole set of tokens by ascending
// Key, handing the guards back in the order they were passed:
//
//	a := sortlock.NewMutex(1)
//	b := sortlock.NewMutex(2)
//
//	ga, gb := sortlock.LockAll2(a.Request(), b.Request())
//	*ga.Value() += *gb.Value()
//	ga.Unlock()
//	gb.Unlock()
//
// Another goroutine calling LockAll2(b.Request(), a.Request()) at the same
// time locks a and b in the same order, so the two cannot deadlock.
//
// The zero Mutex is an unlocked lock holding the zero T. A Mutex must not be
// copied after first use.
type Mutex[T any] struct {
	_   noCopy
	key lazyKey
	mu  mutex
	v   T
}

// NewMutex returns a Mutex protecting v.
func NewMutex[T any](v T) *Mutex[T] {
	m := &Mutex[T]{v: v}
	m.key.init()
	return m
}

// SortKey returns the Key that orders m against other locks.
func (m *Mutex[T]) SortKey() Key {
	return m.key.load()
}

// Request returns a pending request to lock m. It never blocks and does
// not touch the lock.
func (m *Mutex[T]) Request() MutexRequest[T] {
	return MutexRequest[T]{m: m, key: m.key.load()}
}

// LockNow locks m immediately, outside of any group.
//
// LockNow does not take part in ordering: holding a guard from LockNow while
// acquiring a group that contains other locks, or mixing LockNow with group
// acquisition of m from other goroutines, can deadlock.
func (m *Mutex[T]) LockNow() *MutexGuard[T] {
	m.mu.Lock()
	return &MutexGuard[T]{m: m}
}

// TryLockNow locks m if it is free and reports whether it did.
// Since it never blocks, it cannot take part in a deadlock.
func (m *Mutex[T]) TryLockNow() (*MutexGuard[T], bool) {
	if !m.mu.TryLock() {
		return nil, false
	}
	return &MutexGuard[T]{m: m}, true
}

// String locks m and formats the protected value.
func (m *Mutex[T]) String() string {
	g := m.LockNow()
	defer g.Unlock()
	return fmt.Sprint(g.m.v)
}

// MutexRequest is a pending request to lock a Mutex. It implements
// Sortable[*MutexGuard[T]].
type MutexRequest[T any] struct {
	m   *Mutex[T]
	key Key
}

// SortKey returns the Key of the requested Mutex.
func (r MutexRequest[T]) SortKey() Key {
	return r.key
}

// LockPresorted locks the Mutex, blocking until it is available.
func (r MutexRequest[T]) LockPresorted() *MutexGuard[T] {
	return r.m.LockNow()
}

// TryLockPresorted locks the Mutex if that does not block.
func (r MutexRequest[T]) TryLockPresorted() (*MutexGuard[T], bool) {
	return r.m.TryLockNow()
}

// MutexGuard grants exclusive access to the value of a locked Mutex until
// Unlock is called. A guard must be unlocked exactly once.
type MutexGuard[T any] struct {
	_        noCopy
	m        *Mutex[T]
	released bool
}

// Value returns a pointer to the protected value. The pointer must not be
// used after Unlock.
func (g *MutexGuard[T]) Value() *T {
	if g.released {
		panic(errReleased)
	}
	return &g.m.v
}

// Unlock releases the Mutex.
func (g *MutexGuard[T]) Unlock() {
	if g.released {
		panic(errReleased)
	}
	g.released = true
	g.m.mu.Unlock()
}

const errReleased = "sortlock: use of released guard"

var _ Sortable[*MutexGuard[int]] = MutexRequest[int]{}
