package sortlock

import (
	"fmt"
)

// RWMutex is a reader/writer lock protecting a value of type T that can be
// locked together with other sortlock locks in a globally consistent order.
// Read and write requests sort by the same Key, so the mode does not affect
// the acquisition order.
//
//	cfg := sortlock.NewRWMutex(config{})
//	stats := sortlock.NewRWMutex(counters{})
//
//	rc, ws := sortlock.LockAll2(cfg.ReadRequest(), stats.WriteRequest())
//	defer rc.Unlock()
//	defer ws.Unlock()
//
// The zero RWMutex is an unlocked lock holding the zero T. An RWMutex must
// not be copied after first use.
type RWMutex[T any] struct {
	_   noCopy
	key lazyKey
	mu  rwMutex
	v   T
}

// NewRWMutex returns an RWMutex protecting v.
func NewRWMutex[T any](v T) *RWMutex[T] {
	rw := &RWMutex[T]{v: v}
	rw.key.init()
	return rw
}

// SortKey returns the Key that orders rw against other locks.
func (rw *RWMutex[T]) SortKey() Key {
	return rw.key.load()
}

// ReadRequest returns a pending request to lock rw for reading.
// It never blocks and does not touch the lock.
func (rw *RWMutex[T]) ReadRequest() ReadRequest[T] {
	return ReadRequest[T]{rw: rw, key: rw.key.load()}
}

// WriteRequest returns a pending request to lock rw for writing.
// It never blocks and does not touch the lock.
func (rw *RWMutex[T]) WriteRequest() WriteRequest[T] {
	return WriteRequest[T]{rw: rw, key: rw.key.load()}
}

// LockNow locks rw for writing immediately, outside of any group.
// Like Mutex.LockNow it bypasses ordering.
func (rw *RWMutex[T]) LockNow() *WriteGuard[T] {
	rw.mu.Lock()
	return &WriteGuard[T]{rw: rw}
}

// TryLockNow locks rw for writing if it is free and reports whether it did.
func (rw *RWMutex[T]) TryLockNow() (*WriteGuard[T], bool) {
	if !rw.mu.TryLock() {
		return nil, false
	}
	return &WriteGuard[T]{rw: rw}, true
}

// RLockNow locks rw for reading immediately, outside of any group.
// Like Mutex.LockNow it bypasses ordering.
func (rw *RWMutex[T]) RLockNow() *ReadGuard[T] {
	rw.mu.RLock()
	return &ReadGuard[T]{rw: rw}
}

// TryRLockNow locks rw for reading if no writer holds it and reports whether
// it did.
func (rw *RWMutex[T]) TryRLockNow() (*ReadGuard[T], bool) {
	if !rw.mu.TryRLock() {
		return nil, false
	}
	return &ReadGuard[T]{rw: rw}, true
}

// String read-locks rw and formats the protected value.
func (rw *RWMutex[T]) String() string {
	g := rw.RLockNow()
	defer g.Unlock()
	return fmt.Sprint(g.rw.v)
}

// ReadRequest is a pending request to lock an RWMutex for reading.
// It implements Sortable[*ReadGuard[T]].
type ReadRequest[T any] struct {
	rw  *RWMutex[T]
	key Key
}

// SortKey returns the Key of the requested RWMutex.
func (r ReadRequest[T]) SortKey() Key {
	return r.key
}

// LockPresorted read-locks the RWMutex, blocking until it is available.
func (r ReadRequest[T]) LockPresorted() *ReadGuard[T] {
	return r.rw.RLockNow()
}

// TryLockPresorted read-locks the RWMutex if that does not block.
func (r ReadRequest[T]) TryLockPresorted() (*ReadGuard[T], bool) {
	return r.rw.TryRLockNow()
}

// WriteRequest is a pending request to lock an RWMutex for writing.
// It implements Sortable[*WriteGuard[T]].
type WriteRequest[T any] struct {
	rw  *RWMutex[T]
	key Key
}

// SortKey returns the Key of the requested RWMutex.
func (r WriteRequest[T]) SortKey() Key {
	return r.key
}

// LockPresorted write-locks the RWMutex, blocking until it is available.
func (r WriteRequest[T]) LockPresorted() *WriteGuard[T] {
	return r.rw.LockNow()
}

// TryLockPresorted write-locks the RWMutex if that does not block.
func (r WriteRequest[T]) TryLockPresorted() (*WriteGuard[T], bool) {
	return r.rw.TryLockNow()
}

// ReadGuard grants shared access to the value of a read-locked RWMutex.
type ReadGuard[T any] struct {
	_        noCopy
	rw       *RWMutex[T]
	released bool
}

// Value returns a copy of the protected value. Memory the value refers to
// (slices, maps, pointers) is shared with other readers and must only be
// read.
func (g *ReadGuard[T]) Value() T {
	if g.released {
		panic(errReleased)
	}
	return g.rw.v
}

// Unlock releases the read lock.
func (g *ReadGuard[T]) Unlock() {
	if g.released {
		panic(errReleased)
	}
	g.released = true
	g.rw.mu.RUnlock()
}

// WriteGuard grants exclusive access to the value of a write-locked RWMutex.
type WriteGuard[T any] struct {
	_        noCopy
	rw       *RWMutex[T]
	released bool
}

// Value returns a pointer to the protected value. The pointer must not be
// used after Unlock.
func (g *WriteGuard[T]) Value() *T {
	if g.released {
		panic(errReleased)
	}
	return &g.rw.v
}

// Unlock releases the write lock.
func (g *WriteGuard[T]) Unlock() {
	if g.released {
		panic(errReleased)
	}
	g.released = true
	g.rw.mu.Unlock()
}

var (
	_ Sortable[*ReadGuard[int]]  = ReadRequest[int]{}
	_ Sortable[*WriteGuard[int]] = WriteRequest[int]{}
)
