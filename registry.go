package sortlock

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry hands out a Mutex per name, creating it on first use.
// It lets code that only knows resources by name (user IDs, file paths,
// table names) lock several of them without deadlocking:
//
//	var accounts sortlock.Registry[string, int64]
//
//	from, to := sortlock.LockAll2(
//		accounts.Mutex(src).Request(),
//		accounts.Mutex(dst).Request(),
//	)
//	*from.Value() -= amount
//	*to.Value() += amount
//	from.Unlock()
//	to.Unlock()
//
// The zero Registry is ready to use. A Registry must not be copied after
// first use.
type Registry[K comparable, T any] struct {
	_ noCopy
	// New optionally builds the initial value for a name. If nil, new
	// locks hold the zero T. Callers racing on a new name may each run New;
	// only one result is kept.
	New func(k K) T
	m   namedLocks[K, *Mutex[T]]
}

// Mutex returns the lock for k, creating it if needed. Concurrent callers
// asking for the same name get the same lock.
func (r *Registry[K, T]) Mutex(k K) *Mutex[T] {
	return r.m.loadOrCreate(k, func() *Mutex[T] {
		return NewMutex(initial(r.New, k))
	})
}

// Load returns the lock for k if it exists.
func (r *Registry[K, T]) Load(k K) (*Mutex[T], bool) {
	return r.m.Load(k)
}

// Delete forgets the lock for k. A later Mutex(k) creates a new lock with a
// new Key, so Delete must only be called once no goroutine uses k anymore.
func (r *Registry[K, T]) Delete(k K) {
	r.m.Delete(k)
}

// Range calls f for every lock in the registry until f returns false.
func (r *Registry[K, T]) Range(f func(k K, m *Mutex[T]) bool) {
	r.m.Range(f)
}

// RWRegistry is Registry for RWMutex.
type RWRegistry[K comparable, T any] struct {
	_ noCopy
	// New optionally builds the initial value for a name. If nil, new
	// locks hold the zero T. Callers racing on a new name may each run New;
	// only one result is kept.
	New func(k K) T
	m   namedLocks[K, *RWMutex[T]]
}

// RWMutex returns the lock for k, creating it if needed.
func (r *RWRegistry[K, T]) RWMutex(k K) *RWMutex[T] {
	return r.m.loadOrCreate(k, func() *RWMutex[T] {
		return NewRWMutex(initial(r.New, k))
	})
}

// Load returns the lock for k if it exists.
func (r *RWRegistry[K, T]) Load(k K) (*RWMutex[T], bool) {
	return r.m.Load(k)
}

// Delete forgets the lock for k. See Registry.Delete.
func (r *RWRegistry[K, T]) Delete(k K) {
	r.m.Delete(k)
}

// Range calls f for every lock in the registry until f returns false.
func (r *RWRegistry[K, T]) Range(f func(k K, rw *RWMutex[T]) bool) {
	r.m.Range(f)
}

// namedLocks is a concurrent name -> lock map whose zero value is ready to
// use. The backing map is allocated on first access.
type namedLocks[K comparable, L any] struct {
	p atomic.Pointer[xsync.Map[K, L]]
}

func (n *namedLocks[K, L]) m() *xsync.Map[K, L] {
	if m := n.p.Load(); m != nil {
		return m
	}
	m := xsync.NewMap[K, L]()
	if n.p.CompareAndSwap(nil, m) {
		return m
	}
	return n.p.Load()
}

func (n *namedLocks[K, L]) Load(k K) (L, bool) {
	return n.m().Load(k)
}

// loadOrCreate returns the lock stored for k. On a miss it stores create()
// unless another goroutine got there first, in which case the loser's lock
// is dropped before anyone sees it.
func (n *namedLocks[K, L]) loadOrCreate(k K, create func() L) L {
	m := n.m()
	if l, ok := m.Load(k); ok {
		return l
	}
	l, _ := m.LoadOrStore(k, create())
	return l
}

func (n *namedLocks[K, L]) Delete(k K) {
	n.m().Delete(k)
}

func (n *namedLocks[K, L]) Range(f func(k K, l L) bool) {
	n.m().Range(f)
}

func initial[K comparable, T any](newFn func(K) T, k K) T {
	if newFn == nil {
		var zero T
		return zero
	}
	return newFn(k)
}
