package sortlock

import (
	"context"
)

// LockAll1 acquires a single request. It exists so that code generic over
// group size has a uniform entry point.
func LockAll1[G1 Unlocker](s1 Sortable[G1]) (g1 G1) {
	g := newGroup(s1.SortKey())
	g.lock(func(i int, act action) bool {
		return step(s1, &g1, act)
	})
	return
}

// LockAll2 acquires two requests in Key order and returns their guards in
// argument order.
func LockAll2[G1, G2 Unlocker](s1 Sortable[G1], s2 Sortable[G2]) (g1 G1, g2 G2) {
	g := newGroup(s1.SortKey(), s2.SortKey())
	g.lock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		default:
			return step(s2, &g2, act)
		}
	})
	return
}

// LockAll3 is LockAll2 for 3 requests.
func LockAll3[G1, G2, G3 Unlocker](
	s1 Sortable[G1],
	s2 Sortable[G2],
	s3 Sortable[G3],
) (g1 G1, g2 G2, g3 G3) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey())
	g.lock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		default:
			return step(s3, &g3, act)
		}
	})
	return
}

// LockAll4 is LockAll2 for 4 requests.
func LockAll4[G1, G2, G3, G4 Unlocker](
	s1 Sortable[G1],
	s2 Sortable[G2],
	s3 Sortable[G3],
	s4 Sortable[G4],
) (g1 G1, g2 G2, g3 G3, g4 G4) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey(), s4.SortKey())
	g.lock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		case 2:
			return step(s3, &g3, act)
		default:
			return step(s4, &g4, act)
		}
	})
	return
}

// LockAll5 is LockAll2 for 5 requests.
func LockAll5[G1, G2, G3, G4, G5 Unlocker](
	s1 Sortable[G1],
	s2 Sortable[G2],
	s3 Sortable[G3],
	s4 Sortable[G4],
	s5 Sortable[G5],
) (g1 G1, g2 G2, g3 G3, g4 G4, g5 G5) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey(), s4.SortKey(), s5.SortKey())
	g.lock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		case 2:
			return step(s3, &g3, act)
		case 3:
			return step(s4, &g4, act)
		default:
			return step(s5, &g5, act)
		}
	})
	return
}

// TryLockAll1 acquires a single request if that does not block.
func TryLockAll1[G1 Unlocker](s1 Sortable[G1]) (g1 G1, ok bool) {
	g := newGroup(s1.SortKey())
	ok = g.tryLock(func(i int, act action) bool {
		return step(s1, &g1, act)
	})
	return
}

// TryLockAll2 acquires two requests in Key order without blocking. If
// either lock is busy, nothing stays locked, the guards are nil and ok is
// false.
func TryLockAll2[G1, G2 Unlocker](s1 Sortable[G1], s2 Sortable[G2]) (g1 G1, g2 G2, ok bool) {
	g := newGroup(s1.SortKey(), s2.SortKey())
	ok = g.tryLock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		default:
			return step(s2, &g2, act)
		}
	})
	return
}

// TryLockAll3 is TryLockAll2 for 3 requests.
func TryLockAll3[G1, G2, G3 Unlocker](
	s1 Sortable[G1],
	s2 Sortable[G2],
	s3 Sortable[G3],
) (g1 G1, g2 G2, g3 G3, ok bool) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey())
	ok = g.tryLock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		default:
			return step(s3, &g3, act)
		}
	})
	return
}

// TryLockAll4 is TryLockAll2 for 4 requests.
func TryLockAll4[G1, G2, G3, G4 Unlocker](
	s1 Sortable[G1],
	s2 Sortable[G2],
	s3 Sortable[G3],
	s4 Sortable[G4],
) (g1 G1, g2 G2, g3 G3, g4 G4, ok bool) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey(), s4.SortKey())
	ok = g.tryLock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		case 2:
			return step(s3, &g3, act)
		default:
			return step(s4, &g4, act)
		}
	})
	return
}

// TryLockAll5 is TryLockAll2 for 5 requests.
func TryLockAll5[G1, G2, G3, G4, G5 Unlocker](
	s1 Sortable[G1],
	s2 Sortable[G2],
	s3 Sortable[G3],
	s4 Sortable[G4],
	s5 Sortable[G5],
) (g1 G1, g2 G2, g3 G3, g4 G4, g5 G5, ok bool) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey(), s4.SortKey(), s5.SortKey())
	ok = g.tryLock(func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		case 2:
			return step(s3, &g3, act)
		case 3:
			return step(s4, &g4, act)
		default:
			return step(s5, &g5, act)
		}
	})
	return
}

// LockAll1Context acquires a single request, giving up when ctx is done.
func LockAll1Context[G1 Unlocker](
	ctx context.Context,
	s1 Sortable[G1],
) (g1 G1, err error) {
	g := newGroup(s1.SortKey())
	err = g.lockContext(ctx, func(i int, act action) bool {
		return step(s1, &g1, act)
	})
	return
}

// LockAll2Context acquires two requests in Key order, waiting on busy locks
// until ctx is done. On cancellation every lock already taken is released
// and ctx.Err() is returned with nil guards.
//
// Waiting polls the locks with backoff instead of queueing on them, so under
// sustained contention LockAll2 has better throughput; use the Context form
// where bounding the wait matters more.
func LockAll2Context[G1, G2 Unlocker](
	ctx context.Context,
	s1 Sortable[G1], s2 Sortable[G2],
) (g1 G1, g2 G2, err error) {
	g := newGroup(s1.SortKey(), s2.SortKey())
	err = g.lockContext(ctx, func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		default:
			return step(s2, &g2, act)
		}
	})
	return
}

// LockAll3Context is LockAll2Context for 3 requests.
func LockAll3Context[G1, G2, G3 Unlocker](
	ctx context.Context,
	s1 Sortable[G1], s2 Sortable[G2], s3 Sortable[G3],
) (g1 G1, g2 G2, g3 G3, err error) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey())
	err = g.lockContext(ctx, func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		default:
			return step(s3, &g3, act)
		}
	})
	return
}

// LockAll4Context is LockAll2Context for 4 requests.
func LockAll4Context[G1, G2, G3, G4 Unlocker](
	ctx context.Context,
	s1 Sortable[G1], s2 Sortable[G2], s3 Sortable[G3], s4 Sortable[G4],
) (g1 G1, g2 G2, g3 G3, g4 G4, err error) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey(), s4.SortKey())
	err = g.lockContext(ctx, func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		case 2:
			return step(s3, &g3, act)
		default:
			return step(s4, &g4, act)
		}
	})
	return
}

// LockAll5Context is LockAll2Context for 5 requests.
func LockAll5Context[G1, G2, G3, G4, G5 Unlocker](
	ctx context.Context,
	s1 Sortable[G1], s2 Sortable[G2], s3 Sortable[G3], s4 Sortable[G4], s5 Sortable[G5],
) (g1 G1, g2 G2, g3 G3, g4 G4, g5 G5, err error) {
	g := newGroup(s1.SortKey(), s2.SortKey(), s3.SortKey(), s4.SortKey(), s5.SortKey())
	err = g.lockContext(ctx, func(i int, act action) bool {
		switch i {
		case 0:
			return step(s1, &g1, act)
		case 1:
			return step(s2, &g2, act)
		case 2:
			return step(s3, &g3, act)
		case 3:
			return step(s4, &g4, act)
		default:
			return step(s5, &g5, act)
		}
	})
	return
}
