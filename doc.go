// Package sortlock provides mutexes and reader/writer locks that are always
// acquired in the same global order, whatever order the caller asks for
// them in.
//
// Each lock gets a unique Key when it is created. Instead of locking
// directly, callers take a pending request from every lock they need
// (Mutex.Request, RWMutex.ReadRequest, RWMutex.WriteRequest) and hand the
// whole set to one of the LockAll functions, which sorts the requests by
// Key, locks them from the smallest Key up and returns the guards in the
// order the requests were passed:
//
//	lock1 := sortlock.NewMutex("some value")
//	lock2 := sortlock.NewMutex("some other value")
//
//	// lock1 is locked, then lock2.
//	g1, g2 := sortlock.LockAll2(lock1.Request(), lock2.Request())
//	g1.Unlock()
//	g2.Unlock()
//
//	// Still lock1, then lock2; g2 and g1 keep their argument positions.
//	g2, g1 = sortlock.LockAll2(lock2.Request(), lock1.Request())
//
// Two goroutines locking overlapping groups this way contend on the lowest
// shared Key first, so neither can hold a higher lock while waiting for a
// lower one held by the other: the classic lock-order deadlock cannot
// happen. The guarantee only covers locks taken through the LockAll family
// (or singly). LockNow and friends bypass ordering.
//
// Taking the same lock twice in one group panics before anything is locked.
// TryLockAll and LockAllContext variants roll back the locks already taken
// when they give up.
//
// By default locks park waiting goroutines through sync.Mutex and
// sync.RWMutex. Building with -tags=sortlock_spin switches to spin-based
// primitives; only the waiting strategy changes.
package sortlock
