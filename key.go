package sortlock

import (
	"cmp"
	"sync/atomic"
	"unsafe"

	"github.com/llxisdsh/sortlock/internal/opt"
)

// Key is the sort key of a lock. Keys are unique per lock for the life of
// the process and totally ordered; group acquisition always locks the
// smaller key first.
//
// The zero Key is never handed out and marks a lock whose key has not been
// assigned yet.
type Key uint64

// keySeq is the process-wide key sequence. It sits on its own cache line so
// that constructing locks on many cores does not false-share with
// neighbouring globals.
var keySeq struct {
	_ [opt.CacheLineSize_]byte
	n atomic.Uint64
	_ [opt.CacheLineSize_ - unsafe.Sizeof(uint64(0))%opt.CacheLineSize_]byte
}

// NewKey returns a new unique Key.
//
// Types implementing Sortable outside this package should obtain their key
// from NewKey once and keep it for their whole life.
func NewKey() Key {
	return Key(keySeq.n.Add(1))
}

// Compare returns -1, 0 or +1 depending on whether k sorts before, equal to
// or after other.
func (k Key) Compare(other Key) int {
	return cmp.Compare(k, other)
}

// lazyKey assigns a Key on first use, so that zero-value locks work.
type lazyKey struct {
	v atomic.Uint64
}

func (l *lazyKey) init() {
	l.v.Store(uint64(NewKey()))
}

//go:nosplit
func (l *lazyKey) load() Key {
	if k := l.v.Load(); k != 0 {
		return Key(k)
	}
	return l.slowLoad()
}

func (l *lazyKey) slowLoad() Key {
	// Losing the race wastes one sequence number; every caller still
	// observes the single key that won.
	l.v.CompareAndSwap(0, uint64(NewKey()))
	return Key(l.v.Load())
}
