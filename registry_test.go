package sortlock

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/llxisdsh/sortlock/internal/opt"
)

func TestRegistry_SameLockPerName(t *testing.T) {
	var r Registry[string, int]
	const n = 100
	got := make([]*Mutex[int], n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			got[i] = r.Mutex("k")
		}()
	}
	wg.Wait()
	for _, m := range got {
		require.Same(t, got[0], m)
	}

	other := r.Mutex("other")
	assert.NotSame(t, got[0], other)
	assert.NotEqual(t, got[0].SortKey(), other.SortKey())

	m, ok := r.Load("k")
	require.True(t, ok)
	assert.Same(t, got[0], m)
	_, ok = r.Load("missing")
	assert.False(t, ok)
}

func TestRegistry_ZeroValueConcurrentFirstUse(t *testing.T) {
	for range 20 {
		var r Registry[int, int]
		var eg errgroup.Group
		got := make([]*Mutex[int], 8)
		for i := range got {
			eg.Go(func() error {
				got[i] = r.Mutex(0)
				return nil
			})
		}
		require.NoError(t, eg.Wait())
		for _, m := range got {
			require.Same(t, got[0], m)
		}
	}
}

func TestRegistry_ConcurrentChurn(t *testing.T) {
	var r Registry[string, int]
	const workers, names = 8, 16
	rounds := 500
	if opt.Race_ {
		rounds = 100
	}

	var eg errgroup.Group
	for w := range workers {
		eg.Go(func() error {
			for i := range rounds {
				k := fmt.Sprint((w + i) % names)
				switch i % 4 {
				case 0:
					r.Delete(k)
				case 1:
					if m, ok := r.Load(k); ok && m == nil {
						return fmt.Errorf("nil lock stored for %q", k)
					}
				case 2:
					r.Range(func(string, *Mutex[int]) bool { return true })
				default:
					g := r.Mutex(k).LockNow()
					*g.Value()++
					g.Unlock()
				}
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	r.Range(func(k string, m *Mutex[int]) bool {
		l, ok := r.Load(k)
		assert.True(t, ok)
		assert.Same(t, m, l)
		return true
	})
}

func TestRegistry_New(t *testing.T) {
	r := Registry[string, string]{New: func(k string) string { return "init:" + k }}
	g := r.Mutex("a").LockNow()
	assert.Equal(t, "init:a", *g.Value())
	*g.Value() = "changed"
	g.Unlock()

	// Existing locks keep their value.
	assert.Equal(t, "changed", r.Mutex("a").String())
}

func TestRegistry_DeleteRange(t *testing.T) {
	var r Registry[int, int]
	for i := range 3 {
		r.Mutex(i)
	}
	old := r.Mutex(1)
	r.Delete(1)
	_, ok := r.Load(1)
	assert.False(t, ok)
	assert.NotSame(t, old, r.Mutex(1))

	seen := map[int]bool{}
	r.Range(func(k int, m *Mutex[int]) bool {
		seen[k] = true
		return true
	})
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
}

func TestRegistry_Transfer(t *testing.T) {
	accounts := Registry[string, int]{New: func(string) int { return 1000 }}
	names := []string{"alice", "bob", "carol"}
	const rounds = 200

	var wg sync.WaitGroup
	wg.Add(len(names))
	for i, src := range names {
		dst := names[(i+1)%len(names)]
		go func() {
			defer wg.Done()
			for range rounds {
				from, to := LockAll2(accounts.Mutex(src).Request(), accounts.Mutex(dst).Request())
				*from.Value() -= 10
				*to.Value() += 10
				to.Unlock()
				from.Unlock()
			}
		}()
	}
	wg.Wait()

	total := 0
	accounts.Range(func(_ string, m *Mutex[int]) bool {
		g := m.LockNow()
		total += *g.Value()
		g.Unlock()
		return true
	})
	assert.Equal(t, 3000, total)
}

func TestRWRegistry(t *testing.T) {
	var r RWRegistry[string, []string]
	a := r.RWMutex("a")
	require.Same(t, a, r.RWMutex("a"))

	w, rd := LockAll2(r.RWMutex("a").WriteRequest(), r.RWMutex("b").ReadRequest())
	*w.Value() = append(*w.Value(), "x")
	assert.Empty(t, rd.Value())
	w.Unlock()
	rd.Unlock()

	got, ok := r.Load("a")
	require.True(t, ok)
	assert.Equal(t, "[x]", got.String())

	n := 0
	r.Range(func(string, *RWMutex[[]string]) bool {
		n++
		return true
	})
	assert.Equal(t, 2, n)

	r.Delete("b")
	_, ok = r.Load("b")
	assert.False(t, ok)
}
