package sortlock

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSpinRWLock_Basic(t *testing.T) {
	var a int
	var rw spinRWLock
	rw.Lock()
	a = 1
	rw.Unlock()
	rw.RLock()
	_ = a
	rw.RUnlock()
}

func TestSpinRWLock_Try(t *testing.T) {
	var rw spinRWLock
	if !rw.TryRLock() || !rw.TryRLock() {
		t.Fatal("TryRLock failed without a writer")
	}
	if rw.TryLock() {
		t.Fatal("TryLock succeeded with readers")
	}
	rw.RUnlock()
	rw.RUnlock()
	if !rw.TryLock() {
		t.Fatal("TryLock failed on a free lock")
	}
	if rw.TryRLock() {
		t.Fatal("TryRLock succeeded with a writer")
	}
	rw.Unlock()
}

func TestSpinRWLock_WriterPreferred(t *testing.T) {
	var rw spinRWLock
	rw.RLock()

	acquired := make(chan struct{})
	go func() {
		rw.Lock()
		close(acquired)
		rw.Unlock()
	}()

	// Once the writer has claimed the write bit, new readers are refused.
	for rw.state.Load()&rwWriteMask == 0 {
		runtime.Gosched()
	}
	if rw.TryRLock() {
		t.Fatal("reader admitted while a writer waits")
	}
	rw.RUnlock()
	<-acquired
}

func TestSpinRWLock_ReadersAndWriters(t *testing.T) {
	var rw spinRWLock
	var readers int32
	var writers int32

	const loops = 1000
	readerN := runtime.GOMAXPROCS(0)
	writerN := 2

	var wg sync.WaitGroup
	wg.Add(readerN + writerN)

	for range readerN {
		go func() {
			defer wg.Done()
			for range loops {
				rw.RLock()
				n := atomic.AddInt32(&readers, 1)
				if atomic.LoadInt32(&writers) != 0 {
					t.Errorf("reader observed active writer")
					rw.RUnlock()
					return
				}
				if n <= 0 {
					t.Errorf("invalid reader count")
					rw.RUnlock()
					return
				}
				atomic.AddInt32(&readers, -1)
				rw.RUnlock()
			}
		}()
	}

	for range writerN {
		go func() {
			defer wg.Done()
			for range loops {
				rw.Lock()
				if atomic.AddInt32(&writers, 1) != 1 {
					t.Errorf("multiple writers active")
					rw.Unlock()
					return
				}
				if atomic.LoadInt32(&readers) != 0 {
					t.Errorf("writer observed active readers")
					rw.Unlock()
					return
				}
				atomic.AddInt32(&writers, -1)
				rw.Unlock()
			}
		}()
	}

	wg.Wait()
}
