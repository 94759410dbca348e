package locks

import (
	"sync"
	"testing"
)

func TestLockSerialisesPerKey(t *testing.T) {
	keyed := NewKeyed()

	const workers = 50
	var counter int
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := keyed.Lock("user-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("expected %d increments, got %d", workers, counter)
	}
}

func TestDistinctKeysDoNotBlock(t *testing.T) {
	keyed := NewKeyed()

	unlockA := keyed.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := keyed.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestUnlockIsIdempotent(t *testing.T) {
	keyed := NewKeyed()

	unlock := keyed.Lock("a")
	unlock()
	unlock()

	// The key must be reusable afterwards.
	unlock = keyed.Lock("a")
	unlock()
}
