package shared

import (
	"sync"
	"testing"
)

func TestSpinLockMutualExclusion(t *testing.T) {
	var lock SpinLock
	counter := 0

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				lock.Lock()
				counter++
				lock.Unlock()
			}
		}()
	}
	wg.Wait()

	if counter != 8000 {
		t.Fatalf("counter = %d, want 8000", counter)
	}
}

func TestSpinLockTryLock(t *testing.T) {
	var lock SpinLock
	if !lock.TryLock() {
		t.Fatal("free lock not acquired")
	}
	if lock.TryLock() {
		t.Fatal("held lock acquired twice")
	}
	lock.Unlock()
	if !lock.TryLock() {
		t.Fatal("released lock not acquired")
	}
}

func TestBufferAccessChecksSize(t *testing.T) {
	b, err := NewBuffer[float64](16)
	if err != nil {
		t.Fatal(err)
	}

	if got := b.Access(16); len(got) != 16 {
		t.Fatalf("matching access returned %d elements", len(got))
	}
	if got := b.Access(8); got != nil {
		t.Fatal("mismatched access returned a block")
	}
}

func TestOldHandleSurvivesResize(t *testing.T) {
	b, err := NewBuffer[float64](4)
	if err != nil {
		t.Fatal(err)
	}

	old := b.Access(4)
	old[0] = 42

	fresh, err := b.Resize(8)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 8 {
		t.Fatalf("resized block has %d elements", len(fresh))
	}
	if &fresh[0] == &old[0] {
		t.Fatal("resize reused the old block")
	}

	// The pre-resize handle still reads its own data.
	if old[0] != 42 {
		t.Fatalf("old handle corrupted: %v", old[0])
	}
	if fresh[0] != 0 {
		t.Fatalf("fresh block not zeroed: %v", fresh[0])
	}
	if got := b.Access(4); got != nil {
		t.Fatal("stale size still accessible after resize")
	}
}

func TestResizeSameSizeKeepsBlock(t *testing.T) {
	b, err := NewBuffer[int](8)
	if err != nil {
		t.Fatal(err)
	}

	before := b.Current()
	before[3] = 7
	after, err := b.Resize(8)
	if err != nil {
		t.Fatal(err)
	}
	if &after[0] != &before[0] {
		t.Fatal("same-size resize replaced the block")
	}
	if after[3] != 7 {
		t.Fatal("same-size resize lost contents")
	}
}

func TestConcurrentResizeAndAccess(t *testing.T) {
	b, err := NewBuffer[float64](1)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for size := 1; ; size = size%64 + 1 {
			select {
			case <-stop:
				return
			default:
			}
			if _, err := b.Resize(size); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for range 10000 {
		block := b.Current()
		for i := range block {
			block[i] = 1
		}
	}
	close(stop)
	wg.Wait()
}
