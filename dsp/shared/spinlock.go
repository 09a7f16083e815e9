package shared

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a busy-waiting mutual exclusion lock for very short
// critical sections. The zero value is unlocked. A SpinLock must not be
// copied after first use.
type SpinLock struct {
	_    noCopy
	busy atomic.Bool
}

// Lock spins until the lock is acquired.
func (s *SpinLock) Lock() {
	for !s.busy.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock without blocking and reports success.
func (s *SpinLock) TryLock() bool {
	return s.busy.CompareAndSwap(false, true)
}

// Unlock releases the lock.
func (s *SpinLock) Unlock() {
	s.busy.Store(false)
}

// noCopy triggers go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
