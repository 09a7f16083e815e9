package shared

import (
	"fmt"
	"sync/atomic"
)

// Buffer publishes a resizable block of T to concurrent readers. Readers
// that obtained a block before a resize keep using it safely; new
// acquisitions see the latest block.
type Buffer[T any] struct {
	current atomic.Pointer[[]T]
	resize  SpinLock
}

// NewBuffer returns a Buffer holding size elements.
func NewBuffer[T any](size int) (*Buffer[T], error) {
	if size < 0 {
		return nil, fmt.Errorf("shared: negative buffer size: %d", size)
	}

	b := &Buffer[T]{}
	block := make([]T, size)
	b.current.Store(&block)
	return b, nil
}

// Access returns the current block when its size matches required, or
// nil otherwise. The returned slice stays valid across later resizes.
func (b *Buffer[T]) Access(required int) []T {
	block := *b.current.Load()
	if len(block) != required {
		return nil
	}
	return block
}

// Current returns the current block regardless of size.
func (b *Buffer[T]) Current() []T {
	return *b.current.Load()
}

// Size returns the length of the current block.
func (b *Buffer[T]) Size() int {
	return len(*b.current.Load())
}

// Resize swaps in a fresh zeroed block of the required size. A matching
// size leaves the current block in place. Concurrent resizes are
// serialised.
func (b *Buffer[T]) Resize(required int) ([]T, error) {
	if required < 0 {
		return nil, fmt.Errorf("shared: negative buffer size: %d", required)
	}

	b.resize.Lock()
	defer b.resize.Unlock()

	if block := *b.current.Load(); len(block) == required {
		return block, nil
	}
	block := make([]T, required)
	b.current.Store(&block)
	return block, nil
}
