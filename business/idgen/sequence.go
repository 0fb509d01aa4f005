package idgen

import (
	"context"
	"fmt"
	"sync"
)

// MaxIDReader reports the largest id currently stored, 0 when empty.
type MaxIDReader interface {
	MaxID(ctx context.Context) (uint64, error)
}

// Sequence is an in-process id allocator. It is only safe as the single
// writer of ids; run the redis sequence when several replicas create records.
type Sequence struct {
	mu      sync.Mutex
	current uint64
}

// NewSequence returns a sequence whose first id is start+1.
func NewSequence(start uint64) *Sequence {
	return &Sequence{current: start}
}

// NewSequenceFromStore seeds the sequence with the store's maximum id.
func NewSequenceFromStore(ctx context.Context, src MaxIDReader) (*Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	maxID, err := src.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read max recommendation id: %w", err)
	}

	return NewSequence(maxID), nil
}

func (s *Sequence) Next(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current++

	return s.current, nil
}

// Current returns the last id handed out.
func (s *Sequence) Current() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}
