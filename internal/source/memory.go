package source

import (
	"context"
	"fmt"

	"github.com/desertthunder/abx/internal/shared"
)

// MemorySource serves records held in memory.
type MemorySource struct {
	records []Record
	owner   Record
	closed  bool
}

var (
	_ Source      = (*MemorySource)(nil)
	_ OwnerSource = (*MemorySource)(nil)
)

// NewMemorySource creates a [MemorySource] over records, in order.
func NewMemorySource(records ...Record) *MemorySource {
	return &MemorySource{records: records}
}

// WithOwner sets the record returned by [MemorySource.Me].
func (s *MemorySource) WithOwner(owner Record) *MemorySource {
	s.owner = owner
	return s
}

// Opener returns an [Opener] that hands out this source. Closing it does not prevent reopening.
func (s *MemorySource) Opener() Opener {
	return func(ctx context.Context) (Source, error) {
		return &MemorySource{records: s.records, owner: s.owner}, nil
	}
}

// Count returns the number of records.
func (s *MemorySource) Count(ctx context.Context) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("%w: source closed", shared.ErrSourceUnavailable)
	}
	return len(s.records), nil
}

// Record returns the record at index.
func (s *MemorySource) Record(ctx context.Context, index int) (Record, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: source closed", shared.ErrSourceUnavailable)
	}
	if err := checkIndex(index, len(s.records)); err != nil {
		return nil, err
	}
	return s.records[index], nil
}

// Me returns the owner record, or [shared.ErrNoOwner].
func (s *MemorySource) Me(ctx context.Context) (Record, error) {
	if s.owner == nil {
		return nil, shared.ErrNoOwner
	}
	return s.owner, nil
}

// Close marks the source closed.
func (s *MemorySource) Close() error {
	s.closed = true
	return nil
}
