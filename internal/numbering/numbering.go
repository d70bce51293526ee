// Package numbering assigns the integer identifiers shown to restaurant staff.
//
// Tables and orders/sales follow different rules and are kept as separate
// types: table numbers are gap-filled so freed numbers are handed out again,
// while order and sale numbers come from a counter that only moves forward.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidValue is returned when a counter yields a number that is not positive.
var ErrInvalidValue = errors.New("allocator produced a non-positive number")

// Allocator hands out the next identifier.
type Allocator interface {
	Next(ctx context.Context) (int32, error)
}

// GapFilling allocates the smallest positive integer not currently in use.
type GapFilling struct {
	used func(ctx context.Context) ([]int32, error)
}

// NewGapFilling creates a GapFilling allocator over the set returned by used.
func NewGapFilling(used func(ctx context.Context) ([]int32, error)) *GapFilling {
	return &GapFilling{used: used}
}

// Next reads the numbers in use and returns the smallest free one.
func (g *GapFilling) Next(ctx context.Context) (int32, error) {
	used, err := g.used(ctx)
	if err != nil {
		return 0, fmt.Errorf("read used numbers: %w", err)
	}
	return SmallestUnused(used), nil
}

// SmallestUnused returns the minimum positive integer absent from used.
// Non-positive and duplicate entries are ignored; used is not modified.
func SmallestUnused(used []int32) int32 {
	sorted := make([]int32, 0, len(used))
	for _, n := range used {
		if n > 0 {
			sorted = append(sorted, n)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	next := int32(1)
	for _, n := range sorted {
		if n == next {
			next++
		} else if n > next {
			break
		}
	}
	return next
}

// Sequence allocates from a strictly increasing counter owned by the store
// (a PostgreSQL identity sequence). Numbers are never reused or gap-filled.
type Sequence struct {
	next func(ctx context.Context) (int32, error)
}

// NewSequence creates a Sequence backed by next.
func NewSequence(next func(ctx context.Context) (int32, error)) *Sequence {
	return &Sequence{next: next}
}

// Next advances the counter.
func (s *Sequence) Next(ctx context.Context) (int32, error) {
	n, err := s.next(ctx)
	if err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidValue, n)
	}
	return n, nil
}
