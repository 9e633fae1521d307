// Package session contains the pure business logic of a guide design session.
// This is part of the Functional Core - no I/O, only pure functions.
package session

import (
	"errors"
	"fmt"
)

// ErrInvalidRegion is returned when a region does not fit the loaded sequence.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a half-open [Start, End) base-pair window into the loaded sequence.
type Region struct {
	Start int
	End   int
}

// NewRegion builds a region for a sequence of seqLen bases.
// Rule: 0 <= start <= end <= seqLen. Out-of-range values are rejected, never clamped.
func NewRegion(start, end, seqLen int) (Region, error) {
	switch {
	case start < 0:
		return Region{}, fmt.Errorf("%w: start %d is negative", ErrInvalidRegion, start)
	case end > seqLen:
		return Region{}, fmt.Errorf("%w: end %d exceeds sequence length %d", ErrInvalidRegion, end, seqLen)
	case start > end:
		return Region{}, fmt.Errorf("%w: start %d is after end %d", ErrInvalidRegion, start, end)
	}
	return Region{Start: start, End: end}, nil
}

// FullRegion returns the region covering a whole sequence of seqLen bases.
func FullRegion(seqLen int) Region {
	return Region{Start: 0, End: seqLen}
}

// Len returns the number of bases covered by the region.
func (r Region) Len() int {
	return r.End - r.Start
}

func (r Region) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
