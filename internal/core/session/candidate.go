package session

import (
	"fmt"
	"sort"
)

// Sequence is a fetched nucleotide sequence and the gene it belongs to.
// It is replaced wholesale on every fetch and never mutated in place.
type Sequence struct {
	GeneID   string
	Residues string
}

// Len returns the sequence length in bases.
func (s Sequence) Len() int {
	return len(s.Residues)
}

// GuideCandidate is one guide proposed by the design service.
type GuideCandidate struct {
	CandidateID      string
	Locus            int
	GuideSequence    string
	PAMSequence      string
	GCContent        float64 // percentage, 0-100
	OnTargetScore    float64
	OffTargetPenalty float64
	CompositeScore   float64
}

// ValidateCandidates checks that candidate IDs are present and unique within a result set.
func ValidateCandidates(candidates []GuideCandidate) error {
	seen := make(map[string]int, len(candidates))
	for i, c := range candidates {
		if c.CandidateID == "" {
			return fmt.Errorf("candidate at rank %d has no candidate_id", i+1)
		}
		if prev, dup := seen[c.CandidateID]; dup {
			return fmt.Errorf("duplicate candidate_id %q at ranks %d and %d", c.CandidateID, prev+1, i+1)
		}
		seen[c.CandidateID] = i
	}
	return nil
}

// SortKey names a column candidates can be re-sorted by for display.
type SortKey string

const (
	SortByRank      SortKey = "rank"
	SortByComposite SortKey = "composite"
	SortByOnTarget  SortKey = "on-target"
	SortByOffTarget SortKey = "off-target"
	SortByGC        SortKey = "gc"
	SortByLocus     SortKey = "locus"
)

// SortCandidates returns a re-sorted copy of candidates. The input slice is not modified.
// SortByRank keeps the service order.
func SortCandidates(candidates []GuideCandidate, key SortKey, desc bool) ([]GuideCandidate, error) {
	out := make([]GuideCandidate, len(candidates))
	copy(out, candidates)

	var value func(GuideCandidate) float64
	switch key {
	case SortByRank, "":
		return out, nil
	case SortByComposite:
		value = func(c GuideCandidate) float64 { return c.CompositeScore }
	case SortByOnTarget:
		value = func(c GuideCandidate) float64 { return c.OnTargetScore }
	case SortByOffTarget:
		value = func(c GuideCandidate) float64 { return c.OffTargetPenalty }
	case SortByGC:
		value = func(c GuideCandidate) float64 { return c.GCContent }
	case SortByLocus:
		value = func(c GuideCandidate) float64 { return float64(c.Locus) }
	default:
		return nil, fmt.Errorf("unknown sort key %q", key)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return value(out[i]) > value(out[j])
		}
		return value(out[i]) < value(out[j])
	})
	return out, nil
}
