package session

import "testing"

func loaded(geneID, residues string) Snapshot {
	s := Reduce(Empty(), FetchIssued{GeneID: geneID})
	return Reduce(s, SequenceFetched{Tag: s.LatestFetchTag, Sequence: Sequence{GeneID: geneID, Residues: residues}})
}

func guides(ids ...string) []GuideCandidate {
	out := make([]GuideCandidate, len(ids))
	for i, id := range ids {
		out[i] = GuideCandidate{CandidateID: id, CompositeScore: float64(i)}
	}
	return out
}

func TestReduce_SequenceFetchedResetsRegion(t *testing.T) {
	s := loaded("P50607", "ACGTACGTAC")
	s = Reduce(s, RegionSelected{Region: Region{2, 5}})

	s = Reduce(s, FetchIssued{GeneID: "Q9"})
	if s.FetchInFlight != 1 || !s.Loading() {
		t.Fatalf("expected fetch in flight, got %+v", s)
	}
	s = Reduce(s, SequenceFetched{Tag: s.LatestFetchTag, Sequence: Sequence{GeneID: "Q9", Residues: "ACGTAC"}})

	if s.Region != (Region{0, 6}) {
		t.Errorf("Region = %+v, want {0 6}", s.Region)
	}
	if s.Sequence.GeneID != "Q9" || s.FetchInFlight != 0 {
		t.Errorf("unexpected snapshot %+v", s)
	}
}

func TestReduce_FetchFailedKeepsPriorSequence(t *testing.T) {
	s := loaded("P50607", "ACGTACGTAC")
	s = Reduce(s, RegionSelected{Region: Region{1, 4}})
	prevSeq := s.Sequence

	s = Reduce(s, FetchIssued{GeneID: "BAD"})
	s = Reduce(s, FetchFailed{Tag: s.LatestFetchTag, Message: "404"})

	if s.Sequence != prevSeq {
		t.Error("sequence replaced by failed fetch")
	}
	if s.Region != (Region{1, 4}) {
		t.Errorf("Region = %+v, want {1 4}", s.Region)
	}
	if s.LastError != "404" || s.FetchInFlight != 0 {
		t.Errorf("unexpected snapshot %+v", s)
	}
}

func TestReduce_StaleFetchDiscarded(t *testing.T) {
	s := Reduce(Empty(), FetchIssued{GeneID: "A"})
	tagA := s.LatestFetchTag
	s = Reduce(s, FetchIssued{GeneID: "B"})
	tagB := s.LatestFetchTag

	s = Reduce(s, SequenceFetched{Tag: tagB, Sequence: Sequence{GeneID: "B", Residues: "GG"}})
	s = Reduce(s, SequenceFetched{Tag: tagA, Sequence: Sequence{GeneID: "A", Residues: "AAAA"}})

	if s.Sequence.GeneID != "B" {
		t.Errorf("Sequence.GeneID = %q, want B", s.Sequence.GeneID)
	}
	if s.FetchInFlight != 0 {
		t.Errorf("FetchInFlight = %d, want 0", s.FetchInFlight)
	}
}

func TestReduce_GuidesReplacedWholesale(t *testing.T) {
	s := loaded("G", "ACGT")

	s = Reduce(s, DesignIssued{GeneID: "G", Region: s.Region})
	s = Reduce(s, GuidesDesigned{Tag: s.LatestDesignTag, Candidates: guides("a1", "a2", "a3")})
	s = Reduce(s, DesignIssued{GeneID: "G", Region: s.Region})
	s = Reduce(s, GuidesDesigned{Tag: s.LatestDesignTag, Candidates: guides("b1")})

	if len(s.Candidates) != 1 || s.Candidates[0].CandidateID != "b1" {
		t.Errorf("Candidates = %+v, want only b1", s.Candidates)
	}
}

func TestReduce_LastRequestWins(t *testing.T) {
	s := loaded("G", "ACGT")

	s = Reduce(s, DesignIssued{GeneID: "G", Region: s.Region})
	tagA := s.LatestDesignTag
	s = Reduce(s, DesignIssued{GeneID: "G", Region: s.Region})
	tagB := s.LatestDesignTag
	if s.DesignInFlight != 2 {
		t.Fatalf("DesignInFlight = %d, want 2", s.DesignInFlight)
	}

	// B resolves before A.
	s = Reduce(s, GuidesDesigned{Tag: tagB, Candidates: guides("b1")})
	s = Reduce(s, GuidesDesigned{Tag: tagA, Candidates: guides("a1", "a2")})

	if len(s.Candidates) != 1 || s.Candidates[0].CandidateID != "b1" {
		t.Errorf("Candidates = %+v, want only b1", s.Candidates)
	}
	if s.DesignInFlight != 0 || s.Loading() {
		t.Errorf("DesignInFlight = %d, want 0", s.DesignInFlight)
	}
}

func TestReduce_DesignFailedKeepsCandidates(t *testing.T) {
	s := loaded("G", "ACGT")
	s = Reduce(s, DesignIssued{GeneID: "G"})
	s = Reduce(s, GuidesDesigned{Tag: s.LatestDesignTag, Candidates: guides("a1")})

	s = Reduce(s, DesignIssued{GeneID: "G"})
	s = Reduce(s, DesignFailed{Tag: s.LatestDesignTag, Message: "boom"})

	if len(s.Candidates) != 1 || s.Candidates[0].CandidateID != "a1" {
		t.Errorf("Candidates = %+v, want a1", s.Candidates)
	}
	if s.LastError != "boom" {
		t.Errorf("LastError = %q, want boom", s.LastError)
	}
}

func TestReduce_DoesNotAliasInput(t *testing.T) {
	s := loaded("G", "ACGT")
	s = Reduce(s, DesignIssued{GeneID: "G"})
	in := guides("a1")
	next := Reduce(s, GuidesDesigned{Tag: s.LatestDesignTag, Candidates: in})

	in[0].CandidateID = "mutated"
	if next.Candidates[0].CandidateID != "a1" {
		t.Error("snapshot shares candidate storage with the event")
	}
	if s.Candidates != nil {
		t.Error("previous snapshot was modified")
	}
}

func TestReduce_ReleaseNeverNegative(t *testing.T) {
	s := Reduce(Empty(), FetchFailed{Tag: 99})
	if s.FetchInFlight != 0 {
		t.Errorf("FetchInFlight = %d, want 0", s.FetchInFlight)
	}
}
