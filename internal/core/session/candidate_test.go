package session

import "testing"

func TestValidateCandidates(t *testing.T) {
	tests := []struct {
		name    string
		in      []GuideCandidate
		wantErr bool
	}{
		{name: "empty list", in: nil},
		{name: "unique ids", in: []GuideCandidate{{CandidateID: "a"}, {CandidateID: "b"}}},
		{name: "duplicate ids", in: []GuideCandidate{{CandidateID: "a"}, {CandidateID: "a"}}, wantErr: true},
		{name: "missing id", in: []GuideCandidate{{CandidateID: ""}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCandidates(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCandidates() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSortCandidates(t *testing.T) {
	in := []GuideCandidate{
		{CandidateID: "a", CompositeScore: 0.2, Locus: 30},
		{CandidateID: "b", CompositeScore: 0.9, Locus: 10},
		{CandidateID: "c", CompositeScore: 0.5, Locus: 20},
	}

	got, err := SortCandidates(in, SortByComposite, true)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].CandidateID != "b" || got[1].CandidateID != "c" || got[2].CandidateID != "a" {
		t.Errorf("composite desc order = %v", ids(got))
	}
	if in[0].CandidateID != "a" {
		t.Error("input order was modified")
	}

	got, _ = SortCandidates(in, SortByLocus, false)
	if got[0].CandidateID != "b" {
		t.Errorf("locus asc order = %v", ids(got))
	}

	got, _ = SortCandidates(in, SortByRank, false)
	if got[0].CandidateID != "a" || got[2].CandidateID != "c" {
		t.Errorf("rank order = %v", ids(got))
	}

	if _, err := SortCandidates(in, "bogus", false); err == nil {
		t.Error("expected error for unknown sort key")
	}
}

func ids(cs []GuideCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.CandidateID
	}
	return out
}
