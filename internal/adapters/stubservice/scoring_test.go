package stubservice

import (
	"math"
	"testing"
)

// testSequence has a single NGG site at 20 with a full guide upstream.
const testSequence = "ACGTACGTACGTACGTACGTAGGTTTT"

func TestDesign_SingleSite(t *testing.T) {
	guides, sites, err := Design("G1", testSequence, 0, len(testSequence), 10, DefaultSettings())
	if err != nil {
		t.Fatalf("Design failed: %v", err)
	}
	if sites != 1 || len(guides) != 1 {
		t.Fatalf("expected 1 site and 1 guide, got %d/%d", sites, len(guides))
	}

	g := guides[0]
	if g.CandidateID != "G1_20" {
		t.Errorf("CandidateID = %q, want G1_20", g.CandidateID)
	}
	if g.GuideSequence != "ACGTACGTACGTACGTACGT" {
		t.Errorf("GuideSequence = %q", g.GuideSequence)
	}
	if g.PAMSequence != "AGG" {
		t.Errorf("PAMSequence = %q", g.PAMSequence)
	}
	if g.GCContent != 50 {
		t.Errorf("GCContent = %v, want 50", g.GCContent)
	}
	if math.Abs(g.OnTargetScore-0.75) > 1e-9 {
		t.Errorf("OnTargetScore = %v, want 0.75", g.OnTargetScore)
	}
}

func TestDesign_RegionExcludesSite(t *testing.T) {
	_, sites, err := Design("G1", testSequence, 0, 20, 10, DefaultSettings())
	if err != nil {
		t.Fatalf("Design failed: %v", err)
	}
	if sites != 0 {
		t.Errorf("expected no sites before the PAM, got %d", sites)
	}
}

func TestDesign_SitesWithoutFullGuideSkipped(t *testing.T) {
	_, sites, err := Design("G1", "AAGGAAAA", 0, 8, 10, DefaultSettings())
	if err != nil {
		t.Fatalf("Design failed: %v", err)
	}
	if sites != 0 {
		t.Errorf("expected 0 sites, got %d", sites)
	}
}

func TestDesign_SortedAndLimited(t *testing.T) {
	seq := ""
	for i := 0; i < 8; i++ {
		seq += "ACGTACGTACGTACGTACGTAGG"
	}
	guides, sites, err := Design("G2", seq, 0, len(seq), 3, DefaultSettings())
	if err != nil {
		t.Fatalf("Design failed: %v", err)
	}
	if sites <= 3 {
		t.Fatalf("expected more than 3 sites, got %d", sites)
	}
	if len(guides) != 3 {
		t.Fatalf("expected 3 guides, got %d", len(guides))
	}
	for i := 1; i < len(guides); i++ {
		if guides[i-1].CompositeScore < guides[i].CompositeScore {
			t.Errorf("guides not sorted at %d", i)
		}
	}
}

func TestDesign_EmptyPAM(t *testing.T) {
	s := DefaultSettings()
	s.PAMSequence = ""
	if _, _, err := Design("G1", testSequence, 0, 0, 10, s); err == nil {
		t.Error("expected error for empty PAM")
	}
}
