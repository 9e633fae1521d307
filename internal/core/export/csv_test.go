package export

import (
	"bytes"
	"testing"

	"github.com/example/crispr/internal/core/session"
)

func TestWriteCSV_SingleCandidate(t *testing.T) {
	candidates := []session.GuideCandidate{{
		CandidateID:      "g1",
		GuideSequence:    "ACGT",
		PAMSequence:      "TGG",
		GCContent:        50.0,
		OnTargetScore:    0.812,
		OffTargetPenalty: 0.05,
		CompositeScore:   0.77,
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, candidates); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "ID,Guide,PAM,GC%,On-target,Off-target,Composite\ng1,ACGT,TGG,50.00,0.81,0.05,0.77"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if buf.String() != "ID,Guide,PAM,GC%,On-target,Off-target,Composite\n" {
		t.Errorf("WriteCSV(nil) = %q", buf.String())
	}
}

func TestWriteCSV_PreservesDisplayOrder(t *testing.T) {
	candidates := []session.GuideCandidate{
		{CandidateID: "low", CompositeScore: 0.1},
		{CandidateID: "high", CompositeScore: 0.9},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, candidates); err != nil {
		t.Fatal(err)
	}

	want := "ID,Guide,PAM,GC%,On-target,Off-target,Composite\n" +
		"low,,,0.00,0.00,0.00,0.10\n" +
		"high,,,0.00,0.00,0.00,0.90"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteCSV_QuotesCommaInID(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []session.GuideCandidate{{CandidateID: "a,b"}}); err != nil {
		t.Fatal(err)
	}
	want := "ID,Guide,PAM,GC%,On-target,Off-target,Composite\n\"a,b\",,,0.00,0.00,0.00,0.00"
	if buf.String() != want {
		t.Errorf("WriteCSV() = %q, want %q", buf.String(), want)
	}
}
