package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/crispr/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockSessionService implements primary.DesignSessionService for testing
type mockSessionService struct {
	view       *primary.SessionView
	candidates []*primary.GuideCandidate
	fetchErr   error
	designErr  error
	regionErr  error
	exportPath string
	config     *primary.ServiceConfig
	metrics    *primary.ServiceMetrics

	// Track calls for verification
	lastFetch    string
	lastDesign   string
	retrained    bool
	lastSort     string
	lastFeedback primary.FeedbackRequest
	lastUpdate   primary.UpdateServiceConfigRequest
	lastRegion   [2]int
}

func newMockSessionService() *mockSessionService {
	return &mockSessionService{view: &primary.SessionView{}}
}

func (m *mockSessionService) FetchSequence(ctx context.Context, geneID string) error {
	m.lastFetch = geneID
	return m.fetchErr
}

func (m *mockSessionService) SetRegion(ctx context.Context, start, end int) error {
	m.lastRegion = [2]int{start, end}
	if m.regionErr != nil {
		return m.regionErr
	}
	m.view.RegionStart, m.view.RegionEnd = start, end
	return nil
}

func (m *mockSessionService) SetRegionStart(ctx context.Context, start int) error {
	return m.SetRegion(ctx, start, m.view.RegionEnd)
}

func (m *mockSessionService) SetRegionEnd(ctx context.Context, end int) error {
	return m.SetRegion(ctx, m.view.RegionStart, end)
}

func (m *mockSessionService) DesignGuides(ctx context.Context, geneID string) error {
	m.lastDesign = geneID
	return m.designErr
}

func (m *mockSessionService) RetrainModel(ctx context.Context, geneID string) error {
	m.retrained = true
	return m.DesignGuides(ctx, geneID)
}

func (m *mockSessionService) SubmitFeedback(ctx context.Context, req primary.FeedbackRequest) error {
	m.lastFeedback = req
	return nil
}

func (m *mockSessionService) ExportResults(ctx context.Context, w io.Writer) error {
	return nil
}

func (m *mockSessionService) ExportFile(ctx context.Context, dir string) (string, error) {
	if m.exportPath == "" {
		return "", errors.New("permission denied")
	}
	return m.exportPath, nil
}

func (m *mockSessionService) GetSession(ctx context.Context) *primary.SessionView {
	return m.view
}

func (m *mockSessionService) ListCandidates(ctx context.Context, sortBy string, desc bool) ([]*primary.GuideCandidate, error) {
	m.lastSort = sortBy
	return m.candidates, nil
}

func (m *mockSessionService) Subscribe() (<-chan *primary.SessionView, func()) {
	ch := make(chan *primary.SessionView)
	return ch, func() {}
}

func (m *mockSessionService) GetServiceConfig(ctx context.Context) (*primary.ServiceConfig, error) {
	if m.config == nil {
		return nil, errors.New("service unavailable")
	}
	return m.config, nil
}

func (m *mockSessionService) UpdateServiceConfig(ctx context.Context, req primary.UpdateServiceConfigRequest) (*primary.ServiceConfig, error) {
	m.lastUpdate = req
	return m.GetServiceConfig(ctx)
}

func (m *mockSessionService) GetServiceMetrics(ctx context.Context) (*primary.ServiceMetrics, error) {
	if m.metrics == nil {
		return nil, errors.New("service unavailable")
	}
	return m.metrics, nil
}

var _ primary.DesignSessionService = (*mockSessionService)(nil)

func withCandidates(m *mockSessionService) {
	m.candidates = []*primary.GuideCandidate{
		{Rank: 1, CandidateID: "BRCA1_20", Locus: 20, GuideSequence: "ACGTACGTACGTACGTACGT", PAMSequence: "AGG", GCContent: 50, OnTargetScore: 0.75, OffTargetPenalty: 0.2, CompositeScore: 0.515},
		{Rank: 2, CandidateID: "BRCA1_43", Locus: 43, GuideSequence: "GGGGCCCCGGGGCCCCGGGG", PAMSequence: "TGG", GCContent: 100, OnTargetScore: 1, OffTargetPenalty: 0.6, CompositeScore: 0.52},
	}
	m.view = &primary.SessionView{
		GeneID:         "BRCA1",
		SequenceGeneID: "BRCA1",
		SequenceLength: 60,
		RegionEnd:      60,
		Candidates:     m.candidates,
		Metrics:        &primary.SummaryMetrics{Count: 2, AvgOnTarget: 0.875, AvgGCContent: 75, TopScore: 0.52},
		Distribution:   []primary.ScorePoint{{Rank: 1, Score: 0.515}, {Rank: 2, Score: 0.52}},
		Scatter: []primary.ScatterPoint{
			{CandidateID: "BRCA1_20", OnTarget: 0.75, OffTarget: 0.2},
			{CandidateID: "BRCA1_43", OnTarget: 1, OffTarget: 0.6},
		},
	}
}

func TestSessionAdapter_Fetch(t *testing.T) {
	mock := newMockSessionService()
	mock.view = &primary.SessionView{GeneID: "BRCA1", SequenceGeneID: "BRCA1", SequenceLength: 27, RegionEnd: 27}

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Fetch(context.Background(), "BRCA1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "✓ Loaded BRCA1 (27 bp), region 0-27") {
		t.Errorf("unexpected output: %q", output)
	}
}

func TestSessionAdapter_FetchNoOp(t *testing.T) {
	mock := newMockSessionService()

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Fetch(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No sequence loaded") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSessionAdapter_FetchError(t *testing.T) {
	mock := newMockSessionService()
	mock.fetchErr = errors.New("service returned 404")

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Fetch(context.Background(), "NOPE"); err == nil {
		t.Fatal("expected error, got nil")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSessionAdapter_SetRegion(t *testing.T) {
	mock := newMockSessionService()

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.SetRegion(context.Background(), 5, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Region set to 5-25 (20 bp)") {
		t.Errorf("unexpected output: %q", buf.String())
	}

	mock.regionErr = errors.New("invalid region")
	if err := adapter.SetRegion(context.Background(), 5, 99); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestSessionAdapter_DesignShowsTable(t *testing.T) {
	mock := newMockSessionService()
	withCandidates(mock)

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Design(context.Background(), "BRCA1", "composite", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.lastDesign != "BRCA1" || mock.lastSort != "composite" {
		t.Errorf("unexpected calls: design=%q sort=%q", mock.lastDesign, mock.lastSort)
	}

	output := buf.String()
	for _, want := range []string{
		"Candidates: 2",
		"Avg on-target: 0.875",
		"Avg GC: 75.0%",
		"Top score: 0.520",
		"ACGTACGTACGTACGTACGT",
		"50.0",
		"0.515",
		"Score distribution (top 10)",
		"#1",
		"on=1.000 off=0.600",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}

	// Full-score bar is chartWidth cells wide.
	if !strings.Contains(output, strings.Repeat("█", chartWidth)) {
		t.Error("expected a full-width bar for the top score")
	}
}

func TestSessionAdapter_ShowEmpty(t *testing.T) {
	mock := newMockSessionService()

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Show(context.Background(), "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No candidates") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSessionAdapter_Retrain(t *testing.T) {
	mock := newMockSessionService()
	withCandidates(mock)

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Retrain(context.Background(), "BRCA1", "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mock.retrained {
		t.Error("expected RetrainModel to be called")
	}
}

func TestSessionAdapter_Export(t *testing.T) {
	mock := newMockSessionService()
	withCandidates(mock)
	mock.exportPath = "out/crispr_guides.csv"

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.Export(context.Background(), "out"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Exported 2 candidates to out/crispr_guides.csv") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSessionAdapter_Feedback(t *testing.T) {
	mock := newMockSessionService()
	adapter := NewSessionAdapter(mock, io.Discard)

	if err := adapter.Feedback(context.Background(), "g1", 4, "nice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastFeedback.CandidateID != "g1" || mock.lastFeedback.Rating != 4 || mock.lastFeedback.Notes != "nice" {
		t.Errorf("unexpected feedback: %+v", mock.lastFeedback)
	}
}

func TestSessionAdapter_ServiceConfig(t *testing.T) {
	mock := newMockSessionService()
	mock.config = &primary.ServiceConfig{
		PAMSequence: "NGG",
		GuideLength: 20,
		Weights:     map[string]float64{"on_target": 0.5, "coverage": 0.2},
	}

	var buf bytes.Buffer
	adapter := NewSessionAdapter(mock, &buf)

	if err := adapter.UpdateServiceConfig(context.Background(), map[string]float64{"on_target": 0.5}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Service configuration updated") || !strings.Contains(output, "NGG") {
		t.Errorf("unexpected output: %q", output)
	}
	if strings.Index(output, "coverage") > strings.Index(output, "on_target") {
		t.Error("expected weights sorted by name")
	}
}

func TestSessionAdapter_ServiceMetricsError(t *testing.T) {
	mock := newMockSessionService()
	adapter := NewSessionAdapter(mock, io.Discard)

	if err := adapter.ServiceMetrics(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestConsoleNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewConsoleNotifier(&buf)

	n.Acknowledge(context.Background(), "Feedback submitted for g1 (rating 5)")
	n.Alert(context.Background(), "Feedback for g2 was not submitted")

	want := "✓ Feedback submitted for g1 (rating 5)\n✗ Feedback for g2 was not submitted\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
