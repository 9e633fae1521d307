// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/example/crispr/internal/ports/primary"
)

// chartWidth is the width in cells of a full-score bar.
const chartWidth = 40

// SessionAdapter is a thin adapter that translates CLI operations to DesignSessionService calls.
// It depends only on the DesignSessionService interface, enabling easy testing with mocks.
type SessionAdapter struct {
	service primary.DesignSessionService
	out     io.Writer
}

// NewSessionAdapter creates a new SessionAdapter with the given service.
func NewSessionAdapter(service primary.DesignSessionService, out io.Writer) *SessionAdapter {
	return &SessionAdapter{
		service: service,
		out:     out,
	}
}

// Fetch loads the sequence for a gene.
func (a *SessionAdapter) Fetch(ctx context.Context, geneID string) error {
	if err := a.service.FetchSequence(ctx, geneID); err != nil {
		return err
	}

	view := a.service.GetSession(ctx)
	if view.SequenceGeneID == "" || view.SequenceGeneID != strings.TrimSpace(geneID) {
		fmt.Fprintln(a.out, "No sequence loaded")
		return nil
	}
	fmt.Fprintf(a.out, "%s Loaded %s (%d bp), region %d-%d\n",
		check(), view.SequenceGeneID, view.SequenceLength, view.RegionStart, view.RegionEnd)
	return nil
}

// Sequence prints the loaded sequence wrapped at width bases per line.
func (a *SessionAdapter) Sequence(ctx context.Context, width int) error {
	view := a.service.GetSession(ctx)
	if view.Sequence == "" {
		return fmt.Errorf("no sequence loaded")
	}
	if width <= 0 {
		width = 60
	}

	fmt.Fprintf(a.out, "\n>%s length=%d\n", view.SequenceGeneID, view.SequenceLength)
	for i := 0; i < len(view.Sequence); i += width {
		end := min(i+width, len(view.Sequence))
		fmt.Fprintln(a.out, view.Sequence[i:end])
	}
	fmt.Fprintln(a.out)
	return nil
}

// SetRegion sets the design region.
func (a *SessionAdapter) SetRegion(ctx context.Context, start, end int) error {
	if err := a.service.SetRegion(ctx, start, end); err != nil {
		return fmt.Errorf("failed to set region: %w", err)
	}
	a.printRegion(ctx)
	return nil
}

// SetRegionStart moves the region start.
func (a *SessionAdapter) SetRegionStart(ctx context.Context, start int) error {
	if err := a.service.SetRegionStart(ctx, start); err != nil {
		return fmt.Errorf("failed to set region start: %w", err)
	}
	a.printRegion(ctx)
	return nil
}

// SetRegionEnd moves the region end.
func (a *SessionAdapter) SetRegionEnd(ctx context.Context, end int) error {
	if err := a.service.SetRegionEnd(ctx, end); err != nil {
		return fmt.Errorf("failed to set region end: %w", err)
	}
	a.printRegion(ctx)
	return nil
}

func (a *SessionAdapter) printRegion(ctx context.Context) {
	view := a.service.GetSession(ctx)
	fmt.Fprintf(a.out, "%s Region set to %d-%d (%d bp)\n",
		check(), view.RegionStart, view.RegionEnd, view.RegionEnd-view.RegionStart)
}

// Design requests candidates for the current region and prints them.
func (a *SessionAdapter) Design(ctx context.Context, geneID, sortBy string, desc bool) error {
	if err := a.service.DesignGuides(ctx, geneID); err != nil {
		return err
	}
	return a.Show(ctx, sortBy, desc)
}

// Retrain re-runs the design after feedback and prints the new candidates.
func (a *SessionAdapter) Retrain(ctx context.Context, geneID, sortBy string, desc bool) error {
	if err := a.service.RetrainModel(ctx, geneID); err != nil {
		return err
	}
	return a.Show(ctx, sortBy, desc)
}

// Show prints the metrics summary, ranked table and charts.
func (a *SessionAdapter) Show(ctx context.Context, sortBy string, desc bool) error {
	view := a.service.GetSession(ctx)

	if view.Metrics == nil {
		fmt.Fprintln(a.out, "No candidates")
		return nil
	}

	candidates, err := a.service.ListCandidates(ctx, sortBy, desc)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}

	a.printMetrics(view.Metrics)
	a.printTable(candidates)
	a.printDistribution(view.Distribution)
	a.printScatter(view.Scatter)
	return nil
}

// Status prints the session state.
func (a *SessionAdapter) Status(ctx context.Context) error {
	view := a.service.GetSession(ctx)

	fmt.Fprintf(a.out, "\nGene:       %s\n", orNone(view.GeneID))
	if view.SequenceGeneID != "" {
		fmt.Fprintf(a.out, "Sequence:   %s (%d bp)\n", view.SequenceGeneID, view.SequenceLength)
		fmt.Fprintf(a.out, "Region:     %d-%d\n", view.RegionStart, view.RegionEnd)
	} else {
		fmt.Fprintln(a.out, "Sequence:   (none)")
	}
	fmt.Fprintf(a.out, "Candidates: %d\n", len(view.Candidates))
	if view.Loading {
		fmt.Fprintf(a.out, "In flight:  %d fetch, %d design\n", view.FetchInFlight, view.DesignInFlight)
	}
	if view.LastError != "" {
		fmt.Fprintf(a.out, "Last error: %s\n", color.New(color.FgRed).Sprint(view.LastError))
	}
	fmt.Fprintln(a.out)
	return nil
}

// Export writes crispr_guides.csv into dir.
func (a *SessionAdapter) Export(ctx context.Context, dir string) error {
	path, err := a.service.ExportFile(ctx, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Exported %d candidates to %s\n", check(), len(a.service.GetSession(ctx).Candidates), path)
	return nil
}

// Feedback sends a rating. Confirmation is reported by the notifier.
func (a *SessionAdapter) Feedback(ctx context.Context, candidateID string, rating int, notes string) error {
	return a.service.SubmitFeedback(ctx, primary.FeedbackRequest{
		CandidateID: candidateID,
		Rating:      rating,
		Notes:       notes,
	})
}

// ServiceConfig prints the design service's scoring configuration.
func (a *SessionAdapter) ServiceConfig(ctx context.Context) error {
	cfg, err := a.service.GetServiceConfig(ctx)
	if err != nil {
		return err
	}
	a.printServiceConfig(cfg)
	return nil
}

// UpdateServiceConfig changes scoring weights and prints the result.
func (a *SessionAdapter) UpdateServiceConfig(ctx context.Context, weights, rlParams map[string]float64) error {
	cfg, err := a.service.UpdateServiceConfig(ctx, primary.UpdateServiceConfigRequest{
		Weights:  weights,
		RLParams: rlParams,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Service configuration updated\n", check())
	a.printServiceConfig(cfg)
	return nil
}

// ServiceMetrics prints the design service's telemetry summary.
func (a *SessionAdapter) ServiceMetrics(ctx context.Context) error {
	m, err := a.service.GetServiceMetrics(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nService metrics")
	fmt.Fprintf(a.out, "  Requests:          %d (%.1f%% ok, avg %.3fs)\n", m.TotalRequests, m.SuccessRate*100, m.AvgLatency)
	fmt.Fprintf(a.out, "  Designs:           %d\n", m.TotalDesigns)
	fmt.Fprintf(a.out, "  Sites per design:  %.1f\n", m.AvgSitesPerDesign)
	fmt.Fprintf(a.out, "  Guides per design: %.1f\n", m.AvgGuidesPerDesign)
	fmt.Fprintf(a.out, "  Feedback:          %d (avg rating %.2f)\n", m.TotalFeedback, m.AvgRating)
	fmt.Fprintf(a.out, "  RL uplift:         %.3f\n", m.RLUplift)
	fmt.Fprintln(a.out)
	return nil
}

// Rendering

func (a *SessionAdapter) printMetrics(m *primary.SummaryMetrics) {
	bold := color.New(color.Bold)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "%s %d   %s %.3f   %s %.1f%%   %s %.3f\n",
		bold.Sprint("Candidates:"), m.Count,
		bold.Sprint("Avg on-target:"), m.AvgOnTarget,
		bold.Sprint("Avg GC:"), m.AvgGCContent,
		bold.Sprint("Top score:"), m.TopScore,
	)
}

func (a *SessionAdapter) printTable(candidates []*primary.GuideCandidate) {
	fmt.Fprintf(a.out, "\n%-5s %-24s %-5s %-6s %-6s %-9s %-10s %s\n",
		"RANK", "GUIDE", "PAM", "LOCUS", "GC%", "ON", "OFF", "COMPOSITE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────────────────────")
	for _, c := range candidates {
		fmt.Fprintf(a.out, "%-5d %-24s %-5s %-6d %-6.1f %-9.3f %-10.3f %s\n",
			c.Rank, c.GuideSequence, c.PAMSequence, c.Locus, c.GCContent,
			c.OnTargetScore, c.OffTargetPenalty, scoreColor(c.CompositeScore).Sprintf("%.3f", c.CompositeScore))
	}
}

func (a *SessionAdapter) printDistribution(points []primary.ScorePoint) {
	if len(points) == 0 {
		return
	}

	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Score)
	}

	fmt.Fprintln(a.out, "\nScore distribution (top 10)")
	for _, p := range points {
		width := 0
		if top > 0 && p.Score > 0 {
			width = int(math.Round(p.Score / top * chartWidth))
		}
		fmt.Fprintf(a.out, "  #%-3d %s %.3f\n", p.Rank, color.New(color.FgCyan).Sprint(strings.Repeat("█", width)), p.Score)
	}
}

func (a *SessionAdapter) printScatter(points []primary.ScatterPoint) {
	if len(points) == 0 {
		return
	}

	fmt.Fprintln(a.out, "\nOn-target vs off-target")
	for _, p := range points {
		fmt.Fprintf(a.out, "  %-24s on=%.3f off=%.3f\n", p.CandidateID, p.OnTarget, p.OffTarget)
	}
	fmt.Fprintln(a.out)
}

func (a *SessionAdapter) printServiceConfig(cfg *primary.ServiceConfig) {
	fmt.Fprintln(a.out, "\nService configuration")
	fmt.Fprintf(a.out, "  PAM:          %s\n", cfg.PAMSequence)
	fmt.Fprintf(a.out, "  Guide length: %d\n", cfg.GuideLength)
	fmt.Fprintf(a.out, "  Seed:         %d\n", cfg.Seed)
	printWeights(a.out, "  Weights:", cfg.Weights)
	printWeights(a.out, "  RL params:", cfg.RLParams)
	fmt.Fprintln(a.out)
}

func printWeights(out io.Writer, label string, weights map[string]float64) {
	if len(weights) == 0 {
		return
	}
	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(out, label)
	for _, k := range keys {
		fmt.Fprintf(out, "    %-16s %g\n", k, weights[k])
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score >= 0.6:
		return color.New(color.FgGreen)
	case score >= 0.4:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func check() string {
	return color.New(color.FgGreen).Sprint("✓")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
