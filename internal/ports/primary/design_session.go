// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives a design session.
package primary

import (
	"context"
	"io"
)

// DesignSessionService defines the primary port for a guide design session.
// A session holds one gene sequence, one region and one candidate set in memory.
type DesignSessionService interface {
	// FetchSequence loads the sequence for geneID and resets the region to cover it.
	// An empty geneID is a no-op.
	FetchSequence(ctx context.Context, geneID string) error

	// SetRegion sets both region bounds at once.
	SetRegion(ctx context.Context, start, end int) error

	// SetRegionStart changes the region start, keeping the end.
	SetRegionStart(ctx context.Context, start int) error

	// SetRegionEnd changes the region end, keeping the start.
	SetRegionEnd(ctx context.Context, end int) error

	// DesignGuides requests candidates for the current region and replaces the candidate set.
	// An empty geneID, or no loaded sequence, is a no-op.
	DesignGuides(ctx context.Context, geneID string) error

	// RetrainModel re-runs the design for the current region after feedback.
	RetrainModel(ctx context.Context, geneID string) error

	// SubmitFeedback sends a 1-5 rating for a candidate. The session is not changed.
	SubmitFeedback(ctx context.Context, req FeedbackRequest) error

	// ExportResults writes the current candidates as CSV.
	ExportResults(ctx context.Context, w io.Writer) error

	// ExportFile writes the current candidates to crispr_guides.csv in dir and returns the path.
	ExportFile(ctx context.Context, dir string) (string, error)

	// GetSession returns a read-only view of the current session.
	GetSession(ctx context.Context) *SessionView

	// ListCandidates returns the candidates, optionally re-sorted for display.
	ListCandidates(ctx context.Context, sortBy string, desc bool) ([]*GuideCandidate, error)

	// Subscribe streams a view after every session change until cancel is called.
	Subscribe() (<-chan *SessionView, func())

	// GetServiceConfig returns the design service's scoring configuration.
	GetServiceConfig(ctx context.Context) (*ServiceConfig, error)

	// UpdateServiceConfig changes the design service's scoring weights.
	UpdateServiceConfig(ctx context.Context, req UpdateServiceConfigRequest) (*ServiceConfig, error)

	// GetServiceMetrics returns the design service's telemetry summary.
	GetServiceMetrics(ctx context.Context) (*ServiceMetrics, error)
}

// FeedbackRequest contains a quality rating for one candidate.
type FeedbackRequest struct {
	CandidateID string
	Rating      int
	Notes       string
}

// UpdateServiceConfigRequest contains the weights to change on the design service.
type UpdateServiceConfigRequest struct {
	Weights  map[string]float64
	RLParams map[string]float64
}

// GuideCandidate represents a guide candidate at the port boundary.
type GuideCandidate struct {
	Rank             int     `json:"rank"`
	CandidateID      string  `json:"candidate_id"`
	Locus            int     `json:"locus"`
	GuideSequence    string  `json:"guide_sequence"`
	PAMSequence      string  `json:"pam_sequence"`
	GCContent        float64 `json:"gc_content"`
	OnTargetScore    float64 `json:"on_target_score"`
	OffTargetPenalty float64 `json:"off_target_penalty"`
	CompositeScore   float64 `json:"composite_score"`
}

// SummaryMetrics are the aggregate figures over the candidate set.
type SummaryMetrics struct {
	Count        int     `json:"count"`
	AvgOnTarget  float64 `json:"avg_on_target"`
	AvgGCContent float64 `json:"avg_gc_content"`
	TopScore     float64 `json:"top_score"`
}

// ScorePoint is one bar of the score distribution chart.
type ScorePoint struct {
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
}

// ScatterPoint is one point of the on-target versus off-target chart.
type ScatterPoint struct {
	CandidateID string  `json:"candidate_id"`
	OnTarget    float64 `json:"on_target"`
	OffTarget   float64 `json:"off_target"`
}

// SessionView is a read-only projection of the session.
// Metrics is nil when there are no candidates.
type SessionView struct {
	Version        uint64            `json:"version"`
	GeneID         string            `json:"gene_id"`
	SequenceGeneID string            `json:"sequence_gene_id,omitempty"`
	Sequence       string            `json:"sequence,omitempty"`
	SequenceLength int               `json:"sequence_length"`
	RegionStart    int               `json:"region_start"`
	RegionEnd      int               `json:"region_end"`
	Candidates     []*GuideCandidate `json:"candidates"`
	Metrics        *SummaryMetrics   `json:"metrics,omitempty"`
	Distribution   []ScorePoint      `json:"score_distribution"`
	Scatter        []ScatterPoint    `json:"target_scatter"`
	FetchInFlight  int               `json:"fetch_in_flight"`
	DesignInFlight int               `json:"design_in_flight"`
	Loading        bool              `json:"loading"`
	LastError      string            `json:"last_error,omitempty"`
}

// ServiceConfig is the design service's scoring configuration.
type ServiceConfig struct {
	Seed        int                `json:"seed"`
	PAMSequence string             `json:"pam_sequence"`
	GuideLength int                `json:"guide_length"`
	Weights     map[string]float64 `json:"weights"`
	RLParams    map[string]float64 `json:"rl_params"`
}

// ServiceMetrics is the design service's telemetry summary.
type ServiceMetrics struct {
	TotalRequests      int     `json:"total_requests"`
	SuccessRate        float64 `json:"success_rate"`
	AvgLatency         float64 `json:"avg_latency"`
	TotalDesigns       int     `json:"total_designs"`
	AvgSitesPerDesign  float64 `json:"avg_sites_per_design"`
	AvgGuidesPerDesign float64 `json:"avg_guides_per_design"`
	TotalFeedback      int     `json:"total_feedback"`
	AvgRating          float64 `json:"avg_rating"`
	RLUplift           float64 `json:"rl_uplift"`
}
