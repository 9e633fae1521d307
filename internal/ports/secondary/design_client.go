// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// GuideDesignClient defines the secondary port for the external guide design service.
// Implementations make exactly one attempt per call: no retries.
type GuideDesignClient interface {
	// FetchSequence retrieves the nucleotide sequence for a gene.
	FetchSequence(ctx context.Context, geneID string) (*SequenceRecord, error)

	// DesignGuides requests ranked candidates for a region of a gene.
	DesignGuides(ctx context.Context, req DesignRequestRecord) ([]*GuideRecord, error)

	// SubmitFeedback sends a rating for one candidate.
	SubmitFeedback(ctx context.Context, feedback FeedbackRecord) error

	// GetConfig retrieves the service's scoring configuration.
	GetConfig(ctx context.Context) (*ServiceConfigRecord, error)

	// UpdateConfig changes the service's scoring weights and returns the result.
	UpdateConfig(ctx context.Context, update ServiceConfigUpdate) (*ServiceConfigRecord, error)

	// GetMetrics retrieves the service's telemetry summary.
	GetMetrics(ctx context.Context) (*ServiceMetricsRecord, error)
}

// Error kinds reported by GuideDesignClient implementations.
const (
	ErrorKindTransport = "transport" // the request never got a response
	ErrorKindService   = "service"   // non-success status from the service
	ErrorKindContract  = "contract"  // response body does not match the schema
	ErrorKindInput     = "input"
	ErrorKindStale     = "stale"
	ErrorKindUnknown   = "unknown"
)

// KindedError is implemented by client errors that know their error kind.
type KindedError interface {
	error
	Kind() string
}

// SequenceRecord is a fetched sequence as returned by the service.
type SequenceRecord struct {
	GeneID   string
	Sequence string
	Length   int
}

// DesignRequestRecord is the body of a design request.
type DesignRequestRecord struct {
	GeneID      string
	RegionStart int
	RegionEnd   int
}

// GuideRecord is one candidate as returned by the service.
type GuideRecord struct {
	CandidateID      string
	Locus            int
	GuideSequence    string
	PAMSequence      string
	GCContent        float64
	OnTargetScore    float64
	OffTargetPenalty float64
	CompositeScore   float64
}

// FeedbackRecord is the body of a feedback submission.
type FeedbackRecord struct {
	CandidateID string
	Rating      int
	Notes       string // Empty string means omitted
}

// ServiceConfigRecord is the service's scoring configuration.
type ServiceConfigRecord struct {
	Seed        int
	PAMSequence string
	GuideLength int
	Weights     map[string]float64
	RLParams    map[string]float64
}

// ServiceConfigUpdate carries the configuration values to change. Nil maps are left alone.
type ServiceConfigUpdate struct {
	Weights  map[string]float64
	RLParams map[string]float64
}

// ServiceMetricsRecord is the service's telemetry summary.
type ServiceMetricsRecord struct {
	TotalRequests      int
	SuccessRate        float64
	AvgLatency         float64
	TotalDesigns       int
	AvgSitesPerDesign  float64
	AvgGuidesPerDesign float64
	TotalFeedback      int
	AvgRating          float64
	RLUplift           float64
}
