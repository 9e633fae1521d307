package session

// Event is a state transition input. Events are pure data describing what
// happened; Reduce decides what the new snapshot looks like.
type Event interface {
	// EventType returns a string identifier for the event type.
	EventType() string
}

// FetchIssued records that a sequence fetch for GeneID was sent.
type FetchIssued struct {
	GeneID string
}

func (e FetchIssued) EventType() string { return "fetch_issued" }

// SequenceFetched records a successful fetch response.
type SequenceFetched struct {
	Tag      uint64
	Sequence Sequence
}

func (e SequenceFetched) EventType() string { return "sequence_fetched" }

// FetchFailed records a failed fetch.
type FetchFailed struct {
	Tag     uint64
	Message string
}

func (e FetchFailed) EventType() string { return "fetch_failed" }

// DesignIssued records that a design request was sent.
type DesignIssued struct {
	GeneID string
	Region Region
}

func (e DesignIssued) EventType() string { return "design_issued" }

// GuidesDesigned records a successful design response.
type GuidesDesigned struct {
	Tag        uint64
	Candidates []GuideCandidate
}

func (e GuidesDesigned) EventType() string { return "guides_designed" }

// DesignFailed records a failed design request.
type DesignFailed struct {
	Tag     uint64
	Message string
}

func (e DesignFailed) EventType() string { return "design_failed" }

// RegionSelected records a validated region edit.
type RegionSelected struct {
	Region Region
}

func (e RegionSelected) EventType() string { return "region_selected" }
