package session

// Snapshot is the complete state of one design session at a point in time.
// Snapshots are values: transitions return a new Snapshot and never modify
// the Sequence or Candidates of an existing one.
type Snapshot struct {
	Version uint64 // incremented by every transition

	GeneID     string // identifier of the most recent fetch request
	Sequence   *Sequence
	Region     Region
	Candidates []GuideCandidate

	FetchInFlight  int
	DesignInFlight int

	LatestFetchTag  uint64
	LatestDesignTag uint64

	LastError string
}

// Empty returns the snapshot of a fresh session.
func Empty() Snapshot {
	return Snapshot{}
}

// HasSequence reports whether a sequence has been loaded.
func (s Snapshot) HasSequence() bool {
	return s.Sequence != nil
}

// Loading reports whether any fetch or design request is in flight.
// Presentation uses it to disable fetch and design controls together.
func (s Snapshot) Loading() bool {
	return s.FetchInFlight > 0 || s.DesignInFlight > 0
}

// IsCurrentFetch reports whether tag identifies the most recently issued fetch.
func (s Snapshot) IsCurrentFetch(tag uint64) bool {
	return tag == s.LatestFetchTag
}

// IsCurrentDesign reports whether tag identifies the most recently issued design.
func (s Snapshot) IsCurrentDesign(tag uint64) bool {
	return tag == s.LatestDesignTag
}

// DesignContext builds the guard input for designing guides for geneID.
func (s Snapshot) DesignContext(geneID string) DesignContext {
	ctx := DesignContext{GeneID: geneID, HasSequence: s.HasSequence()}
	if s.Sequence != nil {
		ctx.SequenceGeneID = s.Sequence.GeneID
	}
	return ctx
}

// SequenceLen returns the loaded sequence length, or 0 without a sequence.
func (s Snapshot) SequenceLen() int {
	if s.Sequence == nil {
		return 0
	}
	return s.Sequence.Len()
}
