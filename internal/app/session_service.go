package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/example/crispr/internal/core/export"
	"github.com/example/crispr/internal/core/session"
	"github.com/example/crispr/internal/ctxutil"
	"github.com/example/crispr/internal/ports/primary"
	"github.com/example/crispr/internal/ports/secondary"
)

// Operation names used in the diagnostic journal.
const (
	OpFetchSequence  = "fetch_sequence"
	OpDesignGuides   = "design_guides"
	OpSubmitFeedback = "submit_feedback"
	OpGetConfig      = "get_config"
	OpUpdateConfig   = "update_config"
	OpGetMetrics     = "get_metrics"
)

// distributionSize is the number of bars in the score distribution chart.
const distributionSize = 10

// subscriberBuffer holds one pending view; publish replaces it when full.
const subscriberBuffer = 1

// DesignSessionServiceImpl implements the DesignSessionService interface.
// State lives in a session.Snapshot replaced under mu by session.Reduce.
// Network calls run without holding mu.
type DesignSessionServiceImpl struct {
	client      secondary.GuideDesignClient
	diagnostics secondary.DiagnosticWriter
	notifier    secondary.Notifier
	logger      *slog.Logger
	sessionID   string

	mu       sync.Mutex
	snapshot session.Snapshot
	subs     map[int]chan *primary.SessionView
	nextSub  int
}

// NewDesignSessionService creates a new DesignSessionService with injected dependencies.
func NewDesignSessionService(
	client secondary.GuideDesignClient,
	diagnostics secondary.DiagnosticWriter,
	notifier secondary.Notifier,
	logger *slog.Logger,
) *DesignSessionServiceImpl {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DesignSessionServiceImpl{
		client:      client,
		diagnostics: diagnostics,
		notifier:    notifier,
		logger:      logger,
		sessionID:   ctxutil.NewSessionID(),
		snapshot:    session.Empty(),
		subs:        make(map[int]chan *primary.SessionView),
	}
}

// SessionID returns the identifier sent with every request of this session.
func (s *DesignSessionServiceImpl) SessionID() string {
	return s.sessionID
}

// FetchSequence loads the sequence for geneID.
func (s *DesignSessionServiceImpl) FetchSequence(ctx context.Context, geneID string) error {
	geneID = strings.TrimSpace(geneID)

	guard := session.CanFetchSequence(session.FetchContext{GeneID: geneID})
	if !guard.Allowed {
		return s.skip(ctx, OpFetchSequence, guard)
	}

	s.mu.Lock()
	tag := s.transition(session.FetchIssued{GeneID: geneID}).LatestFetchTag
	s.mu.Unlock()

	ctx, _ = ctxutil.WithRequestID(s.scope(ctx))
	record, err := s.client.FetchSequence(ctx, geneID)
	if err != nil {
		s.complete(session.FetchFailed{Tag: tag, Message: err.Error()}, fetchIsCurrent(tag))
		s.record(ctx, OpFetchSequence, geneID, err)
		return fmt.Errorf("failed to fetch sequence for %s: %w", geneID, err)
	}

	seq := session.Sequence{GeneID: geneID, Residues: record.Sequence}
	if !s.complete(session.SequenceFetched{Tag: tag, Sequence: seq}, fetchIsCurrent(tag)) {
		s.recordStale(ctx, OpFetchSequence, geneID, tag)
		return nil
	}

	s.logger.InfoContext(ctx, "sequence loaded",
		slog.String("gene_id", geneID),
		slog.Int("length", seq.Len()),
	)
	return nil
}

// SetRegion sets both region bounds at once.
func (s *DesignSessionServiceImpl) SetRegion(ctx context.Context, start, end int) error {
	return s.editRegion(func(session.Region) (int, int) { return start, end })
}

// SetRegionStart changes the region start, keeping the end.
func (s *DesignSessionServiceImpl) SetRegionStart(ctx context.Context, start int) error {
	return s.editRegion(func(r session.Region) (int, int) { return start, r.End })
}

// SetRegionEnd changes the region end, keeping the start.
func (s *DesignSessionServiceImpl) SetRegionEnd(ctx context.Context, end int) error {
	return s.editRegion(func(r session.Region) (int, int) { return r.Start, end })
}

func (s *DesignSessionServiceImpl) editRegion(bounds func(session.Region) (int, int)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := session.CanEditRegion(s.snapshot.HasSequence()).Error(); err != nil {
		return err
	}

	start, end := bounds(s.snapshot.Region)
	region, err := session.NewRegion(start, end, s.snapshot.SequenceLen())
	if err != nil {
		return err
	}
	s.transition(session.RegionSelected{Region: region})
	return nil
}

// DesignGuides requests candidates for the current region.
func (s *DesignSessionServiceImpl) DesignGuides(ctx context.Context, geneID string) error {
	geneID = strings.TrimSpace(geneID)

	s.mu.Lock()
	guard := session.CanDesignGuides(s.snapshot.DesignContext(geneID))
	if !guard.Allowed {
		s.mu.Unlock()
		return s.skip(ctx, OpDesignGuides, guard)
	}
	region := s.snapshot.Region
	tag := s.transition(session.DesignIssued{GeneID: geneID, Region: region}).LatestDesignTag
	s.mu.Unlock()

	ctx, _ = ctxutil.WithRequestID(s.scope(ctx))
	candidates, err := s.requestDesign(ctx, geneID, region)
	if err != nil {
		s.complete(session.DesignFailed{Tag: tag, Message: err.Error()}, designIsCurrent(tag))
		s.record(ctx, OpDesignGuides, geneID, err)
		return fmt.Errorf("failed to design guides for %s %s: %w", geneID, region, err)
	}

	if !s.complete(session.GuidesDesigned{Tag: tag, Candidates: candidates}, designIsCurrent(tag)) {
		s.recordStale(ctx, OpDesignGuides, geneID, tag)
		return nil
	}

	s.logger.InfoContext(ctx, "guides designed",
		slog.String("gene_id", geneID),
		slog.String("region", region.String()),
		slog.Int("candidates", len(candidates)),
	)
	return nil
}

// RetrainModel re-runs the design for the current region.
func (s *DesignSessionServiceImpl) RetrainModel(ctx context.Context, geneID string) error {
	return s.DesignGuides(ctx, geneID)
}

func (s *DesignSessionServiceImpl) requestDesign(ctx context.Context, geneID string, region session.Region) ([]session.GuideCandidate, error) {
	records, err := s.client.DesignGuides(ctx, secondary.DesignRequestRecord{
		GeneID:      geneID,
		RegionStart: region.Start,
		RegionEnd:   region.End,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]session.GuideCandidate, len(records))
	for i, r := range records {
		candidates[i] = recordToCandidate(r)
	}
	if err := session.ValidateCandidates(candidates); err != nil {
		return nil, &invalidResultError{err: err}
	}
	return candidates, nil
}

// SubmitFeedback sends a rating for one candidate.
func (s *DesignSessionServiceImpl) SubmitFeedback(ctx context.Context, req primary.FeedbackRequest) error {
	candidateID := strings.TrimSpace(req.CandidateID)

	guard := session.CanSubmitFeedback(session.FeedbackContext{CandidateID: candidateID, Rating: req.Rating})
	if !guard.Allowed {
		return s.skip(ctx, OpSubmitFeedback, guard)
	}

	ctx, _ = ctxutil.WithRequestID(s.scope(ctx))
	err := s.client.SubmitFeedback(ctx, secondary.FeedbackRecord{
		CandidateID: candidateID,
		Rating:      req.Rating,
		Notes:       strings.TrimSpace(req.Notes),
	})
	if err != nil {
		s.record(ctx, OpSubmitFeedback, candidateID, err)
		s.notifier.Alert(ctx, fmt.Sprintf("Feedback for %s was not submitted: %v", candidateID, err))
		return fmt.Errorf("failed to submit feedback for %s: %w", candidateID, err)
	}

	s.notifier.Acknowledge(ctx, fmt.Sprintf("Feedback submitted for %s (rating %d)", candidateID, req.Rating))
	return nil
}

// ExportResults writes the current candidates as CSV in display order.
func (s *DesignSessionServiceImpl) ExportResults(ctx context.Context, w io.Writer) error {
	return export.WriteCSV(w, s.current().Candidates)
}

// ExportFile writes the current candidates to crispr_guides.csv in dir.
func (s *DesignSessionServiceImpl) ExportFile(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, export.FileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	if err := s.ExportResults(ctx, f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}
	return path, nil
}

// GetSession returns a read-only view of the current session.
func (s *DesignSessionServiceImpl) GetSession(ctx context.Context) *primary.SessionView {
	return snapshotToView(s.current())
}

// ListCandidates returns the candidates, re-sorted when sortBy is set.
func (s *DesignSessionServiceImpl) ListCandidates(ctx context.Context, sortBy string, desc bool) ([]*primary.GuideCandidate, error) {
	sorted, err := session.SortCandidates(s.current().Candidates, session.SortKey(sortBy), desc)
	if err != nil {
		return nil, err
	}
	return candidatesToPrimary(sorted), nil
}

// Subscribe streams a view after every session change until cancel is called.
// A slow subscriber misses intermediate views but always receives the latest.
func (s *DesignSessionServiceImpl) Subscribe() (<-chan *primary.SessionView, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan *primary.SessionView, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// GetServiceConfig returns the design service's scoring configuration.
func (s *DesignSessionServiceImpl) GetServiceConfig(ctx context.Context) (*primary.ServiceConfig, error) {
	ctx, _ = ctxutil.WithRequestID(s.scope(ctx))
	record, err := s.client.GetConfig(ctx)
	if err != nil {
		s.record(ctx, OpGetConfig, "", err)
		return nil, fmt.Errorf("failed to get service config: %w", err)
	}
	return configToPrimary(record), nil
}

// UpdateServiceConfig changes the design service's scoring weights.
func (s *DesignSessionServiceImpl) UpdateServiceConfig(ctx context.Context, req primary.UpdateServiceConfigRequest) (*primary.ServiceConfig, error) {
	if len(req.Weights) == 0 && len(req.RLParams) == 0 {
		return nil, fmt.Errorf("no configuration values to update")
	}

	ctx, _ = ctxutil.WithRequestID(s.scope(ctx))
	record, err := s.client.UpdateConfig(ctx, secondary.ServiceConfigUpdate{
		Weights:  req.Weights,
		RLParams: req.RLParams,
	})
	if err != nil {
		s.record(ctx, OpUpdateConfig, "", err)
		return nil, fmt.Errorf("failed to update service config: %w", err)
	}
	return configToPrimary(record), nil
}

// GetServiceMetrics returns the design service's telemetry summary.
func (s *DesignSessionServiceImpl) GetServiceMetrics(ctx context.Context) (*primary.ServiceMetrics, error) {
	ctx, _ = ctxutil.WithRequestID(s.scope(ctx))
	record, err := s.client.GetMetrics(ctx)
	if err != nil {
		s.record(ctx, OpGetMetrics, "", err)
		return nil, fmt.Errorf("failed to get service metrics: %w", err)
	}
	return &primary.ServiceMetrics{
		TotalRequests:      record.TotalRequests,
		SuccessRate:        record.SuccessRate,
		AvgLatency:         record.AvgLatency,
		TotalDesigns:       record.TotalDesigns,
		AvgSitesPerDesign:  record.AvgSitesPerDesign,
		AvgGuidesPerDesign: record.AvgGuidesPerDesign,
		TotalFeedback:      record.TotalFeedback,
		AvgRating:          record.AvgRating,
		RLUplift:           record.RLUplift,
	}, nil
}

// State helpers

// transition applies ev and publishes the result. Caller must hold mu.
func (s *DesignSessionServiceImpl) transition(ev session.Event) session.Snapshot {
	s.snapshot = session.Reduce(s.snapshot, ev)
	s.publish(snapshotToView(s.snapshot))
	return s.snapshot
}

// complete applies a response event and reports whether it was current
// when it arrived.
func (s *DesignSessionServiceImpl) complete(ev session.Event, isCurrent func(session.Snapshot) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := isCurrent(s.snapshot)
	s.transition(ev)
	return current
}

func fetchIsCurrent(tag uint64) func(session.Snapshot) bool {
	return func(snap session.Snapshot) bool { return snap.IsCurrentFetch(tag) }
}

func designIsCurrent(tag uint64) func(session.Snapshot) bool {
	return func(snap session.Snapshot) bool { return snap.IsCurrentDesign(tag) }
}

func (s *DesignSessionServiceImpl) current() session.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// publish offers view to every subscriber without blocking. Caller must hold mu.
func (s *DesignSessionServiceImpl) publish(view *primary.SessionView) {
	for _, ch := range s.subs {
		select {
		case ch <- view:
		default:
			// Drop the pending view in favor of the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- view:
			default:
			}
		}
	}
}

// Diagnostic helpers

// scope attaches the session ID unless the caller already set one.
func (s *DesignSessionServiceImpl) scope(ctx context.Context) context.Context {
	if ctxutil.SessionFromContext(ctx) != "" {
		return ctx
	}
	return ctxutil.WithSessionID(ctx, s.sessionID)
}

// skip turns a denied guard into the operation result: no-ops return nil.
func (s *DesignSessionServiceImpl) skip(ctx context.Context, op string, guard session.GuardResult) error {
	if guard.NoOp {
		s.logger.DebugContext(ctx, "ignored",
			slog.String("operation", op),
			slog.String("reason", guard.Reason),
		)
		return nil
	}
	return guard.Error()
}

// record journals a failure. The write outlives the request's cancellation
// so failures caused by it are still kept.
func (s *DesignSessionServiceImpl) record(ctx context.Context, op, subject string, cause error) {
	if err := s.diagnostics.Record(context.WithoutCancel(ctx), op, errorKind(cause), subject, cause); err != nil {
		s.logger.ErrorContext(ctx, "failed to record diagnostic",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}
}

func (s *DesignSessionServiceImpl) recordStale(ctx context.Context, op, subject string, tag uint64) {
	cause := fmt.Errorf("discarded response for request #%d: a newer request was issued", tag)
	if err := s.diagnostics.Record(context.WithoutCancel(ctx), op, secondary.ErrorKindStale, subject, cause); err != nil {
		s.logger.ErrorContext(ctx, "failed to record diagnostic",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
	}
}

// invalidResultError reports a design result that breaks candidate invariants.
type invalidResultError struct {
	err error
}

func (e *invalidResultError) Error() string {
	return fmt.Sprintf("service contract violation: %v", e.err)
}

func (e *invalidResultError) Unwrap() error { return e.err }

func (e *invalidResultError) Kind() string { return secondary.ErrorKindContract }

// errorKind classifies err for the diagnostic journal.
func errorKind(err error) string {
	var kinded secondary.KindedError
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	switch {
	case errors.Is(err, session.ErrInvalidRegion),
		errors.Is(err, session.ErrNoSequence),
		errors.Is(err, session.ErrSequenceMismatch),
		errors.Is(err, session.ErrInvalidRating):
		return secondary.ErrorKindInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return secondary.ErrorKindTransport
	}
	return secondary.ErrorKindUnknown
}

// Mapping helpers

func recordToCandidate(r *secondary.GuideRecord) session.GuideCandidate {
	return session.GuideCandidate{
		CandidateID:      r.CandidateID,
		Locus:            r.Locus,
		GuideSequence:    r.GuideSequence,
		PAMSequence:      r.PAMSequence,
		GCContent:        r.GCContent,
		OnTargetScore:    r.OnTargetScore,
		OffTargetPenalty: r.OffTargetPenalty,
		CompositeScore:   r.CompositeScore,
	}
}

func candidatesToPrimary(cs []session.GuideCandidate) []*primary.GuideCandidate {
	out := make([]*primary.GuideCandidate, len(cs))
	for i, c := range cs {
		out[i] = &primary.GuideCandidate{
			Rank:             i + 1,
			CandidateID:      c.CandidateID,
			Locus:            c.Locus,
			GuideSequence:    c.GuideSequence,
			PAMSequence:      c.PAMSequence,
			GCContent:        c.GCContent,
			OnTargetScore:    c.OnTargetScore,
			OffTargetPenalty: c.OffTargetPenalty,
			CompositeScore:   c.CompositeScore,
		}
	}
	return out
}

func snapshotToView(snap session.Snapshot) *primary.SessionView {
	view := &primary.SessionView{
		Version:        snap.Version,
		GeneID:         snap.GeneID,
		SequenceLength: snap.SequenceLen(),
		RegionStart:    snap.Region.Start,
		RegionEnd:      snap.Region.End,
		Candidates:     candidatesToPrimary(snap.Candidates),
		FetchInFlight:  snap.FetchInFlight,
		DesignInFlight: snap.DesignInFlight,
		Loading:        snap.Loading(),
		LastError:      snap.LastError,
	}
	if snap.Sequence != nil {
		view.SequenceGeneID = snap.Sequence.GeneID
		view.Sequence = snap.Sequence.Residues
	}

	if m, ok := session.Summarize(snap.Candidates); ok {
		view.Metrics = &primary.SummaryMetrics{
			Count:        m.Count,
			AvgOnTarget:  m.AvgOnTarget,
			AvgGCContent: m.AvgGCContent,
			TopScore:     m.TopScore,
		}
	}

	dist := session.ScoreDistribution(snap.Candidates, distributionSize)
	view.Distribution = make([]primary.ScorePoint, len(dist))
	for i, p := range dist {
		view.Distribution[i] = primary.ScorePoint{Rank: p.Rank, Score: p.Score}
	}

	scatter := session.TargetScatter(snap.Candidates)
	view.Scatter = make([]primary.ScatterPoint, len(scatter))
	for i, p := range scatter {
		view.Scatter[i] = primary.ScatterPoint{CandidateID: p.CandidateID, OnTarget: p.OnTarget, OffTarget: p.OffTarget}
	}
	return view
}

func configToPrimary(r *secondary.ServiceConfigRecord) *primary.ServiceConfig {
	return &primary.ServiceConfig{
		Seed:        r.Seed,
		PAMSequence: r.PAMSequence,
		GuideLength: r.GuideLength,
		Weights:     r.Weights,
		RLParams:    r.RLParams,
	}
}

// Ensure DesignSessionServiceImpl implements the interface
var _ primary.DesignSessionService = (*DesignSessionServiceImpl)(nil)
