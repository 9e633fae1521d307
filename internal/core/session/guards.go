package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSequence is returned by operations that need a loaded sequence.
	ErrNoSequence = errors.New("no sequence loaded")
	// ErrSequenceMismatch is returned when a design names a gene other than the loaded one.
	ErrSequenceMismatch = errors.New("gene does not match loaded sequence")
	// ErrInvalidRating is returned for feedback ratings outside 1..5.
	ErrInvalidRating = errors.New("invalid rating")
)

// Rating bounds accepted by the feedback endpoint.
const (
	MinRating = 1
	MaxRating = 5
)

// GuardResult represents the outcome of a guard evaluation.
// NoOp marks input that is silently ignored rather than reported.
type GuardResult struct {
	Allowed bool
	NoOp    bool
	Reason  string
	Err     error
}

// Error returns the guard result as an error if it denies the operation, nil otherwise.
// A no-op is not an error.
func (r GuardResult) Error() error {
	if r.Allowed || r.NoOp {
		return nil
	}
	if r.Err != nil {
		return fmt.Errorf("%w: %s", r.Err, r.Reason)
	}
	return errors.New(r.Reason)
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func noop(reason string) GuardResult { return GuardResult{NoOp: true, Reason: reason} }

// FetchContext provides the input to the sequence fetch guard.
type FetchContext struct {
	GeneID string
}

// CanFetchSequence evaluates whether a sequence fetch should be issued.
// Rule: an empty gene identifier is a silent no-op.
func CanFetchSequence(ctx FetchContext) GuardResult {
	if ctx.GeneID == "" {
		return noop("empty gene identifier")
	}
	return allow()
}

// DesignContext provides the input to the guide design guard.
type DesignContext struct {
	GeneID         string
	HasSequence    bool
	SequenceGeneID string
}

// CanDesignGuides evaluates whether a design request should be issued.
// Rules: empty gene or no loaded sequence is a silent no-op; the gene must
// match the loaded sequence because the region indexes into it.
func CanDesignGuides(ctx DesignContext) GuardResult {
	if ctx.GeneID == "" {
		return noop("empty gene identifier")
	}
	if !ctx.HasSequence {
		return noop("no sequence loaded")
	}
	if ctx.GeneID != ctx.SequenceGeneID {
		return GuardResult{
			Reason: fmt.Sprintf("loaded sequence belongs to %s, fetch %s first", ctx.SequenceGeneID, ctx.GeneID),
			Err:    ErrSequenceMismatch,
		}
	}
	return allow()
}

// FeedbackContext provides the input to the feedback guard.
type FeedbackContext struct {
	CandidateID string
	Rating      int
}

// CanSubmitFeedback evaluates whether a rating can be sent.
// Rules: empty candidate is a no-op; rating must be within MinRating..MaxRating.
func CanSubmitFeedback(ctx FeedbackContext) GuardResult {
	if ctx.CandidateID == "" {
		return noop("empty candidate identifier")
	}
	if ctx.Rating < MinRating || ctx.Rating > MaxRating {
		return GuardResult{
			Reason: fmt.Sprintf("rating %d for %s must be between %d and %d", ctx.Rating, ctx.CandidateID, MinRating, MaxRating),
			Err:    ErrInvalidRating,
		}
	}
	return allow()
}

// CanEditRegion evaluates whether the region can be edited.
// Rule: a region only exists relative to a loaded sequence.
func CanEditRegion(hasSequence bool) GuardResult {
	if !hasSequence {
		return GuardResult{Reason: "fetch a sequence before selecting a region", Err: ErrNoSequence}
	}
	return allow()
}
