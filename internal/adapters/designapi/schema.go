package designapi

import (
	"fmt"

	"github.com/example/crispr/internal/ports/secondary"
)

// Wire schemas. Required response fields are pointers so a missing field can
// be told apart from a zero value.

type sequenceResponse struct {
	GeneID   string  `json:"gene_id"`
	Sequence *string `json:"sequence"`
	Length   *int    `json:"length"`
}

func (r sequenceResponse) toRecord(geneID string) (*secondary.SequenceRecord, error) {
	if r.Sequence == nil {
		return nil, fmt.Errorf("missing field %q", "sequence")
	}
	if r.Length == nil {
		return nil, fmt.Errorf("missing field %q", "length")
	}
	if *r.Length != len(*r.Sequence) {
		return nil, fmt.Errorf("length %d does not match sequence of %d bases", *r.Length, len(*r.Sequence))
	}
	if r.GeneID != "" {
		geneID = r.GeneID
	}
	return &secondary.SequenceRecord{GeneID: geneID, Sequence: *r.Sequence, Length: *r.Length}, nil
}

type designRequest struct {
	GeneID      string `json:"gene_id"`
	RegionStart int    `json:"region_start"`
	RegionEnd   int    `json:"region_end"`
}

type designResponse struct {
	Guides *[]guideSchema `json:"guides"`
}

type guideSchema struct {
	CandidateID      *string  `json:"candidate_id"`
	Locus            *int     `json:"locus"`
	GuideSequence    *string  `json:"guide_sequence"`
	PAMSequence      *string  `json:"pam_sequence"`
	GCContent        *float64 `json:"gc_content"`
	OnTargetScore    *float64 `json:"on_target_score"`
	OffTargetPenalty *float64 `json:"off_target_penalty"`
	CompositeScore   *float64 `json:"composite_score"`
}

func (r designResponse) toRecords() ([]*secondary.GuideRecord, error) {
	if r.Guides == nil {
		return nil, fmt.Errorf("missing field %q", "guides")
	}

	records := make([]*secondary.GuideRecord, 0, len(*r.Guides))
	seen := make(map[string]bool, len(*r.Guides))
	for i, g := range *r.Guides {
		record, err := g.toRecord()
		if err != nil {
			return nil, fmt.Errorf("guide %d: %w", i, err)
		}
		if seen[record.CandidateID] {
			return nil, fmt.Errorf("guide %d: duplicate candidate_id %q", i, record.CandidateID)
		}
		seen[record.CandidateID] = true
		records = append(records, record)
	}
	return records, nil
}

func (g guideSchema) toRecord() (*secondary.GuideRecord, error) {
	missing := ""
	switch {
	case g.CandidateID == nil || *g.CandidateID == "":
		missing = "candidate_id"
	case g.Locus == nil:
		missing = "locus"
	case g.GuideSequence == nil:
		missing = "guide_sequence"
	case g.PAMSequence == nil:
		missing = "pam_sequence"
	case g.GCContent == nil:
		missing = "gc_content"
	case g.OnTargetScore == nil:
		missing = "on_target_score"
	case g.OffTargetPenalty == nil:
		missing = "off_target_penalty"
	case g.CompositeScore == nil:
		missing = "composite_score"
	}
	if missing != "" {
		return nil, fmt.Errorf("missing field %q", missing)
	}

	return &secondary.GuideRecord{
		CandidateID:      *g.CandidateID,
		Locus:            *g.Locus,
		GuideSequence:    *g.GuideSequence,
		PAMSequence:      *g.PAMSequence,
		GCContent:        *g.GCContent,
		OnTargetScore:    *g.OnTargetScore,
		OffTargetPenalty: *g.OffTargetPenalty,
		CompositeScore:   *g.CompositeScore,
	}, nil
}

type feedbackRequest struct {
	CandidateID string  `json:"candidate_id"`
	Rating      int     `json:"rating"`
	Notes       *string `json:"notes,omitempty"`
}

type configSchema struct {
	Seed        int                `json:"seed"`
	PAMSequence string             `json:"pam_sequence"`
	GuideLength int                `json:"guide_length"`
	Weights     map[string]float64 `json:"weights"`
	RLParams    map[string]float64 `json:"rl_params"`
}

func (c configSchema) toRecord() (*secondary.ServiceConfigRecord, error) {
	if c.PAMSequence == "" {
		return nil, fmt.Errorf("missing field %q", "pam_sequence")
	}
	return &secondary.ServiceConfigRecord{
		Seed:        c.Seed,
		PAMSequence: c.PAMSequence,
		GuideLength: c.GuideLength,
		Weights:     c.Weights,
		RLParams:    c.RLParams,
	}, nil
}

type configUpdateRequest struct {
	Weights  map[string]float64 `json:"weights,omitempty"`
	RLParams map[string]float64 `json:"rl_params,omitempty"`
}

type metricsSchema struct {
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

type errorDetail struct {
	Detail any `json:"detail"`
}
