package stubservice

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Settings mirrors the scoring configuration exposed on /crispr/config.
type Settings struct {
	Seed        int
	PAMSequence string
	GuideLength int
	Weights     map[string]float64
	RLParams    map[string]float64
}

// DefaultSettings returns SpCas9 settings: NGG PAM, 20 nt guides.
func DefaultSettings() Settings {
	return Settings{
		Seed:        42,
		PAMSequence: "NGG",
		GuideLength: 20,
		Weights:     map[string]float64{"on_target": 0.5, "off_target": 0.3, "coverage": 0.2},
		RLParams:    map[string]float64{"epsilon": 0.1, "learning_rate": 0.01},
	}
}

// Guide is one scored candidate, in wire field names.
type Guide struct {
	CandidateID      string  `json:"candidate_id"`
	Locus            int     `json:"locus"`
	GuideSequence    string  `json:"guide_sequence"`
	PAMSequence      string  `json:"pam_sequence"`
	GCContent        float64 `json:"gc_content"`
	OnTargetScore    float64 `json:"on_target_score"`
	OffTargetPenalty float64 `json:"off_target_penalty"`
	CompositeScore   float64 `json:"composite_score"`
}

// site is a PAM match with the guide immediately upstream of it.
type site struct {
	locus int
	guide string
	pam   string
}

func pamPattern(pam string) (*regexp.Regexp, error) {
	if pam == "" {
		return nil, fmt.Errorf("empty PAM")
	}
	expr := strings.ReplaceAll(strings.ToUpper(pam), "N", "[ACGT]")
	return regexp.Compile(expr)
}

// scanPAMSites finds PAM matches whose start lies in [start, end) and which
// have a full-length guide upstream.
func scanPAMSites(sequence string, start, end int, s Settings) ([]site, error) {
	re, err := pamPattern(s.PAMSequence)
	if err != nil {
		return nil, err
	}
	if end <= 0 || end > len(sequence) {
		end = len(sequence)
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return nil, nil
	}

	var sites []site
	for _, m := range re.FindAllStringIndex(sequence[start:end], -1) {
		pamStart := start + m[0]
		guideStart := pamStart - s.GuideLength
		if guideStart < 0 {
			continue
		}
		pamEnd := pamStart + len(s.PAMSequence)
		if pamEnd > len(sequence) {
			continue
		}
		sites = append(sites, site{
			locus: pamStart,
			guide: sequence[guideStart:pamStart],
			pam:   sequence[pamStart:pamEnd],
		})
	}
	return sites, nil
}

func gcContent(seq string) float64 {
	if seq == "" {
		return 0
	}
	gc := strings.Count(seq, "G") + strings.Count(seq, "C")
	return float64(gc) / float64(len(seq)) * 100
}

func thermodynamic(seq string) float64 {
	at := strings.Count(seq, "A") + strings.Count(seq, "T")
	gc := strings.Count(seq, "G") + strings.Count(seq, "C")
	return float64(gc - at)
}

func contextWeight(locus, seqLen int) float64 {
	center := float64(seqLen) / 2
	distance := math.Abs(float64(locus) - center)
	return 1 / (1 + distance/10)
}

// scoreSite applies the placeholder on/off-target model.
func scoreSite(geneID string, st site, seqLen int, s Settings) Guide {
	gc := gcContent(st.guide)
	onTarget := (math.Min(gc/50, 1) + math.Min((thermodynamic(st.guide)+10)/20, 1)) / 2
	offTarget := gc / 100 * (1 - contextWeight(st.locus, seqLen))
	composite := s.Weights["on_target"]*onTarget - s.Weights["off_target"]*offTarget + s.Weights["coverage"]

	return Guide{
		CandidateID:      fmt.Sprintf("%s_%d", geneID, st.locus),
		Locus:            st.locus,
		GuideSequence:    st.guide,
		PAMSequence:      st.pam,
		GCContent:        gc,
		OnTargetScore:    onTarget,
		OffTargetPenalty: offTarget,
		CompositeScore:   composite,
	}
}

// Design scans the region and returns at most limit guides, best composite score first.
// It also returns the number of PAM sites found.
func Design(geneID, sequence string, start, end, limit int, s Settings) ([]Guide, int, error) {
	sites, err := scanPAMSites(sequence, start, end, s)
	if err != nil {
		return nil, 0, err
	}

	guides := make([]Guide, 0, len(sites))
	for _, st := range sites {
		guides = append(guides, scoreSite(geneID, st, len(sequence), s))
	}
	sort.SliceStable(guides, func(i, j int) bool {
		return guides[i].CompositeScore > guides[j].CompositeScore
	})
	if limit > 0 && len(guides) > limit {
		guides = guides[:limit]
	}
	return guides, len(sites), nil
}
