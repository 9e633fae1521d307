package session

// Metrics are the aggregate figures shown above the candidate table.
type Metrics struct {
	Count        int
	AvgOnTarget  float64
	AvgGCContent float64
	TopScore     float64
}

// Summarize computes aggregate metrics over candidates.
// ok is false for an empty list: no aggregate exists, nothing is divided by zero.
func Summarize(candidates []GuideCandidate) (m Metrics, ok bool) {
	if len(candidates) == 0 {
		return Metrics{}, false
	}

	var onTarget, gc float64
	top := candidates[0].CompositeScore
	for _, c := range candidates {
		onTarget += c.OnTargetScore
		gc += c.GCContent
		if c.CompositeScore > top {
			top = c.CompositeScore
		}
	}

	n := float64(len(candidates))
	return Metrics{
		Count:        len(candidates),
		AvgOnTarget:  onTarget / n,
		AvgGCContent: gc / n,
		TopScore:     top,
	}, true
}

// ScorePoint is one bar of the score distribution chart.
type ScorePoint struct {
	Rank  int
	Score float64
}

// ScoreDistribution returns the composite scores of the first n candidates in display order.
func ScoreDistribution(candidates []GuideCandidate, n int) []ScorePoint {
	if n > len(candidates) {
		n = len(candidates)
	}
	points := make([]ScorePoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, ScorePoint{Rank: i + 1, Score: candidates[i].CompositeScore})
	}
	return points
}

// ScatterPoint pairs the on-target score and off-target penalty of one candidate.
type ScatterPoint struct {
	CandidateID string
	OnTarget    float64
	OffTarget   float64
}

// TargetScatter returns one point per candidate.
func TargetScatter(candidates []GuideCandidate) []ScatterPoint {
	points := make([]ScatterPoint, len(candidates))
	for i, c := range candidates {
		points[i] = ScatterPoint{CandidateID: c.CandidateID, OnTarget: c.OnTargetScore, OffTarget: c.OffTargetPenalty}
	}
	return points
}
