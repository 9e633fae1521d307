package stubservice

import (
	"sync"
	"time"
)

// metricsCollector keeps running totals for the /metrics summary.
type metricsCollector struct {
	mu sync.Mutex

	requests        int
	successful      int
	totalLatency    time.Duration
	designs         int
	totalSites      int
	totalGuides     int
	feedbackCount   int
	feedbackRatings float64
}

func newMetricsCollector() *metricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) recordRequest(endpoint string, latency time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
	if success {
		m.successful++
	}
	m.totalLatency += latency
}

func (m *metricsCollector) recordDesign(sites, guides int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.designs++
	m.totalSites += sites
	m.totalGuides += guides
}

func (m *metricsCollector) recordFeedback(rating float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedbackCount++
	m.feedbackRatings += rating
}

func (m *metricsCollector) summary() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]any{
		"total_requests":        m.requests,
		"success_rate":          ratio(float64(m.successful), m.requests),
		"avg_latency":           ratio(m.totalLatency.Seconds(), m.requests),
		"total_designs":         m.designs,
		"avg_sites_per_design":  ratio(float64(m.totalSites), m.designs),
		"avg_guides_per_design": ratio(float64(m.totalGuides), m.designs),
		"total_feedback":        m.feedbackCount,
		"avg_rating":            ratio(m.feedbackRatings, m.feedbackCount),
		"rl_uplift":             0.0,
	}
}

func ratio(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
