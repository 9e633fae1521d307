// Package stubservice is a deterministic stand-in for the external guide
// design service. It serves the same HTTP interface from an in-memory set of
// sequences so the client can be exercised offline and in tests.
package stubservice

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
)

// MaxGuides is the number of candidates returned per design.
const MaxGuides = 10

// FeedbackEntry is one rating received on /crispr/feedback.
type FeedbackEntry struct {
	CandidateID string
	Rating      float64
	Notes       string
}

// Server holds the stub's sequences, settings and telemetry.
type Server struct {
	mu        sync.Mutex
	sequences map[string]string
	settings  Settings
	feedback  []FeedbackEntry
	metrics   *metricsCollector
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a stub serving the given gene ID -> sequence map.
func New(sequences map[string]string, logger *slog.Logger) *Server {
	seqs := make(map[string]string, len(sequences))
	for id, seq := range sequences {
		seqs[id] = strings.ToUpper(seq)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		sequences: seqs,
		settings:  DefaultSettings(),
		metrics:   newMetricsCollector(),
		logger:    logger,
		now:       time.Now,
	}
}

// AddSequence registers or replaces a sequence.
func (s *Server) AddSequence(geneID, sequence string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[geneID] = strings.ToUpper(sequence)
}

// Feedback returns the ratings received so far.
func (s *Server) Feedback() []FeedbackEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FeedbackEntry, len(s.feedback))
	copy(out, s.feedback)
	return out
}

// Router returns the HTTP handler for the service endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/crispr/sequence/{geneId}", s.handleSequence).Methods(http.MethodGet)
	r.HandleFunc("/crispr/design", s.handleDesign).Methods(http.MethodPost)
	r.HandleFunc("/crispr/feedback", s.handleFeedback).Methods(http.MethodPost)
	r.HandleFunc("/crispr/config", s.handleGetConfig).Methods(http.MethodGet)
	r.HandleFunc("/crispr/config", s.handleUpdateConfig).Methods(http.MethodPost)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("stub request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", r.Header.Get("X-Request-ID")),
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) lookup(geneID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq, ok := s.sequences[strings.TrimSpace(geneID)]
	return seq, ok
}

func (s *Server) handleSequence(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	geneID := strings.TrimSpace(mux.Vars(r)["geneId"])

	seq, ok := s.lookup(geneID)
	if !ok {
		s.metrics.recordRequest("/crispr/sequence", s.now().Sub(start), false)
		writeDetail(w, http.StatusNotFound, "Gene sequence not found")
		return
	}

	s.metrics.recordRequest("/crispr/sequence", s.now().Sub(start), true)
	writeJSON(w, http.StatusOK, map[string]any{
		"gene_id":  geneID,
		"sequence": seq,
		"length":   len(seq),
	})
}

type designBody struct {
	GeneID      string `json:"gene_id"`
	RegionStart *int   `json:"region_start"`
	RegionEnd   *int   `json:"region_end"`
}

func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	var body designBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.GeneID == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "gene_id is required")
		return
	}

	seq, ok := s.lookup(body.GeneID)
	if !ok {
		s.metrics.recordRequest("/crispr/design", s.now().Sub(start), false)
		writeDetail(w, http.StatusNotFound, "Gene sequence not found")
		return
	}

	regionStart, regionEnd := 0, len(seq)
	if body.RegionStart != nil {
		regionStart = *body.RegionStart
	}
	if body.RegionEnd != nil && *body.RegionEnd > 0 {
		regionEnd = *body.RegionEnd
	}

	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	guides, sites, err := Design(strings.TrimSpace(body.GeneID), seq, regionStart, regionEnd, MaxGuides, settings)
	if err != nil {
		s.metrics.recordRequest("/crispr/design", s.now().Sub(start), false)
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}

	elapsed := s.now().Sub(start)
	s.metrics.recordDesign(sites, len(guides))
	s.metrics.recordRequest("/crispr/design", elapsed, true)
	writeJSON(w, http.StatusOK, map[string]any{
		"gene_id":     body.GeneID,
		"region":      map[string]int{"start": regionStart, "end": regionEnd},
		"total_sites": sites,
		"guides":      guides,
	})
}

type feedbackBody struct {
	CandidateID string   `json:"candidate_id"`
	Rating      *float64 `json:"rating"`
	Notes       string   `json:"notes"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var body feedbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.CandidateID == "" || body.Rating == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "candidate_id and rating are required")
		return
	}

	s.mu.Lock()
	s.feedback = append(s.feedback, FeedbackEntry{CandidateID: body.CandidateID, Rating: *body.Rating, Notes: body.Notes})
	s.mu.Unlock()
	s.metrics.recordFeedback(*body.Rating)

	writeJSON(w, http.StatusOK, map[string]string{"status": "feedback_received"})
}

type configBody struct {
	Seed        int                `json:"seed"`
	PAMSequence string             `json:"pam_sequence"`
	GuideLength int                `json:"guide_length"`
	Weights     map[string]float64 `json:"weights"`
	RLParams    map[string]float64 `json:"rl_params"`
}

func (s *Server) configBody() configBody {
	s.mu.Lock()
	defer s.mu.Unlock()
	return configBody{
		Seed:        s.settings.Seed,
		PAMSequence: s.settings.PAMSequence,
		GuideLength: s.settings.GuideLength,
		Weights:     copyWeights(s.settings.Weights),
		RLParams:    copyWeights(s.settings.RLParams),
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.configBody())
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Weights  map[string]float64 `json:"weights"`
		RLParams map[string]float64 `json:"rl_params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid config body")
		return
	}

	s.mu.Lock()
	weights := copyWeights(s.settings.Weights)
	for k, v := range body.Weights {
		weights[k] = v
	}
	rl := copyWeights(s.settings.RLParams)
	for k, v := range body.RLParams {
		rl[k] = v
	}
	s.settings.Weights = weights
	s.settings.RLParams = rl
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, s.configBody())
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.summary())
}

func copyWeights(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
