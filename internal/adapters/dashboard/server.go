// Package dashboard projects one design session over HTTP and WebSocket
// so a browser can drive it. Handlers are thin: they decode input, call the
// session service and encode the resulting view.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/example/crispr/internal/core/export"
	"github.com/example/crispr/internal/core/session"
	"github.com/example/crispr/internal/ports/primary"
	"github.com/example/crispr/internal/ports/secondary"
)

// writeWait bounds a single WebSocket write.
const writeWait = 10 * time.Second

// Message types sent on the WebSocket stream.
const (
	MessageSession = "session"
	MessageToast   = "toast"
)

// StreamMessage is one frame of the WebSocket stream.
type StreamMessage struct {
	Type    string               `json:"type"`
	Session *primary.SessionView `json:"session,omitempty"`
	Toast   *Toast               `json:"toast,omitempty"`
}

// Server serves the dashboard API for one session.
type Server struct {
	session     primary.DesignSessionService
	diagnostics primary.DiagnosticService
	toasts      *ToastHub
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// NewServer creates a dashboard server. toasts may be nil.
func NewServer(sessionService primary.DesignSessionService, diagnostics primary.DiagnosticService, toasts *ToastHub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		session:     sessionService,
		diagnostics: diagnostics,
		toasts:      toasts,
		logger:      logger,
		upgrader: websocket.Upgrader{
			// The dashboard binds to loopback by default.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the HTTP handler for the dashboard.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/session", s.handleSession).Methods(http.MethodGet)
	api.HandleFunc("/sequence", s.handleFetch).Methods(http.MethodPost)
	api.HandleFunc("/region", s.handleRegion).Methods(http.MethodPost)
	api.HandleFunc("/design", s.handleDesign).Methods(http.MethodPost)
	api.HandleFunc("/retrain", s.handleRetrain).Methods(http.MethodPost)
	api.HandleFunc("/feedback", s.handleFeedback).Methods(http.MethodPost)
	api.HandleFunc("/candidates", s.handleCandidates).Methods(http.MethodGet)
	api.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/diagnostics", s.handleDiagnostics).Methods(http.MethodGet)
	api.HandleFunc("/diagnostics", s.handleClearDiagnostics).Methods(http.MethodDelete)
	api.HandleFunc("/service/config", s.handleServiceConfig).Methods(http.MethodGet)
	api.HandleFunc("/service/config", s.handleUpdateServiceConfig).Methods(http.MethodPost)
	api.HandleFunc("/service/metrics", s.handleServiceMetrics).Methods(http.MethodGet)
	api.HandleFunc("/ws", s.handleStream).Methods(http.MethodGet)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.GetSession(r.Context()))
}

// issued detaches a session request from the HTTP request, so a client that
// reloads or disconnects does not abort a call already sent to the service.
func issued(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

type geneBody struct {
	GeneID string `json:"gene_id"`
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	var body geneBody
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.session.FetchSequence(issued(r), body.GeneID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.GetSession(r.Context()))
}

type regionBody struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	var body regionBody
	if !s.decode(w, r, &body) {
		return
	}

	ctx := r.Context()
	var err error
	switch {
	case body.Start != nil && body.End != nil:
		err = s.session.SetRegion(ctx, *body.Start, *body.End)
	case body.Start != nil:
		err = s.session.SetRegionStart(ctx, *body.Start)
	case body.End != nil:
		err = s.session.SetRegionEnd(ctx, *body.End)
	default:
		writeDetail(w, http.StatusBadRequest, "start or end is required")
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.GetSession(ctx))
}

func (s *Server) handleDesign(w http.ResponseWriter, r *http.Request) {
	var body geneBody
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.session.DesignGuides(issued(r), body.GeneID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.GetSession(r.Context()))
}

func (s *Server) handleRetrain(w http.ResponseWriter, r *http.Request) {
	var body geneBody
	if !s.decode(w, r, &body) {
		return
	}
	if err := s.session.RetrainModel(issued(r), body.GeneID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.GetSession(r.Context()))
}

type feedbackBody struct {
	CandidateID string `json:"candidate_id"`
	Rating      int    `json:"rating"`
	Notes       string `json:"notes"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var body feedbackBody
	if !s.decode(w, r, &body) {
		return
	}
	err := s.session.SubmitFeedback(issued(r), primary.FeedbackRequest{
		CandidateID: body.CandidateID,
		Rating:      body.Rating,
		Notes:       body.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "feedback_received"})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	desc, _ := strconv.ParseBool(q.Get("desc"))

	candidates, err := s.session.ListCandidates(r.Context(), q.Get("sort"), desc)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.session.ExportResults(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	entries, err := s.diagnostics.ListDiagnostics(r.Context(), primary.DiagnosticFilters{
		Operation: q.Get("operation"),
		Kind:      q.Get("kind"),
		Subject:   q.Get("subject"),
		Limit:     limit,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleClearDiagnostics(w http.ResponseWriter, r *http.Request) {
	n, err := s.diagnostics.ClearDiagnostics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

func (s *Server) handleServiceConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.session.GetServiceConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

type configBody struct {
	Weights  map[string]float64 `json:"weights"`
	RLParams map[string]float64 `json:"rl_params"`
}

func (s *Server) handleUpdateServiceConfig(w http.ResponseWriter, r *http.Request) {
	var body configBody
	if !s.decode(w, r, &body) {
		return
	}
	cfg, err := s.session.UpdateServiceConfig(r.Context(), primary.UpdateServiceConfigRequest{
		Weights:  body.Weights,
		RLParams: body.RLParams,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleServiceMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.session.GetServiceMetrics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleStream pushes the current view, then every later view and toast,
// until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	views, cancelViews := s.session.Subscribe()
	defer cancelViews()

	var toasts <-chan Toast
	if s.toasts != nil {
		ch, cancelToasts := s.toasts.Subscribe()
		defer cancelToasts()
		toasts = ch
	}

	// The client sends nothing; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.send(ws, StreamMessage{Type: MessageSession, Session: s.session.GetSession(r.Context())}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case view, ok := <-views:
			if !ok {
				return
			}
			if err := s.send(ws, StreamMessage{Type: MessageSession, Session: view}); err != nil {
				return
			}
		case toast, ok := <-toasts:
			if !ok {
				return
			}
			if err := s.send(ws, StreamMessage{Type: MessageToast, Toast: &toast}); err != nil {
				return
			}
		}
	}
}

func (s *Server) send(ws *websocket.Conn, msg StreamMessage) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket client gone", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Helpers

func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeError maps input errors to 4xx and collaborator failures to 502.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WarnContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeDetail(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalidRegion),
		errors.Is(err, session.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoSequence),
		errors.Is(err, session.ErrSequenceMismatch):
		return http.StatusConflict
	}

	var kinded secondary.KindedError
	if errors.As(err, &kinded) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
