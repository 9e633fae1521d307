// Package designapi is the HTTP client for the external guide design service.
// Every call makes exactly one attempt; responses are decoded into typed
// records at this boundary or rejected as contract violations.
package designapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/crispr/internal/ctxutil"
	"github.com/example/crispr/internal/ports/secondary"
)

// Header names sent with every request.
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// Client implements secondary.GuideDesignClient over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
// A zero timeout leaves requests bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client using the given http.Client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchSequence retrieves the nucleotide sequence for a gene.
func (c *Client) FetchSequence(ctx context.Context, geneID string) (*secondary.SequenceRecord, error) {
	const op = "fetch sequence"
	geneID = strings.TrimSpace(geneID)

	var resp sequenceResponse
	if err := c.do(ctx, op, http.MethodGet, "/crispr/sequence/"+url.PathEscape(geneID), nil, &resp); err != nil {
		return nil, err
	}

	record, err := resp.toRecord(geneID)
	if err != nil {
		return nil, &ContractViolationError{Op: op, Reason: err.Error()}
	}
	return record, nil
}

// DesignGuides requests ranked candidates for a region of a gene.
func (c *Client) DesignGuides(ctx context.Context, req secondary.DesignRequestRecord) ([]*secondary.GuideRecord, error) {
	const op = "design guides"
	body := designRequest{
		GeneID:      strings.TrimSpace(req.GeneID),
		RegionStart: req.RegionStart,
		RegionEnd:   req.RegionEnd,
	}

	var resp designResponse
	if err := c.do(ctx, op, http.MethodPost, "/crispr/design", body, &resp); err != nil {
		return nil, err
	}

	records, err := resp.toRecords()
	if err != nil {
		return nil, &ContractViolationError{Op: op, Reason: err.Error()}
	}
	return records, nil
}

// SubmitFeedback sends a rating for one candidate. The acknowledgment body is not inspected.
func (c *Client) SubmitFeedback(ctx context.Context, feedback secondary.FeedbackRecord) error {
	body := feedbackRequest{CandidateID: feedback.CandidateID, Rating: feedback.Rating}
	if feedback.Notes != "" {
		body.Notes = &feedback.Notes
	}
	return c.do(ctx, "submit feedback", http.MethodPost, "/crispr/feedback", body, nil)
}

// GetConfig retrieves the service's scoring configuration.
func (c *Client) GetConfig(ctx context.Context) (*secondary.ServiceConfigRecord, error) {
	const op = "get config"
	var resp configSchema
	if err := c.do(ctx, op, http.MethodGet, "/crispr/config", nil, &resp); err != nil {
		return nil, err
	}
	record, err := resp.toRecord()
	if err != nil {
		return nil, &ContractViolationError{Op: op, Reason: err.Error()}
	}
	return record, nil
}

// UpdateConfig changes the service's scoring weights.
func (c *Client) UpdateConfig(ctx context.Context, update secondary.ServiceConfigUpdate) (*secondary.ServiceConfigRecord, error) {
	const op = "update config"
	body := configUpdateRequest{Weights: update.Weights, RLParams: update.RLParams}

	var resp configSchema
	if err := c.do(ctx, op, http.MethodPost, "/crispr/config", body, &resp); err != nil {
		return nil, err
	}
	record, err := resp.toRecord()
	if err != nil {
		return nil, &ContractViolationError{Op: op, Reason: err.Error()}
	}
	return record, nil
}

// GetMetrics retrieves the service's telemetry summary.
func (c *Client) GetMetrics(ctx context.Context) (*secondary.ServiceMetricsRecord, error) {
	var resp metricsSchema
	if err := c.do(ctx, "get metrics", http.MethodGet, "/metrics", nil, &resp); err != nil {
		return nil, err
	}
	return &secondary.ServiceMetricsRecord{
		TotalRequests:      resp.TotalRequests,
		SuccessRate:        resp.SuccessRate,
		AvgLatency:         resp.AvgLatency,
		TotalDesigns:       resp.TotalDesigns,
		AvgSitesPerDesign:  resp.AvgSitesPerDesign,
		AvgGuidesPerDesign: resp.AvgGuidesPerDesign,
		TotalFeedback:      resp.TotalFeedback,
		AvgRating:          resp.AvgRating,
		RLUplift:           resp.RLUplift,
	}, nil
}

// do sends one request and decodes a 2xx JSON body into out (skipped when out is nil).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := ctxutil.RequestFromContext(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}
	if id := ctxutil.SessionFromContext(ctx); id != "" {
		req.Header.Set(HeaderSessionID, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Op: op, StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &ContractViolationError{Op: op, Reason: "undecodable response body", Err: err}
		}
		return &TransportError{Op: op, Err: err}
	}
	return nil
}

// readDetail extracts a FastAPI-style {"detail": ...} message, falling back to the raw body.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var detail errorDetail
	if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != nil {
		if s, ok := detail.Detail.(string); ok {
			return s
		}
		encoded, _ := json.Marshal(detail.Detail)
		return string(encoded)
	}
	return strings.TrimSpace(string(raw))
}

// Ensure Client implements the interface
var _ secondary.GuideDesignClient = (*Client)(nil)
