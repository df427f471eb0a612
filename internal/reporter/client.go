// Package reporter delivers study outcomes to the result-logging endpoint
// and interprets the server's completion signals.
//
// The fire-and-forget / must-await distinction is part of the interface:
// ReportAsync for non-final cards, ReportAndAwait for the card whose response
// decides the session's next step.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/flashdeck-backend/internal/domain"
)

// ReportError wraps any network, status, or decode failure from the
// result-logging endpoint. Callers treat all variants the same way: proceed
// as though the card were answered.
type ReportError struct {
	Err error
}

func (e *ReportError) Error() string { return "report: " + e.Err.Error() }
func (e *ReportError) Unwrap() error { return e.Err }

// Client is the HTTP result reporter.
type Client struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a reporter for the given result-logging endpoint.
// authToken may be empty for unauthenticated setups.
func NewClient(logger *slog.Logger, endpoint, authToken string) *Client {
	return &Client{
		endpoint:   endpoint,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "reporter"),
	}
}

// NewClientWithHTTP creates a reporter with a custom http.Client (for tests).
func NewClientWithHTTP(logger *slog.Logger, endpoint, authToken string, hc *http.Client) *Client {
	c := NewClient(logger, endpoint, authToken)
	c.httpClient = hc
	return c
}

// ReportAsync delivers a non-final outcome. Failures are logged and
// swallowed: the learner's progression never waits on the network.
func (c *Client) ReportAsync(ctx context.Context, report domain.OutcomeReport) {
	if _, err := c.post(ctx, report); err != nil {
		c.log.WarnContext(ctx, "background report failed",
			slog.String("card_id", report.CardID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// ReportAndAwait delivers the final-card outcome and returns the server's
// decision. Any failure is a *ReportError; the caller falls back to its
// default termination policy.
func (c *Client) ReportAndAwait(ctx context.Context, report domain.OutcomeReport) (*domain.ReportDecision, error) {
	resp, err := c.post(ctx, report)
	if err != nil {
		return nil, &ReportError{Err: err}
	}
	return resp.toDecision(), nil
}

func (c *Client) post(ctx context.Context, report domain.OutcomeReport) (*resultResponse, error) {
	body, err := json.Marshal(toResultRequest(report))
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", httpResp.StatusCode)
	}

	var resp resultResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	c.log.DebugContext(ctx, "outcome reported",
		slog.String("card_id", report.CardID.String()),
		slog.String("result", report.Result.String()),
		slog.Bool("final", report.Final),
		slog.Duration("duration", time.Since(start)),
	)

	return &resp, nil
}
