package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cp25sy5-modjot/streamlinepay-forms/internal/domain"
)

// RequestIDHeader carries a per-request UUID so both sides can correlate logs.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 4 << 10

// Client talks JSON to one collaborator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient returns a client for baseURL (scheme and host, e.g.
// http://localhost:8081). A zero timeout leaves requests bounded only by ctx.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	resp, err := c.sendRequest(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("failed to decode response json")
		return &domain.RequestError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any) error {
	resp, err := c.sendRequest(ctx, op, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	// the created record is not used; the caller re-fetches the list
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// sendRequest returns the response only for 2xx answers. Everything else is
// turned into a *domain.RequestError.
func (c *Client) sendRequest(ctx context.Context, op, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			return nil, &domain.RequestError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &domain.RequestError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	raw, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Str("request_id", reqID).Msg("error connecting to api")
		return nil, &domain.RequestError{Op: op, Err: err}
	}

	c.log.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", raw.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api call")

	if raw.StatusCode < 200 || raw.StatusCode > 299 {
		defer raw.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(raw.Body, maxErrorBody))
		c.log.Warn().Str("op", op).Str("request_id", reqID).Int("status", raw.StatusCode).Msg("api returned error status")
		return nil, &domain.RequestError{Op: op, StatusCode: raw.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	return raw, nil
}
