package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps how much of a records API response is read.
const maxBodyBytes = 8 << 20

// Client is a thin JSON client for the records API. It performs exactly one
// request per call and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Client rooted at baseURL. A zero timeout leaves the
// transport default in place.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "records_client").Logger(),
	}
}

// BaseURL returns the API root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode payload: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Str("method", method).Str("path", path).Msg("Request failed")
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: read body: %v", op, ErrTransport, err)
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("Records API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    mutationResult(respBody).Message,
		}
	}
	return respBody, nil
}

// list fetches a list endpoint and unwraps its envelope.
func (c *Client) list(ctx context.Context, op, path, domainKey string) (ListShape, error) {
	body, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return ListShape{}, err
	}
	shape := UnwrapList(body, domainKey)
	if !shape.Found {
		c.log.Warn().Str("op", op).Int("bytes", len(body)).Msg("No record list in response, treating as empty")
	}
	return shape, nil
}

// mutate sends a write and inspects the body for an application-level failure.
func (c *Client) mutate(ctx context.Context, op, method, path string, payload any) (model.MutationResult, error) {
	body, err := c.do(ctx, op, method, path, payload)
	if err != nil {
		return model.MutationResult{}, err
	}
	res := mutationResult(body)
	switch strings.ToLower(res.Status) {
	case "error", "failed":
		return res, &RejectedError{Op: op, Status: res.Status, Message: res.Message}
	}
	return res, nil
}

// mutationResult reads {status, message} from a body, tolerating bodies that
// are not JSON objects.
func mutationResult(body []byte) model.MutationResult {
	var raw struct {
		Status  model.FlexString `json:"status"`
		Message model.FlexString `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.MutationResult{}
	}
	return model.MutationResult{Status: raw.Status.String(), Message: raw.Message.String()}
}
