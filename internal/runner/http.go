package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	DefaultBaseURL = "http://localhost:3001"
	DefaultTimeout = 30 * time.Second

	// maxBody bounds a decoded response. 200 elements at 5000 frames is
	// well under this.
	maxBody = 64 << 20
)

// HTTP fetches traces from a backend exposing POST /api/<algorithm>-sort.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTP(baseURL string) *HTTP {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: DefaultTimeout},
	}
}

// RunTrace posts input to the backend and decodes the returned trace.
//
// Errors:
//   - 400 with code INVALID_INPUT: *trace.InputError
//   - other non-2xx or network failure: *trace.TransportError
//   - undecodable or invalid body: *trace.MalformedError
//   - ctx canceled: ctx.Err()
func (h *HTTP) RunTrace(ctx context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
	body, err := json.Marshal(trace.Request{Array: input})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := h.BaseURL + "/api/" + kind.Route()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &trace.TransportError{Wrapped: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &trace.TransportError{Wrapped: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &trace.TransportError{Wrapped: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, data)
	}

	var r trace.Response
	if err := json.Unmarshal(data, &r); err != nil {
		var m *trace.MalformedError
		if errors.As(err, &m) {
			return nil, m
		}
		return nil, &trace.MalformedError{Frame: -1, Reason: err.Error()}
	}
	if r.Algorithm == "" {
		r.Algorithm = string(kind)
	}
	return r.Trace()
}

func statusError(status int, data []byte) error {
	var body trace.ErrorResponse
	_ = json.Unmarshal(data, &body)
	if status == http.StatusBadRequest && body.Code == trace.CodeInvalidInput {
		return &trace.InputError{Reason: body.Error}
	}
	if body.Error != "" {
		return &trace.TransportError{Status: status, Wrapped: errors.New(body.Error)}
	}
	return &trace.TransportError{Status: status}
}
