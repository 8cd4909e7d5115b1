// Package tokenizer talks to the external embedding/tokenizer service the
// gateway delegates inference to; it never embeds text itself.
package tokenizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"docsearch-gateway/internal/docsearch/docerr"
)

// ErrServiceUnavailable is returned on a 503 from the tokenizer.
var ErrServiceUnavailable = errors.New("tokenizer: service unavailable")

// ErrTimeout is returned on a 408 from the tokenizer.
var ErrTimeout = errors.New("tokenizer: request timed out")

const embedPath = "/embed"

type embedRequest struct {
	Inputs    string `json:"inputs"`
	Truncate  bool   `json:"truncate"`
	Normalize bool   `json:"normalize"`
}

// Client calls one tokenizer/embedding HTTP endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a Client bounded by timeout; the tokenizer corpus has no
// dedicated REST client wrapper for a single bespoke endpoint, so a plain
// net/http.Client is the grounded idiom here (see DESIGN.md).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Embed truncates and normalizes text, returning the first row of the
// tokenizer's embedding matrix.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	reqBody, err := json.Marshal(embedRequest{Inputs: text, Truncate: true, Normalize: true})
	if err != nil {
		return nil, &docerr.ValidationError{Reason: "encode embed request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+embedPath, bytes.NewReader(reqBody))
	if err != nil {
		return nil, &docerr.InternalError{Op: "embed", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &docerr.InternalError{Op: "embed", Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusServiceUnavailable:
		return nil, ErrServiceUnavailable
	case http.StatusRequestTimeout:
		return nil, ErrTimeout
	}
	if res.StatusCode >= 300 {
		return nil, &docerr.ServiceError{Status: res.StatusCode}
	}

	var rows [][]float64
	if err := json.NewDecoder(res.Body).Decode(&rows); err != nil {
		return nil, &docerr.InternalError{Op: "embed", Err: fmt.Errorf("decode embedding matrix: %w", err)}
	}
	if len(rows) == 0 {
		return nil, &docerr.EmptyResponseError{Op: "embed"}
	}
	return rows[0], nil
}
