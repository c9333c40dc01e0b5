// Package sdk is a Go client for the namegen HTTP API.
package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/your-org/namegen/pkg/adapters"
)

// Request mirrors the POST /api/names body. Zero Complexity and Count are
// omitted so the server applies its defaults.
type Request struct {
	Genre      string   `json:"genre"`
	Styles     []string `json:"styles"`
	Race       string   `json:"race,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Length     string   `json:"length,omitempty"`
	Complexity float64  `json:"complexity,omitempty"`
	Count      int      `json:"count,omitempty"`
}

// Result mirrors the server's response body.
type Result struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Names    []string `json:"names"`
	Provider string   `json:"provider,omitempty"`
}

// APIError is returned for non-2xx responses. Result is set when the server
// answered with a result body (validation failure, rate limit, provider
// failure).
type APIError struct {
	StatusCode int
	Result     *Result
	Body       string
}

func (e *APIError) Error() string {
	if e.Result != nil {
		return fmt.Sprintf("namegen: status %d: %s", e.StatusCode, e.Result.Message)
	}
	return fmt.Sprintf("namegen: status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient targets baseURL, e.g. "http://localhost:8080". A nil httpClient
// uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Generate requests names. A non-2xx answer yields *APIError.
func (c *Client) Generate(ctx context.Context, req Request) (Result, error) {
	if req.Styles == nil {
		req.Styles = []string{}
	}
	hReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/names", nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}

	body, err := adapters.DoJSON(ctx, c.httpClient, hReq, req)
	if err != nil {
		var se *adapters.StatusError
		if !errors.As(err, &se) {
			return Result{}, err
		}
		apiErr := &APIError{StatusCode: se.StatusCode, Body: se.Body}
		var res Result
		if json.Unmarshal([]byte(se.Body), &res) == nil && res.Message != "" {
			apiErr.Result = &res
		}
		return res, apiErr
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}
