package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/your-org/namegen/pkg/adapters"
)

const (
	Name           = "cloudflare"
	defaultBaseURL = "https://api.cloudflare.com"
	DefaultModel   = "@cf/meta/llama-3.1-8b-instruct"
)

// Client implements adapters.Provider for Cloudflare Workers AI.
type Client struct {
	accountID  string
	apiToken   string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(accountID, apiToken string, httpClient *http.Client, baseURL string, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		accountID:  accountID,
		apiToken:   apiToken,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

func (c *Client) Name() string { return Name }

// Generate posts a system/user message pair to the account's AI runner.
func (c *Client) Generate(ctx context.Context, req adapters.GenerateRequest) (adapters.GenerateResponse, error) {
	if strings.TrimSpace(c.accountID) == "" {
		return adapters.GenerateResponse{}, fmt.Errorf("cloudflare: %w", adapters.ErrMissingAccountID)
	}
	if strings.TrimSpace(c.apiToken) == "" {
		return adapters.GenerateResponse{}, fmt.Errorf("cloudflare: %w", adapters.ErrMissingAPIKey)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return adapters.GenerateResponse{}, adapters.ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = c.model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 1024
	}

	// Model identifiers contain slashes that are part of the route.
	urlStr := fmt.Sprintf("%s/client/v4/accounts/%s/ai/run/%s", c.baseURL, url.PathEscape(c.accountID), req.Model)
	hReq, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, nil)
	if err != nil {
		return adapters.GenerateResponse{}, fmt.Errorf("build request: %w", err)
	}
	hReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	payload := map[string]any{
		"messages":    messages,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	if req.TopP > 0 {
		payload["top_p"] = req.TopP
	}

	body, err := adapters.DoJSON(ctx, c.httpClient, hReq, payload)
	if err != nil {
		return adapters.GenerateResponse{}, fmt.Errorf("cloudflare: %w", err)
	}

	var parsed struct {
		Success *bool `json:"success"`
		Errors  []struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
		Result struct {
			Response json.RawMessage `json:"response"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return adapters.GenerateResponse{}, fmt.Errorf("cloudflare: parse response: %w", err)
	}
	if parsed.Success != nil && !*parsed.Success {
		msgs := make([]string, 0, len(parsed.Errors))
		for _, e := range parsed.Errors {
			msgs = append(msgs, fmt.Sprintf("%d %s", e.Code, e.Message))
		}
		return adapters.GenerateResponse{}, fmt.Errorf("cloudflare: request unsuccessful: %s", strings.Join(msgs, "; "))
	}

	text := responseText(parsed.Result.Response)
	if strings.TrimSpace(text) == "" {
		return adapters.GenerateResponse{}, fmt.Errorf("cloudflare: %w", adapters.ErrEmptyResponse)
	}
	return adapters.GenerateResponse{Text: text, Raw: body}, nil
}

// responseText unwraps result.response, which is a string for text models and
// an object when the model already returned JSON.
func responseText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
