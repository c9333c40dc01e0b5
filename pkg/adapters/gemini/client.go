package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/your-org/namegen/pkg/adapters"
)

const (
	Name           = "gemini"
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash-lite"
)

// Client implements adapters.Provider for the Gemini generateContent API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(apiKey string, httpClient *http.Client, baseURL string, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{apiKey: apiKey, httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/"), model: model}
}

func (c *Client) Name() string { return Name }

// Generate sends system and prompt text as a single user turn. When req.Schema
// is set the model is asked for JSON matching it.
func (c *Client) Generate(ctx context.Context, req adapters.GenerateRequest) (adapters.GenerateResponse, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return adapters.GenerateResponse{}, fmt.Errorf("gemini: %w", adapters.ErrMissingAPIKey)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return adapters.GenerateResponse{}, adapters.ErrEmptyPrompt
	}
	if req.Model == "" {
		req.Model = c.model
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = 512
	}

	urlStr := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, url.PathEscape(req.Model), url.QueryEscape(c.apiKey))
	hReq, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, nil)
	if err != nil {
		return adapters.GenerateResponse{}, fmt.Errorf("build request: %w", err)
	}

	text := req.Prompt
	if req.System != "" {
		text = req.System + "\n\n" + req.Prompt
	}
	genConfig := map[string]any{
		"temperature":     req.Temperature,
		"maxOutputTokens": req.MaxTokens,
	}
	if req.TopP > 0 {
		genConfig["topP"] = req.TopP
	}
	if req.Schema != nil {
		genConfig["responseMimeType"] = "application/json"
		genConfig["responseSchema"] = convertSchema(req.Schema)
	}
	payload := map[string]any{
		"contents": []map[string]any{{
			"role":  "user",
			"parts": []map[string]any{{"text": text}},
		}},
		"generationConfig": genConfig,
	}

	body, err := adapters.DoJSON(ctx, c.httpClient, hReq, payload)
	if err != nil {
		return adapters.GenerateResponse{}, fmt.Errorf("gemini: %w", err)
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text         string `json:"text"`
					FunctionCall *struct {
						Args     json.RawMessage `json:"args"`
						Response json.RawMessage `json:"response"`
					} `json:"functionCall"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return adapters.GenerateResponse{}, fmt.Errorf("gemini: parse response: %w", err)
	}

	var out strings.Builder
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			if fc := p.FunctionCall; fc != nil {
				if len(fc.Response) > 0 {
					out.Write(fc.Response)
					continue
				}
				if len(fc.Args) > 0 {
					out.Write(fc.Args)
					continue
				}
			}
			out.WriteString(p.Text)
		}
		if out.Len() > 0 {
			break
		}
	}
	if strings.TrimSpace(out.String()) == "" {
		return adapters.GenerateResponse{}, fmt.Errorf("gemini: %w", adapters.ErrEmptyResponse)
	}

	return adapters.GenerateResponse{Text: out.String(), Raw: body}, nil
}

func convertSchema(s *adapters.Schema) map[string]any {
	out := map[string]any{"type": strings.ToUpper(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Items != nil {
		out["items"] = convertSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			props[k] = convertSchema(v)
		}
		out["properties"] = props
	}
	return out
}
