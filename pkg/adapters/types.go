package adapters

import "context"

// Schema is a minimal JSON schema description for structured output.
type Schema struct {
	Type        string
	Description string
	Properties  map[string]*Schema
	Items       *Schema
}

// GenerateRequest is a provider-agnostic text generation request.
type GenerateRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
	// Schema asks providers that support it for structured JSON output.
	Schema *Schema
}

// GenerateResponse carries the raw model text back to the caller.
type GenerateResponse struct {
	Text string
	Raw  []byte
}

// Provider is the common interface all generation adapters satisfy.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}
