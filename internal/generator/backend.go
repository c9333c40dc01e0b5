package generator

import (
	"context"
	"fmt"

	"github.com/your-org/namegen/internal/names"
	"github.com/your-org/namegen/pkg/adapters"
)

// Backend binds a provider to prompt construction and response parsing.
// Both providers run through the same Backend; only their settings differ.
type Backend struct {
	Provider  adapters.Provider
	Model     string
	Curve     names.Curve
	MaxTokens int
	// Structured asks the provider for schema-constrained JSON.
	Structured bool
}

func (b Backend) Name() string {
	if b.Provider == nil {
		return "none"
	}
	return b.Provider.Name()
}

// Generate makes exactly one provider call and parses its text. Provider
// errors are returned unchanged; parse failures come back as an unsuccessful
// result with a nil error.
func (b Backend) Generate(ctx context.Context, req names.Defaulted) (names.Result, names.Stage, error) {
	if b.Provider == nil {
		return names.Result{}, names.StageNone, fmt.Errorf("backend has no provider")
	}

	prompt := names.BuildPrompt(req)
	genReq := adapters.GenerateRequest{
		Model:       b.Model,
		System:      prompt.System,
		Prompt:      prompt.User,
		MaxTokens:   b.MaxTokens,
		Temperature: b.Curve.Temperature(req.Complexity),
		TopP:        names.TopP(req.Complexity),
	}
	if b.Structured {
		genReq.Schema = namesSchema(req.Count)
	}

	resp, err := b.Provider.Generate(ctx, genReq)
	if err != nil {
		return names.Result{}, names.StageNone, err
	}

	res, stage := names.Parse(resp.Text, req.Count)
	return res, stage, nil
}

func namesSchema(count int) *adapters.Schema {
	return &adapters.Schema{
		Type: "object",
		Properties: map[string]*adapters.Schema{
			names.FieldName: {
				Type:        "array",
				Items:       &adapters.Schema{Type: "string"},
				Description: fmt.Sprintf("Array of exactly %d character names", count),
			},
		},
	}
}
