package config

import (
	"fmt"
	"net/http"

	"github.com/your-org/namegen/internal/generator"
	"github.com/your-org/namegen/internal/names"
	"github.com/your-org/namegen/internal/retry"
	"github.com/your-org/namegen/pkg/adapters"
	"github.com/your-org/namegen/pkg/adapters/cloudflare"
	"github.com/your-org/namegen/pkg/adapters/gemini"
)

// Backends builds the primary and fallback backends. When
// ForcePrimaryFailure is set the primary is wrapped so it always fails.
func (c Config) Backends() (primary generator.Backend, fallback generator.Backend, err error) {
	if err := c.Validate(); err != nil {
		return generator.Backend{}, generator.Backend{}, err
	}
	httpClient := &http.Client{Timeout: c.HTTPTimeout}

	primary, err = c.backend(c.Primary, httpClient)
	if err != nil {
		return generator.Backend{}, generator.Backend{}, err
	}
	if c.ForcePrimaryFailure {
		primary.Provider = adapters.WithFault(primary.Provider, nil)
	}
	fallback, err = c.backend(c.Fallback, httpClient)
	if err != nil {
		return generator.Backend{}, generator.Backend{}, err
	}
	return primary, fallback, nil
}

func (c Config) backend(name string, httpClient *http.Client) (generator.Backend, error) {
	var (
		pc       ProviderConfig
		provider adapters.Provider
	)
	switch name {
	case ProviderCloudflare:
		pc = c.Cloudflare
		provider = cloudflare.NewClient(pc.AccountID, pc.APIToken, httpClient, pc.BaseURL, pc.Model)
	case ProviderGemini:
		pc = c.Gemini
		provider = gemini.NewClient(pc.APIToken, httpClient, pc.BaseURL, pc.Model)
	default:
		return generator.Backend{}, fmt.Errorf("%w %q", ErrUnknownProvider, name)
	}

	curve, err := names.ParseCurve(pc.Curve)
	if err != nil {
		return generator.Backend{}, fmt.Errorf("config: %s.curve: %w", name, err)
	}
	return generator.Backend{
		Provider:   provider,
		Model:      pc.Model,
		Curve:      curve,
		MaxTokens:  pc.MaxTokens,
		Structured: pc.Structured,
	}, nil
}

// BreakerPolicy converts the breaker settings for retry.NewCircuitBreaker.
func (c Config) BreakerPolicy() retry.Policy {
	return retry.Policy{
		FailureThreshold: c.Breaker.FailureThreshold,
		ResetTimeout:     c.Breaker.ResetTimeout,
	}
}

// Validator returns the request validator configured by RequireStyles.
func (c Config) Validator() names.Validator {
	return names.Validator{RequireStyles: c.RequireStyles}
}
