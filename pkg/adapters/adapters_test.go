package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct{ calls int }

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Generate(context.Context, GenerateRequest) (GenerateResponse, error) {
	p.calls++
	return GenerateResponse{Text: "ok"}, nil
}

func TestWithFault(t *testing.T) {
	inner := &countingProvider{}
	p := WithFault(inner, nil)
	require.Equal(t, "counting", p.Name(), "fault wrapper keeps the provider name")

	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.ErrorIs(t, err, ErrForcedFailure)
	require.Zero(t, inner.calls, "wrapped provider must not be called")
}

func TestDoJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL, nil)
	require.NoError(t, err)
	_, err = DoJSON(context.Background(), srv.Client(), req, map[string]string{"a": "b"})

	var se *StatusError
	require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
	require.Equal(t, http.StatusBadGateway, se.StatusCode)
	require.Equal(t, "upstream down", se.Body)
}
