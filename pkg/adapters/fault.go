package adapters

import "context"

type faultyProvider struct {
	inner Provider
	err   error
}

// WithFault wraps p so every Generate call fails with err without reaching
// the network. A nil err means ErrForcedFailure.
func WithFault(p Provider, err error) Provider {
	if err == nil {
		err = ErrForcedFailure
	}
	return &faultyProvider{inner: p, err: err}
}

func (f *faultyProvider) Name() string { return f.inner.Name() }

func (f *faultyProvider) Generate(context.Context, GenerateRequest) (GenerateResponse, error) {
	return GenerateResponse{}, f.err
}
