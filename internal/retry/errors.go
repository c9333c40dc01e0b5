package retry

import "errors"

var (
	ErrCircuitOpen   = errors.New("circuit breaker open")
	ErrProviderPanic = errors.New("provider panicked")
)
