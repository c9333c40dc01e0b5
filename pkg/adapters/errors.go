package adapters

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey    = errors.New("missing api key")
	ErrMissingAccountID = errors.New("missing account id")
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrEmptyResponse    = errors.New("provider returned no text")
	ErrForcedFailure    = errors.New("forced provider failure")
)

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}
