// Package alert reports generations where every provider failed.
package alert

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// Failure describes a request that no provider could serve.
type Failure struct {
	RequestID string
	Message   string
	Primary   string
	Fallback  string
	Genre     string
	Err       error
}

// Reporter receives total failures.
type Reporter interface {
	ReportFailure(ctx context.Context, f Failure)
}

// Noop drops reports.
type Noop struct{}

func (Noop) ReportFailure(context.Context, Failure) {}

// SentryReporter sends failures to Sentry through its own hub so it never
// touches the global one.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentry builds a reporter from client options. An empty DSN yields a
// client that drops events after BeforeSend.
func NewSentry(opts sentry.ClientOptions) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

func (r *SentryReporter) ReportFailure(_ context.Context, f Failure) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("request_id", f.RequestID)
		scope.SetTag("primary", f.Primary)
		scope.SetTag("fallback", f.Fallback)
		scope.SetTag("genre", f.Genre)
		if f.Err != nil {
			scope.SetExtra("message", f.Message)
			r.hub.CaptureException(f.Err)
			return
		}
		r.hub.CaptureMessage(f.Message)
	})
}

// Flush waits for buffered events.
func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
