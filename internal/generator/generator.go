// Package generator runs name generation against a primary provider with a
// single fallback.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/your-org/namegen/internal/alert"
	"github.com/your-org/namegen/internal/audit"
	"github.com/your-org/namegen/internal/logging"
	"github.com/your-org/namegen/internal/metrics"
	"github.com/your-org/namegen/internal/names"
	"github.com/your-org/namegen/internal/retry"
)

const component = "generator"

// Fallback reasons, also used as metric labels.
const (
	reasonFailed      = "failed"
	reasonError       = "error"
	reasonCircuitOpen = "circuit_open"
)

type requestIDKey struct{}

// WithRequestID attaches a caller-chosen request id to ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached with WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Generator is safe for concurrent use.
type Generator struct {
	primary   Backend
	fallback  Backend
	validator names.Validator
	breaker   *retry.CircuitBreaker
	metrics   metrics.Recorder
	tracer    oteltrace.Tracer
	audit     *audit.Logger
	reporter  alert.Reporter
	actor     string
	now       func() time.Time
}

type Option func(*Generator)

func WithValidator(v names.Validator) Option { return func(g *Generator) { g.validator = v } }

func WithCircuitBreaker(cb *retry.CircuitBreaker) Option { return func(g *Generator) { g.breaker = cb } }

func WithMetrics(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.metrics = r
		}
	}
}

func WithTracer(t oteltrace.Tracer) Option {
	return func(g *Generator) {
		if t != nil {
			g.tracer = t
		}
	}
}

func WithAudit(l *audit.Logger) Option { return func(g *Generator) { g.audit = l } }

func WithReporter(r alert.Reporter) Option {
	return func(g *Generator) {
		if r != nil {
			g.reporter = r
		}
	}
}

// WithActor names the caller in audit records ("api", "cli").
func WithActor(actor string) Option { return func(g *Generator) { g.actor = actor } }

func New(primary, fallback Backend, opts ...Option) *Generator {
	g := &Generator{
		primary:  primary,
		fallback: fallback,
		metrics:  metrics.NoopRecorder{},
		tracer:   otel.Tracer("namegen"),
		reporter: alert.Noop{},
		actor:    "api",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate validates req, tries the primary backend and, unless it succeeds,
// the fallback backend exactly once. It always returns a result.
func (g *Generator) Generate(ctx context.Context, req names.Request) names.Result {
	reqID := RequestID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = WithRequestID(ctx, reqID)
	}

	ctx, span := g.tracer.Start(ctx, "names.generate", oteltrace.WithAttributes(
		attribute.String("namegen.request_id", reqID),
		attribute.String("namegen.genre", req.Genre),
	))
	defer span.End()

	if err := g.validator.Validate(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		g.record(reqID, req.Genre, "", "invalid", 0, err)
		return names.Failure(err.Error())
	}
	in := names.WithDefaults(req)
	span.SetAttributes(attribute.Int("namegen.count", in.Count))

	primaryName, fallbackName := g.primary.Name(), g.fallback.Name()

	var (
		res        names.Result
		reason     string
		primaryErr error
	)
	if !g.breaker.Allow(primaryName, g.now()) {
		reason = reasonCircuitOpen
		primaryErr = fmt.Errorf("%s: %w", primaryName, retry.ErrCircuitOpen)
	} else {
		var err error
		res, err = g.attempt(ctx, g.primary, in)
		switch {
		case err != nil:
			reason = reasonError
			primaryErr = err
			logging.Error(component, "primary provider error", "request_id", reqID, "provider", primaryName, "err", err)
		case !res.Success:
			reason = reasonFailed
			primaryErr = fmt.Errorf("%s: %s", primaryName, res.Message)
			logging.Info(component, "primary provider returned no names", "request_id", reqID, "provider", primaryName, "message", res.Message)
		default:
			res.Provider = primaryName
			g.record(reqID, in.Genre, primaryName, "success", len(res.Names), nil)
			return res
		}
	}

	logging.Info(component, "trying fallback", "request_id", reqID, "primary", primaryName, "fallback", fallbackName, "reason", reason)
	g.metrics.ObserveFallback(primaryName, reason)
	span.AddEvent("fallback", oteltrace.WithAttributes(attribute.String("namegen.reason", reason)))

	fres, err := g.attempt(ctx, g.fallback, in)
	if err != nil {
		msg := fmt.Sprintf("Both %s and %s name generation methods failed", primaryName, fallbackName)
		logging.Error(component, "fallback provider error", "request_id", reqID, "provider", fallbackName, "err", err)
		span.SetStatus(codes.Error, msg)
		g.record(reqID, in.Genre, "", "error", 0, errors.Join(primaryErr, err))
		g.report(ctx, reqID, in.Genre, msg, errors.Join(primaryErr, err))
		return names.Failure(msg)
	}

	fres.Provider = fallbackName
	if fres.Success {
		fres.Message = fmt.Sprintf("%s (%s %s, used %s as fallback)", fres.Message, primaryName, describe(reason), fallbackName)
		g.record(reqID, in.Genre, fallbackName, "success", len(fres.Names), nil)
		return fres
	}

	span.SetStatus(codes.Error, fres.Message)
	fallbackErr := fmt.Errorf("%s: %s", fallbackName, fres.Message)
	g.record(reqID, in.Genre, fallbackName, "failed", 0, errors.Join(primaryErr, fallbackErr))
	g.report(ctx, reqID, in.Genre, fres.Message, errors.Join(primaryErr, fallbackErr))
	return fres
}

// report hands a request that no provider served to the reporter.
func (g *Generator) report(ctx context.Context, reqID, genre, msg string, err error) {
	g.reporter.ReportFailure(ctx, alert.Failure{
		RequestID: reqID,
		Message:   msg,
		Primary:   g.primary.Name(),
		Fallback:  g.fallback.Name(),
		Genre:     genre,
		Err:       err,
	})
}

// attempt runs one backend call with tracing, metrics and breaker
// bookkeeping. A panicking provider is reported as an error.
func (g *Generator) attempt(ctx context.Context, b Backend, in names.Defaulted) (res names.Result, err error) {
	name := b.Name()
	ctx, span := g.tracer.Start(ctx, "provider."+name, oteltrace.WithAttributes(
		attribute.String("namegen.provider", name),
	))
	defer span.End()

	started := g.now()
	stage := names.StageNone
	defer func() {
		if r := recover(); r != nil {
			res = names.Result{}
			err = fmt.Errorf("%w: %s: %v", retry.ErrProviderPanic, name, r)
		}

		status := "success"
		switch {
		case err != nil:
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case !res.Success:
			status = "failed"
			span.SetStatus(codes.Error, res.Message)
		}
		span.SetAttributes(attribute.String("namegen.parse_stage", stage.String()))

		g.metrics.ObserveGeneration(name, status, g.now().Sub(started))
		if err == nil {
			g.metrics.ObserveParseStage(name, stage.String())
		}
		if status == "success" {
			g.breaker.RecordSuccess(name)
		} else if g.breaker.RecordFailure(name, g.now()) {
			g.metrics.ObserveCircuitOpen(name)
			logging.Info(component, "circuit opened", "provider", name)
		}
	}()

	res, stage, err = b.Generate(ctx, in)
	return res, err
}

func (g *Generator) record(reqID, genre, provider, status string, count int, err error) {
	ev := audit.Event{
		RequestID: reqID,
		Actor:     g.actor,
		Action:    "generate",
		Genre:     genre,
		Provider:  provider,
		Status:    status,
		Names:     count,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	if wErr := g.audit.Write(ev); wErr != nil {
		logging.Error(component, "audit write failed", "request_id", reqID, "err", wErr)
	}
}

func describe(reason string) string {
	switch reason {
	case reasonFailed:
		return "failed"
	case reasonCircuitOpen:
		return "unavailable"
	default:
		return "error"
	}
}
