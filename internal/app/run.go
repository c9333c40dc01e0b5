package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/your-org/namegen/internal/alert"
	"github.com/your-org/namegen/internal/audit"
	"github.com/your-org/namegen/internal/config"
	"github.com/your-org/namegen/internal/generator"
	"github.com/your-org/namegen/internal/logging"
	"github.com/your-org/namegen/internal/metrics"
	"github.com/your-org/namegen/internal/ratelimit"
	"github.com/your-org/namegen/internal/retry"
	"github.com/your-org/namegen/internal/trace"
	"github.com/your-org/namegen/internal/version"
)

const serviceName = "namegen"

// Runtime holds everything built from a Config. Close releases it.
type Runtime struct {
	Config    config.Config
	Generator *generator.Generator
	Registry  *prometheus.Registry
	Limiter   ratelimit.Limiter

	shutdown []func(context.Context) error
}

// RuntimeOptions adjusts NewRuntime for a particular caller.
type RuntimeOptions struct {
	// Actor is recorded in audit events ("api", "cli").
	Actor string
	// Recorders receive metrics alongside Prometheus.
	Recorders []metrics.Recorder
	// SkipLimiter leaves Limiter unset, for callers that never serve HTTP.
	SkipLimiter bool
}

// NewRuntime wires tracing, metrics, the circuit breaker, audit logging,
// failure reporting and rate limiting around the configured backends.
func NewRuntime(ctx context.Context, cfg config.Config, opts RuntimeOptions) (*Runtime, error) {
	logging.SetFormat(cfg.LogFormat)

	primary, fallback, err := cfg.Backends()
	if err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg, Registry: prometheus.NewRegistry()}

	otelRT, err := trace.SetupOTel(ctx, serviceName, trace.Options{Enabled: cfg.Trace.Enabled, Endpoint: cfg.Trace.Endpoint})
	if err != nil {
		return nil, err
	}
	rt.shutdown = append(rt.shutdown, otelRT.Shutdown)

	prom, err := metrics.NewPrometheusRecorder(rt.Registry)
	if err != nil {
		return nil, err
	}
	recorder := metrics.NewMultiRecorder(append([]metrics.Recorder{prom}, opts.Recorders...)...)

	var reporter alert.Reporter = alert.Noop{}
	if cfg.Sentry.DSN != "" {
		sr, err := alert.NewSentry(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     serviceName + "@" + version.Version,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		reporter = sr
		rt.shutdown = append(rt.shutdown, func(context.Context) error {
			if !sr.Flush(2 * time.Second) {
				return errors.New("sentry: flush timed out")
			}
			return nil
		})
	}

	if !opts.SkipLimiter {
		rt.Limiter, err = newLimiter(cfg)
		if err != nil {
			return nil, err
		}
		if c, ok := rt.Limiter.(io.Closer); ok {
			rt.shutdown = append(rt.shutdown, func(context.Context) error { return c.Close() })
		}
	}

	genOpts := []generator.Option{
		generator.WithValidator(cfg.Validator()),
		generator.WithCircuitBreaker(retry.NewCircuitBreaker(cfg.BreakerPolicy())),
		generator.WithMetrics(recorder),
		generator.WithTracer(otelRT.Tracer),
		generator.WithAudit(audit.NewLogger(cfg.AuditLogPath)),
		generator.WithReporter(reporter),
	}
	if opts.Actor != "" {
		genOpts = append(genOpts, generator.WithActor(opts.Actor))
	}
	rt.Generator = generator.New(primary, fallback, genOpts...)

	logging.Info("runtime", "initialized",
		"primary", primary.Name(),
		"fallback", fallback.Name(),
		"force_primary_failure", cfg.ForcePrimaryFailure,
		"rate_limit", cfg.RateLimit,
		"redis", cfg.RedisURL != "",
		"trace", cfg.Trace.Enabled,
		"sentry", cfg.Sentry.DSN != "",
	)
	return rt, nil
}

// Close runs shutdown hooks in reverse order and joins their errors.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	for i := len(r.shutdown) - 1; i >= 0; i-- {
		if err := r.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	r.shutdown = nil
	return errors.Join(errs...)
}

// newLimiter prefers Redis so limits hold across replicas.
func newLimiter(cfg config.Config) (ratelimit.Limiter, error) {
	if cfg.RateLimit <= 0 {
		return ratelimit.Unlimited{}, nil
	}
	if cfg.RedisURL != "" {
		return ratelimit.NewRedis(cfg.RedisURL, "", cfg.RateLimit, time.Minute)
	}
	return ratelimit.NewLocal(cfg.RateLimit, cfg.RateBurst), nil
}

// RunServer builds a runtime from cfg and serves the HTTP API until ctx is
// cancelled.
func RunServer(ctx context.Context, cfg config.Config) error {
	rt, err := NewRuntime(ctx, cfg, RuntimeOptions{Actor: "api"})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Close(closeCtx); err != nil {
			logging.Error("runtime", "shutdown", "err", err)
		}
	}()

	proxies, err := cfg.TrustedProxyNets()
	if err != nil {
		return err
	}
	srv := NewServer(rt.Generator, Options{
		Validator:      cfg.Validator(),
		Limiter:        rt.Limiter,
		Registry:       rt.Registry,
		TrustedProxies: proxies,
		TLS: TLSOptions{
			CertFile:          cfg.TLS.CertFile,
			KeyFile:           cfg.TLS.KeyFile,
			ClientCAFile:      cfg.TLS.ClientCAFile,
			RequireClientCert: cfg.TLS.RequireClientCert,
		},
	})
	return srv.Start(ctx, cfg.Addr)
}
