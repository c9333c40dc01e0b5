package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/your-org/namegen/internal/generator"
	"github.com/your-org/namegen/internal/logging"
	"github.com/your-org/namegen/internal/metrics"
	"github.com/your-org/namegen/internal/names"
	"github.com/your-org/namegen/internal/ratelimit"
)

const component = "http"

// NameGenerator is the slice of *generator.Generator the server needs.
type NameGenerator interface {
	Generate(ctx context.Context, req names.Request) names.Result
}

// Options configures optional server collaborators. Zero values disable the
// corresponding feature.
type Options struct {
	Validator names.Validator
	Limiter   ratelimit.Limiter
	Registry  *prometheus.Registry
	TLS       TLSOptions
	// TrustedProxies are the peers whose X-Forwarded-For names the client.
	// With none, the client is the connection's remote address.
	TrustedProxies []*net.IPNet
	// ShutdownTimeout bounds graceful shutdown. Zero means ten seconds.
	ShutdownTimeout time.Duration
}

type Server struct {
	echo *echo.Echo
	gen  NameGenerator
	opts Options
}

func NewServer(gen NameGenerator, opts Options) *Server {
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.IPExtractor = ipExtractor(opts.TrustedProxies)
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		middleware.Logger(),
		middleware.Recover(),
	)

	s := &Server{echo: e, gen: gen, opts: opts}
	s.setupRoutes()
	return s
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	s.echo.GET("/readyz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ready")
	})
	if s.opts.Registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.opts.Registry)))
	}

	api := s.echo.Group("/api", s.rateLimit)
	api.POST("/names", s.generateNames)
}

func (s *Server) generateNames(c echo.Context) error {
	var req names.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, names.Failure("Invalid request body"))
	}
	if err := s.opts.Validator.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, names.Failure(err.Error()))
	}

	ctx := c.Request().Context()
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		ctx = generator.WithRequestID(ctx, id)
	}
	res := s.gen.Generate(ctx, req)
	if !res.Success {
		return c.JSON(http.StatusBadGateway, res)
	}
	return c.JSON(http.StatusOK, res)
}

// rateLimit keys on the client IP. Limiter errors let the request through.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ok, err := s.opts.Limiter.Allow(c.Request().Context(), c.RealIP())
		if err != nil {
			logging.Error(component, "rate limiter unavailable", "err", err)
			return next(c)
		}
		if !ok {
			return c.JSON(http.StatusTooManyRequests, names.Failure("Too many requests, slow down"))
		}
		return next(c)
	}
}

// ipExtractor never believes forwarding headers from untrusted peers, so
// clients cannot choose their own rate-limit key.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
// TLS is used when Options.TLS names a certificate.
func (s *Server) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, ReadHeaderTimeout: 5 * time.Second}
	if s.opts.TLS.Enabled() {
		cfg, err := s.opts.TLS.serverConfig()
		if err != nil {
			return err
		}
		srv.TLSConfig = cfg
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error(component, "shutdown failed", "err", err)
		}
	}()

	logging.Info(component, "listening", "addr", addr, "tls", srv.TLSConfig != nil)
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
