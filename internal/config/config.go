package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/your-org/namegen/internal/names"
	"github.com/your-org/namegen/pkg/adapters/cloudflare"
	"github.com/your-org/namegen/pkg/adapters/gemini"
)

// Provider names accepted for primary and fallback.
const (
	ProviderCloudflare = cloudflare.Name
	ProviderGemini     = gemini.Name
)

var (
	ErrUnknownProvider = errors.New("config: unknown provider")
	ErrSameProvider    = errors.New("config: primary and fallback must differ")
)

// ProviderConfig holds credentials and tuning for one provider.
type ProviderConfig struct {
	AccountID  string `yaml:"account_id"`
	APIToken   string `yaml:"api_token"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	Curve      string `yaml:"curve"`
	MaxTokens  int    `yaml:"max_tokens"`
	Structured bool   `yaml:"structured"`
}

type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	ResetTimeout     time.Duration `yaml:"reset_timeout"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type TLSConfig struct {
	CertFile          string `yaml:"cert_file"`
	KeyFile           string `yaml:"key_file"`
	ClientCAFile      string `yaml:"client_ca_file"`
	RequireClientCert bool   `yaml:"require_client_cert"`
}

type TraceConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Config is the full runtime configuration for the server and CLI.
type Config struct {
	Primary             string        `yaml:"primary"`
	Fallback            string        `yaml:"fallback"`
	ForcePrimaryFailure bool          `yaml:"force_primary_failure"`
	RequireStyles       bool          `yaml:"require_styles"`
	HTTPTimeout         time.Duration `yaml:"http_timeout"`

	Addr         string `yaml:"addr"`
	RateLimit    int    `yaml:"rate_limit"`
	RateBurst    int    `yaml:"rate_burst"`
	RedisURL     string `yaml:"redis_url"`
	AuditLogPath string `yaml:"audit_log_path"`
	LogFormat    string `yaml:"log_format"`

	// TrustedProxies lists CIDRs whose X-Forwarded-For is believed when
	// keying the rate limit. Empty means the peer address is used.
	TrustedProxies []string `yaml:"trusted_proxies"`

	TLS     TLSConfig     `yaml:"tls"`
	Breaker BreakerConfig `yaml:"breaker"`
	Sentry  SentryConfig  `yaml:"sentry"`
	Trace   TraceConfig   `yaml:"trace"`

	Cloudflare ProviderConfig `yaml:"cloudflare"`
	Gemini     ProviderConfig `yaml:"gemini"`
}

// Default returns the baseline configuration: Cloudflare first, Gemini as
// fallback, no rate limit, breaker after three consecutive failures.
func Default() Config {
	return Config{
		Primary:   ProviderCloudflare,
		Fallback:  ProviderGemini,
		Addr:      ":8080",
		LogFormat: "text",
		Breaker: BreakerConfig{
			FailureThreshold: 3,
			ResetTimeout:     30 * time.Second,
		},
		Sentry: SentryConfig{Environment: "development"},
		Cloudflare: ProviderConfig{
			Model: cloudflare.DefaultModel,
			Curve: string(names.CurveStepped),
		},
		Gemini: ProviderConfig{
			Model:      gemini.DefaultModel,
			Curve:      string(names.CurveSigmoid),
			Structured: true,
		},
	}
}

// Load builds a Config from defaults, a .env file, the YAML file named by
// NAMEGEN_CONFIG and finally the process environment. Missing .env files are
// ignored. dotenv overrides the default ".env" location.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, p := range dotenv {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %q: %w", p, err)
		}
	}

	cfg := Default()
	if path := os.Getenv("NAMEGEN_CONFIG"); path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile parses a YAML config on top of the defaults without consulting
// the environment.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if err := mergeFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("config: unmarshal %q: %w", path, err)
	}
	return nil
}

// Validate rejects structural problems. Missing credentials are not errors:
// the adapter reports them per call and the fallback takes over.
func (c Config) Validate() error {
	for _, p := range []string{c.Primary, c.Fallback} {
		if p != ProviderCloudflare && p != ProviderGemini {
			return fmt.Errorf("%w %q", ErrUnknownProvider, p)
		}
	}
	if c.Primary == c.Fallback {
		return ErrSameProvider
	}
	if c.HTTPTimeout < 0 {
		return errors.New("config: http_timeout must not be negative")
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return errors.New("config: rate_limit and rate_burst must not be negative")
	}
	if c.Breaker.FailureThreshold < 0 {
		return errors.New("config: breaker.failure_threshold must not be negative")
	}
	if c.Breaker.ResetTimeout < 0 {
		return errors.New("config: breaker.reset_timeout must not be negative")
	}
	for name, p := range map[string]ProviderConfig{ProviderCloudflare: c.Cloudflare, ProviderGemini: c.Gemini} {
		if p.MaxTokens < 0 {
			return fmt.Errorf("config: %s.max_tokens must not be negative", name)
		}
		if _, err := names.ParseCurve(p.Curve); err != nil {
			return fmt.Errorf("config: %s.curve: %w", name, err)
		}
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		return errors.New("config: tls.cert_file and tls.key_file must be set together")
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	return nil
}

// TrustedProxyNets parses TrustedProxies. A bare IP is treated as a single
// host.
func (c Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, p := range c.TrustedProxies {
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("config: invalid trusted proxy %q", p)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("config: invalid trusted proxy %q: %w", p, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	e := envReader{lookup: lookup}

	e.str("NAMEGEN_PRIMARY", &cfg.Primary)
	e.str("NAMEGEN_FALLBACK", &cfg.Fallback)
	e.boolean("NAMEGEN_FORCE_PRIMARY_FAILURE", &cfg.ForcePrimaryFailure)
	e.boolean("NAMEGEN_REQUIRE_STYLES", &cfg.RequireStyles)
	e.duration("NAMEGEN_HTTP_TIMEOUT", &cfg.HTTPTimeout)

	e.str("NAMEGEN_ADDR", &cfg.Addr)
	e.integer("NAMEGEN_RATE_LIMIT", &cfg.RateLimit)
	e.integer("NAMEGEN_RATE_BURST", &cfg.RateBurst)
	e.str("REDIS_URL", &cfg.RedisURL)
	e.str("AUDIT_LOG_PATH", &cfg.AuditLogPath)
	e.str("NAMEGEN_LOG_FORMAT", &cfg.LogFormat)
	e.list("NAMEGEN_TRUSTED_PROXIES", &cfg.TrustedProxies)
	e.str("NAMEGEN_TLS_CERT_FILE", &cfg.TLS.CertFile)
	e.str("NAMEGEN_TLS_KEY_FILE", &cfg.TLS.KeyFile)
	e.str("NAMEGEN_TLS_CA_FILE", &cfg.TLS.ClientCAFile)
	e.boolean("NAMEGEN_TLS_REQUIRE_CLIENT_CERT", &cfg.TLS.RequireClientCert)

	e.integer("BREAKER_FAILURE_THRESHOLD", &cfg.Breaker.FailureThreshold)
	e.duration("BREAKER_RESET_TIMEOUT", &cfg.Breaker.ResetTimeout)
	e.str("SENTRY_DSN", &cfg.Sentry.DSN)
	e.str("SENTRY_ENVIRONMENT", &cfg.Sentry.Environment)
	e.boolean("TRACE_ENABLED", &cfg.Trace.Enabled)
	e.str("TRACE_ENDPOINT", &cfg.Trace.Endpoint)

	e.str("CLOUDFLARE_ACCOUNT_ID", &cfg.Cloudflare.AccountID)
	e.str("CLOUDFLARE_API_TOKEN", &cfg.Cloudflare.APIToken)
	e.str("CLOUDFLARE_MODEL", &cfg.Cloudflare.Model)
	e.str("CLOUDFLARE_BASE_URL", &cfg.Cloudflare.BaseURL)

	e.str("GEMINI_API_KEY", &cfg.Gemini.APIToken)
	e.str("GEMINI_API_TOKEN", &cfg.Gemini.APIToken)
	e.str("GEMINI_MODEL", &cfg.Gemini.Model)
	e.str("GEMINI_BASE_URL", &cfg.Gemini.BaseURL)

	return e.err
}

// envReader applies set, non-empty variables and keeps the first parse error.
type envReader struct {
	lookup lookupFunc
	err    error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(key, v string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("config: invalid %s=%q: %w", key, v, err)
	}
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) boolean(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = b
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}
