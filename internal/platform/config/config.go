package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Upstream failure modes for the breach endpoint.
const (
	FailureModeError = "error"
	FailureModeSoft  = "soft"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	StaticDir      string
	CORSOrigins    string
	TrustedProxies []string
	// OTLPEndpoint enables trace export over OTLP/HTTP when set.
	OTLPEndpoint string
}

// Breach configures the provider chain behind POST /api/check-breach.
type Breach struct {
	Providers          []string
	ProviderTimeout    time.Duration
	FailureMode        string
	XposedOrNotBaseURL string
	HIBPBaseURL        string
	HIBPAPIKey         string
	LeakCheckBaseURL   string
}

// Review configures the AI completion backend.
type Review struct {
	APIKey      string
	APIURL      string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

type Config struct {
	Server Server
	Breach Breach
	Review Review
}

// Defaults mirror the hosted upstreams; tests and local runs override the base URLs.
var (
	DefaultProviders       = []string{"xposedornot", "hibp"}
	DefaultProviderTimeout = 10 * time.Second
	DefaultReviewTimeout   = 60 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultReviewModel     = "claude-3-haiku-20240307"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none) into
// the process environment. Existing variables win. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p) //nolint:errcheck // best effort, env vars still apply
		}
	}
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() (Config, error) {
	port := getEnv("PORT", "3000")
	addr := port
	if !strings.Contains(port, ":") {
		addr = ":" + port
	}

	cfg := Config{
		Server: Server{
			Addr:           addr,
			Environment:    getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
			MaxBodyBytes:   getInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes),
			StaticDir:      os.Getenv("STATIC_DIR"),
			CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
			TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
			OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
		Breach: Breach{
			Providers:          splitList(os.Getenv("BREACH_PROVIDERS")),
			ProviderTimeout:    getDuration("BREACH_PROVIDER_TIMEOUT", DefaultProviderTimeout),
			FailureMode:        strings.ToLower(getEnv("UPSTREAM_FAILURE_MODE", FailureModeError)),
			XposedOrNotBaseURL: getEnv("XPOSEDORNOT_BASE_URL", "https://api.xposedornot.com"),
			HIBPBaseURL:        getEnv("HIBP_BASE_URL", "https://haveibeenpwned.com"),
			HIBPAPIKey:         os.Getenv("HIBP_API_KEY"),
			LeakCheckBaseURL:   getEnv("LEAKCHECK_BASE_URL", "https://leakcheck.io"),
		},
		Review: Review{
			APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
			APIURL:      getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com"),
			Model:       getEnv("ANTHROPIC_MODEL", DefaultReviewModel),
			Timeout:     getDuration("REVIEW_TIMEOUT", DefaultReviewTimeout),
			MaxTokens:   1000,
			Temperature: 0.1,
		},
	}
	if len(cfg.Breach.Providers) == 0 {
		cfg.Breach.Providers = append([]string(nil), DefaultProviders...)
	}

	switch cfg.Breach.FailureMode {
	case FailureModeError, FailureModeSoft:
	default:
		return Config{}, fmt.Errorf("UPSTREAM_FAILURE_MODE must be %q or %q, got %q",
			FailureModeError, FailureModeSoft, cfg.Breach.FailureMode)
	}
	return cfg, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (s Server) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}
