package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Browser    BrowserConfig
	Navigator  NavigatorConfig
	Sampler    SamplerConfig
	Compressor CompressorConfig
	LLM        LLMConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 5

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// ViewportWidth/ViewportHeight set the emulated viewport.
	// Screenshot geometry depends on these, so keep them stable.
	ViewportWidth  int // default: 1920
	ViewportHeight int // default: 1080
}

// NavigatorConfig controls the tiered page-load fallback.
type NavigatorConfig struct {
	// MaxTimeout is the hard ceiling for one whole clone request
	// (all navigation tiers + sampling + capture + generation).
	MaxTimeout time.Duration // default: 180s

	// Preflight enables the TLS-fingerprinted reachability probe that
	// runs before the navigation tiers. Only hard network errors
	// (DNS, refused connection) abort early; HTTP errors do not, since
	// bot walls often pass in a real browser.
	Preflight bool // default: true

	// PreflightTimeout bounds the probe.
	PreflightTimeout time.Duration // default: 5s
}

// SamplerConfig controls in-page design sampling.
type SamplerConfig struct {
	// Timeout bounds the design-sampling evaluation. Past it the
	// pipeline degrades to a placeholder instead of a DesignRecord.
	Timeout time.Duration // default: 15s
}

// CompressorConfig controls context compression for the generation prompt.
type CompressorConfig struct {
	// MaxContextChars is the character budget for the compressed
	// report handed to the generation model.
	MaxContextChars int // default: 3000
}

// LLMConfig controls the generation client.
type LLMConfig struct {
	// APIKey authenticates against the Anthropic-compatible API.
	// Required when generation is used; validated at client construction.
	APIKey string

	// Model is the generation model identifier.
	Model string // default: "claude-sonnet-4-20250514"

	// BaseURL is the API root, e.g. "https://api.anthropic.com".
	BaseURL string // default: "https://api.anthropic.com"

	// MaxTokens caps the generated output.
	MaxTokens int // default: 4000

	// MaxImageBytes rejects screenshots whose decoded size exceeds
	// the provider's image limit instead of resizing them.
	MaxImageBytes int // default: 5 MiB

	// RequestTimeout bounds one generation call.
	RequestTimeout time.Duration // default: 120s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key. Clone
	// requests hold a browser tab for tens of seconds, so the default
	// is deliberately low.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 3
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MIMIC_HOST", "0.0.0.0"),
			Port: envIntOr("MIMIC_PORT", 8080),
			Mode: envOr("MIMIC_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:       envBoolOr("MIMIC_HEADLESS", true),
			MaxPages:       envIntOr("MIMIC_MAX_PAGES", 5),
			NoSandbox:      envBoolOr("MIMIC_NO_SANDBOX", false),
			BrowserBin:     os.Getenv("MIMIC_BROWSER_BIN"),
			ViewportWidth:  envIntOr("MIMIC_VIEWPORT_WIDTH", 1920),
			ViewportHeight: envIntOr("MIMIC_VIEWPORT_HEIGHT", 1080),
		},
		Navigator: NavigatorConfig{
			MaxTimeout:       envDurationOr("MIMIC_MAX_TIMEOUT", 180*time.Second),
			Preflight:        envBoolOr("MIMIC_PREFLIGHT", true),
			PreflightTimeout: envDurationOr("MIMIC_PREFLIGHT_TIMEOUT", 5*time.Second),
		},
		Sampler: SamplerConfig{
			Timeout: envDurationOr("MIMIC_SAMPLE_TIMEOUT", 15*time.Second),
		},
		Compressor: CompressorConfig{
			MaxContextChars: envIntOr("MIMIC_MAX_CONTEXT_CHARS", 3000),
		},
		LLM: LLMConfig{
			APIKey:         os.Getenv("MIMIC_LLM_API_KEY"),
			Model:          envOr("MIMIC_LLM_MODEL", "claude-sonnet-4-20250514"),
			BaseURL:        envOr("MIMIC_LLM_BASE_URL", "https://api.anthropic.com"),
			MaxTokens:      envIntOr("MIMIC_LLM_MAX_TOKENS", 4000),
			MaxImageBytes:  envIntOr("MIMIC_LLM_MAX_IMAGE_BYTES", 5*1024*1024),
			RequestTimeout: envDurationOr("MIMIC_LLM_TIMEOUT", 120*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MIMIC_AUTH_ENABLED", true),
			APIKeys: envSliceOr("MIMIC_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MIMIC_RATE_RPS", 1.0),
			Burst:             envIntOr("MIMIC_RATE_BURST", 3),
		},
		Log: LogConfig{
			Level:  envOr("MIMIC_LOG_LEVEL", "info"),
			Format: envOr("MIMIC_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
