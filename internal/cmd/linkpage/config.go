// Package linkpage wires the linkpage commands.
package linkpage

import (
	"fmt"
	"time"

	platformcmd "github.com/digitalexpert/linkpage/internal/platform/cmd"
	"github.com/digitalexpert/linkpage/internal/platform/otel"
	"github.com/spf13/pflag"
)

// Config holds the command configuration. Environment variables set the
// defaults and flags override them.
type Config struct {
	HTTPAddr            string        `env:"LINKPAGE_HTTP_ADDR" envDefault:"localhost:3000"`
	SiteFile            string        `env:"LINKPAGE_SITE_FILE"`
	LocalesDir          string        `env:"LINKPAGE_LOCALES_DIR"`
	DBPath              string        `env:"LINKPAGE_DB_PATH"`
	SessionKey          string        `env:"LINKPAGE_SESSION_KEY"`
	TrustForwardedProto bool          `env:"LINKPAGE_TRUST_FORWARDED_PROTO"`
	AIProvider          string        `env:"LINKPAGE_AI_PROVIDER"`
	AIAPIKey            string        `env:"LINKPAGE_AI_API_KEY"`
	AIModel             string        `env:"LINKPAGE_AI_MODEL"`
	AIBaseURL           string        `env:"LINKPAGE_AI_BASE_URL"`
	ReplyDelay          time.Duration `env:"LINKPAGE_REPLY_DELAY" envDefault:"1s"`
	LogLevel            string        `env:"LINKPAGE_LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LINKPAGE_LOG_FORMAT" envDefault:"json"`
	OTelEndpoint        string        `env:"LINKPAGE_OTEL_ENDPOINT"`
	OTelEnabled         bool          `env:"LINKPAGE_OTEL_ENABLED" envDefault:"true"`
	OTelSampleRatio     float64       `env:"LINKPAGE_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig reads the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Telemetry returns the tracing settings.
func (c Config) Telemetry() otel.Config {
	return otel.Config{Endpoint: c.OTelEndpoint, Enabled: c.OTelEnabled, SampleRatio: c.OTelSampleRatio}
}

// BindFlags registers flags shared by every command, defaulting to cfg's
// current values.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.SiteFile, "site", cfg.SiteFile, "YAML site file (built-in site when empty)")
	fs.StringVar(&cfg.LocalesDir, "locales-dir", cfg.LocalesDir, "directory of locale overrides")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (json, console)")
}

// BindServeFlags registers the flags used by commands that answer visitors.
func BindServeFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite transcript database (in-memory when empty)")
	fs.StringVar(&cfg.AIProvider, "ai-provider", cfg.AIProvider, "generative provider: gemini, openai or none (auto when empty)")
	fs.StringVar(&cfg.AIModel, "ai-model", cfg.AIModel, "generative model name")
	fs.DurationVar(&cfg.ReplyDelay, "reply-delay", cfg.ReplyDelay, "canned reply delay")
}
