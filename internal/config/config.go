// Package config loads process configuration from TENTCARDS_* environment
// variables. Command-line flags override the loaded values.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/KirkDiggler/tentcards/internal/errors"
)

// Logging is shared by every command
type Logging struct {
	Level  string `env:"TENTCARDS_LOG_LEVEL" envDefault:"info"`
	Format string `env:"TENTCARDS_LOG_FORMAT" envDefault:"text"`
}

// Server configures `tentcards server`
type Server struct {
	HTTPAddr        string        `env:"TENTCARDS_HTTP_ADDR" envDefault:":8080"`
	GRPCPort        int           `env:"TENTCARDS_GRPC_PORT" envDefault:"50051"`
	ShutdownTimeout time.Duration `env:"TENTCARDS_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	RedisURL    string `env:"TENTCARDS_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	ImageMapKey string `env:"TENTCARDS_IMAGE_MAP_KEY" envDefault:"monster_images"`
	BlobDir     string `env:"TENTCARDS_BLOB_DIR" envDefault:"./data/images"`
	UsageDBPath string `env:"TENTCARDS_USAGE_DB" envDefault:"./data/usage.db"`
	// SeedFile is an optional JSON object of name -> url loaded at startup
	SeedFile string `env:"TENTCARDS_SEED_FILE"`

	// An empty OpenAIAPIKey selects the offline placeholder painter
	OpenAIAPIKey  string `env:"TENTCARDS_OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"TENTCARDS_OPENAI_BASE_URL"`
	OpenAIModel   string `env:"TENTCARDS_OPENAI_MODEL"`
	OpenAISize    string `env:"TENTCARDS_OPENAI_SIZE"`

	Dnd5eBaseURL  string        `env:"TENTCARDS_DND5E_BASE_URL"`
	Dnd5eCacheTTL time.Duration `env:"TENTCARDS_DND5E_CACHE_TTL" envDefault:"24h"`

	ProviderRateInterval time.Duration `env:"TENTCARDS_PROVIDER_RATE_INTERVAL" envDefault:"2s"`
	ProviderRateBurst    int           `env:"TENTCARDS_PROVIDER_RATE_BURST" envDefault:"2"`
	GenerateTimeout      time.Duration `env:"TENTCARDS_GENERATE_TIMEOUT" envDefault:"90s"`
}

// Validate checks the loaded server configuration
func (c *Server) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("HTTPAddr", c.HTTPAddr, vb)
	errors.ValidateRequired("RedisURL", c.RedisURL, vb)
	errors.ValidateRequired("BlobDir", c.BlobDir, vb)
	errors.ValidateRequired("UsageDBPath", c.UsageDBPath, vb)
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		vb.InvalidField("GRPCPort", "must be between 0 and 65535")
	}
	if c.ProviderRateInterval < 0 {
		vb.InvalidField("ProviderRateInterval", "must not be negative")
	}
	if c.ProviderRateBurst < 1 {
		vb.InvalidField("ProviderRateBurst", "must be at least 1")
	}

	return vb.Build()
}

// Client configures `tentcards client ...`
type Client struct {
	APIURL            string        `env:"TENTCARDS_API_URL" envDefault:"http://localhost:8080/"`
	GenerationTimeout time.Duration `env:"TENTCARDS_GENERATION_TIMEOUT" envDefault:"2m"`
	ImageTimeout      time.Duration `env:"TENTCARDS_IMAGE_TIMEOUT" envDefault:"10s"`
	BatchTimeout      time.Duration `env:"TENTCARDS_BATCH_TIMEOUT" envDefault:"30s"`
	FetchConcurrency  int           `env:"TENTCARDS_FETCH_CONCURRENCY" envDefault:"4"`
}

// Validate checks the loaded client configuration
func (c *Client) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("APIURL", c.APIURL, vb)
	if c.GenerationTimeout < 0 {
		vb.InvalidField("GenerationTimeout", "must not be negative")
	}
	if c.ImageTimeout < 0 {
		vb.InvalidField("ImageTimeout", "must not be negative")
	}
	if c.BatchTimeout < 0 {
		vb.InvalidField("BatchTimeout", "must not be negative")
	}
	if c.FetchConcurrency < 0 {
		vb.InvalidField("FetchConcurrency", "must not be negative")
	}

	return vb.Build()
}

// SlogLevel maps the configured level name onto slog
func (l Logging) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Validate checks the level and format names
func (l Logging) Validate() error {
	vb := errors.NewValidationBuilder()
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		vb.InvalidField("LogLevel", "must be one of debug, info, warn, error")
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		vb.InvalidField("LogFormat", "must be text or json")
	}
	return vb.Build()
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "parse env")
	}
	return nil
}

// LoadLogging parses the logging configuration from the environment
func LoadLogging() (*Logging, error) {
	var cfg Logging
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer parses the server configuration from the environment
func LoadServer() (*Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadClient parses the client configuration from the environment
func LoadClient() (*Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
