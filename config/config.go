package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port string `env:"HTTP_SERVER_PORT,default=8080"`

	// Completion provider
	CompletionURL  string        `env:"COMPLETION_API_URL,default=https://api.openai.com/v1/chat/completions"`
	Model          string        `env:"COMPLETION_MODEL,default=gpt-4o-mini"`
	MaxTokens      int           `env:"COMPLETION_MAX_TOKENS,default=1000"`
	Temperature    float64       `env:"COMPLETION_TEMPERATURE,default=0.7"`
	Timeout        time.Duration `env:"COMPLETION_TIMEOUT,default=45s"`
	ResearchAPIKey string        `env:"RESEARCH_API_KEY"`

	// Limits
	MaxInFlight        int  `env:"MAX_IN_FLIGHT,default=16"`
	RateLimitPerMinute int  `env:"RATE_LIMIT_PER_MINUTE,default=0"`
	TrustProxy         bool `env:"TRUST_PROXY,default=false"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

const (
	DefaultCompletionURL = "https://api.openai.com/v1/chat/completions"
	DefaultModel         = "gpt-4o-mini"
	DefaultMaxTokens     = 1000
	DefaultTemperature   = 0.7
	DefaultTimeout       = 45 * time.Second
)

// Init loads config/.env.<GATEWAY_ENV>.local and config/.env.<GATEWAY_ENV> into the
// process environment. Variables that are already set are not overridden.
func Init() {
	exPath, err := os.Getwd()
	if err != nil {
		log.WithError(err).Warn("cannot resolve working directory, skipping env files")
		return
	}
	exPath = filepath.Join(exPath, "config")

	gatewayEnv, exists := os.LookupEnv("GATEWAY_ENV")
	if !exists {
		gatewayEnv = "dev"
	}
	for _, name := range []string{".env." + gatewayEnv + ".local", ".env." + gatewayEnv} {
		path := filepath.Join(exPath, name)
		if err := godotenv.Load(path); err != nil {
			log.WithField("file", path).Debug("env file not loaded")
			continue
		}
		log.WithField("file", path).Info("loaded env file")
	}
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{}
	envcfg := envconfig.Config{
		Lookuper: envconfig.OsLookuper(),
		Target:   &cfg,
	}
	if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
		return Config{}, errors.Wrap(err, "process env config")
	}

	if cfg.Timeout <= 0 {
		return Config{}, errors.New("COMPLETION_TIMEOUT must be positive")
	}
	if cfg.MaxInFlight <= 0 {
		return Config{}, errors.New("MAX_IN_FLIGHT must be positive")
	}
	return cfg, nil
}

// SetupLogger applies the configured level and formatter to the standard logrus logger.
func SetupLogger(cfg Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "parse LOG_LEVEL")
	}
	log.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.000"})
	default:
		return errors.Errorf("unknown LOG_FORMAT %q", cfg.LogFormat)
	}
	return nil
}
