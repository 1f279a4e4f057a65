package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the fixed base path all requests are issued against.
	APIBaseURL     string        `env:"CATALOG_API_URL,     default=https://localhost:8443/api"`
	RequestTimeout time.Duration `env:"CATALOG_API_TIMEOUT, default=15s"`

	// SessionFile overrides where the token/user pair is persisted.
	// Empty means the default location under the user config dir.
	SessionFile string `env:"CATALOG_SESSION_FILE"`

	LogLevel  string `env:"CATALOG_LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"CATALOG_LOG_PRETTY, default=true"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
