package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the process reads from its environment.
type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabasePath string        `env:"DATABASE_PATH" envDefault:"mission-hub.db"`
	JWTSecret    string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTTTL       time.Duration `env:"JWT_TTL" envDefault:"168h"`
	MailboxSize  int           `env:"MAILBOX_SIZE" envDefault:"256"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"console"`
	LogOutput   string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogFilePath string `env:"LOG_FILE_PATH"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
