package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for the environment layer. Only variables that
// are set override the values loaded so far.
type envConfig struct {
	APIGatewayURL  *string        `env:"API_GATEWAY_URL"`
	AuthAppURL     *string        `env:"AUTH_APP_URL"`
	RequestTimeout *time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       *int           `env:"LOG_LEVEL"`
	DataFile       *string        `env:"DATA_FILE"`
}

func parseEnv(cfg *Config) error {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return err
	}

	if ec.APIGatewayURL != nil {
		cfg.APIGatewayURL = *ec.APIGatewayURL
	}
	if ec.AuthAppURL != nil {
		cfg.AuthAppURL = *ec.AuthAppURL
	}
	if ec.RequestTimeout != nil {
		cfg.RequestTimeout = *ec.RequestTimeout
	}
	if ec.LogLevel != nil {
		cfg.LogLevel = *ec.LogLevel
	}
	if ec.DataFile != nil {
		cfg.DataFile = *ec.DataFile
	}
	return nil
}
