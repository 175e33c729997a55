package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the item client.
type Config struct {
	// APIGatewayURL is the base URL every API call is resolved against.
	APIGatewayURL string
	// AuthAppURL is opened in the browser so the user can read OTP codes.
	AuthAppURL string
	// RequestTimeout bounds every single gateway request.
	RequestTimeout time.Duration
	// LogLevel uses slog numbering (-4 debug, 0 info, 4 warn, 8 error).
	LogLevel int
	// DataFile is the SQLite file for local preferences.
	DataFile string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIGatewayURL = "http://localhost:8080"
	c.AuthAppURL = ""
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = 4
	c.DataFile = "itemgate.db"
}

// LoadConfig builds a Config from defaults, an optional JSON file, the
// environment and finally command-line flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}
