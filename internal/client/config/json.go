package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/itemgate/internal/flagx"
	"github.com/dmitrijs2005/itemgate/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell
// "absent" apart from zero values so a partial file only overrides what it
// names.
type JsonConfig struct {
	APIGatewayURL  *string         `json:"api_gateway_url"`
	AuthAppURL     *string         `json:"auth_app_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *int            `json:"log_level"`
	DataFile       *string         `json:"data_file"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	if jc.APIGatewayURL != nil {
		cfg.APIGatewayURL = *jc.APIGatewayURL
	}
	if jc.AuthAppURL != nil {
		cfg.AuthAppURL = *jc.AuthAppURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.DataFile != nil {
		cfg.DataFile = *jc.DataFile
	}
	return nil
}
