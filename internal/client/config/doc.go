// Package config loads runtime configuration for the item client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables.
//  4. Command-line flags.
//
// Environment
//
//	API_GATEWAY_URL   base URL of the API gateway
//	AUTH_APP_URL      URL of the Auth App showing OTP codes
//	REQUEST_TIMEOUT   per-request timeout, e.g. "5s"
//	LOG_LEVEL         slog level number
//	DATA_FILE         SQLite file for local preferences
//
// Flags
//
//	-a string   API gateway base URL
//	-u string   Auth App URL
//	-t int      request timeout (seconds)
//	-d string   local preferences file
//
// # JSON schema
//
//	{
//	  "api_gateway_url": "https://gw.example.com",
//	  "auth_app_url": "https://auth.example.com",
//	  "request_timeout": "5s",
//	  "log_level": 0,
//	  "data_file": "itemgate.db"
//	}
package config
