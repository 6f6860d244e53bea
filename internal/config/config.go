// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultGatewayURL     = "http://127.0.0.1:8090"
	DefaultInstance       = "default"
	DefaultMediaRoot      = "data"
	DefaultAgentsURL      = "http://127.0.0.1:7420"
	DefaultTimeoutSeconds = 30
	DefaultGatewayRateRPS = 10
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	Gateway GatewayConfig `toml:"gateway"`
	Media   MediaConfig   `toml:"media"`
	Agents  AgentsConfig  `toml:"agents"`
	OpenAPI OpenAPIConfig `toml:"openapi"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP transport listen address (used with --http).
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// GatewayConfig holds the messaging gateway connection parameters.
type GatewayConfig struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	DefaultInstance   string `toml:"default_instance"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	RequestsPerSecond int    `toml:"requests_per_second"`
}

// MediaConfig holds the media root directory for downloaded attachments.
type MediaConfig struct {
	DownloadFolder string `toml:"download_folder"`
}

// AgentsConfig holds the agent platform connection parameters.
type AgentsConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OpenAPIConfig holds defaults for the OpenAPI bridge (flags take precedence).
type OpenAPIConfig struct {
	SpecURL        string `toml:"spec_url"`
	BaseURL        string `toml:"base_url"`
	BearerToken    string `toml:"bearer_token"`
	Tag            string `toml:"tag"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Gateway: GatewayConfig{
			BaseURL:           DefaultGatewayURL,
			DefaultInstance:   DefaultInstance,
			TimeoutSeconds:    DefaultTimeoutSeconds,
			RequestsPerSecond: DefaultGatewayRateRPS,
		},
		Media: MediaConfig{
			DownloadFolder: DefaultMediaRoot,
		},
		Agents: AgentsConfig{
			BaseURL:        DefaultAgentsURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		OpenAPI: OpenAPIConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
