package config

import "time"

// BridgeConfig holds the execution-service handoff values. Identity and
// the endpoint list are delivered verbatim inside room_started payloads;
// the key signs the bearer tokens the execution service presents on the
// bridge route.
type BridgeConfig struct {
	Identity         string   `mapstructure:"identity" yaml:"identity"`
	Key              string   `mapstructure:"key" yaml:"key"`
	ClientsEndpoints []string `mapstructure:"clients_endpoints" yaml:"clients_endpoints"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	Bridge            BridgeConfig  `mapstructure:"bridge" yaml:"bridge"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		DatabasePath:      "lobbyhub.db",
		LogLevel:          "info",
		Bridge: BridgeConfig{
			Identity:         "lobbyhub",
			Key:              "",
			ClientsEndpoints: []string{"ws://127.0.0.1:9090"},
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Bridge.Identity != "" {
		c.Bridge.Identity = other.Bridge.Identity
	}
	if other.Bridge.Key != "" {
		c.Bridge.Key = other.Bridge.Key
	}
	if len(other.Bridge.ClientsEndpoints) > 0 {
		c.Bridge.ClientsEndpoints = other.Bridge.ClientsEndpoints
	}
}
