// Package config provides layered configuration for cyro applications.
//
// Configuration is loaded in order:
//  1. Built-in defaults
//  2. YAML config file (explicit path, CYRO_CONFIG env, ./cyro.yaml)
//  3. Environment variable overrides (CYRO_ prefix)
//  4. Secret file resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds everything a cyro application reads at startup.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`          // default: ":8080"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 30s
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	DSNFile  string `yaml:"dsn_file"` // _file variant for dsn
	MaxConns int32  `yaml:"max_conns"` // default: 10
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	TTL        time.Duration `yaml:"ttl"`         // default: 24h
	Issuer     string        `yaml:"issuer"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Auth: AuthConfig{
			TTL: 24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
