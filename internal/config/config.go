// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package config loads and validates Narcomap runtime configuration.
//
// Configuration is layered: struct defaults, then an optional YAML file,
// then NARCOMAP_* environment variables. Later layers win.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration tree.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	SMS      SMSConfig      `koanf:"sms"`
	Media    MediaConfig    `koanf:"media"`
	Markers  MarkersConfig  `koanf:"markers"`
	Logging  LoggingConfig  `koanf:"logging"`
	CORS     CORSConfig     `koanf:"cors"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns host:port for http.Server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig controls the embedded DuckDB store.
type DatabaseConfig struct {
	// Path is the database file location. ":memory:" runs fully in memory.
	Path      string `koanf:"path"`
	Threads   int    `koanf:"threads"`
	MaxMemory string `koanf:"max_memory"`
	MaxConns  int    `koanf:"max_conns"`
}

// AuthConfig controls OTP login and JWT issuance.
type AuthConfig struct {
	// JWTSecret signs access and refresh tokens (HS256). Required.
	JWTSecret       string        `koanf:"jwt_secret"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl"`
	OTPLength       int           `koanf:"otp_length"`
	OTPTTL          time.Duration `koanf:"otp_ttl"`
	// DefaultRegion is the ISO region used to parse national phone numbers.
	DefaultRegion string `koanf:"default_region"`
}

// SMSConfig selects the OTP delivery channel.
type SMSConfig struct {
	// Provider is "log" (development, codes go to the log) or "http".
	Provider string        `koanf:"provider"`
	URL      string        `koanf:"url"`
	APIKey   string        `koanf:"api_key"`
	Timeout  time.Duration `koanf:"timeout"`
}

// MediaConfig selects the photo storage backend.
type MediaConfig struct {
	// Backend is "local" or "s3".
	Backend        string   `koanf:"backend"`
	LocalDir       string   `koanf:"local_dir"`
	MaxUploadBytes int64    `koanf:"max_upload_bytes"`
	S3             S3Config `koanf:"s3"`
}

// S3Config holds the S3 backend settings.
type S3Config struct {
	Bucket    string `koanf:"bucket"`
	Region    string `koanf:"region"`
	Endpoint  string `koanf:"endpoint"`
	KeyPrefix string `koanf:"key_prefix"`
}

// MarkersConfig holds marker lifecycle limits.
type MarkersConfig struct {
	// DailyQuota is the maximum markers one owner may create per UTC day.
	DailyQuota int `koanf:"daily_quota"`
	// DuplicateRadiusMeters rejects new markers closer than this to any
	// existing marker.
	DuplicateRadiusMeters float64 `koanf:"duplicate_radius_meters"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CORSConfig controls cross-origin access.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Default returns the built-in defaults applied before file and
// environment layers.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "data/narcomap.db",
			Threads:   4,
			MaxMemory: "1GB",
			MaxConns:  8,
		},
		Auth: AuthConfig{
			AccessTokenTTL:  60 * time.Minute,
			RefreshTokenTTL: 30 * 24 * time.Hour,
			OTPLength:       6,
			OTPTTL:          5 * time.Minute,
			DefaultRegion:   "RU",
		},
		SMS: SMSConfig{
			Provider: "log",
			Timeout:  10 * time.Second,
		},
		Media: MediaConfig{
			Backend:        "local",
			LocalDir:       "data/media",
			MaxUploadBytes: 10 << 20,
		},
		Markers: MarkersConfig{
			DailyQuota:            10,
			DuplicateRadiusMeters: 5.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// Validate checks cross-field constraints after all layers are applied.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 bytes, got %d", len(c.Auth.JWTSecret))
	}
	if c.Auth.OTPLength < 4 || c.Auth.OTPLength > 10 {
		return fmt.Errorf("auth.otp_length out of range: %d", c.Auth.OTPLength)
	}
	if c.Auth.OTPTTL <= 0 {
		return fmt.Errorf("auth.otp_ttl must be positive")
	}
	switch c.SMS.Provider {
	case "log":
	case "http":
		if c.SMS.URL == "" {
			return fmt.Errorf("sms.url is required for the http provider")
		}
	default:
		return fmt.Errorf("sms.provider must be log or http, got %q", c.SMS.Provider)
	}
	switch c.Media.Backend {
	case "local":
		if c.Media.LocalDir == "" {
			return fmt.Errorf("media.local_dir is required for the local backend")
		}
	case "s3":
		if c.Media.S3.Bucket == "" {
			return fmt.Errorf("media.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("media.backend must be local or s3, got %q", c.Media.Backend)
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media.max_upload_bytes must be positive")
	}
	if c.Markers.DailyQuota < 1 {
		return fmt.Errorf("markers.daily_quota must be at least 1")
	}
	if c.Markers.DuplicateRadiusMeters < 0 {
		return fmt.Errorf("markers.duplicate_radius_meters must not be negative")
	}
	return nil
}
