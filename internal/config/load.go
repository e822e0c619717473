// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces all environment overrides.
const envPrefix = "NARCOMAP_"

// envKeys maps environment variable suffixes to config paths. Explicit
// mapping avoids ambiguity between key underscores and path separators
// (SERVER_PORT vs JWT_SECRET).
var envKeys = map[string]string{
	"SERVER_HOST":                     "server.host",
	"SERVER_PORT":                     "server.port",
	"SERVER_READ_TIMEOUT":             "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":            "server.write_timeout",
	"SERVER_SHUTDOWN_TIMEOUT":         "server.shutdown_timeout",
	"DATABASE_PATH":                   "database.path",
	"DATABASE_THREADS":                "database.threads",
	"DATABASE_MAX_MEMORY":             "database.max_memory",
	"DATABASE_MAX_CONNS":              "database.max_conns",
	"AUTH_JWT_SECRET":                 "auth.jwt_secret",
	"AUTH_ACCESS_TOKEN_TTL":           "auth.access_token_ttl",
	"AUTH_REFRESH_TOKEN_TTL":          "auth.refresh_token_ttl",
	"AUTH_OTP_LENGTH":                 "auth.otp_length",
	"AUTH_OTP_TTL":                    "auth.otp_ttl",
	"AUTH_DEFAULT_REGION":             "auth.default_region",
	"SMS_PROVIDER":                    "sms.provider",
	"SMS_URL":                         "sms.url",
	"SMS_API_KEY":                     "sms.api_key",
	"SMS_TIMEOUT":                     "sms.timeout",
	"MEDIA_BACKEND":                   "media.backend",
	"MEDIA_LOCAL_DIR":                 "media.local_dir",
	"MEDIA_MAX_UPLOAD_BYTES":          "media.max_upload_bytes",
	"MEDIA_S3_BUCKET":                 "media.s3.bucket",
	"MEDIA_S3_REGION":                 "media.s3.region",
	"MEDIA_S3_ENDPOINT":               "media.s3.endpoint",
	"MEDIA_S3_KEY_PREFIX":             "media.s3.key_prefix",
	"MARKERS_DAILY_QUOTA":             "markers.daily_quota",
	"MARKERS_DUPLICATE_RADIUS_METERS": "markers.duplicate_radius_meters",
	"LOGGING_LEVEL":                   "logging.level",
	"LOGGING_FORMAT":                  "logging.format",
	"LOGGING_CALLER":                  "logging.caller",
	"CORS_ALLOWED_ORIGINS":            "cors.allowed_origins",
}

// DefaultConfigPaths are checked in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"narcomap.yaml",
	"config/narcomap.yaml",
	"/etc/narcomap/narcomap.yaml",
}

// Load builds the configuration from defaults, an optional YAML file, and
// NARCOMAP_* environment variables, then validates it. An empty path means
// "first existing DefaultConfigPaths entry, or none".
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = firstExisting(DefaultConfigPaths)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// koanf cannot split comma-separated env values into slices.
	if raw := os.Getenv(envPrefix + "CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(raw)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func envTransform(s string) string {
	key := strings.TrimPrefix(s, envPrefix)
	if path, ok := envKeys[key]; ok {
		return path
	}
	// Unknown variables under the prefix are ignored rather than guessed at.
	return ""
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
