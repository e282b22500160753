// SPDX-License-Identifier: Apache-2.0
// Package config loads HHAC configuration from YAML files and HHAC_-prefixed
// environment variables, in that order of precedence.
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Journal   JournalConfig   `koanf:"journal"`
	Lexicon   LexiconConfig   `koanf:"lexicon"`
	Council   CouncilConfig   `koanf:"council"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

type JournalConfig struct {
	Enabled bool   `koanf:"enabled"`
	Backend string `koanf:"backend"` // file, sqlite
	Path    string `koanf:"path"`
}

type LexiconConfig struct {
	Path string `koanf:"path"` // optional YAML lexicon override file
}

type CouncilConfig struct {
	RetryAttempts     int           `koanf:"retry_attempts"`
	EvaluationTimeout time.Duration `koanf:"evaluation_timeout"`
}

// Global k instance
var k = koanf.New(".")

func Load(path string) (*Config, error) {
	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")

	k.Set("telemetry.exporter", "none")
	k.Set("telemetry.otlp_endpoint", "")
	k.Set("telemetry.otlp_insecure", false)

	k.Set("journal.enabled", false)
	k.Set("journal.backend", "file")
	k.Set("journal.path", "hhac-journal.jsonl")

	k.Set("lexicon.path", "")

	k.Set("council.retry_attempts", 1)
	k.Set("council.evaluation_timeout", "0s")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.New(errors.CodeConfig, "loading config file", err).
				WithContext("path", path)
		}
	}

	// 2. Load from ENV (HHAC_JOURNAL_BACKEND -> journal.backend)
	if err := k.Load(env.Provider("HHAC_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "HHAC_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, errors.New(errors.CodeConfig, "loading environment", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.New(errors.CodeConfig, "unmarshaling config", err)
	}

	return &cfg, nil
}
