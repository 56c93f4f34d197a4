// Package config loads podforge configuration from an optional TOML file
// with environment variable overrides. A .env file, when present, is
// loaded by the caller before Load (see cmd/podforge).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port     string `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// AuthConfig maps bearer tokens to principal names.
type AuthConfig struct {
	Tokens map[string]string `toml:"tokens"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	DocumentsDir string `toml:"documents_dir"`
	ArtifactsDir string `toml:"artifacts_dir"`

	// Database is the SQLite file for job persistence.
	// Empty selects the in-memory job store.
	Database string `toml:"database"`
}

// ScriptConfig configures the script generation provider.
type ScriptConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	MaxTokens      int     `toml:"max_tokens"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// EngineConfig configures one synthesis engine.
type EngineConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// SynthConfig configures speech synthesis.
type SynthConfig struct {
	// Engines is the ranked engine list, most preferred first.
	// Known names: "openai", "elevenlabs".
	Engines []string `toml:"engines"`

	// MaxConcurrent bounds how many jobs synthesize at once.
	MaxConcurrent int `toml:"max_concurrent"`

	// OutputSampleRate is the assembled track's sample rate in Hz.
	OutputSampleRate int `toml:"output_sample_rate"`

	OpenAI     EngineConfig `toml:"openai"`
	ElevenLabs EngineConfig `toml:"elevenlabs"`

	// Voices overrides speaker voices per engine name.
	Voices map[string]map[string]string `toml:"voices"`
}

// Config is the root configuration structure.
type Config struct {
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
	Paths  PathsConfig  `toml:"paths"`
	Script ScriptConfig `toml:"script"`
	Synth  SynthConfig  `toml:"synth"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
		Auth: AuthConfig{Tokens: map[string]string{}},
		Paths: PathsConfig{
			DocumentsDir: "./documents",
			ArtifactsDir: "./artifacts",
		},
		Script: ScriptConfig{
			Model:          "gpt-4o-mini",
			MaxTokens:      2048,
			Temperature:    0.7,
			TimeoutSeconds: 120,
		},
		Synth: SynthConfig{
			Engines:          []string{"openai", "elevenlabs"},
			MaxConcurrent:    2,
			OutputSampleRate: 22050,
		},
	}
}

// Load reads configuration from path (skipped if path is empty or the file
// does not exist) and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("PODFORGE_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("PODFORGE_DOCUMENTS_DIR"); v != "" {
		c.Paths.DocumentsDir = v
	}
	if v := os.Getenv("PODFORGE_ARTIFACTS_DIR"); v != "" {
		c.Paths.ArtifactsDir = v
	}
	if v := os.Getenv("PODFORGE_DATABASE"); v != "" {
		c.Paths.Database = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Script.APIKey = v
		if c.Synth.OpenAI.APIKey == "" {
			c.Synth.OpenAI.APIKey = v
		}
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		c.Synth.ElevenLabs.APIKey = v
	}
	if v := os.Getenv("PODFORGE_SYNTH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Synth.MaxConcurrent = n
		}
	}
	// PODFORGE_API_TOKEN=token:principal adds one credential without a file.
	if v := os.Getenv("PODFORGE_API_TOKEN"); v != "" {
		token, principal := v, "default"
		for i := 0; i < len(v); i++ {
			if v[i] == ':' {
				token, principal = v[:i], v[i+1:]
				break
			}
		}
		if c.Auth.Tokens == nil {
			c.Auth.Tokens = map[string]string{}
		}
		c.Auth.Tokens[token] = principal
	}
}
