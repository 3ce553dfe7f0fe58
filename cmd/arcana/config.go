package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// scribeConfig configures the metadata inference client. The API key
// never lives in the file; it comes from the environment.
type scribeConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxChars    int    `yaml:"max_chars"`
}

// searchConfig tunes the fuzzy catalog search.
type searchConfig struct {
	Threshold      float64 `yaml:"threshold"`
	MinMatchLength int     `yaml:"min_match_length"`
}

// appConfig is the root configuration structure.
type appConfig struct {
	Port        string       `yaml:"port"`
	DBPath      string       `yaml:"db_path"`
	LogLevel    string       `yaml:"log_level"`
	MaxUploadMB int64        `yaml:"max_upload_mb"`
	Scribe      scribeConfig `yaml:"scribe"`
	Search      searchConfig `yaml:"search"`
}

// loadConfig reads a YAML config from path. A missing file is not an
// error; defaults apply. Environment variables override in main.
func loadConfig(path string) (*appConfig, error) {
	var cfg appConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func applyConfigDefaults(cfg *appConfig) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "db/archive.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	if cfg.Scribe.TimeoutSecs <= 0 {
		cfg.Scribe.TimeoutSecs = 120
	}
}
