package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	chonkExt          = ".chonk"
	configEnv         = "CHONK_CONFIG"
	defaultConfigName = ".chonkrc.yaml"
)

// cliConfig holds user preferences read from ~/.chonkrc.yaml. Command line
// flags take precedence.
type cliConfig struct {
	HistoryFile        string `yaml:"history_file"`
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	TUI                bool   `yaml:"tui"`
	Verbose            bool   `yaml:"verbose"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		HistoryFile:        "~/.chonk_history",
		Prompt:             ">> ",
		ContinuationPrompt: ".. ",
	}
}

func loadConfig() (cliConfig, error) {
	path := os.Getenv(configEnv)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return defaultConfig(), nil
		}
		path = filepath.Join(home, defaultConfigName)
	}
	return loadConfigFile(path)
}

// loadConfigFile reads path over the defaults. A missing file is not an
// error.
func loadConfigFile(path string) (cliConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultConfig().Prompt
	}
	if cfg.ContinuationPrompt == "" {
		cfg.ContinuationPrompt = defaultConfig().ContinuationPrompt
	}
	return cfg, nil
}

// historyPath expands a leading "~/" in the configured history file. An
// empty setting disables history.
func (c cliConfig) historyPath() string {
	path := c.HistoryFile
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
