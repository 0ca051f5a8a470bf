package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFileMissingUsesDefaults(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}
	if cfg != defaultConfig() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadConfigFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, "prompt: \"chonk> \"\ntui: true\nhistory_file: \"\"\n")

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}
	if cfg.Prompt != "chonk> " {
		t.Fatalf("unexpected prompt %q", cfg.Prompt)
	}
	if !cfg.TUI {
		t.Fatalf("expected tui to be enabled")
	}
	if cfg.ContinuationPrompt != defaultConfig().ContinuationPrompt {
		t.Fatalf("continuation prompt should keep its default, got %q", cfg.ContinuationPrompt)
	}
	if cfg.historyPath() != "" {
		t.Fatalf("empty history_file should disable history, got %q", cfg.historyPath())
	}
}

func TestLoadConfigFileRefillsEmptyPrompts(t *testing.T) {
	path := writeConfig(t, "prompt: \"\"\ncontinuation_prompt: \"\"\n")

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile failed: %v", err)
	}
	if cfg.Prompt != ">> " || cfg.ContinuationPrompt != ".. " {
		t.Fatalf("expected default prompts, got %q and %q", cfg.Prompt, cfg.ContinuationPrompt)
	}
}

func TestLoadConfigFileRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "prompt: [unclosed\n")

	_, err := loadConfigFile(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadConfigUsesEnvironmentPath(t *testing.T) {
	path := writeConfig(t, "verbose: true\n")
	t.Setenv(configEnv, path)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if !cfg.Verbose {
		t.Fatalf("expected verbose from %s", path)
	}
}

func TestHistoryPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := defaultConfig()
	if got, want := cfg.historyPath(), filepath.Join(home, ".chonk_history"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	cfg.HistoryFile = "/var/tmp/chonk"
	if got := cfg.historyPath(); got != "/var/tmp/chonk" {
		t.Fatalf("absolute path should be unchanged, got %q", got)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), defaultConfigName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
