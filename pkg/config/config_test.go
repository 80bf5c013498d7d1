package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agenthands/thorn/pkg/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thorn.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "prompt: \"> \"\ntrace: true\nmax_stack: 64\nbanner: false\nsource_root: /srv/thorn\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Prompt != "> " || !cfg.Trace || cfg.MaxStack != 64 || cfg.Banner || cfg.SourceRoot != "/srv/thorn" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ContinuationPrompt != ">> " {
		t.Errorf("default continuation prompt lost: %q", cfg.ContinuationPrompt)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *config.Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"UnknownKey", "colour: red\n", "parse"},
		{"BadType", "max_stack: lots\n", "parse"},
		{"Negative", "max_stack: -1\n", "max_stack must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	if cfg.Prompt != "thorn > " {
		t.Errorf("expected default prompt, got %q", cfg.Prompt)
	}
}

func TestHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Default()
	if got := cfg.HistoryPath(); got != filepath.Join(home, ".thorn_history") {
		t.Errorf("unexpected history path %q", got)
	}

	cfg.HistoryFile = ""
	if got := cfg.HistoryPath(); got != "" {
		t.Errorf("expected disabled history, got %q", got)
	}
}
