// Package config loads interpreter settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is looked up in the user's home directory by LoadDefault.
const FileName = ".thorn.yml"

// Config holds the settings shared by the REPL and the file runner.
type Config struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation_prompt"`
	HistoryFile        string `yaml:"history_file"`
	// Banner is printed only when the REPL reads from a terminal.
	Banner         bool `yaml:"banner"`
	Trace          bool `yaml:"trace"`
	MaxStack       int  `yaml:"max_stack"`
	MaxSourceBytes int  `yaml:"max_source_bytes"`
	// SourceRoot, when set, confines run and tokens to files beneath it.
	SourceRoot string `yaml:"source_root"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:             "thorn > ",
		ContinuationPrompt: ">> ",
		HistoryFile:        "~/.thorn_history",
		Banner:             true,
		MaxSourceBytes:     8 * 1024 * 1024,
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values; unknown keys are rejected.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault reads ~/.thorn.yml when it exists and falls back to Default.
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	path := filepath.Join(home, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

// HistoryPath expands a leading ~ in HistoryFile. It returns "" when history
// is disabled.
func (c *Config) HistoryPath() string {
	p := c.HistoryFile
	if len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}

func (c *Config) validate() error {
	if c.MaxStack < 0 {
		return fmt.Errorf("max_stack must not be negative, got %d", c.MaxStack)
	}
	if c.MaxSourceBytes < 0 {
		return fmt.Errorf("max_source_bytes must not be negative, got %d", c.MaxSourceBytes)
	}
	return nil
}
