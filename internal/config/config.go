// Package config provides configuration loading and structs for odtreader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/odtreader/internal/odt"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Batch      BatchConfig      `yaml:"batch"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ExtractionConfig holds text rendering settings.
// Terminators accept the escapes \n, \r, \t and \\ so they can be written in
// single-quoted YAML or environment variables.
type ExtractionConfig struct {
	Normalize           *bool  `yaml:"normalize"`
	ParagraphTerminator string `yaml:"paragraph_terminator"`
	LineBreakTerminator string `yaml:"line_break_terminator"`
}

// NormalizeOrDefault returns whether to fold special spaces and quotes; defaults to true when unset.
func (e *ExtractionConfig) NormalizeOrDefault() bool {
	if e.Normalize != nil {
		return *e.Normalize
	}
	return true
}

// Options converts the section into rendering options. An unset line break
// terminator stays empty so it follows whatever paragraph terminator is
// finally chosen.
func (e *ExtractionConfig) Options() odt.Options {
	return odt.Options{
		Normalize:           e.NormalizeOrDefault(),
		ParagraphTerminator: DecodeTerminator(e.ParagraphTerminator),
		LineBreakTerminator: DecodeTerminator(e.LineBreakTerminator),
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxUploadBytes limits the size of documents posted to the API.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// StorageConfig holds the extraction database and the optional text output directory.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	OutputDir    string `yaml:"output_dir"`
}

// BatchConfig holds directory extraction settings.
type BatchConfig struct {
	Workers    int      `yaml:"workers"`
	Extensions []string `yaml:"extensions"`
	Recursive  *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to descend into subdirectories; defaults to true when unset.
func (b *BatchConfig) RecursiveOrDefault() bool {
	if b.Recursive != nil {
		return *b.Recursive
	}
	return true
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Storage.OutputDir != "" {
		cfg.Storage.OutputDir = expandPath(cfg.Storage.OutputDir, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DecodeTerminator turns the escapes \n, \r, \t and \\ into the characters they name.
func DecodeTerminator(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return terminatorEscapes.Replace(s)
}

var terminatorEscapes = strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
