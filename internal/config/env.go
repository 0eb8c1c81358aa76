package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDebug               = "ODTREADER_DEBUG"
	EnvNormalize           = "ODTREADER_NORMALIZE"
	EnvParagraphTerminator = "ODTREADER_PARAGRAPH_TERMINATOR"
	EnvLineBreakTerminator = "ODTREADER_LINE_BREAK_TERMINATOR"
	EnvDatabasePath        = "ODTREADER_DATABASE_PATH"
	EnvOutputDir           = "ODTREADER_OUTPUT_DIR"
)

// ApplyEnv loads envFiles (missing files are skipped) without overriding
// variables already set, then applies the ODTREADER_* overrides to cfg.
func ApplyEnv(cfg *Config, envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		cfg.Debug = b
	}
	if v, ok := os.LookupEnv(EnvNormalize); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvNormalize, err)
		}
		cfg.Extraction.Normalize = &b
	}
	if v, ok := os.LookupEnv(EnvParagraphTerminator); ok {
		cfg.Extraction.ParagraphTerminator = v
	}
	if v, ok := os.LookupEnv(EnvLineBreakTerminator); ok {
		cfg.Extraction.LineBreakTerminator = v
	}
	if v := os.Getenv(EnvDatabasePath); v != "" {
		cfg.Storage.DatabasePath = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Storage.OutputDir = v
	}
	return nil
}
