package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
extraction:
  normalize: false
  paragraph_terminator: "\r\n"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	opts := cfg.Extraction.Options().Resolved()
	if opts.Normalize {
		t.Error("normalize should be false when set in config")
	}
	if opts.ParagraphTerminator != "\r\n" || opts.LineBreakTerminator != "\r\n" {
		t.Errorf("terminators: got %q / %q", opts.ParagraphTerminator, opts.LineBreakTerminator)
	}
}

func TestExtractionOptions_lineBreakUnset(t *testing.T) {
	e := ExtractionConfig{ParagraphTerminator: `\n`}
	opts := e.Options()
	if opts.LineBreakTerminator != "" {
		t.Errorf("line break terminator should stay unset, got %q", opts.LineBreakTerminator)
	}
	opts.ParagraphTerminator = "\r\n"
	if got := opts.Resolved().LineBreakTerminator; got != "\r\n" {
		t.Errorf("resolved line break terminator: got %q", got)
	}
}

func TestLoad_singleQuotedEscapes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
extraction:
  paragraph_terminator: '\n'
  line_break_terminator: '\r'
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.Extraction.Options()
	if opts.ParagraphTerminator != "\n" || opts.LineBreakTerminator != "\r" {
		t.Errorf("terminators: got %q / %q", opts.ParagraphTerminator, opts.LineBreakTerminator)
	}
	if !opts.Normalize {
		t.Error("normalize should default to true")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/extractions.db"
  output_dir: "./out"
watch:
  directories: ["./forms"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "extractions.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	if cfg.Storage.OutputDir != filepath.Join(dir, "out") {
		t.Errorf("output_dir = %s", cfg.Storage.OutputDir)
	}
	if len(cfg.Watch.Directories) != 1 || cfg.Watch.Directories[0] != filepath.Join(dir, "forms") {
		t.Errorf("watch directories: got %v", cfg.Watch.Directories)
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("default workers: got %d", cfg.Batch.Workers)
	}
	if len(cfg.Batch.Extensions) != 1 || cfg.Batch.Extensions[0] != ".odt" {
		t.Errorf("batch extensions: got %v", cfg.Batch.Extensions)
	}
	if !cfg.Batch.RecursiveOrDefault() {
		t.Error("batch should be recursive by default")
	}
	if cfg.Watch.Recursive != nil {
		t.Error("watch recursive should stay unset without directories")
	}
}

func TestApplyDefaults_WatchRecursiveWhenDirectoriesSet(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Directories: []string{"/tmp/docs"}}}
	ApplyDefaults(cfg)
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestDecodeTerminator(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"\n", "\n"},
		{`\n`, "\n"},
		{`\r\n`, "\r\n"},
		{`\t`, "\t"},
		{`\\n`, `\n`},
		{"<br>", "<br>"},
	}
	for _, tt := range tests {
		if got := DecodeTerminator(tt.in); got != tt.want {
			t.Errorf("DecodeTerminator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	f := false
	cfg := &Config{
		Server:     ServerConfig{Host: "localhost", Port: 9090},
		Storage:    StorageConfig{DatabasePath: "/tmp/db"},
		Extraction: ExtractionConfig{Normalize: &f},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Extraction.NormalizeOrDefault() {
		t.Error("normalize should round-trip as false")
	}
}
