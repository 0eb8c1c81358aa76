package main

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/odtreader/internal/config"
	"github.com/hyperjump/odtreader/internal/fileid"
	"github.com/hyperjump/odtreader/internal/odt"
)

func TestSplitTargets(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		dumpFirst bool
		want      []target
	}{
		{"plain files", []string{"a", "b"}, false, []target{{"a", false}, {"b", false}}},
		{"dump applies to next file only", []string{"a", "-c", "b", "c"}, false,
			[]target{{"a", false}, {"b", true}, {"c", false}}},
		{"leading flag", []string{"a", "b"}, true, []target{{"a", true}, {"b", false}}},
		{"trailing flag ignored", []string{"a", "-c"}, false, []target{{"a", false}}},
		{"repeated flag", []string{"-c", "-c", "a"}, false, []target{{"a", true}}},
		{"empty", nil, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitTargets(tt.args, tt.dumpFirst)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTargets(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestExtractOptions(t *testing.T) {
	base := odt.Options{Normalize: true, ParagraphTerminator: "\n"}

	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	normalize := fs.Bool("normalize", true, "")
	paragraph := fs.String("paragraph", "", "")
	lineBreak := fs.String("line-break", "", "")
	if err := fs.Parse([]string{"-normalize=false", "-paragraph", `\r\n`}); err != nil {
		t.Fatal(err)
	}
	got := extractOptions(fs, base, *normalize, *paragraph, *lineBreak)
	want := odt.Options{Normalize: false, ParagraphTerminator: "\r\n", LineBreakTerminator: "\r\n"}
	if got != want {
		t.Errorf("extractOptions = %+v, want %+v", got, want)
	}

	// Unset flags keep the configured values
	fs2 := flag.NewFlagSet("extract", flag.ContinueOnError)
	n2 := fs2.Bool("normalize", true, "")
	p2 := fs2.String("paragraph", "", "")
	l2 := fs2.String("line-break", "", "")
	_ = fs2.Parse(nil)
	cfgBase := odt.Options{Normalize: false, ParagraphTerminator: "¶", LineBreakTerminator: "↵"}
	if got := extractOptions(fs2, cfgBase, *n2, *p2, *l2); got != cfgBase {
		t.Errorf("extractOptions without flags = %+v, want %+v", got, cfgBase)
	}
}

func TestExtractOptions_configuredDefaults(t *testing.T) {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	normalize := fs.Bool("normalize", true, "")
	paragraph := fs.String("paragraph", "", "")
	lineBreak := fs.String("line-break", "", "")
	if err := fs.Parse([]string{"-paragraph", `\r\n`}); err != nil {
		t.Fatal(err)
	}
	got := extractOptions(fs, cfg.Extraction.Options(), *normalize, *paragraph, *lineBreak)
	if got.ParagraphTerminator != "\r\n" || got.LineBreakTerminator != "\r\n" {
		t.Errorf("terminators = %q / %q, want both \"\\r\\n\"", got.ParagraphTerminator, got.LineBreakTerminator)
	}
}

func TestDumpOptions(t *testing.T) {
	opts := dumpOptions()
	if opts.Normalize || opts.ParagraphTerminator == opts.LineBreakTerminator {
		t.Errorf("dumpOptions = %+v", opts)
	}
}

func TestResolveID(t *testing.T) {
	for _, id := range []string{"file:abc", fileid.NewUploadID()} {
		got, err := resolveID(id)
		if err != nil || got != id {
			t.Errorf("resolveID(%q) = %q, %v", id, got, err)
		}
	}
	dir := t.TempDir()
	got, err := resolveID(filepath.Join(dir, "form"))
	if err != nil {
		t.Fatal(err)
	}
	if want := fileid.FromPath(filepath.Join(dir, "form.odt")); got != want {
		t.Errorf("resolveID(path) = %q, want %q", got, want)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
extraction:
  paragraph_terminator: '\r\n'
storage:
  database_path: "./test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
	if got := cfg.Extraction.Options().ParagraphTerminator; got != "\r\n" {
		t.Errorf("paragraph terminator = %q", got)
	}
}

func TestLoadConfig_defaultsWhenNoFile(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("a config file is installed at the default path")
	}
	chdir(t, t.TempDir())

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Server.Port != 8080 || !cfg.Extraction.NormalizeOrDefault() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfig_envFileOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, envFile), []byte("ODTREADER_NORMALIZE=false\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("ODTREADER_NORMALIZE") })
	configPath := filepath.Join(dir, "explicit.yaml")
	if err := os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Extraction.NormalizeOrDefault() {
		t.Error("normalize should be disabled by .env")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_missingExplicitPath(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read config") {
		t.Errorf("err = %v", err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
}
