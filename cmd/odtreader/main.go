// Package main is the odtreader CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/odtreader/internal/batch"
	"github.com/hyperjump/odtreader/internal/cli"
	"github.com/hyperjump/odtreader/internal/config"
	"github.com/hyperjump/odtreader/internal/extract"
	"github.com/hyperjump/odtreader/internal/fileid"
	"github.com/hyperjump/odtreader/internal/odt"
	"github.com/hyperjump/odtreader/internal/server"
	"github.com/hyperjump/odtreader/internal/storage"
	"github.com/hyperjump/odtreader/internal/watcher"
	"github.com/hyperjump/odtreader/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/odtreader/config.yaml"
	envFile           = ".env"
	// dumpFlag marks the next file for a character dump. It may appear
	// between file names, so it is handled outside the flag set.
	dumpFlag = "-c"
)

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory is preferred if present, and a missing default file
// yields the built-in defaults. Environment overrides from .env and ODTREADER_*
// are applied last. Returns the config and the path that was actually loaded
// ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	cfg, resolved, err := readConfig(path)
	if err != nil {
		return nil, "", err
	}
	if err := config.ApplyEnv(cfg, envFile); err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

func readConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "extract":
		runExtract()
	case "batch":
		runBatch()
	case "server":
		runServer()
	case "show":
		runShow()
	case "list":
		runList()
	case "delete":
		runDelete()
	case "version", "--version", "-v":
		fmt.Printf("odtreader version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// target is one file named on the extract command line.
type target struct {
	path string
	dump bool
}

// splitTargets turns the positional arguments into files. A "-c" applies to
// the file that follows it only; a trailing "-c" is ignored.
func splitTargets(args []string, dumpFirst bool) []target {
	var out []target
	dump := dumpFirst
	for _, a := range args {
		if a == dumpFlag {
			dump = true
			continue
		}
		out = append(out, target{path: a, dump: dump})
		dump = false
	}
	return out
}

// extractOptions applies the extract flags the user actually set on top of
// the configured options.
func extractOptions(fs *flag.FlagSet, base odt.Options, normalize bool, paragraph, lineBreak string) odt.Options {
	opts := base
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "normalize":
			opts.Normalize = normalize
		case "paragraph":
			opts.ParagraphTerminator = config.DecodeTerminator(paragraph)
		case "line-break":
			opts.LineBreakTerminator = config.DecodeTerminator(lineBreak)
		}
	})
	return opts.Resolved()
}

// dumpOptions renders text for a character dump: no normalization, and
// distinct terminators so paragraphs and line breaks can be told apart.
func dumpOptions() odt.Options {
	return odt.Options{ParagraphTerminator: "\n", LineBreakTerminator: "\r"}
}

func runExtract() {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dumpFirst := fs.Bool("c", false, "print the next file character by character")
	normalize := fs.Bool("normalize", true, "fold non-breaking spaces and typographic quotes to ASCII")
	paragraph := fs.String("paragraph", "", `paragraph terminator (escapes \n \r \t allowed)`)
	lineBreak := fs.String("line-break", "", `line break terminator (escapes \n \r \t allowed)`)
	output := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	targets := splitTargets(fs.Args(), *dumpFirst)
	if len(targets) == 0 {
		fmt.Println("Usage: odtreader extract [flags] [-c] <file.odt>...")
		fmt.Println("The -c option prints the file that follows it character by character.")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewCLILogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := extractOptions(fs, cfg.Extraction.Options(), *normalize, *paragraph, *lineBreak)
	ext := extract.NewExtractor(opts, extract.WithLogger(logger))
	dumpExt := ext.WithOptions(dumpOptions())

	printer := cli.NewPrinter(os.Stdout, format, len(targets) > 1)
	failed := 0
	for _, t := range targets {
		e := ext
		if t.dump {
			e = dumpExt
		}
		doc := cli.Document{Path: t.path, Dump: t.dump}
		res, err := e.Parse(t.path)
		if err != nil {
			logger.Debug("extract failed", zap.String("path", t.path), zap.Error(err))
			doc.Error = err.Error()
			failed++
		} else {
			doc.Text = res.Text
			doc.Controls = res.Controls
			rendered := e.Options().Resolved()
			doc.Paragraph = rendered.ParagraphTerminator
			doc.LineBreak = rendered.LineBreakTerminator
		}
		if err := printer.Print(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
			os.Exit(1)
		}
	}
	if err := printer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// openStorage opens the extraction database.
func openStorage(cfg *config.Config) (*storage.SQLiteStorage, error) {
	return storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
}

// newRunner builds the batch runner shared by the batch and server commands.
func newRunner(cfg *config.Config, store storage.Storage, logger *zap.Logger, debug bool) *batch.Runner {
	extOpts := []extract.ExtractorOption{}
	runOpts := []batch.RunnerOption{
		batch.WithStorage(store),
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithLogger(logger),
	}
	if debug {
		extOpts = append(extOpts, extract.WithLogger(logger))
	}
	if cfg.Storage.OutputDir != "" {
		runOpts = append(runOpts, batch.WithTextWriter(storage.NewTextWriter(cfg.Storage.OutputDir)))
	}
	ext := extract.NewExtractor(cfg.Extraction.Options(), extOpts...)
	return batch.NewRunner(ext, runOpts...)
}

func runBatch() {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	workers := fs.Int("workers", 0, "number of documents extracted at once (default from config)")
	outputDir := fs.String("output-dir", "", "also write each text to <output-dir>/<name>.txt")
	output := fs.String("output", "text", "output format: text or json")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: odtreader batch [flags] <directory>...")
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cfg.Batch.Workers = *workers
	}
	if *outputDir != "" {
		cfg.Storage.OutputDir = *outputDir
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewCLILogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := newRunner(cfg, store, logger, debugMode)
	var total batch.Summary
	for _, dir := range fs.Args() {
		sum, err := runner.ExtractDirectory(ctx, dir, cfg.Batch.Extensions, cfg.Batch.RecursiveOrDefault())
		total.Extracted += sum.Extracted
		total.Failed = append(total.Failed, sum.Failed...)
		total.Duration += sum.Duration
		if err != nil {
			fmt.Printf("Batch extraction of %s failed: %v\n", dir, err)
			os.Exit(1)
		}
	}
	if err := cli.WriteSummary(os.Stdout, total, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
	if len(total.Failed) > 0 {
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file events, extractions, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := openStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	runner := newRunner(cfg, store, logger, debugMode)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()

	var watchSvc server.WatchService
	if len(cfg.Watch.Directories) > 0 {
		watchOpts := []watcher.WatcherOption{
			watcher.WithExtensions(cfg.Batch.Extensions),
			watcher.WithRecursive(cfg.Watch.RecursiveOrDefault()),
		}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		w := watcher.NewWatcher(cfg.Watch.Directories, runner, watchOpts...)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer w.Stop()
		go func() {
			n := w.SyncExistingFiles(watchCtx)
			logger.Info("existing documents extracted", zap.Int("files", n))
		}()
		watchSvc = w
	}

	ext := extract.NewExtractor(cfg.Extraction.Options(), extract.WithLogger(logger))
	srv := server.NewServer(ext, store, cfg, logger, watchSvc)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// resolveID accepts either a stored ID or the path of an extracted file.
func resolveID(arg string) (string, error) {
	if strings.HasPrefix(arg, "file:") || fileid.IsUpload(arg) {
		return arg, nil
	}
	abs, err := filepath.Abs(extract.NormalizePath(arg))
	if err != nil {
		return "", err
	}
	return fileid.FromPath(abs), nil
}

// storeCommand parses the common flags of commands that read the database and opens it.
func storeCommand(name string, extra func(fs *flag.FlagSet)) (*flag.FlagSet, *storage.SQLiteStorage, cli.OutputFormat) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	if extra != nil {
		extra(fs)
	}
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	store, err := openStorage(cfg)
	if err != nil {
		fmt.Printf("Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	return fs, store, format
}

func runShow() {
	fs, store, format := storeCommand("show", nil)
	defer store.Close()
	if fs.NArg() < 1 {
		fmt.Println("Usage: odtreader show [flags] <id-or-path>")
		os.Exit(1)
	}
	id, err := resolveID(fs.Arg(0))
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		os.Exit(1)
	}
	ex, err := store.GetExtraction(context.Background(), id)
	if err != nil {
		fmt.Printf("Failed to get extraction: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteExtraction(os.Stdout, ex, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

func runList() {
	var offset, limit *int
	fs, store, format := storeCommand("list", func(fs *flag.FlagSet) {
		offset = fs.Int("offset", 0, "number of extractions to skip")
		limit = fs.Int("limit", 20, "number of extractions to show")
	})
	defer store.Close()
	_ = fs

	ctx := context.Background()
	items, err := store.ListExtractions(ctx, *offset, *limit)
	if err != nil {
		fmt.Printf("Failed to list extractions: %v\n", err)
		os.Exit(1)
	}
	total, err := store.CountExtractions(ctx)
	if err != nil {
		fmt.Printf("Failed to count extractions: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteExtractionList(os.Stdout, items, total, format); err != nil {
		fmt.Printf("Failed to write output: %v\n", err)
		os.Exit(1)
	}
}

func runDelete() {
	fs, store, _ := storeCommand("delete", nil)
	defer store.Close()
	if fs.NArg() < 1 {
		fmt.Println("Usage: odtreader delete [flags] <id-or-path>")
		os.Exit(1)
	}
	id, err := resolveID(fs.Arg(0))
	if err != nil {
		fmt.Printf("Invalid path: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	if _, err := store.GetExtraction(ctx, id); err != nil {
		fmt.Printf("Failed to get extraction: %v\n", err)
		os.Exit(1)
	}
	if err := store.DeleteExtraction(ctx, id); err != nil {
		fmt.Printf("Deletion failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Extraction deleted: %s\n", id)
}

func printUsage() {
	fmt.Println(`odtreader - Plain text from OpenDocument Text files

Usage:
  odtreader extract [flags] <file>...    Print the text of .odt files
  odtreader batch [flags] <dir>...       Extract every .odt under directories into the database
  odtreader server [flags]               Start the HTTP API (and the watcher when configured)
  odtreader show [flags] <id-or-path>    Show a stored extraction
  odtreader list [flags]                 List stored extractions
  odtreader delete [flags] <id-or-path>  Delete a stored extraction
  odtreader version                      Show version
  odtreader help                         Show this help

Extract Flags:
  -c                   Print the next file character by character (may be repeated before any file)
  --normalize          Fold non-breaking spaces and typographic quotes (default: true)
  --paragraph string   Paragraph terminator, escapes \n \r \t allowed (default: \n)
  --line-break string  Line break terminator (default: \n)
  --output string      Output format: text or json (default: text)
  --config string      Config file path (default: /usr/local/etc/odtreader/config.yaml)

Batch Flags:
  --workers int        Documents extracted at once (default from config, 4)
  --output-dir string  Also write <name>.txt files to this directory
  --output string      Output format: text or json

Server Flags:
  --config string    Config file path
  --debug            Enable debug logging (file events, extractions, etc.)

Examples:
  odtreader extract form.odt
  odtreader extract a.odt -c b.odt c.odt     # only b.odt is dumped
  odtreader extract --paragraph '\r\n' --normalize=false form.odt
  odtreader batch --output-dir ./txt ~/Documents/forms
  odtreader server --debug
  odtreader show ~/Documents/forms/form.odt`)
}
