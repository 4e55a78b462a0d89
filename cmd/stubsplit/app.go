package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"stubsplit/internal/config"
	"stubsplit/internal/crawler"
	"stubsplit/internal/extractor"
	"stubsplit/internal/logging"
	"stubsplit/internal/pipeline"
	"stubsplit/internal/storage"
)

// app holds everything a subcommand needs.
type app struct {
	cfg     *config.Config
	runner  *pipeline.Runner
	crawler *crawler.Crawler
	logger  *slog.Logger
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// initApp loads config, applies flag overrides and wires the runner.
func initApp(opts *options) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.stubRoot != "" {
		cfg.Project.StubRoot = opts.stubRoot
	}
	if opts.docRoot != "" {
		cfg.Project.DocRoot = opts.docRoot
	}
	if opts.dbPath != "" {
		cfg.Journal.Path = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if opts.noStrict {
		cfg.Check.Strict = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, logCleanup, err := logging.Setup(cfg.Log.File, level)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, closers: []func(){logCleanup}}

	ext, err := extractor.NewExtractor("python")
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	a.runner = &pipeline.Runner{
		StubRoot:   cfg.Project.StubRoot,
		DocRoot:    cfg.Project.DocRoot,
		CreateDirs: cfg.Project.CreateDirs,
		Strict:     cfg.Check.Strict,
		Checker:    ext,
		Logger:     logger,
	}

	if cfg.Journal.Enabled {
		store, err := storage.NewSQLiteStore(cfg.Journal.Path)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to open journal %s: %w", cfg.Journal.Path, err)
		}
		a.runner.Journal = store
		a.closers = append(a.closers, func() { _ = store.Close() })
	}

	a.crawler = crawler.NewCrawler(cfg.Scan.Extensions, cfg.Scan.Ignore)
	return a, nil
}

// targets returns the files named on the command line, or discovers them.
func (a *app) targets(ctx context.Context, args []string, since string) ([]string, error) {
	if len(args) > 0 {
		rels := make([]string, len(args))
		for i, arg := range args {
			rels[i] = filepath.ToSlash(filepath.Clean(arg))
		}
		return rels, nil
	}
	return a.runner.Discover(ctx, a.crawler, since)
}
