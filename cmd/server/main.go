package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/stockroom/pkg/api"
	"github.com/hazyhaar/stockroom/pkg/chassis"
	"github.com/hazyhaar/stockroom/pkg/history"
	"github.com/hazyhaar/stockroom/pkg/inventory"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

type config struct {
	Addr         string               `yaml:"addr"`
	DataFile     string               `yaml:"data_file"`
	KeepBackup   bool                 `yaml:"keep_backup"`
	HistoryDB    string               `yaml:"history_db"`
	UploadTokens []string             `yaml:"upload_tokens"`
	CSVFormat    inventory.FormatSpec `yaml:"csv_format"`
	TLS          tlsConfig            `yaml:"tls"`
	Limits       inventory.Limits     `yaml:"limits"`
}

type tlsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "load":
		cmdLoad(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: stockroom <command>

Commands:
  serve   Start the HTTP server
  mcp     Serve the MCP tools over stdio
  load    Validate a spreadsheet and write its gob snapshot
`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)

	store := newStore(cfg)
	if ds, err := store.LoadFile(); err != nil {
		// Startup survives a missing or broken data file: queries answer
		// the "no data" reply until a valid dataset is uploaded.
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no dataset on disk yet, waiting for upload", "path", cfg.DataFile)
		} else {
			logger.Error("dataset load failed, serving without data", "path", cfg.DataFile, "error", err)
		}
	} else {
		logger.Info("dataset loaded", "source", ds.Source, "rows", ds.Len())
	}

	var hist *history.DB
	if cfg.HistoryDB != "" {
		var err error
		hist, err = history.Open(cfg.HistoryDB)
		if err != nil {
			logger.Error("failed to open upload history", "error", err)
			os.Exit(1)
		}
		defer hist.Close()
	}

	router := api.NewRouter(store, hist, cfg.Limits, cfg.UploadTokens)

	srv, err := chassis.New(chassis.Config{
		Addr:     cfg.Addr,
		TLS:      cfg.TLS.Enabled,
		CertFile: cfg.TLS.CertFile,
		KeyFile:  cfg.TLS.KeyFile,
		Handler:  router,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("chassis setup failed", "error", err)
		os.Exit(1)
	}

	// SIGHUP: hot reload the dataset from disk.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading dataset")
			if ds, err := store.LoadFile(); err != nil {
				logger.Error("reload failed, previous dataset keeps serving", "error", err)
			} else {
				logger.Info("dataset reloaded", "source", ds.Source, "rows", ds.Len())
			}
		}
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Stop(shutdownCtx)
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	// stdout carries the MCP protocol; everything else goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := loadConfig(*cfgPath, logger)

	store := newStore(cfg)
	if _, err := store.LoadFile(); err != nil {
		logger.Warn("dataset load failed, tools answer without data", "error", err)
	}

	srv := server.NewMCPServer("stockroom", "1.0.0")
	api.RegisterMCPTools(srv, store, cfg.Limits)

	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func cmdLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	source := fs.String("source", "", "spreadsheet to validate (defaults to data_file from config)")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := loadConfig(*cfgPath, logger)
	if *source != "" {
		cfg.DataFile = *source
	}

	store := inventory.NewStore(cfg.DataFile, cfg.KeepBackup, cfg.CSVFormat)
	ds, err := store.LoadFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation failed: %v\n", err)
		os.Exit(1)
	}

	snapPath := cfg.DataFile + ".gob"
	if err := inventory.SaveSnapshot(ds, snapPath); err != nil {
		fmt.Fprintf(os.Stderr, "snapshot write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %d rows OK -> %s\n", ds.Source, ds.Len(), snapPath)
}

func newStore(cfg config) *inventory.Store {
	return inventory.NewStore(cfg.DataFile, cfg.KeepBackup, cfg.CSVFormat)
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:      ":8421",
		DataFile:  "warehouse.xlsx",
		HistoryDB: "uploads.db",
		Limits:    inventory.DefaultLimits(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
