package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/api"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	url := flag.String("url", "", "base URL of a running LiftLog server (remote mode)")
	configPath := flag.String("config", "", "path to config file (local database mode)")
	flag.Parse()

	// stdout carries the MCP stdio transport; logs go to stderr
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	switch {
	case *url != "":
		ds = api.New(*url, log)
		log.Info("remote mode", "url", *url)
	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		if !cfg.Database.Set() {
			log.Error("database config required in local mode")
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("local mode", "database", cfg.Database.Name)
		ds = db
	default:
		log.Error("either -url or -config is required")
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)

	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
