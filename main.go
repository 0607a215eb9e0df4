package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/digimidich/fmp-query-ai/config"
	"github.com/digimidich/fmp-query-ai/filemaker"
	"github.com/digimidich/fmp-query-ai/handler"
	"github.com/digimidich/fmp-query-ai/logging"
	"github.com/digimidich/fmp-query-ai/mcptools"
	"github.com/digimidich/fmp-query-ai/resolver"
	"github.com/digimidich/fmp-query-ai/translator"
	"github.com/sirupsen/logrus"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	config.ParseArgs()
	if config.CliArgs.Version {
		fmt.Println(version)
		os.Exit(0)
	}
	log := logging.GetLogger()

	if err := config.LoadDotEnv(config.CliArgs.EnvFile); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}
	cfg, err := config.Load(config.CliArgs.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := logging.ParseLevel(cfg.Log.Level)
	if config.CliArgs.Debug {
		level = logrus.DebugLevel
	}
	logging.InitLogger(logging.Options{Level: level, File: cfg.Log.File})
	if cfg.Log.File != "" {
		log.Infof("File logging enabled at %s", cfg.Log.File)
	}

	relay := filemaker.NewClient(cfg.FileMaker)
	if err := relay.CheckCredentials(); err != nil {
		log.Warnf("%v: /api/filemaker will answer 500 until it is set", err)
	} else if cfg.FileMaker.UsesDeprecatedAuth() {
		log.Warn("FM_AUTH_B64 is deprecated, set FM_USERNAME and FM_PASSWORD instead")
	}

	// Translation is optional: without a key, free-text queries get a 400.
	var tr resolver.Translator
	var completer mcptools.Completer
	if t, err := translator.New(cfg.OpenAI); err != nil {
		log.Warnf("%v: free-text queries are disabled", err)
	} else {
		tr = t
		completer = t
		log.Infof("Query translation enabled (model=%s)", cfg.OpenAI.Model)
	}

	// MCP mode speaks JSON-RPC on stdout; logs already go to stderr.
	if config.CliArgs.MCP {
		log.Info("Server starting (MCP, stdio mode).")
		err := mcptools.ServeStdio(mcptools.NewServer(version, resolver.New(tr), relay, completer))
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("MCP server failed: %v", err)
		}
		log.Info("Server stopped.")
		return
	}

	httpHandler := handler.NewHTTPHandler(cfg, resolver.New(tr), relay)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Listening on %s (upstream %s, origin %s)", cfg.Addr(), cfg.FileMaker.ScriptURL, cfg.AllowedOrigin)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down…")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	log.Info("Server stopped.")
}
