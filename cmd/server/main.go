package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tuanvm/smartdebt/internal/advice"
	"github.com/tuanvm/smartdebt/internal/config"
	"github.com/tuanvm/smartdebt/internal/server"
	"github.com/tuanvm/smartdebt/internal/storage/firestore"
	"github.com/tuanvm/smartdebt/internal/storage/localdb"
	"github.com/tuanvm/smartdebt/internal/syncer"
	"github.com/tuanvm/smartdebt/pkg/logging"
)

const startupTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Local store first; it is the always-available fallback.
	local, err := localdb.Open(cfg.Local.Path)
	if err != nil {
		slog.Error("Failed to open local store", "error", err, "path", cfg.Local.Path)
		os.Exit(1)
	}
	defer local.Close()
	slog.Info("Local store ready", "path", cfg.Local.Path)

	var cloud syncer.CloudStore
	if cfg.CloudConfigured() {
		fsStore, err := firestore.New(ctx, cfg.Firestore.ProjectID, cfg.Firestore.CredentialsFile, cfg.Firestore.Collection)
		if err != nil {
			slog.Error("Failed to create Firestore client, continuing with local storage", "error", err)
		} else {
			cloud = fsStore
			defer fsStore.Close()
			slog.Info("Firestore configured",
				"project", cfg.Firestore.ProjectID, "collection", cfg.Firestore.Collection)
		}
	} else {
		slog.Info("Firestore not configured, running local-only")
	}

	ctrl := syncer.New(cloud, local)
	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	err = ctrl.Start(startCtx)
	cancelStart()
	if err != nil {
		slog.Error("Failed to start synchronization", "error", err)
		os.Exit(1)
	}
	defer ctrl.Close()
	slog.Info("Synchronization started", "source", ctrl.Authority().String(), "debts", len(ctrl.Debts()))

	var adviceClient *advice.Client
	if cfg.AdviceConfigured() {
		adviceClient, err = advice.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			slog.Warn("Advice service unavailable, insights will answer with the fallback", "error", err)
			adviceClient = nil
		}
	} else {
		slog.Info("Gemini not configured, insights will answer with the fallback")
	}

	api := server.New(ctrl, adviceClient)
	r := api.Routes()
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(staticHandler(cfg.Server.StaticPath))

	handler := server.Logging(server.CORS(r))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: handler}

	go func() {
		slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// staticHandler serves the frontend build with SPA-style fallback:
// unknown paths get index.html so client-side routing works.
func staticHandler(staticPath string) http.HandlerFunc {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err, "path", staticPath)
		staticDir = staticPath
	}

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}
