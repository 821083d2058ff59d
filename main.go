package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/natefinch/lumberjack.v2"

	"telecast/api"
	"telecast/config"
	"telecast/handlers"
	"telecast/internal/cache"
	"telecast/services/catalog"
	"telecast/services/enrich"
)

func main() {
	configPath := flag.String("config", "", "path to the settings file (default $TELECAST_CONFIG or cache/settings.json)")
	portOverride := flag.Int("port", 0, "override server port from config")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("TELECAST_CONFIG")
	}
	if path == "" {
		path = "cache/settings.json"
	}

	cfg := config.NewManager(path)
	settings, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load settings from %s: %v", path, err)
	}

	if settings.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(settings.Log.File), 0o755); err != nil {
			log.Printf("Failed to create log directory: %v", err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
			log.SetFlags(log.LstdFlags | log.Lshortfile)
			log.Printf("Logging to file: %s", settings.Log.File)
		}
	}

	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	local, err := cache.NewLocal(settings.Cache.LocalEntries)
	if err != nil {
		log.Fatalf("Failed to create local cache: %v", err)
	}
	var shared *cache.Shared
	if settings.Cache.RedisAddr != "" {
		shared = cache.NewShared(settings.Cache.RedisAddr, settings.Cache.RedisPassword, settings.Cache.RedisDB)
		defer shared.Close()
		log.Printf("Shared cache tier enabled at %s", settings.Cache.RedisAddr)
	}
	ttl := time.Duration(settings.Cache.TTLMinutes) * time.Minute
	grace := time.Duration(settings.Cache.RefreshGraceMinutes) * time.Minute
	tiers := cache.NewLayered(local, shared, ttl)

	catalogSvc := catalog.NewService(tiers, ttl, grace)
	enrichSvc := enrich.NewService(nil)

	catalogHandler := handlers.NewCatalogHandler(cfg, catalogSvc, enrichSvc)
	streamHandler := handlers.NewStreamHandler(cfg, catalogSvc)
	epgHandler := handlers.NewEPGHandler(cfg, catalogSvc)
	adminHandler := handlers.NewAdminHandler(cfg, catalogSvc)
	settingsHandler := handlers.NewSettingsHandler(cfg)

	r := mux.NewRouter()
	api.Register(r, catalogHandler, streamHandler, epgHandler, adminHandler, settingsHandler)

	// Warm the snapshot so the first client request doesn't pay the full
	// ingestion cost. Failures are logged inside the service and the first
	// real request retries.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		catalogSvc.LoadOrRefresh(ctx, settings, false)
	}()

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	fmt.Printf("Server starting on %s\n", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
