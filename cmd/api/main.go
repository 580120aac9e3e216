package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/crucial707/recipeshare/internal/config"
	"github.com/crucial707/recipeshare/internal/db"
	"github.com/crucial707/recipeshare/internal/media"
)

func main() {

	// Load configuration
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	// Refuse to start in prod with the default signing secret
	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set to a non-default value when ENV=prod")
	}

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	// Apply pending schema migrations
	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Image store: one backend for the process lifetime
	store, err := newMediaStore(cfg)
	if err != nil {
		log.Fatalf("Failed to set up media store: %v", err)
	}

	r := newRouter(database, cfg, store)

	// Start server LAST
	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

func newMediaStore(cfg config.Config) (media.Store, error) {
	if cfg.MediaBackend == "s3" {
		return media.NewS3Store(context.Background(), media.S3Options{
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			PublicBase: cfg.S3PublicURL,
			Timeout:    time.Duration(cfg.UploadTimeoutSec) * time.Second,
		})
	}
	return media.NewDiskStore(cfg.UploadDir, cfg.PublicBaseURL)
}
