// Package main runs AgriLens Core standalone: the offline capture queue and
// its background sync loop. In the mobile app the same packages are embedded
// as a library; this binary exists for development and headless deployments.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/agrilens/backend/internal/config"
	"github.com/agrilens/backend/internal/kv"
	"github.com/agrilens/backend/internal/logging"
	"github.com/agrilens/backend/internal/queue"
	"github.com/agrilens/backend/internal/remote"
)

// Version is set at build time
var Version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	logger, err := logging.New(cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Infof("AgriLens Core v%s starting", Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store kv.Store
	switch cfg.Store.Backend {
	case "memory":
		store = kv.NewMemoryStore()
	default:
		sqlStore, err := kv.Open(cfg.App.DataDir)
		if err != nil {
			logger.Fatalf("open store: %v", err)
		}
		store = sqlStore
	}
	defer store.Close()

	var blobs remote.BlobStore
	if cfg.AWS.Bucket != "" {
		uploader, err := remote.NewS3Uploader(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
		if err != nil {
			logger.Fatalf("init s3 uploader: %v", err)
		}
		blobs = uploader
	}

	analysis := remote.NewAnalysisClient(cfg.Analysis.Endpoint, cfg.Analysis.APIKey)
	processor := remote.NewProcessor(analysis, blobs, logger)

	svc := queue.NewService(store, processor, &queue.Config{
		UploadTimeout: cfg.UploadTimeout,
		Logger:        logger,
	})
	if err := svc.Init(ctx); err != nil {
		logger.Fatalf("init queue service: %v", err)
	}

	sched := queue.NewScheduler(svc, cfg.SyncInterval, logger)
	if cfg.Sync.StartupSync {
		sched.Start(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown requested")
	sched.Stop()
	logger.Info("shutdown completed")
}
