package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfredjeanlab/marketmaps/internal/backup"
	"github.com/alfredjeanlab/marketmaps/internal/config"
	"github.com/alfredjeanlab/marketmaps/internal/events"
	"github.com/alfredjeanlab/marketmaps/internal/server"
	"github.com/alfredjeanlab/marketmaps/internal/store"
	"github.com/alfredjeanlab/marketmaps/internal/store/memory"
	"github.com/alfredjeanlab/marketmaps/internal/store/mongo"
	"github.com/alfredjeanlab/marketmaps/internal/store/postgres"
	"github.com/alfredjeanlab/marketmaps/internal/store/s3store"
	"github.com/spf13/cobra"
)

// shutdownTimeout is the time given for outstanding requests to finish.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the market map HTTP server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Override PersistentPreRunE so we don't build an HTTP client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the configured store.
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		logger.Info("store opened", "store", cfg.Store)

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (MAPS_NATS_URL not set)")
		}

		mapsServer := server.NewMapsServer(st, publisher, logger, server.Options{
			IDLength:     cfg.IDLength,
			MaxBodyBytes: cfg.MaxBodyBytes,
		})
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           mapsServer.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Start backup replication if any destinations are configured.
		replicator, backupSub := startBackup(cmd.Context(), cfg, st, logger)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		// Wait for SIGINT or SIGTERM, or a listener failure.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		var serveErr error
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
		case serveErr = <-errCh:
			logger.Error("HTTP server error", "err", serveErr)
		}

		// Graceful shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if replicator != nil {
			replicator.Stop()
			backupSub.Close()
			logger.Info("backup replicator stopped")
		}

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return serveErr
	},
}

// startBackup builds the configured backup destinations and starts a
// replicator fed from NATS. It returns nils when backups are disabled or
// could not be started; backup problems never stop the server.
func startBackup(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) (*backup.Replicator, *events.NATSSubscriber) {
	if !cfg.BackupEnabled() {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var dests []backup.Destination
	if cfg.BackupS3Bucket != "" {
		s3Dest, err := backup.NewS3Destination(ctx, cfg.BackupS3Bucket, cfg.BackupS3Prefix, cfg.BackupS3Region, cfg.BackupS3Endpoint)
		if err != nil {
			logger.Error("failed to create S3 backup destination", "err", err)
		} else {
			dests = append(dests, s3Dest)
			logger.Info("backup S3 destination enabled", "bucket", cfg.BackupS3Bucket, "prefix", cfg.BackupS3Prefix)
		}
	}
	if cfg.BackupGitRepo != "" {
		dests = append(dests, backup.NewGitDestination(cfg.BackupGitRepo, cfg.BackupGitDir, cfg.BackupGitBranch))
		logger.Info("backup git destination enabled", "repo", cfg.BackupGitRepo, "dir", cfg.BackupGitDir)
	}
	if len(dests) == 0 {
		return nil, nil
	}

	sub, err := events.NewNATSSubscriber(cfg.NATSURL)
	if err != nil {
		logger.Error("failed to create backup subscriber", "err", err)
		return nil, nil
	}
	r := backup.NewReplicator(st, sub, dests, logger)
	if err := r.Start(); err != nil {
		logger.Error("failed to start backup replicator", "err", err)
		sub.Close()
		return nil, nil
	}
	logger.Info("backup replicator started", "destinations", len(dests))
	return r, sub
}

// openStore connects to the backend named by cfg.Store.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch cfg.Store {
	case config.StorePostgres:
		s, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		s, err := mongo.New(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreS3:
		s, err := s3store.New(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
