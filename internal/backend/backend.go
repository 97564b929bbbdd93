// Package backend opens the storage backend named in the configuration.
package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/vitalitypact/vitalitypact/internal/pgstore"
	"github.com/vitalitypact/vitalitypact/internal/platform"
	"github.com/vitalitypact/vitalitypact/internal/platform/logger"
	"github.com/vitalitypact/vitalitypact/internal/store"
	"github.com/vitalitypact/vitalitypact/pkg/config"
)

// Opened is a ready backend plus whatever must be released on shutdown.
type Opened struct {
	Backend store.Backend
	Name    string
	closers []io.Closer
}

// Close releases connections held by the backend.
func (o *Opened) Close() error {
	var first error
	for _, c := range o.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open builds the backend selected by cfg.Backend. retentionDays bounds
// the stored history.
func Open(ctx context.Context, cfg config.StorageConfig, retentionDays int, log *logger.Logger) (*Opened, error) {
	if log == nil {
		log = logger.Nop()
	}
	opened := &Opened{Name: cfg.Backend}

	var blobs store.BlobStore
	switch cfg.Backend {
	case "", "local":
		opened.Name = "local"
		dir := cfg.Dir
		if dir == "" {
			dir = config.DataDir()
		}
		blobs = store.NewLocalStorage(dir)
		log.Debug("using local storage", "dir", dir)

	case "s3":
		s3, err := store.NewS3Storage(ctx, store.S3Config{
			Bucket:   cfg.Bucket,
			Prefix:   cfg.Prefix,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 storage: %w", err)
		}
		blobs = s3
		log.Debug("using s3 storage", "bucket", cfg.Bucket, "prefix", cfg.Prefix)

	case "gcs":
		gcs, err := store.NewGCSStorage(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("open gcs storage: %w", err)
		}
		blobs = gcs
		opened.closers = append(opened.closers, gcs)
		log.Debug("using gcs storage", "bucket", cfg.Bucket, "prefix", cfg.Prefix)

	case "redis":
		rds, err := store.NewRedisStorage(ctx, cfg.RedisAddr, cfg.Prefix)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		blobs = rds
		opened.closers = append(opened.closers, rds)
		log.Debug("using redis storage", "addr", cfg.RedisAddr)

	case "postgres":
		db, err := platform.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := platform.AutoMigrate(db); err != nil {
			db.Close()
			return nil, err
		}
		opened.Backend = pgstore.NewService(db, pgstore.WithRetentionDays(retentionDays))
		opened.closers = append(opened.closers, db)
		log.Debug("using postgres storage")
		return opened, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	opened.Backend = store.NewProvider(blobs, store.WithRetentionDays(retentionDays))
	return opened, nil
}
