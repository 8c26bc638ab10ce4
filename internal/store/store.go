// Package store provides the key-value persistence used for prediction records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/match-explainer/pkg/config"
	"github.com/stitts-dev/match-explainer/pkg/database"
)

// ErrNotFound is returned by Get when no value is stored under a key
var ErrNotFound = errors.New("key not found")

// Store is a flat key-value namespace. Values are opaque bytes; Keys returns
// every key with the given prefix in ascending lexicographic order.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// NewFromConfig opens the backend selected by STORE_BACKEND
func NewFromConfig(cfg *config.Config, logger *logrus.Logger) (Store, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case "", "file":
		logger.WithField("dir", cfg.PredictionsDir).Info("Using file prediction store")
		return NewFileStore(cfg.PredictionsDir)
	case "redis":
		logger.Info("Using Redis prediction store")
		return NewRedisStoreFromURL(cfg.RedisURL)
	case "sqlite", "postgres":
		db, err := database.NewConnection(cfg.StoreBackend, cfg.DatabaseURL, cfg.IsDevelopment(), logger)
		if err != nil {
			return nil, err
		}
		logger.WithField("driver", cfg.StoreBackend).Info("Using SQL prediction store")
		return NewSQLStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
