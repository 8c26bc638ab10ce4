package store_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/match-explainer/internal/store"
	"github.com/stitts-dev/match-explainer/pkg/config"
	"github.com/stitts-dev/match-explainer/pkg/database"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// exerciseStore runs the behavior every backend must share
func exerciseStore(t *testing.T, s store.Store) {
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, "prediction_1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, "prediction_1700000002", []byte(`{"n": 2}`)))
	require.NoError(t, s.Put(ctx, "prediction_1700000001", []byte(`{"n": 1}`)))
	require.NoError(t, s.Put(ctx, "other_1", []byte(`{"n": 0}`)))

	value, err := s.Get(ctx, "prediction_1700000001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 1}`, string(value))

	// same key overwrites
	require.NoError(t, s.Put(ctx, "prediction_1700000001", []byte(`{"n": 10}`)))
	value, err = s.Get(ctx, "prediction_1700000001")
	require.NoError(t, err)
	assert.JSONEq(t, `{"n": 10}`, string(value))

	keys, err := s.Keys(ctx, "prediction_")
	require.NoError(t, err)
	assert.Equal(t, []string{"prediction_1700000001", "prediction_1700000002"}, keys)

	all, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFileStore(t *testing.T) {
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "predictions"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "prediction_1.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "prediction_2.json"), 0o755))
	require.NoError(t, s.Put(context.Background(), "prediction_3", []byte("{}")))

	keys, err := s.Keys(context.Background(), "prediction_")
	require.NoError(t, err)
	assert.Equal(t, []string{"prediction_3"}, keys)

	_, err = os.Stat(filepath.Join(dir, "prediction_3.json"))
	assert.NoError(t, err)
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Put(context.Background(), "../escape", []byte("{}")))
	_, err = s.Get(context.Background(), "")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := store.NewRedisStore(client)
	defer s.Close()

	exerciseStore(t, s)
}

func TestRedisStoreFromURL_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	url := "redis://" + mr.Addr() + "/0"
	mr.Close()

	_, err = store.NewRedisStoreFromURL(url)
	assert.Error(t, err)
}

func TestSQLStore_SQLite(t *testing.T) {
	db, err := database.NewConnection("sqlite", filepath.Join(t.TempDir(), "predictions.db"), false, quietLogger())
	require.NoError(t, err)

	s, err := store.NewSQLStore(db)
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLStore_PrefixIsLiteral(t *testing.T) {
	db, err := database.NewConnection("sqlite", filepath.Join(t.TempDir(), "predictions.db"), false, quietLogger())
	require.NoError(t, err)
	s, err := store.NewSQLStore(db)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "predictionX1", []byte("{}")))
	require.NoError(t, s.Put(ctx, "prediction_1", []byte("{}")))

	keys, err := s.Keys(ctx, "prediction_")
	require.NoError(t, err)
	assert.Equal(t, []string{"prediction_1"}, keys)
}

func TestNewFromConfig(t *testing.T) {
	logger := quietLogger()

	t.Run("file", func(t *testing.T) {
		cfg := &config.Config{StoreBackend: "file", PredictionsDir: t.TempDir()}
		s, err := store.NewFromConfig(cfg, logger)
		require.NoError(t, err)
		assert.IsType(t, &store.FileStore{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{StoreBackend: "redis", RedisURL: "redis://" + mr.Addr()}
		s, err := store.NewFromConfig(cfg, logger)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &store.RedisStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{StoreBackend: "sqlite", DatabaseURL: filepath.Join(t.TempDir(), "p.db"), Env: "production"}
		s, err := store.NewFromConfig(cfg, logger)
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &store.SQLStore{}, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := store.NewFromConfig(&config.Config{StoreBackend: "etcd"}, logger)
		assert.Error(t, err)
	})
}
