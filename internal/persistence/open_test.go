package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-directory/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory, Namespace: "ns"}}

	backend, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, config.BackendMemory, backend.Name)
	assert.IsType(t, &MemoryKV{}, backend.KV)
}

func TestOpen_SQLiteRunsMigrations(t *testing.T) {
	cfg := &config.Config{
		Store:  config.StoreConfig{Backend: config.BackendSQLite, Namespace: "ns"},
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "dir.db")},
	}

	backend, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer backend.Close()

	require.NoError(t, backend.KV.Put(context.Background(), "staff_index", "[]"))
	_, found, err := backend.KV.Get(context.Background(), "staff_index")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "etcd"}}
	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
