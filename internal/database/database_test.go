package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/config"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database in nested directory", dbPath: filepath.Join(t.TempDir(), "nested", "test.db")},
		{name: "empty path falls back to memory", dbPath: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			defer db.Close()

			assert.Equal(t, "sqlite", db.Driver())
			assert.NoError(t, db.HealthCheck())
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
		require.NoError(t, err)
		defer db.Close()
		assert.NoError(t, db.HealthCheck())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(config.DatabaseConfig{Driver: "oracle"})
		assert.Error(t, err)
	})
}

func TestMigrate(t *testing.T) {
	db, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
}

func TestHealthCheck_Nil(t *testing.T) {
	var db *DB
	assert.Error(t, db.HealthCheck())
}
