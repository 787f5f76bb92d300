package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8082", cfg.HTTPPort)
		assert.Equal(t, StoragePostgres, cfg.Storage)
		assert.Equal(t, AuthModeJWT, cfg.AuthMode)
		assert.Equal(t, 30*time.Second, cfg.AuthLeeway)
		assert.Equal(t, 100, cfg.RelayBatchSize)
	})

	t.Run("should read the environment", func(t *testing.T) {
		t.Setenv("ESCROW_STORAGE", "memory")
		t.Setenv("ESCROW_AUTH_MODE", "insecure")
		t.Setenv("ESCROW_AUTH_LEEWAY", "5s")
		t.Setenv("ESCROW_DB_PORT", "6543")
		t.Setenv("ESCROW_JOURNAL_PATH", "/tmp/journal.db")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.Equal(t, AuthModeInsecure, cfg.AuthMode)
		assert.Equal(t, 5*time.Second, cfg.AuthLeeway)
		assert.Equal(t, 6543, cfg.Database().Port)
		assert.Equal(t, "/tmp/journal.db", cfg.JournalPath)
	})

	t.Run("should reject an unknown storage", func(t *testing.T) {
		t.Setenv("ESCROW_STORAGE", "redis")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "ESCROW_STORAGE")
	})

	t.Run("should reject an unknown auth mode", func(t *testing.T) {
		t.Setenv("ESCROW_AUTH_MODE", "none")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "ESCROW_AUTH_MODE")
	})

	t.Run("should reject a malformed port", func(t *testing.T) {
		t.Setenv("ESCROW_DB_PORT", "five")
		_, err := LoadConfig()
		require.Error(t, err)
	})
}
