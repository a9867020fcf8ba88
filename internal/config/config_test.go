package config_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/outlay/internal/config"
)

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.App.Port)
		assert.Equal(t, 168*time.Hour, cfg.Auth.Expire)
		assert.Equal(t, time.Hour, cfg.Currency.CacheTTL)
		assert.Equal(t, "postgres://postgres:@localhost:5432/outlay?sslmode=disable", cfg.ConnectionString())
	})

	t.Run("MissingSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		require.NoError(t, os.Unsetenv("JWT_SECRET"))

		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestConfig_LogHandler(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	h := cfg.LogHandler()

	_, ok := h.(*slog.JSONHandler)
	assert.True(t, ok)
	assert.True(t, h.Enabled(t.Context(), slog.LevelDebug))

	cfg.Log.Level = "nonsense"
	cfg.Log.Format = "text"

	h = cfg.LogHandler()
	assert.False(t, h.Enabled(t.Context(), slog.LevelDebug))
}
