package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Yaml file with defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "smartlock.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"dsn: user:pass@tcp(localhost:3306)/smartlock?parseTime=true\n"+
				"signingSecret: c2VjcmV0\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:8090", cfg.Listen)
		assert.Equal(t, 10, cfg.MaxConnections)
		assert.Equal(t, 256, cfg.AuditQueueDepth)
		assert.Equal(t, "c2VjcmV0", cfg.SigningSecret)
	})

	t.Run("Env overrides file", func(t *testing.T) {
		t.Setenv("DSN", "env-dsn")
		t.Setenv("SMARTLOCK_SIGNING_SECRET", "env-secret")
		t.Setenv("LISTEN", "127.0.0.1:9000")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "env-dsn", cfg.DSN)
		assert.Equal(t, "env-secret", cfg.SigningSecret)
		assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	})

	t.Run("Missing dsn fails", func(t *testing.T) {
		t.Setenv("DSN", "")
		t.Setenv("SMARTLOCK_SIGNING_SECRET", "")
		_, err := Load("")
		assert.Error(t, err)
	})
}
