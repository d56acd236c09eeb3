package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, FeedMemory, cfg.Feed.Driver)
	require.Equal(t, 5*time.Minute, cfg.Confetti.Retention)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "retro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
feed:
  driver: redis
  redis:
    addr: redis:6379
confetti:
  retention: 2m
`), 0o600))

	t.Setenv("RETRO_CONFIG_PATH", path)
	t.Setenv("RETRO_SERVER_PORT", "9100")
	t.Setenv("RETRO_REDIS_DB", "3")
	t.Setenv("RETRO_MCP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, FeedRedis, cfg.Feed.Driver)
	require.Equal(t, "redis:6379", cfg.Feed.Redis.Addr)
	require.Equal(t, 3, cfg.Feed.Redis.DB)
	require.Equal(t, 2*time.Minute, cfg.Confetti.Retention)
	require.False(t, cfg.MCP.Enabled)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RETRO_DB_PATH=from-dotenv.db\nRETRO_LOG_LEVEL=debug\n"), 0o600))

	t.Setenv("RETRO_DB_PATH", "from-env.db")
	// Registers cleanup so the value loaded from .env does not leak.
	t.Setenv("RETRO_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("RETRO_LOG_LEVEL"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	cases := map[string]string{
		"RETRO_SERVER_PORT":        "eighty",
		"RETRO_REDIS_DB":           "zero",
		"RETRO_CONFETTI_RETENTION": "soon",
		"RETRO_MCP_ENABLED":        "maybe",
		"RETRO_FEED_DRIVER":        "kafka",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
