package env

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("MESON_TEST_VALUE=cafecito\n"), 0o600))

	t.Setenv("ENV_PATH", "")
	t.Setenv("MESON_TEST_VALUE", "")
	os.Unsetenv("MESON_TEST_VALUE")

	require.NoError(t, LoadDotEnv(Local, path))
	assert.Equal(t, "cafecito", os.Getenv("MESON_TEST_VALUE"))

	missing := filepath.Join(dir, "missing.env")
	assert.Error(t, LoadDotEnv(Local, missing))
	assert.NoError(t, LoadDotEnv("production", missing))
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  slog.Level
	}{
		{name: "local default", env: Local, want: slog.LevelDebug},
		{name: "prod default", env: "production", want: slog.LevelInfo},
		{name: "explicit", env: "production", level: "warn", want: slog.LevelWarn},
		{name: "invalid falls back", env: "production", level: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.level)
			assert.Equal(t, tt.want, LogLevel(tt.env))
		})
	}
}
