package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"API_KEY", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_STREAM", "PORT", "STATIC_DIR",
	"CORS_ALLOW_ORIGIN", "MAX_BODY_BYTES", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv はテスト終了時に元へ戻る形で設定用の環境変数を空にします
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "gemini-2.5-flash-image", cfg.Model)
	assert.False(t, cfg.Stream)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.StaticDir)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.Equal(t, int64(20<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 5*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("GEMINI_STREAM", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_BODY_BYTES", "1024")
	t.Setenv("WRITE_TIMEOUT", "2m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "gemini-test", cfg.Model)
	assert.True(t, cfg.Stream)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, int64(1024), cfg.MaxBodyBytes)
	assert.Equal(t, 2*time.Minute, cfg.WriteTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.NotNil(t, cfg.NewLogger())
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv は既に定義済みの変数を上書きしないため、対象のキーは未定義にしておく
	require.NoError(t, os.Unsetenv("GEMINI_MODEL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GEMINI_MODEL=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GEMINI_MODEL") })

	cfg := Load(path)
	assert.Equal(t, "from-dotenv", cfg.Model)
}

func TestAPIKey(t *testing.T) {
	t.Run("未設定なら空", func(t *testing.T) {
		clearEnv(t)
		assert.Empty(t, APIKey())
	})

	t.Run("GEMINI_API_KEY にフォールバックする", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "fallback")
		assert.Equal(t, "fallback", APIKey())
	})

	t.Run("API_KEY を優先し、毎回読み直す", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "fallback")
		t.Setenv("API_KEY", "primary")
		assert.Equal(t, "primary", APIKey())

		t.Setenv("API_KEY", "rotated")
		assert.Equal(t, "rotated", APIKey())
	})
}
