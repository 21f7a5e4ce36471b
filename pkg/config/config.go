package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shouni/gemini-nail-kit/pkg/generator"
	"github.com/shouni/gemini-nail-kit/pkg/utils"
)

const (
	DefaultPort            = "8080"
	DefaultCORSAllowOrigin = "*"
	DefaultMaxBodyBytes    = 20 << 20
	DefaultWriteTimeout    = 5 * time.Minute
	DefaultShutdownTimeout = 15 * time.Second
)

// apiKeyEnvKeys は API キーを探す環境変数の優先順です。
var apiKeyEnvKeys = []string{"API_KEY", "GEMINI_API_KEY"}

// Config はサーバーの設定値です。API キーはここに保持せず、APIKey で都度読み込みます。
type Config struct {
	Model           string
	Stream          bool
	Port            string
	StaticDir       string
	CORSAllowOrigin string
	MaxBodyBytes    int64
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
	LogFormat       string
}

// Load は .env（あれば）と環境変数から設定を読み込みます。
// .env が見つからないのはエラーではありません。
func Load(envFiles ...string) *Config {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Debug(".env ファイルが読み込めないため、環境変数のみを使用します", "error", err)
	}

	return &Config{
		Model:           utils.GetEnv("GEMINI_MODEL", generator.DefaultModel),
		Stream:          utils.GetEnvBool("GEMINI_STREAM", false),
		Port:            utils.GetEnv("PORT", DefaultPort),
		StaticDir:       utils.GetEnv("STATIC_DIR", ""),
		CORSAllowOrigin: utils.GetEnv("CORS_ALLOW_ORIGIN", DefaultCORSAllowOrigin),
		MaxBodyBytes:    utils.GetEnvInt64("MAX_BODY_BYTES", DefaultMaxBodyBytes),
		WriteTimeout:    utils.GetEnvDuration("WRITE_TIMEOUT", DefaultWriteTimeout),
		ShutdownTimeout: utils.GetEnvDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
		LogLevel:        parseLevel(utils.GetEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(utils.GetEnv("LOG_FORMAT", "text")),
	}
}

// APIKey は呼び出しのたびに環境変数から API キーを読み込みます。
// キャッシュしないため、起動後に設定されたキーもすぐに反映されます。
func APIKey() string {
	return utils.FirstEnv(apiKeyEnvKeys...)
}

// Addr は待ち受けアドレスを返します。
func (c *Config) Addr() string {
	return ":" + c.Port
}

// NewLogger は LogLevel と LogFormat に従った slog.Logger を作ります。
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
