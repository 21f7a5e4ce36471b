package utils

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv は環境変数を取得し、空であれば defaultValue を返します。
func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// FirstEnv は keys を順に調べ、最初に値が入っていたものを返します。
func FirstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// GetEnvBool は真偽値の環境変数を読みます。解釈できない値は警告を出して既定値を使います。
func GetEnvBool(key string, defaultValue bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("環境変数を真偽値として解釈できません。既定値を使います", "key", key, "value", raw)
		return defaultValue
	}
	return v
}

// GetEnvInt64 は整数の環境変数を読みます。0 以下の値も不正として扱います。
func GetEnvInt64(key string, defaultValue int64) int64 {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		slog.Warn("環境変数を正の整数として解釈できません。既定値を使います", "key", key, "value", raw)
		return defaultValue
	}
	return v
}

// GetEnvDuration は "90s" や "5m" のような期間の環境変数を読みます。
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		slog.Warn("環境変数を期間として解釈できません。既定値を使います", "key", key, "value", raw)
		return defaultValue
	}
	return v
}
