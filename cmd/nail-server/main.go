package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/gemini-nail-kit/pkg/config"
	"github.com/shouni/gemini-nail-kit/pkg/generator"
	"github.com/shouni/gemini-nail-kit/pkg/server"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(server.NewContextHandler(cfg.NewLogger().Handler())))

	if err := run(cfg); err != nil {
		slog.Error("サーバーが異常終了しました", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.APIKey() == "" {
		// キーはリクエストごとに読み直すので起動は続ける
		slog.Warn("API_KEY が設定されていません。設定されるまで生成リクエストは失敗します")
	}

	core, err := generator.NewGeminiImageCore(generator.NewGenAIClientFactory(), cfg.Stream)
	if err != nil {
		return err
	}
	gen, err := generator.NewGeminiGenerator(core, cfg.Model)
	if err != nil {
		return err
	}
	handler, err := server.NewHandler(gen, config.APIKey, cfg.MaxBodyBytes)
	if err != nil {
		return err
	}

	router := server.NewRouter(handler, server.RouterOptions{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		StaticDir:       cfg.StaticDir,
	})

	slog.Info("設定を読み込みました",
		"model", cfg.Model,
		"stream", cfg.Stream,
		"static_dir", cfg.StaticDir,
		"write_timeout", cfg.WriteTimeout,
	)
	return server.New(cfg.Addr(), router, cfg.WriteTimeout, cfg.ShutdownTimeout).Run(ctx)
}
