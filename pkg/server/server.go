package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RouterOptions はルーターの組み立てに使う設定です。
type RouterOptions struct {
	CORSAllowOrigin string
	StaticDir       string
}

// NewRouter はエンドポイントとミドルウェアを組み立てた http.Handler を返します。
// /api/generate はメソッドを絞らず、POST 以外はハンドラ自身が JSON で 405 を返します。
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/generate", h.Generate)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(opts.StaticDir)))
	}

	origin := opts.CORSAllowOrigin
	if origin == "" {
		origin = "*"
	}
	// 404 や 405 にも CORS とアクセスログが付くよう、ルーター全体を包む
	return withRequestID(withRecovery(withCORS(origin, r)))
}

// Server は http.Server の起動と停止を管理します。
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New は Server を作ります。生成には時間がかかるため writeTimeout は長めに設定してください。
func New(addr string, handler http.Handler, writeTimeout, shutdownTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       2 * time.Minute,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// Run はサーバーを起動し、ctx がキャンセルされるまでブロックします。
// キャンセル後は shutdownTimeout の範囲で処理中のリクエストを待ってから停止します。
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve は与えられたリスナーで Run と同じ処理を行います。
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("サーバーを起動しました", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("サーバーを停止しています", "timeout", s.shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
