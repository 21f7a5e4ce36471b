package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"github.com/shouni/gemini-nail-kit/pkg/generator"
)

const (
	MethodNotAllowedMessage = "method not allowed"
	MissingAPIKeyMessage    = "missing API key on server"
	serverErrorPrefix       = "server error: "

	serviceName = "gemini-nail-kit"
)

// Handler は POST /api/generate と GET /health を処理します。
type Handler struct {
	generator    generator.NailDesignGenerator
	apiKey       func() string
	maxBodyBytes int64
}

// NewHandler は Handler を初期化します。apiKey はリクエストのたびに呼ばれます。
func NewHandler(gen generator.NailDesignGenerator, apiKey func() string, maxBodyBytes int64) (*Handler, error) {
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if apiKey == nil {
		return nil, fmt.Errorf("apiKey provider is required")
	}
	if maxBodyBytes <= 0 {
		return nil, fmt.Errorf("maxBodyBytes must be positive: %d", maxBodyBytes)
	}
	return &Handler{
		generator:    gen,
		apiKey:       apiKey,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

// Generate は2枚の画像を受け取り、生成された画像を data URL で返します。
// 応答は成功・失敗を問わず {imageUrl} か {error} のどちらか一方を持つ JSON です。
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(ctx, w, http.StatusMethodNotAllowed, domain.Failure(MethodNotAllowedMessage))
		return
	}

	// ボディより先に確認する
	apiKey := h.apiKey()
	if apiKey == "" {
		err := domain.NewError(domain.KindConfiguration, "server.Generate", MissingAPIKeyMessage)
		h.writeError(ctx, w, err)
		return
	}

	var req domain.GenerationRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes)).Decode(&req); err != nil {
		h.writeError(ctx, w, fmt.Errorf("failed to decode request body: %w", err))
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(ctx, w, err)
		return
	}

	resp, err := h.generator.GenerateNailDesign(ctx, apiKey, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, domain.Success(resp.DataURL()))
}

// Health は死活監視用のエンドポイントです。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := classify(err)
	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "リクエストの処理に失敗しました",
		"status", status,
		"kind", domain.KindOf(err),
		"error", errorDetail(err),
	)
	writeJSON(ctx, w, status, domain.Failure(message))
}

// classify はエラーの分類から HTTP ステータスと利用者向けメッセージを決めます。
// 分類できないエラーは "server error: " を前置して返します。
func classify(err error) (int, string) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, serverErrorPrefix + err.Error()
	}
	if de.Kind == domain.KindValidation {
		return http.StatusBadRequest, de.Message
	}
	return http.StatusInternalServerError, de.Message
}

// errorDetail はログ用に原因まで含めた文字列を返します。
func errorDetail(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Cause != nil {
		return de.Error() + ": " + de.Cause.Error()
	}
	return err.Error()
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.WarnContext(ctx, "レスポンスの書き込みに失敗しました", "error", err)
	}
}
