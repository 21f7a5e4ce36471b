package generator

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiImageCore は ImageExecutor の責務を担う基盤クラスです。
// API キーはリクエストごとに受け取り、そのたびにクライアントを作ります。
type GeminiImageCore struct {
	newClient ClientFactory
	streaming bool
}

// NewGeminiImageCore は依存関係を注入して GeminiImageCore を初期化します。
// streaming が true の場合はストリーミング API を使い、チャンクを集約して扱います。
func NewGeminiImageCore(factory ClientFactory, streaming bool) (*GeminiImageCore, error) {
	if factory == nil {
		return nil, fmt.Errorf("client factory is required")
	}
	return &GeminiImageCore{
		newClient: factory,
		streaming: streaming,
	}, nil
}

// NewGenAIClientFactory は Gemini Developer API 向けの genai クライアントを作るファクトリを返します。
func NewGenAIClientFactory() ClientFactory {
	return func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client.Models, nil
	}
}
