package generator

import (
	"context"
	"iter"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"google.golang.org/genai"
)

// ContentGenerator は genai の Models が満たす生成 API の最小インターフェースです。
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// ClientFactory はリクエストごとの API キーから ContentGenerator を作ります。
type ClientFactory func(ctx context.Context, apiKey string) (ContentGenerator, error)

// NailDesignGenerator は HTTP 層が利用する窓口です。
type NailDesignGenerator interface {
	GenerateNailDesign(ctx context.Context, apiKey string, req domain.GenerationRequest) (*domain.ImageResponse, error)
}

// ImageExecutor は、画像生成リクエストを処理し、画像関連データを準備するためのメソッドを定義するインターフェースです。
type ImageExecutor interface {
	// ExecuteRequest は、指定されたパーツで画像生成リクエストを実行し、結果を返します。
	ExecuteRequest(ctx context.Context, apiKey, model string, parts []*genai.Part) (*domain.ImageResponse, error)
	// PrepareImagePart は、受け取った画像フィールドからインライン画像パーツを作成します。
	PrepareImagePart(img *domain.WireImage) (*genai.Part, error)
}
