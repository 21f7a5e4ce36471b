package generator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"google.golang.org/genai"
)

// GeminiGenerator は手の写真にネイルデザインを重ねた画像を生成するジェネレーターです。
type GeminiGenerator struct {
	imgCore ImageExecutor
	model   string
}

// NewGeminiGenerator は GeminiGenerator を初期化します。model が空の場合は DefaultModel を使います。
func NewGeminiGenerator(core ImageExecutor, model string) (*GeminiGenerator, error) {
	if core == nil {
		return nil, fmt.Errorf("core (ImageExecutor) is required")
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{
		imgCore: core,
		model:   model,
	}, nil
}

// GenerateNailDesign は [手の画像, デザイン画像, 指示文] の順でパーツを組み立てて生成を依頼します。
func (g *GeminiGenerator) GenerateNailDesign(ctx context.Context, apiKey string, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hand, err := g.imgCore.PrepareImagePart(req.HandImage)
	if err != nil {
		return nil, err
	}
	design, err := g.imgCore.PrepareImagePart(req.NailDesignImage)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{hand, design, genai.NewPartFromText(NailOverlayInstruction)}

	slog.DebugContext(ctx, "ネイルデザインの生成を開始します",
		"model", g.model,
		"hand_type", req.HandImage.Type,
		"design_type", req.NailDesignImage.Type,
	)
	return g.imgCore.ExecuteRequest(ctx, apiKey, g.model, parts)
}
