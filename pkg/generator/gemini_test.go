package generator

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		HandImage:       &domain.WireImage{Type: "image/jpeg", Base64: base64.StdEncoding.EncodeToString([]byte("hand"))},
		NailDesignImage: &domain.WireImage{Type: "image/png", Base64: base64.StdEncoding.EncodeToString([]byte("design"))},
	}
}

func TestNewGeminiGenerator(t *testing.T) {
	t.Run("core が nil ならエラー", func(t *testing.T) {
		_, err := NewGeminiGenerator(nil, "m")
		assert.Error(t, err)
	})

	t.Run("モデル未指定なら既定値", func(t *testing.T) {
		g, err := NewGeminiGenerator(&mockImageExecutor{}, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, g.model)
	})
}

func TestGeminiGenerator_GenerateNailDesign(t *testing.T) {
	ctx := context.Background()

	t.Run("手、デザイン、指示文の順でパーツを送る", func(t *testing.T) {
		exec := &mockImageExecutor{resp: &domain.ImageResponse{Data: []byte("out"), MimeType: "image/png"}}
		g, err := NewGeminiGenerator(exec, "custom-model")
		require.NoError(t, err)

		resp, err := g.GenerateNailDesign(ctx, "api-key", validRequest())
		require.NoError(t, err)
		assert.Equal(t, []byte("out"), resp.Data)

		assert.Equal(t, "api-key", exec.lastKey)
		assert.Equal(t, "custom-model", exec.lastModel)
		require.Len(t, exec.lastParts, 3)
		assert.Equal(t, []byte("hand"), exec.lastParts[0].InlineData.Data)
		assert.Equal(t, "image/jpeg", exec.lastParts[0].InlineData.MIMEType)
		assert.Equal(t, []byte("design"), exec.lastParts[1].InlineData.Data)
		assert.Equal(t, "image/png", exec.lastParts[1].InlineData.MIMEType)
		assert.Equal(t, NailOverlayInstruction, exec.lastParts[2].Text)
	})

	t.Run("画像が欠けていれば送信しない", func(t *testing.T) {
		exec := &mockImageExecutor{}
		g, _ := NewGeminiGenerator(exec, "")

		req := validRequest()
		req.NailDesignImage = nil
		_, err := g.GenerateNailDesign(ctx, "k", req)
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindValidation))
		assert.Equal(t, domain.MissingImageMessage, err.Error())
		assert.Nil(t, exec.lastParts)
		// 欠落の確認は入口で1回だけ行い、パーツの変換には進まない
		assert.Zero(t, exec.prepared)
	})

	t.Run("type が空でも変換前に止める", func(t *testing.T) {
		exec := &mockImageExecutor{}
		g, _ := NewGeminiGenerator(exec, "")

		req := validRequest()
		req.HandImage.Type = ""
		_, err := g.GenerateNailDesign(ctx, "k", req)
		assert.EqualError(t, err, domain.MissingImageMessage)
		assert.Zero(t, exec.prepared)
	})

	t.Run("不正な base64 は送信しない", func(t *testing.T) {
		exec := &mockImageExecutor{}
		g, _ := NewGeminiGenerator(exec, "")

		req := validRequest()
		req.HandImage.Base64 = "***"
		_, err := g.GenerateNailDesign(ctx, "k", req)
		assert.EqualError(t, err, InvalidImageMessage)
		assert.Nil(t, exec.lastParts)
	})

	t.Run("実行時のエラーをそのまま返す", func(t *testing.T) {
		boom := errors.New("upstream down")
		g, _ := NewGeminiGenerator(&mockImageExecutor{err: boom}, "")

		_, err := g.GenerateNailDesign(ctx, "k", validRequest())
		assert.ErrorIs(t, err, boom)
	})
}

// 実際の Core と組み合わせたときのエラー分類
func TestGeminiGenerator_WithCore(t *testing.T) {
	mock := &mockContentGenerator{resp: textResponse("", "IMAGE_SAFETY")}
	core, err := NewGeminiImageCore(factoryFor(mock, nil), false)
	require.NoError(t, err)
	g, err := NewGeminiGenerator(core, "")
	require.NoError(t, err)

	_, err = g.GenerateNailDesign(context.Background(), "k", validRequest())
	require.Error(t, err)
	assert.Equal(t, SafetyBlockedMessage, err.Error())
	assert.Equal(t, DefaultModel, mock.lastModel)
}
