package generator

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"google.golang.org/genai"
)

// ExecuteRequest はパーツを1つのユーザーターンとして送信し、最初の画像を取り出します。
func (c *GeminiImageCore) ExecuteRequest(ctx context.Context, apiKey, model string, parts []*genai.Part) (*domain.ImageResponse, error) {
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{responseModalityImage},
	}

	var resp *genai.GenerateContentResponse
	if c.streaming {
		resp, err = collectStream(client.GenerateContentStream(ctx, model, contents, config))
	} else {
		resp, err = client.GenerateContent(ctx, model, contents, config)
	}
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	out, err := c.parseToResponse(resp)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "画像の生成に成功しました",
		"model", model,
		"mime_type", out.MimeType,
		"bytes", len(out.Data),
		"finish_reason", out.FinishReason,
	)
	return &domain.ImageResponse{
		Data:     out.Data,
		MimeType: out.MimeType,
	}, nil
}

// PrepareImagePart は base64 の画像フィールドをインライン画像パーツに変換します。
// フィールドの有無は GenerationRequest.Validate で確認済みであることを前提とします。
func (c *GeminiImageCore) PrepareImagePart(img *domain.WireImage) (*genai.Part, error) {
	data, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil {
		return nil, domain.WrapError(domain.KindValidation, "generator.PrepareImagePart", InvalidImageMessage, err)
	}
	return genai.NewPartFromBytes(data, img.Type), nil
}

func (c *GeminiImageCore) parseToResponse(resp *genai.GenerateContentResponse) (*ImageOutput, error) {
	const op = "generator.parseToResponse"

	if resp == nil {
		return nil, domain.WrapError(domain.KindUpstream, op, GenerationFailedMessage, fmt.Errorf("nil response"))
	}
	if len(resp.Candidates) == 0 {
		if reason := blockReason(resp); reason != "" {
			return nil, domain.WrapError(domain.KindSafety, op, SafetyBlockedMessage, fmt.Errorf("prompt blocked: %s", reason))
		}
		return nil, domain.WrapError(domain.KindUpstream, op, GenerationFailedMessage, fmt.Errorf("no candidates"))
	}

	candidate := resp.Candidates[0]
	reason := string(candidate.FinishReason)
	if part := findInlineImage(candidate); part != nil {
		return &ImageOutput{
			Data:         part.InlineData.Data,
			MimeType:     part.InlineData.MIMEType,
			FinishReason: reason,
		}, nil
	}

	if isSafetyReason(reason) {
		return nil, domain.WrapError(domain.KindSafety, op, SafetyBlockedMessage, fmt.Errorf("finish reason: %s", reason))
	}
	return nil, domain.WrapError(domain.KindUpstream, op, GenerationFailedMessage, fmt.Errorf("no image data (finish reason: %q)", reason))
}
