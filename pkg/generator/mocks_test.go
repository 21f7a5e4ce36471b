package generator

import (
	"context"
	"iter"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"google.golang.org/genai"
)

// --- Mocks ---

type mockContentGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	chunks []*genai.GenerateContentResponse
	// streamErr はチャンクを返し終えた後に返すエラーです
	streamErr error

	calls       int
	streamCalls int
	lastModel   string
	lastContent []*genai.Content
	lastConfig  *genai.GenerateContentConfig
}

func (m *mockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastModel = model
	m.lastContent = contents
	m.lastConfig = config
	return m.resp, m.err
}

func (m *mockContentGenerator) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	m.streamCalls++
	m.lastModel = model
	m.lastContent = contents
	m.lastConfig = config
	return streamOf(m.chunks, m.streamErr)
}

func streamOf(chunks []*genai.GenerateContentResponse, tail error) iter.Seq2[*genai.GenerateContentResponse, error] {
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

// factoryFor はモックを返し、受け取った API キーを記録するファクトリを作ります
func factoryFor(m *mockContentGenerator, gotKey *string) ClientFactory {
	return func(ctx context.Context, apiKey string) (ContentGenerator, error) {
		if gotKey != nil {
			*gotKey = apiKey
		}
		return m, nil
	}
}

type mockImageExecutor struct {
	resp      *domain.ImageResponse
	err       error
	lastKey   string
	lastModel string
	lastParts []*genai.Part
	prepared  int
	core      GeminiImageCore
}

func (m *mockImageExecutor) ExecuteRequest(ctx context.Context, apiKey, model string, parts []*genai.Part) (*domain.ImageResponse, error) {
	m.lastKey = apiKey
	m.lastModel = model
	m.lastParts = parts
	return m.resp, m.err
}

func (m *mockImageExecutor) PrepareImagePart(img *domain.WireImage) (*genai.Part, error) {
	m.prepared++
	return m.core.PrepareImagePart(img)
}

// --- Helpers ---

func imageResponse(mime string, data []byte, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: mime, Data: data}}}},
			FinishReason: reason,
		}},
	}
}

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: reason,
		}},
	}
}
