package session

import (
	"context"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
)

// --- Mocks ---

type mockGenerator struct {
	url   string
	err   error
	calls int
	// block が設定されていれば、閉じられるまで応答を返さない
	block   chan struct{}
	started chan struct{}
}

func (m *mockGenerator) GenerateNailDesign(ctx context.Context, hand, design *domain.NormalizedImage) (string, error) {
	m.calls++
	if m.started != nil {
		close(m.started)
	}
	if m.block != nil {
		<-m.block
	}
	return m.url, m.err
}

func img(name string) *domain.NormalizedImage {
	return domain.NewNormalizedImage(name, domain.NormalizedImageMimeType, []byte(name))
}
