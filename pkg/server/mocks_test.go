package server

import (
	"context"
	"sync"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
)

// --- Mocks ---

type mockGenerator struct {
	mu      sync.Mutex
	resp    *domain.ImageResponse
	err     error
	panicV  any
	calls   int
	lastKey string
	lastReq domain.GenerationRequest
}

func (m *mockGenerator) GenerateNailDesign(ctx context.Context, apiKey string, req domain.GenerationRequest) (*domain.ImageResponse, error) {
	m.mu.Lock()
	m.calls++
	m.lastKey = apiKey
	m.lastReq = req
	m.mu.Unlock()

	if m.panicV != nil {
		panic(m.panicV)
	}
	return m.resp, m.err
}

func staticKey(key string) func() string {
	return func() string { return key }
}
