package imgutil

import (
	"bytes"
	"context"
	"io"
	"os"
)

// --- Mocks ---

// mockInputReader は remoteio.InputReader のモックです
type mockInputReader struct {
	files   map[string][]byte
	opened  []string
	closed  int
	openErr error
}

type trackingCloser struct {
	io.Reader
	onClose func()
}

func (c trackingCloser) Close() error {
	c.onClose()
	return nil
}

func (m *mockInputReader) Open(ctx context.Context, filePath string) (io.ReadCloser, error) {
	m.opened = append(m.opened, filePath)
	if m.openErr != nil {
		return nil, m.openErr
	}
	data, ok := m.files[filePath]
	if !ok {
		return nil, os.ErrNotExist
	}
	return trackingCloser{Reader: bytes.NewReader(data), onClose: func() { m.closed++ }}, nil
}

func (m *mockInputReader) List(ctx context.Context, path string, callback func(string) error) error {
	for name := range m.files {
		if err := callback(name); err != nil {
			return err
		}
	}
	return nil
}
