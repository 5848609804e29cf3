// Package backendtest provides mock backend clients for testing the
// pool, handler, and streaming layers without a real upstream.
package backendtest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
)

// MockClient is a mock implementation of the backend.Client interface.
// Objects are held in memory and chunk fetches return deterministic
// slices of the stored content.
type MockClient struct {
	id   int
	name string

	mu      sync.Mutex
	objects map[string]*MockObject

	// Sessions counts NewSession calls, so tests can assert the cache
	// constructs exactly one session per backend.
	Sessions atomic.Int64

	// SessionErr, when set, makes NewSession fail.
	SessionErr error

	// FetchErr, when set, makes every FetchChunk fail.
	FetchErr error

	// ShortChunkAt truncates the chunk starting at this offset to half
	// its size, simulating an upstream that returns fewer bytes than
	// requested mid-object. Negative disables it.
	ShortChunkAt int64
}

// MockObject is one stored object served by a MockClient.
type MockObject struct {
	Data        []byte
	MimeType    string
	DisplayName string
}

// NewMockClient creates a mock client with no objects.
func NewMockClient(id int, name string) *MockClient {
	return &MockClient{
		id:           id,
		name:         name,
		objects:      make(map[string]*MockObject),
		ShortChunkAt: -1,
	}
}

// AddObject stores an object under the given handle.
func (m *MockClient) AddObject(handle string, obj *MockObject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[handle] = obj
}

// PatternObject builds an object of the given size filled with a
// position-dependent byte pattern, so trimming bugs show up as content
// mismatches rather than just length mismatches.
func PatternObject(size int64, mimeType, name string) *MockObject {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return &MockObject{Data: data, MimeType: mimeType, DisplayName: name}
}

// ID returns the client's pool index.
func (m *MockClient) ID() int {
	return m.id
}

// Name returns the client's label.
func (m *MockClient) Name() string {
	return m.name
}

// HealthCheck reports healthy unless SessionErr is set.
func (m *MockClient) HealthCheck(ctx context.Context) error {
	return m.SessionErr
}

// NewSession returns a session over the stored objects.
func (m *MockClient) NewSession(ctx context.Context) (backend.Session, error) {
	m.Sessions.Add(1)
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return &mockSession{client: m}, nil
}

type mockSession struct {
	client *MockClient
	closed atomic.Bool
}

func (s *mockSession) Resolve(ctx context.Context, handle string) (*backend.ObjectMetadata, error) {
	if handle == "" {
		return nil, &backend.InvalidHandleError{Handle: handle, Message: "empty handle"}
	}

	s.client.mu.Lock()
	obj, ok := s.client.objects[handle]
	s.client.mu.Unlock()
	if !ok {
		return nil, &backend.ObjectNotFoundError{Handle: handle}
	}

	return &backend.ObjectMetadata{
		Size:        int64(len(obj.Data)),
		MimeType:    obj.MimeType,
		DisplayName: obj.DisplayName,
	}, nil
}

func (s *mockSession) FetchChunk(ctx context.Context, handle string, offset, size int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.client.FetchErr != nil {
		return nil, s.client.FetchErr
	}

	s.client.mu.Lock()
	obj, ok := s.client.objects[handle]
	s.client.mu.Unlock()
	if !ok {
		return nil, &backend.ObjectNotFoundError{Handle: handle}
	}

	total := int64(len(obj.Data))
	if offset < 0 || offset >= total {
		return nil, fmt.Errorf("offset %d out of range for object of %d bytes", offset, total)
	}

	end := offset + size
	if end > total {
		end = total
	}
	chunk := obj.Data[offset:end]

	if s.client.ShortChunkAt >= 0 && offset == s.client.ShortChunkAt && len(chunk) > 1 {
		chunk = chunk[:len(chunk)/2]
	}

	out := make([]byte, len(chunk))
	copy(out, chunk)
	return out, nil
}

func (s *mockSession) Close() error {
	s.closed.Store(true)
	return nil
}
