package mock

import (
	"context"
	"sync"

	"github.com/poiesic/libris/core"
)

// MockChatModel is a test double for ai.ChatModel.
// It records every request and allows custom behavior injection.
type MockChatModel struct {
	// ChatFunc is called by Chat if set.
	// If nil, the last message is echoed back.
	ChatFunc func(ctx context.Context, messages []core.Message) (core.Message, error)

	mu    sync.Mutex
	calls [][]core.Message
}

// NewMockChatModel creates a mock chat model with default echo behavior.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// Chat records the request and returns the configured reply.
func (m *MockChatModel) Chat(ctx context.Context, messages []core.Message) (core.Message, error) {
	m.mu.Lock()
	recorded := make([]core.Message, len(messages))
	copy(recorded, messages)
	m.calls = append(m.calls, recorded)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	if len(messages) == 0 {
		return core.Message{Role: core.RoleAI}, nil
	}
	return core.Message{Role: core.RoleAI, Content: "echo: " + messages[len(messages)-1].Content}, nil
}

// Calls returns a copy of every request seen so far.
func (m *MockChatModel) Calls() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]core.Message, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of times Chat was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Reset clears recorded calls and the custom function.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.ChatFunc = nil
}
