package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrMockTransport stands in for a failed HTTP round trip
var ErrMockTransport = errors.New("mock transport failure")

// MockAsker implements model.Asker for testing
type MockAsker struct {
	AskFunc func(ctx context.Context, message string) (string, error)

	mu    sync.Mutex
	calls []string
}

// NewMockAsker creates an asker that answers every question with answer
func NewMockAsker(answer string) *MockAsker {
	return &MockAsker{
		AskFunc: func(ctx context.Context, message string) (string, error) {
			return answer, nil
		},
	}
}

// NewFailingAsker creates an asker whose every request fails
func NewFailingAsker() *MockAsker {
	return &MockAsker{
		AskFunc: func(ctx context.Context, message string) (string, error) {
			return "", ErrMockTransport
		},
	}
}

func (m *MockAsker) Ask(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, message)
	m.mu.Unlock()
	return m.AskFunc(ctx, message)
}

// Calls returns the questions received so far
func (m *MockAsker) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// EchoRenderer implements model.MarkupRenderer by wrapping markup in a marker
type EchoRenderer struct{}

func (EchoRenderer) HTML(markup string) string {
	return "<rendered>" + markup + "</rendered>"
}
