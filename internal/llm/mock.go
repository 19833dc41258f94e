package llm

import (
	"context"
	"sync"
)

// MockClient is a deterministic Client for tests. It replays canned
// responses in order and records every prompt it receives.
type MockClient struct {
	mu        sync.Mutex
	responses []string
	err       error
	Prompts   []string
	calls     int
}

// NewMockClient creates a mock that cycles through the given responses.
func NewMockClient(responses ...string) *MockClient {
	return &MockClient{responses: responses}
}

// WithError makes every Complete call fail with err.
func (m *MockClient) WithError(err error) *MockClient {
	m.err = err
	return m
}

// Complete implements Client.
func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	response := m.responses[m.calls%len(m.responses)]
	m.calls++
	return response, nil
}
