package mock

import (
	"context"
	"strings"

	"github.com/poiesic/scholarseek/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, uses default canned behavior.
	GenerateTextFunc func(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error)

	// Responses, if non-empty, is returned one element per call in order.
	// After the list is exhausted the last element is repeated.
	Responses []string

	callCount int
	prompts   []string
}

// NewMockGenerator creates a mock generator with default canned behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateText returns an injected or canned response for the prompt.
func (m *MockGenerator) GenerateText(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt, opts...)
	}

	if len(m.Responses) > 0 {
		idx := m.callCount - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		return m.Responses[idx], nil
	}

	// Default: echo the first line of the prompt back
	line := prompt
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line), nil
}

// CallCount returns the number of times GenerateText was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Prompts returns the prompts received so far, in call order.
func (m *MockGenerator) Prompts() []string {
	return m.prompts
}

// Reset clears call history and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.prompts = nil
	m.GenerateTextFunc = nil
	m.Responses = nil
}
