package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/yonghwan-ko02/talereboot/core"
)

// Request captures the normalized model input produced by the narrator.
type Request struct {
	Instructions string         `json:"instructions"` // System instruction (persona prompt)
	Messages     []core.Message `json:"messages"`     // Conversation converted to provider messages
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final completion returned by a model.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason"` // "stop", "length", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "google", "local", "mock"
}

// Model is the minimal interface required by the narrator to drive generation.
// Generate performs exactly one provider call.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// LastUserText returns the text of the last user message in req, or "".
func LastUserText(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == core.RoleUser {
			return req.Messages[i].Text
		}
	}
	return ""
}

// MockModel is a lightweight in‑memory Model useful for tests & examples.
// Scripted replies are consumed in order; once exhausted it falls back to
// canned responses keyed by the last user message, then to an echo.
type MockModel struct {
	info Info

	mu        sync.Mutex
	responses map[string]string
	script    []scripted
	requests  []Request
}

type scripted struct {
	text string
	err  error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: provider},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends a reply to the script.
func (m *MockModel) Enqueue(text string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{text: text})
	return m
}

// EnqueueError appends a failing call to the script.
func (m *MockModel) EnqueueError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, scripted{err: err})
	return m
}

// Requests returns every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		if next.err != nil {
			return Response{}, next.err
		}
		return Response{Text: next.text, FinishReason: "stop"}, nil
	}

	if len(req.Messages) == 0 {
		return Response{}, fmt.Errorf("no messages provided")
	}
	input := LastUserText(req)
	full := m.responses[input]
	if full == "" {
		full = fmt.Sprintf("Mock response to: %s", input)
	}
	return Response{Text: full, FinishReason: "stop"}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
