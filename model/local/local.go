// Package local provides a model.Model for locally hosted models served
// through an OpenAI compatible chat endpoint (Ollama by default).
package local

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/model"
)

const (
	// DefaultBaseURL is Ollama's OpenAI compatible endpoint.
	DefaultBaseURL = "http://localhost:11434/v1"
	// DefaultModel is the chat model pulled by the setup scripts.
	DefaultModel = "llama3.1"
)

// Options configures the local chat model.
type Options struct {
	Model       string
	BaseURL     string
	Token       string // forwarded as bearer token when non-empty
	Temperature float32
	MaxTokens   int
}

// Model calls a local chat completion server.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a local model. It never contacts the server.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:       DefaultModel,
		BaseURL:     DefaultBaseURL,
		Temperature: 0.7,
		MaxTokens:   2048,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	cfg := openai.DefaultConfig(opts.Token)
	cfg.BaseURL = opts.BaseURL
	return &Model{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.opts.Model,
		Messages:    buildMessages(req),
		Temperature: m.opts.Temperature,
		MaxTokens:   m.opts.MaxTokens,
	})
	if err != nil {
		return model.Response{}, fmt.Errorf("local chat api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Response{}, fmt.Errorf("no choices returned")
	}
	return model.Response{
		Text:         resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: &model.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func buildMessages(req model.Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.Instructions})
	}
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case core.RoleSystem:
			role = openai.ChatMessageRoleSystem
		case core.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Text})
	}
	return messages
}

// Info returns metadata describing this local model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "local"}
}
