// Package google provides a model.Model backed by Google Gemini through the
// generative-ai-go SDK. The persona prompt becomes the system instruction and
// prior messages are replayed as chat history.
package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/model"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Options configures the Gemini adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// Model wraps a genai client. It owns the client; call Close when done.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a Gemini model bound to apiKey.
func NewModel(ctx context.Context, apiKey string, optFns ...func(o *Options)) (*Model, error) {
	if apiKey == "" {
		return nil, core.NewError(core.CodeConfiguration, "google model: GOOGLE_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, core.WrapError(core.CodeConfiguration, "google model: create client", err)
	}
	return NewModelFromClient(client, optFns...), nil
}

// NewModelFromClient creates a Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:           DefaultModel,
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model with one chat turn.
func (m *Model) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	gm := m.client.GenerativeModel(m.opts.Model)
	gm.SetCandidateCount(1)
	gm.SetTemperature(m.opts.Temperature)
	gm.SetMaxOutputTokens(m.opts.MaxOutputTokens)
	if instr := systemInstruction(req); instr != "" {
		gm.SystemInstruction = &genai.Content{
			Role:  "system",
			Parts: []genai.Part{genai.Text(instr)},
		}
	}

	history, prompt := splitHistory(req.Messages)
	if prompt == "" {
		return model.Response{}, fmt.Errorf("google model: no user message provided")
	}
	cs := gm.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return model.Response{}, fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return model.Response{}, fmt.Errorf("no candidates returned")
	}

	cand := resp.Candidates[0]
	var text strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	out := model.Response{
		Text:         text.String(),
		FinishReason: cand.FinishReason.String(),
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// systemInstruction joins the request instruction with inline system messages.
func systemInstruction(req model.Request) string {
	parts := make([]string, 0, 1)
	if req.Instructions != "" {
		parts = append(parts, req.Instructions)
	}
	for _, msg := range req.Messages {
		if msg.Role == core.RoleSystem && msg.Text != "" {
			parts = append(parts, msg.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// splitHistory turns every message but the final user message into chat
// history. Gemini names the assistant role "model".
func splitHistory(msgs []core.Message) ([]*genai.Content, string) {
	last := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == core.RoleUser {
			last = i
			break
		}
	}
	if last < 0 {
		return nil, ""
	}

	var history []*genai.Content
	for i, msg := range msgs {
		if i == last || msg.Role == core.RoleSystem || msg.Text == "" {
			continue
		}
		role := "user"
		if msg.Role == core.RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(msg.Text)}})
	}
	return history, msgs[last].Text
}

// Close releases the underlying client.
func (m *Model) Close() error { return m.client.Close() }

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "google"}
}
