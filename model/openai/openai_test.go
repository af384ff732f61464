package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/model"
)

// Interface compliance (compile-time assertions)
var _ model.Model = (*Model)(nil)

func TestBuildMessages(t *testing.T) {
	msgs := buildMessages(model.Request{
		Instructions: "be a storyteller",
		Messages: []core.Message{
			core.UserMessage("hello"),
			core.AssistantMessage("once upon a time"),
			core.UserMessage(""),
		},
	})
	require.Len(t, msgs, 3)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
}

func TestGenerate_AgainstFakeServer(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": "콩쥐는 길을 나섰다."},
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "sk-test"
		o.BaseURL = srv.URL
	})
	resp, err := m.Generate(context.Background(), model.Request{
		Instructions: "narrate",
		Messages:     []core.Message{core.UserMessage("떠난다")},
	})
	require.NoError(t, err)
	assert.Equal(t, "콩쥐는 길을 나섰다.", resp.Text)
	assert.Equal(t, "stop", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Len(t, body["messages"], 2)
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","model":"m","choices":[]}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "sk-test"
		o.BaseURL = srv.URL
	})
	_, err := m.Generate(context.Background(), model.Request{Messages: []core.Message{core.UserMessage("x")}})
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "sk"; o.Model = "gpt-4o" })
	assert.Equal(t, model.Info{Name: "gpt-4o", Provider: "openai"}, m.Info())
}
