package anthropic

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

func TestBuildMessages_SkipsSystemAndEmpty(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "k" })
	msgs := m.buildMessages([]core.Message{
		core.SystemMessage("inline"),
		core.UserMessage("hello"),
		core.AssistantMessage(""),
		core.AssistantMessage("hi"),
	})
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))

	sys := m.extractSystemMessage(model.Request{
		Instructions: "persona",
		Messages:     []core.Message{core.SystemMessage("inline")},
	})
	require.Len(t, sys, 2)
	assert.Equal(t, "persona", sys[0].Text)
}

func TestGenerate_AgainstFakeServer(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_1",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-3-5-sonnet-20241022",
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"content":       []map[string]any{{"type": "text", "text": "두꺼비가 나타났다."}},
			"usage":         map[string]any{"input_tokens": 7, "output_tokens": 3},
		})
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "sk-ant"
		o.BaseURL = srv.URL
	})
	resp, err := m.Generate(context.Background(), model.Request{
		Instructions: "narrate",
		Messages:     []core.Message{core.UserMessage("독에 물을 붓는다")},
	})
	require.NoError(t, err)
	assert.Equal(t, "두꺼비가 나타났다.", resp.Text)
	assert.Equal(t, "end_turn", resp.FinishReason)
	assert.Equal(t, 10, resp.Usage.TotalTokens)
	assert.NotNil(t, body["system"])
}

func TestInfo(t *testing.T) {
	m := NewModel(func(o *Options) { o.APIKey = "k" })
	assert.Equal(t, "anthropic", m.Info().Provider)
	assert.NotEmpty(t, m.Info().Name)
}
