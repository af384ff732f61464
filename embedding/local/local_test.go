package local

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_AgainstFakeOllama(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/embeddings"))
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  gotModel,
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float32{0, 2}},
			},
		})
	}))
	defer srv.Close()

	e := NewEmbedder("", func(o *Options) { o.BaseURL = srv.URL + "/v1" })
	v, err := e.Embed(context.Background(), "두꺼비")

	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, v)
	assert.Equal(t, DefaultModel, gotModel)
	assert.Equal(t, "local", e.Info().Provider)
}

func TestEmbed_EmptyTextRejected(t *testing.T) {
	_, err := NewEmbedder("").Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestEmbed_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewEmbedder("", func(o *Options) { o.BaseURL = srv.URL }).Embed(context.Background(), "x")
	assert.Error(t, err)
}
