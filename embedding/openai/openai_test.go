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
)

func TestNewEmbedder_RequiresKey(t *testing.T) {
	_, err := NewEmbedder("")
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestFactory_UsesDefaultKey(t *testing.T) {
	f := NewFactory(func(o *Options) { o.APIKey = "sk-default" })
	e, err := f.New(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, "openai", e.Info().Provider)
}

func TestEmbed_AgainstFakeServer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float64{3, 4}},
			},
			"usage": map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	defer srv.Close()

	e, err := NewEmbedder("sk-request", func(o *Options) { o.BaseURL = srv.URL })
	require.NoError(t, err)

	v, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.6, 0.8}, v, 1e-6)
	assert.Equal(t, "Bearer sk-request", gotAuth)
}

func TestEmbed_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	e, err := NewEmbedder("sk-bad", func(o *Options) { o.BaseURL = srv.URL })
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), "hello")
	assert.Error(t, err)
}
