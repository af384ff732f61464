// Package local provides an embedding.Embedder for locally hosted models
// served through an OpenAI compatible endpoint (Ollama by default).
package local

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/yonghwan-ko02/talereboot/embedding"
)

const (
	// DefaultBaseURL is Ollama's OpenAI compatible endpoint.
	DefaultBaseURL = "http://localhost:11434/v1"
	// DefaultModel is the embedding model pulled by the setup scripts.
	DefaultModel = "nomic-embed-text"
)

// Options configure the local embedder.
type Options struct {
	Model   string
	BaseURL string
}

// Embedder calls a local embedding server.
type Embedder struct {
	client *openai.Client
	opts   Options
}

// NewEmbedder creates a local embedder. Local servers ignore credentials, so
// token is only forwarded when non-empty.
func NewEmbedder(token string, optFns ...func(o *Options)) *Embedder {
	opts := Options{Model: DefaultModel, BaseURL: DefaultBaseURL}
	for _, fn := range optFns {
		fn(&opts)
	}
	cfg := openai.DefaultConfig(token)
	cfg.BaseURL = opts.BaseURL
	return &Embedder{client: openai.NewClientWithConfig(cfg), opts: opts}
}

// NewFactory returns a Factory producing local embedders.
func NewFactory(optFns ...func(o *Options)) embedding.Factory {
	return embedding.FactoryFunc(func(_ context.Context, credential string) (embedding.Embedder, error) {
		return NewEmbedder(credential, optFns...), nil
	})
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) == 0 {
		return nil, errors.New("cannot embed empty text")
	}
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.opts.Model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("local embeddings api error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned from local server")
	}
	raw := resp.Data[0].Embedding
	v := make([]float32, len(raw))
	for i := range raw {
		v[i] = float32(raw[i])
	}
	embedding.Normalize(v)
	return v, nil
}

// Info implements embedding.Embedder.
func (e *Embedder) Info() embedding.Info {
	return embedding.Info{Name: e.opts.Model, Provider: "local"}
}
