// Package google provides an embedding.Embedder backed by the Google
// Generative Language embedding models (text-embedding-004 by default).
package google

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/embedding"
	"google.golang.org/api/option"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-004"

// Options configure the Google embedder.
type Options struct {
	Model  string
	APIKey string // default credential used when the factory receives none
}

// Embedder wraps a genai embedding model. It owns its client; call Close when done.
type Embedder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
	opts   Options
}

// NewEmbedder creates an embedder bound to apiKey.
func NewEmbedder(ctx context.Context, apiKey string, optFns ...func(o *Options)) (*Embedder, error) {
	opts := Options{Model: DefaultModel}
	for _, fn := range optFns {
		fn(&opts)
	}
	if apiKey == "" {
		apiKey = opts.APIKey
	}
	if apiKey == "" {
		return nil, core.NewError(core.CodeConfiguration, "google embedder: GOOGLE_API_KEY is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, core.WrapError(core.CodeConfiguration, "google embedder: create client", err)
	}
	return &Embedder{client: client, model: client.EmbeddingModel(opts.Model), opts: opts}, nil
}

// NewFactory returns a Factory producing Google embedders per credential.
func NewFactory(optFns ...func(o *Options)) embedding.Factory {
	return embedding.FactoryFunc(func(ctx context.Context, credential string) (embedding.Embedder, error) {
		return NewEmbedder(ctx, credential, optFns...)
	})
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("google embed content: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("google embed content: empty embedding")
	}
	v := make([]float32, len(res.Embedding.Values))
	copy(v, res.Embedding.Values)
	return v, nil
}

// Info implements embedding.Embedder.
func (e *Embedder) Info() embedding.Info {
	return embedding.Info{Name: e.opts.Model, Provider: "google"}
}

// Close releases the underlying client.
func (e *Embedder) Close() error {
	return e.client.Close()
}
