// Package openai provides an embedding.Embedder backed by the OpenAI
// embeddings API using the official SDK.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/embedding"
)

// Options configure the OpenAI embedder.
type Options struct {
	Model   openai.EmbeddingModel
	APIKey  string // default credential used when the factory receives none
	BaseURL string // optional override, e.g. for a proxy
}

// Embedder wraps the OpenAI embeddings endpoint.
type Embedder struct {
	client *openai.Client
	opts   Options
}

// NewEmbedder creates an embedder using the given API key.
func NewEmbedder(apiKey string, optFns ...func(o *Options)) (*Embedder, error) {
	opts := defaultOptions(optFns...)
	if apiKey == "" {
		apiKey = opts.APIKey
	}
	if apiKey == "" {
		return nil, core.NewError(core.CodeConfiguration, "openai embedder: api key is required")
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := openai.NewClient(reqOpts...)
	return NewEmbedderFromClient(&client, func(o *Options) { *o = opts }), nil
}

// NewEmbedderFromClient creates an embedder from an existing client.
func NewEmbedderFromClient(client *openai.Client, optFns ...func(o *Options)) *Embedder {
	return &Embedder{client: client, opts: defaultOptions(optFns...)}
}

func defaultOptions(optFns ...func(o *Options)) Options {
	opts := Options{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// NewFactory returns a Factory producing OpenAI embedders per credential.
func NewFactory(optFns ...func(o *Options)) embedding.Factory {
	return embedding.FactoryFunc(func(_ context.Context, credential string) (embedding.Embedder, error) {
		return NewEmbedder(credential, optFns...)
	})
}

// Embed implements embedding.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.opts.Model,
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings api error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: no data returned")
	}
	v64 := resp.Data[0].Embedding
	v := make([]float32, len(v64))
	for i := range v64 {
		v[i] = float32(v64[i])
	}
	embedding.Normalize(v)
	return v, nil
}

// Info implements embedding.Embedder.
func (e *Embedder) Info() embedding.Info {
	return embedding.Info{Name: string(e.opts.Model), Provider: "openai"}
}
