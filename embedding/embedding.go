// Package embedding defines the provider-agnostic embedding contract used by
// the lore keeper and a deterministic in-process implementation for tests and
// offline play. Concrete providers live in sub-packages (openai, google, local)
// and are selected once at construction time through a Factory.
package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Info contains metadata about an embedding implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "google", "local", "mock"
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// Info returns information about the embedding implementation.
	Info() Info
}

// Factory constructs an Embedder bound to a credential. An empty credential
// means "use the factory's configured default".
type Factory interface {
	New(ctx context.Context, credential string) (Embedder, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, credential string) (Embedder, error)

// New implements Factory.
func (f FactoryFunc) New(ctx context.Context, credential string) (Embedder, error) {
	return f(ctx, credential)
}

// Close releases provider resources when the embedder holds any.
func Close(e Embedder) error {
	if c, ok := e.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// EmbedAll embeds texts with at most concurrency calls in flight. The result
// keeps the order of texts; the first error aborts the batch.
func EmbedAll(ctx context.Context, e Embedder, texts []string, concurrency int) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i := range texts {
		g.Go(func() error {
			v, err := e.Embed(gctx, texts[i])
			if err != nil {
				return fmt.Errorf("embedding text %d: %w", i, err)
			}
			vectors[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Normalize scales v to unit length in place.
func Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}

// MockEmbedder is a deterministic bag-of-words embedder: every lower-cased
// token is hashed into one of Dim buckets. Texts sharing tokens therefore get
// similar vectors, which is enough for tests and offline demos.
type MockEmbedder struct {
	Dim int
}

// NewMockEmbedder creates a MockEmbedder with the given dimension.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{Dim: dim}
}

// Embed implements Embedder.
func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	dim := m.Dim
	if dim <= 0 {
		dim = 64
	}
	vec := make([]float32, dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(dim)]++
	}
	Normalize(vec)
	return vec, nil
}

// Info implements Embedder.
func (m *MockEmbedder) Info() Info { return Info{Name: "mock-bow", Provider: "mock"} }

// NewMockFactory returns a Factory that hands out MockEmbedders regardless of
// the credential.
func NewMockFactory(dim int) Factory {
	return FactoryFunc(func(context.Context, string) (Embedder, error) {
		return NewMockEmbedder(dim), nil
	})
}
