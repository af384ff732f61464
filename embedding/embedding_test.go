package embedding

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls  atomic.Int32
	failOn string
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	if text == c.failOn {
		return nil, errors.New("boom")
	}
	return []float32{float32(len(text))}, nil
}

func (c *countingEmbedder) Info() Info { return Info{Name: "count", Provider: "test"} }

type closingEmbedder struct {
	countingEmbedder
	closed bool
}

func (c *closingEmbedder) Close() error { c.closed = true; return nil }

func TestMockEmbedder_DeterministicUnitVectors(t *testing.T) {
	e := NewMockEmbedder(32)
	a, err := e.Embed(context.Background(), "Kongjwi fills the jar")
	require.NoError(t, err)
	b, _ := e.Embed(context.Background(), "kongjwi FILLS the jar")

	assert.Equal(t, a, b)
	var sum float64
	for _, x := range a {
		sum += float64(x * x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestMockEmbedder_EmptyTextIsZeroVector(t *testing.T) {
	v, err := NewMockEmbedder(8).Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), v)
}

func TestEmbedAll_PreservesOrder(t *testing.T) {
	e := &countingEmbedder{}
	vecs, err := EmbedAll(context.Background(), e, []string{"a", "bbb", "cc"}, 2)

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1}, {3}, {2}}, vecs)
	assert.Equal(t, int32(3), e.calls.Load())
}

func TestEmbedAll_PropagatesError(t *testing.T) {
	e := &countingEmbedder{failOn: "bad"}
	_, err := EmbedAll(context.Background(), e, []string{"ok", "bad", "ok"}, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding text 1")
}

func TestClose_OnlyClosers(t *testing.T) {
	assert.NoError(t, Close(&countingEmbedder{}))

	c := &closingEmbedder{}
	assert.NoError(t, Close(c))
	assert.True(t, c.closed)
}

func TestFactoryFunc(t *testing.T) {
	f := NewMockFactory(4)
	e, err := f.New(context.Background(), "ignored")

	require.NoError(t, err)
	assert.Equal(t, "mock", e.Info().Provider)
}
