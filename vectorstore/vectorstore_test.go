package vectorstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yonghwan-ko02/talereboot/core"
)

// Interface compliance (compile-time assertions)
var _ Store = (*InMemoryStore)(nil)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Equal(t, float32(0), CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, float32(0), CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}

func TestRank_OrdersAndTruncates(t *testing.T) {
	records := []Record{
		{ID: "a", Index: 0, Vector: []float32{0, 1}},
		{ID: "b", Index: 1, Vector: []float32{1, 0}},
		{ID: "c", Index: 2, Vector: []float32{1, 1}},
	}
	got := Rank(records, []float32{1, 0}, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestInMemoryStore_ReplaceQueryCount(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	_, err := s.Query(ctx, "story", []float32{1}, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, s.Replace(ctx, "story", []Record{
		{ID: "1", Index: 0, Text: "jar", Vector: []float32{1, 0}},
		{ID: "2", Index: 1, Text: "toad", Vector: []float32{0, 1}},
	}))
	n, _ := s.Count(ctx, "story")
	assert.Equal(t, 2, n)

	m, err := s.Query(ctx, "story", []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Equal(t, "toad", m[0].Text)

	require.NoError(t, s.Replace(ctx, "story", nil))
	n, _ = s.Count(ctx, "story")
	assert.Equal(t, 0, n)
}

func TestInMemoryStore_CopyIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	vec := []float32{1, 0}
	require.NoError(t, s.Replace(ctx, "c", []Record{{ID: "1", Vector: vec}}))
	vec[0] = 0

	m, _ := s.Query(ctx, "c", []float32{1, 0}, 1)
	require.Len(t, m, 1)
	assert.Equal(t, []float32{1, 0}, m[0].Vector)
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				_ = s.Replace(ctx, "c", []Record{{ID: "x", Vector: []float32{float32(i), 1}}})
				return
			}
			_, _ = s.Query(ctx, "c", []float32{1, 1}, 1)
		}(i)
	}
	wg.Wait()
	n, _ := s.Count(ctx, "c")
	assert.Equal(t, 1, n)
}
