package lore

import (
	"context"
	"fmt"

	"github.com/yonghwan-ko02/talereboot/embedding"
	"github.com/yonghwan-ko02/talereboot/vectorstore"
)

// Index is an immutable handle over a built vector collection and the embedder
// used to turn queries into vectors.
type Index struct {
	store      vectorstore.Store
	collection string
	embedder   embedding.Embedder
}

// NewIndex creates a handle for an existing collection.
func NewIndex(store vectorstore.Store, collection string, embedder embedding.Embedder) *Index {
	return &Index{store: store, collection: collection, embedder: embedder}
}

// Collection returns the collection identifier.
func (ix *Index) Collection() string { return ix.collection }

// WithEmbedder returns a new handle over the same collection that embeds
// queries with e. The receiver is not modified.
func (ix *Index) WithEmbedder(e embedding.Embedder) *Index {
	return &Index{store: ix.store, collection: ix.collection, embedder: e}
}

// Search returns the texts of the k chunks most similar to query.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]string, error) {
	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := ix.store.Query(ctx, ix.collection, vec, k)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", ix.collection, err)
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Text
	}
	return out, nil
}
