// Package vectorstore defines the vector persistence contract used by the lore
// keeper: named collections of embedded chunks queried by cosine similarity.
// The in-memory store below suits tests and ephemeral sessions; the sqlite
// sub-package persists collections to disk.
package vectorstore

import (
	"context"
	"math"
	"sort"

	"github.com/yonghwan-ko02/talereboot/core"
)

// Record is one embedded chunk stored in a collection.
type Record struct {
	ID     string
	Index  int // position of the chunk in its source text
	Text   string
	Vector []float32
}

// Match is a Record ranked against a query vector.
type Match struct {
	Record
	Score float32
}

// Store persists and queries collections of records.
type Store interface {
	// Replace atomically swaps the collection's content for records.
	Replace(ctx context.Context, collection string, records []Record) error
	// Query returns up to k records ordered by descending similarity.
	Query(ctx context.Context, collection string, vector []float32, k int) ([]Match, error)
	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int, error)
}

// ErrCollectionNotFound is returned when querying a collection that was never written.
var ErrCollectionNotFound = core.NewError(core.CodeNotFound, "vector collection not found")

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched lengths or zero vectors.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// Rank scores records against vector and returns the top k (all when k <= 0).
// Ties keep the records' original order.
func Rank(records []Record, vector []float32, k int) []Match {
	matches := make([]Match, 0, len(records))
	for _, r := range records {
		matches = append(matches, Match{Record: r, Score: CosineSimilarity(vector, r.Vector)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches
}
