package lore

import (
	"sort"
	"strings"
)

// DefaultPlaceholder is returned when no book has been loaded.
const DefaultPlaceholder = "콩쥐팥쥐 이야기를 참고하세요."

// keywordSearch ranks chunks by how many query tokens (duplicates included)
// occur in them. With no hit it returns the opening chunk so the narrator is
// never left without context.
func keywordSearch(chunks []Chunk, query string, k int, placeholder string) []string {
	if len(chunks) == 0 {
		return []string{placeholder}
	}

	tokens := strings.Fields(strings.ToLower(query))
	type scored struct {
		score int
		text  string
	}
	var hits []scored
	for _, c := range chunks {
		lower := strings.ToLower(c.Text)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{score: score, text: c.Text})
		}
	}
	if len(hits) == 0 {
		return []string{chunks[0].Text}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.text
	}
	return out
}
