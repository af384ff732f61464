package lore

// Chunking defaults.
const (
	ChunkSize    = 1000
	ChunkOverlap = 200
)

// Chunk is one window of the loaded book.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// SplitText cuts text into windows of size code points, consecutive windows
// sharing overlap code points. The last window ends at the end of text.
func SplitText(text string, size, overlap int) []Chunk {
	if size <= 0 {
		size = ChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	stride := size - overlap
	var chunks []Chunk
	for start := 0; ; start += stride {
		end := min(start+size, len(runes))
		chunks = append(chunks, Chunk{Index: len(chunks), Text: string(runes[start:end])})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
