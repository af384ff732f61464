package narrator

import "github.com/yonghwan-ko02/talereboot/ledger"

// Chapter is one node of the story arc.
type Chapter struct {
	ID       string
	Next     string // empty for the final chapter
	Obstacle string // central obstacle described to the model
}

// Chapters maps chapter ids to their definition.
type Chapters map[string]Chapter

// DefaultChapters is the five-chapter arc of the tale.
func DefaultChapters() Chapters {
	return NewChapters(
		Chapter{ID: ledger.ChapterHouse, Next: ledger.ChapterField,
			Obstacle: "the stepmother's order to fill a bottomless water jar"},
		Chapter{ID: ledger.ChapterField, Next: ledger.ChapterFestival,
			Obstacle: "hoeing a stony field with a wooden hoe"},
		Chapter{ID: ledger.ChapterFestival, Next: ledger.ChapterShoe,
			Obstacle: "the rice that must be hulled before going to the magistrate's feast"},
		Chapter{ID: ledger.ChapterShoe, Next: ledger.ChapterEnding,
			Obstacle: "the lost flower shoe and the magistrate's search for its owner"},
		Chapter{ID: ledger.ChapterEnding,
			Obstacle: "the final scheme of Patjwi and the stepmother"},
	)
}

// NewChapters indexes chapters by id.
func NewChapters(chapters ...Chapter) Chapters {
	out := make(Chapters, len(chapters))
	for _, c := range chapters {
		out[c.ID] = c
	}
	return out
}

// Next returns the successor of id, if any.
func (c Chapters) Next(id string) (string, bool) {
	ch, ok := c[id]
	if !ok || ch.Next == "" {
		return "", false
	}
	return ch.Next, true
}

// Obstacle returns the obstacle text for id, or a generic description.
func (c Chapters) Obstacle(id string) string {
	if ch, ok := c[id]; ok && ch.Obstacle != "" {
		return ch.Obstacle
	}
	return "the central problem of the current scene"
}
