package ledger

// SceneStatus reports whether the current chapter's obstacle has been overcome.
type SceneStatus string

const (
	// StatusUnresolved means the chapter's central obstacle is still open.
	StatusUnresolved SceneStatus = "unresolved"
	// StatusResolved means the player resolved the obstacle.
	StatusResolved SceneStatus = "resolved"
)

// Chapter identifiers of the Kongjwi story arc.
const (
	ChapterHouse    = "chapter_1_house"
	ChapterField    = "chapter_2_field"
	ChapterFestival = "chapter_3_festival"
	ChapterShoe     = "chapter_4_shoe"
	ChapterEnding   = "chapter_5_ending"
)

// InitialChapter is the chapter every new ledger starts in.
const InitialChapter = ChapterHouse

// Scene is a snapshot of the scene state.
type Scene struct {
	Chapter string      `json:"chapter"`
	Status  SceneStatus `json:"status"`
}

// InitialScene returns the scene state of a fresh session.
func InitialScene() Scene {
	return Scene{Chapter: InitialChapter, Status: StatusUnresolved}
}
