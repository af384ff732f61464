package ledger

// Ending is the projected story ending derived from the reboot score.
type Ending string

const (
	// EndingOriginal follows the canonical story.
	EndingOriginal Ending = "original"
	// EndingReboot is the alternative story path.
	EndingReboot Ending = "reboot"
	// EndingNeutral is a mixed, still undecided path.
	EndingNeutral Ending = "neutral"
)

const (
	// OriginalMaxScore is the highest score (inclusive) that keeps the original ending.
	OriginalMaxScore = 20
	// RebootMinScore is the lowest score (inclusive) that yields the reboot ending.
	RebootMinScore = 60
)

// EndingForScore maps a reboot score onto an Ending.
func EndingForScore(score int) Ending {
	switch {
	case score >= RebootMinScore:
		return EndingReboot
	case score <= OriginalMaxScore:
		return EndingOriginal
	default:
		return EndingNeutral
	}
}

// String implements fmt.Stringer.
func (e Ending) String() string { return string(e) }
