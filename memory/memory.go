package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yonghwan-ko02/talereboot/core"
)

// NoHistory is the long-term summary before anything has been folded into it.
const NoHistory = "아직 지난 이야기가 없습니다."

// Defaults for Memory options.
const (
	DefaultThreshold   = 5
	DefaultExciseCount = 2
	DefaultMaxTurns    = 32
)

// Turn is one exchange between the player and the narrator.
type Turn struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// ShortTerm is an ordered, bounded list of turns trimmed from the front.
// It is not safe for concurrent use on its own; Memory guards it.
type ShortTerm struct {
	turns    []Turn
	maxTurns int
}

// Append adds a turn, dropping the oldest ones beyond the bound.
func (s *ShortTerm) Append(t Turn) {
	s.turns = append(s.turns, t)
	if s.maxTurns > 0 && len(s.turns) > s.maxTurns {
		s.turns = append([]Turn(nil), s.turns[len(s.turns)-s.maxTurns:]...)
	}
}

// Excise removes and returns the oldest n turns.
func (s *ShortTerm) Excise(n int) []Turn {
	n = min(max(n, 0), len(s.turns))
	out := append([]Turn(nil), s.turns[:n]...)
	s.turns = append([]Turn(nil), s.turns[n:]...)
	return out
}

// Len returns the number of retained turns.
func (s *ShortTerm) Len() int { return len(s.turns) }

// Turns returns a copy of the retained turns, oldest first.
func (s *ShortTerm) Turns() []Turn { return append([]Turn(nil), s.turns...) }

// LongTerm holds the running summary.
type LongTerm struct {
	summary string
}

// Summary returns the current summary.
func (l *LongTerm) Summary() string { return l.summary }

// Empty reports whether nothing has been folded yet.
func (l *LongTerm) Empty() bool { return l.summary == NoHistory }

// Folder merges excised turns into an existing summary.
type Folder interface {
	Fold(ctx context.Context, summary string, turns []Turn) (string, error)
}

// FolderFunc adapts a function to the Folder interface.
type FolderFunc func(ctx context.Context, summary string, turns []Turn) (string, error)

// Fold implements Folder.
func (f FolderFunc) Fold(ctx context.Context, summary string, turns []Turn) (string, error) {
	return f(ctx, summary, turns)
}

// Options configures Memory.
type Options struct {
	// Threshold is the short-term length above which a transfer is due.
	Threshold int
	// ExciseCount is the number of turns moved per transfer.
	ExciseCount int
	// MaxTurns hard-bounds short-term memory when no transfer runs.
	MaxTurns int
}

// Memory pairs short-term and long-term memory.
type Memory struct {
	mu    sync.RWMutex
	short ShortTerm
	long  LongTerm
	opts  Options
}

// New creates an empty memory.
func New(optFns ...func(o *Options)) *Memory {
	opts := Options{
		Threshold:   DefaultThreshold,
		ExciseCount: DefaultExciseCount,
		MaxTurns:    DefaultMaxTurns,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns > 0 && opts.MaxTurns <= opts.Threshold {
		opts.MaxTurns = opts.Threshold + 1
	}
	return &Memory{
		short: ShortTerm{maxTurns: opts.MaxTurns},
		long:  LongTerm{summary: NoHistory},
		opts:  opts,
	}
}

// Append records a turn in short-term memory.
func (m *Memory) Append(t Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.short.Append(t)
}

// TransferDue reports whether short-term memory exceeds the threshold.
func (m *Memory) TransferDue() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.short.Len() > m.opts.Threshold
}

// ExciseCount returns the configured number of turns moved per transfer.
func (m *Memory) ExciseCount() int { return m.opts.ExciseCount }

// Transfer excises the oldest n turns and folds them into the summary. The
// turns are removed even when folding fails; the summary is then left as it
// was and a Summarization error is returned.
func (m *Memory) Transfer(ctx context.Context, n int, folder Folder) error {
	m.mu.Lock()
	excised := m.short.Excise(n)
	summary := m.long.summary
	m.mu.Unlock()

	if len(excised) == 0 {
		return nil
	}

	updated, err := folder.Fold(ctx, summary, excised)
	if err != nil {
		return core.WrapError(core.CodeSummarization, "fold turns into summary", err)
	}
	updated = strings.TrimSpace(updated)
	if updated == "" {
		return core.NewError(core.CodeSummarization, "fold returned an empty summary")
	}

	m.mu.Lock()
	m.long.summary = updated
	m.mu.Unlock()
	return nil
}

// Snapshot is a point-in-time copy of both tiers.
type Snapshot struct {
	Summary string `json:"summary"`
	Turns   []Turn `json:"turns"`
}

// Snapshot returns a copy of the current memory.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Summary: m.long.summary, Turns: m.short.Turns()}
}

// FormatTranscript renders turns oldest first with the given speaker labels.
func FormatTranscript(turns []Turn, userLabel, aiLabel string) string {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n%s: %s\n", userLabel, t.User, aiLabel, t.AI)
	}
	return strings.TrimRight(b.String(), "\n")
}
