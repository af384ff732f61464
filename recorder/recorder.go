// Package recorder keeps a transcript of played turns. A Recorder is injected
// into the game; nothing is written through package-level state.
package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/yonghwan-ko02/talereboot/ledger"
)

// Entry is one recorded turn together with the resulting game state.
type Entry struct {
	SessionID string          `json:"session_id"`
	Turn      int             `json:"turn"`
	Persona   string          `json:"persona"`
	Input     string          `json:"input"`
	Output    string          `json:"output"`
	Choices   []ledger.Choice `json:"choices,omitempty"` // choices derived from this turn
	Score     int             `json:"score"`
	Ending    ledger.Ending   `json:"ending"`
	Scene     ledger.Scene    `json:"scene"`
	CreatedAt time.Time       `json:"created_at"`
}

// Recorder persists entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// NoOp discards every entry.
type NoOp struct{}

// Record implements Recorder.
func (NoOp) Record(context.Context, Entry) error { return nil }

// InMemory keeps entries in process, mainly for tests and the console example.
type InMemory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewInMemory creates an empty in-memory recorder.
func NewInMemory() *InMemory { return &InMemory{} }

// Record implements Recorder.
func (r *InMemory) Record(_ context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

// Entries returns the entries of sessionID in record order; an empty id returns all.
func (r *InMemory) Entries(sessionID string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, e := range r.entries {
		if sessionID == "" || e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}
