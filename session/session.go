package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/ledger"
	"github.com/yonghwan-ko02/talereboot/narrator"
)

// Session is one player's game.
type Session struct {
	ID        string
	CreatedAt time.Time

	turnMu   sync.Mutex // held for the duration of a turn
	narrator *narrator.Narrator
	limiter  *core.CallLimiter

	mu         sync.RWMutex
	turns      int
	credential string
}

// Options configures a Session.
type Options struct {
	// MaxModelCalls bounds the model calls made for this session; 0 means unlimited.
	MaxModelCalls int
	// Limiter, when set, is used as the session budget instead of a new one
	// built from MaxModelCalls. Share it with the narrator so every model
	// call it makes is counted.
	Limiter *core.CallLimiter
}

// New creates a session around n. An empty id gets a random UUID.
func New(id string, n *narrator.Narrator, optFns ...func(o *Options)) *Session {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if id == "" {
		id = uuid.NewString()
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = core.NewCallLimiter(opts.MaxModelCalls)
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		narrator:  n,
		limiter:   limiter,
	}
}

// Limiter returns the session's model call budget.
func (s *Session) Limiter() *core.CallLimiter { return s.limiter }

// Narrator returns the session's narrator.
func (s *Session) Narrator() *narrator.Narrator { return s.narrator }

// Ledger returns the session's choice ledger.
func (s *Session) Ledger() *ledger.Ledger { return s.narrator.Ledger() }

// Lock runs fn while holding the session's turn lock, so a turn observes the
// fully updated state of the previous one.
func (s *Session) Lock(fn func() error) error {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	return fn()
}

// NextTurn increments and returns the turn counter.
func (s *Session) NextTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns++
	return s.turns
}

// Turns returns the number of completed turns.
func (s *Session) Turns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turns
}

// SetCredential stores the player's own provider credential, used for
// request-scoped retrieval. An empty value clears it.
func (s *Session) SetCredential(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = c
}

// Credential returns the stored player credential.
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}
