package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/model"
	"github.com/yonghwan-ko02/talereboot/narrator"
)

// Interface compliance (compile-time assertion)
var _ Store = (*InMemoryStore)(nil)

func newSession(t *testing.T, id string) *Session {
	t.Helper()
	n, err := narrator.New(model.NewMockModel("mock", "mock"), nil)
	require.NoError(t, err)
	return New(id, n)
}

func TestNew_GeneratesID(t *testing.T) {
	s := newSession(t, "")
	assert.Len(t, s.ID, 36)
	assert.NotNil(t, s.Ledger())
	assert.Same(t, s.Narrator().Ledger(), s.Ledger())
	assert.False(t, s.CreatedAt.IsZero())
}

func TestNew_ModelCallBudget(t *testing.T) {
	assert.Equal(t, -1, newSession(t, "free").Limiter().Remaining())

	n, err := narrator.New(model.NewMockModel("mock", "mock"), nil)
	require.NoError(t, err)
	s := New("capped", n, func(o *Options) { o.MaxModelCalls = 1 })
	require.NoError(t, s.Limiter().Acquire())
	assert.ErrorIs(t, s.Limiter().Acquire(), core.ErrLimitExceeded)

	shared := core.NewCallLimiter(3)
	s = New("shared", n, func(o *Options) { o.Limiter = shared; o.MaxModelCalls = 1 })
	assert.Same(t, shared, s.Limiter())
	assert.Equal(t, 3, s.Limiter().Remaining())
}

func TestSession_TurnsAndCredential(t *testing.T) {
	s := newSession(t, "s1")
	assert.Equal(t, 0, s.Turns())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Lock(func() error {
				s.NextTurn()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 10, s.Turns())

	s.SetCredential("player-key")
	assert.Equal(t, "player-key", s.Credential())
}

func TestInMemoryStore(t *testing.T) {
	st := NewInMemoryStore()
	a, b := newSession(t, "b"), newSession(t, "a")
	require.NoError(t, st.Put(a))
	require.NoError(t, st.Put(b))
	assert.Equal(t, []string{"a", "b"}, st.IDs())

	got, err := st.Get("a")
	require.NoError(t, err)
	assert.Same(t, b, got)

	require.NoError(t, st.Delete("a"))
	_, err = st.Get("a")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.ErrorIs(t, st.Delete("a"), core.ErrSessionNotFound)
	assert.ErrorIs(t, st.Put(nil), core.ErrInvalidArgument)
}
