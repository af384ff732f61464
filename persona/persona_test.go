package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonghwan-ko02/talereboot/core"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"classic", "dialect", "cynical", "modern", "poetic", "radical"}, r.IDs())
	assert.False(t, r.Has(CustomID))

	for _, id := range r.IDs() {
		p, err := r.Get(id)
		require.NoError(t, err)
		assert.NotEmpty(t, p.Description)

		prompt, err := p.Render(Vars{Language: "Korean"})
		require.NoError(t, err)
		assert.Contains(t, prompt, "in Korean.")
		assert.NotContains(t, prompt, "{{")
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := DefaultRegistry()
	_, err := r.Get("nonexistent")
	assert.ErrorIs(t, err, core.ErrInvalidPersona)

	_, err = r.Description("nonexistent")
	assert.ErrorIs(t, err, core.ErrInvalidPersona)

	desc, err := r.Description(CustomID)
	require.NoError(t, err)
	assert.Equal(t, CustomDescription, desc)
}

func TestNewRegistry_SkipsReservedAndDedupes(t *testing.T) {
	r := NewRegistry(
		Profile{ID: "a", Description: "first"},
		Profile{ID: CustomID, Description: "nope"},
		Profile{ID: "b"},
		Profile{ID: "a", Description: "second"},
	)
	assert.Equal(t, []string{"a", "b"}, r.IDs())
	p, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "second", p.Description)
}
