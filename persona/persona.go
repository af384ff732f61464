// Package persona holds the narrator's system-prompt profiles. Each profile
// is a text/template rendered with the narrative language, so one registry
// serves any target language.
package persona

import (
	"github.com/yonghwan-ko02/talereboot/core"
	"github.com/yonghwan-ko02/talereboot/internal/util"
)

// Reserved and default profile ids.
const (
	// CustomID marks a prompt injected directly rather than chosen from the registry.
	CustomID = "custom"
	// DefaultID is the profile used when none is configured.
	DefaultID = "classic"
)

// CustomDescription describes the custom state.
const CustomDescription = "🎨 커스텀 - 사용자 정의 프롬프트"

// Profile is a named system prompt.
type Profile struct {
	ID             string `json:"id"`
	PromptTemplate string `json:"prompt_template"`
	Description    string `json:"description"`
}

// Vars are the values available to a profile template.
type Vars struct {
	Language string
}

// Render expands the profile template.
func (p Profile) Render(v Vars) (string, error) {
	return util.RenderTemplate(p.PromptTemplate, map[string]any{"Language": v.Language})
}

// Registry is an ordered, immutable set of profiles.
type Registry struct {
	order    []string
	profiles map[string]Profile
}

// NewRegistry builds a registry. Later profiles with a duplicate id replace
// earlier ones; the reserved custom id is ignored.
func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if p.ID == "" || p.ID == CustomID {
			continue
		}
		if _, ok := r.profiles[p.ID]; !ok {
			r.order = append(r.order, p.ID)
		}
		r.profiles[p.ID] = p
	}
	return r
}

// Get returns the profile for id.
func (r *Registry) Get(id string) (Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, core.Errorf(core.CodeInvalidPersona, "unknown persona %q", id)
	}
	return p, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.profiles[id]
	return ok
}

// IDs lists the registered ids in registration order.
func (r *Registry) IDs() []string { return append([]string(nil), r.order...) }

// Description returns the description for id, including the custom state.
func (r *Registry) Description(id string) (string, error) {
	if id == CustomID {
		return CustomDescription, nil
	}
	p, err := r.Get(id)
	if err != nil {
		return "", err
	}
	return p.Description, nil
}
