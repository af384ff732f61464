package ledger

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Reboot indicator keys. Recording any of them with a truthy value moves the
// story away from the canonical path.
const (
	RefusedImpossibleTask = "refused_impossible_task"
	RejectedToadHelp      = "rejected_toad_help"
	SkippedFestival       = "skipped_festival"
	RefusedMarriage       = "refused_marriage"
	ConfrontedStepmother  = "confronted_stepmother"
	HelpedPatjwi          = "helped_patjwi"
	LeftHomeEarly         = "left_home_early"
)

// RebootIndicators is the ordered indicator list used for scoring. Entries are
// counted per slot, so HelpedPatjwi (listed twice) fills two of the eight slots.
var RebootIndicators = []string{
	RefusedImpossibleTask,
	RejectedToadHelp,
	SkippedFestival,
	RefusedMarriage,
	ConfrontedStepmother,
	HelpedPatjwi,
	HelpedPatjwi,
	LeftHomeEarly,
}

// Choice is a single recorded decision.
type Choice struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Ledger records player choices in insertion order together with the scene state.
type Ledger struct {
	mu         sync.RWMutex
	order      []string
	values     map[string]any
	indicators []string
	scene      Scene
}

// New creates an empty ledger positioned at the initial scene.
func New(optFns ...func(o *Options)) *Ledger {
	opts := Options{Indicators: RebootIndicators}
	for _, fn := range optFns {
		fn(&opts)
	}
	indicators := make([]string, len(opts.Indicators))
	copy(indicators, opts.Indicators)
	return &Ledger{
		values:     make(map[string]any),
		indicators: indicators,
		scene:      InitialScene(),
	}
}

// Options configures a Ledger.
type Options struct {
	// Indicators overrides the indicator list used for scoring.
	Indicators []string
}

// RecordChoice upserts a choice. Keys are not validated against the indicator
// vocabulary; re-recording a key keeps its original position.
func (l *Ledger) RecordChoice(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.values[key]; !ok {
		l.order = append(l.order, key)
	}
	l.values[key] = value
}

// Choice returns the recorded value and whether the key is present.
func (l *Ledger) Choice(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// Choices returns all choices in insertion order.
func (l *Ledger) Choices() []Choice {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Choice, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, Choice{Key: k, Value: l.values[k]})
	}
	return out
}

// RebootScore returns floor(100 * hits / len(indicators)) in [0,100].
func (l *Ledger) RebootScore() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scoreLocked()
}

func (l *Ledger) scoreLocked() int {
	if len(l.values) == 0 || len(l.indicators) == 0 {
		return 0
	}
	hits := 0
	for _, key := range l.indicators {
		if truthy(l.values[key]) {
			hits++
		}
	}
	return hits * 100 / len(l.indicators)
}

// DetermineEnding derives the projected ending from the current score.
func (l *Ledger) DetermineEnding() Ending {
	return EndingForScore(l.RebootScore())
}

// UpdateScene sets the scene state. Any chapter name is accepted.
func (l *Ledger) UpdateScene(chapter string, status SceneStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scene = Scene{Chapter: chapter, Status: status}
}

// Scene returns a copy of the scene state.
func (l *Ledger) Scene() Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scene
}

// StateSummary renders chapter, status, score, ending and the ordered choice list.
func (l *Ledger) StateSummary() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	score := l.scoreLocked()
	var b strings.Builder
	fmt.Fprintf(&b, "Chapter: %s (%s)\n", l.scene.Chapter, l.scene.Status)
	fmt.Fprintf(&b, "Reboot score: %d/100\n", score)
	fmt.Fprintf(&b, "Projected ending: %s\n", EndingForScore(score))
	b.WriteString("Choices:\n")
	for _, k := range l.order {
		fmt.Fprintf(&b, "  - %s: %v\n", k, l.values[k])
	}
	return b.String()
}

// truthy mirrors how a recorded value counts toward the score: booleans by
// value, numbers when non-zero, strings and collections when non-empty,
// pointers when non-nil. Other values count.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.UnsafePointer:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	default:
		return !rv.IsZero()
	}
}
