// Package classify maps free-text player actions onto ledger choices. The
// keyword classifier is the default used by the game façade; callers may
// supply their own Classifier.
package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/yonghwan-ko02/talereboot/ledger"
)

// Choice is a ledger entry derived from an action.
type Choice = ledger.Choice

// Classifier derives choices from a player action.
type Classifier interface {
	Classify(input string) []Choice
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(input string) []Choice

// Classify implements Classifier.
func (f ClassifierFunc) Classify(input string) []Choice { return f(input) }

// Rule records Key when the action contains any Trigger word and, if
// Subjects is non-empty, any Subject word as well.
type Rule struct {
	Key      string
	Triggers []string
	Subjects []string
}

func (r Rule) matches(lower string) bool {
	if !containsAny(lower, r.Triggers) {
		return false
	}
	return len(r.Subjects) == 0 || containsAny(lower, r.Subjects)
}

// Group is an ordered set of rules where only the first match fires.
type Group []Rule

var (
	refusals      = []string{"거부", "거절", "싫어", "안 해", "안해"}
	confrontation = []string{"대항", "맞서", "항의", "따지"}
	help          = []string{"도와", "돕", "협력"}
	escape        = []string{"떠나", "도망", "탈출"}
)

// DefaultGroups are the built-in Korean keyword rules.
func DefaultGroups() []Group {
	return []Group{
		{
			{Key: ledger.RefusedImpossibleTask, Triggers: refusals, Subjects: []string{"독", "물"}},
			{Key: ledger.RejectedToadHelp, Triggers: refusals, Subjects: []string{"두꺼비"}},
			{Key: ledger.RefusedMarriage, Triggers: refusals, Subjects: []string{"잔치", "결혼"}},
		},
		{{Key: ledger.ConfrontedStepmother, Triggers: confrontation, Subjects: []string{"새어머니", "계모"}}},
		{{Key: ledger.HelpedPatjwi, Triggers: help, Subjects: []string{"팥쥐"}}},
		{{Key: ledger.LeftHomeEarly, Triggers: escape}},
	}
}

// KeywordClassifier evaluates rule groups against the lower-cased action.
type KeywordClassifier struct {
	groups []Group
}

// NewKeywordClassifier creates a classifier from groups; nil uses DefaultGroups.
func NewKeywordClassifier(groups []Group) *KeywordClassifier {
	if groups == nil {
		groups = DefaultGroups()
	}
	return &KeywordClassifier{groups: groups}
}

// Classify implements Classifier. Every matched key is recorded as true.
// Input is NFC-normalized first so decomposed Hangul matches the keywords.
func (c *KeywordClassifier) Classify(input string) []Choice {
	lower := strings.ToLower(norm.NFC.String(input))
	var out []Choice
	for _, g := range c.groups {
		for _, r := range g {
			if r.matches(lower) {
				out = append(out, Choice{Key: r.Key, Value: true})
				break
			}
		}
	}
	return out
}

// Apply classifies input and records the result into l.
func Apply(c Classifier, l *ledger.Ledger, input string) []Choice {
	choices := c.Classify(input)
	for _, ch := range choices {
		l.RecordChoice(ch.Key, ch.Value)
	}
	return choices
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
