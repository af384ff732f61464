package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := WrapError(CodeNotFound, "story file not found: x.txt", errors.New("enoent"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrIO)
	assert.Equal(t, "story file not found: x.txt: enoent", err.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	inner := Errorf(CodeInvalidPersona, "unknown persona %q", "pirate")
	outer := fmt.Errorf("set persona: %w", inner)

	assert.ErrorIs(t, outer, ErrInvalidPersona)

	var domainErr *Error
	assert.True(t, errors.As(outer, &domainErr))
	assert.Equal(t, CodeInvalidPersona, domainErr.Code)
}

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := WrapError(CodeGeneration, "generate story", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, Message{Role: RoleSystem, Text: "s"}, SystemMessage("s"))
	assert.Equal(t, Message{Role: RoleUser, Text: "u"}, UserMessage("u"))
	assert.Equal(t, Message{Role: RoleAssistant, Text: "a"}, AssistantMessage("a"))
}
