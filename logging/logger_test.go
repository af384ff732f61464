package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger = (*StructuredLogger)(nil)
	_ Logger = (*SlogAdapter)(nil)
	_ Logger = NoOpLogger{}
)

func newBufferLogger(level LogLevel) (*StructuredLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: buf}), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestStructuredLogger_KeyValueArgs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l.WithComponent("lore").WithSession("s-1").Info("index built", "chunks", 3)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "index built", lines[0]["msg"])
	assert.Equal(t, "lore", lines[0]["component"])
	assert.Equal(t, "s-1", lines[0]["session_id"])
	assert.Equal(t, float64(3), lines[0]["chunks"])
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too")

	assert.Len(t, decodeLines(t, buf), 2)
}

func TestStructuredLogger_WithContextDoesNotLeak(t *testing.T) {
	base, buf := newBufferLogger(LogLevelInfo)
	child := base.WithContext("turn", 2)
	base.Info("base")
	child.Info("child")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "turn")
	assert.Equal(t, float64(2), lines[1]["turn"])
}

func TestLogLLMCall(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	LogLLMCall(l, "gemini-2.0-flash", "google", time.Millisecond, nil)
	LogLLMCall(l, "gemini-2.0-flash", "google", time.Millisecond, errors.New("quota"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "LLM call completed", lines[0]["msg"])
	assert.Equal(t, "DEBUG", lines[0]["level"])
	assert.Equal(t, true, lines[0]["success"])
	assert.Equal(t, "LLM call failed", lines[1]["msg"])
	assert.Equal(t, "quota", lines[1]["error"])
	assert.Equal(t, "google", lines[1]["provider"])
}

func TestLogRetrievalAndTimer(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	LogRetrieval(l, "keyword", 2, time.Millisecond)
	done := StartTimer(l, "build_index")
	done("chunks", 4)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "keyword", lines[0]["mode"])
	assert.Equal(t, float64(2), lines[0]["results"])
	assert.Equal(t, "build_index", lines[1]["operation"])
	assert.Equal(t, float64(4), lines[1]["chunks"])
	assert.Contains(t, lines[1], "duration")
}

func TestForSession(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	ForSession(l, "s-9").Info("turn played")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "s-9", lines[0]["session_id"])

	assert.IsType(t, NoOpLogger{}, ForSession(nil, "s-9"))
	plain := NewDefaultSlogLogger()
	assert.Same(t, plain, ForSession(plain, "s-9"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("bogus"))
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
