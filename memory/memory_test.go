package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/yonghwan-ko02/talereboot/core"
)

func fill(m *Memory, n int) {
	for i := 0; i < n; i++ {
		m.Append(Turn{User: fmt.Sprintf("Turn %d User Choice", i), AI: fmt.Sprintf("Turn %d AI Response", i)})
	}
}

func TestMemory_TransferSixToFour(t *testing.T) {
	m := New()
	fill(m, 6)
	if !m.TransferDue() {
		t.Fatalf("expected transfer to be due with 6 turns")
	}

	var folded []Turn
	folder := FolderFunc(func(_ context.Context, summary string, turns []Turn) (string, error) {
		if summary != NoHistory {
			t.Fatalf("unexpected prior summary %q", summary)
		}
		folded = turns
		return "요약됨: 콩쥐는 독에 물 붓기를 포기하고 두꺼비와 협상했습니다.", nil
	})

	if err := m.Transfer(context.Background(), m.ExciseCount(), folder); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	snap := m.Snapshot()
	if len(snap.Turns) != 4 {
		t.Fatalf("expected 4 turns, got %d", len(snap.Turns))
	}
	if snap.Turns[0].User != "Turn 2 User Choice" {
		t.Fatalf("oldest turns should be excised, first is %q", snap.Turns[0].User)
	}
	if len(folded) != 2 || folded[1].AI != "Turn 1 AI Response" {
		t.Fatalf("unexpected folded turns %#v", folded)
	}
	if snap.Summary == NoHistory || !strings.Contains(snap.Summary, "요약됨") {
		t.Fatalf("summary not updated: %q", snap.Summary)
	}
	if m.TransferDue() {
		t.Fatalf("transfer should no longer be due")
	}
}

func TestMemory_TransferFailureKeepsSummaryDropsTurns(t *testing.T) {
	m := New()
	fill(m, 6)

	err := m.Transfer(context.Background(), 2, FolderFunc(func(context.Context, string, []Turn) (string, error) {
		return "", errors.New("provider down")
	}))
	if !errors.Is(err, core.ErrSummarization) {
		t.Fatalf("expected summarization error, got %v", err)
	}
	snap := m.Snapshot()
	if snap.Summary != NoHistory {
		t.Fatalf("summary should be stale, got %q", snap.Summary)
	}
	if len(snap.Turns) != 4 {
		t.Fatalf("excised turns should be dropped, got %d turns", len(snap.Turns))
	}
}

func TestMemory_EmptyFoldIsFailure(t *testing.T) {
	m := New()
	fill(m, 3)
	err := m.Transfer(context.Background(), 2, FolderFunc(func(context.Context, string, []Turn) (string, error) {
		return "   ", nil
	}))
	if !errors.Is(err, core.ErrSummarization) {
		t.Fatalf("expected summarization error, got %v", err)
	}
}

func TestMemory_TransferNothing(t *testing.T) {
	m := New()
	called := false
	err := m.Transfer(context.Background(), 2, FolderFunc(func(context.Context, string, []Turn) (string, error) {
		called = true
		return "x", nil
	}))
	if err != nil || called {
		t.Fatalf("empty memory must not fold (err=%v called=%v)", err, called)
	}
}

func TestShortTerm_Bound(t *testing.T) {
	m := New(func(o *Options) { o.MaxTurns = 7 })
	fill(m, 10)
	snap := m.Snapshot()
	if len(snap.Turns) != 7 {
		t.Fatalf("expected 7 turns, got %d", len(snap.Turns))
	}
	if snap.Turns[0].User != "Turn 3 User Choice" {
		t.Fatalf("front should be trimmed, got %q", snap.Turns[0].User)
	}
}

func TestShortTerm_Excise(t *testing.T) {
	var s ShortTerm
	s.Append(Turn{User: "a"})
	s.Append(Turn{User: "b"})
	if got := s.Excise(5); len(got) != 2 || s.Len() != 0 {
		t.Fatalf("excise beyond length: got %d left %d", len(got), s.Len())
	}
	if got := s.Excise(-1); len(got) != 0 {
		t.Fatalf("negative excise should be empty")
	}
}

func TestMemory_SnapshotIsolation(t *testing.T) {
	m := New()
	fill(m, 2)
	snap := m.Snapshot()
	snap.Turns[0].User = "changed"
	if m.Snapshot().Turns[0].User == "changed" {
		t.Fatalf("snapshot must be a copy")
	}
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript([]Turn{{User: "u1", AI: "a1"}, {User: "u2", AI: "a2"}}, "Player", "Narrator")
	want := "Player: u1\nNarrator: a1\nPlayer: u2\nNarrator: a2"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if FormatTranscript(nil, "P", "N") != "" {
		t.Fatalf("empty transcript should be empty")
	}
}
