package ui

import (
	"strings"
	"testing"

	"lineterm/session"

	"github.com/gdamore/tcell/v2"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h)
	return screen
}

func TestLayoutWrapsAndExpandsTabs(t *testing.T) {
	rows := layout([]rune("abcdef\n\tx"), 4, true)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].start != 0 || rows[0].end != 4 || rows[1].start != 4 {
		t.Fatalf("unexpected wrap boundaries %+v %+v", rows[0], rows[1])
	}
	// the tab is wider than the row on its own and still occupies it
	if rows[2].start != 7 || len(rows[2].cells) != 8 {
		t.Fatalf("expected tab row of 8 cells, got %+v", rows[2])
	}

	flat := layout([]rune("abcdef"), 4, false)
	if len(flat) != 1 || len(flat[0].cells) != 6 {
		t.Fatalf("no-wrap layout should keep one row, got %+v", flat)
	}
}

func TestLayoutShowsControlCharacters(t *testing.T) {
	rows := layout([]rune("a\x1bb\r"), 10, true)
	var b strings.Builder
	for _, c := range rows[0].cells {
		b.WriteRune(c.ch)
	}
	if got := b.String(); got != "a^[b" {
		t.Fatalf("expected caret notation, got %q", got)
	}
}

func TestLocateAtWrapBoundary(t *testing.T) {
	rows := layout([]rune("abcdefgh"), 4, true)
	if r, c := locate(rows, 4); r != 1 || c != 0 {
		t.Fatalf("position 4 should start row 1, got %d,%d", r, c)
	}
	if r, c := locate(rows, 8); r != 1 || c != 4 {
		t.Fatalf("end of text should be after the last cell, got %d,%d", r, c)
	}
}

func TestTranscriptFollowsEnd(t *testing.T) {
	screen := newScreen(t, 10, 3)
	tr := NewTranscript(nil)
	tr.SetView(session.View{Text: []rune("1\n2\n3\n4\n5"), Cursor: 9, Output: 9})
	tr.Render(screen, 0, 0, 10, 3)

	if got := rowText(screen, 0, 10); got != "3" {
		t.Fatalf("expected last three lines, top row %q", got)
	}
	x, y, ok := tr.CursorPos()
	if !ok || x != 1 || y != 2 {
		t.Fatalf("unexpected cursor %d,%d,%v", x, y, ok)
	}
}

func TestTranscriptScrollBackShowsIndicator(t *testing.T) {
	screen := newScreen(t, 20, 3)
	tr := NewTranscript(nil)
	tr.SetView(session.View{Text: []rune("1\n2\n3\n4\n5\n6"), Cursor: 11, Output: 11})
	tr.Render(screen, 0, 0, 20, 3)

	tr.HandleKey(tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone))
	tr.Render(screen, 0, 0, 20, 3)
	if got := rowText(screen, 0, 20); !strings.HasPrefix(got, "1") || !strings.Contains(got, "↓ 3 lines") {
		t.Fatalf("expected scrolled view with indicator, got %q", got)
	}
	if _, _, ok := tr.CursorPos(); ok {
		t.Fatalf("cursor should be off screen")
	}

	tr.Scroll(10)
	tr.Render(screen, 0, 0, 20, 3)
	if got := rowText(screen, 2, 20); got != "6" {
		t.Fatalf("scrolling past the end should pin again, got %q", got)
	}
}

func TestTranscriptHoldsViewWithoutAutoscroll(t *testing.T) {
	screen := newScreen(t, 20, 2)
	tr := NewTranscript(nil)
	tr.Autoscroll = false
	tr.SetView(session.View{Text: []rune("a\nb"), Cursor: 3, Output: 3})
	tr.Render(screen, 0, 0, 20, 2)

	tr.OutputArrived()
	tr.SetView(session.View{Text: []rune("a\nb\nc\nd"), Cursor: 7, Output: 7})
	tr.Render(screen, 0, 0, 20, 2)
	if got := rowText(screen, 0, 20); !strings.HasPrefix(got, "a") {
		t.Fatalf("view should stay put without autoscroll, got %q", got)
	}
}

func TestStatusBarRender(t *testing.T) {
	screen := newScreen(t, 60, 1)
	sb := NewStatusBar()
	sb.Command = "bash"
	sb.Lines = 12
	sb.Autoscroll = false
	sb.Render(screen, 0, 0, 60, 1)

	got := rowText(screen, 0, 60)
	if !strings.HasPrefix(got, " RUN  bash") {
		t.Fatalf("unexpected left side %q", got)
	}
	if !strings.HasSuffix(got, "Ln 12 │ wrap │ noautoscroll │ UTF-8") {
		t.Fatalf("unexpected right side %q", got)
	}
}
