package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"lineterm/config"
	"lineterm/control"
	"lineterm/session"

	"github.com/gdamore/tcell/v2"
)

type fakeChild struct {
	sent   []string
	cc     map[control.Signal]byte
	rows   int
	cols   int
	chunks []string
}

func newFakeChild() *fakeChild {
	return &fakeChild{cc: map[control.Signal]byte{
		control.Interrupt: 0x03,
		control.EOF:       0x04,
		control.Suspend:   0x1a,
		control.Quit:      0x1c,
	}}
}

func (f *fakeChild) Send(p []byte) error {
	f.sent = append(f.sent, string(p))
	return nil
}

func (f *fakeChild) Pump(sink func([]byte)) error {
	for _, c := range f.chunks {
		sink([]byte(c))
	}
	return nil
}
func (f *fakeChild) Cwd() (string, error)        { return "/", nil }
func (f *fakeChild) Executable() (string, error) { return "/bin/sh", nil }
func (f *fakeChild) Close() error                { return nil }
func (f *fakeChild) ExitCode() int               { return 0 }

func (f *fakeChild) Lookup(sig control.Signal) (byte, bool, error) {
	b, ok := f.cc[sig]
	return b, ok, nil
}

func (f *fakeChild) Resize(rows, cols int) error {
	f.rows, f.cols = rows, cols
	return nil
}

func newTestApp(t *testing.T) (*App, *fakeChild, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 10)
	child := newFakeChild()
	app := newApp(context.Background(), screen, child, config.Default())
	app.statusBar.Command = "sh"
	return app, child, screen
}

func typeText(app *App, text string) {
	for _, r := range text {
		app.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func pressKey(app *App, key tcell.Key) {
	app.handleEvent(tcell.NewEventKey(key, 0, tcell.ModNone))
}

func pressAlt(app *App, r rune) {
	app.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModAlt))
}

func rowText(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestAppSubmitsTypedLine(t *testing.T) {
	app, child, _ := newTestApp(t)
	typeText(app, "ls")
	if len(child.sent) != 0 {
		t.Fatalf("nothing should be sent before Enter, got %q", child.sent)
	}
	pressKey(app, tcell.KeyEnter)
	if len(child.sent) != 1 || child.sent[0] != "ls\n" {
		t.Fatalf("expected one submitted line, got %q", child.sent)
	}
}

func TestAppInterruptKeepsPendingInput(t *testing.T) {
	app, child, _ := newTestApp(t)
	typeText(app, "ab")
	app.handleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	if len(child.sent) != 1 || child.sent[0] != "\x03" {
		t.Fatalf("expected interrupt byte, got %q", child.sent)
	}
	if got := app.sess.Pending(); got != "ab" {
		t.Fatalf("pending input should survive the interrupt, got %q", got)
	}
}

func TestAppBracketedPasteSubmitsCompletedLines(t *testing.T) {
	app, child, _ := newTestApp(t)
	app.handleEvent(tcell.NewEventPaste(true))
	typeText(app, "one")
	pressKey(app, tcell.KeyEnter)
	typeText(app, "two")
	pressKey(app, tcell.KeyEnter)
	typeText(app, "th")
	app.handleEvent(tcell.NewEventPaste(false))

	if len(child.sent) != 2 || child.sent[0] != "one\n" || child.sent[1] != "two\n" {
		t.Fatalf("expected two submitted lines, got %q", child.sent)
	}
	if got := app.sess.Pending(); got != "th" {
		t.Fatalf("expected trailing text pending, got %q", got)
	}
}

func TestAppRendersChildOutputAndInput(t *testing.T) {
	app, _, screen := newTestApp(t)
	app.handleEvent(&ChildOutputEvent{Data: []byte("hello\n$ ")})
	typeText(app, "echo")
	app.render()

	if got := rowText(screen, 0, 40); got != "hello" {
		t.Fatalf("row 0: expected child output, got %q", got)
	}
	if got := rowText(screen, 1, 40); got != "$ echo" {
		t.Fatalf("row 1: expected prompt and input, got %q", got)
	}
	if got := rowText(screen, 9, 40); !strings.HasPrefix(got, " RUN  sh") {
		t.Fatalf("status bar: got %q", got)
	}
}

func TestAppChildExitEndsSession(t *testing.T) {
	app, child, _ := newTestApp(t)
	app.handleEvent(&ChildExitEvent{})
	if app.sess.State() != session.StateTerminated {
		t.Fatalf("session should be terminated")
	}
	if app.statusBar.Mode != "EXIT" {
		t.Fatalf("status mode should be EXIT, got %q", app.statusBar.Mode)
	}
	typeText(app, "x")
	pressKey(app, tcell.KeyEnter)
	if len(child.sent) != 0 {
		t.Fatalf("input after exit must not reach the child, got %q", child.sent)
	}
	if !app.statusBar.IsError {
		t.Fatalf("rejected input should be reported")
	}
	pressKey(app, tcell.KeyCtrlQ)
	if !app.quit {
		t.Fatalf("Ctrl+Q should quit once the child has exited")
	}
}

func TestAppQuitAsksWhileChildRuns(t *testing.T) {
	app, _, _ := newTestApp(t)
	pressKey(app, tcell.KeyCtrlQ)
	if app.quit || app.dialog == nil || app.dialog.Type != DialogQuitConfirm {
		t.Fatalf("expected quit confirmation")
	}
	typeText(app, "n")
	if app.quit || app.dialog != nil {
		t.Fatalf("answering no should close the dialog and keep running")
	}
	if got := app.sess.Pending(); got != "" {
		t.Fatalf("dialog keys must not reach the input, got %q", got)
	}
	pressKey(app, tcell.KeyCtrlQ)
	pressKey(app, tcell.KeyCtrlQ)
	if !app.quit {
		t.Fatalf("second Ctrl+Q should confirm")
	}
}

func TestAppPaletteSendsSignal(t *testing.T) {
	app, child, _ := newTestApp(t)
	pressAlt(app, 'p')
	if app.palette == nil {
		t.Fatalf("Alt+P should open the palette")
	}
	typeText(app, "send quit")
	if len(app.palette.Filtered) == 0 || app.palette.Filtered[0].Name != "Send quit" {
		t.Fatalf("unexpected palette filter result %+v", app.palette.Filtered)
	}
	if d := app.palette.Filtered[0].Detail(); d != "^\\" {
		t.Fatalf("expected live binding ^\\, got %q", d)
	}
	pressKey(app, tcell.KeyEnter)
	if app.palette != nil {
		t.Fatalf("palette should close after running a command")
	}
	if len(child.sent) != 1 || child.sent[0] != "\x1c" {
		t.Fatalf("expected quit byte, got %q", child.sent)
	}
}

func TestAppDisabledSignalSendsNothing(t *testing.T) {
	app, child, _ := newTestApp(t)
	delete(child.cc, control.Suspend)
	app.handleEvent(tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl))
	if len(child.sent) != 0 {
		t.Fatalf("disabled signal must send nothing, got %q", child.sent)
	}
	if app.sess.State() != session.StateActive {
		t.Fatalf("disabled signal must not end the session")
	}
}

func TestAppTogglesAndResize(t *testing.T) {
	app, child, _ := newTestApp(t)
	pressAlt(app, 'w')
	if app.transcript.WordWrap || app.statusBar.WordWrap {
		t.Fatalf("Alt+W should turn wrapping off")
	}
	pressAlt(app, 's')
	if app.transcript.Autoscroll {
		t.Fatalf("Alt+S should turn autoscroll off")
	}
	app.handleEvent(tcell.NewEventResize(80, 24))
	if child.rows != 23 || child.cols != 80 {
		t.Fatalf("expected child resized to 23x80, got %dx%d", child.rows, child.cols)
	}
}

func TestAppConfigReloadKeepsSessionSizes(t *testing.T) {
	app, _, _ := newTestApp(t)
	cfg := config.Default()
	cfg.Theme = "nord"
	cfg.WordWrap = false
	cfg.HistorySize = 5
	app.handleEvent(&ConfigEvent{Config: cfg})

	if app.transcript.Theme != config.Themes["nord"] {
		t.Fatalf("theme not applied")
	}
	if app.transcript.WordWrap {
		t.Fatalf("word wrap not applied")
	}
	if app.cfg.HistorySize != 1000 {
		t.Fatalf("history size must not change for a running session, got %d", app.cfg.HistorySize)
	}
}

func TestAppPumpPostsOutputThenExit(t *testing.T) {
	app, child, screen := newTestApp(t)
	child.chunks = []string{"one\n", "two\n"}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		app.pump(ctx)
		close(done)
	}()

	for !app.quit && app.sess.State() == session.StateActive {
		app.handleEvent(screen.PollEvent())
	}
	if got := string(app.sess.View().Text); got != "one\ntwo\n" {
		t.Fatalf("unexpected transcript %q", got)
	}
	if app.statusBar.Mode != "EXIT" {
		t.Fatalf("expected EXIT mode, got %q", app.statusBar.Mode)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("pump should return after the exit event")
	}
}

func TestAppPumpReturnsWhenNobodyPolls(t *testing.T) {
	app, child, _ := newTestApp(t)
	for i := 0; i < 1000; i++ {
		child.chunks = append(child.chunks, "x")
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.pump(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("pump leaked after cancel with a full event queue")
	}
}
