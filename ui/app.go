package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"lineterm/clipboardx"
	"lineterm/config"
	"lineterm/control"
	"lineterm/ptylink"
	"lineterm/session"

	"github.com/gdamore/tcell/v2"
	"pkt.systems/pslog"
)

const messageTTL = 5 * time.Second

// Child is the running program as the app sees it.
type Child interface {
	session.Sender
	session.Pumper
	session.Foreground
	control.Source
	Resize(rows, cols int) error
	Close() error
	ExitCode() int
}

// ChildOutputEvent carries one chunk read from the child to the event loop.
type ChildOutputEvent struct {
	tcell.EventTime
	Data []byte
}

// ChildExitEvent is posted once, after the last ChildOutputEvent.
type ChildExitEvent struct {
	tcell.EventTime
	Err error
}

// ConfigEvent carries a reloaded configuration file.
type ConfigEvent struct {
	tcell.EventTime
	Config *config.Config
	Err    error
}

type App struct {
	screen tcell.Screen
	child  Child
	sess   *session.Session
	cfg    *config.Config
	log    pslog.Logger

	transcript *Transcript
	statusBar  *StatusBar
	popup      *Completions
	dialog     *Dialog
	palette    *CommandPalette
	clipboard  *clipboardx.Board

	pasting   bool
	pasteBuf  strings.Builder
	quit      bool
	messageAt time.Time
}

// Run starts argv on a new pseudoterminal and runs the line terminal until
// the user quits. It returns the child's exit status.
func Run(ctx context.Context, cfg *config.Config, cfgPath string, argv []string) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen, err := tcell.NewScreen()
	if err != nil {
		return 1, err
	}
	if err := screen.Init(); err != nil {
		return 1, err
	}
	screen.EnableMouse()
	screen.EnablePaste()
	screen.SetStyle(tcell.StyleDefault)

	w, h := screen.Size()
	link, err := ptylink.Start(ctx, ptylink.Options{
		Argv: argv,
		Term: cfg.Term,
		Rows: h - 1,
		Cols: w,
	})
	if err != nil {
		screen.Fini()
		return 1, err
	}

	app := newApp(ctx, screen, link, cfg)
	app.statusBar.Command = filepath.Base(argv[0])

	go app.pump(ctx)
	if err := config.Watch(ctx, cfgPath, func(c *config.Config, err error) {
		ev := &ConfigEvent{Config: c, Err: err}
		ev.SetEventNow()
		_ = screen.PostEvent(ev)
	}); err != nil {
		app.log.Warn("config watch unavailable", "err", err)
	}
	go func() {
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for !app.quit {
		app.render()
		app.handleEvent(screen.PollEvent())
	}

	screen.Clear()
	screen.Fini()
	cancel()
	link.Close()

	code := link.ExitCode()
	if code < 0 {
		code = 0
	}
	if err := app.sess.Err(); err != nil && !errors.Is(err, ptylink.ErrBrokenChannel) {
		return code, err
	}
	return code, nil
}

func newApp(ctx context.Context, screen tcell.Screen, child Child, cfg *config.Config) *App {
	a := &App{
		screen:     screen,
		child:      child,
		cfg:        cfg,
		log:        pslog.Ctx(ctx),
		transcript: NewTranscript(cfg.GetTheme()),
		statusBar:  NewStatusBar(),
		popup:      &Completions{},
		clipboard:  clipboardx.New(),
	}
	a.sess = session.New(ctx, child, control.NewMap(child), session.Options{
		Scrollback:  cfg.Scrollback,
		HistorySize: cfg.HistorySize,
		Foreground:  child,
		Bell:        func() { _ = screen.Beep() },
	})
	a.applyConfig(cfg)
	return a
}

const postRetry = 5 * time.Millisecond

// pump forwards child output to the event loop, one event at a time so
// the chunks stay in order and a full queue holds the child back. It
// returns after the exit event or when ctx is done.
func (a *App) pump(ctx context.Context) {
	events := make(chan session.Event)
	go session.Forward(ctx, a.child, events)
	for {
		var ev session.Event
		select {
		case ev = <-events:
		case <-ctx.Done():
			return
		}
		var tev tcell.Event
		switch ev := ev.(type) {
		case session.ChildOutput:
			out := &ChildOutputEvent{Data: ev.Data}
			out.SetEventNow()
			tev = out
		case session.ChildExit:
			exit := &ChildExitEvent{Err: ev.Err}
			exit.SetEventNow()
			tev = exit
		default:
			continue
		}
		if !a.post(ctx, tev) {
			return
		}
		if _, ok := tev.(*ChildExitEvent); ok {
			return
		}
	}
}

// post queues ev, retrying while the event queue is full. It gives up
// when ctx is done, which is the case once the screen is finalised.
func (a *App) post(ctx context.Context, ev tcell.Event) bool {
	for {
		if err := a.screen.PostEvent(ev); err == nil {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(postRetry):
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) {
	a.clearExpiredMessage()
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		w, h := ev.Size()
		if err := a.child.Resize(h-1, w); err != nil {
			a.log.Debug("resize rejected", "err", err)
		}
	case *tcell.EventPaste:
		a.handlePaste(ev)
	case *tcell.EventKey:
		if a.pasting {
			a.bufferPaste(ev)
			return
		}
		a.handleKey(ev)
	case *tcell.EventMouse:
		if m := a.modal(); m != nil {
			m.HandleMouse(ev)
		} else {
			a.transcript.HandleMouse(ev)
		}
	case *ChildOutputEvent:
		a.dispatch(session.ChildOutput{Data: ev.Data})
		a.transcript.OutputArrived()
	case *ChildExitEvent:
		a.dispatch(session.ChildExit{Err: ev.Err})
		a.statusBar.Mode = "EXIT"
		if ev.Err != nil {
			a.setError(ev.Err.Error())
		} else {
			a.setMessage("Process exited. Ctrl+Q to close")
		}
		a.messageAt = time.Time{}
		if a.dialog != nil && a.dialog.Type == DialogQuitConfirm {
			a.dialog = nil
		}
	case *ConfigEvent:
		if ev.Err != nil {
			a.log.Warn("config reload failed", "err", ev.Err)
			a.setError("config: " + ev.Err.Error())
			return
		}
		a.applyConfig(ev.Config)
		a.log.Info("config reloaded", "theme", ev.Config.Theme, "wrap", ev.Config.WordWrap, "autoscroll", ev.Config.Autoscroll)
		a.setMessage("Configuration reloaded")
	case *tcell.EventInterrupt:
		a.quit = true
	}
}

func (a *App) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		a.pasting = true
		a.pasteBuf.Reset()
		return
	}
	a.pasting = false
	a.insert(a.pasteBuf.String())
}

func (a *App) bufferPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.pasteBuf.WriteRune(ev.Rune())
	case tcell.KeyEnter, tcell.KeyLF:
		a.pasteBuf.WriteByte('\n')
	case tcell.KeyTab:
		a.pasteBuf.WriteByte('\t')
	}
}

func (a *App) insert(text string) {
	if text == "" {
		return
	}
	if a.modal() != nil {
		return
	}
	a.transcript.Follow()
	a.dispatch(session.InsertText{Text: text})
}

func (a *App) handleKey(ev *tcell.EventKey) {
	if m := a.modal(); m != nil {
		m.HandleKey(ev)
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		a.handleQuit()
		return
	case tcell.KeyF1:
		a.openHelp()
		return
	}
	if ev.Modifiers()&tcell.ModAlt != 0 && ev.Key() == tcell.KeyRune {
		a.handleAltKey(ev.Rune())
		return
	}
	if a.transcript.HandleKey(ev) {
		return
	}

	events := translate(ev)
	if len(events) == 0 {
		return
	}
	a.transcript.Follow()
	for _, sev := range events {
		a.dispatch(sev)
	}
}

// modal returns the overlay that currently owns the keyboard, if any.
func (a *App) modal() Component {
	switch {
	case a.palette != nil:
		return a.palette
	case a.dialog != nil:
		return a.dialog
	}
	return nil
}

func (a *App) handleAltKey(r rune) {
	switch r {
	case 'p', 'P':
		a.openCommandPalette()
	case 'w', 'W':
		a.toggleWrap()
	case 's', 'S':
		a.toggleAutoscroll()
	case 'c', 'C':
		a.copyInput()
	case 'v', 'V':
		a.insert(a.clipboard.Paste())
	}
}

// dispatch hands ev to the session and reports rejected input in the
// status bar.
func (a *App) dispatch(ev session.Event) {
	err := a.sess.Dispatch(ev)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrTerminated):
		a.setError("Process has exited")
	case errors.Is(err, control.ErrUnknownSignal):
		a.setError(err.Error())
	default:
		if a.sess.State() == session.StateActive {
			a.log.Debug("event rejected", "event", fmt.Sprintf("%T", ev), "err", err)
		}
	}
	items, sel := a.sess.Completions()
	a.popup.Items, a.popup.Selected = items, sel
}

func (a *App) handleQuit() {
	if a.sess.State() == session.StateTerminated {
		a.quit = true
		return
	}
	d := NewQuitConfirmDialog(a.statusBar.Command)
	d.OnConfirm = func(answer rune) {
		a.dialog = nil
		if answer == 'y' {
			a.quit = true
		}
	}
	a.dialog = d
}

func (a *App) openHelp() {
	d := NewHelpDialog(a.cfg.GetTheme())
	d.OnCancel = func() { a.dialog = nil }
	a.dialog = d
}

func (a *App) toggleWrap() {
	a.cfg.WordWrap = !a.cfg.WordWrap
	a.transcript.WordWrap = a.cfg.WordWrap
	a.statusBar.WordWrap = a.cfg.WordWrap
	if a.cfg.WordWrap {
		a.setMessage("Word wrap: ON")
	} else {
		a.setMessage("Word wrap: OFF")
	}
}

func (a *App) toggleAutoscroll() {
	a.cfg.Autoscroll = !a.cfg.Autoscroll
	a.transcript.Autoscroll = a.cfg.Autoscroll
	a.statusBar.Autoscroll = a.cfg.Autoscroll
	if a.cfg.Autoscroll {
		a.transcript.Follow()
		a.setMessage("Autoscroll: ON")
	} else {
		a.setMessage("Autoscroll: OFF")
	}
}

func (a *App) copyInput() {
	text := a.sess.Pending()
	if text == "" {
		a.setMessage("Nothing to copy")
		return
	}
	if err := a.clipboard.Copy(text); err != nil {
		a.setError("Copied to internal clipboard only")
		return
	}
	a.setMessage("Input copied")
}

func (a *App) openCommandPalette() {
	commands := []Command{
		{Name: "Toggle Word Wrap", Shortcut: "Alt+W", Action: a.toggleWrap},
		{Name: "Toggle Autoscroll", Shortcut: "Alt+S", Action: a.toggleAutoscroll},
		{Name: "Clear Transcript", Shortcut: "Ctrl+L", Action: func() { a.dispatch(session.ClearView{}) }},
		{Name: "Kill Input", Shortcut: "Ctrl+U", Action: func() { a.dispatch(session.KillInput{}) }},
		{Name: "Copy Input", Shortcut: "Alt+C", Action: a.copyInput},
		{Name: "Paste", Shortcut: "Alt+V", Action: func() { a.insert(a.clipboard.Paste()) }},
		{Name: "Help", Shortcut: "F1", Action: a.openHelp},
		{Name: "Quit", Shortcut: "Ctrl+Q", Action: a.handleQuit},
	}
	for _, sig := range control.Signals() {
		commands = append(commands, Command{
			Name:     "Send " + sig.String(),
			Shortcut: gestureFor(sig),
			Detail:   func() string { return a.signalDetail(sig) },
			Action:   func() { a.dispatch(session.ControlKey{Signal: sig}) },
		})
	}
	cp := NewCommandPalette(commands, a.cfg.GetTheme())
	cp.OnClose = func() { a.palette = nil }
	a.palette = cp
}

// signalDetail shows the byte the child terminal binds to sig right now.
func (a *App) signalDetail(sig control.Signal) string {
	if a.sess.State() == session.StateTerminated {
		return ""
	}
	b, ok, err := control.NewMap(a.child).Resolve(sig)
	switch {
	case err != nil:
		return "?"
	case !ok:
		return "off"
	case b < 0x20:
		return "^" + string(rune(b^0x40))
	case b == 0x7f:
		return "^?"
	}
	return string(rune(b))
}

func (a *App) applyConfig(cfg *config.Config) {
	// Scrollback and history sizes only take effect for new sessions.
	cfg.Scrollback, cfg.HistorySize = a.cfg.Scrollback, a.cfg.HistorySize
	a.cfg = cfg
	theme := cfg.GetTheme()
	a.transcript.Theme = theme
	a.transcript.WordWrap = cfg.WordWrap
	a.transcript.Autoscroll = cfg.Autoscroll
	a.statusBar.Theme = theme
	a.statusBar.WordWrap = cfg.WordWrap
	a.statusBar.Autoscroll = cfg.Autoscroll
	a.popup.Theme = theme
}

func (a *App) setMessage(msg string) {
	a.statusBar.Message = msg
	a.statusBar.IsError = false
	a.messageAt = time.Now()
}

func (a *App) setError(msg string) {
	a.statusBar.Message = msg
	a.statusBar.IsError = true
	a.messageAt = time.Now()
}

func (a *App) clearExpiredMessage() {
	if !a.messageAt.IsZero() && time.Since(a.messageAt) > messageTTL {
		a.statusBar.Message = ""
		a.statusBar.IsError = false
		a.messageAt = time.Time{}
	}
}

func (a *App) render() {
	a.screen.Clear()
	w, h := a.screen.Size()
	if h < 2 || w < 1 {
		a.screen.Show()
		return
	}

	view := a.sess.View()
	a.transcript.SetView(view)
	a.transcript.Render(a.screen, 0, 0, w, h-1)

	a.statusBar.Lines = view.Lines
	a.statusBar.Render(a.screen, 0, h-1, w, 1)

	if cx, cy, ok := a.transcript.CursorPos(); ok {
		a.popup.X, a.popup.Y = cx, cy
		a.popup.Render(a.screen, 0, 0, w, h-1)
	}
	if a.dialog != nil {
		if a.dialog.Type == DialogQuitConfirm {
			a.dialog.Render(a.screen, 0, h-1, w, 1)
		} else {
			a.dialog.Render(a.screen, 0, 0, w, h-1)
		}
		a.screen.HideCursor()
	}
	if a.palette != nil {
		a.palette.Render(a.screen, 0, 0, w, h-1)
		a.screen.HideCursor()
	}
	a.screen.Show()
}
