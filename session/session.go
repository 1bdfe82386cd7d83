// Package session owns the document of one terminal session and decides,
// for every input event, whether it edits the pending line, submits
// completed lines to the child or forwards a control byte directly.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"lineterm/buffer"
	"lineterm/completion"
	"lineterm/control"
	"lineterm/history"
	"lineterm/ptylink"
	"pkt.systems/pslog"
)

// ErrTerminated is returned for input dispatched after the session ended.
var ErrTerminated = errors.New("session terminated")

var errNoForeground = errors.New("no foreground process")

// Sender is the write side of the child channel.
type Sender interface {
	Send(p []byte) error
}

// Foreground describes the process currently in the foreground of the
// child terminal.
type Foreground interface {
	Cwd() (string, error)
	Executable() (string, error)
}

type State int

const (
	StateActive State = iota
	StateTerminated
)

func (s State) String() string {
	if s == StateTerminated {
		return "terminated"
	}
	return "active"
}

type Options struct {
	// Scrollback bounds the transcript in lines; zero or less keeps
	// everything.
	Scrollback  int
	HistorySize int
	Foreground  Foreground
	Bell        func()
}

type Session struct {
	doc      *buffer.Document
	out      Sender
	controls *control.Map
	decoder  *ptylink.Decoder
	opts     Options
	log      pslog.Logger

	hist       *history.History
	histCursor *history.Cursor
	histActive bool
	draft      string

	comp completion.Cycle

	state   State
	err     error
	ended   chan struct{}
	endOnce sync.Once
}

func New(ctx context.Context, out Sender, controls *control.Map, opts Options) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	hist := history.New(opts.HistorySize)
	return &Session{
		doc:        buffer.NewDocument(),
		out:        out,
		controls:   controls,
		decoder:    ptylink.NewDecoder(),
		opts:       opts,
		log:        pslog.Ctx(ctx),
		hist:       hist,
		histCursor: hist.Cursor(),
		ended:      make(chan struct{}),
	}
}

func (s *Session) State() State { return s.state }

// Ended is closed once, when the session becomes terminated.
func (s *Session) Ended() <-chan struct{} { return s.ended }

// Err reports why the session ended. It is nil while the session is active
// and after a normal end of the child's output.
func (s *Session) Err() error { return s.err }

// Pending returns the input typed since the last submission.
func (s *Session) Pending() string { return s.doc.Pending() }

// Dispatch applies one event. It must only be called from the goroutine that
// owns the session.
func (s *Session) Dispatch(ev Event) error {
	if s.state == StateTerminated {
		if _, ok := ev.(ChildExit); ok {
			return nil
		}
		return ErrTerminated
	}
	if _, ok := ev.(Complete); !ok {
		s.comp.Reset()
	}
	switch ev.(type) {
	case HistoryPrev, HistoryNext:
	default:
		s.histCursor.Reset()
		s.histActive = false
	}

	switch ev := ev.(type) {
	case InsertText:
		return s.insert(ev.Text)
	case Newline:
		return s.insert("\n")
	case Backspace:
		return s.backspace()
	case DeleteForward:
		return s.deleteForward()
	case DeleteWordBackward:
		return s.deleteWordBackward()
	case KillInput:
		return s.replaceInput("")
	case MoveCursor:
		return s.moveCursor(ev.Delta)
	case MoveInputStart:
		return s.doc.SetCursor(s.doc.Output().Point())
	case MoveInputEnd:
		return s.doc.SetCursor(s.doc.Len())
	case HistoryPrev:
		return s.history(1)
	case HistoryNext:
		return s.history(-1)
	case Complete:
		return s.complete()
	case ClearView:
		return s.clearView()
	case ControlKey:
		return s.sendControl(ev.Signal)
	case ChildOutput:
		s.appendOutput(s.decoder.Decode(ev.Data))
		return nil
	case ChildExit:
		s.appendOutput(s.decoder.Flush())
		s.terminate(ev.Err)
		return nil
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
}

// Pumper is the read side of the child channel.
type Pumper interface {
	Pump(sink func([]byte)) error
}

// Forward reads src until it ends and posts every chunk, then the end of
// stream, to events. It runs on its own goroutine; the goroutine that owns
// the session receives from events and dispatches. Posting stops when ctx
// is done.
func Forward(ctx context.Context, src Pumper, events chan<- Event) {
	post := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	err := src.Pump(func(chunk []byte) {
		post(ChildOutput{Data: chunk})
	})
	post(ChildExit{Err: err})
}

func (s *Session) terminate(err error) {
	s.endOnce.Do(func() {
		s.state = StateTerminated
		s.err = err
		if err != nil {
			s.log.Error("session terminated", "err", err)
		} else {
			s.log.Info("session terminated", "reason", "end of output")
		}
		close(s.ended)
	})
}

func (s *Session) bell() {
	if s.opts.Bell != nil {
		s.opts.Bell()
	}
}

// inputCursor puts the cursor back into the pending input when child output
// left it in the transcript.
func (s *Session) inputCursor() int {
	if s.doc.Cursor() < s.doc.Output().Point() {
		_ = s.doc.SetCursor(s.doc.Len())
	}
	return s.doc.Cursor()
}

func (s *Session) insert(text string) error {
	if text == "" {
		return nil
	}
	if err := s.doc.Insert(s.inputCursor(), text); err != nil {
		return err
	}
	if strings.Contains(text, "\n") {
		return s.submit()
	}
	return nil
}

// submit sends every completed line after the output point, oldest first,
// one write per line. A failed write ends the session and leaves the line
// pending.
func (s *Session) submit() error {
	for {
		point := s.doc.Output().Point()
		nl := s.doc.IndexRune(point, '\n')
		if nl < 0 {
			return nil
		}
		line, err := s.doc.ReadRange(point, nl)
		if err != nil {
			return err
		}
		if err := s.out.Send([]byte(line + "\n")); err != nil {
			s.terminate(err)
			return err
		}
		if err := s.doc.AdvanceOutput(nl + 1); err != nil {
			return err
		}
		s.hist.Add(s.historyKey(), line)
		s.log.Debug("line submitted", "runes", nl-point)
	}
}

func (s *Session) sendControl(sig control.Signal) error {
	b, ok, err := s.controls.Resolve(sig)
	if err != nil {
		if errors.Is(err, ptylink.ErrBrokenChannel) {
			s.terminate(err)
		}
		return err
	}
	if !ok {
		s.log.Debug("control signal disabled", "signal", sig)
		return nil
	}
	if err := s.out.Send([]byte{b}); err != nil {
		s.terminate(err)
		return err
	}
	s.log.Debug("control byte sent", "signal", sig, "byte", int(b))
	return nil
}

// appendOutput adds decoded child output at the end of the document and
// moves the output point past it.
func (s *Session) appendOutput(text string) {
	if text == "" {
		return
	}
	for _, tok := range ptylink.Parse(text) {
		switch tok.Kind {
		case ptylink.TokenBell:
			s.bell()
		case ptylink.TokenText:
			s.doc.Append(tok.Text)
		}
	}
	_ = s.doc.AdvanceOutput(s.doc.Len())
	if n := s.doc.TrimLines(s.opts.Scrollback); n > 0 {
		s.log.Debug("scrollback trimmed", "runes", n)
	}
}

func (s *Session) historyKey() string {
	if s.opts.Foreground == nil {
		return ""
	}
	exe, err := s.opts.Foreground.Executable()
	if err != nil {
		return ""
	}
	return exe
}
