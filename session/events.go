package session

import "lineterm/control"

// Event is one input to the dispatcher. Keyboard gestures and child output
// both arrive as events so the document has a single owner.
type Event interface {
	event()
}

// InsertText inserts at the cursor. Text containing newlines submits every
// completed line, the same as typing it.
type InsertText struct{ Text string }

// Newline inserts a terminator at the cursor and submits completed lines.
type Newline struct{}

type Backspace struct{}

type DeleteForward struct{}

type DeleteWordBackward struct{}

// KillInput discards all pending input.
type KillInput struct{}

// MoveCursor moves the cursor by Delta runes inside the pending input.
type MoveCursor struct{ Delta int }

type MoveInputStart struct{}

type MoveInputEnd struct{}

type HistoryPrev struct{}

type HistoryNext struct{}

// Complete replaces the word before the cursor with the next file name
// candidate.
type Complete struct{}

// ClearView drops the transcript above the line holding the output point.
type ClearView struct{}

// ControlKey forwards the byte bound to Signal straight to the child.
type ControlKey struct{ Signal control.Signal }

// ChildOutput carries one raw chunk read from the child.
type ChildOutput struct{ Data []byte }

// ChildExit reports the end of the child's output stream. Err is nil for a
// normal end of stream.
type ChildExit struct{ Err error }

func (InsertText) event()         {}
func (Newline) event()            {}
func (Backspace) event()          {}
func (DeleteForward) event()      {}
func (DeleteWordBackward) event() {}
func (KillInput) event()          {}
func (MoveCursor) event()         {}
func (MoveInputStart) event()     {}
func (MoveInputEnd) event()       {}
func (HistoryPrev) event()        {}
func (HistoryNext) event()        {}
func (Complete) event()           {}
func (ClearView) event()          {}
func (ControlKey) event()         {}
func (ChildOutput) event()        {}
func (ChildExit) event()          {}
