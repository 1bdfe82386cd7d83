package ui

import (
	"lineterm/control"
	"lineterm/session"

	"github.com/gdamore/tcell/v2"
)

// gestures binds keys to terminal control signals. The byte sent for a
// signal comes from the child terminal at the time of the key press, so
// rebinding a signal with stty changes what is sent but not which key
// sends it.
var gestures = map[tcell.Key]control.Signal{
	tcell.KeyCtrlC:         control.Interrupt,
	tcell.KeyCtrlD:         control.EOF,
	tcell.KeyCtrlZ:         control.Suspend,
	tcell.KeyCtrlBackslash: control.Quit,
}

var editKeys = map[tcell.Key][]session.Event{
	tcell.KeyEnter:      {session.MoveInputEnd{}, session.Newline{}},
	tcell.KeyLF:         {session.Newline{}},
	tcell.KeyBackspace:  {session.Backspace{}},
	tcell.KeyBackspace2: {session.Backspace{}},
	tcell.KeyDelete:     {session.DeleteForward{}},
	tcell.KeyLeft:       {session.MoveCursor{Delta: -1}},
	tcell.KeyRight:      {session.MoveCursor{Delta: 1}},
	tcell.KeyHome:       {session.MoveInputStart{}},
	tcell.KeyCtrlA:      {session.MoveInputStart{}},
	tcell.KeyEnd:        {session.MoveInputEnd{}},
	tcell.KeyCtrlE:      {session.MoveInputEnd{}},
	tcell.KeyUp:         {session.HistoryPrev{}},
	tcell.KeyDown:       {session.HistoryNext{}},
	tcell.KeyTab:        {session.Complete{}},
	tcell.KeyCtrlU:      {session.KillInput{}},
	tcell.KeyCtrlW:      {session.DeleteWordBackward{}},
	tcell.KeyCtrlL:      {session.ClearView{}},
}

// translate maps a key press to the session events it stands for. Keys the
// session does not handle yield nil.
func translate(ev *tcell.EventKey) []session.Event {
	if ev.Modifiers()&tcell.ModAlt != 0 {
		return nil
	}
	if ev.Key() == tcell.KeyRune {
		return []session.Event{session.InsertText{Text: string(ev.Rune())}}
	}
	if sig, ok := gestures[ev.Key()]; ok {
		return []session.Event{session.ControlKey{Signal: sig}}
	}
	return editKeys[ev.Key()]
}

// gestureFor returns the key label bound to sig, or "".
func gestureFor(sig control.Signal) string {
	for k, s := range gestures {
		if s == sig {
			return tcell.KeyNames[k]
		}
	}
	return ""
}
