package session

import (
	"lineterm/completion"
)

// Edits coming from the keyboard stay inside the pending input; text below
// the output point has been delivered or is child output.

func (s *Session) backspace() error {
	c := s.inputCursor()
	if c <= s.doc.Output().Point() {
		return nil
	}
	return s.doc.Delete(c-1, c)
}

func (s *Session) deleteForward() error {
	c := s.inputCursor()
	if c >= s.doc.Len() {
		return nil
	}
	return s.doc.Delete(c, c+1)
}

func (s *Session) deleteWordBackward() error {
	c := s.inputCursor()
	start := s.doc.WordStart(c, s.doc.Output().Point())
	if start == c {
		return nil
	}
	return s.doc.Delete(start, c)
}

// replaceInput swaps the whole pending input for text, leaving the cursor at
// its end.
func (s *Session) replaceInput(text string) error {
	point := s.doc.Output().Point()
	if err := s.doc.Delete(point, s.doc.Len()); err != nil {
		return err
	}
	if err := s.doc.Insert(point, text); err != nil {
		return err
	}
	return s.doc.SetCursor(s.doc.Len())
}

func (s *Session) moveCursor(delta int) error {
	pos := s.inputCursor() + delta
	if point := s.doc.Output().Point(); pos < point {
		pos = point
	}
	if pos > s.doc.Len() {
		pos = s.doc.Len()
	}
	return s.doc.SetCursor(pos)
}

// history steps through earlier input of the foreground program. The text
// being composed is kept aside and comes back after stepping past the newest
// entry.
func (s *Session) history(delta int) error {
	if delta < 0 && !s.histActive {
		return nil
	}
	if !s.histActive {
		s.draft = s.doc.Pending()
	}
	line, ok := s.histCursor.Move(s.historyKey(), delta)
	if !ok {
		s.bell()
		return nil
	}
	if line == "" {
		s.histActive = false
		return s.replaceInput(s.draft)
	}
	s.histActive = true
	return s.replaceInput(line)
}

// complete inserts the next file name candidate for the field before the
// cursor, replacing the previous candidate of the same cycle.
func (s *Session) complete() error {
	c := s.inputCursor()
	if !s.comp.Active() {
		cwd, err := s.cwd()
		if err != nil {
			s.log.Debug("completion unavailable", "err", err)
			s.bell()
			return nil
		}
		start := s.doc.FieldStart(c, s.doc.Output().Point())
		word, err := s.doc.ReadRange(start, c)
		if err != nil {
			return err
		}
		matches := completion.FileNames(cwd, word)
		if len(matches) == 0 {
			s.bell()
			return nil
		}
		s.comp.Start(matches)
	}
	candidate, remove := s.comp.Next()
	if remove > c-s.doc.Output().Point() {
		s.comp.Reset()
		return nil
	}
	if err := s.doc.Delete(c-remove, c); err != nil {
		return err
	}
	return s.doc.Insert(s.doc.Cursor(), candidate)
}

func (s *Session) cwd() (string, error) {
	if s.opts.Foreground == nil {
		return "", errNoForeground
	}
	return s.opts.Foreground.Cwd()
}

// clearView drops the transcript above the line containing the output point.
func (s *Session) clearView() error {
	start := s.doc.LineStart(s.doc.Output().Point())
	if start == 0 {
		return nil
	}
	return s.doc.Delete(0, start)
}

// Completions returns the candidates of the completion in progress and the
// index of the one currently inserted, or -1.
func (s *Session) Completions() ([]string, int) {
	return s.comp.Candidates()
}

// View is a snapshot of the editing surface for renderers.
type View struct {
	Text       []rune
	Cursor     int
	Output     int
	Lines      int
	Terminated bool
}

func (s *Session) View() View {
	return View{
		Text:       []rune(s.doc.String()),
		Cursor:     s.doc.Cursor(),
		Output:     s.doc.Output().Point(),
		Lines:      s.doc.LineCount(),
		Terminated: s.state == StateTerminated,
	}
}
