package buffer

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrOutOfRange reports a Document operation addressed outside its bounds.
var ErrOutOfRange = errors.New("position out of range")

// Document is the transcript shown to the user: child output and user input
// interleaved in one rune arena. Positions are rune indexes.
type Document struct {
	text   []rune
	cursor int
	output *OutputTracker
}

func NewDocument() *Document {
	return &Document{output: &OutputTracker{}}
}

// Output returns the tracker holding the output point of this document.
func (d *Document) Output() *OutputTracker { return d.output }

func (d *Document) Len() int    { return len(d.text) }
func (d *Document) Cursor() int { return d.cursor }
func (d *Document) String() string {
	return string(d.text)
}

func (d *Document) SetCursor(pos int) error {
	if pos < 0 || pos > len(d.text) {
		return fmt.Errorf("%w: cursor %d not in [0,%d]", ErrOutOfRange, pos, len(d.text))
	}
	d.cursor = pos
	return nil
}

// Insert places text at pos. Text inserted strictly below the output point
// pushes the output point along so it never becomes submittable.
func (d *Document) Insert(pos int, text string) error {
	if pos < 0 || pos > len(d.text) {
		return fmt.Errorf("%w: insert at %d not in [0,%d]", ErrOutOfRange, pos, len(d.text))
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	d.text = append(d.text[:pos], append(runes, d.text[pos:]...)...)
	if d.cursor >= pos {
		d.cursor += len(runes)
	}
	if pos < d.output.point {
		d.output.point += len(runes)
	}
	return nil
}

// Delete removes the runes in [start, end).
func (d *Document) Delete(start, end int) error {
	if start < 0 || end < start || end > len(d.text) {
		return fmt.Errorf("%w: delete [%d,%d) not in [0,%d]", ErrOutOfRange, start, end, len(d.text))
	}
	if start == end {
		return nil
	}
	n := end - start
	d.text = append(d.text[:start], d.text[end:]...)

	switch {
	case d.cursor >= end:
		d.cursor -= n
	case d.cursor > start:
		d.cursor = start
	}
	d.output.shrink(start, end, len(d.text))
	return nil
}

// AdvanceOutput moves the output point forward to pos. Requests to move it
// backward are ignored; the point only goes down when content below it is
// deleted.
func (d *Document) AdvanceOutput(pos int) error {
	if pos < 0 || pos > len(d.text) {
		return fmt.Errorf("%w: output point %d not in [0,%d]", ErrOutOfRange, pos, len(d.text))
	}
	d.output.advanceTo(pos)
	return nil
}

// Pending returns the input composed after the output point.
func (d *Document) Pending() string {
	return string(d.text[d.output.point:])
}

// Append adds child output at the end of the document regardless of the
// cursor and returns the index where the new span starts. The caller is
// expected to advance the output point afterwards.
func (d *Document) Append(text string) int {
	start := len(d.text)
	runes := []rune(text)
	if len(runes) == 0 {
		return start
	}
	d.text = append(d.text, runes...)
	if d.cursor == start {
		d.cursor = len(d.text)
	}
	return start
}

func (d *Document) ReadRange(start, end int) (string, error) {
	if start < 0 || end < start || end > len(d.text) {
		return "", fmt.Errorf("%w: range [%d,%d) not in [0,%d]", ErrOutOfRange, start, end, len(d.text))
	}
	return string(d.text[start:end]), nil
}

// IndexRune returns the index of the first r at or after from, or -1.
func (d *Document) IndexRune(from int, r rune) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(d.text); i++ {
		if d.text[i] == r {
			return i
		}
	}
	return -1
}

// LineStart returns the index of the first rune of the line containing pos.
func (d *Document) LineStart(pos int) int {
	if pos > len(d.text) {
		pos = len(d.text)
	}
	for pos > 0 && d.text[pos-1] != '\n' {
		pos--
	}
	return pos
}

// WordStart scans backward from pos over trailing spaces and then one run
// of runes of the same class, stopping at floor.
func (d *Document) WordStart(pos, floor int) int {
	if pos > len(d.text) {
		pos = len(d.text)
	}
	if floor < 0 {
		floor = 0
	}
	for pos > floor && unicode.IsSpace(d.text[pos-1]) {
		pos--
	}
	if pos == floor {
		return pos
	}
	class := charClass(d.text[pos-1])
	for pos > floor && charClass(d.text[pos-1]) == class {
		pos--
	}
	return pos
}

// FieldStart returns the start of the whitespace-delimited field ending at
// pos, never going below floor.
func (d *Document) FieldStart(pos, floor int) int {
	if pos > len(d.text) {
		pos = len(d.text)
	}
	for pos > floor && !unicode.IsSpace(d.text[pos-1]) {
		pos--
	}
	return pos
}

// LineCount counts lines the way an editor shows them; a trailing newline
// opens an empty last line.
func (d *Document) LineCount() int {
	n := 1
	for _, r := range d.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// TrimLines drops whole lines from the top until at most max lines remain.
// Returns the number of runes removed. max <= 0 means unlimited.
func (d *Document) TrimLines(max int) int {
	if max <= 0 {
		return 0
	}
	excess := d.LineCount() - max
	if excess <= 0 {
		return 0
	}
	end := 0
	for i, r := range d.text {
		if r != '\n' {
			continue
		}
		excess--
		if excess == 0 {
			end = i + 1
			break
		}
	}
	if err := d.Delete(0, end); err != nil {
		return 0
	}
	return end
}

func charClass(r rune) int {
	switch {
	case unicode.IsSpace(r):
		return 0
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return 1
	default:
		return 2
	}
}
