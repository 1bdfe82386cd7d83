package ui

import (
	"fmt"

	"lineterm/config"
	"lineterm/session"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// Transcript draws the session document: child output and submitted lines
// in the output colour, pending input in the input colour.
type Transcript struct {
	Theme      *config.ColorScheme
	WordWrap   bool
	Autoscroll bool

	view    session.View
	top     int  // first visible row when not pinned
	pinned  bool // follow the end of the document
	lastTop int
	rows    int // visual rows at the last render
	x, y    int
	w, h    int
	curX    int
	curY    int
	curOK   bool
	focused bool
}

func NewTranscript(theme *config.ColorScheme) *Transcript {
	return &Transcript{Theme: theme, WordWrap: true, Autoscroll: true, pinned: true, focused: true}
}

func (t *Transcript) SetView(v session.View) { t.view = v }

// Follow jumps back to the end of the document.
func (t *Transcript) Follow() { t.pinned = true }

// OutputArrived keeps the viewport still when autoscroll is off.
func (t *Transcript) OutputArrived() {
	if t.Autoscroll {
		t.pinned = true
		return
	}
	if t.pinned {
		t.top = t.lastTop
		t.pinned = false
	}
}

// Scroll moves the viewport by delta rows; negative scrolls back.
func (t *Transcript) Scroll(delta int) {
	if t.pinned {
		t.top = t.lastTop
		t.pinned = false
	}
	t.top += delta
	if t.top < 0 {
		t.top = 0
	}
	if maxTop := t.rows - t.h; t.top >= maxTop {
		t.pinned = true
	}
}

// PageSize is the number of rows shown at the last render.
func (t *Transcript) PageSize() int {
	if t.h < 1 {
		return 1
	}
	return t.h
}

// CursorPos returns the screen position of the cursor at the last render.
func (t *Transcript) CursorPos() (int, int, bool) { return t.curX, t.curY, t.curOK }

type cell struct {
	ch    rune
	width int
	idx   int
	caret bool
}

type row struct {
	cells      []cell
	start, end int
}

func runeCells(r rune, col, idx int) []cell {
	switch {
	case r == '\t':
		w := tabWidth - col%tabWidth
		out := make([]cell, 0, w)
		for i := 0; i < w; i++ {
			out = append(out, cell{ch: ' ', width: 1, idx: idx})
		}
		return out
	case r == '\r':
		return nil
	case r < 0x20 || r == 0x7f:
		return []cell{{ch: '^', width: 1, idx: idx, caret: true}, {ch: r ^ 0x40, width: 1, idx: idx, caret: true}}
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		w = 1
	}
	return []cell{{ch: r, width: w, idx: idx}}
}

// layout breaks text into screen rows. With wrap set, rows never exceed
// width columns.
func layout(text []rune, width int, wrap bool) []row {
	var rows []row
	cur := row{}
	col := 0
	for i, r := range text {
		if r == '\n' {
			cur.end = i
			rows = append(rows, cur)
			cur = row{start: i + 1}
			col = 0
			continue
		}
		cells := runeCells(r, col, i)
		w := 0
		for _, c := range cells {
			w += c.width
		}
		if wrap && width > 0 && col > 0 && col+w > width {
			cur.end = i
			rows = append(rows, cur)
			cur = row{start: i}
			col = 0
			cells = runeCells(r, col, i)
		}
		cur.cells = append(cur.cells, cells...)
		for _, c := range cells {
			col += c.width
		}
	}
	cur.end = len(text)
	return append(rows, cur)
}

// locate finds the row and column of rune index pos.
func locate(rows []row, pos int) (int, int) {
	for i, r := range rows {
		if pos < r.start || pos > r.end {
			continue
		}
		if pos == r.end && i+1 < len(rows) && rows[i+1].start == pos {
			continue
		}
		col := 0
		for _, c := range r.cells {
			if c.idx >= pos {
				break
			}
			col += c.width
		}
		return i, col
	}
	return len(rows) - 1, 0
}

func (t *Transcript) Render(screen tcell.Screen, x, y, width, height int) {
	t.x, t.y, t.w, t.h = x, y, width, height

	theme := t.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}
	bgStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Output)
	outStyle := bgStyle
	inStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Input).Bold(true)
	caretStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Muted)

	rows := layout(t.view.Text, width, t.WordWrap)
	curRow, curCol := locate(rows, t.view.Cursor)
	if t.WordWrap && width > 0 && curCol >= width {
		curRow, curCol = curRow+1, 0
	}
	total := len(rows)
	if curRow >= total {
		total = curRow + 1
	}
	t.rows = total

	top := t.top
	if t.pinned {
		top = total - height
	}
	if top > total-1 {
		top = total - 1
	}
	if top < 0 {
		top = 0
	}
	t.lastTop = top

	scrollX := 0
	if !t.WordWrap && curCol >= width {
		scrollX = curCol - width + 1
	}

	for sy := 0; sy < height; sy++ {
		for sx := 0; sx < width; sx++ {
			screen.SetContent(x+sx, y+sy, ' ', nil, bgStyle)
		}
		ri := top + sy
		if ri >= len(rows) {
			continue
		}
		col := -scrollX
		for _, c := range rows[ri].cells {
			if col >= width {
				break
			}
			if col >= 0 {
				style := outStyle
				switch {
				case c.caret:
					style = caretStyle
				case c.idx >= t.view.Output:
					style = inStyle
				}
				screen.SetContent(x+col, y+sy, c.ch, nil, style)
			}
			col += c.width
		}
	}

	if !t.pinned {
		below := total - (top + height)
		if below > 0 {
			indicator := fmt.Sprintf(" ↓ %d lines ", below)
			indStyle := tcell.StyleDefault.Background(theme.StatusBarModeBg).Foreground(tcell.ColorWhite).Bold(true)
			indX := x + width - runewidth.StringWidth(indicator)
			col := indX
			for _, ch := range indicator {
				if col >= x && col < x+width {
					screen.SetContent(col, y, ch, nil, indStyle)
				}
				col += runewidth.RuneWidth(ch)
			}
		}
	}

	t.curOK = false
	if curRow >= top && curRow < top+height && curCol-scrollX < width {
		t.curX, t.curY, t.curOK = x+curCol-scrollX, y+curRow-top, true
	}
	if t.focused && t.curOK && !t.view.Terminated {
		screen.ShowCursor(t.curX, t.curY)
	} else {
		screen.HideCursor()
	}
}

func (t *Transcript) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyPgUp:
		t.Scroll(-t.PageSize())
		return true
	case tcell.KeyPgDn:
		t.Scroll(t.PageSize())
		return true
	}
	return false
}

func (t *Transcript) HandleMouse(ev *tcell.EventMouse) bool {
	_, my := ev.Position()
	if my < t.y || my >= t.y+t.h {
		return false
	}
	switch ev.Buttons() {
	case tcell.WheelUp:
		t.Scroll(-3)
		return true
	case tcell.WheelDown:
		t.Scroll(3)
		return true
	}
	return false
}

func (t *Transcript) IsFocused() bool   { return t.focused }
func (t *Transcript) SetFocused(f bool) { t.focused = f }
