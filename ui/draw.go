package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Component is anything the app lays out and routes input to.
type Component interface {
	Render(screen tcell.Screen, x, y, width, height int)
	HandleKey(ev *tcell.EventKey) bool
	HandleMouse(ev *tcell.EventMouse) bool
	IsFocused() bool
	SetFocused(bool)
}

// drawBox fills a w×h box at x,y and draws a single-line border round it.
func drawBox(screen tcell.Screen, x, y, w, h int, style tcell.Style) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			screen.SetContent(x+dx, y+dy, ' ', nil, style)
		}
	}
	for dx := 0; dx < w; dx++ {
		screen.SetContent(x+dx, y, '─', nil, style)
		screen.SetContent(x+dx, y+h-1, '─', nil, style)
	}
	for dy := 0; dy < h; dy++ {
		screen.SetContent(x, y+dy, '│', nil, style)
		screen.SetContent(x+w-1, y+dy, '│', nil, style)
	}
	screen.SetContent(x, y, '┌', nil, style)
	screen.SetContent(x+w-1, y, '┐', nil, style)
	screen.SetContent(x, y+h-1, '└', nil, style)
	screen.SetContent(x+w-1, y+h-1, '┘', nil, style)
}

func drawTitle(screen tcell.Screen, x, y, w int, title string, style tcell.Style) {
	tx := x + (w-runewidth.StringWidth(title))/2
	drawText(screen, tx, y, x+w-1, title, style)
}

// drawText writes text from x up to, not including, column limit and
// returns the column after the last cell written.
func drawText(screen tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	for _, ch := range text {
		w := runewidth.RuneWidth(ch)
		if x+w > limit {
			break
		}
		screen.SetContent(x, y, ch, nil, style)
		x += w
	}
	return x
}
