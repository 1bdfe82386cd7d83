package ui

import (
	"lineterm/config"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Completions shows the file name candidates of a completion cycle next to
// the cursor. Items are the remainders after the typed prefix. Tab in the
// input moves through them; the popup only mirrors the session's state.
type Completions struct {
	Items    []string
	Selected int
	X, Y     int // cursor position to anchor at
	Theme    *config.ColorScheme
}

func (c *Completions) Visible() bool { return c != nil && len(c.Items) > 1 }

func (c *Completions) Render(screen tcell.Screen, x, y, width, height int) {
	if !c.Visible() {
		return
	}
	theme := c.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}

	popW := 12
	for _, item := range c.Items {
		popW = max(popW, runewidth.StringWidth(item)+3)
	}
	popW = min(popW, 60, width)
	visible := min(len(c.Items), 10)

	posX, posY := c.X, c.Y+1
	if posY+visible > y+height {
		posY = c.Y - visible
	}
	if posX+popW > x+width {
		posX = x + width - popW
	}
	posX = max(posX, x)
	posY = max(posY, y)

	bgStyle := tcell.StyleDefault.Background(theme.DialogBg).Foreground(theme.DialogFg)
	selStyle := tcell.StyleDefault.Background(theme.Selection).Foreground(theme.Output)
	mutedStyle := tcell.StyleDefault.Background(theme.DialogBg).Foreground(theme.Muted)

	scrollOff := 0
	if c.Selected >= visible {
		scrollOff = c.Selected - visible + 1
	}
	for i := 0; i < visible && scrollOff+i < len(c.Items); i++ {
		idx := scrollOff + i
		style, mark := bgStyle, mutedStyle
		if idx == c.Selected {
			style, mark = selStyle, selStyle
		}
		rowY := posY + i
		for cx := posX; cx < posX+popW; cx++ {
			screen.SetContent(cx, rowY, ' ', nil, style)
		}
		col := drawText(screen, posX+1, rowY, posX+popW, "…", mark)
		drawText(screen, col, rowY, posX+popW, c.Items[idx], style)
	}
}
