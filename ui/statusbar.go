package ui

import (
	"fmt"

	"lineterm/config"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type StatusBar struct {
	Mode       string // "RUN" or "EXIT"
	Command    string // foreground program
	Lines      int
	WordWrap   bool
	Autoscroll bool
	Message    string // temporary status message
	IsError    bool
	Theme      *config.ColorScheme
}

func NewStatusBar() *StatusBar {
	return &StatusBar{
		Mode:       "RUN",
		WordWrap:   true,
		Autoscroll: true,
	}
}

func onOff(label string, on bool) string {
	if on {
		return label
	}
	return "no" + label
}

func (s *StatusBar) Render(screen tcell.Screen, x, y, width, height int) {
	theme := s.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}

	style := tcell.StyleDefault.Background(theme.StatusBarBg).Foreground(theme.StatusBarFg)
	modeStyle := tcell.StyleDefault.Background(theme.StatusBarModeBg).Foreground(tcell.ColorWhite).Bold(true)
	if s.Mode != "RUN" {
		modeStyle = modeStyle.Background(tcell.ColorDarkRed)
	}

	for cx := x; cx < x+width; cx++ {
		screen.SetContent(cx, y, ' ', nil, style)
	}

	col := x
	put := func(text string, st tcell.Style) {
		for _, ch := range text {
			if col < x+width {
				screen.SetContent(col, y, ch, nil, st)
				col += runewidth.RuneWidth(ch)
			}
		}
	}

	put(" "+s.Mode+" ", modeStyle)
	put(" ", style)

	if s.Message != "" {
		msgStyle := style
		if s.IsError {
			msgStyle = style.Foreground(tcell.ColorRed)
		}
		put(s.Message, msgStyle)
		return
	}

	command := s.Command
	if command == "" {
		command = "-"
	}
	put(command, style)

	right := fmt.Sprintf("Ln %d │ %s │ %s │ UTF-8 ", s.Lines, onOff("wrap", s.WordWrap), onOff("autoscroll", s.Autoscroll))
	rightStart := x + width - runewidth.StringWidth(right)
	if rightStart > col+2 {
		col = rightStart
		put(right, style)
	}
}

func (s *StatusBar) HandleKey(ev *tcell.EventKey) bool     { return false }
func (s *StatusBar) HandleMouse(ev *tcell.EventMouse) bool { return false }
func (s *StatusBar) IsFocused() bool                       { return false }
func (s *StatusBar) SetFocused(f bool)                     {}
