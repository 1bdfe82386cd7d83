package ui

import (
	"lineterm/config"
	"lineterm/control"

	"github.com/gdamore/tcell/v2"
)

type DialogType int

const (
	DialogNone DialogType = iota
	DialogHelp
	DialogQuitConfirm
)

type Dialog struct {
	Type    DialogType
	Prompt  string // program name shown by the quit confirmation
	Theme   *config.ColorScheme
	focused bool

	OnCancel  func()
	OnConfirm func(answer rune) // 'y' or 'n'
}

type keyHelp struct {
	category string
	key      string
	desc     string
}

// helpEntries lists the bindings shown by the help dialog. Signal gestures
// are read from the gesture table so the list cannot drift from it.
func helpEntries() []keyHelp {
	entries := []keyHelp{
		{"INPUT", "", ""},
		{"", "Enter", "Submit the line"},
		{"", "Ctrl+J", "Newline at cursor"},
		{"", "Backspace / Delete", "Delete character"},
		{"", "Ctrl+W", "Delete word backward"},
		{"", "Ctrl+U", "Kill pending input"},
		{"", "Home / Ctrl+A", "Start of input"},
		{"", "End / Ctrl+E", "End of input"},
		{"", "Up / Down", "History"},
		{"", "Tab", "Complete file name"},
		{"", "", ""},
		{"SIGNALS", "", ""},
	}
	for _, sig := range []control.Signal{control.Interrupt, control.EOF, control.Suspend, control.Quit} {
		if g := gestureFor(sig); g != "" {
			entries = append(entries, keyHelp{"", g, "Send " + sig.String() + " character"})
		}
	}
	return append(entries,
		keyHelp{"", "", ""},
		keyHelp{"VIEW", "", ""},
		keyHelp{"", "PgUp / PgDn", "Scroll transcript"},
		keyHelp{"", "Ctrl+L", "Clear transcript"},
		keyHelp{"", "Alt+W", "Toggle word wrap"},
		keyHelp{"", "Alt+S", "Toggle autoscroll"},
		keyHelp{"", "Alt+C / Alt+V", "Copy input / Paste"},
		keyHelp{"", "Alt+P", "Command palette"},
		keyHelp{"", "F1", "Toggle help"},
		keyHelp{"", "Ctrl+Q", "Quit"},
	)
}

func NewHelpDialog(theme *config.ColorScheme) *Dialog {
	return &Dialog{Type: DialogHelp, Theme: theme, focused: true}
}

func NewQuitConfirmDialog(program string) *Dialog {
	return &Dialog{Type: DialogQuitConfirm, Prompt: program, focused: true}
}

func (d *Dialog) Render(screen tcell.Screen, x, y, width, height int) {
	switch d.Type {
	case DialogHelp:
		d.renderHelp(screen, x, y, width, height)
	case DialogQuitConfirm:
		d.renderQuitConfirm(screen, x, y, width)
	}
}

func (d *Dialog) renderQuitConfirm(screen tcell.Screen, x, y, width int) {
	style := tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite)
	msg := " " + d.Prompt + " is still running. Quit anyway? [Y]es [N]o "
	for cx := x; cx < x+width; cx++ {
		screen.SetContent(cx, y, ' ', nil, style)
	}
	drawText(screen, x, y, x+width, msg, style)
}

func (d *Dialog) renderHelp(screen tcell.Screen, x, y, width, height int) {
	theme := d.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}
	overlayStyle := tcell.StyleDefault.Background(theme.Background).Foreground(theme.Muted)
	bgStyle := tcell.StyleDefault.Background(theme.DialogBg).Foreground(theme.DialogFg)
	titleStyle := tcell.StyleDefault.Background(theme.StatusBarModeBg).Foreground(tcell.ColorWhite).Bold(true)
	categoryStyle := bgStyle.Foreground(tcell.ColorLightCyan).Bold(true)
	keyStyle := bgStyle.Foreground(tcell.ColorYellow)
	descStyle := bgStyle.Foreground(theme.DialogFg)
	footerStyle := bgStyle.Foreground(theme.Muted).Italic(true)

	entries := helpEntries()
	dialogW := min(56, width-4)
	dialogH := min(len(entries)+4, height-2)
	if dialogW < 20 || dialogH < 5 {
		return
	}
	dialogX := x + (width-dialogW)/2
	dialogY := y + (height-dialogH)/2

	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			screen.SetContent(x+dx, y+dy, '░', nil, overlayStyle)
		}
	}
	drawBox(screen, dialogX, dialogY, dialogW, dialogH, bgStyle)
	drawTitle(screen, dialogX, dialogY, dialogW, " Keyboard Shortcuts ", titleStyle)

	limit := dialogX + dialogW - 2
	row := dialogY + 2
	for _, kb := range entries {
		if row >= dialogY+dialogH-2 {
			break
		}
		switch {
		case kb.category != "":
			drawText(screen, dialogX+3, row, limit, kb.category, categoryStyle)
		case kb.key != "":
			drawText(screen, dialogX+5, row, limit, kb.key, keyStyle)
			drawText(screen, dialogX+26, row, limit, kb.desc, descStyle)
		}
		row++
	}

	footer := "Press ESC or F1 to close"
	drawText(screen, dialogX+(dialogW-len(footer))/2, dialogY+dialogH-1, limit, footer, footerStyle)
}

func (d *Dialog) HandleKey(ev *tcell.EventKey) bool {
	switch d.Type {
	case DialogQuitConfirm:
		return d.handleQuitConfirmKey(ev)
	case DialogHelp:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyF1 {
			if d.OnCancel != nil {
				d.OnCancel()
			}
		}
	}
	return true
}

func (d *Dialog) handleQuitConfirmKey(ev *tcell.EventKey) bool {
	if d.OnConfirm == nil {
		return true
	}
	switch ch := ev.Rune(); {
	case ch == 'y' || ch == 'Y' || ev.Key() == tcell.KeyCtrlQ:
		d.OnConfirm('y')
	case ch == 'n' || ch == 'N' || ev.Key() == tcell.KeyEscape:
		d.OnConfirm('n')
	}
	return true
}

func (d *Dialog) HandleMouse(ev *tcell.EventMouse) bool { return true }
func (d *Dialog) IsFocused() bool                       { return d.focused }
func (d *Dialog) SetFocused(f bool)                     { d.focused = f }
