package ui

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"lineterm/config"

	"github.com/gdamore/tcell/v2"
)

type Command struct {
	Name     string
	Shortcut string
	// Detail is evaluated on every render so it can show live state, such
	// as the byte a control signal is bound to right now.
	Detail func() string
	Action func()
}

type scoredCommand struct {
	Command
	Score     int
	MatchIdxs []int
}

type CommandPalette struct {
	Input     string
	CursorPos int
	Commands  []Command
	Filtered  []scoredCommand
	Selected  int
	OnClose   func()
	Theme     *config.ColorScheme
	focused   bool
	scrollOff int
}

func NewCommandPalette(commands []Command, theme *config.ColorScheme) *CommandPalette {
	cp := &CommandPalette{
		Commands: commands,
		focused:  true,
		Theme:    theme,
	}
	cp.updateFilter()
	return cp
}

func (cp *CommandPalette) updateFilter() {
	cp.Filtered = cp.Filtered[:0]
	cp.Selected = 0
	cp.scrollOff = 0

	if cp.Input == "" {
		for _, c := range cp.Commands {
			cp.Filtered = append(cp.Filtered, scoredCommand{Command: c})
		}
		return
	}

	query := strings.ToLower(cp.Input)
	for _, c := range cp.Commands {
		if score, idxs := commandFuzzyScore(c.Name, query); score > 0 {
			cp.Filtered = append(cp.Filtered, scoredCommand{Command: c, Score: score, MatchIdxs: idxs})
		}
	}
	sort.SliceStable(cp.Filtered, func(i, j int) bool {
		return cp.Filtered[i].Score > cp.Filtered[j].Score
	})
}

// commandFuzzyScore matches query as a subsequence of name. Zero means no
// match; consecutive runs, word starts and prefixes score higher.
func commandFuzzyScore(name, query string) (int, []int) {
	nameRunes := []rune(strings.ToLower(name))
	origRunes := []rune(name)
	queryRunes := []rune(query)
	if len(queryRunes) == 0 || len(queryRunes) > len(nameRunes) {
		return 0, nil
	}

	idxs := make([]int, 0, len(queryRunes))
	pi := 0
	for _, qr := range queryRunes {
		for pi < len(nameRunes) && nameRunes[pi] != qr {
			pi++
		}
		if pi == len(nameRunes) {
			return 0, nil
		}
		idxs = append(idxs, pi)
		pi++
	}

	score := 10
	for i := 1; i < len(idxs); i++ {
		if idxs[i] == idxs[i-1]+1 {
			score += 5
		}
	}
	for _, idx := range idxs {
		if idx == 0 {
			score += 10
			continue
		}
		prev := origRunes[idx-1]
		if prev == ' ' || prev == '_' || prev == '-' || prev == '(' {
			score += 8
		}
		if unicode.IsLower(prev) && unicode.IsUpper(origRunes[idx]) {
			score += 6
		}
	}
	if strings.HasPrefix(string(nameRunes), query) {
		score += 20
	}
	return score, idxs
}

func (cp *CommandPalette) Render(screen tcell.Screen, x, y, width, height int) {
	theme := cp.Theme
	if theme == nil {
		theme = config.Themes["monokai"]
	}

	maxVisible := min(15, height-6)
	if maxVisible < 3 {
		maxVisible = 3
	}
	dialogW := max(width*60/100, 40)
	if dialogW > width-4 {
		dialogW = width - 4
	}
	dialogH := max(min(len(cp.Filtered), maxVisible)+4, 5)
	dialogX := x + (width-dialogW)/2
	dialogY := y + 2

	bgStyle := tcell.StyleDefault.Background(theme.DialogBg).Foreground(theme.DialogFg)
	titleStyle := tcell.StyleDefault.Background(theme.StatusBarModeBg).Foreground(tcell.ColorWhite).Bold(true)
	inputStyle := tcell.StyleDefault.Background(theme.DialogInputBg).Foreground(theme.Output)
	selectedStyle := tcell.StyleDefault.Background(theme.Selection).Foreground(theme.Output)
	mutedStyle := tcell.StyleDefault.Background(theme.DialogBg).Foreground(theme.Muted)

	drawBox(screen, dialogX, dialogY, dialogW, dialogH, bgStyle)
	drawTitle(screen, dialogX, dialogY, dialogW, " Command Palette ", titleStyle)

	// Input line
	inputX, inputY, inputW := dialogX+2, dialogY+1, dialogW-4
	for dx := 0; dx < inputW; dx++ {
		screen.SetContent(inputX+dx, inputY, ' ', nil, inputStyle)
	}
	inputRunes := append([]rune("> "), []rune(cp.Input)...)
	for i, ch := range inputRunes {
		if i >= inputW {
			break
		}
		screen.SetContent(inputX+i, inputY, ch, nil, inputStyle)
	}
	if cx := inputX + 2 + cp.CursorPos; cx < inputX+inputW {
		ch := ' '
		if cp.CursorPos < len(inputRunes)-2 {
			ch = inputRunes[cp.CursorPos+2]
		}
		screen.SetContent(cx, inputY, ch, nil, inputStyle.Reverse(true))
	}

	sepY := dialogY + 2
	for dx := 1; dx < dialogW-1; dx++ {
		screen.SetContent(dialogX+dx, sepY, '─', nil, bgStyle)
	}
	screen.SetContent(dialogX, sepY, '├', nil, bgStyle)
	screen.SetContent(dialogX+dialogW-1, sepY, '┤', nil, bgStyle)
	count := fmt.Sprintf(" %d commands ", len(cp.Filtered))
	drawText(screen, dialogX+dialogW-1-len(count), sepY, dialogX+dialogW-1, count, mutedStyle)

	if cp.Selected < cp.scrollOff {
		cp.scrollOff = cp.Selected
	}
	if cp.Selected >= cp.scrollOff+maxVisible {
		cp.scrollOff = cp.Selected - maxVisible + 1
	}

	for i := 0; i < maxVisible && i+cp.scrollOff < len(cp.Filtered); i++ {
		idx := i + cp.scrollOff
		entry := cp.Filtered[idx]
		rowY := sepY + 1 + i

		base, side := bgStyle, mutedStyle
		match := bgStyle.Foreground(tcell.ColorYellow).Bold(true)
		if idx == cp.Selected {
			base = selectedStyle
			side = selectedStyle.Foreground(theme.Muted)
			match = selectedStyle.Foreground(tcell.ColorYellow).Bold(true)
		}
		for dx := 1; dx < dialogW-1; dx++ {
			screen.SetContent(dialogX+dx, rowY, ' ', nil, base)
		}

		right := entry.Shortcut
		if entry.Detail != nil {
			if d := entry.Detail(); d != "" {
				right = strings.TrimSpace(d + "  " + right)
			}
		}
		maxCol := dialogX + dialogW - 2
		nameMax := maxCol
		if right != "" {
			nameMax -= len([]rune(right)) + 2
		}

		matched := make(map[int]bool, len(entry.MatchIdxs))
		for _, mi := range entry.MatchIdxs {
			matched[mi] = true
		}
		col := dialogX + 2
		for ci, ch := range []rune(entry.Name) {
			if col >= nameMax {
				break
			}
			style := base
			if matched[ci] {
				style = match
			}
			screen.SetContent(col, rowY, ch, nil, style)
			col++
		}
		if right != "" {
			drawText(screen, maxCol-len([]rune(right)), rowY, maxCol, right, side)
		}
	}
}

func (cp *CommandPalette) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		cp.close()
	case tcell.KeyEnter:
		if cp.Selected >= 0 && cp.Selected < len(cp.Filtered) {
			action := cp.Filtered[cp.Selected].Action
			cp.close()
			if action != nil {
				action()
			}
		}
	case tcell.KeyUp:
		if cp.Selected > 0 {
			cp.Selected--
		}
	case tcell.KeyDown:
		if cp.Selected < len(cp.Filtered)-1 {
			cp.Selected++
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if cp.CursorPos > 0 {
			runes := []rune(cp.Input)
			cp.Input = string(runes[:cp.CursorPos-1]) + string(runes[cp.CursorPos:])
			cp.CursorPos--
			cp.updateFilter()
		}
	case tcell.KeyLeft:
		if cp.CursorPos > 0 {
			cp.CursorPos--
		}
	case tcell.KeyRight:
		if cp.CursorPos < len([]rune(cp.Input)) {
			cp.CursorPos++
		}
	case tcell.KeyRune:
		runes := []rune(cp.Input)
		cp.Input = string(runes[:cp.CursorPos]) + string(ev.Rune()) + string(runes[cp.CursorPos:])
		cp.CursorPos++
		cp.updateFilter()
	}
	return true // absorb all keys while open
}

func (cp *CommandPalette) close() {
	if cp.OnClose != nil {
		cp.OnClose()
	}
}

func (cp *CommandPalette) HandleMouse(ev *tcell.EventMouse) bool {
	return true // absorb mouse events
}

func (cp *CommandPalette) IsFocused() bool   { return cp.focused }
func (cp *CommandPalette) SetFocused(f bool) { cp.focused = f }
