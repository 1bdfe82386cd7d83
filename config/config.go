package config

import (
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

type Config struct {
	Shell       string `mapstructure:"shell" yaml:"shell"`
	Term        string `mapstructure:"term" yaml:"term"`
	Scrollback  int    `mapstructure:"scrollback_lines" yaml:"scrollback_lines"`
	HistorySize int    `mapstructure:"history_size" yaml:"history_size"`
	Autoscroll  bool   `mapstructure:"autoscroll" yaml:"autoscroll"`
	WordWrap    bool   `mapstructure:"word_wrap" yaml:"word_wrap"`
	Theme       string `mapstructure:"theme" yaml:"theme"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
}

type ColorScheme struct {
	Name            string
	Background      tcell.Color
	Output          tcell.Color
	Input           tcell.Color
	Selection       tcell.Color
	Muted           tcell.Color
	StatusBarBg     tcell.Color
	StatusBarFg     tcell.Color
	StatusBarModeBg tcell.Color
	DialogBg        tcell.Color
	DialogFg        tcell.Color
	DialogInputBg   tcell.Color
}

var Themes = map[string]*ColorScheme{
	"dark": {
		Name:            "Dark",
		Background:      tcell.ColorBlack,
		Output:          tcell.ColorWhite,
		Input:           tcell.ColorBlue,
		Selection:       tcell.ColorDarkBlue,
		Muted:           tcell.ColorGray,
		StatusBarBg:     tcell.ColorDarkBlue,
		StatusBarFg:     tcell.ColorWhite,
		StatusBarModeBg: tcell.ColorBlue,
		DialogBg:        tcell.ColorBlack,
		DialogFg:        tcell.ColorWhite,
		DialogInputBg:   tcell.ColorDarkBlue,
	},
	"light": {
		Name:            "Light",
		Background:      tcell.ColorWhite,
		Output:          tcell.ColorBlack,
		Input:           tcell.ColorBlue,
		Selection:       tcell.ColorLightBlue,
		Muted:           tcell.ColorGray,
		StatusBarBg:     tcell.ColorLightBlue,
		StatusBarFg:     tcell.ColorBlack,
		StatusBarModeBg: tcell.ColorBlue,
		DialogBg:        tcell.ColorWhite,
		DialogFg:        tcell.ColorBlack,
		DialogInputBg:   tcell.ColorLightGray,
	},
	"monokai": {
		Name:            "Monokai",
		Background:      tcell.NewRGBColor(39, 40, 34),
		Output:          tcell.NewRGBColor(248, 248, 242),
		Input:           tcell.NewRGBColor(102, 217, 239),
		Selection:       tcell.NewRGBColor(73, 72, 62),
		Muted:           tcell.NewRGBColor(144, 144, 128),
		StatusBarBg:     tcell.NewRGBColor(73, 72, 62),
		StatusBarFg:     tcell.NewRGBColor(248, 248, 242),
		StatusBarModeBg: tcell.NewRGBColor(102, 217, 239),
		DialogBg:        tcell.NewRGBColor(39, 40, 34),
		DialogFg:        tcell.NewRGBColor(248, 248, 242),
		DialogInputBg:   tcell.NewRGBColor(73, 72, 62),
	},
	"nord": {
		Name:            "Nord",
		Background:      tcell.NewRGBColor(46, 52, 64),
		Output:          tcell.NewRGBColor(236, 239, 244),
		Input:           tcell.NewRGBColor(136, 192, 208),
		Selection:       tcell.NewRGBColor(67, 76, 94),
		Muted:           tcell.NewRGBColor(76, 86, 106),
		StatusBarBg:     tcell.NewRGBColor(67, 76, 94),
		StatusBarFg:     tcell.NewRGBColor(236, 239, 244),
		StatusBarModeBg: tcell.NewRGBColor(136, 192, 208),
		DialogBg:        tcell.NewRGBColor(46, 52, 64),
		DialogFg:        tcell.NewRGBColor(236, 239, 244),
		DialogInputBg:   tcell.NewRGBColor(67, 76, 94),
	},
	"solarized-dark": {
		Name:            "Solarized Dark",
		Background:      tcell.NewRGBColor(0, 43, 54),
		Output:          tcell.NewRGBColor(131, 148, 150),
		Input:           tcell.NewRGBColor(38, 139, 210),
		Selection:       tcell.NewRGBColor(7, 54, 66),
		Muted:           tcell.NewRGBColor(88, 110, 117),
		StatusBarBg:     tcell.NewRGBColor(7, 54, 66),
		StatusBarFg:     tcell.NewRGBColor(147, 161, 161),
		StatusBarModeBg: tcell.NewRGBColor(38, 139, 210),
		DialogBg:        tcell.NewRGBColor(0, 43, 54),
		DialogFg:        tcell.NewRGBColor(131, 148, 150),
		DialogInputBg:   tcell.NewRGBColor(7, 54, 66),
	},
	"gruvbox": {
		Name:            "Gruvbox Dark",
		Background:      tcell.NewRGBColor(40, 40, 40),
		Output:          tcell.NewRGBColor(235, 219, 178),
		Input:           tcell.NewRGBColor(131, 165, 152),
		Selection:       tcell.NewRGBColor(60, 56, 54),
		Muted:           tcell.NewRGBColor(146, 131, 116),
		StatusBarBg:     tcell.NewRGBColor(60, 56, 54),
		StatusBarFg:     tcell.NewRGBColor(235, 219, 178),
		StatusBarModeBg: tcell.NewRGBColor(184, 187, 38),
		DialogBg:        tcell.NewRGBColor(40, 40, 40),
		DialogFg:        tcell.NewRGBColor(235, 219, 178),
		DialogInputBg:   tcell.NewRGBColor(60, 56, 54),
	},
	"gruvbox-light": {
		Name:            "Gruvbox Light",
		Background:      tcell.NewRGBColor(251, 241, 199),
		Output:          tcell.NewRGBColor(60, 56, 54),
		Input:           tcell.NewRGBColor(69, 133, 136),
		Selection:       tcell.NewRGBColor(213, 196, 161),
		Muted:           tcell.NewRGBColor(189, 174, 147),
		StatusBarBg:     tcell.NewRGBColor(213, 196, 161),
		StatusBarFg:     tcell.NewRGBColor(60, 56, 54),
		StatusBarModeBg: tcell.NewRGBColor(121, 116, 14),
		DialogBg:        tcell.NewRGBColor(251, 241, 199),
		DialogFg:        tcell.NewRGBColor(60, 56, 54),
		DialogInputBg:   tcell.NewRGBColor(213, 196, 161),
	},
	"dracula": {
		Name:            "Dracula",
		Background:      tcell.NewRGBColor(40, 42, 54),
		Output:          tcell.NewRGBColor(248, 248, 242),
		Input:           tcell.NewRGBColor(139, 233, 253),
		Selection:       tcell.NewRGBColor(68, 71, 90),
		Muted:           tcell.NewRGBColor(98, 114, 164),
		StatusBarBg:     tcell.NewRGBColor(68, 71, 90),
		StatusBarFg:     tcell.NewRGBColor(248, 248, 242),
		StatusBarModeBg: tcell.NewRGBColor(189, 147, 249),
		DialogBg:        tcell.NewRGBColor(40, 42, 54),
		DialogFg:        tcell.NewRGBColor(248, 248, 242),
		DialogInputBg:   tcell.NewRGBColor(68, 71, 90),
	},
	"one-dark": {
		Name:            "One Dark",
		Background:      tcell.NewRGBColor(40, 44, 52),
		Output:          tcell.NewRGBColor(171, 178, 191),
		Input:           tcell.NewRGBColor(97, 175, 239),
		Selection:       tcell.NewRGBColor(61, 66, 77),
		Muted:           tcell.NewRGBColor(92, 99, 112),
		StatusBarBg:     tcell.NewRGBColor(61, 66, 77),
		StatusBarFg:     tcell.NewRGBColor(171, 178, 191),
		StatusBarModeBg: tcell.NewRGBColor(97, 175, 239),
		DialogBg:        tcell.NewRGBColor(40, 44, 52),
		DialogFg:        tcell.NewRGBColor(171, 178, 191),
		DialogInputBg:   tcell.NewRGBColor(61, 66, 77),
	},
	"tokyo-night": {
		Name:            "Tokyo Night",
		Background:      tcell.NewRGBColor(26, 27, 38),
		Output:          tcell.NewRGBColor(169, 177, 214),
		Input:           tcell.NewRGBColor(125, 207, 255),
		Selection:       tcell.NewRGBColor(47, 52, 73),
		Muted:           tcell.NewRGBColor(86, 95, 137),
		StatusBarBg:     tcell.NewRGBColor(47, 52, 73),
		StatusBarFg:     tcell.NewRGBColor(169, 177, 214),
		StatusBarModeBg: tcell.NewRGBColor(125, 207, 255),
		DialogBg:        tcell.NewRGBColor(26, 27, 38),
		DialogFg:        tcell.NewRGBColor(169, 177, 214),
		DialogInputBg:   tcell.NewRGBColor(47, 52, 73),
	},
	"catppuccin": {
		Name:            "Catppuccin Mocha",
		Background:      tcell.NewRGBColor(30, 30, 46),
		Output:          tcell.NewRGBColor(205, 214, 244),
		Input:           tcell.NewRGBColor(137, 220, 235),
		Selection:       tcell.NewRGBColor(69, 71, 90),
		Muted:           tcell.NewRGBColor(108, 112, 134),
		StatusBarBg:     tcell.NewRGBColor(69, 71, 90),
		StatusBarFg:     tcell.NewRGBColor(205, 214, 244),
		StatusBarModeBg: tcell.NewRGBColor(180, 190, 254),
		DialogBg:        tcell.NewRGBColor(30, 30, 46),
		DialogFg:        tcell.NewRGBColor(205, 214, 244),
		DialogInputBg:   tcell.NewRGBColor(69, 71, 90),
	},
	"high-contrast": {
		Name:            "High Contrast",
		Background:      tcell.NewRGBColor(0, 0, 0),
		Output:          tcell.NewRGBColor(255, 255, 255),
		Input:           tcell.NewRGBColor(100, 200, 255),
		Selection:       tcell.NewRGBColor(0, 80, 160),
		Muted:           tcell.NewRGBColor(180, 180, 180),
		StatusBarBg:     tcell.NewRGBColor(0, 0, 200),
		StatusBarFg:     tcell.NewRGBColor(255, 255, 255),
		StatusBarModeBg: tcell.NewRGBColor(200, 200, 0),
		DialogBg:        tcell.NewRGBColor(0, 0, 0),
		DialogFg:        tcell.NewRGBColor(255, 255, 255),
		DialogInputBg:   tcell.NewRGBColor(40, 40, 40),
	},
}

func Default() *Config {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Config{
		Shell:       shell,
		Term:        "dumb",
		Scrollback:  -1,
		HistorySize: 1000,
		Autoscroll:  true,
		WordWrap:    true,
		Theme:       "monokai",
		LogFile:     DefaultLogPath(),
		LogLevel:    "info",
	}
}

func (c *Config) GetTheme() *ColorScheme {
	theme, ok := Themes[c.Theme]
	if !ok {
		return Themes["monokai"]
	}
	return theme
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lineterm", "config.yaml")
}

// DefaultLogPath follows XDG_STATE_HOME, falling back to ~/.local/state.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "lineterm.log")
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "lineterm", "lineterm.log")
}
