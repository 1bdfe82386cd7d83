// Package clipboardx moves text between the pending input and the system
// clipboard, keeping a private copy for machines without one.
package clipboardx

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnavailable means no system clipboard accepted the text. The text is
// still kept in the board's private copy.
var ErrUnavailable = errors.New("no system clipboard available")

type backend interface {
	write(text string) error
	read() (string, error)
}

type Board struct {
	backends []backend
	internal string
}

// New returns a board backed by the platform clipboard and, failing that,
// the usual clipboard commands found on PATH.
func New() *Board {
	backends := []backend{atotto{}}
	for _, c := range commands {
		backends = append(backends, c)
	}
	return &Board{backends: backends}
}

func (b *Board) Copy(text string) error {
	b.internal = text
	for _, be := range b.backends {
		if err := be.write(text); err == nil {
			return nil
		}
	}
	return ErrUnavailable
}

// Paste returns clipboard text with line endings normalised to \n.
func (b *Board) Paste() string {
	text := b.internal
	for _, be := range b.backends {
		if got, err := be.read(); err == nil && got != "" {
			text = got
			break
		}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

type atotto struct{}

func (atotto) write(text string) error { return clipboard.WriteAll(text) }
func (atotto) read() (string, error)   { return clipboard.ReadAll() }

type command struct {
	copyName  string
	copyArgs  []string
	pasteName string
	pasteArgs []string
}

var commands = []command{
	{"wl-copy", nil, "wl-paste", []string{"--no-newline"}},
	{"xclip", []string{"-selection", "clipboard"}, "xclip", []string{"-o", "-selection", "clipboard"}},
	{"xsel", []string{"--clipboard", "--input"}, "xsel", []string{"--clipboard", "--output"}},
	{"pbcopy", nil, "pbpaste", nil},
	{"clip.exe", nil, "powershell.exe", []string{"-NoProfile", "-Command", "Get-Clipboard"}},
}

func (c command) write(text string) error {
	if _, err := exec.LookPath(c.copyName); err != nil {
		return err
	}
	cmd := exec.Command(c.copyName, c.copyArgs...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func (c command) read() (string, error) {
	if _, err := exec.LookPath(c.pasteName); err != nil {
		return "", err
	}
	out, err := exec.Command(c.pasteName, c.pasteArgs...).Output()
	return string(out), err
}
