package clipboardx

import (
	"errors"
	"testing"
)

type memBackend struct {
	text string
	err  error
}

func (m *memBackend) write(text string) error {
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

func (m *memBackend) read() (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func TestCopyFallsBackToInternal(t *testing.T) {
	b := &Board{backends: []backend{&memBackend{err: errors.New("no display")}}}
	if err := b.Copy("ls -l\r\n"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if got := b.Paste(); got != "ls -l\n" {
		t.Fatalf("expected private copy with normalised newline, got %q", got)
	}
}

func TestCopyUsesFirstWorkingBackend(t *testing.T) {
	broken := &memBackend{err: errors.New("down")}
	system := &memBackend{}
	b := &Board{backends: []backend{broken, system}}
	if err := b.Copy("echo hi"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if system.text != "echo hi" {
		t.Fatalf("expected system clipboard written, got %q", system.text)
	}
	system.text = "a\rb"
	if got := b.Paste(); got != "a\nb" {
		t.Fatalf("expected system text, got %q", got)
	}
}
