package ptylink

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"

	"lineterm/control"
)

func startCat(t *testing.T) *Link {
	t.Helper()
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	ptmx.Close()
	tty.Close()

	l, err := Start(context.Background(), Options{Argv: []string{"cat"}, Term: "dumb", Rows: 24, Cols: 80})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLinkRoundTripWithoutEcho(t *testing.T) {
	l := startCat(t)

	out := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- l.Pump(func(b []byte) { out <- string(b) })
	}()

	if err := l.Send([]byte("hi\n")); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	var got strings.Builder
	deadline := time.After(5 * time.Second)
	for got.String() != "hi\n" {
		select {
		case s := <-out:
			got.WriteString(s)
			if len(got.String()) > 3 {
				t.Fatalf("expected only cat's copy of the line, got %q", got.String())
			}
		case <-deadline:
			t.Fatalf("timed out, got %q", got.String())
		}
	}

	b, ok, err := l.Lookup(control.EOF)
	if err != nil || !ok {
		t.Fatalf("eof lookup failed: ok=%v err=%v", ok, err)
	}
	if err := l.Send([]byte{b}); err != nil {
		t.Fatalf("send eof failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("pump ended with error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("pump did not end after eof")
	}
	if err := l.Wait(); err != nil {
		t.Fatalf("cat exited with error: %v", err)
	}
}

func TestSendAfterCloseIsBroken(t *testing.T) {
	l := startCat(t)
	if err := l.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := l.Send([]byte("x")); !errors.Is(err, ErrBrokenChannel) {
		t.Fatalf("expected ErrBrokenChannel, got %v", err)
	}
	if _, _, err := l.Lookup(control.Interrupt); !errors.Is(err, ErrBrokenChannel) {
		t.Fatalf("expected ErrBrokenChannel from lookup, got %v", err)
	}
}

func TestCloseKillsChildIgnoringHangup(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("no pty available: %v", err)
	}
	ptmx.Close()
	tty.Close()

	prev := hangupGrace
	hangupGrace = 200 * time.Millisecond
	t.Cleanup(func() { hangupGrace = prev })

	l, err := Start(context.Background(), Options{
		Argv: []string{"sh", "-c", "trap '' HUP; echo ready; sleep 30"},
		Term: "dumb",
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	ready := make(chan struct{})
	go func() {
		var seen strings.Builder
		_ = l.Pump(func(b []byte) {
			seen.Write(b)
			if strings.Contains(seen.String(), "ready") {
				select {
				case <-ready:
				default:
					close(ready)
				}
			}
		})
	}()
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatalf("child never got ready")
	}

	closed := make(chan error, 1)
	go func() { closed <- l.Close() }()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatalf("close blocked on a child that ignores SIGHUP")
	}
	if l.ExitCode() == 0 {
		t.Fatalf("child should have been killed")
	}
}

func TestStartRequiresCommand(t *testing.T) {
	if _, err := Start(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error for empty argv")
	}
}
