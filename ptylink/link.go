// Package ptylink is the byte channel between the emulator and a child
// process running on a pseudoterminal.
package ptylink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"lineterm/control"
	"pkt.systems/pslog"
)

// ErrBrokenChannel means the child is gone or the master descriptor can no
// longer be used. It is never retried.
var ErrBrokenChannel = errors.New("child channel broken")

const readChunk = 4096

var hangupGrace = 2 * time.Second

type Options struct {
	Argv []string
	Dir  string
	Env  []string // appended to os.Environ()
	Term string
	Rows int
	Cols int
}

// Link owns the PTY master and the child process attached to its slave.
type Link struct {
	master *os.File
	cmd    *exec.Cmd
	closed atomic.Bool

	waitOnce sync.Once
	waitErr  error
}

// Start allocates a PTY, switches the slave to no-echo, no-onlcr mode so the
// emulator alone displays typed text, and runs argv on it.
func Start(ctx context.Context, opts Options) (*Link, error) {
	if len(opts.Argv) == 0 {
		return nil, errors.New("no command to run")
	}
	log := pslog.Ctx(ctx)

	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	defer tty.Close()

	if err := configureSlave(tty); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("configure pty: %w", err)
	}
	if opts.Rows > 0 && opts.Cols > 0 {
		if err := pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(opts.Rows), Cols: uint16(opts.Cols)}); err != nil {
			log.Warn("initial pty size rejected", "err", err)
		}
	}

	cmd := exec.Command(opts.Argv[0], opts.Argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = os.Environ()
	if opts.Term != "" {
		cmd.Env = append(cmd.Env, "TERM="+opts.Term)
	}
	cmd.Env = append(cmd.Env, opts.Env...)
	cmd.Stdin = tty
	cmd.Stdout = tty
	cmd.Stderr = tty
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	if err := cmd.Start(); err != nil {
		ptmx.Close()
		return nil, fmt.Errorf("start %s: %w", opts.Argv[0], err)
	}
	log.Info("child started", "cmd", opts.Argv[0], "pid", cmd.Process.Pid, "term", opts.Term)
	return &Link{master: ptmx, cmd: cmd}, nil
}

func configureSlave(tty *os.File) error {
	rc, err := tty.SyscallConn()
	if err != nil {
		return err
	}
	var ioctlErr error
	err = rc.Control(func(fd uintptr) {
		t, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
		if err != nil {
			ioctlErr = err
			return
		}
		t.Lflag &^= unix.ECHO
		t.Oflag &^= unix.ONLCR
		ioctlErr = unix.IoctlSetTermios(int(fd), ioctlWriteTermios, t)
	})
	if err != nil {
		return err
	}
	return ioctlErr
}

// Send writes p to the child in one ordered write.
func (l *Link) Send(p []byte) error {
	if l.closed.Load() {
		return fmt.Errorf("%w: link closed", ErrBrokenChannel)
	}
	if _, err := l.master.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrBrokenChannel, err)
	}
	return nil
}

// Pump reads child output until the child side closes, handing every chunk
// to sink. sink receives its own copy of the bytes. End of stream returns
// nil; any other read failure returns ErrBrokenChannel.
func (l *Link) Pump(sink func([]byte)) error {
	buf := make([]byte, readChunk)
	for {
		n, err := l.master.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			sink(data)
		}
		if err == nil {
			continue
		}
		// Linux reports EIO on the master once every slave fd is closed.
		if errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) {
			return nil
		}
		return fmt.Errorf("%w: read: %v", ErrBrokenChannel, err)
	}
}

// Lookup implements control.Source against the live termios of the PTY.
func (l *Link) Lookup(sig control.Signal) (c byte, bound bool, err error) {
	if l.closed.Load() {
		return 0, false, fmt.Errorf("%w: link closed", ErrBrokenChannel)
	}
	rc, err := l.master.SyscallConn()
	if err != nil {
		return 0, false, err
	}
	cerr := rc.Control(func(fd uintptr) {
		c, bound, err = control.FD(fd).Lookup(sig)
	})
	if cerr != nil {
		return 0, false, cerr
	}
	return c, bound, err
}

// Resize publishes the visible area to the child (TIOCSWINSZ). Line-based
// output has no grid, so this is only a hint for programs like ls.
func (l *Link) Resize(rows, cols int) error {
	if rows <= 0 || cols <= 0 || l.closed.Load() {
		return nil
	}
	return pty.Setsize(l.master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// ForegroundPID returns the process group currently owning the terminal.
func (l *Link) ForegroundPID() (int, error) {
	rc, err := l.master.SyscallConn()
	if err != nil {
		return 0, err
	}
	var pgrp int
	var ioctlErr error
	err = rc.Control(func(fd uintptr) {
		pgrp, ioctlErr = unix.IoctlGetInt(int(fd), unix.TIOCGPGRP)
	})
	if err != nil {
		return 0, err
	}
	return pgrp, ioctlErr
}

// Wait blocks until the child exits. Safe to call more than once.
func (l *Link) Wait() error {
	l.waitOnce.Do(func() {
		l.waitErr = l.cmd.Wait()
	})
	return l.waitErr
}

// ExitCode returns the child's exit status once Wait has returned.
func (l *Link) ExitCode() int {
	if l.cmd.ProcessState == nil {
		return -1
	}
	return l.cmd.ProcessState.ExitCode()
}

// Close hangs up the terminal and reaps the child. The child's process
// group gets SIGHUP; whatever is still alive after hangupGrace is killed.
func (l *Link) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := l.master.Close()
	if l.cmd.Process == nil || l.cmd.ProcessState != nil {
		return err
	}

	exited := make(chan struct{})
	go func() {
		_ = l.Wait()
		close(exited)
	}()
	// Setsid made the child a group leader, so -pid addresses the group.
	pgid := -l.cmd.Process.Pid
	_ = unix.Kill(pgid, unix.SIGHUP)
	select {
	case <-exited:
	case <-time.After(hangupGrace):
		_ = unix.Kill(pgid, unix.SIGKILL)
		<-exited
	}
	return err
}
