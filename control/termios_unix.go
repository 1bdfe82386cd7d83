//go:build linux || darwin || freebsd || netbsd || openbsd

package control

import (
	"golang.org/x/sys/unix"
)

// ccIndex maps a Signal to its slot in termios c_cc.
var ccIndex = map[Signal]int{
	Interrupt:   unix.VINTR,
	EOF:         unix.VEOF,
	Suspend:     unix.VSUSP,
	Quit:        unix.VQUIT,
	Erase:       unix.VERASE,
	Kill:        unix.VKILL,
	WordErase:   unix.VWERASE,
	LiteralNext: unix.VLNEXT,
	Reprint:     unix.VREPRINT,
	Discard:     unix.VDISCARD,
	Start:       unix.VSTART,
	Stop:        unix.VSTOP,
}

// FD is a Source reading c_cc from a terminal file descriptor. For a PTY
// the master descriptor reports the slave's settings.
type FD uintptr

func (fd FD) Lookup(sig Signal) (byte, bool, error) {
	idx, ok := ccIndex[sig]
	if !ok {
		return 0, false, ErrUnknownSignal
	}
	t, err := unix.IoctlGetTermios(int(fd), ioctlReadTermios)
	if err != nil {
		return 0, false, err
	}
	c := t.Cc[idx]
	if c == vdisable {
		return 0, false, nil
	}
	return c, true, nil
}
