//go:build darwin || freebsd || netbsd || openbsd

package control

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios = unix.TIOCGETA
	vdisable         = 0xff
)
