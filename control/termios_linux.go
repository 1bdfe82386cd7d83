package control

import "golang.org/x/sys/unix"

const (
	ioctlReadTermios = unix.TCGETS
	vdisable         = 0
)
