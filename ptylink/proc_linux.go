package ptylink

import (
	"os"
	"path/filepath"
	"strconv"
)

// Foreground process information comes from procfs.

func (l *Link) Cwd() (string, error) {
	return l.procLink("cwd")
}

func (l *Link) Executable() (string, error) {
	return l.procLink("exe")
}

func (l *Link) procLink(name string) (string, error) {
	pid, err := l.ForegroundPID()
	if err != nil {
		return "", err
	}
	dest, err := os.Readlink(filepath.Join("/proc", strconv.Itoa(pid), name))
	if err != nil {
		return "", err
	}
	return filepath.Abs(dest)
}
