//go:build !linux

package ptylink

import "errors"

func (l *Link) Cwd() (string, error) {
	return "", errors.ErrUnsupported
}

func (l *Link) Executable() (string, error) {
	return "", errors.ErrUnsupported
}
