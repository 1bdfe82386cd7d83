// Package control resolves terminal-discipline control signals to the byte
// currently bound to them on a PTY.
//
// Key gestures are bound to signals elsewhere and never change at runtime;
// the byte for a signal is looked up on every Resolve so that an external
// stty invocation takes effect immediately.
package control

import (
	"errors"
	"fmt"
)

type Signal int

const (
	Interrupt Signal = iota
	EOF
	Suspend
	Quit
	Erase
	Kill
	WordErase
	LiteralNext
	Reprint
	Discard
	Start
	Stop
)

var signalNames = map[Signal]string{
	Interrupt:   "interrupt",
	EOF:         "eof",
	Suspend:     "suspend",
	Quit:        "quit",
	Erase:       "erase",
	Kill:        "kill",
	WordErase:   "werase",
	LiteralNext: "lnext",
	Reprint:     "reprint",
	Discard:     "discard",
	Start:       "start",
	Stop:        "stop",
}

// Signals lists every signal in declaration order.
func Signals() []Signal {
	sigs := make([]Signal, 0, len(signalNames))
	for s := Interrupt; s <= Stop; s++ {
		sigs = append(sigs, s)
	}
	return sigs
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return fmt.Sprintf("signal(%d)", int(s))
}

// ParseSignal maps an stty-style name back to its Signal.
func ParseSignal(name string) (Signal, error) {
	for sig, n := range signalNames {
		if n == name {
			return sig, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
}

var ErrUnknownSignal = errors.New("unknown control signal")

// Source reads the raw control character table of a terminal. Lookup
// reports bound == false when the terminal has the signal disabled.
type Source interface {
	Lookup(sig Signal) (c byte, bound bool, err error)
}

// Map resolves signals against a live Source. It holds no cache.
type Map struct {
	src Source
}

func NewMap(src Source) *Map {
	return &Map{src: src}
}

// Resolve returns the byte currently bound to sig. ok is false when the
// signal is disabled; callers must then send nothing.
func (m *Map) Resolve(sig Signal) (b byte, ok bool, err error) {
	if _, known := signalNames[sig]; !known {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownSignal, int(sig))
	}
	c, bound, err := m.src.Lookup(sig)
	if err != nil {
		return 0, false, fmt.Errorf("resolve %s: %w", sig, err)
	}
	if !bound {
		return 0, false, nil
	}
	return c, true, nil
}
