package control

import (
	"errors"
	"testing"
)

type fakeSource struct {
	table   map[Signal]byte
	lookups int
	err     error
}

func (f *fakeSource) Lookup(sig Signal) (byte, bool, error) {
	f.lookups++
	if f.err != nil {
		return 0, false, f.err
	}
	c, ok := f.table[sig]
	return c, ok, nil
}

func TestResolveIsIdempotent(t *testing.T) {
	src := &fakeSource{table: map[Signal]byte{Interrupt: 0x03}}
	m := NewMap(src)
	first, ok, err := m.Resolve(Interrupt)
	if err != nil || !ok {
		t.Fatalf("resolve failed: ok=%v err=%v", ok, err)
	}
	second, _, _ := m.Resolve(Interrupt)
	if first != second || first != 0x03 {
		t.Fatalf("expected 0x03 twice, got %#x and %#x", first, second)
	}
}

func TestResolveQueriesSourceEveryTime(t *testing.T) {
	src := &fakeSource{table: map[Signal]byte{Interrupt: 0x03}}
	m := NewMap(src)
	_, _, _ = m.Resolve(Interrupt)
	src.table[Interrupt] = 0x18 // stty intr ^X
	b, ok, err := m.Resolve(Interrupt)
	if err != nil || !ok {
		t.Fatalf("resolve failed: ok=%v err=%v", ok, err)
	}
	if b != 0x18 {
		t.Fatalf("expected rebinding to be honoured, got %#x", b)
	}
	if src.lookups != 2 {
		t.Fatalf("expected 2 lookups, got %d", src.lookups)
	}
}

func TestResolveDisabled(t *testing.T) {
	m := NewMap(&fakeSource{table: map[Signal]byte{}})
	b, ok, err := m.Resolve(Suspend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || b != 0 {
		t.Fatalf("expected disabled signal, got ok=%v b=%#x", ok, b)
	}
}

func TestResolveErrors(t *testing.T) {
	m := NewMap(&fakeSource{err: errors.New("bad fd")})
	if _, _, err := m.Resolve(EOF); err == nil {
		t.Fatalf("expected source error to propagate")
	}
	if _, _, err := m.Resolve(Signal(99)); !errors.Is(err, ErrUnknownSignal) {
		t.Fatalf("expected ErrUnknownSignal, got %v", err)
	}
}

func TestParseSignal(t *testing.T) {
	sig, err := ParseSignal("werase")
	if err != nil || sig != WordErase {
		t.Fatalf("expected WordErase, got %v err=%v", sig, err)
	}
	if _, err := ParseSignal("nope"); !errors.Is(err, ErrUnknownSignal) {
		t.Fatalf("expected ErrUnknownSignal, got %v", err)
	}
	if Interrupt.String() != "interrupt" {
		t.Fatalf("unexpected name %q", Interrupt.String())
	}
}
