package ptylink

import (
	"strings"
	"testing"
)

func TestDecoderCarriesSplitRune(t *testing.T) {
	d := NewDecoder()
	euro := []byte("€") // e2 82 ac
	if got := d.Decode([]byte{'a', euro[0]}); got != "a" {
		t.Fatalf("expected a, got %q", got)
	}
	if got := d.Decode(euro[1:2]); got != "" {
		t.Fatalf("expected nothing while the rune is incomplete, got %q", got)
	}
	if got := d.Decode(append(euro[2:], 'b')); got != "€b" {
		t.Fatalf("expected €b, got %q", got)
	}
}

func TestDecoderReplacesInvalidBytes(t *testing.T) {
	d := NewDecoder()
	got := d.Decode([]byte{'x', 0xff, 'y', 0xc3, 0x28})
	if got != "x�y�(" {
		t.Fatalf("unexpected decode %q", got)
	}
}

func TestDecoderDoesNotHoldBackBrokenLeadByte(t *testing.T) {
	d := NewDecoder()
	if got := d.Decode([]byte("caf\xe9\n")); got != "caf\uFFFD\n" {
		t.Fatalf("expected latin-1 byte replaced and newline kept, got %q", got)
	}
	if len(d.pending) != 0 {
		t.Fatalf("nothing should be pending, got %q", d.pending)
	}
	// A broken lead byte followed by a genuinely split rune.
	euro := []byte("€")
	if got := d.Decode(append([]byte{0xe9, 'x'}, euro[:2]...)); got != "\uFFFDx" {
		t.Fatalf("expected replacement and x, got %q", got)
	}
	if got := d.Decode(euro[2:]); got != "€" {
		t.Fatalf("expected the split rune to complete, got %q", got)
	}
}

func TestDecoderFlushReplacesDanglingPrefix(t *testing.T) {
	d := NewDecoder()
	if got := d.Decode([]byte{'o', 'k', 0xf0, 0x9f}); got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	if got := d.Flush(); !strings.Contains(got, "�") {
		t.Fatalf("expected replacement on flush, got %q", got)
	}
	if got := d.Flush(); got != "" {
		t.Fatalf("second flush should be empty, got %q", got)
	}
}

func TestDecoderLargeInvalidChunk(t *testing.T) {
	d := NewDecoder()
	chunk := make([]byte, 5000)
	for i := range chunk {
		chunk[i] = 0x80
	}
	got := d.Decode(chunk)
	if n := strings.Count(got, "�"); n != len(chunk) {
		t.Fatalf("expected %d replacements, got %d", len(chunk), n)
	}
}

func TestParseSplitsBells(t *testing.T) {
	toks := Parse("ab\a\acd\x1b[1m")
	want := []Token{
		{Kind: TokenText, Text: "ab"},
		{Kind: TokenBell},
		{Kind: TokenBell},
		{Kind: TokenText, Text: "cd\x1b[1m"},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %+v", len(want), toks)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("token %d: expected %+v, got %+v", i, want[i], toks[i])
		}
	}
	if len(Parse("")) != 0 {
		t.Fatalf("empty input should yield no tokens")
	}
}
