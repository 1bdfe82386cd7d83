package ptylink

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns PTY chunks into text. A multi-byte sequence split across
// two reads is held back until the rest arrives; bytes that can never form
// valid UTF-8 become U+FFFD.
type Decoder struct {
	t       transform.Transformer
	pending []byte
}

func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder()}
}

func (d *Decoder) Decode(chunk []byte) string {
	src := chunk
	if len(d.pending) > 0 {
		src = append(d.pending, chunk...)
		d.pending = nil
	}
	return d.run(src, false)
}

// Flush ends the stream; a dangling partial sequence decodes to U+FFFD.
func (d *Decoder) Flush() string {
	src := d.pending
	d.pending = nil
	if len(src) == 0 {
		return ""
	}
	return d.run(src, true)
}

func (d *Decoder) run(src []byte, atEOF bool) string {
	var out strings.Builder
	// Every invalid byte may widen to a three byte U+FFFD.
	dst := make([]byte, 3*len(src)+utf8.UTFMax)
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, atEOF)
		out.Write(dst[:nDst])
		src = src[nSrc:]
		switch err {
		case nil:
			return out.String()
		case transform.ErrShortSrc:
			// The decoder only looks at the lead byte's length. Hold the
			// tail back only while it can still become a valid rune.
			if !utf8.FullRune(src) {
				d.pending = append([]byte(nil), src...)
				return out.String()
			}
			out.WriteRune(utf8.RuneError)
			src = src[1:]
			if len(src) == 0 {
				return out.String()
			}
		case transform.ErrShortDst:
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
		default:
			// The UTF-8 decoder replaces instead of failing; anything
			// else is dropped rather than ending the session.
			return out.String()
		}
	}
}
