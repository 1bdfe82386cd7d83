// Package history keeps submitted input lines in memory, grouped by the
// program that was in the foreground when they were entered.
package history

import "strings"

const DefaultSize = 1000

type History struct {
	entries []entry
	max     int
}

type entry struct {
	key  string
	line string
}

func New(max int) *History {
	if max <= 0 {
		max = DefaultSize
	}
	return &History{max: max}
}

// Add records line under key. Trailing newlines are dropped and empty lines
// are ignored. The oldest entries across all keys go first once the total
// exceeds the limit.
func (h *History) Add(key, line string) {
	line = strings.TrimRight(line, "\n")
	if line == "" {
		return
	}
	h.entries = append(h.entries, entry{key: key, line: line})
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

// Entry returns the entry offset steps back from the newest one recorded
// under key; offset 1 is the newest.
func (h *History) Entry(key string, offset int) (string, bool) {
	if offset <= 0 {
		return "", false
	}
	seen := 0
	for i := len(h.entries) - 1; i >= 0; i-- {
		if h.entries[i].key != key {
			continue
		}
		seen++
		if seen == offset {
			return h.entries[i].line, true
		}
	}
	return "", false
}

func (h *History) Len() int { return len(h.entries) }

// Cursor walks one key's history the way Up/Down do in a shell.
type Cursor struct {
	h      *History
	offset int
}

func (h *History) Cursor() *Cursor {
	return &Cursor{h: h}
}

func (c *Cursor) Reset() { c.offset = 0 }

// Move steps by delta (positive goes back in time). Going past the oldest
// entry keeps the cursor where it was and reports ok == false; stepping
// forward past the newest entry resets and returns an empty line.
func (c *Cursor) Move(key string, delta int) (line string, ok bool) {
	next := c.offset + delta
	if next <= 0 {
		c.offset = 0
		return "", delta < 0
	}
	line, found := c.h.Entry(key, next)
	if !found {
		if delta > 0 {
			return "", false
		}
		c.offset = 0
		return "", true
	}
	c.offset = next
	return line, true
}
