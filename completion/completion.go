// Package completion produces file name completions for the word being
// typed and cycles through them on repeated requests.
package completion

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileNames returns the suffixes that complete input to an entry in the
// directory it names, relative to cwd when input is not absolute. A leading
// ~ is expanded to the home directory. Directories get a trailing slash and
// shorter suffixes come first.
func FileNames(cwd, input string) []string {
	input = expandHome(input)

	base, prefix := cwd, input
	if strings.Contains(input, "/") {
		base, prefix = filepath.Dir(input), filepath.Base(input)
		if strings.HasSuffix(input, "/") {
			base, prefix = strings.TrimSuffix(input, "/"), ""
			if base == "" {
				base = "/"
			}
		}
		if !filepath.IsAbs(input) {
			base = filepath.Join(cwd, base)
		}
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var matches []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if prefix == "" && strings.HasPrefix(name, ".") {
			continue
		}
		if isDir(base, e) {
			name += "/"
		}
		matches = append(matches, name[len(prefix):])
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches
}

func isDir(base string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(base, e.Name()))
	return err == nil && info.IsDir()
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return home + p[1:]
}

// Cycle remembers the candidates of the last completion request so that
// repeated requests walk through them. The last candidate is always the
// empty string, which restores the text as typed.
type Cycle struct {
	active     bool
	candidates []string
	index      int
	inserted   int // runes of the previous candidate still in the document
}

// Active reports whether a cycle is in progress.
func (c *Cycle) Active() bool { return c.active }

// Reset drops the cached candidates. Call it for any input that is not a
// completion request.
func (c *Cycle) Reset() {
	*c = Cycle{}
}

// Start begins a cycle over matches.
func (c *Cycle) Start(matches []string) {
	c.active = true
	c.candidates = append(append([]string(nil), matches...), "")
	c.index = 0
	c.inserted = 0
}

// Next returns the candidate to insert and the number of runes of the
// previous candidate that must be removed first.
func (c *Cycle) Next() (candidate string, remove int) {
	if !c.active || len(c.candidates) == 0 {
		return "", 0
	}
	candidate = c.candidates[c.index]
	remove = c.inserted
	c.inserted = len([]rune(candidate))
	c.index = (c.index + 1) % len(c.candidates)
	return candidate, remove
}

// Candidates returns the current candidates without the restoring entry,
// and the index of the one shown last, or -1.
func (c *Cycle) Candidates() ([]string, int) {
	if !c.active {
		return nil, -1
	}
	shown := c.index - 1
	if shown < 0 {
		shown = len(c.candidates) - 1
	}
	if shown >= len(c.candidates)-1 {
		shown = -1
	}
	return c.candidates[:len(c.candidates)-1], shown
}
