package command

import "github.com/martanne/vis/internal/addr"

// Command is one parsed structural command: an optional address, a
// verb, and whatever arguments that verb takes. Not every field
// applies to every verb — see Parse's per-verb cases for which ones a
// given Verb populates.
type Command struct {
	Addr *addr.Addr
	Verb rune

	Text        string // a, i, c: replacement text
	Regex       string // s, x, y, g, v: pattern
	Replacement string // s: replacement, with \0-\9/&/\n/\t escapes
	Flags       string // s: g and/or a digit selecting the Nth match

	Sub *Command // x, y, g, v: the command run per match/condition

	Body []*Command // '{': the grouped sequence

	Arg   string // |, <, >: shell command; w, e: path
	Force bool   // q: true for q!
	Mark  string // k: mark name
}

// IsEditVerb reports whether c directly mutates the buffer at its own
// address (a/i/c/d/s) rather than dispatching to a Sub command or
// Body, or performing IO. These are the verbs Interp.RunBatch can
// stage as Edits and apply together across a multi-range dot.
func (c *Command) IsEditVerb() bool {
	switch c.Verb {
	case 'a', 'i', 'c', 'd', 's':
		return true
	}
	return false
}
