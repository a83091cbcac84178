// Package rx wraps github.com/dlclark/regexp2 with the regex flavor
// the structural command language requires: POSIX extended syntax
// plus \< and \> word boundaries and an (?i) inline case-insensitive
// flag. Go's stdlib regexp (RE2) cannot express \< / \> or
// backreferences in replacement text, which is why this wraps
// regexp2 instead.
package rx

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Regexp is a compiled structural-command pattern.
type Regexp struct {
	re *regexp2.Regexp
}

// Match is one match of a Regexp against a string, with byte offsets
// relative to the string Find was called on.
type Match struct {
	Start, End int
	groups     []group
}

type group struct {
	name       string
	start, end int
	text       string
}

// Compile translates the \<, \> word-boundary escapes into regexp2's
// \b (regexp2, like .NET, already makes \b context-sensitive enough to
// serve both word-start and word-end) and compiles the result with
// Multiline, so ^ and $ anchor to line boundaries within the matched
// text rather than only the start/end of the whole string — POSIX
// ERE's REG_NEWLINE behavior, which is what an address spanning
// several lines (e.g. x/^[a-z]+$/ over a whole file) needs to find a
// match per line instead of none at all. Inline (?i) is passed
// straight through — regexp2 supports it natively.
func Compile(pattern string) (*Regexp, error) {
	translated := translateWordBoundaries(pattern)
	re, err := regexp2.Compile(translated, regexp2.Multiline)
	if err != nil {
		return nil, fmt.Errorf("rx: compile %q: %w", pattern, err)
	}
	return &Regexp{re: re}, nil
}

// CompileFoldCase compiles pattern with case-insensitive matching,
// equivalent to a leading (?i) but set as a regexp2 option instead of
// requiring the caller to splice text into the pattern.
func CompileFoldCase(pattern string) (*Regexp, error) {
	translated := translateWordBoundaries(pattern)
	re, err := regexp2.Compile(translated, regexp2.IgnoreCase|regexp2.Multiline)
	if err != nil {
		return nil, fmt.Errorf("rx: compile %q: %w", pattern, err)
	}
	return &Regexp{re: re}, nil
}

func translateWordBoundaries(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '\\' && i+1 < len(pattern) && (pattern[i+1] == '<' || pattern[i+1] == '>') {
			b.WriteString(`\b`)
			i++
			continue
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// FindFrom returns the first match at or after byte offset start in s,
// or nil if there is none.
func (re *Regexp) FindFrom(s string, start int) (*Match, error) {
	if start > len(s) {
		return nil, nil
	}
	m, err := re.re.FindStringMatchStartingAt(s, start)
	if err != nil {
		return nil, fmt.Errorf("rx: match: %w", err)
	}
	if m == nil {
		return nil, nil
	}
	return toMatch(m), nil
}

// FindAll returns every non-overlapping match of re in s, in order.
func (re *Regexp) FindAll(s string) ([]Match, error) {
	var matches []Match
	m, err := re.re.FindStringMatch(s)
	if err != nil {
		return nil, fmt.Errorf("rx: match: %w", err)
	}
	for m != nil {
		matches = append(matches, *toMatch(m))
		m, err = re.re.FindNextMatch(m)
		if err != nil {
			return nil, fmt.Errorf("rx: match: %w", err)
		}
	}
	return matches, nil
}

// MatchString reports whether re matches anywhere in s.
func (re *Regexp) MatchString(s string) (bool, error) {
	m, err := re.re.FindStringMatch(s)
	if err != nil {
		return false, fmt.Errorf("rx: match: %w", err)
	}
	return m != nil, nil
}

func toMatch(m *regexp2.Match) *Match {
	groups := m.Groups()
	out := make([]group, len(groups))
	for i, g := range groups {
		caps := g.Captures
		if len(caps) == 0 {
			out[i] = group{name: g.Name, start: -1, end: -1}
			continue
		}
		c := caps[len(caps)-1]
		out[i] = group{name: g.Name, start: c.Index, end: c.Index + c.Length, text: c.String()}
	}
	return &Match{Start: m.Index, End: m.Index + m.Length, groups: out}
}

// Group returns the text of capture group n (0 is the whole match),
// or "", false if that group didn't participate in the match.
func (m *Match) Group(n int) (string, bool) {
	if n < 0 || n >= len(m.groups) {
		return "", false
	}
	g := m.groups[n]
	if g.start < 0 {
		return "", false
	}
	return g.text, true
}

// GroupCount returns the number of capture groups, including group 0.
func (m *Match) GroupCount() int { return len(m.groups) }

// Expand builds substitution text from repl, resolving \0..\9 as
// capture-group backreferences (\0 and & both mean the whole match),
// and \n as a literal newline (not group 14 — the structural command
// language's s/// syntax has no use for more than a handful of
// capture groups and reserves \n for the common case of inserting a
// line break).
func (m *Match) Expand(repl string) string {
	var b strings.Builder
	for i := 0; i < len(repl); i++ {
		c := repl[i]
		if c != '\\' && c != '&' {
			b.WriteByte(c)
			continue
		}
		if c == '&' {
			if text, ok := m.Group(0); ok {
				b.WriteString(text)
			}
			continue
		}
		if i+1 >= len(repl) {
			b.WriteByte(c)
			continue
		}
		next := repl[i+1]
		switch {
		case next >= '0' && next <= '9':
			if text, ok := m.Group(int(next - '0')); ok {
				b.WriteString(text)
			}
			i++
		case next == 'n':
			b.WriteByte('\n')
			i++
		case next == 't':
			b.WriteByte('\t')
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
