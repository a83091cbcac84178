package command

import (
	"fmt"
	"strings"

	"github.com/martanne/vis/internal/addr"
)

type parser struct {
	src []rune
	pos int
}

// Parse parses one structural command, which may be arbitrarily
// recursive through x/y/g/v's nested sub-command or a '{' group's
// body. It returns ErrCommand if trailing input follows the parsed
// command (callers wanting a sequence should split on top-level ';'
// themselves, or wrap the whole string in a '{...}' group).
func Parse(s string) (*Command, error) {
	p := &parser{src: []rune(s)}
	cmd, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, newErr(SamErrCommand, "trailing input %q", string(p.src[p.pos:]))
	}
	return cmd, nil
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) advance() rune {
	r := p.src[p.pos]
	p.pos++
	return r
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) parseCommand() (*Command, error) {
	p.skipSpace()
	a, n, err := addr.Parse(string(p.src[p.pos:]))
	if err != nil {
		return nil, newErr(SamErrAddress, "%v", err)
	}
	p.pos += n
	p.skipSpace()

	v, ok := p.peek()
	if !ok {
		return nil, newErr(SamErrCommand, "missing verb")
	}

	switch v {
	case 'a', 'i', 'c':
		p.advance()
		text, err := p.parseText()
		if err != nil {
			return nil, err
		}
		return &Command{Addr: a, Verb: v, Text: text}, nil

	case 'd', 'p':
		p.advance()
		return &Command{Addr: a, Verb: v}, nil

	case 's':
		p.advance()
		return p.parseSubstitute(a)

	case 'x', 'y', 'g', 'v':
		p.advance()
		return p.parseMatchCommand(a, v)

	case '|', '<', '>':
		p.advance()
		return &Command{Addr: a, Verb: v, Arg: strings.TrimSpace(p.restOfLine())}, nil

	case 'w', 'e':
		p.advance()
		p.skipSpace()
		return &Command{Addr: a, Verb: v, Arg: strings.TrimSpace(p.restOfLine())}, nil

	case 'q':
		p.advance()
		force := false
		if c, ok := p.peek(); ok && c == '!' {
			force = true
			p.advance()
		}
		return &Command{Addr: a, Verb: v, Force: force}, nil

	case 'k':
		p.advance()
		p.skipSpace()
		m, ok := p.peek()
		if !ok {
			return nil, newErr(SamErrCommand, "mark name expected after k")
		}
		p.advance()
		return &Command{Addr: a, Verb: v, Mark: string(m)}, nil

	case '{':
		return p.parseGroup(a)

	default:
		return nil, newErr(SamErrCommand, "unknown verb %q", v)
	}
}

// parseText reads an a/i/c argument: delimited /…/ text if the verb is
// immediately followed by '/', otherwise here-text running to the end
// of the line.
func (p *parser) parseText() (string, error) {
	if c, ok := p.peek(); ok && c == '/' {
		p.advance()
		return p.parseDelimited('/')
	}
	return p.restOfLine(), nil
}

func (p *parser) parseSubstitute(a *addr.Addr) (*Command, error) {
	delim, ok := p.peek()
	if !ok {
		return nil, newErr(SamErrText, "s requires a delimiter")
	}
	p.advance()
	re, err := p.parseDelimited(delim)
	if err != nil {
		return nil, newErr(SamErrText, "%v", err)
	}
	repl, err := p.parseDelimited(delim)
	if err != nil {
		return nil, newErr(SamErrText, "%v", err)
	}
	flags := p.parseWord()
	return &Command{Addr: a, Verb: 's', Regex: re, Replacement: repl, Flags: flags}, nil
}

// parseMatchCommand parses x/y/g/v. The trailing sub-command is
// optional: '<verb>/re/' alone, with nothing but end-of-input or a
// ';'/'}' sequence terminator following, sets the match itself as the
// result instead of running a body — for x/y that means dot becomes a
// multi-range selection over every match (or inter-match span) instead
// of looping a command over each one.
func (p *parser) parseMatchCommand(a *addr.Addr, verb rune) (*Command, error) {
	delim, ok := p.peek()
	if !ok {
		return nil, newErr(SamErrAddress, "%c requires a pattern", verb)
	}
	p.advance()
	re, err := p.parseDelimited(delim)
	if err != nil {
		return nil, newErr(SamErrRegex, "%v", err)
	}
	p.skipSpace()
	if p.atCommandEnd() {
		return &Command{Addr: a, Verb: verb, Regex: re}, nil
	}
	sub, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	return &Command{Addr: a, Verb: verb, Regex: re, Sub: sub}, nil
}

// atCommandEnd reports whether the parser sits where a command must
// end: end of input, or a ';'/'}' that an enclosing sequence or group
// will consume itself.
func (p *parser) atCommandEnd() bool {
	c, ok := p.peek()
	if !ok {
		return true
	}
	return c == ';' || c == '}'
}

func (p *parser) parseGroup(a *addr.Addr) (*Command, error) {
	p.advance() // consume '{'
	var body []*Command
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == '}' {
			p.advance()
			return &Command{Addr: a, Verb: '{', Body: body}, nil
		}
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		body = append(body, cmd)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, newErr(SamErrUnmatchedBrace, "missing closing '}'")
		}
		switch c {
		case ';':
			p.advance()
		case '}':
			p.advance()
			return &Command{Addr: a, Verb: '{', Body: body}, nil
		default:
			return nil, newErr(SamErrUnmatchedBrace, "expected ';' or '}', got %q", c)
		}
	}
}

func (p *parser) restOfLine() string {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '\n' {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) parseWord() string {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', ';', '}':
			return string(p.src[start:p.pos])
		}
		p.pos++
	}
	return string(p.src[start:p.pos])
}

// parseDelimited reads up to the closing delim, honoring \delim as a
// literal delimiter. Any other backslash escape is preserved verbatim
// so the regex compiler and s///'s Expand see the original \n, \t,
// \<, \>, \0-\9 sequences.
func (p *parser) parseDelimited(delim rune) (string, error) {
	var b strings.Builder
	for {
		c, ok := p.peek()
		if !ok {
			return "", fmt.Errorf("unterminated %q", delim)
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			nxt := p.src[p.pos+1]
			if nxt == delim {
				b.WriteRune(delim)
				p.pos += 2
				continue
			}
			b.WriteRune(c)
			b.WriteRune(nxt)
			p.pos += 2
			continue
		}
		if c == delim {
			p.advance()
			return b.String(), nil
		}
		b.WriteRune(c)
		p.advance()
	}
}
