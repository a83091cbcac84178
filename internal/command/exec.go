package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/martanne/vis/internal/addr"
	"github.com/martanne/vis/internal/command/rx"
	"github.com/martanne/vis/internal/cursor"
	"github.com/martanne/vis/internal/history"
	"github.com/martanne/vis/internal/piece"
	"github.com/martanne/vis/internal/pipe"
	"github.com/martanne/vis/internal/register"
)

// Interp holds everything a Command needs beyond its own AST: the
// buffer it mutates, the undo tree it seals snapshots into, the
// register table backing registers a future extension might read
// from, and a sink for p's output. All fields but Buf are optional;
// a nil History or Output simply skips that side effect, which keeps
// unit tests that only care about buffer content free of setup.
type Interp struct {
	Buf       *piece.Buffer
	History   *history.Tree
	Registers *register.Table
	Output    io.Writer

	// Interrupted is polled at each loop iteration and pipe call;
	// when it returns true, Run unwinds with an EXECUTE error. A nil
	// Interrupted never fires.
	Interrupted func() bool

	// Quit is set to true by a successful q/q!, for the editor facade
	// driving the event loop to notice after Run returns.
	Quit bool

	// MultiDot and MultiDotSet report a bodyless x/y (or a matching
	// bodyless g/v) selecting ranges instead of looping a command over
	// them: MultiDotSet is true only when that happened, and MultiDot
	// holds what was selected (possibly empty). A caller that wants a
	// persistent multi-selection dot — rather than the single Range
	// Run always returns — checks MultiDotSet after Run.
	MultiDot    []piece.Range
	MultiDotSet bool
}

// Run interprets cmd against dot and seals exactly one undo snapshot
// afterward, regardless of how many edits cmd performed internally —
// matching the rule that a whole command produces one history entry.
func (in *Interp) Run(ctx context.Context, dot piece.Range, cmd *Command) (piece.Range, error) {
	result, err := in.exec(ctx, dot, cmd)
	if in.History != nil {
		in.History.Snapshot()
	}
	return result, err
}

// RunBatch interprets cmd once per selection in cs, treating each
// selection as that invocation's dot, and applies every resulting edit
// together via cursor.ApplyBatch — one descending-order splice that
// updates every other selection's position the same way a single edit
// would, sealed as one undo action. It's how a command with no address
// of its own (cmd.Addr == nil) applies across a multi-range dot a
// prior bodyless x/y left behind, instead of only ever touching one
// range. Only leaf mutating verbs (cmd.IsEditVerb) stage an Edit; any
// other verb just runs cmd.exec per selection in turn, same as
// runOverRanges does for a loop body that isn't itself staged.
func (in *Interp) RunBatch(ctx context.Context, cs *cursor.CursorSet, cmd *Command) (piece.Range, error) {
	rng, err := in.execBatch(ctx, cs, cmd)
	if in.History != nil {
		in.History.Snapshot()
	}
	return rng, err
}

func (in *Interp) execBatch(ctx context.Context, cs *cursor.CursorSet, cmd *Command) (piece.Range, error) {
	var edits []cursor.Edit
	var lastDot piece.Range
	for _, sel := range cs.All() {
		dot := sel.Range()
		if in.interrupted() {
			return lastDot, newErr(SamErrExecute, "interrupted")
		}
		edit, ok, err := in.stageEdit(dot, cmd)
		if err != nil {
			return lastDot, err
		}
		if !ok {
			newDot, err := in.exec(ctx, dot, cmd)
			if err != nil {
				return lastDot, err
			}
			lastDot = newDot
			continue
		}
		edits = append(edits, edit)
		lastDot = dot
	}
	if len(edits) == 0 {
		return lastDot, nil
	}
	cursor.SortEditsReverse(edits)
	results, err := cursor.ApplyBatch(in.Buf, cs, edits)
	if err != nil {
		return lastDot, newErr(SamErrExecute, "%v", err)
	}
	for _, sr := range results {
		in.record(sr)
	}
	return cs.Primary().Range(), nil
}

func (in *Interp) interrupted() bool {
	return in.Interrupted != nil && in.Interrupted()
}

func (in *Interp) record(sr piece.SpliceResult) {
	if in.History == nil {
		return
	}
	in.History.Record(sr, nil, nil)
}

func (in *Interp) exec(ctx context.Context, dot piece.Range, cmd *Command) (piece.Range, error) {
	if cmd == nil {
		return dot, nil
	}
	rng, err := addr.Eval(in.Buf, dot, cmd.Addr)
	if err != nil {
		return dot, wrapAddrErr(err)
	}
	if in.interrupted() {
		return rng, newErr(SamErrExecute, "interrupted")
	}

	switch cmd.Verb {
	case 'a':
		return in.execInsert(rng, cmd.Text, rng.End)
	case 'i':
		return in.execInsert(rng, cmd.Text, rng.Start)
	case 'c':
		return in.execChange(rng, cmd.Text)
	case 'd':
		return in.execDelete(rng)
	case 's':
		return in.execSubstitute(rng, cmd)
	case 'p':
		return in.execPrint(rng)
	case 'x':
		return in.execX(ctx, rng, cmd)
	case 'y':
		return in.execY(ctx, rng, cmd)
	case 'g':
		return in.execGV(ctx, rng, cmd, true)
	case 'v':
		return in.execGV(ctx, rng, cmd, false)
	case '|':
		return in.execPipeFilter(ctx, rng, cmd.Arg)
	case '<':
		return in.execPipeIn(ctx, rng, cmd.Arg)
	case '>':
		return in.execPipeOut(ctx, rng, cmd.Arg)
	case 'w':
		return rng, in.execWrite(cmd.Arg)
	case 'e':
		return rng, in.execEdit(cmd.Arg)
	case 'q':
		return rng, in.execQuit(cmd.Force)
	case 'k':
		in.Buf.SetMark(piece.MarkID(cmd.Mark), rng.Start)
		return rng, nil
	case '{':
		return in.execGroup(ctx, rng, cmd.Body)
	default:
		return dot, newErr(SamErrCommand, "unknown verb %q", cmd.Verb)
	}
}

func (in *Interp) execInsert(rng piece.Range, text string, pos piece.ByteOffset) (piece.Range, error) {
	sr, err := in.Buf.Insert(pos, text)
	if err != nil {
		return rng, newErr(SamErrExecute, "%v", err)
	}
	in.record(sr)
	return piece.NewRange(pos, pos+piece.ByteOffset(len(text))), nil
}

func (in *Interp) execChange(rng piece.Range, text string) (piece.Range, error) {
	sr, err := in.Buf.Replace(rng.Start, rng.Len(), text)
	if err != nil {
		return rng, newErr(SamErrExecute, "%v", err)
	}
	in.record(sr)
	return piece.NewRange(rng.Start, rng.Start+piece.ByteOffset(len(text))), nil
}

func (in *Interp) execDelete(rng piece.Range) (piece.Range, error) {
	sr, err := in.Buf.Delete(rng.Start, rng.Len())
	if err != nil {
		return rng, newErr(SamErrExecute, "%v", err)
	}
	in.record(sr)
	return piece.NewRange(rng.Start, rng.Start), nil
}

func (in *Interp) execPrint(rng piece.Range) (piece.Range, error) {
	if in.Output != nil {
		text := in.Buf.TextRange(rng.Start, rng.End)
		if _, err := io.WriteString(in.Output, text); err != nil {
			return rng, newErr(SamErrExecute, "%v", err)
		}
	}
	return rng, nil
}

// substituteText computes the content of rng after applying cmd's
// substitution, without touching the buffer. With the 'g' flag every
// match is replaced; otherwise only the Nth match is (N taken from a
// digit in Flags, defaulting to 1 — the first match — when absent).
func (in *Interp) substituteText(rng piece.Range, cmd *Command) (string, error) {
	text := in.Buf.TextRange(rng.Start, rng.End)
	re, err := rx.Compile(cmd.Regex)
	if err != nil {
		return "", newErr(SamErrRegex, "%v", err)
	}
	matches, err := re.FindAll(text)
	if err != nil {
		return "", newErr(SamErrRegex, "%v", err)
	}
	if len(matches) == 0 {
		return text, nil
	}

	global := strings.ContainsRune(cmd.Flags, 'g')
	nth := 1
	if n, ok := parseNthFlag(cmd.Flags); ok {
		nth = n
	}

	var b strings.Builder
	last := 0
	for i := range matches {
		m := matches[i]
		if !global && i+1 != nth {
			continue
		}
		b.WriteString(text[last:m.Start])
		b.WriteString(m.Expand(cmd.Replacement))
		last = m.End
		if !global {
			break
		}
	}
	b.WriteString(text[last:])
	return b.String(), nil
}

func parseNthFlag(flags string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, flags)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (in *Interp) execSubstitute(rng piece.Range, cmd *Command) (piece.Range, error) {
	newText, err := in.substituteText(rng, cmd)
	if err != nil {
		return rng, err
	}
	sr, err := in.Buf.Replace(rng.Start, rng.Len(), newText)
	if err != nil {
		return rng, newErr(SamErrExecute, "%v", err)
	}
	in.record(sr)
	return piece.NewRange(rng.Start, rng.Start+piece.ByteOffset(len(newText))), nil
}

func (in *Interp) findMatches(rng piece.Range, pattern string) ([]piece.Range, error) {
	re, err := rx.Compile(pattern)
	if err != nil {
		return nil, newErr(SamErrRegex, "%v", err)
	}
	text := in.Buf.TextRange(rng.Start, rng.End)
	ms, err := re.FindAll(text)
	if err != nil {
		return nil, newErr(SamErrRegex, "%v", err)
	}
	out := make([]piece.Range, len(ms))
	for i, m := range ms {
		out[i] = piece.NewRange(rng.Start+piece.ByteOffset(m.Start), rng.Start+piece.ByteOffset(m.End))
	}
	return out, nil
}

func spansBetween(rng piece.Range, matches []piece.Range) []piece.Range {
	var spans []piece.Range
	cursorPos := rng.Start
	for _, m := range matches {
		if m.Start > cursorPos {
			spans = append(spans, piece.NewRange(cursorPos, m.Start))
		}
		cursorPos = m.End
	}
	if cursorPos < rng.End {
		spans = append(spans, piece.NewRange(cursorPos, rng.End))
	}
	return spans
}

func (in *Interp) execX(ctx context.Context, rng piece.Range, cmd *Command) (piece.Range, error) {
	matches, err := in.findMatches(rng, cmd.Regex)
	if err != nil {
		return rng, err
	}
	if cmd.Sub == nil {
		return in.selectRanges(matches), nil
	}
	return in.runOverRanges(ctx, matches, cmd.Sub)
}

func (in *Interp) execY(ctx context.Context, rng piece.Range, cmd *Command) (piece.Range, error) {
	matches, err := in.findMatches(rng, cmd.Regex)
	if err != nil {
		return rng, err
	}
	spans := spansBetween(rng, matches)
	if cmd.Sub == nil {
		return in.selectRanges(spans), nil
	}
	return in.runOverRanges(ctx, spans, cmd.Sub)
}

func (in *Interp) execGV(ctx context.Context, rng piece.Range, cmd *Command, wantMatch bool) (piece.Range, error) {
	re, err := rx.Compile(cmd.Regex)
	if err != nil {
		return rng, newErr(SamErrRegex, "%v", err)
	}
	text := in.Buf.TextRange(rng.Start, rng.End)
	matched, err := re.MatchString(text)
	if err != nil {
		return rng, newErr(SamErrRegex, "%v", err)
	}
	if matched != wantMatch {
		return rng, nil
	}
	if cmd.Sub == nil {
		return in.selectRanges([]piece.Range{rng}), nil
	}
	return in.exec(ctx, rng, cmd.Sub)
}

// selectRanges records ranges as the bodyless match the interpreter
// just performed, for a caller to turn into a persistent multi-range
// dot, and returns their union as the single Range Run's signature
// still requires.
func (in *Interp) selectRanges(ranges []piece.Range) piece.Range {
	in.MultiDot = ranges
	in.MultiDotSet = true
	if len(ranges) == 0 {
		return piece.Range{}
	}
	rng := ranges[0]
	for _, r := range ranges[1:] {
		if r.Start < rng.Start {
			rng.Start = r.Start
		}
		if r.End > rng.End {
			rng.End = r.End
		}
	}
	return rng
}

// runOverRanges is the two-phase collect-then-apply engine behind x
// and y: a/i/c/d/s sub-commands are staged into Edits against the
// pre-mutation buffer and applied as one descending-order batch, so
// one match's substitution never shifts the offset a later match was
// found at. A Sub that is itself a non-staged verb (k, p, a nested
// group or loop) runs immediately instead — those never mutate the
// buffer at the position they were matched, so there's no batching
// hazard to avoid, only extra complexity this interpreter doesn't need.
func (in *Interp) runOverRanges(ctx context.Context, ranges []piece.Range, sub *Command) (piece.Range, error) {
	if sub == nil {
		return piece.Range{}, newErr(SamErrNoAddress, "missing command body")
	}
	var edits []piece.Edit
	var lastDot piece.Range
	for _, r := range ranges {
		if in.interrupted() {
			return lastDot, newErr(SamErrExecute, "interrupted")
		}
		edit, ok, err := in.stageEdit(r, sub)
		if err != nil {
			return lastDot, err
		}
		if ok {
			edits = append(edits, edit)
			lastDot = r
			continue
		}
		newDot, err := in.exec(ctx, r, sub)
		if err != nil {
			return lastDot, err
		}
		lastDot = newDot
	}
	if len(edits) == 0 {
		return lastDot, nil
	}
	cursor.SortEditsReverse(edits)
	results, err := in.Buf.ApplyEdits(edits)
	if err != nil {
		return lastDot, newErr(SamErrExecute, "%v", err)
	}
	for _, sr := range results {
		in.record(sr)
	}
	return lastDot, nil
}

// stageEdit computes the Edit a leaf mutating verb (a/i/c/d/s) would
// apply at dot without touching the buffer. ok is false for every
// other verb, which the caller then runs immediately instead.
func (in *Interp) stageEdit(dot piece.Range, cmd *Command) (piece.Edit, bool, error) {
	switch cmd.Verb {
	case 'a':
		return piece.Edit{Pos: dot.End, DelLen: 0, Text: cmd.Text}, true, nil
	case 'i':
		return piece.Edit{Pos: dot.Start, DelLen: 0, Text: cmd.Text}, true, nil
	case 'c':
		return piece.Edit{Pos: dot.Start, DelLen: dot.Len(), Text: cmd.Text}, true, nil
	case 'd':
		return piece.Edit{Pos: dot.Start, DelLen: dot.Len(), Text: ""}, true, nil
	case 's':
		text, err := in.substituteText(dot, cmd)
		if err != nil {
			return piece.Edit{}, false, err
		}
		return piece.Edit{Pos: dot.Start, DelLen: dot.Len(), Text: text}, true, nil
	default:
		return piece.Edit{}, false, nil
	}
}

func (in *Interp) execGroup(ctx context.Context, rng piece.Range, body []*Command) (piece.Range, error) {
	dot := rng
	for _, c := range body {
		var err error
		dot, err = in.exec(ctx, dot, c)
		if err != nil {
			return dot, err
		}
	}
	return dot, nil
}

func (in *Interp) execPipeFilter(ctx context.Context, rng piece.Range, prog string) (piece.Range, error) {
	input := in.Buf.TextRange(rng.Start, rng.End)
	res, err := pipe.Run(ctx, []string{"sh", "-c", prog}, []byte(input))
	if err != nil {
		return rng, newErr(SamErrShell, "%v", err)
	}
	if res.ExitCode != 0 {
		return rng, newErr(SamErrShell, "%s exited %d: %s", prog, res.ExitCode, res.Stderr)
	}
	return in.execChange(rng, string(res.Stdout))
}

func (in *Interp) execPipeIn(ctx context.Context, rng piece.Range, prog string) (piece.Range, error) {
	res, err := pipe.Run(ctx, []string{"sh", "-c", prog}, nil)
	if err != nil {
		return rng, newErr(SamErrShell, "%v", err)
	}
	if res.ExitCode != 0 {
		return rng, newErr(SamErrShell, "%s exited %d: %s", prog, res.ExitCode, res.Stderr)
	}
	return in.execChange(rng, string(res.Stdout))
}

func (in *Interp) execPipeOut(ctx context.Context, rng piece.Range, prog string) (piece.Range, error) {
	input := in.Buf.TextRange(rng.Start, rng.End)
	res, err := pipe.Run(ctx, []string{"sh", "-c", prog}, []byte(input))
	if err != nil {
		return rng, newErr(SamErrShell, "%v", err)
	}
	if res.ExitCode != 0 {
		return rng, newErr(SamErrShell, "%s exited %d: %s", prog, res.ExitCode, res.Stderr)
	}
	if in.Output != nil {
		in.Output.Write(res.Stdout)
	}
	return rng, nil
}

func (in *Interp) execWrite(path string) error {
	var err error
	if path == "" {
		err = in.Buf.Save()
	} else {
		err = in.Buf.SaveAs(path)
	}
	var warn *piece.Warning
	if errors.As(err, &warn) {
		if in.Output != nil {
			fmt.Fprintln(in.Output, warn.Error())
		}
		return nil
	}
	if err != nil {
		return newErr(SamErrExecute, "%v", err)
	}
	return nil
}

// execEdit reloads Buf's content from path. Replacing the *piece.Buffer
// this Interp points at is the caller's responsibility once Run
// returns — an editor facade holding its own reference to the same
// buffer should re-read Interp.Buf after an 'e' command.
func (in *Interp) execEdit(path string) error {
	if path == "" {
		return newErr(SamErrFilename, "e requires a path")
	}
	buf, err := piece.Open(path)
	if err != nil {
		return newErr(SamErrExecute, "%v", err)
	}
	in.Buf = buf
	return nil
}

func (in *Interp) execQuit(force bool) error {
	if !force && in.Buf.Modified() {
		return ErrUnsavedChanges
	}
	in.Quit = true
	return nil
}
