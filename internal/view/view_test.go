package view

import (
	"testing"

	"github.com/martanne/vis/internal/piece"
)

func newTestBuffer(t *testing.T, text string) *piece.Buffer {
	t.Helper()
	return piece.NewFromString(text)
}

func TestRenderSimpleLines(t *testing.T) {
	buf := newTestBuffer(t, "hello\nworld\n")
	vp := NewViewport(80, 24)
	v := NewView(buf, vp, nil)

	lines, _ := v.Render(0, 80, 10)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (hello, world, trailing empty)", len(lines))
	}
	if lines[0].Text() != "hello" || lines[0].Terminator != 1 {
		t.Errorf("line 0 = %q term=%d, want hello/1", lines[0].Text(), lines[0].Terminator)
	}
	if lines[1].Text() != "world" || lines[1].Terminator != 1 {
		t.Errorf("line 1 = %q term=%d, want world/1", lines[1].Text(), lines[1].Terminator)
	}
	if lines[2].Text() != "" || lines[2].Terminator != -1 {
		t.Errorf("line 2 = %q term=%d, want empty/-1", lines[2].Text(), lines[2].Terminator)
	}
}

func TestRenderNoTrailingNewline(t *testing.T) {
	buf := newTestBuffer(t, "abc")
	v := NewView(buf, NewViewport(80, 24), nil)

	lines, _ := v.Render(0, 80, 10)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Text() != "abc" || lines[0].Terminator != -1 {
		t.Errorf("line 0 = %q term=%d, want abc/-1", lines[0].Text(), lines[0].Terminator)
	}
}

func TestRenderEmptyBuffer(t *testing.T) {
	buf := newTestBuffer(t, "")
	v := NewView(buf, NewViewport(80, 24), nil)

	lines, _ := v.Render(0, 80, 10)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (a single empty line)", len(lines))
	}
	if lines[0].Text() != "" {
		t.Errorf("line 0 = %q, want empty", lines[0].Text())
	}
}

func TestRenderCRLF(t *testing.T) {
	buf := piece.New()
	buf.SetLineEnding(piece.LineEndingCRLF)
	if _, err := buf.Insert(0, "foo\nbar"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	v := NewView(buf, NewViewport(80, 24), nil)

	lines, _ := v.Render(0, 80, 10)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Text() != "foo" || lines[0].Terminator != 2 {
		t.Errorf("line 0 = %q term=%d, want foo/2", lines[0].Text(), lines[0].Terminator)
	}
	if lines[1].Text() != "bar" || lines[1].Terminator != -1 {
		t.Errorf("line 1 = %q term=%d, want bar/-1", lines[1].Text(), lines[1].Terminator)
	}
}

func TestRenderTabExpansion(t *testing.T) {
	buf := newTestBuffer(t, "a\tb")
	buf.SetTabWidth(4)
	v := NewView(buf, NewViewport(80, 24), nil)

	lines, _ := v.Render(0, 80, 10)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	cells := lines[0].Cells
	// 'a' + 3 tab cells (to reach column 4) + 'b' = 5 cells
	if len(cells) != 5 {
		t.Fatalf("got %d cells, want 5: %+v", len(cells), cells)
	}
	if cells[1].Flags&FlagTab == 0 {
		t.Errorf("cell 1 should be flagged as tab, got %+v", cells[1])
	}
	if cells[2].Flags&FlagContinuation == 0 || cells[3].Flags&FlagContinuation == 0 {
		t.Errorf("cells 2,3 should be tab continuation cells")
	}
	if cells[4].String() != "b" {
		t.Errorf("cell 4 = %q, want b", cells[4].String())
	}
}

func TestRenderWideGrapheme(t *testing.T) {
	buf := newTestBuffer(t, "a中b") // a, CJK wide char, b
	v := NewView(buf, NewViewport(80, 24), nil)

	lines, _ := v.Render(0, 80, 10)
	cells := lines[0].Cells
	// a (1) + wide char (1 leader + 1 continuation) + b (1) = 4 cells
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4: %+v", len(cells), cells)
	}
	if cells[1].Width != 2 {
		t.Errorf("cell 1 width = %d, want 2", cells[1].Width)
	}
	if !cells[2].IsContinuation() {
		t.Errorf("cell 2 should be a continuation cell")
	}
}

func TestWrapCellsChar(t *testing.T) {
	cells := make([]Cell, 10)
	for i := range cells {
		cells[i] = Cell{GraphemeLen: 1, Width: 1}
		cells[i].Grapheme[0] = 'x'
	}
	rows := wrapCells(cells, 4, WrapChar)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if len(rows[0]) != 4 || len(rows[1]) != 4 || len(rows[2]) != 2 {
		t.Errorf("row lengths = %d/%d/%d, want 4/4/2", len(rows[0]), len(rows[1]), len(rows[2]))
	}
}

func TestWrapCellsNone(t *testing.T) {
	cells := make([]Cell, 10)
	rows := wrapCells(cells, 4, WrapNone)
	if len(rows) != 1 || len(rows[0]) != 4 {
		t.Fatalf("got rows=%d len=%d, want 1/4", len(rows), len(rows[0]))
	}
}

func TestPointOffsetRoundTrip(t *testing.T) {
	buf := newTestBuffer(t, "line one\nline two\nline three")

	cases := []piece.ByteOffset{0, 4, 9, 15, 18, 22}
	for _, off := range cases {
		p := PointFromOffset(buf, off)
		got := OffsetFromPoint(buf, p)
		if got != off {
			t.Errorf("offset %d -> point %+v -> offset %d, want round trip", off, p, got)
		}
	}
}

func TestPointFromOffsetLineNumbers(t *testing.T) {
	buf := newTestBuffer(t, "aaa\nbbb\nccc")
	p := PointFromOffset(buf, 4) // start of "bbb"
	if p.Line != 1 || p.Column != 0 {
		t.Errorf("got %+v, want line=1 col=0", p)
	}
	p = PointFromOffset(buf, 9) // 'c' in "ccc", offset 8 is start
	if p.Line != 2 || p.Column != 1 {
		t.Errorf("got %+v, want line=2 col=1", p)
	}
}

func TestScrollToReveal(t *testing.T) {
	buf := newTestBuffer(t, "l0\nl1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\n")
	vp := NewViewport(80, 4)
	v := NewView(buf, vp, nil)

	below := OffsetFromPoint(buf, piece.Point{Line: 8})
	v.ScrollToReveal(below, 4)
	if top := lineNumberAt(v.buf, vp.TopOffset()); top == 0 {
		t.Errorf("expected scroll down to reveal line 8, top still at %d", top)
	}

	v.ScrollTo(OffsetFromPoint(buf, piece.Point{Line: 5}))
	above := OffsetFromPoint(buf, piece.Point{Line: 1})
	v.ScrollToReveal(above, 4)
	if top := lineNumberAt(v.buf, vp.TopOffset()); top != 1 {
		t.Errorf("expected scroll up to reveal line 1, got top=%d", top)
	}
}

func TestResolverLayerPrecedence(t *testing.T) {
	r := NewResolver()
	spans := []StyleSpan{
		{Range: piece.NewRange(0, 10), Style: NewStyle(ColorRed), Layer: LayerSyntax},
		{Range: piece.NewRange(0, 10), Style: NewStyle(ColorBlue), Layer: LayerCursor},
	}
	got := r.Resolve(5, spans)
	if !got.Foreground.Equals(ColorBlue) {
		t.Errorf("got fg %v, want cursor layer (blue) to win over syntax layer", got.Foreground)
	}
}

func TestResolverDisabledLayer(t *testing.T) {
	r := NewResolver()
	r.SetLayerEnabled(LayerCursor, false)
	spans := []StyleSpan{
		{Range: piece.NewRange(0, 10), Style: NewStyle(ColorRed), Layer: LayerSyntax},
		{Range: piece.NewRange(0, 10), Style: NewStyle(ColorBlue), Layer: LayerCursor},
	}
	got := r.Resolve(5, spans)
	if !got.Foreground.Equals(ColorRed) {
		t.Errorf("got fg %v, want syntax layer (red) since cursor layer disabled", got.Foreground)
	}
}

func TestStyleTableInterning(t *testing.T) {
	table := NewStyleTable()
	s := NewStyle(ColorGreen)
	id1 := table.Intern(s)
	id2 := table.Intern(s)
	if id1 != id2 {
		t.Errorf("interning the same style twice gave different ids: %d vs %d", id1, id2)
	}
	if table.Style(id1) != s {
		t.Errorf("Style(id1) = %+v, want %+v", table.Style(id1), s)
	}
}

func TestColorBlendLab(t *testing.T) {
	mid := ColorBlack.Blend(ColorWhite, 0.5)
	if mid.R == 0 || mid.R == 255 {
		t.Errorf("blended color %v should land strictly between black and white", mid)
	}
}
