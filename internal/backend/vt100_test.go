package backend

import (
	"bytes"
	"strings"
	"testing"

	"github.com/martanne/vis/internal/view"
)

func TestVT100InitWritesAlternateScreen(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 10, 4)
	if err := b.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !strings.Contains(out.String(), "\x1b[?1049h") {
		t.Errorf("Init output %q missing alternate-screen escape", out.String())
	}
	if !strings.Contains(out.String(), "\x1b[?25l") {
		t.Errorf("Init output %q missing hide-cursor escape", out.String())
	}
}

func TestVT100ShutdownRestoresScreen(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 10, 4)
	b.Init()
	out.Reset()
	b.Shutdown()
	if !strings.Contains(out.String(), "\x1b[?1049l") {
		t.Errorf("Shutdown output %q missing normal-screen escape", out.String())
	}
}

func TestVT100SetGetCell(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 10, 4)
	b.Init()

	cell := Cell{Rune: 'Q', Width: 1, Style: view.NewStyle(view.ColorRed)}
	b.SetCell(2, 1, cell)
	if got := b.GetCell(2, 1); got != cell {
		t.Errorf("GetCell = %+v, want %+v", got, cell)
	}
	if got := b.GetCell(100, 100); got != EmptyCell() {
		t.Errorf("out of bounds GetCell = %+v, want empty", got)
	}
}

func TestVT100ShowEmitsGrid(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 3, 1)
	b.Init()
	b.SetCell(0, 0, Cell{Rune: 'a', Width: 1, Style: view.DefaultStyle()})
	b.SetCell(1, 0, Cell{Rune: 'b', Width: 1, Style: view.DefaultStyle()})
	b.SetCell(2, 0, Cell{Rune: 'c', Width: 1, Style: view.DefaultStyle()})
	out.Reset()
	b.Show()
	got := out.String()
	if !strings.Contains(got, "abc") {
		t.Errorf("Show output %q missing grid contents", got)
	}
	if !strings.HasPrefix(got, "\x1b[H\x1b[2J\x1b[0m") {
		t.Errorf("Show output %q missing home/erase/reset prefix", got)
	}
}

func TestVT100ShowUsesIndexedColorEscape(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 1, 1)
	b.Init()
	b.SetCell(0, 0, Cell{Rune: 'x', Width: 1, Style: view.NewStyle(view.ColorFromIndex(2))})
	out.Reset()
	b.Show()
	if !strings.Contains(out.String(), "\x1b[32m") {
		t.Errorf("Show output %q missing indexed foreground escape", out.String())
	}
}

func TestVT100ShowUsesTrueColorEscape(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 1, 1)
	b.Init()
	b.SetCell(0, 0, Cell{Rune: 'x', Width: 1, Style: view.NewStyle(view.ColorFromRGB(10, 20, 30))})
	out.Reset()
	b.Show()
	if !strings.Contains(out.String(), "\x1b[38;2;10;20;30m") {
		t.Errorf("Show output %q missing true-color foreground escape", out.String())
	}
}

func TestVT100Resize(t *testing.T) {
	var out bytes.Buffer
	b := NewVT100Backend(&out, strings.NewReader(""), 5, 5)
	b.Init()
	var gotW, gotH int
	b.OnResize(func(w, h int) { gotW, gotH = w, h })
	b.Resize(20, 10)
	if w, h := b.Size(); w != 20 || h != 10 {
		t.Errorf("Size() = (%d,%d), want (20,10)", w, h)
	}
	if gotW != 20 || gotH != 10 {
		t.Errorf("resize handler got (%d,%d), want (20,10)", gotW, gotH)
	}
}

func TestVT100PollEventRune(t *testing.T) {
	b := NewVT100Backend(&bytes.Buffer{}, strings.NewReader("q"), 10, 4)
	b.Init()
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Key != KeyRune || ev.Rune != 'q' {
		t.Errorf("got %+v, want KeyRune 'q'", ev)
	}
}

func TestVT100PollEventArrow(t *testing.T) {
	b := NewVT100Backend(&bytes.Buffer{}, strings.NewReader("\x1b[A"), 10, 4)
	b.Init()
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Key != KeyUp {
		t.Errorf("got %+v, want KeyUp", ev)
	}
}

func TestVT100PollEventCtrl(t *testing.T) {
	b := NewVT100Backend(&bytes.Buffer{}, strings.NewReader("\x03"), 10, 4)
	b.Init()
	ev := b.PollEvent()
	if ev.Type != EventKey || ev.Key != KeyCtrlC || !ev.Mod.Has(ModCtrl) {
		t.Errorf("got %+v, want KeyCtrlC with ModCtrl", ev)
	}
}

func TestVT100PollEventEnterAndBackspace(t *testing.T) {
	b := NewVT100Backend(&bytes.Buffer{}, strings.NewReader("\r\x7f"), 10, 4)
	b.Init()
	if ev := b.PollEvent(); ev.Key != KeyEnter {
		t.Errorf("got %+v, want KeyEnter", ev)
	}
	if ev := b.PollEvent(); ev.Key != KeyBackspace {
		t.Errorf("got %+v, want KeyBackspace", ev)
	}
}
