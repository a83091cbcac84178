// Package backend abstracts the terminal surface the editor draws onto:
// a grid of styled cells, cursor placement, and an input event stream.
// TermBackend drives a real terminal through tcell; VT100Backend writes
// raw ANSI escapes directly for environments where tcell's terminfo
// detection is unwanted; NullBackend is an in-memory double for tests.
package backend
