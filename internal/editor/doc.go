// Package editor wires the text-storage engine, undo tree, cursor
// set, register table, and line/viewport renderer into a single
// value: the editor instance a terminal frontend drives. There is no
// package-level mutable state anywhere in this tree; every open file
// is one explicit Editor value. It runs a single-threaded cooperative
// event loop: consume one backend event (a keystroke or a line of
// structural command input), execute it to completion, render,
// repeat.
//
// This package is the integration point, not a UI: it has no
// keybinding or mode layer of its own (those are named external
// collaborators), only a command line a frontend feeds structural
// command-language strings into, the way sam's own command window does.
package editor
