package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// WrapMode selects how lines wider than the viewport are displayed.
type WrapMode string

const (
	WrapNone WrapMode = "none"
	WrapChar WrapMode = "char"
	WrapWord WrapMode = "word"
)

// LineEnding selects the line terminator written on save.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
)

// Settings is the engine's own configuration surface: the handful of
// values the core editor reads directly, as opposed to UI concerns
// like themes or keybindings that live outside this repository.
type Settings struct {
	TabWidth         int        `toml:"tab_width"`
	WrapMode         WrapMode   `toml:"wrap_mode"`
	LineEnding       LineEnding `toml:"line_ending"`
	MaxUndoEntries   int        `toml:"max_undo_entries"`
	ClipboardProgram string     `toml:"clipboard_program"`
}

// Default returns the settings used when no config file is present or
// a loaded file leaves a field at its zero value.
func Default() Settings {
	return Settings{
		TabWidth:       8,
		WrapMode:       WrapNone,
		LineEnding:     LineEndingLF,
		MaxUndoEntries: 0, // the undo tree applies no limit for any value
	}
}

// Load reads settings from a TOML file at path, filling in defaults
// for any field the file doesn't set. A missing file is not an error:
// Load returns Default() unchanged.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), &ParseError{Path: path, Err: err}
	}
	if s.TabWidth <= 0 {
		s.TabWidth = Default().TabWidth
	}
	if s.WrapMode == "" {
		s.WrapMode = Default().WrapMode
	}
	if s.LineEnding == "" {
		s.LineEnding = Default().LineEnding
	}
	return s, nil
}

// ParseError reports a TOML decode failure for a specific file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
