package view

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Attribute is a bitmask of text attributes.
type Attribute uint16

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
	AttrHidden
)

// Has reports whether a contains attr.
func (a Attribute) Has(attr Attribute) bool { return a&attr != 0 }

// With returns a with attr added.
func (a Attribute) With(attr Attribute) Attribute { return a | attr }

// Without returns a with attr removed.
func (a Attribute) Without(attr Attribute) Attribute { return a &^ attr }

// Color is a terminal color: true color (RGB), an indexed palette
// entry, or the terminal's default.
type Color struct {
	R, G, B uint8
	Indexed bool
	Default bool
}

var ColorDefault = Color{Default: true}

var (
	ColorBlack   = Color{R: 0, G: 0, B: 0}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
	ColorRed     = Color{R: 255, G: 0, B: 0}
	ColorGreen   = Color{R: 0, G: 255, B: 0}
	ColorBlue    = Color{R: 0, G: 0, B: 255}
	ColorYellow  = Color{R: 255, G: 255, B: 0}
	ColorCyan    = Color{R: 0, G: 255, B: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color { return Color{R: index, Indexed: true} }

// ColorFromHex parses a "#rgb" or "#rrggbb" string via go-colorful.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

func (c Color) IsDefault() bool { return c.Default }

func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

func (c Color) String() string {
	if c.Default {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Lighten returns a lighter version of c by blending it toward white
// in Lab space (go-colorful's BlendLab), which looks perceptually
// more even than scaling RGB channels directly.
func (c Color) Lighten(amount float64) Color {
	if c.Indexed || c.Default {
		return c
	}
	return fromColorful(c.colorful().BlendLab(colorful.Color{R: 1, G: 1, B: 1}, amount))
}

// Darken returns a darker version of c, blended toward black in Lab space.
func (c Color) Darken(amount float64) Color {
	if c.Indexed || c.Default {
		return c
	}
	return fromColorful(c.colorful().BlendLab(colorful.Color{R: 0, G: 0, B: 0}, amount))
}

// Blend blends c with other in Lab space at the given mix amount.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Indexed || other.Indexed {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), amount))
}

// ToHex returns the "#rrggbb" representation of a true color, or ""
// for an indexed or default color.
func (c Color) ToHex() string {
	if c.Indexed || c.Default {
		return ""
	}
	return c.colorful().Hex()
}

// Style is the visual style of a run of cells.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault, Attributes: AttrNone}
}

func NewStyle(fg Color) Style {
	return Style{Foreground: fg, Background: ColorDefault, Attributes: AttrNone}
}

func (s Style) WithForeground(fg Color) Style { s.Foreground = fg; return s }
func (s Style) WithBackground(bg Color) Style { s.Background = bg; return s }
func (s Style) WithAttributes(a Attribute) Style { s.Attributes = a; return s }
func (s Style) Bold() Style          { s.Attributes |= AttrBold; return s }
func (s Style) Dim() Style           { s.Attributes |= AttrDim; return s }
func (s Style) Italic() Style        { s.Attributes |= AttrItalic; return s }
func (s Style) Underline() Style     { s.Attributes |= AttrUnderline; return s }
func (s Style) Reverse() Style       { s.Attributes |= AttrReverse; return s }
func (s Style) Strikethrough() Style { s.Attributes |= AttrStrikethrough; return s }

// Merge overlays other onto s: non-default colors replace, attributes OR.
func (s Style) Merge(other Style) Style {
	result := s
	if !other.Foreground.IsDefault() {
		result.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		result.Background = other.Background
	}
	result.Attributes |= other.Attributes
	return result
}

func (s Style) Equals(other Style) bool {
	return s.Foreground.Equals(other.Foreground) &&
		s.Background.Equals(other.Background) &&
		s.Attributes == other.Attributes
}

func (s Style) IsDefault() bool {
	return s.Foreground.IsDefault() && s.Background.IsDefault() && s.Attributes == AttrNone
}

func (s Style) Invert() Style {
	return Style{Foreground: s.Background, Background: s.Foreground, Attributes: s.Attributes}
}
