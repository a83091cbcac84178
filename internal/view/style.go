package view

import "github.com/martanne/vis/internal/piece"

// Layer is a style-precedence tier. Higher layers win ties and
// override lower ones in Resolve's overlay merge.
type Layer uint8

const (
	LayerBase Layer = iota
	LayerSyntax
	LayerSelection
	LayerCursor
	layerCount
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerSyntax:
		return "syntax"
	case LayerSelection:
		return "selection"
	case LayerCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// StyleSpan is a styled byte range, as returned by a Styler.
type StyleSpan struct {
	Range piece.Range
	Style Style
	Layer Layer
}

// Styler supplies syntax-highlighting spans for a byte range. It is
// queried once per rendered line; View merges the result with
// selection/cursor overlays at fill time.
type Styler interface {
	Style(r piece.Range) []StyleSpan
}

// NullStyler returns no spans, leaving every cell at the base style.
type NullStyler struct{}

func (NullStyler) Style(piece.Range) []StyleSpan { return nil }

// StyleTable interns Styles into small StyleIDs for a single render pass.
type StyleTable struct {
	styles []Style
	index  map[Style]StyleID
}

func NewStyleTable() *StyleTable {
	t := &StyleTable{index: make(map[Style]StyleID)}
	t.intern(DefaultStyle())
	return t
}

// Intern returns the StyleID for s, allocating a new one if s hasn't
// been seen yet in this table.
func (t *StyleTable) Intern(s Style) StyleID { return t.intern(s) }

func (t *StyleTable) intern(s Style) StyleID {
	if id, ok := t.index[s]; ok {
		return id
	}
	id := StyleID(len(t.styles))
	t.styles = append(t.styles, s)
	t.index[s] = id
	return id
}

// Style returns the Style for id.
func (t *StyleTable) Style(id StyleID) Style {
	if int(id) >= len(t.styles) {
		return DefaultStyle()
	}
	return t.styles[id]
}

// Resolver merges spans from multiple layers into a single Style per
// offset, at cursor > selection > syntax > default precedence —
// each enabled layer above LayerBase overlays onto what came before
// it, so a higher layer's default (unset) fields let lower layers
// show through.
type Resolver struct {
	base    Style
	enabled [layerCount]bool
}

func NewResolver() *Resolver {
	r := &Resolver{base: DefaultStyle()}
	for i := range r.enabled {
		r.enabled[i] = true
	}
	return r
}

func (r *Resolver) SetBaseStyle(s Style)                { r.base = s }
func (r *Resolver) SetLayerEnabled(l Layer, enabled bool) {
	if l < layerCount {
		r.enabled[l] = enabled
	}
}
func (r *Resolver) IsLayerEnabled(l Layer) bool {
	return l < layerCount && r.enabled[l]
}

// Resolve returns the merged style at offset, given every span that
// might cover it (from all layers, in any order).
func (r *Resolver) Resolve(offset piece.ByteOffset, spans []StyleSpan) Style {
	result := r.base
	for layer := LayerBase; layer < layerCount; layer++ {
		if !r.enabled[layer] {
			continue
		}
		for _, span := range spans {
			if span.Layer != layer {
				continue
			}
			if offset < span.Range.Start || offset >= span.Range.End {
				continue
			}
			result = result.Merge(span.Style)
		}
	}
	return result
}
