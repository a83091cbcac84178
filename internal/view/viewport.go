package view

import (
	"sync"

	"github.com/martanne/vis/internal/piece"
)

// Viewport tracks the visible window onto a buffer: which byte offset
// renders at the top-left cell, the screen size, and scroll margins.
// It holds no reference to a buffer — callers that need to scroll by
// a line count go through the buffer-aware helpers on View, which
// compute the target offset and then call SetTopOffset.
type Viewport struct {
	mu sync.RWMutex

	topOffset  piece.ByteOffset
	leftColumn int
	width      int
	height     int

	marginTop    int
	marginBottom int
	marginLeft   int
	marginRight  int
}

// NewViewport creates a viewport of the given size, clamped to a
// minimum of one row/column to avoid underflow in later arithmetic.
func NewViewport(width, height int) *Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Viewport{width: width, height: height}
}

func (v *Viewport) Width() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width
}

func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

func (v *Viewport) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width = width
	v.height = height
}

func (v *Viewport) TopOffset() piece.ByteOffset {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topOffset
}

func (v *Viewport) SetTopOffset(offset piece.ByteOffset) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	v.topOffset = offset
}

func (v *Viewport) LeftColumn() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.leftColumn
}

func (v *Viewport) SetLeftColumn(col int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if col < 0 {
		col = 0
	}
	v.leftColumn = col
}

func (v *Viewport) SetMargins(top, bottom, left, right int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.marginTop, v.marginBottom, v.marginLeft, v.marginRight = top, bottom, left, right
}

func (v *Viewport) Margins() (top, bottom, left, right int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.marginTop, v.marginBottom, v.marginLeft, v.marginRight
}

// IsColumnVisible reports whether col falls within the viewport's
// current horizontal window.
func (v *Viewport) IsColumnVisible(col int) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return col >= v.leftColumn && col < v.leftColumn+v.width
}

// Clone returns an independent copy of the viewport's state.
func (v *Viewport) Clone() *Viewport {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return &Viewport{
		topOffset:    v.topOffset,
		leftColumn:   v.leftColumn,
		width:        v.width,
		height:       v.height,
		marginTop:    v.marginTop,
		marginBottom: v.marginBottom,
		marginLeft:   v.marginLeft,
		marginRight:  v.marginRight,
	}
}
