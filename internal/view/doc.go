// Package view renders a window onto a piece.Buffer into styled,
// fixed-size terminal cells: grapheme segmentation, tab expansion,
// wrapping/truncation, viewport scrolling, and style-layer merging.
// It never mutates the buffer it renders.
package view
