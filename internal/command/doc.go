// Package command implements the structural command language: parsing
// an address-prefixed verb (a i c d s p x y g v | < > w e q { k) into a
// Command tree, and interpreting that tree against a buffer. Loop verbs
// (x, y, g, v) collect every match before mutating, then apply the
// accumulated edits in descending start order, so one substitution
// never shifts the offsets a later one was computed against.
package command
