// Package addr parses and evaluates the structural command language's
// address grammar: a small expression language of line numbers, byte
// offsets, regex searches, marks, dot, and end-of-file, composed with
// +, -, comma, and semicolon. Eval walks an Addr against a piece.Buffer
// and a dot to produce the byte range the address names.
package addr
