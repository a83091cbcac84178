// Package register implements the editor's named storage for
// cut/copy/paste: 26 letter registers plus a default, a blackhole that
// discards everything written to it, a per-selection slot register for
// multi-cursor yanks, and a clipboard register that bridges to the
// host clipboard.
package register
