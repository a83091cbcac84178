// Package pipe runs an external command as a filter over a byte range:
// it writes the range to the child's stdin, drains stdout and stderr
// concurrently so neither pipe's buffer can fill and deadlock the
// write, and returns once the child has exited.
//
// This is the core's only supported way to shell out — for the `|`,
// `<`, `>` command-language operators and for the vis-clipboard
// bridge used by the register layer.
package pipe
