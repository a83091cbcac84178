package register

import "github.com/atotto/clipboard"

// clipboardFallbackRead and clipboardFallbackWrite back the Clipboard
// register directly with the OS clipboard when no vis-clipboard
// helper is found on $PATH, so the register still works on a system
// that never installed the helper script.
func clipboardFallbackRead() (string, error) {
	return clipboard.ReadAll()
}

func clipboardFallbackWrite(data string) error {
	return clipboard.WriteAll(data)
}
