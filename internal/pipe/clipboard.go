package pipe

import (
	"context"
	"fmt"
)

// ClipboardHelper is the external program invoked for clipboard
// access, with its own name as argv[0] by convention. A var rather
// than a const so an editor facade can point it at whatever program
// its config names instead.
var ClipboardHelper = "vis-clipboard"

// ClipboardAvailable reports whether the clipboard helper is on $PATH.
func ClipboardAvailable() bool {
	return Available(ClipboardHelper)
}

// ClipboardCopy sends data to the clipboard helper's --copy mode.
func ClipboardCopy(ctx context.Context, data []byte) error {
	res, err := Run(ctx, []string{ClipboardHelper, "--copy"}, data)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("pipe: %s --copy failed: %s", ClipboardHelper, res.Stderr)
	}
	return nil
}

// ClipboardPaste reads the clipboard helper's --paste output.
func ClipboardPaste(ctx context.Context) ([]byte, error) {
	res, err := Run(ctx, []string{ClipboardHelper, "--paste"}, nil)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("pipe: %s --paste failed: %s", ClipboardHelper, res.Stderr)
	}
	return res.Stdout, nil
}
