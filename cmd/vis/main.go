// Package main is the entry point for the vis editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/martanne/vis/internal/backend"
	"github.com/martanne/vis/internal/config"
	"github.com/martanne/vis/internal/editor"
	"github.com/martanne/vis/internal/piece"
	"github.com/martanne/vis/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// cliArgs holds the parsed command line: vis [-v] [-] [+lineno] [file]
type cliArgs struct {
	showVersion bool
	stdin       bool
	initLine    int
	file        string
}

func run() int {
	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "vis: %v\n", err)
		return 1
	}

	if args.showVersion {
		fmt.Printf("vis %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		return 0
	}

	opts, err := buildOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vis: %v\n", err)
		return 1
	}

	term, err := backend.NewTermBackend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vis: failed to open terminal: %v\n", err)
		return 1
	}
	opts.Backend = term

	ed, err := editor.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vis: %v\n", err)
		return 1
	}
	defer ed.Close()

	if args.initLine > 0 {
		start := view.OffsetFromPoint(ed.Buf, piece.Point{Line: uint32(args.initLine - 1)})
		ed.SetDot(piece.NewRange(start, start))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	events := make(chan backend.Event)
	go pumpEvents(term, events)

	runErr := ed.Run(ctx, events)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		fmt.Fprintf(os.Stderr, "vis: %v\n", runErr)
		return 1
	}
	if !ed.Quit() && ed.Buf.Modified() {
		return 2
	}
	return 0
}

// pumpEvents forwards backend input events onto a channel, the shape
// editor.Editor.Run expects, since Backend exposes a blocking-poll
// interface rather than a channel directly.
func pumpEvents(b backend.Backend, out chan<- backend.Event) {
	for {
		ev := b.PollEvent()
		out <- ev
	}
}

func parseArgs(argv []string) (cliArgs, error) {
	var a cliArgs
	for _, arg := range argv {
		switch {
		case arg == "-v":
			a.showVersion = true
		case arg == "-":
			a.stdin = true
		case len(arg) > 1 && arg[0] == '+':
			n := 0
			for _, r := range arg[1:] {
				if r < '0' || r > '9' {
					return a, fmt.Errorf("invalid line number %q", arg)
				}
				n = n*10 + int(r-'0')
			}
			a.initLine = n
		case arg == "":
			// ignore
		default:
			if a.file != "" {
				return a, fmt.Errorf("only one file may be given, already have %q", a.file)
			}
			a.file = arg
		}
	}
	if a.stdin && a.file != "" {
		return a, fmt.Errorf("cannot combine '-' with a file argument")
	}
	return a, nil
}

func buildOptions(a cliArgs) (editor.Options, error) {
	settings := loadSettings()
	opts := editor.Options{Settings: settings}

	switch {
	case a.stdin:
		buf, err := piece.NewFromReader(os.Stdin)
		if err != nil {
			return opts, fmt.Errorf("reading stdin: %w", err)
		}
		opts.Buffer = buf
	case a.file != "":
		opts.Path = a.file
	default:
		opts.Buffer = piece.New()
	}
	return opts, nil
}

// loadSettings looks for vis.toml under VIS_PATH, the same search path
// vis itself uses for themes and keybinding config (opaque to this
// package beyond this one file). Its absence, or any error reading it,
// is not a startup failure — it just means Default().
func loadSettings() config.Settings {
	dir := os.Getenv("VIS_PATH")
	if dir == "" {
		return config.Default()
	}
	settings, err := config.Load(dir + string(os.PathSeparator) + "vis.toml")
	if err != nil {
		return config.Default()
	}
	return settings
}
