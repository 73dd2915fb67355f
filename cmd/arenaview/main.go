package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	gohumanize "github.com/dustin/go-humanize"

	"github.com/joshuapare/arenakit/cmd/arenaview/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const defaultSize = 4 << 10

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if opts.help {
		printHelp()
		os.Exit(0)
	}

	if opts.version {
		fmt.Printf("arenaview %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built: %s\n", date)
		os.Exit(0)
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: opts.debug,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}
	logger.Info("starting arenaview", "size", opts.size, "debug", opts.debug)

	m := NewModel(opts.size)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.Warn("error closing arena", "error", err)
		}
	}

	logger.Info("arenaview exited normally")
}

type options struct {
	size    int
	debug   bool
	help    bool
	version bool
}

// parseArgs reads the few flags arenaview understands. Sizes accept
// humanized forms such as 4KiB or 1MB.
func parseArgs(args []string) (options, error) {
	opts := options{size: defaultSize}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--debug" || arg == "-d":
			opts.debug = true
		case arg == "--help" || arg == "-h":
			opts.help = true
		case arg == "--version" || arg == "-v":
			opts.version = true
		case arg == "--size" || arg == "-s":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s needs a value", arg)
			}
			i++
			n, err := parseSize(args[i])
			if err != nil {
				return opts, err
			}
			opts.size = n
		case strings.HasPrefix(arg, "--size="):
			n, err := parseSize(strings.TrimPrefix(arg, "--size="))
			if err != nil {
				return opts, err
			}
			opts.size = n
		default:
			return opts, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	return opts, nil
}

func parseSize(s string) (int, error) {
	n, err := gohumanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n == 0 || n > 1<<32-1 {
		return 0, fmt.Errorf("size %s out of range (1 B to 4 GiB)", s)
	}
	return int(n), nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: arenaview [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'arenaview --help' for more information.\n")
}

func printHelp() {
	fmt.Println("arenaview - Interactive view of a next-fit arena")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  arenaview [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Reserves an arena and runs the stack machine on it one key at a time,")
	fmt.Println("  drawing the block list after every step.")
	fmt.Println()
	fmt.Println("  Keys:")
	fmt.Println("    a           Push the counter")
	fmt.Println("    b           Skip the counter")
	fmt.Println("    c           Pop the top value")
	fmt.Println("    f, Enter    Print the stack and empty it")
	fmt.Println("    r           Reset the machine")
	fmt.Println("    v           Verify the arena")
	fmt.Println("    y           Copy the arena dump")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -s, --size N   Arena size (default 4KiB)")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.arenaview/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("For scripted runs, use 'arenactl stack' instead.")
}
