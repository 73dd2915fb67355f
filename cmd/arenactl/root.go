package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	gohumanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/arenakit/arena/alloc"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	debug   bool
)

// Verdict colours. color disables itself when stdout is not a terminal.
var (
	okText   = color.New(color.FgGreen, color.Bold).SprintFunc()
	failText = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "arenactl",
	Short: "Drive and inspect next-fit arenas",
	Long: `arenactl exercises the next-fit arena allocator. It runs the built-in
self test and behavioural checks, replays allocation scripts, runs the stack
machine demo, and creates and inspects persistent arena files.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log allocator activity to stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, failText("Error:")+" "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// allocConfig returns the allocator configuration the global flags ask for.
func allocConfig() *alloc.Config {
	cfg := alloc.DefaultConfig()
	if debug {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg
}

// parseSize accepts plain byte counts as well as "64KiB", "1MB" and friends.
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

func formatBytes(n int) string {
	return gohumanize.IBytes(uint64(n))
}

var numbers = message.NewPrinter(language.English)

func formatNumber(n int) string {
	return numbers.Sprintf("%d", n)
}

// printStats writes a human-readable statistics block.
func printStats(s alloc.Stats) {
	printInfo("Arena:\n")
	printInfo("  Span:      %s (%s bytes)\n", formatBytes(s.Span), formatNumber(s.Span))
	printInfo("  Capacity:  %s bytes\n", formatNumber(s.Capacity))
	printInfo("Blocks:\n")
	printInfo("  Total:     %s\n", formatNumber(s.Blocks))
	printInfo("  Used:      %s (%s bytes)\n", formatNumber(s.UsedBlocks), formatNumber(s.UsedBytes))
	printInfo("  Free:      %s (%s bytes)\n", formatNumber(s.FreeBlocks), formatNumber(s.FreeBytes))
	printInfo("  Headers:   %s bytes\n", formatNumber(s.HeaderBytes))
	printInfo("  Largest:   %s\n", formatBytes(s.LargestFree))
	printInfo("  Used:      %.1f%%\n", s.Utilization())
}
