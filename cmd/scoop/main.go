// Package main is the entry point for the scoop command.
//
// scoop drives the editing core from the command line: it classifies and
// highlights documents, runs the bulk tools and searches, applies Lua
// transforms and keeps documents in sync with their files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/scoop/internal/config"
	"github.com/dshills/scoop/internal/engine"
	"github.com/dshills/scoop/internal/logging"
	"github.com/dshills/scoop/internal/workspace"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage marks errors caused by bad arguments.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options holds the global flags.
type options struct {
	configPath string
	logLevel   string
	name       string
	inPlace    bool
}

// app carries what every command needs.
type app struct {
	opts   options
	cfg    *config.Config
	logger *logging.Logger
	reg    *workspace.Registry
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("scoop", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", os.Getenv("SCOOP_CONFIG"), "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.configPath, "c", os.Getenv("SCOOP_CONFIG"), "Path to configuration file (shorthand)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.name, "name", "stdin.txt", "Document name used for standard input")
	fs.BoolVar(&opts.inPlace, "w", false, "Write results back to the file instead of standard output")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintf(stdout, "scoop %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}

	loadOpts := []config.LoadOption{config.WithFile(opts.configPath)}
	if opts.logLevel != "" {
		loadOpts = append(loadOpts, config.WithOverride("logging.level", opts.logLevel))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading configuration: %v\n", err)
		return 1
	}

	logger := cfg.NewLogger(stderr)
	a := &app{
		opts:   opts,
		cfg:    cfg,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	engineOpts := append(cfg.EngineOptions(), engine.WithLogger(logger))
	a.reg = workspace.New(workspace.WithEngineOptions(engineOpts...), workspace.WithLogger(logger))

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", rest[0])
		fs.Usage()
		return 2
	}

	if err := cmd.run(ctx, a, rest[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(stderr, "Error: %v\nUsage: scoop %s %s\n", err, rest[0], cmd.args)
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "scoop - multi-language text editing core\n\n")
	fmt.Fprintf(w, "Usage: scoop [options] <command> [args]\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nCommands:\n")
	for _, name := range commandNames() {
		cmd := commands[name]
		fmt.Fprintf(w, "  %-16s %s\n", name, cmd.summary)
	}
	fmt.Fprintf(w, "\nFILE may be - or omitted to read standard input.\n")
}
