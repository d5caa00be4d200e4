package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/five82/pwinty/internal/app"
	"github.com/five82/pwinty/internal/config"
	"github.com/five82/pwinty/internal/pwinty"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage")

// cli holds the streams a command reads from and writes to.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, c *cli, api pwinty.API, args []string) (json.RawMessage, error)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	global := flag.NewFlagSet("pwinty", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "config file (default "+config.DefaultPath()+")")
	host := global.String("host", "", "override API host")
	verbose := global.Bool("v", false, "log requests to stderr")
	global.Usage = func() { c.usage(global) }
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		c.usage(global)
		return exitUsage
	}
	name, cmdArgs := rest[0], rest[1:]

	if name == "browse" {
		return c.browse(ctx, app.Options{ConfigPath: *configPath, Host: *host}, cmdArgs)
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "pwinty: unknown command %q\n", name)
		c.usage(global)
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "pwinty: %v\n", err)
		return exitError
	}
	if *host != "" {
		cfg.Host = *host
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "pwinty: %v (set them in %s)\n", err, config.DefaultPath())
		return exitError
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := app.NewLogger(stderr, level, "text")
	client := app.NewClient(cfg, logger)

	body, err := cmd.run(ctx, c, client, cmdArgs)
	if errors.Is(err, errUsage) {
		fmt.Fprintf(stderr, "pwinty: %v\nusage: pwinty %s %s\n", err, name, cmd.usage)
		return exitUsage
	}
	if len(body) > 0 {
		c.printJSON(body)
	}
	if err != nil {
		logger.Debug("command failed", "command", name, "kind", pwinty.Kind(err))
		fmt.Fprintf(stderr, "pwinty: %v\n", err)
		return exitError
	}
	return exitOK
}

// runBrowser starts the terminal UI. Tests replace it.
var runBrowser = app.Run

func (c *cli) browse(ctx context.Context, opts app.Options, args []string) int {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	poll := fs.Int("poll", 0, "refresh interval in seconds (default 15)")
	prefsPath := fs.String("prefs", "", "preferences file (default ~/.config/pwinty/prefs.toml)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(c.stderr, "usage: pwinty browse [-poll seconds] [-prefs path]")
		return exitUsage
	}

	opts.PrefsPath = *prefsPath
	opts.PollEvery = *poll
	if err := runBrowser(ctx, opts); err != nil {
		fmt.Fprintf(c.stderr, "pwinty: %v\n", err)
		return exitError
	}
	return exitOK
}

func (c *cli) usage(global *flag.FlagSet) {
	fmt.Fprintln(c.stderr, "usage: pwinty [-config path] [-host url] [-v] <command> [args]")
	fmt.Fprintln(c.stderr)
	fmt.Fprintln(c.stderr, "commands:")
	names := make([]string, 0, len(commands)+1)
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(c.stderr, "  %-13s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(c.stderr, "  %-13s %s\n", "browse", "[-poll seconds] [-prefs path]")
	fmt.Fprintln(c.stderr)
	global.PrintDefaults()
}

// printJSON writes body indented, or verbatim when it is not valid JSON.
func (c *cli) printJSON(body json.RawMessage) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		buf.Reset()
		buf.Write(body)
	}
	buf.WriteByte('\n')
	_, _ = c.stdout.Write(buf.Bytes())
}

// readJSON decodes a request body from path, or from stdin when path is "-".
func (c *cli) readJSON(path string, v any) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: -file is required (use - for stdin)", errUsage)
	}
	var r io.Reader = c.stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

// parseArgs parses flags registered by setup and checks the positional
// argument count.
func parseArgs(name string, args []string, want int, setup func(fs *flag.FlagSet)) ([]string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if setup != nil {
		setup(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != want {
		return nil, fmt.Errorf("%w: expected %d argument(s), got %d", errUsage, want, fs.NArg())
	}
	return fs.Args(), nil
}
