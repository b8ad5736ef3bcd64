package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/pgmview/pgmview/pkg/config"
	"github.com/pgmview/pgmview/pkg/netpbm"
	"golang.org/x/term"
)

var cli struct {
	Verbose   int             `short:"v" type:"counter" help:"Increase log verbosity (-v info, -vv debug)"`
	Config    kong.ConfigFlag `short:"F" help:"Config file (YAML, JSON or CUE); defaults to ~/.config/pgmview/config.yaml"`
	LogFile   string          `name:"log-file" help:"Write logs to this file instead of stderr"`
	Insecure  bool            `help:"Allow http:// sources and skip TLS certificate verification"`
	TLSCACert string          `name:"tls-ca-cert" help:"PEM file of CA certificates trusted for https:// sources"`
	Strict    bool            `help:"Fail on non-numeric samples in plain (P2) files instead of stopping at them"`
	MaxPixels int             `name:"max-pixels" help:"Refuse images with more pixels than this" default:"268435456"`

	View    ViewCLI    `cmd:"" help:"Print an image to the terminal"`
	Info    InfoCLI    `cmd:"" help:"Show header fields and sample statistics"`
	Convert ConvertCLI `cmd:"" help:"Convert an image to PNG or re-encode it as PGM"`
	Serve   ServeCLI   `cmd:"" help:"Serve a browser preview and a decode API"`
}

func main() {
	defaults, err := config.LoadAndUnifyPaths(config.DefaultPaths())
	if err != nil {
		fmt.Fprintf(os.Stderr, "pgmview: %v\n", err)
		os.Exit(1)
	}

	kctx := kong.Parse(&cli,
		kong.Name("pgmview"),
		kong.Description("Decode, inspect, convert and preview netpbm graymaps (PGM)."),
		kong.UsageOnError(),
		kong.Configuration(config.Loader),
		kong.Resolvers(config.Resolver(defaults)),
	)

	logger, closeLog, err := newLogger(cli.Verbose, cli.LogFile)
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	loader, err := newLoader(ctx, logger)
	if err != nil {
		stop()
		closeLog()
		kctx.FatalIfErrorf(err)
	}

	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(os.Stdout, (*io.Writer)(nil))
	kctx.Bind(logger)
	kctx.Bind(loader)
	kctx.Bind(newDecoder(logger))

	err = kctx.Run()
	stop()
	closeLog()
	kctx.FatalIfErrorf(err)
}

func newDecoder(logger *slog.Logger) *netpbm.Decoder {
	policy := netpbm.StopOnFirstUnparseable
	if cli.Strict {
		policy = netpbm.FailOnUnparseable
	}
	return netpbm.NewDecoder(
		netpbm.WithLogger(logger),
		netpbm.WithASCIIPolicy(policy),
		netpbm.MaxPixels(cli.MaxPixels),
	)
}

// newLogger builds the process logger: warnings by default, -v for info and
// -vv for debug. Colour is used only when writing to a terminal.
func newLogger(verbosity int, logFile string) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}

	out := os.Stderr
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	handler := tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !term.IsTerminal(int(out.Fd())),
	})
	return slog.New(handler), closeFn, nil
}
