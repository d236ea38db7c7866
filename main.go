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
	app "github.com/rocketscienceinc/tictactoe-engine/internal"
	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
)

// main - is the entry point of the application. It parses the command line,
// loads the configuration, wires the stores and runs the selected command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var cli CLI

	parser, err := newParser(&cli)
	if err != nil {
		return fmt.Errorf("failed to build command line parser: %w", err)
	}

	kctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)

	conf := config.MustLoad(cli.Config)
	logger := initLogger(conf)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	application, err := app.New(ctx, logger, conf)
	if err != nil {
		return fmt.Errorf("app init failed: %w", err)
	}
	defer application.Close()

	bind(ctx, kctx, application.Games, os.Stdout)

	return kctx.Run()
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("tictactoe"),
		kong.Description("Two-player tic-tac-toe games kept in redis and archived in sqlite."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)

	return kong.New(cli, options...)
}

func bind(ctx context.Context, kctx *kong.Context, games service.GameService, out io.Writer) {
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(games, (*service.GameService)(nil))
	kctx.BindTo(out, (*io.Writer)(nil))
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stdout carries command output
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
