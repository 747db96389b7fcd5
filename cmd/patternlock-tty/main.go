package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/ingyamilmolinar/patternlock/internal/config"
	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
	"github.com/ingyamilmolinar/patternlock/internal/tty"
)

func main() {
	if err := run(); err != nil {
		game_log.New(os.Stderr, game_log.LevelError).Errorf("%v", err)
		os.Exit(1)
	}
}

func run() error {
	opts := config.RegisterFlags(flag.CommandLine)
	logPath := flag.String("logfile", "", "Write logs to this file; the terminal is taken by the UI")
	flag.Parse()

	conf, err := opts.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger, closeLog, err := openLog(*logPath, conf.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	lockOpts, err := conf.LockOptions()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	host, err := tty.New(screen, tty.Options{
		Lock:   lockOpts,
		Toast:  conf.ToastDuration(),
		Sound:  conf.Sound,
		Volume: conf.Volume,
	}, logger)
	if err != nil {
		return err
	}
	defer host.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := host.Run(ctx); err != nil {
		logger.Errorf("run: %v", err)
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// openLog appends logs to path. An empty path discards them since the
// terminal belongs to the UI.
func openLog(path, level string) (*game_log.Logger, func() error, error) {
	if path == "" {
		return game_log.Nop(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return game_log.New(f, game_log.LevelFromString(level)), f.Close, nil
}
