package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ingyamilmolinar/patternlock/internal/config"
	game_log "github.com/ingyamilmolinar/patternlock/internal/log"
	"github.com/ingyamilmolinar/patternlock/internal/ui"
)

func main() {
	opts := config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	conf, err := opts.Load()
	if err != nil {
		game_log.New(os.Stderr, game_log.LevelError).Errorf("config: %v", err)
		os.Exit(1)
	}
	logger := game_log.New(os.Stderr, game_log.LevelFromString(conf.LogLevel))
	logger.Infof("config loaded from %s", opts.Path)

	lockOpts, err := conf.LockOptions()
	if err != nil {
		logger.Errorf("config: %v", err)
		os.Exit(1)
	}
	g, err := ui.New(ui.Options{
		Lock:   lockOpts,
		Toast:  conf.ToastDuration(),
		Sound:  conf.Sound,
		Volume: conf.Volume,
	}, logger)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(conf.WindowSize, conf.WindowSize)
	ebiten.SetWindowTitle("Pattern Lock")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil {
		logger.Errorf("run: %v", err)
		os.Exit(1)
	}
}
