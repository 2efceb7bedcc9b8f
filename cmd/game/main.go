package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/logging"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/scripting"
	"github.com/tomz197/invaders/internal/settings"
	"github.com/tomz197/invaders/internal/stats"
)

// defaultLogFile keeps log lines off the game screen.
const defaultLogFile = "invaders.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.GetEnv(config.EnvConfig, config.DefaultPath), "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	speaker, err := audio.NewSpeaker(cfg.Audio, log.Named("audio"))
	if err != nil {
		return fmt.Errorf("load sounds: %w", err)
	}
	defer speaker.Close()

	s := settings.New(cfg.Settings())
	var escalator settings.Escalator
	if cfg.Difficulty.Script != "" {
		engine, err := scripting.NewEngine(cfg.Difficulty.Script, log.Named("lua"))
		if err != nil {
			return fmt.Errorf("load difficulty script: %w", err)
		}
		defer engine.Close()
		escalator = engine
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	out := os.Stdout
	draw.HideCursor(out)
	draw.ClearScreen(out)
	io.WriteString(out, input.EnableMouse)
	defer func() {
		io.WriteString(out, input.DisableMouse)
		draw.ClearScreen(out)
		draw.ShowCursor(out)
	}()

	surface := draw.NewTerminal(out, cfg.Screen.Width, cfg.Screen.Height, draw.DefaultTermSizeFunc)
	stream := input.StartStream(bufio.NewReader(os.Stdin))
	stream.SetPointerMapper(surface.CellToLogical)

	game, err := loop.NewGame(loop.Deps{
		Settings:  s,
		Surface:   surface,
		Input:     stream,
		Audio:     speaker,
		Log:       log.Named("game"),
		Board:     stats.NewBoard(cfg.Scoreboard.Size),
		Escalator: escalator,
		Player:    config.GetEnv("USER", "player"),
	}, loop.OptionsFrom(cfg))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("game starting",
		zap.String("config", *configPath),
		zap.Float64("width", cfg.Screen.Width),
		zap.Float64("height", cfg.Screen.Height),
	)
	if err := game.Run(ctx); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	log.Info("game finished", zap.Int("score", game.Stats().Score), zap.Int("high_score", game.Stats().HighScore))
	return nil
}
