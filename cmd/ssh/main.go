package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	applog "github.com/tomz197/invaders/internal/logging"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/scripting"
	"github.com/tomz197/invaders/internal/settings"
	"github.com/tomz197/invaders/internal/stats"
)

const shutdownTimeout = 5 * time.Second

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
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := applog.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	// Fail at startup rather than on the first session.
	if cfg.Difficulty.Script != "" {
		engine, err := scripting.NewEngine(cfg.Difficulty.Script, log)
		if err != nil {
			return fmt.Errorf("load difficulty script: %w", err)
		}
		engine.Close()
	}

	hub := &arcade{
		cfg:   cfg,
		board: stats.NewBoard(cfg.Scoreboard.Size),
		log:   log,
	}

	addr := net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)
	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithMiddleware(
			hub.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKey))
	}
	if cfg.SSH.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.SSH.IdleTimeout))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Info("starting ssh server", zap.String("addr", addr), zap.String("host_key", cfg.SSH.HostKey))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-done:
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
	}
	log.Info("shutting down server", zap.Int("sessions", hub.active()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// arcade hosts one independent game per SSH session. Only the score board
// is shared between sessions.
type arcade struct {
	cfg   *config.Config
	board *stats.Board
	log   *zap.Logger

	mu       sync.Mutex
	sessions int
}

func (a *arcade) active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessions
}

func (a *arcade) track(delta int) {
	a.mu.Lock()
	a.sessions += delta
	a.mu.Unlock()
}

// middleware runs a game for the session.
func (a *arcade) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		log := a.log.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
		log.Info("session started",
			zap.String("term", pty.Term),
			zap.Int("cols", pty.Window.Width),
			zap.Int("rows", pty.Window.Height),
		)
		a.track(1)
		defer a.track(-1)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		if err := a.play(sess, sizeTracker.getSize, log); err != nil {
			log.Warn("game ended with error", zap.Error(err))
		}

		log.Info("session ended")
		next(sess)
	}
}

// play runs the game loop until the player quits or disconnects.
func (a *arcade) play(sess ssh.Session, sizeFunc draw.TermSizeFunc, log *zap.Logger) error {
	s := settings.New(a.cfg.Settings())

	// A Lua state is not safe for concurrent use, so every session gets its own.
	var escalator settings.Escalator
	if a.cfg.Difficulty.Script != "" {
		engine, err := scripting.NewEngine(a.cfg.Difficulty.Script, log)
		if err != nil {
			return err
		}
		defer engine.Close()
		escalator = engine
	}

	draw.HideCursor(sess)
	draw.ClearScreen(sess)
	io.WriteString(sess, input.EnableMouse)
	defer func() {
		io.WriteString(sess, input.DisableMouse)
		draw.ClearScreen(sess)
		draw.ShowCursor(sess)
	}()

	surface := draw.NewTerminal(sess, a.cfg.Screen.Width, a.cfg.Screen.Height, sizeFunc)
	stream := input.StartStream(bufio.NewReader(sess))
	stream.SetPointerMapper(surface.CellToLogical)

	game, err := loop.NewGame(loop.Deps{
		Settings:  s,
		Surface:   surface,
		Input:     stream,
		Audio:     audio.NewBell(sess),
		Log:       log,
		Board:     a.board,
		Escalator: escalator,
		Player:    sess.User(),
	}, loop.OptionsFrom(a.cfg))
	if err != nil {
		return err
	}
	return game.Run(sess.Context())
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
