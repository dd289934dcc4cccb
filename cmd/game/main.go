package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/botbolt/internal/config"
	"github.com/tomz197/botbolt/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotenv(); err != nil {
		return err
	}

	// The terminal is the game screen, so logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("BOTBOLT_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, config.GetEnv("LOG_LEVEL", "info"))

	rules, err := config.LoadRules(config.GetEnv("BOTBOLT_RULES", ""))
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return loop.Run(ctx, os.Stdin, os.Stdout, loop.Options{
		Username: config.GetEnv("USER", "player"),
		Rules:    rules,
		Logger:   logger,
	})
}
