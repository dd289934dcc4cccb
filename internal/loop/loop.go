// Package loop runs a single local game: a private lobby server and one
// client reading the terminal.
package loop

import (
	"context"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tomz197/botbolt/internal/draw"
	"github.com/tomz197/botbolt/internal/loop/client"
	"github.com/tomz197/botbolt/internal/loop/server"
	"github.com/tomz197/botbolt/internal/session"
)

// Options configures a local game.
type Options struct {
	Username     string
	Rules        session.Rules // Zero value uses session.DefaultRules
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
	Rand         *rand.Rand
}

// Run plays until the player quits, r is exhausted or ctx is cancelled.
func Run(ctx context.Context, r io.Reader, w io.Writer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	username := opts.Username
	if username == "" {
		username = "player"
	}

	gs := server.NewServer(server.WithLogger(opts.Logger))
	go gs.Run(ctx)

	c := client.NewClient(gs, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     username,
		Rules:        opts.Rules,
		Logger:       opts.Logger,
		Rand:         opts.Rand,
	})
	return c.Run(ctx)
}
