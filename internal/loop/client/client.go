package client

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/botbolt/internal/draw"
	"github.com/tomz197/botbolt/internal/input"
	"github.com/tomz197/botbolt/internal/loop/config"
	"github.com/tomz197/botbolt/internal/loop/server"
	"github.com/tomz197/botbolt/internal/scene"
	"github.com/tomz197/botbolt/internal/schedule"
	"github.com/tomz197/botbolt/internal/session"
)

// recordDisplay is how long a leaderboard record announcement stays on screen.
const recordDisplay = 5 * time.Second

// Client runs one player's session and renders it to a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger

	bounds session.Bounds
	sched  *schedule.Scheduler
	world  *scene.World
	engine *session.Engine
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Rules        session.Rules // Zero value uses session.DefaultRules
	Logger       *log.Logger
	Rand         *rand.Rand // Enemy placement; nil seeds from the clock
}

// NewClient creates a new client registered with the given server.
func NewClient(gs server.GameServer, r io.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rules := opts.Rules
	if rules == (session.Rules{}) {
		rules = session.DefaultRules()
	}
	username := opts.Username
	if len(username) > config.MaxUsernameLength {
		username = username[:config.MaxUsernameLength]
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	c := &Client{
		server:       gs,
		handle:       gs.RegisterClient(username),
		state:        NewClientState(),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		logger:       logger.With("user", username),
		bounds:       session.Bounds{Width: config.ViewWidth, Height: config.ViewHeight},
		sched:        schedule.New(),
	}

	c.world = scene.NewWorld(c.bounds, nil)
	c.engine = session.New(c.world, c.sched,
		session.WithRules(rules),
		session.WithRand(opts.Rand),
		session.WithLogger(c.logger),
		session.WithObserver(session.ObserverFunc(c.onGameOver)),
	)
	return c
}

// Run starts the client loop. Blocks until the player quits, the connection
// closes, the server shuts down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	lastTime := time.Now()

	for c.state.Running {
		if ctx.Err() != nil {
			break
		}

		frameStart := time.Now()
		delta := min(frameStart.Sub(lastTime), config.MaxFrameDelta)
		lastTime = frameStart

		keys := input.ReadKeys(c.inputStream)
		if c.inputStream.Closed() {
			c.state.Running = false
		}

		c.update(delta, keys)

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// update advances the client by one frame.
func (c *Client) update(dt time.Duration, keys []input.Key) {
	c.state.clock += dt

	c.processInput(dt, keys)
	c.processServerEvents()
	c.updateScreen()

	if c.state.recordTimer > 0 {
		c.state.recordTimer -= dt
	}

	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState(keys)
	case GameStatePlaying:
		c.updatePlayingState(dt, keys)
	case GameStateOver:
		c.updateOverState(dt, keys)
	case GameStateShutdown:
		c.updateShutdownState(dt)
	}
}

// processInput tracks inactivity and quit keys.
func (c *Client) processInput(dt time.Duration, keys []input.Key) {
	if len(keys) > 0 {
		c.state.idle = 0
		c.state.isInactive = false
	} else {
		c.state.idle += dt
		if c.state.idle > config.InactivityDisconnectUser {
			c.logger.Info("disconnecting inactive player")
			c.state.Running = false
		} else if c.state.idle > config.InactivityWarnUser {
			c.state.isInactive = true
		}
	}

	for _, k := range keys {
		if input.IsQuit(k) {
			c.state.Running = false
		}
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventNewRecord:
				c.state.record = fmt.Sprintf("NEW RECORD: %s %d", event.Username, event.Score)
				c.state.recordTimer = recordDisplay
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// updateStartState handles the title screen.
func (c *Client) updateStartState(keys []input.Key) {
	for _, k := range keys {
		if input.IsConfirm(k) {
			c.startGame()
			return
		}
	}
}

// updatePlayingState feeds commands to the engine and advances the simulation.
func (c *Client) updatePlayingState(dt time.Duration, keys []input.Key) {
	for _, cmd := range input.Commands(keys) {
		if cmd == session.CommandRestart {
			c.startGame()
			continue
		}
		c.engine.Apply(cmd)
	}
	c.step(dt)
}

// updateOverState keeps effects running and waits for a restart.
func (c *Client) updateOverState(dt time.Duration, keys []input.Key) {
	for _, k := range keys {
		if input.IsConfirm(k) {
			c.startGame()
			return
		}
	}
	c.step(dt)
}

// step runs one frame of simulation: timers, motion, then contacts.
func (c *Client) step(dt time.Duration) {
	c.world.Step(dt, c.sched.Advance, c.engine.OnCollisions)
}

// startGame starts or restarts the session.
func (c *Client) startGame() {
	c.world.Clear()
	c.engine.Start(c.bounds)
	c.state.GameState = GameStatePlaying
	c.logger.Info("game started")
}

// onGameOver is the engine's game over observer.
func (c *Client) onGameOver(finalScore int) {
	c.state.FinalScore = finalScore
	c.state.GameState = GameStateOver
	c.server.ReportScore(c.handle, finalScore)
	c.logger.Info("game over", "score", finalScore)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState(dt time.Duration) {
	c.state.shutdownTimer -= dt.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
