package client

import (
	"fmt"
	"strings"

	"github.com/tomz197/botbolt/internal/loop/config"
	"github.com/tomz197/botbolt/internal/loop/server"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On screen or overlay transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	hasRecord := c.state.recordTimer > 0
	if c.state.GameState != c.state.prevGameState ||
		c.state.isInactive != c.state.wasInactive ||
		hasRecord != c.state.hadRecord {
		c.chunkWriter.ClearScreen()
		c.canvas.ForceRedraw()
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.hadRecord = hasRecord
	}

	c.canvas.Clear()
	if c.state.GameState == GameStatePlaying || c.state.GameState == GameStateOver {
		c.world.Draw(c.canvas)
	}

	// Render canvas to terminal
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}

	// Draw border when terminal exceeds max render resolution
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	c.drawUI(c.server.GetSnapshot())

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay.
func (c *Client) drawUI(snapshot *server.LobbySnapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.GameState {
	case GameStatePlaying:
		c.drawPlayingHUD(termWidth, termHeight, snapshot)
	case GameStateStart:
		c.drawStartScreen(centerX, centerY)
	case GameStateOver:
		c.drawGameOverScreen(centerX, centerY, snapshot)
	}

	if c.state.recordTimer > 0 {
		c.chunkWriter.WriteCentered(centerX, 2, c.state.record)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	remaining := (config.InactivityDisconnectUser - c.state.idle).Seconds()
	msg := fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", int(remaining))
	cw.WriteCentered(centerX, centerY, msg)

	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int) {
	// ASCII art title (figlet "small" font)
	titleArt := []string{
		` ___  ___ _____ ___  ___  _  _____ `,
		`| _ )/ _ \_   _| _ )/ _ \| ||_   _|`,
		`| _ \ (_) || | | _ \ (_) | |__| |  `,
		`|___/\___/ |_| |___/\___/|____|_|  `,
		`                                   `,
	}

	cw := c.chunkWriter
	titleStartY := centerY - 7
	for i, line := range titleArt {
		cw.WriteCentered(centerX, titleStartY+i, line)
	}

	cw.WriteCentered(centerX, titleStartY+len(titleArt)+1, "~ Zap the falling bots before they reach you ~")

	// Controls section
	controlsY := titleStartY + len(titleArt) + 3
	cw.WriteCentered(centerX, controlsY, "Controls")

	controlLines := []string{
		"A D / < >  . . . . Move",
		"SPACE / W  . . . . . Zap",
		"R  . . . . . . . Restart",
		"Q  . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		cw.WriteCentered(centerX, controlsY+1+i, line)
	}

	// Blinking start prompt
	if c.state.blinkOn(config.PromptBlink) {
		cw.WriteCentered(centerX, controlsY+len(controlLines)+2, ">>  Press SPACE to Start  <<")
	}
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen (since we don't clear every frame).
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snapshot *server.LobbySnapshot) {
	cw := c.chunkWriter
	game := c.engine.Snapshot()

	// Score display (top left)
	cw.WriteAt(2, 1, fmt.Sprintf("Score: %-8d", game.Score))

	// Health display (top right)
	healthText := "Health: " + hearts(game.Health, c.engine.Rules().InitialHealth)
	cw.WriteAt(termWidth-len([]rune(healthText))-1, 1, healthText)

	// Best score (bottom left)
	cw.WriteAt(2, termHeight, fmt.Sprintf("Best: %-8d", snapshot.Best()))

	// Live players (bottom right)
	playersText := fmt.Sprintf("Players: %-4d", snapshot.Players)
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, playersText)

	if !game.Player.Alive {
		cw.WriteCentered(termWidth/2, termHeight/2, "SYSTEMS DOWN")
	}
}

// hearts renders health as filled and empty hearts.
func hearts(health, total int) string {
	health = min(max(health, 0), total)
	return strings.Repeat("♥", health) + strings.Repeat("♡", total-health)
}

// drawGameOverScreen draws the game over screen with the leaderboard.
func (c *Client) drawGameOverScreen(centerX, centerY int, snapshot *server.LobbySnapshot) {
	titleArt := []string{
		`   ___   _   __  __ ___    _____   _____ ___  `,
		`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
		` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
		`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		`                                              `,
	}

	cw := c.chunkWriter
	titleStartY := centerY - 8
	for i, line := range titleArt {
		cw.WriteCentered(centerX, titleStartY+i, line)
	}

	row := titleStartY + len(titleArt) + 1
	cw.WriteCentered(centerX, row, fmt.Sprintf("GAME OVER: %d", c.state.FinalScore))
	cw.WriteCentered(centerX, row+1, fmt.Sprintf("Best: %d", snapshot.Best()))

	row += 3
	if len(snapshot.TopScores) > 0 {
		cw.WriteCentered(centerX, row, "Top Scores")
		for i, e := range snapshot.TopScores {
			cw.WriteCentered(centerX, row+1+i, fmt.Sprintf("%d. %-16s %6d", i+1, e.Username, e.Score))
		}
		row += len(snapshot.TopScores) + 2
	}

	if c.state.blinkOn(config.PromptBlink) {
		cw.WriteCentered(centerX, row, ">>  Press R to Restart  <<")
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	cw.WriteCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	cw.WriteCentered(centerX, centerY, "Please reconnect in a moment.")

	remaining := int(c.state.shutdownTimer) + 1
	cw.WriteCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	cw.WriteCentered(centerX, centerY+4, "Press Q to disconnect now")
}
