package client

import (
	"fmt"
	"time"

	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/loop/config"
	"github.com/tomz197/clawmachine/internal/loop/server"
	"github.com/tomz197/clawmachine/internal/object"
	"github.com/tomz197/clawmachine/internal/session"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(snap *session.Snapshot) error {
	// On screen or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	screenChanged := c.state.Screen != c.state.prevScreen
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if screenChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevScreen = c.state.Screen
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()

	ctx := object.DrawContext{
		Canvas: c.canvas,
		Writer: c.chunkWriter,
		Layout: c.state.Layout,
	}

	showCabinet := !c.state.isInactive &&
		(c.state.Screen == ScreenPlaying || c.state.Screen == ScreenPaused)
	if showCabinet {
		if err := (object.Cabinet{Snapshot: snap}).Draw(ctx); err != nil {
			return err
		}
		if err := c.state.effects.Draw(ctx); err != nil {
			return err
		}
	}

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(snap)

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current screen.
func (c *Client) drawUI(snap *session.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.Screen == ScreenShutdown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}

	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY)
		return
	}

	switch c.state.Screen {
	case ScreenReady:
		c.drawStartScreen(centerX, centerY, snap)
	case ScreenPlaying:
		c.drawPlayingHUD(termWidth, termHeight, snap)
	case ScreenPaused:
		c.drawPlayingHUD(termWidth, termHeight, snap)
		c.drawPausedBanner(centerX, centerY)
	case ScreenGameOver:
		c.drawGameOverScreen(centerX, centerY, snap)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")

	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	cw.WriteCentered(centerX, centerY, msg)
	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}

// writeArt draws multi-line art centered on centerX from row top.
func (c *Client) writeArt(centerX, top int, art []string) {
	width := 0
	for _, line := range art {
		width = max(width, len(line))
	}
	for i, line := range art {
		c.chunkWriter.WriteAt(centerX-width/2, top+i, line)
	}
}

var titleArt = []string{
	`   ___ _      ___      __ `,
	`  / __| |    /_\ \    / / `,
	` | (__| |__ / _ \ \/\/ /  `,
	`  \___|____/_/ \_\_/\_/   `,
	`                          `,
}

// drawPrompt draws a blinking prompt. The canvas blanks it while hidden.
func (c *Client) drawPrompt(centerX, row int, prompt string) {
	if object.ShouldRenderBlink(c.state.clock, config.PromptBlinkHz) {
		col := c.chunkWriter.WriteCentered(centerX, row, prompt)
		c.canvas.MarkTextDirty(col, row, len(prompt))
	}
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerX, centerY int, snap *session.Snapshot) {
	cw := c.chunkWriter
	titleStartY := centerY - 9
	c.writeArt(centerX, titleStartY, titleArt)

	subtitle := "~ Claw Machine over SSH ~"
	cw.WriteCentered(centerX, titleStartY+len(titleArt)+1, subtitle)

	goal := fmt.Sprintf("Win %d prizes", snap.PrizesToWin)
	if snap.Remaining > 0 {
		goal += fmt.Sprintf(" in %d seconds", int(snap.Remaining+0.5))
	}
	cw.WriteColorAt(centerX-len(goal)/2, titleStartY+len(titleArt)+2, draw.ColorYellow, goal)

	controlsY := titleStartY + len(titleArt) + 4
	cw.WriteCentered(centerX, controlsY, "Controls")

	controlLines := []string{
		"W A S D / Arrows . .  Move",
		"SPACE . . . . . . . . Drop",
		"G . . . . . . . . . . Grip",
		"P . . . . . . . . .  Pause",
		"Q . . . . . . . . . . Quit",
	}
	for i, line := range controlLines {
		cw.WriteCentered(centerX, controlsY+1+i, line)
	}

	c.drawPrompt(centerX, controlsY+len(controlLines)+2, ">>  Press SPACE to Start  <<")
}

// drawPlayingHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayingHUD(termWidth, termHeight int, snap *session.Snapshot) {
	cw := c.chunkWriter

	scoreText := fmt.Sprintf("Score: %-6d Prizes: %d/%-3d", snap.Score, snap.Collected, snap.PrizesToWin)
	cw.WriteAt(2, 1, scoreText)

	// Untimed games count up.
	timeText := fmt.Sprintf("Left: %5.1f", snap.Remaining)
	if snap.Remaining <= 0 {
		timeText = fmt.Sprintf("Time: %5.1f", snap.Elapsed)
	}
	cw.WriteAt(termWidth-len(timeText)-1, 1, timeText)

	if c.state.messageTimer > 0 && c.state.message != "" {
		col := termWidth/2 - len(c.state.message)/2
		cw.WriteColorAt(col, 2, c.state.messagePen.ANSI(), c.state.message)
		// The canvas clears it once the message expires.
		c.canvas.MarkTextDirty(col, 2, len(c.state.message))
	}

	phaseText := fmt.Sprintf("%s | Claw: %-14s", c.username, snap.Claw.Phase)
	cw.WriteAt(2, termHeight, phaseText)

	playersText := fmt.Sprintf("Players: %-4d", c.server.GetSnapshot().Players)
	cw.WriteAt(termWidth-len(playersText)-1, termHeight, playersText)
}

func (c *Client) drawPausedBanner(centerX, centerY int) {
	cw := c.chunkWriter
	title := "  PAUSED  "
	cw.WriteColorAt(centerX-len(title)/2, centerY-1, draw.ColorBrightWhite, title)
	hint := " P to resume, Q to quit "
	cw.WriteAt(centerX-len(hint)/2, centerY+1, hint)
	c.canvas.MarkTextDirty(centerX-len(title)/2, centerY-1, len(title))
	c.canvas.MarkTextDirty(centerX-len(hint)/2, centerY+1, len(hint))
}

var winArt = []string{
	` __   _____  _   _  __      _____ _  _  `,
	` \ \ / / _ \| | | | \ \    / /_ _| \| | `,
	`  \ V / (_) | |_| |  \ \/\/ / | || .' | `,
	`   |_| \___/ \___/    \_/\_/ |___|_|\_| `,
	`                                        `,
}

var timeUpArt = []string{
	`  _____ ___ __  __ ___   _   _ ___  `,
	` |_   _|_ _|  \/  | __| | | | | _ \ `,
	`   | |  | || |\/| | _|  | |_| |  _/ `,
	`   |_| |___|_|  |_|___|  \___/|_|   `,
	`                                    `,
}

// drawGameOverScreen draws the result and the leaderboard.
func (c *Client) drawGameOverScreen(centerX, centerY int, snap *session.Snapshot) {
	art := timeUpArt
	if snap.State == session.StateWon {
		art = winArt
	}

	cw := c.chunkWriter
	titleStartY := centerY - 10
	c.writeArt(centerX, titleStartY, art)

	row := titleStartY + len(art) + 1
	cw.WriteCentered(centerX, row, fmt.Sprintf("Score: %d   Prizes: %d/%d   Time: %.1fs",
		snap.Score, snap.Collected, snap.PrizesToWin, snap.Elapsed))
	if c.state.lastRank > 0 {
		cw.WriteColorAt(centerX-8, row+1, draw.ColorYellow, fmt.Sprintf("New top score #%d", c.state.lastRank))
	}

	row += 3
	row = c.drawLeaderboard(centerX, row, c.server.GetSnapshot().TopScores)

	c.drawPrompt(centerX, row+1, ">>  Press SPACE to Play Again  <<")
}

// drawLeaderboard writes the top scores from row and returns the next free row.
func (c *Client) drawLeaderboard(centerX, row int, entries []server.TopScoreEntry) int {
	cw := c.chunkWriter
	cw.WriteCentered(centerX, row, "Top Scores")
	row++
	if len(entries) == 0 {
		cw.WriteCentered(centerX, row, "-")
		return row + 1
	}
	for i, e := range entries {
		mark := " "
		if e.Won {
			mark = "*"
		}
		line := fmt.Sprintf("%d. %-*s %6d %s", i+1, config.MaxUsernameLength, e.Username, e.Score, mark)
		cw.WriteCentered(centerX, row, line)
		row++
	}
	return row
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
