package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/input"
	"github.com/tomz197/clawmachine/internal/loop/config"
	"github.com/tomz197/clawmachine/internal/loop/server"
	"github.com/tomz197/clawmachine/internal/object"
	"github.com/tomz197/clawmachine/internal/session"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient registers a cabinet on the server and creates a client for it.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	handle, err := gs.RegisterClient(opts.Username)
	if err != nil {
		return nil, fmt.Errorf("register %q: %w", opts.Username, err)
	}
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	snap := handle.Snapshot()
	state.Layout = object.NewLayout(config.ViewWidth, config.ViewHeight, snap.Walls, snap.Claw.Anchor.Y)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}, nil
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	// Release the cabinet on every exit path, write errors included.
	defer c.server.UnregisterClient(c.handle.ID)
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.ClearScreen(c.writer)
	draw.ClearScreen(c.writer)
	defer c.state.effects.Clear()

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart
		dt := c.state.delta.Seconds()
		c.state.clock += dt

		snap := c.handle.Snapshot()
		c.state.Screen = screenFor(snap.State, c.state.shuttingDown)

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		if c.state.Screen == ScreenShutdown {
			c.updateShutdownState()
		}
		if c.state.messageTimer > 0 {
			c.state.messageTimer -= dt
		}
		c.state.effects.Update(dt)

		if err := c.drawFrame(snap); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	return nil
}

// processInput reads the keys for this frame and turns them into server
// commands or cabinet input depending on the screen.
func (c *Client) processInput() {
	c.state.Input = c.inputStream.Read(time.Now())
	in := c.state.Input

	if len(in.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if in.Quit {
		c.state.Running = false
		return
	}

	switch c.state.Screen {
	case ScreenReady:
		if in.Drop || in.Enter {
			c.command(server.CommandStart)
		}
	case ScreenPlaying:
		if in.Pause || in.Escape {
			c.command(server.CommandPause)
			return
		}
		moveX, moveZ := in.Move()
		c.server.SendInput(c.handle.ID, session.Input{
			MoveX:      moveX,
			MoveZ:      moveZ,
			Drop:       in.Drop,
			ToggleGrip: in.Grip,
		})
	case ScreenPaused:
		if in.Pause || in.Escape || in.Enter {
			c.command(server.CommandResume)
		}
	case ScreenGameOver:
		if in.Drop || in.Enter {
			c.state.effects.Clear()
			c.state.messageTimer = 0
			c.state.lastRank = 0
			c.command(server.CommandRestart)
		}
	}
}

// command sends cmd and forgets held keys so the key that changed screens
// does not also act on the next one.
func (c *Client) command(cmd server.Command) {
	c.inputStream.Reset()
	c.server.SendCommand(c.handle.ID, cmd)
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
			c.handleEvent(event)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(event server.ClientEvent) {
	switch event.Type {
	case server.EventPrizeScored:
		ev := event.Session
		pen := object.PrizePen(ev.Points)
		c.state.effects.Burst(ev.Pos.X, ev.Pos.Y,
			config.ScoreBurstParticles, config.ScoreBurstSpeed, config.ScoreBurstLifetime, pen)
		c.state.showMessage(fmt.Sprintf("+%d %s", ev.Points, ev.Prize), pen, config.MessageSeconds)
	case server.EventDropFinished:
		if msg, pen := dropMessage(event.Session.Outcome); msg != "" {
			c.state.showMessage(msg, pen, config.MessageSeconds)
		}
	case server.EventGameOver:
		c.state.lastRank = event.Rank
	case server.EventServerShutdown:
		c.state.shuttingDown = true
		c.state.Screen = ScreenShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
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
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
