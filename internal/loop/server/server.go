// Package server runs every connected player's cabinet on one tick loop and
// publishes immutable snapshots for the clients to render.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	settings "github.com/tomz197/clawmachine/internal/config"
	"github.com/tomz197/clawmachine/internal/loop/config"
	"github.com/tomz197/clawmachine/internal/session"
)

var ErrShuttingDown = errors.New("server is shutting down")

// GameServer is the interface clients use to talk to the server.
type GameServer interface {
	RegisterClient(username string) (*ClientHandle, error)
	UnregisterClient(clientID int)
	SendInput(clientID int, input session.Input)
	SendCommand(clientID int, cmd Command)
	GetSnapshot() *ServerSnapshot
}

// SettingsSource hands out the settings for a new cabinet.
// *settings.Store implements it.
type SettingsSource interface {
	Current() settings.Settings
}

// StaticSettings is a SettingsSource that never changes.
type StaticSettings settings.Settings

func (s StaticSettings) Current() settings.Settings { return settings.Settings(s) }

// Command changes the game state of a client's cabinet.
type Command int

const (
	CommandStart Command = iota
	CommandPause
	CommandResume
	CommandRestart
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return "start"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// ClientHandle is a client's connection to its cabinet on the server.
type ClientHandle struct {
	ID         int
	Username   string
	Difficulty string
	EventsCh   chan ClientEvent // Closed when the client is unregistered

	session  *session.Session // Owned by the server loop
	input    session.Input
	snapshot atomic.Pointer[session.Snapshot]
}

// Snapshot returns the latest state of the client's cabinet.
func (h *ClientHandle) Snapshot() *session.Snapshot {
	return h.snapshot.Load()
}

func (h *ClientHandle) publish() {
	snap := h.session.Snapshot()
	h.snapshot.Store(&snap)
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPrizeScored ClientEventType = iota
	EventDropFinished
	EventGameOver
	EventServerShutdown
)

// ClientEvent is sent from the server to one client.
type ClientEvent struct {
	Type    ClientEventType
	Session session.Event
	Rank    int // Leaderboard position for game over, 0 if not placed
}

type clientInput struct {
	clientID int
	input    session.Input
}

type clientCommand struct {
	clientID int
	cmd      Command
}

// Server owns all cabinets and steps them on a fixed tick.
type Server struct {
	settings SettingsSource
	logger   *log.Logger

	snapshot     atomic.Pointer[ServerSnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	inputChan    chan clientInput
	commandChan  chan clientCommand
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
	closing      atomic.Bool

	leaderboard *Leaderboard
	lastTick    time.Time
}

var _ GameServer = (*Server)(nil)

// NewServer creates a server that builds cabinets from src.
func NewServer(src SettingsSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		settings:     src,
		logger:       logger,
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		inputChan:    make(chan clientInput, 256),
		commandChan:  make(chan clientCommand, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		leaderboard:  NewLeaderboard(config.TopScoresShown),
	}
	s.snapshot.Store(&ServerSnapshot{})
	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	s.lastTick = time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.tick(frameStart.Sub(s.lastTick).Seconds())
		s.lastTick = frameStart

		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// tick advances every cabinet by dt seconds.
func (s *Server) tick(dt float64) {
	s.processRegistrations()
	s.collectInputs()
	s.updateSessions(dt)
	s.createSnapshot()
}

// Shutdown notifies all clients and waits for them to disconnect, up to
// timeout. The caller should cancel the Run context afterwards.
func (s *Server) Shutdown(timeout time.Duration) {
	s.closing.Store(true)
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient builds a cabinet from the current settings and returns
// the client's handle. The first snapshot is available immediately.
func (s *Server) RegisterClient(username string) (*ClientHandle, error) {
	if s.closing.Load() {
		return nil, ErrShuttingDown
	}
	current := s.settings.Current()

	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	logger := s.logger.With("client", id, "user", username)
	sess, err := session.NewFromSettings(current, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("create cabinet: %w", err)
	}

	handle := &ClientHandle{
		ID:         id,
		Username:   username,
		Difficulty: current.Difficulty,
		EventsCh:   make(chan ClientEvent, 32),
		session:    sess,
	}
	handle.publish()

	s.registerCh <- handle
	return handle, nil
}

// UnregisterClient removes a client and closes its event channel.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SendInput queues the latest input of a client. Dropped if the queue is full.
func (s *Server) SendInput(clientID int, input session.Input) {
	select {
	case s.inputChan <- clientInput{clientID: clientID, input: input}:
	default:
	}
}

// SendCommand queues a game state change for a client.
func (s *Server) SendCommand(clientID int, cmd Command) {
	select {
	case s.commandChan <- clientCommand{clientID: clientID, cmd: cmd}:
	default:
		s.logger.Warn("command dropped", "client", clientID, "cmd", cmd)
	}
}

// GetSnapshot returns the shared server state.
func (s *Server) GetSnapshot() *ServerSnapshot {
	return s.snapshot.Load()
}

func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("client joined", "client", handle.ID, "user", handle.Username, "difficulty", handle.Difficulty)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("client left", "client", clientID, "user", handle.Username)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectInputs merges pending inputs: movement takes the latest value,
// pulses are kept until the next update consumes them.
func (s *Server) collectInputs() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for {
		select {
		case ci := <-s.inputChan:
			if handle, ok := s.clients[ci.clientID]; ok {
				handle.input = mergeInput(handle.input, ci.input)
			}
		case cc := <-s.commandChan:
			if handle, ok := s.clients[cc.clientID]; ok {
				s.applyCommand(handle, cc.cmd)
			}
		default:
			return
		}
	}
}

func mergeInput(prev, next session.Input) session.Input {
	next.Drop = next.Drop || prev.Drop
	next.ToggleGrip = next.ToggleGrip || prev.ToggleGrip
	return next
}

func (s *Server) applyCommand(h *ClientHandle, cmd Command) {
	switch cmd {
	case CommandStart:
		h.session.Start()
	case CommandPause:
		h.session.Pause()
	case CommandResume:
		h.session.Resume()
	case CommandRestart:
		h.session.Restart()
	}
}

func (s *Server) updateSessions(dt float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range s.clients {
		h.session.Update(dt, h.input)
		h.input.Drop = false
		h.input.ToggleGrip = false

		for _, ev := range h.session.Events() {
			s.forward(h, ev)
		}
		h.publish()
	}
}

func (s *Server) forward(h *ClientHandle, ev session.Event) {
	out := ClientEvent{Session: ev}
	switch ev.Kind {
	case session.EventPrizeScored:
		out.Type = EventPrizeScored
	case session.EventDropFinished:
		out.Type = EventDropFinished
	case session.EventGameOver:
		out.Type = EventGameOver
		snap := h.session.Snapshot()
		out.Rank = s.leaderboard.Submit(TopScoreEntry{
			Username:  h.Username,
			Score:     snap.Score,
			Collected: snap.Collected,
			Won:       ev.State == session.StateWon,
		})
		s.logger.Info("game finished", "client", h.ID, "user", h.Username, "score", snap.Score, "rank", out.Rank)
	}
	select {
	case h.EventsCh <- out:
	default:
	}
}

func (s *Server) createSnapshot() {
	s.mu.RLock()
	players := len(s.clients)
	s.mu.RUnlock()
	s.snapshot.Store(&ServerSnapshot{
		Players:   players,
		TopScores: s.leaderboard.Entries(),
	})
}
