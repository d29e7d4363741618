package config

import (
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration

	onChange  func(string) // called with path that changed
	stopCh    chan struct{}
	stopOnce  sync.Once
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start records the current mtimes, then polls in a goroutine.
func (w *FileWatcher) Start() {
	w.scanAll(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// scanAll checks mtimes and invokes onChange for files that changed since last scan.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// Missing file: keep the last known mtime and keep going
			continue
		}
		mt := fi.ModTime()
		last := w.lastMTime[p] // Zero for a file created after Start
		w.lastMTime[p] = mt
		if prime || !mt.After(last) {
			continue
		}
		if w.onChange != nil {
			w.onChange(p)
		}
	}
}

// Store holds the settings handed to new sessions and swaps them when the
// settings file changes. Running sessions keep the copy they started with.
type Store struct {
	path   string
	logger *log.Logger

	mu      sync.RWMutex
	current Settings
}

// NewStore creates a store seeded with resolved settings loaded from path.
func NewStore(path string, initial Settings, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{path: path, logger: logger, current: initial}
}

// Current returns the settings for a new session.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the watched settings file.
func (s *Store) Path() string { return s.path }

// Reload re-reads the settings file. Invalid settings are rejected and the
// previous settings stay in effect.
func (s *Store) Reload() error {
	next, err := Load(s.path)
	if err != nil {
		s.logger.Warn("settings reload rejected", "path", s.path, "err", err)
		return err
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.logger.Info("settings reloaded", "path", s.path, "difficulty", next.Difficulty)
	return nil
}

// Watch polls the settings file and reloads on change until the returned
// stop function is called.
func (s *Store) Watch(interval time.Duration) (stop func()) {
	w := NewFileWatcher([]string{s.path}, interval, func(string) { _ = s.Reload() })
	w.Start()
	return w.Stop
}
