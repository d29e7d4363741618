package server

import "sort"

// TopScoreEntry is one finished game on the leaderboard.
type TopScoreEntry struct {
	Username  string
	Score     int
	Collected int
	Won       bool
	seq       int // Earlier games win ties
}

// Leaderboard keeps the best finished games since the server started.
// It is owned by the server loop.
type Leaderboard struct {
	size    int
	entries []TopScoreEntry
	seq     int
}

// NewLeaderboard creates a leaderboard holding up to size entries.
func NewLeaderboard(size int) *Leaderboard {
	return &Leaderboard{size: max(size, 1)}
}

// Submit records a finished game and returns its 1-based position, or 0
// if it did not make the board.
func (l *Leaderboard) Submit(e TopScoreEntry) int {
	l.seq++
	e.seq = l.seq
	l.entries = append(l.entries, e)
	sort.SliceStable(l.entries, func(i, j int) bool {
		a, b := l.entries[i], l.entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.seq < b.seq
	})
	if len(l.entries) > l.size {
		l.entries = l.entries[:l.size]
	}
	for i, entry := range l.entries {
		if entry.seq == e.seq {
			return i + 1
		}
	}
	return 0
}

// Entries returns a copy of the board, best first.
func (l *Leaderboard) Entries() []TopScoreEntry {
	out := make([]TopScoreEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ServerSnapshot is the shared state every client can see.
type ServerSnapshot struct {
	Players   int
	TopScores []TopScoreEntry
}
