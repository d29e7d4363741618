// Package input turns raw terminal bytes into per-frame key state.
package input

import (
	"io"
	"time"
)

// keyHoldDuration is how long a key counts as held after its last press.
// Terminals only report repeats, so holding a key is a stream of presses.
const keyHoldDuration = 80 * time.Millisecond

// escapeTimeout is how long a lone ESC waits for the rest of an arrow
// sequence before it counts as the Escape key.
const escapeTimeout = 50 * time.Millisecond

// Input is the key state for one frame. Movement keys count as held for a
// short while after each press; the other keys are set only on the frame
// their byte arrived.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Forward bool // Away from the player (+Z)
	Back    bool
	Drop    bool // Space
	Grip    bool // G
	Pause   bool // P
	Enter   bool
	Escape  bool
	Number  int // Last digit pressed, -1 if none
	Pressed []byte
}

// Move returns the gantry direction for the held keys, each axis in -1..1.
func (in Input) Move() (x, z float64) {
	if in.Left {
		x--
	}
	if in.Right {
		x++
	}
	if in.Back {
		z--
	}
	if in.Forward {
		z++
	}
	return x, z
}

type key int

const (
	keyQuit key = iota
	keyLeft
	keyRight
	keyForward
	keyBack
	keyDrop
	keyGrip
	keyPause
	keyEnter
	keyEscape
	keyNumber
	keyCount
)

// keyState tracks the last time each key was pressed.
type keyState struct {
	last      [keyCount]time.Time
	numberVal int

	pending      []byte // Unfinished escape sequence carried into the next parse
	pendingSince time.Time
}

func (s *keyState) held(k key, now time.Time) bool {
	return !s.last[k].IsZero() && now.Sub(s.last[k]) < keyHoldDuration
}

// Stream delivers input bytes from a reader and tracks key state so that
// simultaneous keys can be detected.
type Stream struct {
	ch    chan byte
	state keyState
}

// StartStream spawns a goroutine that reads r until it fails.
func StartStream(r io.ByteReader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
	}
}

// Reset forgets held keys, so a key that changed screens does not also act
// on the next one.
func (s *Stream) Reset() {
	s.state = keyState{numberVal: -1}
}

// Read drains the available bytes without blocking and returns the key state
// at now. A closed stream reports Quit.
func (s *Stream) Read(now time.Time) Input {
	var buf []byte
	closed := false
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	seen := parse(&s.state, buf, now)

	in := Input{
		Quit:    closed || seen[keyQuit],
		Left:    s.state.held(keyLeft, now),
		Right:   s.state.held(keyRight, now),
		Forward: s.state.held(keyForward, now),
		Back:    s.state.held(keyBack, now),
		Drop:    seen[keyDrop],
		Grip:    seen[keyGrip],
		Pause:   seen[keyPause],
		Enter:   seen[keyEnter],
		Escape:  seen[keyEscape],
		Number:  -1,
		Pressed: buf,
	}
	if seen[keyNumber] {
		in.Number = s.state.numberVal
	}
	return in
}

// parse applies a batch of bytes to the key state and reports which keys
// were in it. Arrow keys arrive as ESC [ A..D and may be split across reads,
// so an unfinished sequence is kept until the next call or escapeTimeout.
func parse(state *keyState, buf []byte, now time.Time) (seen [keyCount]bool) {
	carried := len(state.pending)
	since := state.pendingSince
	if carried > 0 {
		buf = append(append([]byte(nil), state.pending...), buf...)
		state.pending = state.pending[:0]
	}
	press := func(k key) {
		state.last[k] = now
		seen[k] = true
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' {
			rest := buf[i+1:]
			if len(rest) == 0 || (len(rest) == 1 && rest[0] == '[') {
				start := now
				if i < carried {
					start = since
				}
				if now.Sub(start) < escapeTimeout {
					state.pending = append(state.pending, buf[i:]...)
					state.pendingSince = start
					return seen
				}
				press(keyEscape)
				return seen
			}
			if rest[0] == '[' {
				if k, ok := arrowKeys[rest[1]]; ok {
					press(k)
					i += 2
					continue
				}
			}
		}
		if k, ok := keyFor(b); ok {
			press(k)
			if k == keyNumber {
				state.numberVal = int(b - '0')
			}
		}
	}
	return seen
}

var arrowKeys = map[byte]key{
	'A': keyForward,
	'B': keyBack,
	'C': keyRight,
	'D': keyLeft,
}

func keyFor(b byte) (key, bool) {
	switch b {
	case 'q', 'Q', 3: // Ctrl+C
		return keyQuit, true
	case 'a', 'A', 'j', 'J':
		return keyLeft, true
	case 'd', 'D', 'l', 'L':
		return keyRight, true
	case 'w', 'W', 'i', 'I':
		return keyForward, true
	case 's', 'S', 'k', 'K':
		return keyBack, true
	case ' ':
		return keyDrop, true
	case 'g', 'G':
		return keyGrip, true
	case 'p', 'P':
		return keyPause, true
	case '\n', '\r':
		return keyEnter, true
	case '\x1b':
		return keyEscape, true
	}
	if b >= '0' && b <= '9' {
		return keyNumber, true
	}
	return 0, false
}
