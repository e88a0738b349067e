package anim

import (
	"sort"
	"sync"
)

// Frame is the latest text for one target.
type Frame struct {
	Target string `json:"target"`
	Text   string `json:"text"`
}

// Board collects frames from playing sequences for a host loop that owns
// the display. Only the newest frame per target is kept.
type Board struct {
	mu      sync.Mutex
	pending map[string]string
	notify  chan struct{}
}

func NewBoard() *Board {
	return &Board{
		pending: make(map[string]string),
		notify:  make(chan struct{}, 1),
	}
}

// Surface returns a Surface that writes frames for target.
func (b *Board) Surface(target string) Surface {
	return boardSurface{board: b, target: target}
}

type boardSurface struct {
	board  *Board
	target string
}

func (s boardSurface) Render(frame string) {
	b := s.board
	b.mu.Lock()
	b.pending[s.target] = frame
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Forget drops a frame the host has not drained yet.
func (s boardSurface) Forget() { s.board.Forget(s.target) }

// Forget drops the pending frame for target, if any.
func (b *Board) Forget(target string) {
	b.mu.Lock()
	delete(b.pending, target)
	b.mu.Unlock()
}

// Notify fires after new frames were written.
func (b *Board) Notify() <-chan struct{} { return b.notify }

// Drain returns and clears the pending frames, ordered by target.
func (b *Board) Drain() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	frames := make([]Frame, 0, len(b.pending))
	for target, text := range b.pending {
		frames = append(frames, Frame{Target: target, Text: text})
	}
	clear(b.pending)
	sort.Slice(frames, func(i, j int) bool { return frames[i].Target < frames[j].Target })
	return frames
}
