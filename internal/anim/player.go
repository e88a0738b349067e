package anim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var ErrAborted = errors.New("sequence aborted")

// Surface displays frames.
type Surface interface {
	Render(frame string)
}

type SurfaceFunc func(frame string)

func (f SurfaceFunc) Render(frame string) { f(frame) }

// Handle is the single timer behind a playing sequence.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
	seq Sequence
}

// Play runs seq on its own goroutine: it waits delay, then advances once per
// seq.Tick and renders each frame to out until the sequence completes or ctx
// is cancelled.
func Play(ctx context.Context, seq Sequence, delay time.Duration, noise Noise, out Surface) *Handle {
	if noise == nil {
		noise = DefaultNoise
	}
	if seq.Tick <= 0 {
		seq.Tick = DefaultTick(seq.Mode)
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{}), seq: seq}

	go func() {
		defer close(h.done)
		defer cancel()
		h.finish(h.run(ctx, seq, delay, noise, out))
	}()
	return h
}

func (h *Handle) run(ctx context.Context, seq Sequence, delay time.Duration, noise Noise, out Surface) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	ticker := time.NewTicker(seq.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		next, err := tick(seq, noise, out)
		seq = next
		h.mu.Lock()
		h.seq = seq
		h.mu.Unlock()
		if err != nil {
			return err
		}
		if seq.Done {
			return nil
		}
	}
}

// tick advances and renders one frame. A panic here aborts the sequence
// instead of taking the host down.
func tick(seq Sequence, noise Noise, out Surface) (next Sequence, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Reveal tick panicked (%s %q): %v", seq.Mode, string(seq.Text), r)
			next = seq
			next.Done = true
			err = fmt.Errorf("%w: %v", ErrAborted, r)
		}
	}()

	next, frame, err := Advance(seq, noise)
	if err != nil {
		return next, err
	}
	out.Render(frame)
	return next, nil
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// Cancel stops the sequence and waits until its goroutine has exited. No
// frame is rendered after Cancel returns. Calling it again is a no-op.
// Must not be called from the Surface of the same sequence.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Handle) Done() <-chan struct{} { return h.done }

// Running reports whether the sequence still owns its timer.
func (h *Handle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Err is valid once Done is closed: nil after normal completion,
// context.Canceled after Cancel or teardown, ErrAborted if a tick panicked.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Sequence returns the last state reached.
func (h *Handle) Sequence() Sequence {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}
