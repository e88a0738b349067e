package anim

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var ErrStageClosed = errors.New("stage closed")

// Stage owns the reveal sequences of one display surface. Each target has at
// most one sequence, and so at most one timer, at any time.
type Stage struct {
	ctx    context.Context
	cancel context.CancelFunc
	noise  Noise

	mu     sync.Mutex
	active map[string]*Handle
	outs   map[string]Surface
	closed bool
}

func NewStage(ctx context.Context, noise Noise) *Stage {
	ctx, cancel := context.WithCancel(ctx)
	if noise == nil {
		noise = DefaultNoise
	}
	return &Stage{
		ctx:    ctx,
		cancel: cancel,
		noise:  noise,
		active: make(map[string]*Handle),
		outs:   make(map[string]Surface),
	}
}

// Play starts seq on target. A sequence already playing on target is
// cancelled, and has stopped rendering, before the new one starts.
func (st *Stage) Play(target string, seq Sequence, delay time.Duration, out Surface) (*Handle, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.closed {
		return nil, ErrStageClosed
	}
	st.stop(target)
	h := Play(st.ctx, seq, delay, st.noise, out)
	st.active[target] = h
	st.outs[target] = out
	return h, nil
}

func (st *Stage) Cancel(target string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.stop(target)
}

// forgetter is implemented by surfaces that buffer frames, like Board's.
type forgetter interface {
	Forget()
}

// stop cancels target's sequence and discards any frame it left undrawn.
// Callers hold st.mu.
func (st *Stage) stop(target string) {
	if h := st.active[target]; h != nil {
		h.Cancel()
	}
	if f, ok := st.outs[target].(forgetter); ok {
		f.Forget()
	}
	delete(st.active, target)
	delete(st.outs, target)
}

// Active lists the targets whose sequences are still running.
func (st *Stage) Active() []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	var targets []string
	for target, h := range st.active {
		if h.Running() {
			targets = append(targets, target)
		}
	}
	sort.Strings(targets)
	return targets
}

// Close cancels every sequence and waits for them to stop. Safe to call more
// than once.
func (st *Stage) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.closed {
		return
	}
	st.closed = true
	st.cancel()
	for target := range st.outs {
		st.stop(target)
	}
}
