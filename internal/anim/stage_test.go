package anim_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Zachkp/rootaccess/internal/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	frames []string
}

func (r *recorder) Render(frame string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame)
}

func (r *recorder) Frames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.frames...)
}

func fast(seq anim.Sequence) anim.Sequence {
	seq.Tick = time.Millisecond
	return seq
}

func waitDone(t *testing.T, h *anim.Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("sequence did not finish")
	}
}

func TestPlayTypewriterCompletes(t *testing.T) {
	rec := &recorder{}
	h := anim.Play(context.Background(), fast(anim.NewTypewriter("hi")), time.Millisecond, nil, rec)
	waitDone(t, h)

	assert.NoError(t, h.Err())
	assert.Equal(t, []string{"", "h", "hi"}, rec.Frames())
	assert.True(t, h.Sequence().Done)
	assert.False(t, h.Running())
}

func TestPlayCancelDuringDelay(t *testing.T) {
	rec := &recorder{}
	h := anim.Play(context.Background(), fast(anim.NewTypewriter("hi")), time.Hour, nil, rec)
	h.Cancel()
	h.Cancel()

	assert.ErrorIs(t, h.Err(), context.Canceled)
	assert.Empty(t, rec.Frames())
}

func TestPlayNoFramesAfterTeardown(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	h := anim.Play(ctx, fast(anim.NewScramble("OFFENSIVE SECURITY")), 0, nil, rec)

	time.Sleep(5 * time.Millisecond)
	cancel()
	waitDone(t, h)
	n := len(rec.Frames())

	time.Sleep(10 * time.Millisecond)
	assert.Len(t, rec.Frames(), n)
	assert.ErrorIs(t, h.Err(), context.Canceled)
}

func TestPlayRecoversPanickingSurface(t *testing.T) {
	h := anim.Play(context.Background(), fast(anim.NewTypewriter("boom")), 0, nil,
		anim.SurfaceFunc(func(string) { panic("display gone") }))
	waitDone(t, h)

	assert.ErrorIs(t, h.Err(), anim.ErrAborted)
	assert.True(t, h.Sequence().Done)
}

type taggedFrame struct {
	run   int
	frame string
}

func TestStageRetriggerCancelsPrevious(t *testing.T) {
	st := anim.NewStage(context.Background(), nil)
	defer st.Close()

	var mu sync.Mutex
	var frames []taggedFrame
	surface := func(run int) anim.Surface {
		return anim.SurfaceFunc(func(frame string) {
			mu.Lock()
			defer mu.Unlock()
			frames = append(frames, taggedFrame{run, frame})
		})
	}

	first, err := st.Play("card", fast(anim.NewScramble("Web App Pentesting")), 0, surface(1))
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	second, err := st.Play("card", fast(anim.NewScramble("Web App Pentesting")), 0, surface(2))
	require.NoError(t, err)

	assert.False(t, first.Running())
	assert.ErrorIs(t, first.Err(), context.Canceled)
	assert.Equal(t, []string{"card"}, st.Active())

	mu.Lock()
	mark := len(frames)
	mu.Unlock()
	waitDone(t, second)
	assert.NoError(t, second.Err())

	mu.Lock()
	defer mu.Unlock()
	for _, f := range frames[mark:] {
		assert.Equal(t, 2, f.run, "stale frame from cancelled run")
	}
	assert.Equal(t, taggedFrame{2, "Web App Pentesting"}, frames[len(frames)-1])
}

func TestStageTargetsIndependent(t *testing.T) {
	st := anim.NewStage(context.Background(), nil)
	defer st.Close()

	a, err := st.Play("a", fast(anim.NewTypewriter("alpha")), time.Hour, &recorder{})
	require.NoError(t, err)
	b, err := st.Play("b", fast(anim.NewTypewriter("beta")), time.Hour, &recorder{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, st.Active())
	st.Cancel("a")
	st.Cancel("a")
	assert.False(t, a.Running())
	assert.True(t, b.Running())
	assert.Equal(t, []string{"b"}, st.Active())
}

func TestStageClose(t *testing.T) {
	st := anim.NewStage(context.Background(), nil)
	rec := &recorder{}
	h, err := st.Play("tagline", fast(anim.NewTypewriter("Breaking systems")), time.Hour, rec)
	require.NoError(t, err)

	st.Close()
	st.Close()
	assert.False(t, h.Running())
	assert.Empty(t, st.Active())
	assert.Empty(t, rec.Frames())

	_, err = st.Play("tagline", anim.NewTypewriter("again"), 0, rec)
	assert.ErrorIs(t, err, anim.ErrStageClosed)
}

func TestPlayDefaultTickFollowsMode(t *testing.T) {
	testCases := []struct {
		seq  anim.Sequence
		tick time.Duration
	}{
		{anim.Sequence{Text: []rune("hi"), Mode: anim.Typewriter}, anim.TypewriterTick},
		{anim.Sequence{Text: []rune("hi"), Mode: anim.Scramble}, anim.ScrambleTick},
	}

	for _, tc := range testCases {
		t.Run(tc.seq.Mode.String(), func(t *testing.T) {
			h := anim.Play(context.Background(), tc.seq, time.Hour, nil, &recorder{})
			defer h.Cancel()
			assert.Equal(t, tc.tick, h.Sequence().Tick)
		})
	}
}

func TestPlayUnknownModeStops(t *testing.T) {
	rec := &recorder{}
	h := anim.Play(context.Background(), fast(anim.Sequence{Text: []rune("hi"), Mode: anim.Mode(7)}), 0, nil, rec)
	waitDone(t, h)

	assert.ErrorIs(t, h.Err(), anim.ErrUnknownMode)
	assert.Empty(t, rec.Frames())
}

func TestStageRetriggerDropsUndrawnFrame(t *testing.T) {
	st := anim.NewStage(context.Background(), nil)
	defer st.Close()
	b := anim.NewBoard()

	_, err := st.Play("card", fast(anim.NewScramble("Network Security")), time.Hour, b.Surface("card"))
	require.NoError(t, err)
	b.Surface("card").Render("OLD-FRAME")

	_, err = st.Play("card", fast(anim.NewScramble("Network Security")), time.Hour, b.Surface("card"))
	require.NoError(t, err)
	assert.Empty(t, b.Drain())

	b.Surface("card").Render("OLD-FRAME")
	st.Cancel("card")
	assert.Empty(t, b.Drain())
}

func TestBoardForget(t *testing.T) {
	b := anim.NewBoard()
	b.Surface("tagline").Render("Bre")
	b.Surface("card").Render("X#")

	b.Forget("card")
	assert.Equal(t, []anim.Frame{{Target: "tagline", Text: "Bre"}}, b.Drain())
}

func TestBoardKeepsLatestFrame(t *testing.T) {
	b := anim.NewBoard()
	b.Surface("tagline").Render("Br")
	b.Surface("tagline").Render("Bre")
	b.Surface("card").Render("X#")

	select {
	case <-b.Notify():
	default:
		t.Fatal("expected notification")
	}
	assert.Equal(t, []anim.Frame{{Target: "card", Text: "X#"}, {Target: "tagline", Text: "Bre"}}, b.Drain())
	assert.Empty(t, b.Drain())
}
