package anim_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Zachkp/rootaccess/internal/anim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run advances seq to completion and returns every frame.
func run(t *testing.T, seq anim.Sequence, noise anim.Noise) ([]string, anim.Sequence) {
	t.Helper()
	var frames []string
	for i := 0; !seq.Done; i++ {
		require.Less(t, i, 10000, "sequence never completed")
		next, frame, err := anim.Advance(seq, noise)
		require.NoError(t, err)
		frames = append(frames, frame)
		seq = next
	}
	return frames, seq
}

func TestTypewriterFrames(t *testing.T) {
	testCases := []struct {
		text     string
		expected []string
	}{
		{"hi", []string{"", "h", "hi"}},
		{"", []string{""}},
		{"héllo", []string{"", "h", "hé", "hél", "héll", "héllo"}},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			seq := anim.NewTypewriter(tc.text)
			assert.Equal(t, anim.TypewriterTick, seq.Tick)

			frames, last := run(t, seq, nil)
			assert.Equal(t, tc.expected, frames)
			assert.True(t, last.Done)
		})
	}
}

func TestScrambleResolvesPrefix(t *testing.T) {
	noise := rand.New(rand.NewPCG(1, 2))
	text := "AB"
	seq := anim.NewScramble(text)
	assert.Equal(t, anim.ScrambleTick, seq.Tick)

	for !seq.Done {
		resolved := seq.Resolved()
		next, frame, err := anim.Advance(seq, noise)
		require.NoError(t, err)

		runes := []rune(frame)
		require.Len(t, runes, len(text))
		assert.Equal(t, text[:resolved], string(runes[:resolved]))
		for _, r := range runes[resolved:] {
			assert.Contains(t, string(anim.Glyphs), string(r))
		}
		if next.Done {
			assert.Equal(t, text, frame)
		}
		seq = next
	}
}

func TestScrambleIteration(t *testing.T) {
	frames, last := run(t, anim.NewScramble("AB"), rand.New(rand.NewPCG(3, 4)))

	// one third of a character per tick plus the final exact frame
	assert.Len(t, frames, 7)
	assert.Equal(t, "AB", frames[len(frames)-1])
	assert.Equal(t, 2.0, last.Iteration())
	assert.Equal(t, 2, last.Resolved())

	seq := anim.NewScramble("AB")
	seq.Step = 4
	assert.InDelta(t, 4.0/3, seq.Iteration(), 1e-12)
	assert.Equal(t, 1, seq.Resolved())
}

func TestScrambleEmptyText(t *testing.T) {
	frames, last := run(t, anim.NewScramble(""), nil)
	assert.Equal(t, []string{""}, frames)
	assert.True(t, last.Done)
}

func TestAdvanceCompleteIsNoop(t *testing.T) {
	for _, seq := range []anim.Sequence{anim.NewTypewriter("hi"), anim.NewScramble("hi")} {
		t.Run(seq.Mode.String(), func(t *testing.T) {
			_, done := run(t, seq, nil)

			again, frame, err := anim.Advance(done, nil)
			assert.ErrorIs(t, err, anim.ErrComplete)
			assert.Empty(t, frame)
			assert.Equal(t, done, again)
		})
	}
}

func TestAdvanceRejectsUnknownMode(t *testing.T) {
	seq := anim.Sequence{Text: []rune("hi"), Mode: anim.Mode(7)}

	next, frame, err := anim.Advance(seq, nil)
	assert.ErrorIs(t, err, anim.ErrUnknownMode)
	assert.Empty(t, frame)
	assert.Equal(t, seq, next)
}

func TestScrambleFrameUsesNoise(t *testing.T) {
	frame := anim.ScrambleFrame([]rune("ROOT"), 1, fixedNoise(0))
	assert.Equal(t, "R"+strings.Repeat(string(anim.Glyphs[0]), 3), frame)

	frame = anim.ScrambleFrame([]rune("ROOT"), 10, fixedNoise(0))
	assert.Equal(t, "ROOT", frame)
}

type fixedNoise int

func (n fixedNoise) IntN(int) int { return int(n) }
