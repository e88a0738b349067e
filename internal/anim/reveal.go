package anim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	TypewriterTick = 50 * time.Millisecond
	ScrambleTick   = 30 * time.Millisecond

	// scramble resolves one character every stepsPerRune ticks
	stepsPerRune = 3
)

var (
	ErrComplete    = errors.New("sequence already complete")
	ErrUnknownMode = errors.New("unknown reveal mode")
)

// Glyphs is the noise alphabet for unresolved scramble positions.
var Glyphs = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-=[]{}|;:,.<>?")

type Mode int

const (
	Typewriter Mode = iota
	Scramble
)

func (m Mode) String() string {
	switch m {
	case Typewriter:
		return "typewriter"
	case Scramble:
		return "scramble"
	default:
		return "unknown"
	}
}

// Noise picks random indexes. *rand.Rand satisfies it.
type Noise interface {
	IntN(n int) int
}

type lockedNoise struct{}

func (lockedNoise) IntN(n int) int { return rand.IntN(n) }

// DefaultNoise draws from the global generator and is safe for concurrent use.
var DefaultNoise Noise = lockedNoise{}

// Sequence is one run of a text reveal. For Typewriter, Step is the number
// of characters shown; for Scramble it counts thirds of a character.
type Sequence struct {
	Text []rune
	Mode Mode
	Step int
	Tick time.Duration
	Done bool
}

func NewTypewriter(text string) Sequence {
	return Sequence{Text: []rune(text), Mode: Typewriter, Tick: TypewriterTick}
}

func NewScramble(text string) Sequence {
	return Sequence{Text: []rune(text), Mode: Scramble, Tick: ScrambleTick}
}

// Iteration is the fractional resolved index of a scramble.
func (s Sequence) Iteration() float64 {
	if s.Mode != Scramble {
		return float64(s.Step)
	}
	return float64(s.Step) / stepsPerRune
}

// Resolved is the number of leading characters shown as-is.
func (s Sequence) Resolved() int {
	if s.Mode != Scramble {
		return s.Step
	}
	return s.Step / stepsPerRune
}

// Advance emits the frame for the current state and returns the next one.
// A finished sequence is returned unchanged with ErrComplete, an unknown
// mode with ErrUnknownMode.
func Advance(s Sequence, noise Noise) (Sequence, string, error) {
	if s.Done {
		return s, "", ErrComplete
	}

	switch s.Mode {
	case Scramble:
		if s.Step >= stepsPerRune*len(s.Text) {
			s.Done = true
			return s, string(s.Text), nil
		}
		frame := ScrambleFrame(s.Text, s.Resolved(), noise)
		s.Step++
		return s, frame, nil
	case Typewriter:
		if s.Step >= len(s.Text) {
			s.Done = true
			return s, string(s.Text), nil
		}
		frame := string(s.Text[:s.Step])
		s.Step++
		return s, frame, nil
	default:
		return s, "", fmt.Errorf("%w: %d", ErrUnknownMode, int(s.Mode))
	}
}

// DefaultTick is the tick interval for mode.
func DefaultTick(m Mode) time.Duration {
	if m == Scramble {
		return ScrambleTick
	}
	return TypewriterTick
}

// ScrambleFrame keeps the first resolved runes of text and replaces the
// rest with glyphs drawn from noise.
func ScrambleFrame(text []rune, resolved int, noise Noise) string {
	if noise == nil {
		noise = DefaultNoise
	}
	out := make([]rune, len(text))
	for i, r := range text {
		if i < resolved {
			out[i] = r
			continue
		}
		out[i] = Glyphs[noise.IntN(len(Glyphs))]
	}
	return string(out)
}
