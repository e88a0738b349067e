package anim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// FrameInterval is one display frame, the redraw rate for the scan bar.
const FrameInterval = 16 * time.Millisecond

// PeriodMS is the length of one scan cycle in milliseconds.
const PeriodMS = 19000

const roundingSlack = 1e-9

var ErrInvalidWaveform = errors.New("invalid waveform")

// Segment is one phase of a waveform. Start and End are fractions of the
// cycle, From and To are the percentages at either end.
type Segment struct {
	Start float64
	End   float64
	From  float64
	To    float64
}

// WaveformConfig describes a repeating piecewise-linear percentage curve.
type WaveformConfig struct {
	Period   time.Duration
	Segments []Segment
}

// ScanWaveform fills fast, then slow, dips back to 50, then refills.
var ScanWaveform = WaveformConfig{
	Period: PeriodMS * time.Millisecond,
	Segments: []Segment{
		{Start: 0, End: 8.0 / 19, From: 0, To: 80},
		{Start: 8.0 / 19, End: 10.0 / 19, From: 80, To: 100},
		{Start: 10.0 / 19, End: 14.0 / 19, From: 100, To: 50},
		{Start: 14.0 / 19, End: 17.0 / 19, From: 50, To: 80},
		{Start: 17.0 / 19, End: 1, From: 80, To: 100},
	},
}

// ComputeProgress returns the scan percentage after elapsedMS milliseconds.
// The cycle is reduced in milliseconds first so huge inputs cannot overflow
// the Duration conversion.
func ComputeProgress(elapsedMS int64) int {
	if elapsedMS < 0 {
		elapsedMS = 0
	}
	return ScanWaveform.At(time.Duration(elapsedMS%PeriodMS) * time.Millisecond)
}

func (c WaveformConfig) Validate() error {
	if c.Period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %s", ErrInvalidWaveform, c.Period)
	}
	if len(c.Segments) == 0 {
		return fmt.Errorf("%w: no segments", ErrInvalidWaveform)
	}
	if c.Segments[0].Start != 0 {
		return fmt.Errorf("%w: first segment starts at %v", ErrInvalidWaveform, c.Segments[0].Start)
	}
	if last := c.Segments[len(c.Segments)-1]; last.End != 1 {
		return fmt.Errorf("%w: last segment ends at %v", ErrInvalidWaveform, last.End)
	}
	for i, s := range c.Segments {
		if s.Start >= s.End {
			return fmt.Errorf("%w: segment %d is empty [%v,%v)", ErrInvalidWaveform, i, s.Start, s.End)
		}
		if i > 0 && s.Start != c.Segments[i-1].End {
			return fmt.Errorf("%w: segment %d starts at %v, previous ends at %v",
				ErrInvalidWaveform, i, s.Start, c.Segments[i-1].End)
		}
		if s.From < 0 || s.From > 100 || s.To < 0 || s.To > 100 {
			return fmt.Errorf("%w: segment %d values out of range", ErrInvalidWaveform, i)
		}
	}
	return nil
}

// At returns the percentage at elapsed. Negative durations count as zero.
func (c WaveformConfig) At(elapsed time.Duration) int {
	if c.Period <= 0 || len(c.Segments) == 0 {
		return 0
	}
	if elapsed < 0 {
		elapsed = 0
	}

	cycle := elapsed % c.Period
	f := float64(cycle) / float64(c.Period)

	seg := c.Segments[len(c.Segments)-1]
	for _, s := range c.Segments {
		if f < s.End {
			seg = s
			break
		}
	}

	local := (f - seg.Start) / (seg.End - seg.Start)
	v := seg.From + local*(seg.To-seg.From)
	// absorb rounding so exact breakpoints floor to their own value
	return int(math.Floor(math.Max(0, math.Min(100, v+roundingSlack))))
}

// Clock returns the current time.
type Clock func() time.Time

// Scanner derives progress from the time since Start. It keeps no progress
// of its own, so pausing and resuming never drifts.
type Scanner struct {
	Wave  WaveformConfig
	Start time.Time
	Clock Clock
}

func NewScanner(wave WaveformConfig) *Scanner {
	return &Scanner{Wave: wave, Start: time.Now(), Clock: time.Now}
}

func (s *Scanner) Progress() int {
	now := time.Now
	if s.Clock != nil {
		now = s.Clock
	}
	return s.Wave.At(now().Sub(s.Start))
}

// Watch calls fn with the current progress, then again on every interval
// where the value changed, until ctx is done.
func (s *Scanner) Watch(ctx context.Context, interval time.Duration, fn func(int)) {
	if interval <= 0 {
		interval = FrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.Progress()
	fn(last)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p := s.Progress(); p != last {
				last = p
				fn(p)
			}
		}
	}
}
