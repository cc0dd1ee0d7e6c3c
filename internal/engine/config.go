package engine

import (
	"time"

	"git.lost.host/meutraa/beatlane/internal/score"
)

// ReferenceHeight is the viewport height the default constants are tuned for.
const ReferenceHeight = 700.0

type Config struct {
	Lanes     int
	TargetY   float64 // Distance from the spawn line to the target line
	NoteSpeed float64 // Units per millisecond
	Windows   score.Windows
	Points    score.Points

	FeedbackLifetime time.Duration
	FadeDelay        time.Duration
}

func DefaultConfig() Config {
	return Config{
		Lanes:            4,
		TargetY:          600,
		NoteSpeed:        0.5,
		Windows:          score.DefaultWindows(),
		Points:           score.DefaultPoints(),
		FeedbackLifetime: 500 * time.Millisecond,
		FadeDelay:        200 * time.Millisecond,
	}
}

// ForViewport scales every distance to a viewport of the given height. The
// note transit time and the hit windows in milliseconds stay the same.
func (c Config) ForViewport(height float64) Config {
	if height <= 0 {
		return c
	}
	f := height / ReferenceHeight
	c.TargetY *= f
	c.NoteSpeed *= f
	c.Windows = c.Windows.Scale(f)
	return c
}

// WithLead keeps the geometry but changes how long a note takes to reach
// the target line.
func (c Config) WithLead(lead time.Duration) Config {
	if lead > 0 {
		c.NoteSpeed = c.TargetY / (float64(lead) / float64(time.Millisecond))
	}
	return c
}

// MissThreshold is the position past which an unhit note is a miss.
func (c Config) MissThreshold() float64 {
	return c.TargetY + c.Windows.Ok
}

// Lead is the time a note needs to travel from spawn to the target line.
func (c Config) Lead() time.Duration {
	return c.toDuration(c.TargetY)
}

// Travel is how long after its spawn a note stops mattering, including the
// feedback shown for it.
func (c Config) Travel() time.Duration {
	return c.toDuration(c.MissThreshold()) + c.FeedbackLifetime
}

func (c Config) toDuration(distance float64) time.Duration {
	if c.NoteSpeed <= 0 {
		return 0
	}
	return time.Duration(distance / c.NoteSpeed * float64(time.Millisecond))
}
