package score

import (
	"math"

	"git.lost.host/meutraa/beatlane/internal/game"
)

func DefaultWindows() Windows {
	return Windows{Perfect: 50, Good: 100, Ok: 150}
}

func DefaultPoints() Points {
	return Points{Perfect: 300, Good: 200, Ok: 100}
}

func (w Windows) Scale(f float64) Windows {
	return Windows{Perfect: w.Perfect * f, Good: w.Good * f, Ok: w.Ok * f}
}

type DefaultScorer struct {
	Windows Windows
	Points  Points
}

func NewDefaultScorer() *DefaultScorer {
	return &DefaultScorer{Windows: DefaultWindows(), Points: DefaultPoints()}
}

func Distance(n *game.ActiveNote, targetY float64) float64 {
	return math.Abs(n.Y - targetY)
}

// Notes are ordered by time, so on equal distance the earliest spawned wins.
func (s *DefaultScorer) Nearest(notes []*game.ActiveNote, lane int, targetY float64) (*game.ActiveNote, float64) {
	var closest *game.ActiveNote
	distance := math.Inf(1)

	for _, note := range notes {
		if note.Fading || note.Lane != lane {
			continue
		}
		if d := Distance(note, targetY); d < distance {
			distance = d
			closest = note
		}
	}
	return closest, distance
}

func (s *DefaultScorer) Classify(distance float64) game.HitResult {
	switch {
	case distance <= s.Windows.Perfect:
		return game.Perfect
	case distance <= s.Windows.Good:
		return game.Good
	case distance <= s.Windows.Ok:
		return game.Ok
	}
	return game.Miss
}

func (s *DefaultScorer) Award(result game.HitResult) int {
	switch result {
	case game.Perfect:
		return s.Points.Perfect
	case game.Good:
		return s.Points.Good
	case game.Ok:
		return s.Points.Ok
	}
	return 0
}
