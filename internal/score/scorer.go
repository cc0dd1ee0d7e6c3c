package score

import (
	"git.lost.host/meutraa/beatlane/internal/game"
)

type Scorer interface {
	// Find the unhit note of lane closest to the target line
	Nearest(notes []*game.ActiveNote, lane int, targetY float64) (*game.ActiveNote, float64)

	// Classify a distance from the target line, Miss when outside every window
	Classify(distance float64) game.HitResult

	// Points awarded for a result
	Award(result game.HitResult) int
}

// Windows are the maximum distances from the target line, tightest first.
type Windows struct {
	Perfect float64
	Good    float64
	Ok      float64
}

type Points struct {
	Perfect int
	Good    int
	Ok      int
}
