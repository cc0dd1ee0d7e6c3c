package score

import (
	"testing"

	"git.lost.host/meutraa/beatlane/internal/game"
)

var classifyTests = map[float64]game.HitResult{
	0:      game.Perfect,
	50:     game.Perfect,
	50.001: game.Good,
	100:    game.Good,
	149.9:  game.Ok,
	150:    game.Ok,
	150.1:  game.Miss,
	10000:  game.Miss,
}

func TestClassify(t *testing.T) {
	scorer := NewDefaultScorer()
	for distance, expected := range classifyTests {
		if r := scorer.Classify(distance); r != expected {
			t.Log("Distance", distance)
			t.Log("Result  ", r)
			t.Log("Expected", expected)
			t.Fail()
		}
	}
}

func TestAwardOrdering(t *testing.T) {
	scorer := NewDefaultScorer()
	p, g, o := scorer.Award(game.Perfect), scorer.Award(game.Good), scorer.Award(game.Ok)
	if !(p > g && g > o && o > 0) {
		t.Log("points must strictly decrease by tier", p, g, o)
		t.Fail()
	}
	if scorer.Award(game.Miss) != 0 {
		t.Fail()
	}
}

func TestScaledWindows(t *testing.T) {
	w := DefaultWindows().Scale(0.5)
	if w.Perfect != 25 || w.Good != 50 || w.Ok != 75 {
		t.Log("scaled", w)
		t.Fail()
	}
}
