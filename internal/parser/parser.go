package parser

import (
	"io"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
)

type Parser interface {
	Parse(file string) ([]*Chart, error)
	ParseReader(r io.Reader) ([]*Chart, error)
}

type BPM struct {
	StartingBeat float64
	Value        float64
}

// Note is one playable step of a chart.
type Note struct {
	Lane    int
	Denom   int // The beat length, as a denominator, 4 = 1/4 beat
	IsMine  bool
	Time    time.Duration // The time the note should be hit
	TimeEnd time.Duration // The end of a hold, zero for taps
}

type Chart struct {
	Notes      []Note
	NoteCount  int
	HoldCount  int
	MineCount  int
	BPMs       []BPM
	Difficulty game.Difficulty
}
