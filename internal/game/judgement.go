package game

import (
	"time"
)

type HitResult uint8

const (
	Perfect HitResult = iota
	Good
	Ok
	Miss
)

// ResultCount is the number of HitResult values, useful for count arrays.
const ResultCount = 4

var resultNames = [...]string{"perfect", "good", "ok", "miss"}

func (r HitResult) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "unknown"
}

func (r HitResult) IsHit() bool {
	return r != Miss
}

func (r HitResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// HitFeedback is shown for a short time after every judged press.
type HitFeedback struct {
	ID     uint64        `json:"id"`
	Lane   int           `json:"lane"`
	Result HitResult     `json:"result"`
	At     time.Duration `json:"at"` // Song time the feedback was created
}
