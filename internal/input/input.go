package input

import (
	"context"
	"errors"

	"git.lost.host/meutraa/beatlane/internal/game"
)

var (
	// ErrQuit is returned by a Source when the player asked to leave.
	ErrQuit       = errors.New("quit requested")
	ErrUnknownKey = errors.New("unknown key")
)

// Source delivers key edges until ctx is done or the player quits.
type Source interface {
	Run(ctx context.Context, events chan<- game.KeyEvent) error
}
