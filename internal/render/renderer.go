package render

import (
	"image/color"

	"git.lost.host/meutraa/beatlane/internal/game"
)

type Renderer interface {
	Init() error
	Deinit() error
	Draw(s game.Snapshot)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
}
