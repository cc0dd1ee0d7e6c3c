package theme

import (
	"image/color"

	"git.lost.host/meutraa/beatlane/internal/game"
)

type Theme interface {
	RenderNote(lane int) string
	RenderTarget(lane int, pressed bool) string
	RenderFeedback(result game.HitResult) string
	LaneColor(lane int) color.RGBA
}
