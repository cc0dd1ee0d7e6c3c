package theme

import (
	"fmt"
	"image/color"
	"strings"

	"git.lost.host/meutraa/beatlane/internal/game"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderNote(lane int) string {
	return Colorize(t.LaneColor(lane), noteSym)
}

func (t *DefaultTheme) RenderTarget(lane int, pressed bool) string {
	if pressed {
		return Colorize(t.LaneColor(lane), pressedSym)
	}
	return Colorize(t.LaneColor(lane), targetSym)
}

func (t *DefaultTheme) RenderFeedback(result game.HitResult) string {
	col, ok := resultColors[result]
	if !ok {
		col = white
	}
	return "\033[1m" + Colorize(col, strings.ToUpper(result.String())+"!")
}

func (t *DefaultTheme) LaneColor(lane int) color.RGBA {
	if lane < 0 {
		return white
	}
	return laneColors[lane%len(laneColors)]
}

// Colorize wraps s in a 24 bit foreground colour.
func Colorize(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

const (
	noteSym    = "⬤"
	targetSym  = "─"
	pressedSym = "━"
)

var (
	white      = color.RGBA{255, 255, 255, 255}
	laneColors = [...]color.RGBA{
		{236, 30, 0, 255},   // red
		{0, 118, 236, 255},  // blue
		{106, 0, 236, 255},  // purple
		{59, 130, 246, 255}, // light blue
	}
	resultColors = map[game.HitResult]color.RGBA{
		game.Perfect: {250, 204, 21, 255}, // yellow
		game.Good:    {74, 222, 128, 255}, // green
		game.Ok:      {96, 165, 250, 255}, // blue
		game.Miss:    {239, 68, 68, 255},  // red
	}
)
