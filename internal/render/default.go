package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/theme"
)

// DefaultRenderer draws snapshots to an ANSI terminal. The playing field
// covers Viewport pixels of note positions, the rest of the screen holds
// the score.
type DefaultRenderer struct {
	Out      io.Writer
	Fd       int // Terminal put into raw mode, negative for none
	Theme    theme.Theme
	Labels   []string // Key names per lane
	Viewport float64
	TargetY  float64
	Spacing  int // Columns between lanes

	Rows, Cols int // Screen size, read from the terminal when zero

	buffer       strings.Builder
	restoreState *term.State
}

func (r *DefaultRenderer) Init() error {
	if r.Fd >= 0 {
		state, err := term.MakeRaw(r.Fd)
		if nil != err {
			return err
		}
		r.restoreState = state

		if r.Cols == 0 || r.Rows == 0 {
			cols, rows, err := term.GetSize(r.Fd)
			if nil != err {
				return fmt.Errorf("unable to get terminal size: %w", err)
			}
			r.Cols, r.Rows = cols, rows
		}
	}

	fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.Fd, r.restoreState)
}

// Rows between the status line and the key labels.
func (r *DefaultRenderer) field() (top, bottom int) {
	return 3, r.Rows - 2
}

// Row maps a note position to a screen row.
func (r *DefaultRenderer) Row(y float64) int {
	top, bottom := r.field()
	if r.Viewport <= 0 {
		return top
	}
	return top + int(math.Round(y/r.Viewport*float64(bottom-top)))
}

// Column is the centre of a lane.
func (r *DefaultRenderer) Column(lane, lanes int) int {
	spacing := r.Spacing
	if spacing <= 0 {
		spacing = 10
	}
	return r.Cols/2 - spacing*(lanes-1)/2 + lane*spacing
}

func (r *DefaultRenderer) lanes(s game.Snapshot) int {
	n := len(r.Labels)
	if len(s.Pressed) > n {
		n = len(s.Pressed)
	}
	return n
}

func (r *DefaultRenderer) Draw(s game.Snapshot) {
	top, bottom := r.field()
	lanes := r.lanes(s)
	target := r.Row(r.TargetY)

	for row := top; row <= bottom; row++ {
		r.Fill(row, 1, "\033[2K")
	}

	for lane := 0; lane < lanes; lane++ {
		col := r.Column(lane, lanes)
		pressed := lane < len(s.Pressed) && s.Pressed[lane]
		r.Fill(target, col-1, r.Theme.RenderTarget(lane, pressed)+r.Theme.RenderTarget(lane, pressed)+r.Theme.RenderTarget(lane, pressed))
		if lane < len(r.Labels) {
			r.Fill(bottom+1, col, r.Labels[lane])
		}
	}

	for _, n := range s.Notes {
		row := r.Row(n.Y)
		if n.Fading || row < top || row > bottom {
			continue
		}
		r.Fill(row, r.Column(n.Lane, lanes), r.Theme.RenderNote(n.Lane))
	}

	for _, f := range s.Feedback {
		text := r.Theme.RenderFeedback(f.Result)
		r.Fill(target-2, r.Column(f.Lane, lanes)-4, text)
	}

	side := r.Column(lanes-1, lanes) + 8
	r.Fill(1, 1, "\033[2K")
	r.Fill(1, 2, fmt.Sprintf("%v", s.SongTime.Truncate(100*time.Millisecond)))
	for i, line := range Stats(s) {
		r.Fill(top+1+i, side, "\033[K"+line)
	}

	r.flush()
}

// Stats are the score lines shown beside the field and after the song.
func Stats(s game.Snapshot) []string {
	lines := []string{
		fmt.Sprintf("   Score:  %6v", s.Score),
		fmt.Sprintf("   Combo:  %6v", s.Combo),
		fmt.Sprintf("Max combo:  %5v", s.BiggestCombo),
		fmt.Sprintf("    Hits:  %6v / %v", s.HitNotes, s.TotalNotes),
	}
	for r := game.Perfect; r < game.ResultCount; r++ {
		lines = append(lines, fmt.Sprintf("%8v:  %6v", r, s.Counts[r]))
	}
	return append(lines, fmt.Sprintf(" Expired:  %6v", s.Expired))
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c color.RGBA, message string) {
	r.Fill(row, column, theme.Colorize(c, message))
}

func (r *DefaultRenderer) flush() {
	io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
}
