package engine

import (
	"git.lost.host/meutraa/beatlane/internal/game"
)

func (e *Engine) Handle(ev game.KeyEvent) {
	if ev.Pressed {
		e.KeyDown(ev.Key)
	} else {
		e.KeyUp(ev.Key)
	}
}

// KeyDown judges a lane when the press completes its activation. Repeated
// presses of a held key, unmapped keys and presses outside a session are
// ignored.
func (e *Engine) KeyDown(key string) {
	if !e.session.Playing {
		return
	}
	key = game.NormalizeKey(key)
	lane, ok := e.keymap.Lane(key)
	if !ok || e.held[key] {
		return
	}
	e.held[key] = true
	e.record(key, true)

	wasActive := e.active[lane]
	e.active[lane] = e.keymap.Active(lane, e.held)
	if wasActive || !e.active[lane] {
		return
	}
	e.judge(lane)
}

// KeyUp only releases the key, it never affects the score.
func (e *Engine) KeyUp(key string) {
	if !e.session.Playing {
		return
	}
	key = game.NormalizeKey(key)
	lane, ok := e.keymap.Lane(key)
	if !ok || !e.held[key] {
		return
	}
	delete(e.held, key)
	e.record(key, false)
	e.active[lane] = e.keymap.Active(lane, e.held)
}

func (e *Engine) record(key string, pressed bool) {
	e.inputs = append(e.inputs, game.Input{
		KeyEvent: game.KeyEvent{Key: key, Pressed: pressed},
		Time:     e.clock.SongTime(),
	})
}

// judge resolves at most one note, the one closest to the target line.
func (e *Engine) judge(lane int) {
	now := e.clock.SongTime()
	note, distance := e.scorer.Nearest(e.session.Notes, lane, e.cfg.TargetY)

	result := game.Miss
	if nil != note {
		result = e.scorer.Classify(distance)
	}

	e.seq++
	e.session.SetFeedback(game.HitFeedback{ID: e.seq, Lane: lane, Result: result, At: now})
	e.session.Counts[result]++

	if !result.IsHit() {
		e.session.Combo = 0
		return
	}

	e.session.Score += e.scorer.Award(result)
	e.session.Combo++
	if e.session.Combo > e.session.BiggestCombo {
		e.session.BiggestCombo = e.session.Combo
	}
	e.session.HitNotes++
	note.Fading = true
	note.HitAt = now
}
