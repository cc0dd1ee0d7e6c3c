package engine

import (
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
)

// Tick advances the session to the current clock time. It is called once
// per display frame and does nothing once the session has ended.
func (e *Engine) Tick() {
	if !e.session.Playing {
		return
	}

	t0 := e.session.SongTime
	t1 := e.clock.SongTime()
	if t1 < t0 {
		t1 = t0
	}

	e.spawn(t0, t1)
	e.advance(t1)
	e.expire()
	e.collectFeedback(t1)
	e.collectFaded(t1)
	e.session.SongTime = t1

	if e.duration > 0 && t1 >= e.duration {
		e.session.Playing = false
		e.logger.Printf("song ended at %v, score %v, %v/%v notes, best combo %v",
			t1, e.session.Score, e.session.HitNotes, e.session.TotalNotes, e.session.BiggestCombo)
	}
}

// Events due in [t0, t1) become active notes.
func (e *Engine) spawn(t0, t1 time.Duration) {
	events := e.beatmap.Events
	for ; e.next < len(events) && events[e.next].Time < t1; e.next++ {
		if events[e.next].Time < t0 {
			continue
		}
		e.session.Notes = append(e.session.Notes, &game.ActiveNote{NoteEvent: events[e.next]})
		e.spawned++
	}
}

func (e *Engine) advance(t1 time.Duration) {
	for _, note := range e.session.Notes {
		y := game.Position(note.Time, t1, e.cfg.NoteSpeed)
		if y > note.Y {
			note.Y = y
		}
	}
}

// Notes past the miss threshold leave the field, unhit ones break the combo.
func (e *Engine) expire() {
	threshold := e.cfg.MissThreshold()
	kept := e.session.Notes[:0]
	for _, note := range e.session.Notes {
		if note.Y <= threshold {
			kept = append(kept, note)
			continue
		}
		if note.Fading {
			continue
		}
		e.session.Combo = 0
		e.session.Expired++
		if nil != e.audio {
			e.audio.Miss(note.Lane)
		}
	}
	e.clear(kept)
}

func (e *Engine) collectFeedback(t1 time.Duration) {
	kept := e.session.Feedback[:0]
	for _, f := range e.session.Feedback {
		if t1-f.At < e.cfg.FeedbackLifetime {
			kept = append(kept, f)
		}
	}
	e.session.Feedback = kept
}

func (e *Engine) collectFaded(t1 time.Duration) {
	kept := e.session.Notes[:0]
	for _, note := range e.session.Notes {
		if note.Fading && t1-note.HitAt >= e.cfg.FadeDelay {
			continue
		}
		kept = append(kept, note)
	}
	e.clear(kept)
}

// clear drops references left behind in the tail of the note slice.
func (e *Engine) clear(kept []*game.ActiveNote) {
	for i := len(kept); i < len(e.session.Notes); i++ {
		e.session.Notes[i] = nil
	}
	e.session.Notes = kept
}
