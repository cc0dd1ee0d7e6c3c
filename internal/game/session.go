package game

import (
	"time"
)

// Session is the authoritative record of a running game. Only the engine
// mutates it, renderers read a Snapshot.
type Session struct {
	Notes        []*ActiveNote // Ordered by note time
	Score        int
	Combo        int
	BiggestCombo int
	TotalNotes   int
	HitNotes     int
	SongTime     time.Duration
	Playing      bool
	Feedback     []HitFeedback // At most one per lane

	Counts  [ResultCount]int // Judged presses per result
	Expired int              // Notes that scrolled past unhit
}

// Reset returns the session to its initial values.
func (s *Session) Reset(totalNotes int) {
	*s = Session{
		Notes:      []*ActiveNote{},
		TotalNotes: totalNotes,
		Feedback:   []HitFeedback{},
	}
}

// SetFeedback stores f, replacing the feedback of the same lane.
func (s *Session) SetFeedback(f HitFeedback) {
	for i := range s.Feedback {
		if s.Feedback[i].Lane == f.Lane {
			s.Feedback[i] = f
			return
		}
	}
	s.Feedback = append(s.Feedback, f)
}

type Snapshot struct {
	Notes        []ActiveNote     `json:"notes"`
	Score        int              `json:"score"`
	Combo        int              `json:"combo"`
	BiggestCombo int              `json:"biggestCombo"`
	TotalNotes   int              `json:"totalNotes"`
	HitNotes     int              `json:"hitNotes"`
	SongTime     time.Duration    `json:"songTime"`
	Playing      bool             `json:"isPlaying"`
	Feedback     []HitFeedback    `json:"feedback"`
	Counts       [ResultCount]int `json:"counts"`
	Expired      int              `json:"expired"`
	Pressed      []bool           `json:"pressed"` // Lanes with enough keys held
}

// Snapshot copies the session so it can be read while the session moves on.
func (s *Session) Snapshot() Snapshot {
	notes := make([]ActiveNote, len(s.Notes))
	for i, n := range s.Notes {
		notes[i] = *n
	}
	feedback := make([]HitFeedback, len(s.Feedback))
	copy(feedback, s.Feedback)
	return Snapshot{
		Notes:        notes,
		Score:        s.Score,
		Combo:        s.Combo,
		BiggestCombo: s.BiggestCombo,
		TotalNotes:   s.TotalNotes,
		HitNotes:     s.HitNotes,
		SongTime:     s.SongTime,
		Playing:      s.Playing,
		Feedback:     feedback,
		Counts:       s.Counts,
		Expired:      s.Expired,
	}
}

func (s Snapshot) NotesInLane(lane int) []ActiveNote {
	notes := []ActiveNote{}
	for _, n := range s.Notes {
		if n.Lane == lane {
			notes = append(notes, n)
		}
	}
	return notes
}

func (s Snapshot) FeedbackInLane(lane int) []HitFeedback {
	feedback := []HitFeedback{}
	for _, f := range s.Feedback {
		if f.Lane == lane {
			feedback = append(feedback, f)
		}
	}
	return feedback
}
