package beatmap

import (
	"sort"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
)

// LaneTimes holds the event times of one lane in milliseconds.
type LaneTimes struct {
	Lane  int
	Times []int64
}

func compactEvents(events []game.NoteEvent) []LaneTimes {
	laneCount := 0
	for _, e := range events {
		if e.Lane >= laneCount {
			laneCount = e.Lane + 1
		}
	}
	lanes := make([]LaneTimes, laneCount)
	for i := range lanes {
		lanes[i] = LaneTimes{Lane: i, Times: []int64{}}
	}
	for _, e := range events {
		lanes[e.Lane].Times = append(lanes[e.Lane].Times, e.Time.Milliseconds())
	}
	return lanes
}

// uncompactEvents orders events by time, equal times by lane.
func uncompactEvents(lanes []LaneTimes) []game.NoteEvent {
	events := []game.NoteEvent{}
	for _, l := range lanes {
		for _, t := range l.Times {
			events = append(events, game.NoteEvent{Lane: l.Lane, Time: time.Duration(t) * time.Millisecond})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		return events[i].Lane < events[j].Lane
	})
	for i := range events {
		events[i].ID = uint64(i + 1)
	}
	return events
}
