package song

import (
	"fmt"
	"time"
)

type Song struct {
	ID       string
	Title    string
	Artist   string
	URL      string // Local path or http(s) url of the audio
	BPM      float64
	Duration time.Duration // Zero when only the audio knows
}

const DefaultID = "feel-the-rhythm"

var Catalog = []Song{
	{
		ID:       DefaultID,
		Title:    "Feel The Rhythm",
		Artist:   "Alex Smith",
		URL:      "https://cdn.pixabay.com/download/audio/2022/11/21/audio_a1bf391054.mp3",
		BPM:      128,
		Duration: time.Minute,
	},
	{ID: "death", Title: "DEATH", Artist: "Unknown Artist", URL: "songs/01 DEATH.mp3", BPM: 128},
	{ID: "all-the-places", Title: "All The Places", Artist: "Unknown Artist", URL: "songs/02. All The Places.mp3", BPM: 128},
	{ID: "pop-it-in", Title: "Pop It In", Artist: "Unknown Artist", URL: "songs/12 Pop It In (2).mp3", BPM: 128},
}

func Find(id string) (Song, error) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, nil
		}
	}
	return Song{}, fmt.Errorf("unknown song %q", id)
}
