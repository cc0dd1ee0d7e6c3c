package beatmap

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/song"
)

// Store caches generated beatmaps, so a song is analysed only once.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, err
	}

	initStatement := `
	create table if not exists beatmaps
	  (
		  id integer not null primary key,
		  sum text not null unique,
		  source text,
		  bpm real,
		  audio_ms integer,
		  events blob
	  );
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create beatmap table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Sum identifies a beatmap by everything that influenced its generation.
func Sum(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (s *Store) Save(sum string, bm game.Beatmap) error {
	data, err := json.Marshal(compactEvents(bm.Events))
	if nil != err {
		return fmt.Errorf("unable to marshal events: %w", err)
	}
	_, err = s.db.Exec(
		"insert or replace into beatmaps(sum, source, bpm, audio_ms, events) values(?, ?, ?, ?, ?)",
		sum, bm.Source, bm.BPM, bm.AudioDuration.Milliseconds(), data,
	)
	return err
}

func (s *Store) Load(sum string) (game.Beatmap, bool, error) {
	var (
		bm      game.Beatmap
		audioMs int64
		data    []byte
	)
	err := s.db.QueryRow("select source, bpm, audio_ms, events from beatmaps where sum = ?", sum).
		Scan(&bm.Source, &bm.BPM, &audioMs, &data)
	if err == sql.ErrNoRows {
		return game.Beatmap{}, false, nil
	}
	if nil != err {
		return game.Beatmap{}, false, err
	}

	var lanes []LaneTimes
	if err := json.Unmarshal(data, &lanes); nil != err {
		return game.Beatmap{}, false, fmt.Errorf("unable to unmarshal events: %w", err)
	}
	bm.Events = uncompactEvents(lanes)
	bm.AudioDuration = time.Duration(audioMs) * time.Millisecond
	return bm, true, nil
}

// Cached serves beatmaps from the store and saves what Source generates.
type Cached struct {
	Source Source
	Store  *Store
	Key    string // Generation parameters that change the result
	Logger *log.Logger
}

func (c *Cached) Generate(ctx context.Context, s song.Song) (game.Beatmap, error) {
	logger := c.Logger
	if nil == logger {
		logger = log.Default()
	}

	sum := Sum(s.ID, s.URL, c.Key)
	bm, ok, err := c.Store.Load(sum)
	if nil != err {
		logger.Println("unable to load cached beatmap:", err)
	} else if ok {
		bm.Source += " (cached)"
		return bm, nil
	}

	bm, err = c.Source.Generate(ctx, s)
	if nil != err {
		return bm, err
	}
	if err := c.Store.Save(sum, bm); nil != err {
		logger.Println("unable to cache beatmap:", err)
	}
	return bm, nil
}
