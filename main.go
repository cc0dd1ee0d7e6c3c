package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"git.lost.host/meutraa/beatlane/internal/audio"
	"git.lost.host/meutraa/beatlane/internal/beatmap"
	"git.lost.host/meutraa/beatlane/internal/clock"
	"git.lost.host/meutraa/beatlane/internal/config"
	"git.lost.host/meutraa/beatlane/internal/engine"
	"git.lost.host/meutraa/beatlane/internal/feed"
	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/input"
	"git.lost.host/meutraa/beatlane/internal/render"
	"git.lost.host/meutraa/beatlane/internal/theme"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	settings, err := config.Parse(args)
	if nil != err {
		return err
	}

	logFile, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags|log.Lmicroseconds)

	keymap, err := settings.KeyMap()
	if nil != err {
		return fmt.Errorf("invalid keys: %w", err)
	}
	cfg := settings.EngineConfig(keymap.LaneCount())

	selected, err := settings.SelectedSong()
	if nil != err {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	player := audio.NewPlayer(logger, settings.Volume)
	defer player.Close()
	length, err := player.Load(ctx, selected.URL)
	loaded := nil == err
	if !loaded {
		logger.Println("unable to load audio, playing silently:", err)
	} else if selected.Duration == 0 {
		selected.Duration = length
	}

	var store *beatmap.Store
	if settings.Cache != "" {
		if store, err = beatmap.OpenStore(settings.Cache); nil != err {
			logger.Println("unable to open beatmap cache:", err)
			store = nil
		} else {
			defer store.Close()
		}
	}
	source, slow := newSource(settings, cfg, store, logger)

	opts := []engine.Option{engine.WithLogger(logger)}
	if loaded {
		opts = append(opts, engine.WithAudio(player))
	}
	e := engine.New(cfg, clock.New(nil), opts...)
	if err := e.SetLaneKeyMap(keymap); nil != err {
		return err
	}

	// Slow sources hand their beatmap over while the song already plays
	beatmaps := make(chan game.Beatmap, 1)
	if slow {
		e.LoadBeatmap(game.Beatmap{AudioDuration: length, Source: "pending"})
		go func() {
			bm, _ := source.Generate(ctx, selected)
			if bm.AudioDuration == 0 {
				bm.AudioDuration = length
			}
			beatmaps <- bm
		}()
	} else {
		bm, _ := source.Generate(ctx, selected)
		bm.AudioDuration = length
		e.LoadBeatmap(bm)
	}

	var hub *feed.Hub
	if settings.FeedAddr != "" {
		hub = feed.NewHub(feed.HubConfig{Logger: logger, Interval: 16 * time.Millisecond})
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.Handle)
		srv := &http.Server{Addr: settings.FeedAddr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); nil != err && !errors.Is(err, http.ErrServerClosed) {
				logger.Println("snapshot feed stopped:", err)
			}
		}()
		defer func() {
			hub.Close()
			srv.Close()
		}()
	}

	snapshot, err := play(ctx, cancel, settings, e, keymap, beatmaps, hub, logger)
	player.Stop()
	if nil != err && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("%v - %v\n", selected.Artist, selected.Title)
	fmt.Println(strings.Join(render.Stats(snapshot), "\n"))
	return nil
}

// newSource picks where notes come from. The second result reports whether
// generation may take long enough to run beside the game.
func newSource(settings *config.Settings, cfg engine.Config, store *beatmap.Store, logger *log.Logger) (beatmap.Source, bool) {
	procedural := beatmap.NewProcedural(cfg.Lanes, settings.MinSpacing, cfg.Lead())
	procedural.Seed = settings.Seed

	var primary beatmap.Source
	switch {
	case settings.Chart != "":
		primary = &beatmap.ChartFile{
			Path:       settings.Chart,
			Difficulty: settings.Difficulty,
			Lanes:      cfg.Lanes,
			Lead:       cfg.Lead(),
			MinSpacing: settings.MinSpacing,
		}
	case settings.Analyze:
		analyzer := beatmap.NewAnalyzer(cfg.Lanes, settings.MinSpacing, cfg.Lead())
		analyzer.Logger = logger
		primary = analyzer
	}
	if nil == primary {
		return procedural, false
	}

	if nil != store {
		primary = &beatmap.Cached{
			Source: primary,
			Store:  store,
			Key:    settings.BeatmapKey(cfg.Lanes, cfg.Lead()),
			Logger: logger,
		}
	}
	return &beatmap.Fallback{Primary: primary, Procedural: procedural, Logger: logger}, true
}

func play(
	ctx context.Context,
	cancel context.CancelFunc,
	settings *config.Settings,
	e *engine.Engine,
	keymap game.LaneKeyMap,
	beatmaps <-chan game.Beatmap,
	hub *feed.Hub,
	logger *log.Logger,
) (game.Snapshot, error) {
	// Ensure our Default implementations are used as interfaces
	var r render.Renderer = &render.DefaultRenderer{
		Out:      os.Stdout,
		Fd:       int(os.Stdout.Fd()),
		Theme:    &theme.DefaultTheme{},
		Labels:   settings.Labels(keymap),
		Viewport: settings.Viewport,
		TargetY:  e.Config().TargetY,
	}
	var keySource input.Source = &input.Terminal{Hold: settings.Hold, Logger: logger}
	if settings.Device != "" {
		keySource = &input.Device{Path: settings.Device, Logger: logger}
	}

	if err := r.Init(); nil != err {
		return game.Snapshot{}, fmt.Errorf("unable to prepare terminal: %w", err)
	}
	defer func() {
		if err := r.Deinit(); nil != err {
			logger.Println("unable to restore terminal:", err)
		}
	}()

	keys := make(chan game.KeyEvent, 64)
	go func() {
		err := keySource.Run(ctx, keys)
		if errors.Is(err, input.ErrQuit) {
			cancel()
		} else if nil != err && nil == ctx.Err() {
			logger.Println("key input stopped:", err)
			cancel()
		}
	}()

	ticker := time.NewTicker(settings.FramePeriod)
	defer ticker.Stop()

	if err := e.StartGame(); nil != err {
		return game.Snapshot{}, err
	}

	var last game.Snapshot
	runner := &engine.Runner{
		Engine:   e,
		Frames:   ticker.C,
		Keys:     keys,
		Beatmaps: beatmaps,
		OnFrame: func(s game.Snapshot) {
			last = s
			r.Draw(s)
			if nil != hub {
				hub.Publish(s)
			}
		},
	}
	err := runner.Run(ctx)
	if nil != err {
		last = e.Snapshot()
	}
	return last, err
}
