package beatmap

import (
	"context"
	"log"

	"git.lost.host/meutraa/beatlane/internal/game"
	"git.lost.host/meutraa/beatlane/internal/song"
)

const defaultLanes = 4

// Fallback never fails: when the primary source errors or yields nothing
// the procedural beatmap for the song's BPM is used instead, a four lane
// one when Procedural is nil.
type Fallback struct {
	Primary    Source
	Procedural *Procedural
	Logger     *log.Logger
}

func (f *Fallback) Generate(ctx context.Context, s song.Song) (game.Beatmap, error) {
	logger := f.Logger
	if nil == logger {
		logger = log.Default()
	}

	if nil != f.Primary {
		bm, err := f.Primary.Generate(ctx, s)
		if nil == err && len(bm.Events) > 0 {
			return bm, nil
		}
		if nil != err {
			logger.Printf("beatmap for %v failed, using procedural: %v", s.ID, err)
		} else {
			logger.Printf("beatmap for %v is empty, using procedural", s.ID)
		}
	}

	procedural := f.Procedural
	if nil == procedural {
		procedural = NewProcedural(defaultLanes, 0, 0)
	}
	// Procedural generation only depends on the song, it cannot fail
	bm, _ := procedural.Generate(ctx, s)
	return bm, nil
}
