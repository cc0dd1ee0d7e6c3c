package parser

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/beatlane/internal/game"
)

type DefaultParser struct{}

func (p *DefaultParser) getSecondsPerNote(rates []BPM, currentBeat float64, bpn float64) float64 {
	sel := 0.0
	for _, bpm := range rates {
		if currentBeat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	if sel <= 0 {
		return 0
	}
	secondsPerBeat := 60.0 / sel
	return bpn * secondsPerBeat
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func (p *DefaultParser) mapToNote(ch byte) bool {
	return ch == '1' || ch == '2' || ch == '4' || ch == 'M'
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func (p *DefaultParser) Parse(file string) ([]*Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return p.ParseReader(f)
}

func (p *DefaultParser) parseMeta(meta string) (float64, []BPM, error) {
	offset := 0.0
	bpms := []BPM{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		if strings.HasPrefix(mdl, "OFFSET:") {
			mdl = strings.TrimPrefix(mdl, "OFFSET:")
			mdl = strings.TrimSuffix(mdl, ";")
			offs, err := strconv.ParseFloat(strings.TrimSpace(mdl), 64)
			if nil != err {
				return 0, nil, fmt.Errorf("bad offset: %w", err)
			}
			offset = -offs
		} else if strings.HasPrefix(mdl, "BPMS:") {
			mdl = strings.TrimPrefix(mdl, "BPMS:")
			mdl = strings.ReplaceAll(mdl, "\n", "")
			for _, bpm := range strings.Split(strings.TrimSuffix(mdl, ";"), ",") {
				as := strings.Split(bpm, "=")
				if len(as) != 2 {
					return 0, nil, fmt.Errorf("bad bpm %q", bpm)
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return 0, nil, err
				}
				value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return 0, nil, err
				}
				bpms = append(bpms, BPM{StartingBeat: sb, Value: value})
			}
		}
	}
	return offset, bpms, nil
}

func (p *DefaultParser) ParseReader(r io.Reader) ([]*Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]
	difficulties := []game.Difficulty{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		nKeys, ok := game.NKeyMap[chartType]
		if !ok {
			continue
		}
		difficulties = append(difficulties, game.Difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Meter:   strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Section: lines[6],
			NKeys:   nKeys,
		})
	}

	offset, bpms, err := p.parseMeta(meta)
	if nil != err {
		return nil, err
	}
	if len(bpms) == 0 {
		return nil, fmt.Errorf("chart has no #BPMS")
	}

	charts := []*Chart{}
	for _, difficulty := range difficulties {
		// Start time of first note
		seconds := offset
		currentBeat := 0.0

		chart := &Chart{Notes: []Note{}, BPMs: bpms, Difficulty: difficulty}

		for _, block := range strings.Split(difficulty.Section, "\n,") {
			lines := []string{}
			for _, l := range strings.Split(block, "\n") {
				if strings.HasPrefix(l, " ") || strings.Contains(l, "-") || strings.HasPrefix(l, "//") {
					continue
				}
				l = strings.TrimSuffix(strings.TrimSpace(l), ";")
				if len(l) == int(difficulty.NKeys) {
					lines = append(lines, l)
				}
			}
			if len(lines) == 0 {
				continue
			}

			// Beat count is 4 per block
			lineCount := int64(len(lines))
			beatsPerNote := 4.0 / float64(lineCount) // 1/4, 1/8, 1/16, 1/24 etc

			// for each note line in a block
			for i, line := range lines {
				denom := big.NewRat(int64(i*4), lineCount).Denom().Int64()
				secondsPerNote := p.getSecondsPerNote(bpms, currentBeat, beatsPerNote)

				for lane := 0; lane < len(line); lane++ {
					c := line[lane]
					if p.mapToNote(c) {
						switch c {
						case 'M':
							chart.MineCount++
						case '2', '4':
							chart.HoldCount++
						default:
							chart.NoteCount++
						}
						chart.Notes = append(chart.Notes, Note{
							Lane:   lane,
							Denom:  int(denom),
							IsMine: c == 'M',
							Time:   toDuration(seconds),
						})
					} else if c == '3' {
						// The tail belongs to the last head in this lane
						for j := len(chart.Notes) - 1; j >= 0; j-- {
							if chart.Notes[j].Lane == lane && !chart.Notes[j].IsMine {
								chart.Notes[j].TimeEnd = toDuration(seconds)
								break
							}
						}
					}
				}

				seconds += secondsPerNote
				currentBeat += beatsPerNote
			}
		}

		charts = append(charts, chart)
	}

	return charts, nil
}
