package parser

import (
	"math"
	"sort"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
	"github.com/pkg/errors"
)

type BuildOptions struct {
	Granularity float64 // beats per sampled easing segment
	Precision   float64 // value quantum for sampled easings, 0 to disable
}

func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Granularity: timeline.DefaultGranularity}
}

// Build runs the shared synthesis pipeline over a parsed chart. Tempo
// errors abort the build; bad notes are skipped and reported.
func Build(raw *RawChart, opts BuildOptions) (*game.Chart, Diagnostics, error) {
	var diags Diagnostics

	var chartTempo *timeline.TempoMap
	if len(raw.Tempo) > 0 {
		m, err := timeline.BuildTempoMap(raw.Tempo)
		if nil != err {
			return nil, nil, err
		}
		chartTempo = m
	}

	chart := &game.Chart{Format: raw.Format, OffsetMs: raw.OffsetMs}
	tempos := make([]*timeline.TempoMap, len(raw.Lines))
	for i, rl := range raw.Lines {
		tempo := chartTempo
		if rl.Tempo != nil {
			m, err := timeline.BuildTempoMap(rl.Tempo)
			if nil != err {
				return nil, nil, errors.Wrapf(err, "line %d", i)
			}
			tempo = m
		}
		if tempo == nil {
			return nil, nil, errors.Wrapf(timeline.ErrInvalidTempoData, "line %d has no bpm table", i)
		}
		factor := rl.BpmFactor
		if factor == 0 {
			factor = 1
		}
		tempo, err := tempo.Scaled(factor)
		if nil != err {
			return nil, nil, errors.Wrapf(err, "line %d", i)
		}
		tempos[i] = tempo
		chart.Lines = append(chart.Lines, buildLine(i, rl, tempo, raw.OffsetMs, opts))
	}

	toMs := func(tempo *timeline.TempoMap, beat float64) float64 {
		return tempo.ToTimeMs(beat) + raw.OffsetMs
	}
	for _, rn := range raw.Notes {
		if rn.Line < 0 || rn.Line >= len(chart.Lines) {
			diags.add(rn.Record, errors.Wrapf(ErrUnresolvedLineReference, "line %d", rn.Line))
			continue
		}
		if math.IsNaN(rn.Beat) || math.IsInf(rn.Beat, 0) {
			diags.add(rn.Record, errors.Wrapf(ErrMalformedInput, "note beat %v", rn.Beat))
			continue
		}
		line, tempo := chart.Lines[rn.Line], tempos[rn.Line]
		note := &game.Note{
			Line:      rn.Line,
			Type:      rn.Type,
			Above:     rn.Above,
			Time:      toMs(tempo, rn.Beat),
			Speed:     rn.Speed,
			PositionX: rn.PositionX,
			ScaleX:    rn.ScaleX,
			Fake:      rn.Fake,
		}
		note.FloorPosition = timeline.FloorAt(line.Speed, line.Floor, note.Time)
		if rn.Type == game.Hold {
			if math.IsNaN(rn.EndBeat) || math.IsInf(rn.EndBeat, 0) || rn.EndBeat < rn.Beat {
				diags.add(rn.Record, errors.Wrapf(ErrMalformedInput, "hold ends at beat %v before it starts at %v", rn.EndBeat, rn.Beat))
				continue
			}
			note.HoldTime = toMs(tempo, rn.EndBeat) - note.Time
			note.HoldFloor = timeline.FloorAt(line.Speed, line.Floor, note.EndTime()) - note.FloorPosition
		}
		chart.Notes = append(chart.Notes, note)
	}

	finishNotes(chart)
	logger.Info("chart built",
		logger.Stringer("format", chart.Format),
		logger.Int("lines", len(chart.Lines)),
		logger.Int("notes", chart.NoteCount),
		logger.Float64("duration_ms", chart.DurationMs),
		logger.Int("skipped", len(diags)),
	)
	return chart, diags, nil
}

func buildLine(id int, rl *RawLine, tempo *timeline.TempoMap, offsetMs float64, opts BuildOptions) *game.JudgeLine {
	line := &game.JudgeLine{ID: id, Name: rl.Name}
	layers := rl.Layers
	if len(layers) == 0 {
		layers = []*RawLayer{{}}
	}

	var speeds []game.EventTrack
	for _, rawLayer := range layers {
		var tracks [trackCount]game.EventTrack
		for track := Track(0); track < trackCount; track++ {
			var events []game.Event
			for _, re := range rawLayer[track] {
				for _, e := range timeline.Sample(re.StartTime, re.EndTime, re.StartValue, re.EndValue, re.Curve, opts.Granularity, opts.Precision) {
					e.StartTime = tempo.ToTimeMs(e.StartTime) + offsetMs
					e.EndTime = tempo.ToTimeMs(e.EndTime) + offsetMs
					events = append(events, e)
				}
			}
			tracks[track] = timeline.Synthesize(events)
		}
		line.Layers = append(line.Layers, game.EventLayer{
			Speed:  tracks[TrackSpeed],
			MoveX:  tracks[TrackMoveX],
			MoveY:  tracks[TrackMoveY],
			Rotate: tracks[TrackRotate],
			Alpha:  tracks[TrackAlpha],
		})
		speeds = append(speeds, tracks[TrackSpeed])
	}
	line.Speed = timeline.Sum(speeds...)
	line.Floor = timeline.Integrate(line.Speed)
	return line
}

// finishNotes sorts notes by time, numbers them and flags notes that share
// a rounded millisecond with another judgeable note.
func finishNotes(chart *game.Chart) {
	sort.SliceStable(chart.Notes, func(i, j int) bool { return chart.Notes[i].Time < chart.Notes[j].Time })

	counts := map[float64]int{}
	for _, n := range chart.Notes {
		if !n.Fake {
			counts[math.Round(n.Time)]++
		}
	}
	for i, n := range chart.Notes {
		n.ID = i
		if n.EndTime() > chart.DurationMs {
			chart.DurationMs = n.EndTime()
		}
		if n.Fake {
			continue
		}
		n.Simultaneous = counts[math.Round(n.Time)] > 1
		chart.NoteCount++
		if n.Type == game.Hold {
			chart.HoldCount++
		}
	}
}
