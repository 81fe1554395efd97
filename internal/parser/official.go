package parser

import (
	"encoding/json"
	"math"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// Official times count 1/32 beats of the line's own bpm
	officialTicksPerBeat = 32

	officialNegInfTick = -999999
	officialPosInfTick = 1e9

	// Version 1 packs both coordinates into one number
	officialV1Width  = 880
	officialV1Height = 520
)

type officialChart struct {
	FormatVersion int            `json:"formatVersion"`
	Offset        float64        `json:"offset"`
	JudgeLineList []officialLine `json:"judgeLineList"`
}

type officialLine struct {
	Bpm                      float64              `json:"bpm"`
	NotesAbove               []officialNote       `json:"notesAbove"`
	NotesBelow               []officialNote       `json:"notesBelow"`
	SpeedEvents              []officialSpeedEvent `json:"speedEvents"`
	JudgeLineMoveEvents      []officialEvent      `json:"judgeLineMoveEvents"`
	JudgeLineRotateEvents    []officialEvent      `json:"judgeLineRotateEvents"`
	JudgeLineDisappearEvents []officialEvent      `json:"judgeLineDisappearEvents"`
}

type officialNote struct {
	Type          int     `json:"type"`
	Time          float64 `json:"time"`
	PositionX     float64 `json:"positionX"`
	HoldTime      float64 `json:"holdTime"`
	Speed         float64 `json:"speed"`
	FloorPosition float64 `json:"floorPosition"`
}

type officialEvent struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Start2    float64 `json:"start2"`
	End2      float64 `json:"end2"`
}

type officialSpeedEvent struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Value     float64 `json:"value"`
}

var officialNoteTypes = map[int]game.NoteType{
	1: game.Tap,
	2: game.Drag,
	3: game.Hold,
	4: game.Flick,
}

// OfficialParser reads the hierarchical, versioned JSON format.
type OfficialParser struct{}

func (p *OfficialParser) Format() game.Format {
	return game.FormatOfficial
}

func (p *OfficialParser) Sniff(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	res := gjson.GetManyBytes(raw, "formatVersion", "judgeLineList")
	return res[0].Exists() && res[1].IsArray()
}

func officialBeat(tick float64) float64 {
	switch {
	case tick <= officialNegInfTick:
		return math.Inf(-1)
	case tick >= officialPosInfTick:
		return math.Inf(1)
	}
	return tick / officialTicksPerBeat
}

func officialPosition(version int, start, start2 float64) (float64, float64) {
	if version == 1 {
		x := math.Floor(start/1000) / officialV1Width
		y := math.Mod(start, 1000) / officialV1Height
		return x*2 - 1, y*2 - 1
	}
	return start*2 - 1, start2*2 - 1
}

func (p *OfficialParser) Parse(raw []byte) (*RawChart, Diagnostics, error) {
	var src officialChart
	if err := json.Unmarshal(raw, &src); nil != err {
		return nil, nil, errors.Wrap(ErrMalformedInput, err.Error())
	}
	if src.FormatVersion != 1 && src.FormatVersion != 3 {
		return nil, nil, errors.Wrapf(ErrMalformedInput, "unknown official format version %d", src.FormatVersion)
	}

	var diags Diagnostics
	chart := &RawChart{
		Format:   game.FormatOfficial,
		OffsetMs: src.Offset * 1000,
	}

	record := 0
	for li, line := range src.JudgeLineList {
		layer := &RawLayer{}
		chart.Lines = append(chart.Lines, &RawLine{
			Tempo:     []timeline.TempoEntry{{StartBeat: 0, Bpm: line.Bpm}},
			BpmFactor: 1,
			Layers:    []*RawLayer{layer},
		})

		for _, e := range line.SpeedEvents {
			layer.Add(TrackSpeed, RawEvent{Event: game.Event{
				StartTime:  officialBeat(e.StartTime),
				EndTime:    officialBeat(e.EndTime),
				StartValue: e.Value,
				EndValue:   e.Value,
			}})
		}
		for _, e := range line.JudgeLineMoveEvents {
			sx, sy := officialPosition(src.FormatVersion, e.Start, e.Start2)
			ex, ey := officialPosition(src.FormatVersion, e.End, e.End2)
			start, end := officialBeat(e.StartTime), officialBeat(e.EndTime)
			layer.Add(TrackMoveX, RawEvent{Event: game.Event{StartTime: start, EndTime: end, StartValue: sx, EndValue: ex}})
			layer.Add(TrackMoveY, RawEvent{Event: game.Event{StartTime: start, EndTime: end, StartValue: sy, EndValue: ey}})
		}
		for _, e := range line.JudgeLineRotateEvents {
			layer.Add(TrackRotate, RawEvent{Event: game.Event{
				StartTime:  officialBeat(e.StartTime),
				EndTime:    officialBeat(e.EndTime),
				StartValue: e.Start,
				EndValue:   e.End,
			}})
		}
		for _, e := range line.JudgeLineDisappearEvents {
			layer.Add(TrackAlpha, RawEvent{Event: game.Event{
				StartTime:  officialBeat(e.StartTime),
				EndTime:    officialBeat(e.EndTime),
				StartValue: e.Start,
				EndValue:   e.End,
			}})
		}

		addNotes := func(notes []officialNote, above bool) {
			for _, n := range notes {
				record++
				t, ok := officialNoteTypes[n.Type]
				if !ok {
					diags.add(record, errors.Wrapf(ErrMalformedInput, "line %d: note type %d", li, n.Type))
					continue
				}
				note := RawNote{
					Record:    record,
					Line:      li,
					Type:      t,
					Above:     above,
					Beat:      n.Time / officialTicksPerBeat,
					Speed:     n.Speed,
					PositionX: n.PositionX,
					ScaleX:    1,
				}
				if t == game.Hold {
					note.EndBeat = (n.Time + n.HoldTime) / officialTicksPerBeat
				}
				chart.Notes = append(chart.Notes, note)
			}
		}
		addNotes(line.NotesAbove, true)
		addNotes(line.NotesBelow, false)
	}
	return chart, diags, nil
}
