package parser

import (
	"encoding/json"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	rpeHalfWidth  = 675
	rpeHalfHeight = 450
	rpeAlphaScale = 255
	rpeSpeedScale = 11.0 / 45.0
	// Note positions are in stage pixels of a 1350 wide stage
	rpeNoteUnit = 1350 * noteUnitRatio
)

// noteUnitRatio is the stage width fraction of one lateral note unit.
const noteUnitRatio = 0.05625

// rpeBeat is the [bar, numerator, denominator] triple.
type rpeBeat []float64

func (b rpeBeat) Value() float64 {
	switch len(b) {
	case 0:
		return 0
	case 1, 2:
		return b[0]
	}
	if b[2] == 0 {
		return b[0]
	}
	return b[0] + b[1]/b[2]
}

type rpeChart struct {
	Meta          rpeMeta   `json:"META"`
	BPMList       []rpeBpm  `json:"BPMList"`
	JudgeLineList []rpeLine `json:"judgeLineList"`
}

type rpeMeta struct {
	Offset     float64 `json:"offset"`
	RPEVersion int     `json:"RPEVersion"`
	Name       string  `json:"name"`
}

type rpeBpm struct {
	Bpm       float64 `json:"bpm"`
	StartTime rpeBeat `json:"startTime"`
}

type rpeLine struct {
	Name        string      `json:"Name"`
	BpmFactor   float64     `json:"bpmfactor"`
	EventLayers []*rpeLayer `json:"eventLayers"`
	Notes       []rpeNote   `json:"notes"`
}

type rpeLayer struct {
	SpeedEvents  []rpeEvent `json:"speedEvents"`
	MoveXEvents  []rpeEvent `json:"moveXEvents"`
	MoveYEvents  []rpeEvent `json:"moveYEvents"`
	RotateEvents []rpeEvent `json:"rotateEvents"`
	AlphaEvents  []rpeEvent `json:"alphaEvents"`
}

type rpeEvent struct {
	StartTime    rpeBeat   `json:"startTime"`
	EndTime      rpeBeat   `json:"endTime"`
	Start        float64   `json:"start"`
	End          float64   `json:"end"`
	EasingType   int       `json:"easingType"`
	EasingLeft   float64   `json:"easingLeft"`
	EasingRight  *float64  `json:"easingRight"`
	Bezier       int       `json:"bezier"`
	BezierPoints []float64 `json:"bezierPoints"`
}

type rpeNote struct {
	Type      int      `json:"type"`
	StartTime rpeBeat  `json:"startTime"`
	EndTime   rpeBeat  `json:"endTime"`
	PositionX float64  `json:"positionX"`
	Above     int      `json:"above"`
	IsFake    int      `json:"isFake"`
	Speed     *float64 `json:"speed"`
	Size      *float64 `json:"size"`
}

var rpeNoteTypes = map[int]game.NoteType{
	1: game.Tap,
	2: game.Hold,
	3: game.Flick,
	4: game.Drag,
}

func (e rpeEvent) curve() timeline.Curve {
	if e.Bezier == 1 && len(e.BezierPoints) == 4 {
		p := e.BezierPoints
		return timeline.Bezier(p[0], p[1], p[2], p[3])
	}
	right := 1.0
	if e.EasingRight != nil {
		right = *e.EasingRight
	}
	return timeline.Easing(e.EasingType).Clip(e.EasingLeft, right)
}

func (e rpeEvent) raw(scale float64) RawEvent {
	return RawEvent{
		Event: game.Event{
			StartTime:  e.StartTime.Value(),
			EndTime:    e.EndTime.Value(),
			StartValue: e.Start * scale,
			EndValue:   e.End * scale,
		},
		Curve: e.curve(),
	}
}

// RpeParser reads the multi-layer JSON format with eased events.
type RpeParser struct{}

func (p *RpeParser) Format() game.Format {
	return game.FormatRpe
}

func (p *RpeParser) Sniff(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	res := gjson.GetManyBytes(raw, "META", "BPMList")
	return res[0].IsObject() && res[1].IsArray()
}

func (p *RpeParser) Parse(raw []byte) (*RawChart, Diagnostics, error) {
	var src rpeChart
	if err := json.Unmarshal(raw, &src); nil != err {
		return nil, nil, errors.Wrap(ErrMalformedInput, err.Error())
	}

	var diags Diagnostics
	chart := &RawChart{
		Format:   game.FormatRpe,
		OffsetMs: src.Meta.Offset,
	}
	for _, b := range src.BPMList {
		chart.Tempo = append(chart.Tempo, timeline.TempoEntry{StartBeat: b.StartTime.Value(), Bpm: b.Bpm})
	}

	record := 0
	for li, line := range src.JudgeLineList {
		factor := line.BpmFactor
		if factor == 0 {
			factor = 1
		}
		rl := &RawLine{Name: line.Name, BpmFactor: factor}
		chart.Lines = append(chart.Lines, rl)

		for _, l := range line.EventLayers {
			if l == nil {
				continue
			}
			layer := &RawLayer{}
			for _, e := range l.SpeedEvents {
				// speed always ramps linearly
				layer.Add(TrackSpeed, RawEvent{Event: e.raw(rpeSpeedScale).Event})
			}
			for _, e := range l.MoveXEvents {
				layer.Add(TrackMoveX, e.raw(1.0/rpeHalfWidth))
			}
			for _, e := range l.MoveYEvents {
				layer.Add(TrackMoveY, e.raw(1.0/rpeHalfHeight))
			}
			for _, e := range l.RotateEvents {
				layer.Add(TrackRotate, e.raw(-1))
			}
			for _, e := range l.AlphaEvents {
				layer.Add(TrackAlpha, e.raw(1.0/rpeAlphaScale))
			}
			rl.Layers = append(rl.Layers, layer)
		}

		for _, n := range line.Notes {
			record++
			t, ok := rpeNoteTypes[n.Type]
			if !ok {
				diags.add(record, errors.Wrapf(ErrMalformedInput, "line %d: note type %d", li, n.Type))
				continue
			}
			note := RawNote{
				Record:    record,
				Line:      li,
				Type:      t,
				Above:     n.Above == 1,
				Beat:      n.StartTime.Value(),
				Speed:     1,
				PositionX: n.PositionX / rpeNoteUnit,
				ScaleX:    1,
				Fake:      n.IsFake == 1,
			}
			if n.Speed != nil {
				note.Speed = *n.Speed
			}
			if n.Size != nil {
				note.ScaleX = *n.Size
			}
			if t == game.Hold {
				note.EndBeat = n.EndTime.Value()
			}
			chart.Notes = append(chart.Notes, note)
		}
	}
	return chart, diags, nil
}
