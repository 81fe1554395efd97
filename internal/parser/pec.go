package parser

import (
	"bufio"
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
	"github.com/pkg/errors"
)

const (
	pecOffsetShiftMs = 175
	pecHalfWidth     = 1024
	pecHalfHeight    = 700
	pecAlphaScale    = 255
	pecSpeedScale    = 1.0 / 7.0
	pecNoteUnit      = 2048 * noteUnitRatio

	// highest line index a command may name
	pecMaxLines = 1 << 10
)

// argument counts per command keyword
var pecArity = map[string]int{
	"bp": 2,
	"n1": 5,
	"n2": 6,
	"n3": 5,
	"n4": 5,
	"#":  1,
	"&":  1,
	"cv": 3,
	"cp": 4,
	"cd": 3,
	"ca": 3,
	"cm": 6,
	"cr": 5,
	"cf": 4,
}

var pecNoteTypes = map[string]game.NoteType{
	"n1": game.Tap,
	"n2": game.Hold,
	"n3": game.Flick,
	"n4": game.Drag,
}

// pecCommand is a line event before its start value is known.
type pecCommand struct {
	start, end float64
	value      float64
	curve      timeline.Curve
	instant    bool
}

type pecLine struct {
	tracks [trackCount][]pecCommand
}

// PecParser reads the line-oriented command text format.
type PecParser struct{}

func (p *PecParser) Format() game.Format {
	return game.FormatPec
}

// Sniff accepts text that is not JSON and whose first command lines look
// like PEC.
func (p *PecParser) Sniff(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		return false
	}
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	for i := 0; i < 8 && sc.Scan(); i++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if _, err := strconv.ParseFloat(fields[0], 64); nil == err && len(fields) == 1 {
			return true
		}
		if _, ok := pecArity[fields[0]]; ok {
			return true
		}
	}
	return false
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if nil != err {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("non-finite number %q", s)
	}
	return v, nil
}

func parseLineIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if nil != err || i < 0 || i >= pecMaxLines {
		return 0, errors.Wrapf(ErrUnresolvedLineReference, "line %q", s)
	}
	return i, nil
}

type pecReader struct {
	chart *RawChart
	lines []*pecLine
	diags Diagnostics
	last  *RawNote
}

func (r *pecReader) line(i int) *pecLine {
	for len(r.lines) <= i {
		r.lines = append(r.lines, &pecLine{})
	}
	return r.lines[i]
}

func (p *PecParser) Parse(raw []byte) (*RawChart, Diagnostics, error) {
	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	r := &pecReader{chart: &RawChart{Format: game.FormatPec}}
	lineNo := 0
	offsetSeen := false
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if !offsetSeen {
			if len(fields) != 1 {
				return nil, nil, errors.Wrapf(ErrMalformedInput, "line %d: missing offset header", lineNo)
			}
			offset, err := parseFinite(fields[0])
			if nil != err {
				return nil, nil, errors.Wrapf(ErrMalformedInput, "line %d: offset: %v", lineNo, err)
			}
			r.chart.OffsetMs = offset - pecOffsetShiftMs
			offsetSeen = true
			continue
		}
		r.readCommands(lineNo, fields)
	}
	if err := sc.Err(); nil != err {
		return nil, nil, errors.Wrap(ErrMalformedInput, err.Error())
	}
	if !offsetSeen {
		return nil, nil, errors.Wrap(ErrMalformedInput, "missing offset header")
	}

	for _, l := range r.lines {
		layer := &RawLayer{}
		for track := Track(0); track < trackCount; track++ {
			cmds := l.tracks[track]
			sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].start < cmds[j].start })
			current := 0.0
			for _, c := range cmds {
				e := RawEvent{
					Event: game.Event{StartTime: c.start, EndTime: c.end, StartValue: current, EndValue: c.value},
					Curve: c.curve,
				}
				if c.instant {
					e.StartValue = c.value
				}
				layer.Add(track, e)
				current = c.value
			}
		}
		r.chart.Lines = append(r.chart.Lines, &RawLine{BpmFactor: 1, Layers: []*RawLayer{layer}})
	}
	return r.chart, r.diags, nil
}

// readCommands consumes every command on one text line. Several commands
// may share a line, as note modifiers usually do.
func (r *pecReader) readCommands(lineNo int, fields []string) {
	for len(fields) > 0 {
		keyword := fields[0]
		arity, ok := pecArity[keyword]
		if !ok {
			r.diags.add(lineNo, errors.Wrapf(ErrMalformedInput, "unknown command %q", keyword))
			return
		}
		if len(fields) < arity+1 {
			r.diags.add(lineNo, errors.Wrapf(ErrMalformedInput, "%s needs %d arguments", keyword, arity))
			return
		}
		if err := r.command(lineNo, keyword, fields[1:arity+1]); nil != err {
			r.diags.add(lineNo, err)
		}
		fields = fields[arity+1:]
	}
}

func (r *pecReader) command(lineNo int, keyword string, args []string) error {
	// modifiers after a rejected note must not reach the note before it
	if _, ok := pecNoteTypes[keyword]; ok {
		r.last = nil
	}
	var nums []float64
	first := 0
	if keyword != "bp" && keyword != "#" && keyword != "&" {
		first = 1
	}
	for _, a := range args[first:] {
		v, err := parseFinite(a)
		if nil != err {
			return errors.Wrapf(ErrMalformedInput, "%s: %v", keyword, err)
		}
		nums = append(nums, v)
	}

	switch keyword {
	case "bp":
		r.chart.Tempo = append(r.chart.Tempo, timeline.TempoEntry{StartBeat: nums[0], Bpm: nums[1]})
		return nil
	case "#":
		if r.last == nil {
			return errors.Wrap(ErrMalformedInput, "speed modifier without a note")
		}
		r.last.Speed = nums[0]
		return nil
	case "&":
		if r.last == nil {
			return errors.Wrap(ErrMalformedInput, "size modifier without a note")
		}
		r.last.ScaleX = nums[0]
		return nil
	}

	li, err := parseLineIndex(args[0])
	if nil != err {
		return err
	}

	l := r.line(li)
	if t, ok := pecNoteTypes[keyword]; ok {
		note := RawNote{Record: lineNo, Line: li, Type: t, Beat: nums[0], Speed: 1, ScaleX: 1}
		rest := nums[1:]
		if t == game.Hold {
			note.EndBeat = rest[0]
			rest = rest[1:]
		}
		note.PositionX = rest[0] / pecNoteUnit
		note.Above = rest[1] == 1
		note.Fake = rest[2] == 1
		r.chart.Notes = append(r.chart.Notes, note)
		r.last = &r.chart.Notes[len(r.chart.Notes)-1]
		return nil
	}

	instant := func(track Track, beat, value float64) {
		l.tracks[track] = append(l.tracks[track], pecCommand{start: beat, end: beat, value: value, instant: true})
	}
	ramp := func(track Track, start, end, value float64, curve timeline.Curve) {
		l.tracks[track] = append(l.tracks[track], pecCommand{start: start, end: end, value: value, curve: curve})
	}
	switch keyword {
	case "cv":
		instant(TrackSpeed, nums[0], nums[1]*pecSpeedScale)
	case "cp":
		instant(TrackMoveX, nums[0], nums[1]/pecHalfWidth-1)
		instant(TrackMoveY, nums[0], nums[2]/pecHalfHeight-1)
	case "cd":
		instant(TrackRotate, nums[0], -nums[1])
	case "ca":
		instant(TrackAlpha, nums[0], nums[1]/pecAlphaScale)
	case "cm":
		curve := timeline.Easing(int(nums[4]))
		ramp(TrackMoveX, nums[0], nums[1], nums[2]/pecHalfWidth-1, curve)
		ramp(TrackMoveY, nums[0], nums[1], nums[3]/pecHalfHeight-1, curve)
	case "cr":
		ramp(TrackRotate, nums[0], nums[1], -nums[2], timeline.Easing(int(nums[3])))
	case "cf":
		ramp(TrackAlpha, nums[0], nums[1], nums[2]/pecAlphaScale, timeline.Easing(1))
	}
	return nil
}
