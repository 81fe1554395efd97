package timeline

import (
	"math"
	"sort"

	"github.com/PhiFans/phiweb-sub000/internal/game"
)

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

// Synthesize turns a raw event list for one attribute into a canonical
// track: sorted, contiguous, covering (-Inf, +Inf), with collinear
// neighbours merged. An empty list becomes a single zero event.
func Synthesize(raw []game.Event) game.EventTrack {
	if len(raw) == 0 {
		return game.EventTrack{{StartTime: negInf, EndTime: posInf}}
	}

	events := make([]game.Event, len(raw))
	for i, e := range raw {
		if e.EndTime < e.StartTime {
			e.StartTime, e.EndTime = e.EndTime, e.StartTime
			e.StartValue, e.EndValue = e.EndValue, e.StartValue
		}
		events[i] = e
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartTime < events[j].StartTime })

	out := make(game.EventTrack, 0, len(events)*2+2)
	out = append(out, events[0])
	for _, next := range events[1:] {
		last := out[len(out)-1]
		switch {
		case next.StartTime > last.EndTime:
			out = append(out, game.Event{
				StartTime:  last.EndTime,
				EndTime:    next.StartTime,
				StartValue: last.EndValue,
				EndValue:   last.EndValue,
			})
			out = append(out, next)
		case next.StartTime == last.EndTime:
			out = append(out, next)
		default:
			// The later event resumes its own trajectory where the earlier one ends
			if next.EndTime <= last.EndTime {
				continue
			}
			next.StartValue = next.At(last.EndTime)
			next.StartTime = last.EndTime
			out = append(out, next)
		}
	}

	if first := out[0]; first.StartTime > negInf {
		head := game.Event{StartTime: negInf, EndTime: first.StartTime, StartValue: first.StartValue, EndValue: first.StartValue}
		out = append(game.EventTrack{head}, out...)
	}
	if last := out[len(out)-1]; last.EndTime < posInf {
		out = append(out, game.Event{StartTime: last.EndTime, EndTime: posInf, StartValue: last.EndValue, EndValue: last.EndValue})
	}
	return merge(out)
}

func merge(track game.EventTrack) game.EventTrack {
	merged := track[:1]
	for _, e := range track[1:] {
		last := &merged[len(merged)-1]
		if collinear(*last, e) {
			last.EndTime = e.EndTime
			last.EndValue = e.EndValue
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// collinear compares slopes by cross-multiplication so no division is needed.
func collinear(a, b game.Event) bool {
	if a.EndTime != b.StartTime || a.EndValue != b.StartValue {
		return false
	}
	da, db := a.EndValue-a.StartValue, b.EndValue-b.StartValue
	if da == 0 && db == 0 {
		return true
	}
	ta, tb := a.Duration(), b.Duration()
	if math.IsInf(ta, 0) || math.IsInf(tb, 0) {
		return false
	}
	return da*tb == db*ta
}

// Sum adds canonical tracks pointwise. The result is canonical and breaks
// at every boundary of every input.
func Sum(tracks ...game.EventTrack) game.EventTrack {
	switch len(tracks) {
	case 0:
		return Synthesize(nil)
	case 1:
		return tracks[0]
	}

	var bounds []float64
	for _, tr := range tracks {
		for _, e := range tr {
			if !math.IsInf(e.StartTime, 0) {
				bounds = append(bounds, e.StartTime)
			}
		}
	}
	sort.Float64s(bounds)
	uniq := bounds[:0]
	for _, b := range bounds {
		if len(uniq) == 0 || uniq[len(uniq)-1] != b {
			uniq = append(uniq, b)
		}
	}
	bounds = uniq

	// right limit at t
	after := func(t float64) float64 {
		v := 0.0
		for _, tr := range tracks {
			v += tr.ValueAt(t)
		}
		return v
	}
	// left limit at t
	before := func(t float64) float64 {
		v := 0.0
		for _, tr := range tracks {
			i := sort.Search(len(tr), func(i int) bool { return tr[i].EndTime >= t })
			if i == len(tr) {
				i = len(tr) - 1
			}
			v += tr[i].At(t)
		}
		return v
	}

	if len(bounds) == 0 {
		v := after(0)
		return game.EventTrack{{StartTime: negInf, EndTime: posInf, StartValue: v, EndValue: v}}
	}

	out := make([]game.Event, 0, len(bounds)+1)
	head := before(bounds[0])
	out = append(out, game.Event{StartTime: negInf, EndTime: bounds[0], StartValue: head, EndValue: head})
	for i := 0; i+1 < len(bounds); i++ {
		a, b := bounds[i], bounds[i+1]
		out = append(out, game.Event{StartTime: a, EndTime: b, StartValue: after(a), EndValue: before(b)})
	}
	tail := after(bounds[len(bounds)-1])
	out = append(out, game.Event{StartTime: bounds[len(bounds)-1], EndTime: posInf, StartValue: tail, EndValue: tail})
	return merge(out)
}
