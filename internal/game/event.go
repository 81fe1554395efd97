package game

import (
	"math"
	"sort"
)

// Event is a linear ramp of one attribute over [StartTime, EndTime).
// Times are milliseconds once a chart is canonical, beats before that.
type Event struct {
	StartTime  float64
	EndTime    float64
	StartValue float64
	EndValue   float64
}

func (e Event) Duration() float64 {
	return e.EndTime - e.StartTime
}

func (e Event) IsFlat() bool {
	return e.StartValue == e.EndValue
}

// At interpolates the event at t. Unbounded events only ever hold a
// constant, so they return whichever end is finite.
func (e Event) At(t float64) float64 {
	if e.IsFlat() {
		return e.StartValue
	}
	if math.IsInf(e.StartTime, -1) {
		return e.EndValue
	}
	if math.IsInf(e.EndTime, 1) {
		return e.StartValue
	}
	d := e.EndTime - e.StartTime
	if d <= 0 {
		return e.EndValue
	}
	p := (t - e.StartTime) / d
	return e.StartValue + (e.EndValue-e.StartValue)*p
}

// Slope is the rate of change per time unit, zero for flat or unbounded events.
func (e Event) Slope() float64 {
	d := e.Duration()
	if e.IsFlat() || d <= 0 || math.IsInf(d, 0) {
		return 0
	}
	return (e.EndValue - e.StartValue) / d
}

// EventTrack is an ordered list of events. A canonical track is sorted,
// contiguous and spans (-Inf, +Inf).
type EventTrack []Event

// Index returns the position of the event covering t.
func (tr EventTrack) Index(t float64) int {
	i := sort.Search(len(tr), func(i int) bool { return tr[i].EndTime > t })
	if i == len(tr) {
		return len(tr) - 1
	}
	return i
}

func (tr EventTrack) ValueAt(t float64) float64 {
	if len(tr) == 0 {
		return 0
	}
	return tr[tr.Index(t)].At(t)
}

// EventLayer bundles the five attribute tracks of one animation layer.
// A line sums the outputs of all its layers.
type EventLayer struct {
	Speed  EventTrack
	MoveX  EventTrack
	MoveY  EventTrack
	Rotate EventTrack
	Alpha  EventTrack
}
