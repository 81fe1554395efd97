package timeline

import (
	"math"

	"github.com/PhiFans/phiweb-sub000/internal/game"
)

// Integrate accumulates distance over a canonical speed track, one sample
// per segment start. Speed is in floor units per second, times in ms.
func Integrate(speed game.EventTrack) []game.FloorSample {
	samples := make([]game.FloorSample, len(speed))
	distance := 0.0
	for i, e := range speed {
		samples[i] = game.FloorSample{AtTime: e.StartTime, Distance: distance}
		if d := e.Duration(); !math.IsInf(d, 0) {
			distance += (e.StartValue + e.EndValue) / 2 * d / 1000
		}
	}
	return samples
}

// FloorAt returns the scroll distance at t, extrapolating inside the
// covering segment.
func FloorAt(speed game.EventTrack, samples []game.FloorSample, t float64) float64 {
	if len(speed) == 0 {
		return 0
	}
	i := speed.Index(t)
	e := speed[i]
	if math.IsInf(e.StartTime, -1) {
		if i+1 < len(samples) {
			return samples[i+1].Distance - e.EndValue*(e.EndTime-t)/1000
		}
		return e.StartValue * t / 1000
	}
	dt := t - e.StartTime
	return samples[i].Distance + (e.StartValue*dt+e.Slope()*dt*dt/2)/1000
}
