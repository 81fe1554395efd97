package timeline

import (
	"math"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
)

const (
	// DefaultGranularity is the beat width of one sampled segment.
	DefaultGranularity = 0.125

	// MaxSegments bounds one sampled ramp; longer ramps get wider segments.
	MaxSegments = 1 << 14
)

// Sample flattens an eased ramp over [startBeat, endBeat) into linear
// segments of width granularity, the last one clipped to endBeat. Values
// are snapped to multiples of precision when it is positive. Flat, unbounded
// or linear ramps come back as a single event.
func Sample(startBeat, endBeat, startVal, endVal float64, curve Curve, granularity, precision float64) []game.Event {
	whole := []game.Event{{StartTime: startBeat, EndTime: endBeat, StartValue: startVal, EndValue: endVal}}
	if startVal == endVal || curve.IsIdentity() {
		return whole
	}
	if math.IsInf(startBeat, 0) || math.IsInf(endBeat, 0) || !(endBeat > startBeat) {
		return whole
	}
	if !(granularity > 0) {
		granularity = DefaultGranularity
	}

	span := endBeat - startBeat
	value := func(beat float64) float64 {
		if beat >= endBeat {
			return endVal
		}
		p := (beat - startBeat) / span
		v := startVal + (endVal-startVal)*curve.Eval(p)
		if precision > 0 {
			v = math.Round(v/precision) * precision
		}
		return v
	}

	n := math.Ceil(span / granularity)
	if n > MaxSegments {
		logger.Warn("eased ramp too long, widening segments",
			logger.Float64("start_beat", startBeat),
			logger.Float64("end_beat", endBeat),
			logger.Float64("granularity", span/MaxSegments))
		granularity = span / MaxSegments
		n = MaxSegments
	}
	segments := int(n)
	events := make([]game.Event, 0, segments)
	from, fromVal := startBeat, startVal
	for i := 1; i <= segments; i++ {
		to := startBeat + float64(i)*granularity
		if i == segments || to > endBeat {
			to = endBeat
		}
		if to <= from {
			continue
		}
		toVal := value(to)
		events = append(events, game.Event{StartTime: from, EndTime: to, StartValue: fromVal, EndValue: toVal})
		from, fromVal = to, toVal
	}
	return events
}
