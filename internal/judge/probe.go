package judge

import "github.com/PhiFans/phiweb-sub000/internal/input"

type probeKind uint8

const (
	tapProbe probeKind = iota
	flickProbe
	holdProbe
)

type probe struct {
	kind  probeKind
	point *input.Point
	used  bool
}

// anywhere reports whether the probe matches regardless of position.
func (p *probe) anywhere() bool {
	return p.point.Kind == input.Key
}

// buildProbes derives this frame's probes. A gesture yields a tap probe on
// the first frame it is seen, and a flick probe while it is fast and its
// flick is unused.
func (e *Engine) buildProbes(points []input.Point) {
	e.probes = e.probes[:0]
	for id := range e.live {
		delete(e.live, id)
	}
	for i := range points {
		p := &points[i]
		if !p.Down {
			continue
		}
		e.live[p.Identity] = struct{}{}
		if g, ok := e.seen[p.Identity]; !ok || g != p.Gesture {
			e.seen[p.Identity] = p.Gesture
			delete(e.flicked, p.Identity)
			e.probes = append(e.probes, probe{kind: tapProbe, point: p})
		}
		if !p.FlickEligible {
			delete(e.flicked, p.Identity)
		} else if _, used := e.flicked[p.Identity]; !used && !p.FlickConsumed {
			e.probes = append(e.probes, probe{kind: flickProbe, point: p})
		}
		e.probes = append(e.probes, probe{kind: holdProbe, point: p})
	}
	for id := range e.seen {
		if _, ok := e.live[id]; !ok {
			delete(e.seen, id)
			delete(e.flicked, id)
		}
	}
}
