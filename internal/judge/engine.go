package judge

import (
	"github.com/PhiFans/phiweb-sub000/internal/config"
	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/input"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
)

// Engine judges one chart frame by frame. It is not safe for concurrent
// use; the input set is the only state shared with other goroutines.
type Engine struct {
	chart   *game.Chart
	cfg     config.JudgeConfig
	rec     Recorder
	pres    Presenter
	onFlick func(input.Identity)

	states []NoteState
	lines  []game.LineState
	cursor int // notes before the cursor are final

	probes  []probe
	seen    map[input.Identity]uint64
	flicked map[input.Identity]struct{}
	live    map[input.Identity]struct{}
	out     []Judgment
}

// New prepares an engine. rec and pres may be nil.
func New(chart *game.Chart, cfg config.JudgeConfig, rec Recorder, pres Presenter) *Engine {
	return &Engine{
		chart:   chart,
		cfg:     cfg,
		rec:     rec,
		pres:    pres,
		states:  make([]NoteState, len(chart.Notes)),
		lines:   make([]game.LineState, len(chart.Lines)),
		seen:    map[input.Identity]uint64{},
		flicked: map[input.Identity]struct{}{},
		live:    map[input.Identity]struct{}{},
	}
}

// OnFlick registers fn to be told when a point's flick is used up.
func (e *Engine) OnFlick(fn func(input.Identity)) {
	e.onFlick = fn
}

func (e *Engine) Reset() {
	for i := range e.states {
		e.states[i] = NoteState{}
	}
	e.cursor = 0
	e.probes = e.probes[:0]
	for id := range e.seen {
		delete(e.seen, id)
	}
	for id := range e.flicked {
		delete(e.flicked, id)
	}
	logger.Debug("judge reset", logger.Int("notes", len(e.states)))
}

// State returns the judgement state of note id.
func (e *Engine) State(id int) NoteState {
	return e.states[id]
}

// Lines returns the line transforms computed by the last Tick.
func (e *Engine) Lines() []game.LineState {
	return e.lines
}

// NoteOffset is the note's distance from its line in floor units at the
// last Tick. Hold bodies scroll at the line speed.
func (e *Engine) NoteOffset(id int) float64 {
	n := e.chart.Notes[id]
	speed := n.Speed
	if n.Type == game.Hold {
		speed = 1
	}
	return (n.FloorPosition - e.lines[n.Line].FloorPosition) * speed
}

// Done reports whether every judgeable note has a final score.
func (e *Engine) Done() bool {
	e.advance()
	return e.cursor >= len(e.states)
}

func (e *Engine) final(i int) bool {
	return e.chart.Notes[i].Fake || e.states[i].Scored
}

func (e *Engine) advance() {
	for e.cursor < len(e.states) && e.final(e.cursor) {
		e.cursor++
	}
}

// Tick judges every note due at now against a stable snapshot of points.
// The returned slice is reused by the next call.
func (e *Engine) Tick(now, delta float64, points []input.Point) []Judgment {
	e.out = e.out[:0]
	for i, l := range e.chart.Lines {
		e.lines[i] = LineStateAt(l, now)
	}
	e.buildProbes(points)

	r := e.cfg.Range
	e.advance()
	for i := e.cursor; i < len(e.states); i++ {
		if e.final(i) {
			continue
		}
		n, st := e.chart.Notes[i], &e.states[i]
		d := n.Time - now
		if d > r.Bad {
			// notes are sorted, nothing later is due
			break
		}
		if n.Type == game.Hold {
			e.judgeHold(n, st, now, d)
			continue
		}

		switch {
		case st.Pending:
			if d <= 0 {
				e.score(n, st, game.Perfect, now, st.LastDelta)
			}
		case d < -r.Bad:
			e.score(n, st, game.Miss, now, d)
		case n.Type == game.Tap:
			if p := e.match(tapProbe, n); nil != p {
				p.used = true
				e.score(n, st, r.Classify(d), now, d)
			}
		case n.Type == game.Drag:
			if nil != e.match(holdProbe, n) {
				e.pend(n, st, now, d)
			}
		case n.Type == game.Flick:
			if p := e.match(flickProbe, n); nil != p {
				p.used = true
				e.flicked[p.point.Identity] = struct{}{}
				if nil != e.onFlick {
					e.onFlick(p.point.Identity)
				}
				e.pend(n, st, now, d)
			}
		}
	}

	if nil != e.pres {
		e.pres.Frame(now, delta, e.lines)
	}
	return e.out
}

// pend marks a positional note as touched. It scores once its time comes.
func (e *Engine) pend(n *game.Note, st *NoteState, now, d float64) {
	st.Pending = true
	st.LastDelta = d
	if d <= 0 {
		e.score(n, st, game.Perfect, now, d)
	}
}

func (e *Engine) judgeHold(n *game.Note, st *NoteState, now, d float64) {
	r := e.cfg.Range
	if !st.Holding {
		if d < -r.Bad {
			e.score(n, st, game.Miss, now, d)
			return
		}
		if p := e.match(tapProbe, n); nil != p {
			p.used = true
			st.Holding = true
			st.HoldScored = true
			st.Score = r.Classify(d)
			st.LastDelta = d
			st.AnimStart = now
		}
		return
	}

	end := n.EndTime()
	switch {
	case now >= end:
		e.score(n, st, st.Score, now, st.LastDelta)
	case nil != e.match(holdProbe, n):
		// still held
	case now < end-e.cfg.EarlyReleaseGraceMs:
		e.score(n, st, game.Miss, now, st.LastDelta)
	default:
		e.score(n, st, st.Score, now, st.LastDelta)
	}
}

// match returns the first unused probe of kind whose point lies in the
// note's corridor.
func (e *Engine) match(kind probeKind, n *game.Note) *probe {
	line := e.lines[n.Line]
	for i := range e.probes {
		p := &e.probes[i]
		if p.kind != kind || p.used {
			continue
		}
		if p.anywhere() || inCorridor(e.cfg, n, line, p.point.X, p.point.Y) {
			return p
		}
	}
	return nil
}

func (e *Engine) score(n *game.Note, st *NoteState, j game.Judgement, now, d float64) {
	st.Scored = true
	st.Score = j
	st.Holding = false
	st.Pending = false
	st.AnimStart = now
	st.LastDelta = d

	x, y := NotePosition(e.cfg, n, e.lines[n.Line])
	jm := Judgment{Note: n, Score: j, Delta: d, Time: now, X: x, Y: y}
	e.out = append(e.out, jm)
	if nil != e.rec {
		e.rec.Record(j)
	}
	if nil != e.pres {
		e.pres.Scored(jm)
	}
}
