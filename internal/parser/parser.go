package parser

import (
	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
)

// Parser reads one authored format into the shared pre-synthesis shape.
type Parser interface {
	Format() game.Format

	// Sniff reports whether raw looks like this format at all. Only a
	// sniffed format is asked to Parse.
	Sniff(raw []byte) bool

	// Parse fails only when the whole input is unusable; bad records are
	// skipped and reported in the diagnostics.
	Parse(raw []byte) (*RawChart, Diagnostics, error)
}

type Track uint8

const (
	TrackSpeed Track = iota
	TrackMoveX
	TrackMoveY
	TrackRotate
	TrackAlpha
	trackCount
)

var trackNames = [...]string{"speed", "moveX", "moveY", "rotate", "alpha"}

func (t Track) String() string {
	if t >= trackCount {
		return "unknown"
	}
	return trackNames[t]
}

// RawEvent is an event in beats together with the curve it eases along.
type RawEvent struct {
	game.Event
	Curve timeline.Curve
}

type RawLayer [trackCount][]RawEvent

func (l *RawLayer) Add(track Track, e RawEvent) {
	l[track] = append(l[track], e)
}

type RawLine struct {
	Name string

	// Tempo overrides the chart tempo when set.
	Tempo     []timeline.TempoEntry
	BpmFactor float64
	Layers    []*RawLayer
}

type RawNote struct {
	Record    int // source record, for diagnostics
	Line      int
	Type      game.NoteType
	Above     bool
	Beat      float64
	EndBeat   float64 // holds only
	Speed     float64
	PositionX float64
	ScaleX    float64
	Fake      bool
}

type RawChart struct {
	Format   game.Format
	OffsetMs float64
	Tempo    []timeline.TempoEntry
	Lines    []*RawLine
	Notes    []RawNote
}
