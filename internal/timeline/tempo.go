package timeline

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// TempoEntry is one raw row of a BPM table.
type TempoEntry struct {
	StartBeat float64
	Bpm       float64
}

type BpmSegment struct {
	StartBeat float64
	EndBeat   float64 // StartBeat of the next segment, +Inf for the last
	Bpm       float64
	StartTime float64 // ms
	MsPerBeat float64
}

// TempoMap converts beats to milliseconds. Time zero is beat zero; the
// first segment's rate also covers every beat before it.
type TempoMap struct {
	segments []BpmSegment
}

func BuildTempoMap(entries []TempoEntry) (*TempoMap, error) {
	if len(entries) == 0 {
		return nil, errors.Wrap(ErrInvalidTempoData, "empty bpm table")
	}
	sorted := make([]TempoEntry, len(entries))
	copy(sorted, entries)
	for _, e := range sorted {
		if !(e.Bpm > 0) || math.IsInf(e.Bpm, 0) {
			return nil, errors.Wrapf(ErrInvalidTempoData, "bpm %v at beat %v", e.Bpm, e.StartBeat)
		}
		if math.IsNaN(e.StartBeat) || math.IsInf(e.StartBeat, 0) {
			return nil, errors.Wrapf(ErrInvalidTempoData, "start beat %v", e.StartBeat)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].StartBeat < sorted[j].StartBeat })

	segments := make([]BpmSegment, 0, len(sorted))
	for _, e := range sorted {
		// A later row at the same beat replaces the earlier one
		if n := len(segments); n > 0 && segments[n-1].StartBeat == e.StartBeat {
			segments = segments[:n-1]
		}
		segments = append(segments, BpmSegment{
			StartBeat: e.StartBeat,
			Bpm:       e.Bpm,
			MsPerBeat: 60000 / e.Bpm,
		})
	}

	segments[0].StartTime = segments[0].StartBeat * segments[0].MsPerBeat
	for i := 1; i < len(segments); i++ {
		prev := segments[i-1]
		segments[i].StartTime = prev.StartTime + prev.MsPerBeat*(segments[i].StartBeat-prev.StartBeat)
	}
	for i := range segments {
		if i+1 < len(segments) {
			segments[i].EndBeat = segments[i+1].StartBeat
		} else {
			segments[i].EndBeat = math.Inf(1)
		}
	}
	return &TempoMap{segments: segments}, nil
}

// Constant returns a single-segment map.
func Constant(bpm float64) (*TempoMap, error) {
	return BuildTempoMap([]TempoEntry{{StartBeat: 0, Bpm: bpm}})
}

func (m *TempoMap) Segments() []BpmSegment {
	return m.segments
}

// Scaled divides every bpm by factor, keeping beat positions.
func (m *TempoMap) Scaled(factor float64) (*TempoMap, error) {
	if factor == 1 {
		return m, nil
	}
	if !(factor > 0) {
		return nil, errors.Wrapf(ErrInvalidTempoData, "bpm factor %v", factor)
	}
	entries := make([]TempoEntry, len(m.segments))
	for i, s := range m.segments {
		entries[i] = TempoEntry{StartBeat: s.StartBeat, Bpm: s.Bpm / factor}
	}
	return BuildTempoMap(entries)
}

func (m *TempoMap) ToTimeMs(beat float64) float64 {
	if math.IsInf(beat, 0) {
		return beat
	}
	if math.IsNaN(beat) {
		panic(errors.Wrap(ErrBeatOutOfRange, "NaN beat"))
	}
	i := sort.Search(len(m.segments), func(i int) bool { return m.segments[i].StartBeat > beat }) - 1
	if i < 0 {
		i = 0
	}
	s := m.segments[i]
	return s.StartTime + (beat-s.StartBeat)*s.MsPerBeat
}
