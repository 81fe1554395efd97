package input

import (
	"sort"
	"sync"
)

// Set holds the live points. Writers may run on any goroutine; readers get
// a copy so a frame never observes a half applied mutation.
type Set struct {
	mu            sync.Mutex
	points        []*Point
	flickVelocity float64
	gestures      uint64

	recording bool
	actions   []Action
}

func NewSet(flickVelocity float64) *Set {
	return &Set{flickVelocity: flickVelocity}
}

func (s *Set) find(id Identity) int {
	for i, p := range s.points {
		if p.Identity == id {
			return i
		}
	}
	return -1
}

// Record starts keeping every mutation for Actions.
func (s *Set) Record() {
	s.mu.Lock()
	s.recording = true
	s.mu.Unlock()
}

func (s *Set) Actions() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

func (s *Set) Down(kind Kind, id int, x, y, t float64) {
	s.Apply(Action{Time: t, Kind: kind, ID: id, X: x, Y: y, Phase: PhaseDown})
}

func (s *Set) Move(kind Kind, id int, x, y, t float64) {
	s.Apply(Action{Time: t, Kind: kind, ID: id, X: x, Y: y, Phase: PhaseMove})
}

func (s *Set) Up(kind Kind, id int, t float64) {
	s.Apply(Action{Time: t, Kind: kind, ID: id, Phase: PhaseUp})
}

func (s *Set) Apply(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recording {
		s.actions = append(s.actions, a)
	}

	id := Identity{Kind: a.Kind, ID: a.ID}
	i := s.find(id)
	switch a.Phase {
	case PhaseDown:
		if i >= 0 {
			// a second down on a live identity starts a new gesture
			s.points = append(s.points[:i], s.points[i+1:]...)
		}
		s.gestures++
		s.points = append(s.points, &Point{
			Identity: id,
			Gesture:  s.gestures,
			X:        a.X,
			Y:        a.Y,
			Down:     true,
			lastX:    a.X,
			lastY:    a.Y,
			lastTime: a.Time,
		})
	case PhaseMove:
		if i < 0 {
			return
		}
		p := s.points[i]
		p.move(a.X, a.Y, a.Time)
		p.FlickEligible = p.Velocity >= s.flickVelocity
		if !p.FlickEligible {
			p.FlickConsumed = false
		}
	case PhaseUp:
		if i >= 0 {
			s.points = append(s.points[:i], s.points[i+1:]...)
		}
	}
}

// ConsumeFlick marks the point's current flick as used. It is re-armed
// once the point slows below the flick velocity.
func (s *Set) ConsumeFlick(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(id); i >= 0 {
		s.points[i].FlickConsumed = true
	}
}

// Snapshot copies the live points in the order they went down.
func (s *Set) Snapshot() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Point, len(s.points))
	for i, p := range s.points {
		out[i] = *p
	}
	return out
}

// Clear drops every live point and the recorded actions.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = nil
	s.actions = nil
}

// SortActions orders a replay log by time, keeping recorded order for ties.
func SortActions(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Time < actions[j].Time })
}
