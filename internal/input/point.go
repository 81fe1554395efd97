package input

import "math"

type Kind uint8

const (
	Pointer Kind = iota
	Contact
	Key
)

var kindNames = [...]string{"pointer", "contact", "key"}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Identity names one gesture. Identities of different kinds never collide.
type Identity struct {
	Kind Kind
	ID   int
}

// Point is one live contact. X and Y are stage pixels with the origin at
// the stage centre and y pointing up.
type Point struct {
	Identity
	Gesture       uint64 // changes on every down, even for a reused identity
	X, Y          float64
	Down          bool
	Moving        bool
	Velocity      float64 // px per ms
	FlickEligible bool
	FlickConsumed bool

	lastX, lastY, lastTime float64
}

func (p *Point) move(x, y, t float64) {
	dt := t - p.lastTime
	if dt > 0 {
		p.Velocity = math.Hypot(x-p.lastX, y-p.lastY) / dt
		p.lastX, p.lastY, p.lastTime = x, y, t
	}
	p.Moving = x != p.X || y != p.Y
	p.X, p.Y = x, y
}

type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
)

// Action is one recorded mutation of the set, enough to replay a session.
type Action struct {
	Time  float64 `json:"t"`
	Kind  Kind    `json:"k"`
	ID    int     `json:"i"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Phase Phase   `json:"p"`
}
