package game

type NoteType uint8

const (
	Tap NoteType = iota + 1
	Drag
	Hold
	Flick
)

var noteTypeNames = [...]string{"", "tap", "drag", "hold", "flick"}

func (t NoteType) String() string {
	if int(t) >= len(noteTypeNames) {
		return "unknown"
	}
	return noteTypeNames[t]
}

// Note is immutable once a chart is built; judgement state is kept by the
// engine, keyed by ID.
type Note struct {
	ID        int // index into Chart.Notes
	Line      int
	Type      NoteType
	Above     bool
	Time      float64 // ms
	HoldTime  float64 // ms, holds only
	Speed     float64
	PositionX float64 // lateral offset along the line, in note units
	ScaleX    float64
	Fake      bool

	FloorPosition float64 // line floor position at Time
	HoldFloor     float64 // floor distance covered by a hold's body

	Simultaneous bool
}

func (n *Note) EndTime() float64 {
	return n.Time + n.HoldTime
}
