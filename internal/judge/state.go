package judge

import "github.com/PhiFans/phiweb-sub000/internal/game"

// NoteState is the mutable judgement of one note.
type NoteState struct {
	Scored     bool
	Score      game.Judgement
	Holding    bool
	HoldScored bool // a hold's onset has been graded
	Pending    bool // drag or flick touched early, scored at its time
	AnimStart  float64
	LastDelta  float64 // note time minus the time it was hit
}

// Animating reports whether the score effect is still playing at now.
func (s *NoteState) Animating(now, window float64) bool {
	return s.Scored && now >= s.AnimStart && now-s.AnimStart < window
}

// Judgment is one note reaching its final score.
type Judgment struct {
	Note  *game.Note
	Score game.Judgement
	Delta float64
	Time  float64
	X, Y  float64 // stage px
}

type Recorder interface {
	Record(game.Judgement)
}

// Presenter receives scored notes and the per frame line transforms.
type Presenter interface {
	Scored(j Judgment)
	Frame(now, delta float64, lines []game.LineState)
}
