package judge

import (
	"math"

	"github.com/PhiFans/phiweb-sub000/internal/config"
	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
)

// noteUnitRatio is the stage width covered by one lateral note unit.
const noteUnitRatio = 0.05625

// LineStateAt sums every layer of the line at t.
func LineStateAt(line *game.JudgeLine, t float64) game.LineState {
	var s game.LineState
	for i := range line.Layers {
		l := &line.Layers[i]
		s.PosX += l.MoveX.ValueAt(t)
		s.PosY += l.MoveY.ValueAt(t)
		s.Angle += l.Rotate.ValueAt(t)
		s.Alpha += l.Alpha.ValueAt(t)
	}
	s.Speed = line.Speed.ValueAt(t)
	s.FloorPosition = timeline.FloorAt(line.Speed, line.Floor, t)
	s.Sinr, s.Cosr = math.Sincos(s.Angle * math.Pi / 180)
	return s
}

// Origin is the line centre in stage px.
func Origin(cfg config.JudgeConfig, s game.LineState) (float64, float64) {
	return s.PosX * cfg.StageWidth / 2, s.PosY * cfg.StageHeight / 2
}

// NotePosition is where the note meets its line, in stage px.
func NotePosition(cfg config.JudgeConfig, n *game.Note, s game.LineState) (float64, float64) {
	ox, oy := Origin(cfg, s)
	along := n.PositionX * noteUnitRatio * cfg.StageWidth
	return ox + along*s.Cosr, oy + along*s.Sinr
}

// inCorridor tests the point against the strip perpendicular to the line
// through the note.
func inCorridor(cfg config.JudgeConfig, n *game.Note, s game.LineState, x, y float64) bool {
	ox, oy := Origin(cfg, s)
	dx, dy := x-ox, y-oy
	along := dx*s.Cosr + dy*s.Sinr
	return math.Abs(along-n.PositionX*noteUnitRatio*cfg.StageWidth) <= cfg.HalfHitWidth()
}

// floorUnitRatio is the stage height covered by one floor unit.
const floorUnitRatio = 0.6

// MaxVisibleOffset is the farthest floor offset drawn from a line.
const MaxVisibleOffset = 1 / floorUnitRatio

// SpritePosition places a note offset floor units away from its line, on
// the side the note falls from.
func SpritePosition(cfg config.JudgeConfig, n *game.Note, s game.LineState, offset float64) (float64, float64) {
	x, y := NotePosition(cfg, n, s)
	d := offset * floorUnitRatio * cfg.StageHeight
	if !n.Above {
		d = -d
	}
	return x - d*s.Sinr, y + d*s.Cosr
}
