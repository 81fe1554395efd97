package theme

import "github.com/PhiFans/phiweb-sub000/internal/game"

type Theme interface {
	RenderNote(t game.NoteType, simultaneous bool, alpha float64) string
	RenderHoldBody(simultaneous bool) string
	RenderLine(alpha float64) string
	RenderJudgement(j game.Judgement) string
	RenderHit(j game.Judgement, remaining float64) string
}
