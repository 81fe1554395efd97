package render

import (
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/judge"
)

type Renderer interface {
	judge.Presenter
	Init() error
	Deinit() error
	DrawNote(x, y float64, n *game.Note, alpha float64)
	DrawHoldBody(x0, y0, x1, y1 float64, n *game.Note)
	Status(row int, message string)
	Flush() error
}

// RenderLoop calls render once per period until it returns false.
func RenderLoop(period time.Duration, render func(now time.Time) bool) {
	for cont := true; cont; {
		now := time.Now()
		deadline := now.Add(period)
		cont = render(now)
		time.Sleep(time.Until(deadline))
	}
}
