package theme

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/PhiFans/phiweb-sub000/internal/game"
)

type DefaultTheme struct {
}

func ansi(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func fade(c color.RGBA, alpha float64) color.RGBA {
	switch {
	case alpha <= 0:
		return color.RGBA{A: 255}
	case alpha >= 1:
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: 255,
	}
}

func (t *DefaultTheme) RenderNote(n game.NoteType, simultaneous bool, alpha float64) string {
	c := getNoteColor(n)
	if simultaneous {
		c = simultaneousColor
	}
	return ansi(fade(c, alpha), noteSym(n))
}

func (t *DefaultTheme) RenderHoldBody(simultaneous bool) string {
	c := noteColors[game.Hold]
	if simultaneous {
		c = simultaneousColor
	}
	return ansi(c, holdSym)
}

func (t *DefaultTheme) RenderLine(alpha float64) string {
	return ansi(fade(lineColor, alpha), lineSym)
}

func (t *DefaultTheme) RenderJudgement(j game.Judgement) string {
	name := j.String()
	name = strings.ToUpper(name[:1]) + name[1:]
	return ansi(getJudgementColor(j), fmt.Sprintf("%8v", name))
}

// RenderHit draws the hit effect, fading out as remaining goes to zero.
func (t *DefaultTheme) RenderHit(j game.Judgement, remaining float64) string {
	if j == game.Miss {
		return ansi(fade(getJudgementColor(j), remaining), missSym)
	}
	return ansi(fade(getJudgementColor(j), remaining), hitSym)
}

const (
	holdSym = "┃"
	lineSym = "·"
	hitSym  = "✦"
	missSym = "⨯"
)

var (
	syms = map[game.NoteType]string{
		game.Tap:   "▬",
		game.Drag:  "▭",
		game.Hold:  "▀",
		game.Flick: "▲",
	}
	noteColors = map[game.NoteType]color.RGBA{
		game.Tap:   {10, 195, 255, 255},
		game.Drag:  {240, 237, 105, 255},
		game.Hold:  {10, 195, 255, 255},
		game.Flick: {254, 67, 101, 255},
	}
	judgementColors = map[game.Judgement]color.RGBA{
		game.Perfect: {255, 236, 160, 255},
		game.Good:    {180, 225, 255, 255},
		game.Bad:     {107, 59, 58, 255},
		game.Miss:    {236, 30, 0, 255},
	}
	simultaneousColor = color.RGBA{236, 195, 0, 255}
	lineColor         = color.RGBA{255, 255, 170, 255}
	otherColor        = color.RGBA{255, 255, 255, 255}
)

func noteSym(n game.NoteType) string {
	s, ok := syms[n]
	if !ok {
		return "?"
	}
	return s
}

func getNoteColor(n game.NoteType) color.RGBA {
	col, ok := noteColors[n]
	if !ok {
		return otherColor
	}
	return col
}

func getJudgementColor(j game.Judgement) color.RGBA {
	col, ok := judgementColors[j]
	if !ok {
		return otherColor
	}
	return col
}
