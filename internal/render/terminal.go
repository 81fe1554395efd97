package render

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/PhiFans/phiweb-sub000/internal/config"
	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/judge"
	"github.com/PhiFans/phiweb-sub000/internal/theme"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Terminal draws the stage with ANSI escapes, one frame per flush.
type Terminal struct {
	out          io.Writer
	fd           int
	buffer       strings.Builder
	restoreState *term.State

	cols, rows int
	cfg        config.JudgeConfig
	theme      theme.Theme

	decorations []*decoration
	now         float64
}

type decoration struct {
	X, Y     float64 // stage px
	Score    game.Judgement
	Start    float64
	Duration float64
}

func NewTerminal(out io.Writer, cols, rows int, cfg config.JudgeConfig, th theme.Theme) *Terminal {
	return &Terminal{out: out, fd: -1, cols: cols, rows: rows, cfg: cfg, theme: th}
}

// OpenTerminal sizes the stage to stdout.
func OpenTerminal(cfg config.JudgeConfig, th theme.Theme) (*Terminal, error) {
	fd := int(os.Stdout.Fd())
	cols, rows, err := term.GetSize(fd)
	if nil != err {
		return nil, errors.Wrap(err, "unable to get terminal size")
	}
	t := NewTerminal(os.Stdout, cols, rows, cfg, th)
	t.fd = fd
	return t, nil
}

func (r *Terminal) Init() error {
	if r.fd >= 0 {
		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return errors.Wrap(err, "unable to enter raw mode")
		}
		r.restoreState = state
	}
	r.buffer.WriteString("\033[?1049h") // Enable alternate buffer
	r.buffer.WriteString("\033[?25l")   // Make the cursor invisible
	r.buffer.WriteString("\033[J")      // Clear the screen
	return r.Flush()
}

func (r *Terminal) Deinit() error {
	r.buffer.WriteString("\033[?1049l") // Disable alternate buffer
	r.buffer.WriteString("\033[?25h")   // Make the cursor visible
	if err := r.Flush(); nil != err {
		return err
	}
	if nil != r.restoreState {
		return term.Restore(r.fd, r.restoreState)
	}
	return nil
}

// Project maps stage px to a 1-based terminal cell.
func (r *Terminal) Project(x, y float64) (int, int, bool) {
	col := int(math.Floor((x/r.cfg.StageWidth+0.5)*float64(r.cols))) + 1
	row := int(math.Floor((0.5-y/r.cfg.StageHeight)*float64(r.rows))) + 1
	return row, col, row >= 1 && row <= r.rows && col >= 1 && col <= r.cols
}

func (r *Terminal) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *Terminal) fillAt(x, y float64, message string) {
	if row, col, ok := r.Project(x, y); ok {
		r.Fill(row, col, message)
	}
}

func (r *Terminal) Scored(j judge.Judgment) {
	r.decorations = append(r.decorations, &decoration{
		X:        j.X,
		Y:        j.Y,
		Score:    j.Score,
		Start:    j.Time,
		Duration: r.cfg.ScoreAnimationMs,
	})
}

// Frame clears the screen and draws the lines and hit effects.
func (r *Terminal) Frame(now, delta float64, lines []game.LineState) {
	r.now = now
	r.buffer.WriteString("\033[H\033[2J")

	// one sample per half cell across the longest stage diagonal
	step := r.cfg.StageWidth / float64(r.cols) / 2
	reach := math.Hypot(r.cfg.StageWidth, r.cfg.StageHeight)
	for _, l := range lines {
		if l.Alpha <= 0 {
			continue
		}
		glyph := r.theme.RenderLine(l.Alpha)
		ox, oy := judge.Origin(r.cfg, l)
		for d := -reach; d <= reach; d += step {
			r.fillAt(ox+d*l.Cosr, oy+d*l.Sinr, glyph)
		}
	}
	r.tickDecorations()
}

func (r *Terminal) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		remaining := 1 - (r.now-d.Start)/d.Duration
		if remaining <= 0 {
			continue
		}
		nd = append(nd, d)
		r.fillAt(d.X, d.Y, r.theme.RenderHit(d.Score, remaining))
	}
	r.decorations = nd
}

func (r *Terminal) DrawNote(x, y float64, n *game.Note, alpha float64) {
	r.fillAt(x, y, r.theme.RenderNote(n.Type, n.Simultaneous, alpha))
}

// DrawHoldBody draws the body between the hold's head and tail.
func (r *Terminal) DrawHoldBody(x0, y0, x1, y1 float64, n *game.Note) {
	glyph := r.theme.RenderHoldBody(n.Simultaneous)
	length := math.Hypot(x1-x0, y1-y0)
	step := r.cfg.StageHeight / float64(r.rows)
	for d := 0.0; d <= length; d += step {
		f := d / length
		r.fillAt(x0+(x1-x0)*f, y0+(y1-y0)*f, glyph)
	}
}

// Status writes a line of the heads up display.
func (r *Terminal) Status(row int, message string) {
	r.Fill(row, 2, message)
}

func (r *Terminal) Flush() error {
	_, err := io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
	return err
}
