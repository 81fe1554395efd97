package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/clock"
	"github.com/PhiFans/phiweb-sub000/internal/config"
	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/input"
	"github.com/PhiFans/phiweb-sub000/internal/judge"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/PhiFans/phiweb-sub000/internal/parser"
	"github.com/PhiFans/phiweb-sub000/internal/render"
	"github.com/PhiFans/phiweb-sub000/internal/score"
	"github.com/PhiFans/phiweb-sub000/internal/theme"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session is one play of a chart: the engine, its input set and the
// running score.
type Session struct {
	ID     uuid.UUID
	Chart  *game.Chart
	Config config.JudgeConfig
	Engine *judge.Engine
	Score  *score.Accumulator
	Inputs *input.Set

	mu sync.Mutex
}

func NewSession(chart *game.Chart, cfg config.JudgeConfig, pres judge.Presenter) *Session {
	s := &Session{
		ID:     uuid.New(),
		Chart:  chart,
		Config: cfg,
		Score:  score.NewAccumulator(chart.NoteCount, cfg.Challenge),
		Inputs: input.NewSet(cfg.FlickVelocity),
	}
	s.Engine = judge.New(chart, cfg, s.Score, pres)
	s.Engine.OnFlick(s.Inputs.ConsumeFlick)
	s.Inputs.Record()
	return s
}

func (s *Session) Step(now, delta float64) []judge.Judgment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.Tick(now, delta, s.Inputs.Snapshot())
}

// Reset starts the session over. Nothing judged before the reset is
// visible to the next Step.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Engine.Reset()
	s.Inputs.Clear()
	s.Score.Reset()
	s.ID = uuid.New()
	logger.Info("session reset", logger.String("session", s.ID.String()))
}

// Finished once every note is final, the chart has ended and no score
// effect is still playing.
func (s *Session) Finished(now float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.Engine.Done() || now <= s.Chart.DurationMs {
		return false
	}
	for _, n := range s.Chart.Notes {
		if st := s.Engine.State(n.ID); st.Animating(now, s.Config.ScoreAnimationMs) {
			return false
		}
	}
	return true
}

func (s *Session) Result(mode, chart string) *score.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &score.Result{
		Session:  s.ID,
		Chart:    chart,
		Mode:     mode,
		Score:    s.Score.Score(),
		Accuracy: s.Score.Accuracy(),
		MaxCombo: s.Score.MaxCombo(),
		Counts:   s.Score.Counts(),
		Inputs:   s.Inputs.Actions(),
	}
}

// Replay feeds recorded actions through the session one fixed frame at a
// time until the chart is finished.
func (s *Session) Replay(actions []input.Action, frameMs float64) {
	sorted := make([]input.Action, len(actions))
	copy(sorted, actions)
	input.SortActions(sorted)

	start := -frameMs
	if len(sorted) > 0 && sorted[0].Time < 0 {
		start += sorted[0].Time
	}
	c := clock.NewFixedClock(start, frameMs)
	now, i := c.Now(), 0
	for {
		for ; i < len(sorted) && sorted[i].Time <= now; i++ {
			s.Inputs.Apply(sorted[i])
		}
		s.Step(now, frameMs)
		if i >= len(sorted) && s.Finished(now) {
			return
		}
		now, _ = c.Advance()
	}
}

// AutoplayActions touches every real note at its time and place, one
// pointer per note. Holds follow their line and flicks swipe across it.
func AutoplayActions(chart *game.Chart, cfg config.JudgeConfig, frameMs float64) []input.Action {
	actions := []input.Action{}
	for _, n := range chart.Notes {
		if n.Fake {
			continue
		}
		line := chart.Line(n)
		at := func(t float64, phase input.Phase) input.Action {
			x, y := judge.NotePosition(cfg, n, judge.LineStateAt(line, t))
			return input.Action{Time: t, Kind: input.Pointer, ID: n.ID, X: x, Y: y, Phase: phase}
		}

		down := at(n.Time, input.PhaseDown)
		actions = append(actions, down)
		end := n.Time + frameMs
		switch n.Type {
		case game.Hold:
			for t := n.Time + frameMs; t < n.EndTime(); t += frameMs {
				actions = append(actions, at(t, input.PhaseMove))
			}
			end = n.EndTime() + frameMs
		case game.Flick:
			// touch a millisecond early so the swipe has a velocity at n.Time
			actions[len(actions)-1].Time--
			s := judge.LineStateAt(line, n.Time)
			swipe := 2 * cfg.FlickVelocity
			flick := down
			flick.X -= swipe * s.Sinr
			flick.Y += swipe * s.Cosr
			flick.Phase = input.PhaseMove
			actions = append(actions, flick)
		}
		actions = append(actions, input.Action{Time: end, Kind: input.Pointer, ID: n.ID, Phase: input.PhaseUp})
	}
	input.SortActions(actions)
	return actions
}

// Program runs one command against one chart.
type Program struct {
	Config *config.Config
	Judge  config.JudgeConfig
	Theme  theme.Theme
	Out    io.Writer

	raw   []byte
	chart *game.Chart
	diags parser.Diagnostics
}

func (p *Program) frameMs() float64 {
	return float64(*p.Config.FramePeriod) / float64(time.Millisecond)
}

func (p *Program) mode(command string) string {
	if p.Judge.Challenge {
		return command + "-challenge"
	}
	return command
}

func (p *Program) Load() error {
	raw, err := os.ReadFile(*p.Config.Chart)
	if nil != err {
		return errors.Wrap(err, "unable to read chart")
	}
	opts := parser.BuildOptions{Granularity: *p.Config.Granularity, Precision: *p.Config.Precision}
	chart, diags, err := parser.Load(raw, opts)
	if nil != err {
		return errors.Wrapf(err, "unable to load %v", *p.Config.Chart)
	}
	diags.Log()
	p.raw, p.chart, p.diags = raw, chart, diags
	return nil
}

func (p *Program) Inspect() error {
	c := p.chart
	fmt.Fprintf(p.Out, "   Format:  %v\n", c.Format)
	fmt.Fprintf(p.Out, "   Offset:  %.0f ms\n", c.OffsetMs)
	fmt.Fprintf(p.Out, " Duration:  %.0f ms\n", c.DurationMs)
	fmt.Fprintf(p.Out, "    Lines:  %6v\n", len(c.Lines))
	fmt.Fprintf(p.Out, "    Notes:  %6v\n", c.NoteCount)
	fmt.Fprintf(p.Out, "    Holds:  %6v\n", c.HoldCount)
	fmt.Fprintf(p.Out, "    Fakes:  %6v\n", len(c.Notes)-c.NoteCount)
	types := map[game.NoteType]int{}
	same := 0
	for _, n := range c.Notes {
		if n.Fake {
			continue
		}
		types[n.Type]++
		if n.Simultaneous {
			same++
		}
	}
	for _, t := range []game.NoteType{game.Tap, game.Drag, game.Hold, game.Flick} {
		fmt.Fprintf(p.Out, "%9v:  %6v\n", t, types[t])
	}
	fmt.Fprintf(p.Out, "     Same:  %6v\n", same)
	for _, l := range c.Lines {
		events := 0
		for _, layer := range l.Layers {
			events += len(layer.MoveX) + len(layer.MoveY) + len(layer.Rotate) + len(layer.Alpha)
		}
		fmt.Fprintf(p.Out, "  Line %3d  %-12q layers %2d  events %5d  speed segments %4d\n", l.ID, l.Name, len(l.Layers), events, len(l.Speed))
	}
	for _, d := range p.diags {
		fmt.Fprintf(p.Out, "  Skipped  %v\n", d)
	}
	return nil
}

func (p *Program) save(r *score.Result) error {
	h, err := score.OpenHistory(*p.Config.Database)
	if nil != err {
		return err
	}
	defer h.Close()
	return h.Save(r)
}

func (p *Program) printResult(r *score.Result) {
	fmt.Fprintf(p.Out, "    Score:  %07d\n", r.Score)
	fmt.Fprintf(p.Out, " Accuracy:  %6.2f%%\n", r.Accuracy*100)
	fmt.Fprintf(p.Out, "Max combo:  %6v\n", r.MaxCombo)
	for _, j := range []struct {
		j game.Judgement
		n int
	}{{game.Perfect, r.Counts.Perfect}, {game.Good, r.Counts.Good}, {game.Bad, r.Counts.Bad}, {game.Miss, r.Counts.Miss}} {
		fmt.Fprintf(p.Out, "%v:  %6v\n", p.Theme.RenderJudgement(j.j), j.n)
	}
}

func (p *Program) Autoplay() error {
	s := NewSession(p.chart, p.Judge, nil)
	s.Replay(AutoplayActions(p.chart, p.Judge, p.frameMs()), p.frameMs())
	r := s.Result(p.mode(config.CommandAutoplay), score.HashChart(p.raw))
	p.printResult(r)
	return p.save(r)
}

// History lists stored results and checks each replay still reproduces
// its counts.
func (p *Program) History() error {
	h, err := score.OpenHistory(*p.Config.Database)
	if nil != err {
		return err
	}
	defer h.Close()
	results, err := h.Load(score.HashChart(p.raw), *p.Config.Limit)
	if nil != err {
		return err
	}
	for _, r := range results {
		s := NewSession(p.chart, p.Judge, nil)
		s.Replay(r.Inputs, p.frameMs())
		verdict := "replay ok"
		if s.Score.Counts() != r.Counts {
			verdict = "replay differs"
		}
		fmt.Fprintf(p.Out, "%v  %-20v %07d  %6.2f%%  combo %4d  %v  %v\n",
			r.PlayedAt.Format(time.RFC3339), r.Mode, r.Score, r.Accuracy*100, r.MaxCombo, r.Session, verdict)
	}
	if len(results) == 0 {
		fmt.Fprintln(p.Out, "no results")
	}
	return nil
}

type restartClock interface {
	clock.Clock
	Restart(delay time.Duration)
}

func (p *Program) Play() error {
	r, err := render.OpenTerminal(p.Judge, p.Theme)
	if nil != err {
		return err
	}
	s := NewSession(p.chart, p.Judge, r)

	var clk restartClock
	if *p.Config.Audio != "" {
		audio, streamer, err := clock.OpenAudio(*p.Config.Audio)
		if nil != err {
			return err
		}
		defer streamer.Close()
		audio.Play(*p.Config.Delay)
		clk = audio
	} else {
		clk = clock.NewWallClock(*p.Config.Delay)
	}

	kb := input.NewKeyboard(s.Inputs, clk.Now, *p.Config.KeyHold)
	if err := kb.Open(); nil != err {
		return err
	}
	defer func() {
		if err := kb.Close(); nil != err {
			logger.Error("unable to close keyboard", logger.ErrorField(err))
		}
	}()

	if err := r.Init(); nil != err {
		return err
	}
	last := clk.Now()
	quit := false
	render.RenderLoop(*p.Config.FramePeriod, func(time.Time) bool {
		select {
		case <-kb.Quit():
			quit = true
			return false
		case <-kb.Retry():
			s.Reset()
			clk.Restart(*p.Config.Delay)
			last = clk.Now()
		default:
		}
		now := clk.Now()
		s.Step(now, now-last)
		last = now
		p.drawNotes(r, s)
		p.drawStatus(r, s, now)
		if err := r.Flush(); nil != err {
			logger.Error("unable to draw frame", logger.ErrorField(err))
			return false
		}
		return !s.Finished(now)
	})
	if err := r.Deinit(); nil != err {
		return err
	}

	res := s.Result(p.mode(config.CommandPlay), score.HashChart(p.raw))
	p.printResult(res)
	if quit {
		logger.Info("play abandoned, result not saved", logger.String("session", res.Session.String()))
		return nil
	}
	return p.save(res)
}

func (p *Program) drawNotes(r render.Renderer, s *Session) {
	lines := s.Engine.Lines()
	for _, n := range s.Chart.Notes {
		st := s.Engine.State(n.ID)
		if st.Scored {
			continue
		}
		line := lines[n.Line]
		offset := s.Engine.NoteOffset(n.ID)
		if st.Holding {
			offset = 0
		}
		tail := offset + n.HoldFloor
		if tail < 0 || offset > judge.MaxVisibleOffset {
			continue
		}
		alpha := math.Min(1, math.Max(0, line.Alpha))
		x, y := judge.SpritePosition(p.Judge, n, line, math.Max(offset, 0))
		if n.Type == game.Hold {
			tx, ty := judge.SpritePosition(p.Judge, n, line, tail)
			r.DrawHoldBody(x, y, tx, ty, n)
		}
		r.DrawNote(x, y, n, alpha)
	}
}

func (p *Program) drawStatus(r render.Renderer, s *Session, now float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.Status(1, fmt.Sprintf("  Score:  %07d", s.Score.Score()))
	r.Status(2, fmt.Sprintf("  Combo:  %6v", s.Score.Combo()))
	r.Status(3, fmt.Sprintf("    Acc:  %6.2f%%", s.Score.Accuracy()*100))
	r.Status(4, fmt.Sprintf("   Time:  %6.0f", now))
	c := s.Score.Counts()
	for i, j := range []struct {
		j game.Judgement
		n int
	}{{game.Perfect, c.Perfect}, {game.Good, c.Good}, {game.Bad, c.Bad}, {game.Miss, c.Miss}} {
		r.Status(6+i, fmt.Sprintf("%v:  %6v", p.Theme.RenderJudgement(j.j), j.n))
	}
}
