package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PhiFans/phiweb-sub000/internal/config"
	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/input"
	"github.com/PhiFans/phiweb-sub000/internal/parser"
	"github.com/PhiFans/phiweb-sub000/internal/testdata"
	"github.com/PhiFans/phiweb-sub000/internal/theme"
)

const frameMs = 16

func loadChart(t *testing.T, raw string) *game.Chart {
	t.Helper()
	chart, _, err := parser.Load([]byte(raw), parser.DefaultBuildOptions())
	if nil != err {
		t.Fatalf("unable to load chart: %v", err)
	}
	return chart
}

func TestAutoplay(t *testing.T) {
	for _, challenge := range []bool{false, true} {
		for _, raw := range []string{testdata.Official, testdata.Rpe, testdata.Pec} {
			chart := loadChart(t, raw)
			cfg := config.DefaultJudgeConfig()
			if challenge {
				cfg.Challenge = true
				cfg.Range = game.ChallengeRange
			}
			s := NewSession(chart, cfg, nil)
			s.Replay(AutoplayActions(chart, cfg, frameMs), frameMs)

			c := s.Score.Counts()
			if c.Perfect != chart.NoteCount || c.Scored() != chart.NoteCount {
				t.Errorf("%v: expected %d perfects, got %+v", chart.Format, chart.NoteCount, c)
			}
			if s.Score.Score() != 1000000 || s.Score.MaxCombo() != chart.NoteCount {
				t.Errorf("%v: score %v, max combo %v", chart.Format, s.Score.Score(), s.Score.MaxCombo())
			}
			for _, n := range chart.Notes {
				if st := s.Engine.State(n.ID); st.Scored == n.Fake {
					t.Errorf("%v: note %d scored %v, fake %v", chart.Format, n.ID, st.Scored, n.Fake)
				}
			}
		}
	}
}

func TestReplayReproduces(t *testing.T) {
	chart := loadChart(t, testdata.Rpe)
	cfg := config.DefaultJudgeConfig()
	first := NewSession(chart, cfg, nil)
	first.Replay(AutoplayActions(chart, cfg, frameMs), frameMs)
	recorded := first.Result("autoplay", "")

	second := NewSession(chart, cfg, nil)
	second.Replay(recorded.Inputs, frameMs)
	if got := second.Result("replay", ""); got.Counts != recorded.Counts || got.Score != recorded.Score {
		t.Errorf("replay gave %+v, expected %+v", got.Counts, recorded.Counts)
	}
	if len(second.Inputs.Actions()) != len(recorded.Inputs) {
		t.Error("a replay should record the same actions")
	}
}

func TestLateTap(t *testing.T) {
	chart := loadChart(t, testdata.Official)
	s := NewSession(chart, config.DefaultJudgeConfig(), nil)
	s.Replay([]input.Action{{Time: 1130, Kind: input.Pointer, ID: 1, Phase: input.PhaseDown}}, frameMs)

	c := s.Score.Counts()
	if c.Good != 1 || c.Miss != 4 || c.Perfect != 0 {
		t.Fatalf("unexpected counts %+v", c)
	}
	if s.Score.Score() != 137000 || s.Score.Combo() != 0 {
		t.Errorf("score %v, combo %v", s.Score.Score(), s.Score.Combo())
	}
}

func TestSessionReset(t *testing.T) {
	chart := loadChart(t, testdata.Pec)
	cfg := config.DefaultJudgeConfig()
	s := NewSession(chart, cfg, nil)
	s.Replay(AutoplayActions(chart, cfg, frameMs), frameMs)
	id := s.ID

	end := chart.DurationMs
	if s.Finished(end+1) || !s.Finished(end+cfg.ScoreAnimationMs+100) {
		t.Error("finished should wait for the last score effect")
	}

	s.Reset()
	if s.ID == id || s.Score.Score() != 0 || s.Score.MaxCombo() != 0 {
		t.Fatal("reset left the score behind")
	}
	if len(s.Inputs.Snapshot()) != 0 || len(s.Inputs.Actions()) != 0 {
		t.Fatal("reset left inputs behind")
	}
	for _, n := range chart.Notes {
		if s.Engine.State(n.ID).Scored {
			t.Fatalf("note %d is still scored", n.ID)
		}
	}
	if s.Finished(0) {
		t.Error("a reset session is not finished")
	}

	s.Replay(AutoplayActions(chart, cfg, frameMs), frameMs)
	if s.Score.Score() != 1000000 {
		t.Errorf("second run scored %v", s.Score.Score())
	}
}

func TestInspect(t *testing.T) {
	chart, diags, err := parser.Load([]byte(testdata.Official), parser.DefaultBuildOptions())
	if nil != err {
		t.Fatal(err)
	}
	var out bytes.Buffer
	p := &Program{Out: &out, chart: chart, diags: diags}
	if err := p.Inspect(); nil != err {
		t.Fatal(err)
	}
	for _, expected := range []string{"Format:  official", "Notes:       5", "Holds:       1", "Same:       2", "Skipped  record"} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("missing %q in\n%v", expected, out.String())
		}
	}
}

func TestAutoplayAndHistory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "chart.pec")
	if err := os.WriteFile(file, []byte(testdata.Pec), 0o644); nil != err {
		t.Fatal(err)
	}
	db := filepath.Join(dir, "scores.db")

	var out bytes.Buffer
	for _, command := range []string{config.CommandAutoplay, config.CommandHistory} {
		cfg := config.New()
		if _, err := cfg.Parse([]string{"--db", db, command, file}); nil != err {
			t.Fatal(err)
		}
		p := &Program{Config: cfg, Judge: cfg.Judge(), Theme: &theme.DefaultTheme{}, Out: &out}
		if err := p.Load(); nil != err {
			t.Fatal(err)
		}
		var err error
		if command == config.CommandAutoplay {
			err = p.Autoplay()
		} else {
			err = p.History()
		}
		if nil != err {
			t.Fatal(err)
		}
	}
	s := out.String()
	if !strings.Contains(s, "Score:  1000000") || !strings.Contains(s, "autoplay") || !strings.Contains(s, "replay ok") {
		t.Errorf("unexpected output\n%v", s)
	}
}
