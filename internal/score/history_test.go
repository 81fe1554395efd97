package score

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/PhiFans/phiweb-sub000/internal/input"
	"github.com/google/uuid"
)

var compactTests = []struct {
	actions []input.Action
	compact []InputsCompact
}{
	{[]input.Action{}, []InputsCompact{}},
	{
		[]input.Action{
			{Time: 1, Kind: input.Pointer, ID: 1, X: 5, Y: 6, Phase: input.PhaseDown},
			{Time: 2, Kind: input.Key, ID: 'f', Phase: input.PhaseDown},
			{Time: 3, Kind: input.Pointer, ID: 1, X: 7, Y: 8, Phase: input.PhaseMove},
			{Time: 4, Kind: input.Pointer, ID: 1, Phase: input.PhaseUp},
			{Time: 5, Kind: input.Pointer, ID: 1, X: 1, Y: 1, Phase: input.PhaseDown},
		},
		[]InputsCompact{
			{Kind: input.Pointer, ID: 1, Times: []float64{1, 3, 4}, Xs: []float64{5, 7, 0}, Ys: []float64{6, 8, 0}, Phases: []input.Phase{input.PhaseDown, input.PhaseMove, input.PhaseUp}},
			{Kind: input.Key, ID: 'f', Times: []float64{2}, Xs: []float64{0}, Ys: []float64{0}, Phases: []input.Phase{input.PhaseDown}},
			{Kind: input.Pointer, ID: 1, Times: []float64{5}, Xs: []float64{1}, Ys: []float64{1}, Phases: []input.Phase{input.PhaseDown}},
		},
	},
}

func equalCompact(p, q []InputsCompact) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		pi, qi := p[i], q[i]
		if pi.Kind != qi.Kind || pi.ID != qi.ID || len(pi.Times) != len(qi.Times) {
			return false
		}
		for j := range pi.Times {
			if pi.Times[j] != qi.Times[j] || pi.Xs[j] != qi.Xs[j] || pi.Ys[j] != qi.Ys[j] || pi.Phases[j] != qi.Phases[j] {
				return false
			}
		}
	}
	return true
}

func equalActions(p, q []input.Action) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

func TestCompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := compactInputs(test.actions)
		if !equalCompact(out, test.compact) {
			t.Log("out     ", out)
			t.Log("expected", test.compact)
			t.Fail()
		}
	}
}

func TestUncompactInputs(t *testing.T) {
	for _, test := range compactTests {
		out := uncompactInputs(test.compact)
		if !equalActions(out, test.actions) {
			t.Log("out     ", out)
			t.Log("expected", test.actions)
			t.Fail()
		}
	}
}

func TestHistory(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "scores.db"))
	if nil != err {
		t.Fatal(err)
	}
	defer h.Close()

	chart := HashChart([]byte("chart"))
	older := &Result{
		Chart:    chart,
		Mode:     "autoplay",
		Score:    1000000,
		Accuracy: 1,
		MaxCombo: 3,
		Counts:   Counts{Perfect: 3},
		Inputs:   compactTests[1].actions,
		PlayedAt: time.Unix(100, 0),
	}
	newer := &Result{Chart: chart, Mode: "play", Score: 12, Counts: Counts{Miss: 2}, PlayedAt: time.Unix(200, 0)}
	other := &Result{Chart: HashChart([]byte("other")), Mode: "play"}
	for _, r := range []*Result{older, newer, other} {
		if err := h.Save(r); nil != err {
			t.Fatal(err)
		}
		if r.Session == uuid.Nil {
			t.Fatal("save should assign a session id")
		}
	}

	results, err := h.Load(chart, 10)
	if nil != err {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Session != newer.Session || results[1].Session != older.Session {
		t.Errorf("results are not newest first")
	}
	got := results[1]
	if got.Score != older.Score || got.Counts != older.Counts || got.Mode != older.Mode || !got.PlayedAt.Equal(older.PlayedAt) {
		t.Errorf("got %+v, expected %+v", got, *older)
	}
	if !equalActions(got.Inputs, older.Inputs) {
		t.Errorf("replay changed: %v", got.Inputs)
	}

	if limited, _ := h.Load(chart, 1); len(limited) != 1 {
		t.Errorf("limit ignored, got %d results", len(limited))
	}
}

func TestHashChart(t *testing.T) {
	if HashChart([]byte("a")) == HashChart([]byte("b")) || HashChart([]byte("a")) != HashChart([]byte("a")) {
		t.Error("hash must identify the bytes")
	}
}
