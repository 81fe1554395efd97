package parser

import (
	"math"
	"testing"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/testdata"
	"github.com/pkg/errors"
)

func TestPecSniff(t *testing.T) {
	p := &PecParser{}
	for raw, expected := range map[string]bool{
		testdata.Pec:       true,
		"bp 0 120\n":       true,
		"{\"a\": 1}":       false,
		"":                 false,
		"just some text\n": false,
	} {
		if p.Sniff([]byte(raw)) != expected {
			t.Errorf("%q: expected %v", raw, expected)
		}
	}
}

func TestPecChart(t *testing.T) {
	chart, diags := loadTestChart(t, testdata.Pec)
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %v", diags)
	}
	unresolved := 0
	for _, d := range diags {
		if errors.Is(d.Err, ErrUnresolvedLineReference) {
			unresolved++
		}
	}
	if unresolved != 1 {
		t.Errorf("expected one unresolved line reference, got %d", unresolved)
	}

	if chart.OffsetMs != 0 || len(chart.Lines) != 2 || chart.NoteCount != 3 {
		t.Fatalf("offset %v, %d lines, %d notes", chart.OffsetMs, len(chart.Lines), chart.NoteCount)
	}

	tap, hold, flick, drag := chart.Notes[0], chart.Notes[1], chart.Notes[2], chart.Notes[3]
	if tap.Type != game.Tap || tap.Time != 1000 || tap.Simultaneous {
		t.Errorf("unexpected tap %+v", *tap)
	}
	if hold.Type != game.Hold || hold.Time != 1500 || hold.HoldTime != 500 || hold.Speed != 2 || hold.ScaleX != 1.5 || !hold.Simultaneous {
		t.Errorf("unexpected hold %+v", *hold)
	}
	if flick.Type != game.Flick || flick.Above || !flick.Simultaneous || math.Abs(flick.PositionX-512/pecNoteUnit) > 1e-12 {
		t.Errorf("unexpected flick %+v", *flick)
	}
	if drag.Type != game.Drag || !drag.Fake || drag.Line != 1 {
		t.Errorf("unexpected drag %+v", *drag)
	}

	layer := chart.Lines[0].Layers[0]
	for at, expected := range map[float64]float64{0: 0, 500: 0, 750: 0.5, 1000: 1, 5000: 1} {
		if x := layer.MoveX.ValueAt(at); x != expected {
			t.Errorf("x at %v is %v, expected %v", at, x, expected)
		}
	}
	if s := chart.Lines[0].Speed.ValueAt(0); s != 1 {
		t.Errorf("speed %v", s)
	}
	if a := layer.Alpha.ValueAt(100); a != 1 {
		t.Errorf("alpha %v", a)
	}
}

func TestPecMissingOffset(t *testing.T) {
	_, _, err := (&PecParser{}).Parse([]byte("bp 0 120\n"))
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestPecLineLimit(t *testing.T) {
	raw := "0\nbp 0 120\nn1 0 1 0 1 0\nn1 20000000 1 0 1 0\ncv 2000000000 0 1\n"
	rc, diags, err := (&PecParser{}).Parse([]byte(raw))
	if nil != err {
		t.Fatal(err)
	}
	if len(rc.Lines) != 1 || len(rc.Notes) != 1 {
		t.Fatalf("%d lines, %d notes", len(rc.Lines), len(rc.Notes))
	}
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", diags)
	}
	for _, d := range diags {
		if !errors.Is(d.Err, ErrUnresolvedLineReference) {
			t.Errorf("unexpected diagnostic %v", d)
		}
	}
}

func TestPecRejectedNoteModifiers(t *testing.T) {
	for _, rejected := range []string{
		"n1 0 x 0 1 0 # 5.0 & 3.0",
		"n1 -1 1 0 1 0 # 5.0 & 3.0",
		"n2 0 1 0 1 0 # 5.0 & 3.0",
	} {
		raw := "0\nbp 0 120\nn1 0 1 0 1 0\n" + rejected + "\n"
		rc, diags, err := (&PecParser{}).Parse([]byte(raw))
		if nil != err {
			t.Fatal(err)
		}
		if len(rc.Notes) != 1 || len(diags) == 0 {
			t.Fatalf("%q: %d notes, diagnostics %v", rejected, len(rc.Notes), diags)
		}
		if n := rc.Notes[0]; n.Speed != 1 || n.ScaleX != 1 {
			t.Errorf("%q rewrote the previous note: speed %v, scale %v", rejected, n.Speed, n.ScaleX)
		}
	}
}
