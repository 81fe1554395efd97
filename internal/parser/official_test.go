package parser

import (
	"math"
	"testing"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/testdata"
	"github.com/PhiFans/phiweb-sub000/internal/timeline"
)

func loadTestChart(t *testing.T, raw string) (*game.Chart, Diagnostics) {
	t.Helper()
	chart, diags, err := Load([]byte(raw), DefaultBuildOptions())
	if nil != err {
		t.Fatalf("unable to load chart: %v", err)
	}
	return chart, diags
}

func TestOfficialNotes(t *testing.T) {
	chart, diags := loadTestChart(t, testdata.Official)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic for the unknown note type, got %v", diags)
	}
	if chart.NoteCount != 5 || chart.HoldCount != 1 {
		t.Fatalf("expected 5 notes and 1 hold, got %d and %d", chart.NoteCount, chart.HoldCount)
	}

	expected := []struct {
		kind  game.NoteType
		time  float64
		above bool
		same  bool
	}{
		{game.Tap, 1000, true, true},
		{game.Drag, 1000, true, true},
		{game.Hold, 2000, true, false},
		{game.Flick, 3000, true, false},
		{game.Tap, 4000, false, false},
	}
	for i, e := range expected {
		n := chart.Notes[i]
		if n.ID != i || n.Type != e.kind || n.Time != e.time || n.Above != e.above || n.Simultaneous != e.same {
			t.Errorf("note %d: got %+v, expected %+v", i, *n, e)
		}
	}

	hold := chart.Notes[2]
	if hold.HoldTime != 1000 {
		t.Errorf("hold lasts %v, expected 1000", hold.HoldTime)
	}
	// speed 1 before 2000ms and 2 after
	if hold.FloorPosition != 0 || hold.HoldFloor != 2 {
		t.Errorf("hold floor %v / %v, expected 0 / 2", hold.FloorPosition, hold.HoldFloor)
	}
	if chart.Notes[0].FloorPosition != -1 || chart.Notes[4].FloorPosition != 4 {
		t.Errorf("unexpected floor positions %v, %v", chart.Notes[0].FloorPosition, chart.Notes[4].FloorPosition)
	}
	if chart.DurationMs != 4000 {
		t.Errorf("duration %v", chart.DurationMs)
	}
}

func TestOfficialEvents(t *testing.T) {
	chart, _ := loadTestChart(t, testdata.Official)
	line := chart.Lines[0]
	layer := line.Layers[0]
	if x, y := layer.MoveX.ValueAt(1234), layer.MoveY.ValueAt(1234); x != 0 || y != 0 {
		t.Errorf("line should sit at the centre, got %v, %v", x, y)
	}
	if r := layer.Rotate.ValueAt(500); r != 45 {
		t.Errorf("rotation at 500ms is %v, expected 45", r)
	}
	if a := layer.Alpha.ValueAt(0); a != 1 {
		t.Errorf("alpha %v", a)
	}
	for _, tr := range []game.EventTrack{layer.Speed, layer.MoveX, layer.MoveY, layer.Rotate, layer.Alpha} {
		if !math.IsInf(tr[0].StartTime, -1) || !math.IsInf(tr[len(tr)-1].EndTime, 1) {
			t.Errorf("track %v does not cover the timeline", tr)
		}
	}
	if f := timeline.FloorAt(line.Speed, line.Floor, 3000); f != 2 {
		t.Errorf("floor at 3000ms is %v, expected 2", f)
	}
}

func TestOfficialVersion1Position(t *testing.T) {
	x, y := officialPosition(1, 440*1000+260, 0)
	if x != 0 || y != 0 {
		t.Fatalf("expected centre, got %v, %v", x, y)
	}
	x, y = officialPosition(3, 1, 0)
	if x != 1 || y != -1 {
		t.Fatalf("expected (1, -1), got %v, %v", x, y)
	}
}
