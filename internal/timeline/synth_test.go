package timeline

import (
	"math"
	"testing"

	"github.com/PhiFans/phiweb-sub000/internal/game"
)

func ev(start, end, sv, evv float64) game.Event {
	return game.Event{StartTime: start, EndTime: end, StartValue: sv, EndValue: evv}
}

func equalTracks(p, q game.EventTrack) bool {
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

func checkCanonical(t *testing.T, track game.EventTrack) {
	t.Helper()
	if len(track) == 0 {
		t.Fatal("empty track")
	}
	if !math.IsInf(track[0].StartTime, -1) {
		t.Fatalf("first event starts at %v", track[0].StartTime)
	}
	if !math.IsInf(track[len(track)-1].EndTime, 1) {
		t.Fatalf("last event ends at %v", track[len(track)-1].EndTime)
	}
	for i := 0; i+1 < len(track); i++ {
		if track[i].EndTime != track[i+1].StartTime {
			t.Fatalf("gap or overlap between %v and %v", track[i], track[i+1])
		}
		if track[i].StartTime > track[i+1].StartTime {
			t.Fatalf("unsorted at %d", i)
		}
	}
}

var inf = math.Inf(1)

var synthTests = []struct {
	name     string
	raw      []game.Event
	expected game.EventTrack
}{
	{
		"empty",
		nil,
		game.EventTrack{ev(-inf, inf, 0, 0)},
	},
	{
		"bridging gap",
		[]game.Event{ev(0, 2, 0, 10), ev(3, 4, 10, 0)},
		game.EventTrack{ev(-inf, 0, 0, 0), ev(0, 2, 0, 10), ev(2, 3, 10, 10), ev(3, 4, 10, 0), ev(4, inf, 0, 0)},
	},
	{
		"unsorted input",
		[]game.Event{ev(3, 4, 10, 0), ev(0, 2, 0, 10)},
		game.EventTrack{ev(-inf, 0, 0, 0), ev(0, 2, 0, 10), ev(2, 3, 10, 10), ev(3, 4, 10, 0), ev(4, inf, 0, 0)},
	},
	{
		"inverted range",
		[]game.Event{ev(2, 0, 10, 0)},
		game.EventTrack{ev(-inf, 0, 0, 0), ev(0, 2, 0, 10), ev(2, inf, 10, 10)},
	},
	{
		"overlap keeps later slope",
		[]game.Event{ev(0, 4, 0, 4), ev(2, 6, 0, 40)},
		game.EventTrack{ev(-inf, 0, 0, 0), ev(0, 4, 0, 4), ev(4, 6, 20, 40), ev(6, inf, 40, 40)},
	},
	{
		"fully covered event dropped",
		[]game.Event{ev(0, 10, 1, 1), ev(2, 3, 5, 6)},
		game.EventTrack{ev(-inf, inf, 1, 1)},
	},
	{
		"collinear merge",
		[]game.Event{ev(0, 1, 0, 1), ev(1, 3, 1, 3), ev(3, 4, 3, 4)},
		game.EventTrack{ev(-inf, 0, 0, 0), ev(0, 4, 0, 4), ev(4, inf, 4, 4)},
	},
	{
		"instant set",
		[]game.Event{ev(0, 0, 5, 5), ev(2, 2, 7, 7)},
		game.EventTrack{ev(-inf, 2, 5, 5), ev(2, inf, 7, 7)},
	},
}

func TestSynthesize(t *testing.T) {
	for _, test := range synthTests {
		out := Synthesize(test.raw)
		if !equalTracks(out, test.expected) {
			t.Log(test.name)
			t.Log("out     ", out)
			t.Log("expected", test.expected)
			t.Fail()
		}
		checkCanonical(t, out)
	}
}

func TestSynthesizeIdempotent(t *testing.T) {
	raw := []game.Event{
		ev(0, 2, 0, 10), ev(1, 5, 3, 7), ev(5, 5, 0, 0), ev(8, 9, -1, 1),
		ev(9, 10, 1, 3), ev(12, 11, 4, 4), ev(20, 30, 2, 2),
	}
	once := Synthesize(raw)
	twice := Synthesize(once)
	checkCanonical(t, once)
	if !equalTracks(once, twice) {
		t.Log("once ", once)
		t.Log("twice", twice)
		t.Fail()
	}
}

func TestSum(t *testing.T) {
	a := Synthesize([]game.Event{ev(0, 10, 0, 10)})
	b := Synthesize([]game.Event{ev(0, 0, 0, 0), ev(5, 5, 100, 100)})
	sum := Sum(a, b)
	checkCanonical(t, sum)
	for _, probe := range []struct{ at, expected float64 }{
		{-5, 0}, {0, 0}, {4, 4}, {5, 105}, {7.5, 107.5}, {10, 110}, {50, 110},
	} {
		if got := sum.ValueAt(probe.at); math.Abs(got-probe.expected) > 1e-9 {
			t.Errorf("at %v: got %v, expected %v", probe.at, got, probe.expected)
		}
	}
}

func TestSumSingleAndEmpty(t *testing.T) {
	a := Synthesize([]game.Event{ev(0, 10, 0, 10)})
	if !equalTracks(Sum(a), a) {
		t.Fatal("sum of one track must be that track")
	}
	if !equalTracks(Sum(), Synthesize(nil)) {
		t.Fatal("sum of nothing must be the zero track")
	}
	flat := Sum(Synthesize(nil), Synthesize([]game.Event{ev(-inf, inf, 3, 3)}))
	if len(flat) != 1 || flat[0].StartValue != 3 {
		t.Fatalf("unexpected %v", flat)
	}
}
