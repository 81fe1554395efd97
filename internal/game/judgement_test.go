package game

import "testing"

var classifyTests = map[float64]Judgement{
	0:    Perfect,
	50:   Perfect,
	-80:  Perfect,
	130:  Good,
	-160: Good,
	170:  Bad,
	180:  Bad,
	181:  Miss,
	-500: Miss,
}

func TestClassify(t *testing.T) {
	for delta, expected := range classifyTests {
		if got := NormalRange.Classify(delta); got != expected {
			t.Errorf("delta %v: got %v, expected %v", delta, got, expected)
		}
	}
}

func TestKeepsCombo(t *testing.T) {
	for j, expected := range map[Judgement]bool{Perfect: true, Good: true, Bad: false, Miss: false, Unscored: false} {
		if j.KeepsCombo() != expected {
			t.Errorf("%v: expected %v", j, expected)
		}
	}
}
