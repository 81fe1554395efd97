package game

import "math"

type Judgement uint8

const (
	Unscored Judgement = iota
	Miss
	Bad
	Good
	Perfect
)

var judgementNames = [...]string{"unscored", "miss", "bad", "good", "perfect"}

func (j Judgement) String() string {
	if int(j) >= len(judgementNames) {
		return judgementNames[Unscored]
	}
	return judgementNames[j]
}

// KeepsCombo reports whether the judgement continues a combo.
func (j Judgement) KeepsCombo() bool {
	return j == Good || j == Perfect
}

// JudgeRange holds the timing windows in milliseconds.
type JudgeRange struct {
	Perfect float64
	Good    float64
	Bad     float64
}

var (
	NormalRange    = JudgeRange{Perfect: 80, Good: 160, Bad: 180}
	ChallengeRange = JudgeRange{Perfect: 40, Good: 75, Bad: 140}
)

// Classify grades a time delta. Anything outside the bad window is a miss.
func (r JudgeRange) Classify(delta float64) Judgement {
	d := math.Abs(delta)
	switch {
	case d <= r.Perfect:
		return Perfect
	case d <= r.Good:
		return Good
	case d <= r.Bad:
		return Bad
	}
	return Miss
}
