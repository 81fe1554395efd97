package score

import (
	"math"

	"github.com/PhiFans/phiweb-sub000/internal/game"
)

const (
	normalNoteBudget     = 900000
	normalComboBudget    = 100000
	challengeNoteBudget  = 1000000
	challengeComboBudget = 0

	goodWeight = 0.65
)

type Counts struct {
	Perfect int `json:"perfect"`
	Good    int `json:"good"`
	Bad     int `json:"bad"`
	Miss    int `json:"miss"`
}

func (c Counts) Scored() int {
	return c.Perfect + c.Good + c.Bad + c.Miss
}

// Accumulator turns judgements into a score. The zero value scores a chart
// with no notes.
type Accumulator struct {
	noteCount int
	challenge bool

	counts   Counts
	combo    int
	maxCombo int
}

func NewAccumulator(noteCount int, challenge bool) *Accumulator {
	return &Accumulator{noteCount: noteCount, challenge: challenge}
}

func (a *Accumulator) Record(j game.Judgement) {
	switch j {
	case game.Perfect:
		a.counts.Perfect++
	case game.Good:
		a.counts.Good++
	case game.Bad:
		a.counts.Bad++
	case game.Miss:
		a.counts.Miss++
	default:
		return
	}
	if !j.KeepsCombo() {
		a.combo = 0
		return
	}
	a.combo++
	if a.combo > a.maxCombo {
		a.maxCombo = a.combo
	}
}

func (a *Accumulator) budgets() (float64, float64) {
	if a.challenge {
		return challengeNoteBudget, challengeComboBudget
	}
	return normalNoteBudget, normalComboBudget
}

func (a *Accumulator) Score() int {
	if a.noteCount == 0 {
		return 0
	}
	notes, combo := a.budgets()
	perNote := notes / float64(a.noteCount)
	perCombo := combo / float64(a.noteCount)
	return int(math.Round(float64(a.maxCombo)*perCombo +
		float64(a.counts.Perfect)*perNote +
		float64(a.counts.Good)*perNote*goodWeight))
}

// Accuracy is zero until something has been scored.
func (a *Accumulator) Accuracy() float64 {
	scored := a.counts.Scored()
	if scored == 0 {
		return 0
	}
	return (float64(a.counts.Perfect) + float64(a.counts.Good)*goodWeight) / float64(scored)
}

func (a *Accumulator) Combo() int {
	return a.combo
}

func (a *Accumulator) MaxCombo() int {
	return a.maxCombo
}

func (a *Accumulator) Counts() Counts {
	return a.counts
}

func (a *Accumulator) Reset() {
	a.counts = Counts{}
	a.combo = 0
	a.maxCombo = 0
}
