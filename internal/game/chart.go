package game

type Chart struct {
	Format   Format
	OffsetMs float64
	Lines    []*JudgeLine
	Notes    []*Note // sorted by Time, Notes[i].ID == i

	NoteCount  int // judgeable notes, fakes excluded
	HoldCount  int
	DurationMs float64
}

func (c *Chart) Line(n *Note) *JudgeLine {
	return c.Lines[n.Line]
}
