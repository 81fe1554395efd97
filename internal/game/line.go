package game

// FloorSample records the cumulative scroll distance at the start of a
// speed segment.
type FloorSample struct {
	AtTime   float64
	Distance float64
}

type JudgeLine struct {
	ID     int
	Name   string
	Layers []EventLayer

	// Speed is the sum of every layer's speed track, Floor its integral.
	Speed EventTrack
	Floor []FloorSample
}

// LineState is recomputed from the tracks every frame and never stored
// with the chart.
type LineState struct {
	PosX, PosY    float64 // [-1, 1], centre origin, y up
	Angle         float64 // degrees, counter-clockwise
	Alpha         float64
	Speed         float64
	FloorPosition float64
	Cosr, Sinr    float64
}
