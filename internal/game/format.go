package game

// Format identifies which authored encoding a chart was read from.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatOfficial
	FormatRpe
	FormatPec
)

var formatNames = map[Format]string{
	FormatUnknown:  "unknown",
	FormatOfficial: "official",
	FormatRpe:      "rpe",
	FormatPec:      "pec",
}

func (f Format) String() string {
	name, ok := formatNames[f]
	if !ok {
		return formatNames[FormatUnknown]
	}
	return name
}
