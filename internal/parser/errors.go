package parser

import (
	"fmt"

	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/pkg/errors"
)

var (
	ErrMalformedInput          = errors.New("malformed chart input")
	ErrUnsupportedChartFormat  = errors.New("unsupported chart format")
	ErrUnresolvedLineReference = errors.New("unresolved judge line reference")
)

// Diagnostic describes one record that was skipped while loading.
type Diagnostic struct {
	Record int
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("record %d: %v", d.Record, d.Err)
}

type Diagnostics []Diagnostic

func (d *Diagnostics) add(record int, err error) {
	*d = append(*d, Diagnostic{Record: record, Err: err})
}

// Log reports every diagnostic as a warning.
func (d Diagnostics) Log() {
	for _, diag := range d {
		logger.Warn("skipped chart record", logger.Int("record", diag.Record), logger.ErrorField(diag.Err))
	}
}
