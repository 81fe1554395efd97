package parser

import (
	"bytes"

	"github.com/PhiFans/phiweb-sub000/internal/game"
	"github.com/PhiFans/phiweb-sub000/internal/logger"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Parsers lists the adapters in trial order.
var Parsers = []Parser{
	&OfficialParser{},
	&RpeParser{},
	&PecParser{},
}

// Detect tries every adapter in order. A format that recognises the input
// but cannot read it reports MalformedInput; input that no format
// recognises reports UnsupportedChartFormat.
func Detect(raw []byte) (*RawChart, Diagnostics, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' && !gjson.ValidBytes(trimmed) {
		return nil, nil, errors.Wrap(ErrMalformedInput, "invalid JSON")
	}

	var malformed error
	for _, p := range Parsers {
		if !p.Sniff(raw) {
			continue
		}
		chart, diags, err := p.Parse(raw)
		if nil == err {
			return chart, diags, nil
		}
		logger.Debug("chart format rejected", logger.Stringer("format", p.Format()), logger.ErrorField(err))
		if malformed == nil {
			malformed = err
		}
	}
	if malformed != nil {
		return nil, nil, malformed
	}
	return nil, nil, errors.WithStack(ErrUnsupportedChartFormat)
}

// Load detects, parses and builds a canonical chart.
func Load(raw []byte, opts BuildOptions) (*game.Chart, Diagnostics, error) {
	rc, diags, err := Detect(raw)
	if nil != err {
		return nil, nil, err
	}
	chart, more, err := Build(rc, opts)
	if nil != err {
		return nil, nil, err
	}
	return chart, append(diags, more...), nil
}
