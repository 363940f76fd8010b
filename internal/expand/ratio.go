package expand

import (
	"fmt"
	"math"

	"github.com/vidlens/vidlens/internal/explore"
	"github.com/vidlens/vidlens/internal/record"
)

// DefaultRatios splits a segment into three children.
var DefaultRatios = []float64{0.4, 0.3, 0.3}

// Ratio splits a segment's value into fixed shares. It is a stand-in for
// sources that cannot decompose an aggregate; the children are synthetic.
type Ratio struct {
	LabelField string
	ValueField string
	Ratios     []float64
}

func newRatio(opts Options, _ BaseFunc) (explore.Expander, error) {
	ratios := opts.Ratios
	if len(ratios) == 0 {
		ratios = DefaultRatios
	}
	for i, r := range ratios {
		if r <= 0 || r > 1 {
			return nil, fmt.Errorf("ratios[%d]: must be in (0, 1], got %g", i, r)
		}
	}
	return &Ratio{LabelField: opts.LabelField, ValueField: opts.ValueField, Ratios: ratios}, nil
}

// Expand returns one child per ratio, labelled "<label>-subN" and valued at
// floor(value * ratio).
func (r *Ratio) Expand(seg explore.Segment) (*record.Dataset, error) {
	v, _ := seg.Record.Get(r.ValueField)
	n, ok := v.Num()
	if !ok {
		return nil, fmt.Errorf("segment %q has no numeric %s", seg.Label, r.ValueField)
	}

	children := make([]record.Record, len(r.Ratios))
	for i, ratio := range r.Ratios {
		children[i] = record.Record{
			r.LabelField: record.String(fmt.Sprintf("%s-sub%d", seg.Label, i+1)),
			r.ValueField: record.Number(math.Floor(n * ratio)),
		}
	}
	return record.NewDataset(children), nil
}
