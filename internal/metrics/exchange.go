package metrics

import "github.com/san-kum/algoviz/internal/trace"

// ExchangeRate is the share of frames that record an exchange.
type ExchangeRate struct {
	name      string
	exchanges int
	samples   int
}

func NewExchangeRate() *ExchangeRate {
	return &ExchangeRate{name: "exchange_rate"}
}

func (e *ExchangeRate) Name() string { return e.name }

func (e *ExchangeRate) Observe(f trace.Frame, index int) {
	e.samples++
	if f.IsExchange() {
		e.exchanges++
	}
}

func (e *ExchangeRate) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.exchanges) / float64(e.samples)
}

func (e *ExchangeRate) Reset() {
	e.exchanges = 0
	e.samples = 0
}

// RegionWidth is the mean width of the active merge or partition region.
type RegionWidth struct {
	name    string
	sum     int
	samples int
}

func NewRegionWidth() *RegionWidth {
	return &RegionWidth{name: "region_width"}
}

func (r *RegionWidth) Name() string { return r.name }

func (r *RegionWidth) Observe(f trace.Frame, index int) {
	switch h := f.Highlight.(type) {
	case trace.Merge:
		r.sum += h.R - h.L + 1
	case trace.Partition:
		r.sum += h.R - h.L + 1
	default:
		return
	}
	r.samples++
}

func (r *RegionWidth) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.sum) / float64(r.samples)
}

func (r *RegionWidth) Reset() {
	r.sum = 0
	r.samples = 0
}

// Defaults returns the metrics recorded for every stored trace.
func Defaults() []Metric {
	return []Metric{NewSortedness(), NewExchangeRate(), NewRegionWidth()}
}

// Summarize runs the given metrics over all frames of t and adds the final
// counters.
func Summarize(t *trace.Trace, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms)+3)
	for _, m := range ms {
		m.Reset()
	}
	for i, f := range t.Frames {
		for _, m := range ms {
			m.Observe(f, i)
		}
	}
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	if len(t.Frames) > 0 {
		last := t.Last()
		out["comparisons"] = float64(last.Comparisons)
		out["swaps"] = float64(last.Swaps)
		out["frames"] = float64(len(t.Frames))
	}
	return out
}
