package trace

import (
	"encoding/json"
	"fmt"
)

// Request is the body of a remote trace request.
type Request struct {
	Array []float64 `json:"array"`
}

// Response is the transport form of a Trace.
type Response struct {
	Frames         []Frame  `json:"frames"`
	TimeComplexity string   `json:"timeComplexity"`
	ExecutionTime  *float64 `json:"executionTime,omitempty"`
	Algorithm      string   `json:"algorithm,omitempty"`
	Permutation    []int    `json:"permutation,omitempty"`
}

// Error codes carried in ErrorResponse.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeUnknownAlgorithm = "UNKNOWN_ALGORITHM"
	CodeInternal         = "INTERNAL"
)

// ErrorResponse is the body of a failed remote trace request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewResponse converts a trace to its transport form.
func NewResponse(t *Trace) Response {
	ms := t.ExecutionTimeMs
	return Response{
		Frames:         t.Frames,
		TimeComplexity: t.TimeComplexity,
		ExecutionTime:  &ms,
		Algorithm:      t.Algorithm,
		Permutation:    t.Permutation,
	}
}

// Trace converts a decoded response back into a validated Trace.
func (r Response) Trace() (*Trace, error) {
	t := &Trace{
		Algorithm:      r.Algorithm,
		Frames:         r.Frames,
		TimeComplexity: r.TimeComplexity,
		Permutation:    r.Permutation,
	}
	if r.ExecutionTime != nil {
		t.ExecutionTimeMs = *r.ExecutionTime
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

type wireFrame struct {
	Array       []float64      `json:"array"`
	Swaps       int            `json:"swaps"`
	Comparisons int            `json:"comparisons"`
	Highlight   *wireHighlight `json:"highlight,omitempty"`
}

type wireHighlight struct {
	Type            Kind  `json:"type,omitempty"`
	CompareAt       []int `json:"compareAt,omitempty"`
	Swapped         bool  `json:"swapped,omitempty"`
	MergeRegion     []int `json:"mergeRegion,omitempty"`
	ReadLeft        *int  `json:"readLeft,omitempty"`
	ReadRight       *int  `json:"readRight,omitempty"`
	WriteAt         *int  `json:"writeAt,omitempty"`
	PartitionRegion []int `json:"partitionRegion,omitempty"`
	PivotIndex      *int  `json:"pivotIndex,omitempty"`
	ProbeIndex      *int  `json:"probeIndex,omitempty"`
	ExchangeIndex   *int  `json:"exchangeIndex,omitempty"`
	SortedFlash     []int `json:"sortedFlash,omitempty"`
}

func (f Frame) MarshalJSON() ([]byte, error) {
	w := wireFrame{
		Array:       f.Array,
		Swaps:       f.Swaps,
		Comparisons: f.Comparisons,
	}
	if f.Highlight != nil {
		w.Highlight = encodeHighlight(f.Highlight)
	}
	return json.Marshal(w)
}

func (f *Frame) UnmarshalJSON(data []byte) error {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return &MalformedError{Frame: -1, Reason: err.Error()}
	}
	if w.Array == nil {
		return &MalformedError{Frame: -1, Reason: "frame without array"}
	}
	h, err := decodeHighlight(w.Highlight)
	if err != nil {
		return err
	}
	*f = Frame{
		Array:       w.Array,
		Swaps:       w.Swaps,
		Comparisons: w.Comparisons,
		Highlight:   h,
	}
	return nil
}

// EncodeHighlight returns the JSON form of a highlight on its own.
func EncodeHighlight(h Highlight) ([]byte, error) {
	if h == nil {
		h = None{}
	}
	return json.Marshal(encodeHighlight(h))
}

// DecodeHighlight parses the output of EncodeHighlight.
func DecodeHighlight(data []byte) (Highlight, error) {
	var w wireHighlight
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &MalformedError{Frame: -1, Reason: err.Error()}
	}
	return decodeHighlight(&w)
}

func encodeHighlight(h Highlight) *wireHighlight {
	w := &wireHighlight{Type: h.Kind()}
	switch h := h.(type) {
	case Compare:
		w.CompareAt = []int{h.I, h.J}
		w.Swapped = h.Swapped
	case Merge:
		w.MergeRegion = []int{h.L, h.M, h.R}
		w.ReadLeft = optional(h.ReadLeft)
		w.ReadRight = optional(h.ReadRight)
		w.WriteAt = optional(h.WriteAt)
	case Partition:
		w.PartitionRegion = []int{h.L, h.R}
		w.PivotIndex = &h.Pivot
		w.ProbeIndex = optional(h.Probe)
		w.ExchangeIndex = optional(h.Exchange)
	case Flash:
		w.SortedFlash = []int{h.L, h.R}
	}
	return w
}

func decodeHighlight(w *wireHighlight) (Highlight, error) {
	if w == nil {
		return None{}, nil
	}

	kind := w.Type
	if kind == "" {
		kind = inferKind(w)
	}

	switch kind {
	case KindNone:
		return None{}, nil
	case KindCompare:
		if len(w.CompareAt) != 2 {
			return nil, badHighlight("compareAt needs 2 indices")
		}
		return Compare{I: w.CompareAt[0], J: w.CompareAt[1], Swapped: w.Swapped}, nil
	case KindMerge:
		if len(w.MergeRegion) != 3 {
			return nil, badHighlight("mergeRegion needs 3 indices")
		}
		return Merge{
			L:         w.MergeRegion[0],
			M:         w.MergeRegion[1],
			R:         w.MergeRegion[2],
			ReadLeft:  deref(w.ReadLeft),
			ReadRight: deref(w.ReadRight),
			WriteAt:   deref(w.WriteAt),
		}, nil
	case KindPartition:
		if len(w.PartitionRegion) != 2 || w.PivotIndex == nil {
			return nil, badHighlight("partitionRegion needs 2 indices and a pivotIndex")
		}
		return Partition{
			L:        w.PartitionRegion[0],
			R:        w.PartitionRegion[1],
			Pivot:    *w.PivotIndex,
			Probe:    deref(w.ProbeIndex),
			Exchange: deref(w.ExchangeIndex),
		}, nil
	case KindFlash:
		if len(w.SortedFlash) != 2 {
			return nil, badHighlight("sortedFlash needs 2 indices")
		}
		return Flash{L: w.SortedFlash[0], R: w.SortedFlash[1]}, nil
	}
	return nil, badHighlight(fmt.Sprintf("unknown highlight type %q", kind))
}

func inferKind(w *wireHighlight) Kind {
	switch {
	case w.CompareAt != nil:
		return KindCompare
	case w.MergeRegion != nil:
		return KindMerge
	case w.PartitionRegion != nil:
		return KindPartition
	case w.SortedFlash != nil:
		return KindFlash
	}
	return KindNone
}

func badHighlight(reason string) error {
	return &MalformedError{Frame: -1, Reason: "highlight: " + reason}
}

func optional(i int) *int {
	if i < 0 {
		return nil
	}
	return &i
}

func deref(p *int) int {
	if p == nil {
		return NoIndex
	}
	return *p
}
