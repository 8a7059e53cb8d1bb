package sorts

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/algoviz/internal/trace"
)

// DefaultMaxArrayLength bounds the input accepted by Generate.
const DefaultMaxArrayLength = 200

// Kind names a sorting algorithm.
type Kind string

const (
	Bubble Kind = "bubble"
	Merge  Kind = "merge"
	Quick  Kind = "quick"
)

// ParseKind accepts an algorithm name, with or without the "-sort" suffix.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-sort")
	switch Kind(name) {
	case Bubble, Merge, Quick:
		return Kind(name), nil
	}
	return "", fmt.Errorf("unknown algorithm: %s", s)
}

// Route is the path segment used by the HTTP backend for this algorithm.
func (k Kind) Route() string { return string(k) + "-sort" }

// Info is the reference card shown next to a running algorithm.
type Info struct {
	Name    string `json:"name" yaml:"name"`
	Best    string `json:"best" yaml:"best"`
	Average string `json:"average" yaml:"average"`
	Worst   string `json:"worst" yaml:"worst"`
	Space   string `json:"space" yaml:"space"`
	Stable  bool   `json:"stable" yaml:"stable"`
	InPlace bool   `json:"inPlace" yaml:"in_place"`
}

// Algorithm converts one execution into frames.
type Algorithm interface {
	Kind() Kind
	Info() Info
	TimeComplexity() string
	run(r *recorder)
}

type Registry struct {
	algorithms map[Kind]func() Algorithm
}

func NewRegistry() *Registry {
	r := &Registry{
		algorithms: make(map[Kind]func() Algorithm),
	}

	r.algorithms[Bubble] = func() Algorithm { return NewBubbleSort() }
	r.algorithms[Merge] = func() Algorithm { return NewMergeSort() }
	r.algorithms[Quick] = func() Algorithm { return NewQuickSort() }

	return r
}

func (r *Registry) Get(kind Kind) (Algorithm, error) {
	fn, ok := r.algorithms[kind]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm: %s", kind)
	}
	return fn(), nil
}

func (r *Registry) List() []Kind {
	kinds := make([]Kind, 0, len(r.algorithms))
	for k := range r.algorithms {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Generate validates input and records a full trace of kind sorting it.
// It never returns a partial trace.
func (r *Registry) Generate(input []float64, kind Kind, maxLen int) (*trace.Trace, error) {
	if err := ValidateInput(input, maxLen); err != nil {
		return nil, err
	}
	algo, err := r.Get(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rec := newRecorder(input)
	algo.run(rec)
	elapsed := time.Since(start)

	return &trace.Trace{
		Algorithm:       string(kind),
		Frames:          rec.frames,
		TimeComplexity:  algo.TimeComplexity(),
		ExecutionTimeMs: float64(elapsed.Microseconds()) / 1000,
		Permutation:     rec.origin,
	}, nil
}

var defaultRegistry = NewRegistry()

// Generate runs kind against input using the built-in algorithms.
func Generate(input []float64, kind Kind, maxLen int) (*trace.Trace, error) {
	return defaultRegistry.Generate(input, kind, maxLen)
}

// Lookup returns a built-in algorithm.
func Lookup(kind Kind) (Algorithm, error) {
	return defaultRegistry.Get(kind)
}

// Kinds lists the built-in algorithms.
func Kinds() []Kind {
	return defaultRegistry.List()
}

// ValidateInput rejects arrays that are empty, longer than maxLen, or hold
// NaN/Inf. A non-positive maxLen falls back to DefaultMaxArrayLength.
func ValidateInput(input []float64, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxArrayLength
	}
	if len(input) == 0 {
		return &trace.InputError{Reason: "array is empty"}
	}
	if len(input) > maxLen {
		return &trace.InputError{Reason: fmt.Sprintf("array length %d exceeds maximum %d", len(input), maxLen)}
	}
	for i, v := range input {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &trace.InputError{Reason: fmt.Sprintf("element %d is not a finite number", i)}
		}
	}
	return nil
}
