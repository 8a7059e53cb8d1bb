package metrics

import "github.com/san-kum/algoviz/internal/trace"

// Metric observes frames in order and reduces them to one number.
type Metric interface {
	Name() string
	Observe(f trace.Frame, index int)
	Value() float64
	Reset()
}

// Sortedness is the fraction of adjacent pairs already in order in the most
// recently observed frame.
type Sortedness struct {
	name    string
	ordered int
	pairs   int
}

func NewSortedness() *Sortedness {
	return &Sortedness{name: "sortedness"}
}

func (s *Sortedness) Name() string {
	return s.name
}

func (s *Sortedness) Observe(f trace.Frame, index int) {
	s.ordered, s.pairs = 0, 0
	for i := 1; i < len(f.Array); i++ {
		s.pairs++
		if f.Array[i-1] <= f.Array[i] {
			s.ordered++
		}
	}
}

func (s *Sortedness) Value() float64 {
	if s.pairs == 0 {
		return 1.0
	}
	return float64(s.ordered) / float64(s.pairs)
}

func (s *Sortedness) Reset() {
	s.ordered = 0
	s.pairs = 0
}
