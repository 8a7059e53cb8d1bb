package config

import (
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"time"
)

// Preset shapes a generated input array.
type Preset struct {
	Description string
	shape       func(rng *rand.Rand, arr []float64)
}

var Presets = map[string]Preset{
	"random": {
		Description: "uniform random values",
	},
	"sorted": {
		Description: "already ascending",
		shape: func(_ *rand.Rand, arr []float64) {
			slices.Sort(arr)
		},
	},
	"reversed": {
		Description: "descending, worst case for bubble sort",
		shape: func(_ *rand.Rand, arr []float64) {
			slices.Sort(arr)
			slices.Reverse(arr)
		},
	},
	"nearly-sorted": {
		Description: "ascending with a few adjacent swaps",
		shape: func(rng *rand.Rand, arr []float64) {
			slices.Sort(arr)
			for k := 0; k < max(1, len(arr)/10); k++ {
				i := rng.Intn(len(arr) - 1)
				arr[i], arr[i+1] = arr[i+1], arr[i]
			}
		},
	},
	"few-unique": {
		Description: "values drawn from four distinct levels",
		shape: func(rng *rand.Rand, arr []float64) {
			lo, hi := slices.Min(arr), slices.Max(arr)
			step := (hi - lo) / 3
			for i := range arr {
				arr[i] = lo + float64(rng.Intn(4))*step
			}
		},
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GenerateArray builds an input array from c. Values are integers in
// [Min, Max]. A zero Seed uses the clock.
func GenerateArray(c ArrayConfig) ([]float64, error) {
	p, ok := GetPreset(c.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown array preset: %s", c.Preset)
	}
	if c.Size < 1 {
		return nil, fmt.Errorf("array size must be positive, got %d", c.Size)
	}
	lo, hi := c.Min, c.Max
	if hi < lo {
		lo, hi = hi, lo
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	arr := make([]float64, c.Size)
	for i := range arr {
		arr[i] = float64(lo + rng.Intn(hi-lo+1))
	}
	if p.shape != nil && len(arr) > 1 {
		p.shape(rng, arr)
	}
	return arr, nil
}
