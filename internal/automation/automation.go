package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/engine"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

// Scenario defines a batch of traces to generate
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Parallelism int            `yaml:"parallelism"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single trace in a scenario. Array wins over Preset.
type ScenarioStep struct {
	Algorithm string    `yaml:"algorithm"`
	Array     []float64 `yaml:"array"`
	Preset    string    `yaml:"preset"`
	Size      int       `yaml:"size"`
	Min       int       `yaml:"min"`
	Max       int       `yaml:"max"`
	Seed      int64     `yaml:"seed"`
	Save      bool      `yaml:"save"`
}

// StepResult summarizes one executed step
type StepResult struct {
	Step           int                `json:"step"`
	Algorithm      string             `json:"algorithm"`
	Length         int                `json:"length"`
	Frames         int                `json:"frames"`
	Comparisons    int                `json:"comparisons"`
	Swaps          int                `json:"swaps"`
	TimeComplexity string             `json:"timeComplexity"`
	RunID          string             `json:"runId,omitempty"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Saver persists a trace. storage.Store satisfies it.
type Saver interface {
	Save(t *trace.Trace) (string, error)
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Input resolves the array a step sorts.
func (s ScenarioStep) Input() ([]float64, error) {
	if len(s.Array) > 0 {
		return s.Array, nil
	}
	ac := config.DefaultConfig().Array
	if s.Preset != "" {
		ac.Preset = s.Preset
	}
	if s.Size > 0 {
		ac.Size = s.Size
	}
	if s.Min != 0 || s.Max != 0 {
		ac.Min, ac.Max = s.Min, s.Max
	}
	ac.Seed = s.Seed
	return config.GenerateArray(ac)
}

// RunScenario executes all steps, at most Parallelism at a time. Results are
// in step order. The first failing step cancels the rest.
func RunScenario(ctx context.Context, scenario *Scenario, runner engine.Runner, saver Saver) ([]StepResult, error) {
	results := make([]StepResult, len(scenario.Steps))

	limit := scenario.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, step := range scenario.Steps {
		g.Go(func() error {
			kind, err := sorts.ParseKind(step.Algorithm)
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			input, err := step.Input()
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}

			tr, err := runner.RunTrace(gctx, input, kind)
			if err != nil {
				return fmt.Errorf("step %d run: %w", i+1, err)
			}

			res := StepResult{
				Step:           i + 1,
				Algorithm:      string(kind),
				Length:         len(input),
				Frames:         len(tr.Frames),
				Comparisons:    tr.Last().Comparisons,
				Swaps:          tr.Last().Swaps,
				TimeComplexity: tr.TimeComplexity,
				Metrics:        metrics.Summarize(tr, metrics.Defaults()...),
			}

			if step.Save && saver != nil {
				id, err := saver.Save(tr)
				if err != nil {
					return fmt.Errorf("step %d save: %w", i+1, err)
				}
				res.RunID = id
			}

			slog.Debug("scenario step complete", "scenario", scenario.Name, "step", i+1, "algorithm", kind, "frames", res.Frames)
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Sweep measures each algorithm across a range of input sizes
type Sweep struct {
	Algorithms []sorts.Kind
	Preset     string
	SizeMin    int
	SizeMax    int
	NumSteps   int
	Trials     int
	Seed       int64
}

// SweepResult holds mean counters for one algorithm at one size
type SweepResult struct {
	Algorithm   sorts.Kind
	Size        int
	Comparisons float64
	Swaps       float64
	Frames      float64
}

// RunSweep generates Trials arrays per size and averages the counters. Every
// algorithm sees the same arrays at a given size.
func RunSweep(ctx context.Context, sweep *Sweep, runner engine.Runner) ([]SweepResult, error) {
	if sweep.NumSteps < 1 || sweep.SizeMin < 1 || sweep.SizeMax < sweep.SizeMin {
		return nil, fmt.Errorf("invalid sweep range %d..%d in %d steps", sweep.SizeMin, sweep.SizeMax, sweep.NumSteps)
	}
	trials := max(1, sweep.Trials)
	algos := sweep.Algorithms
	if len(algos) == 0 {
		algos = sorts.Kinds()
	}

	sizes := make([]int, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		size := sweep.SizeMin
		if sweep.NumSteps > 1 {
			size += (sweep.SizeMax - sweep.SizeMin) * i / (sweep.NumSteps - 1)
		}
		if len(sizes) == 0 || sizes[len(sizes)-1] != size {
			sizes = append(sizes, size)
		}
	}

	preset := sweep.Preset
	if preset == "" {
		preset = "random"
	}

	results := make([]SweepResult, len(sizes)*len(algos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for si, size := range sizes {
		for ai, kind := range algos {
			g.Go(func() error {
				r := SweepResult{Algorithm: kind, Size: size}
				for trial := 0; trial < trials; trial++ {
					ac := config.DefaultConfig().Array
					ac.Preset = preset
					ac.Size = size
					ac.Seed = sweep.Seed + int64(si*trials+trial) + 1
					input, err := config.GenerateArray(ac)
					if err != nil {
						return err
					}
					tr, err := runner.RunTrace(gctx, input, kind)
					if err != nil {
						return fmt.Errorf("%s at size %d: %w", kind, size, err)
					}
					r.Comparisons += float64(tr.Last().Comparisons)
					r.Swaps += float64(tr.Last().Swaps)
					r.Frames += float64(len(tr.Frames))
				}
				r.Comparisons /= float64(trials)
				r.Swaps /= float64(trials)
				r.Frames /= float64(trials)
				results[si*len(algos)+ai] = r
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Algorithm != results[j].Algorithm {
			return results[i].Algorithm < results[j].Algorithm
		}
		return results[i].Size < results[j].Size
	})
	return results, nil
}
