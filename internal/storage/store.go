package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

// ErrNotFound indicates an unknown run id.
var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Algorithm       string             `json:"algorithm"`
	Timestamp       time.Time          `json:"timestamp"`
	Length          int                `json:"length"`
	Frames          int                `json:"frames"`
	TimeComplexity  string             `json:"timeComplexity"`
	ExecutionTimeMs float64            `json:"executionTimeMs"`
	Input           []float64          `json:"input"`
	Permutation     []int              `json:"permutation,omitempty"`
	Metrics         map[string]float64 `json:"metrics"`
}

// Save writes t as <algorithm>_<id>/metadata.json and frames.csv.
func (s *Store) Save(t *trace.Trace) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	algo := t.Algorithm
	if algo == "" {
		algo = "trace"
	}
	runID := fmt.Sprintf("%s_%s", algo, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Algorithm:       t.Algorithm,
		Timestamp:       time.Now(),
		Length:          len(t.Frames[0].Array),
		Frames:          len(t.Frames),
		TimeComplexity:  t.TimeComplexity,
		ExecutionTimeMs: t.ExecutionTimeMs,
		Input:           t.Frames[0].Array,
		Permutation:     t.Permutation,
		Metrics:         metrics.Summarize(t, metrics.Defaults()...),
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), t.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []trace.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"comparisons", "swaps", "highlight"}
	for i := range frames[0].Array {
		header = append(header, fmt.Sprintf("v%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		h, err := trace.EncodeHighlight(fr.Highlight)
		if err != nil {
			return err
		}
		row := []string{strconv.Itoa(fr.Comparisons), strconv.Itoa(fr.Swaps), string(h)}
		for _, v := range fr.Array {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns stored runs, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace rebuilds the full trace of a stored run.
func (s *Store) LoadTrace(runID string) (*trace.Trace, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}

	t := &trace.Trace{
		Algorithm:       meta.Algorithm,
		Frames:          frames,
		TimeComplexity:  meta.TimeComplexity,
		ExecutionTimeMs: meta.ExecutionTimeMs,
		Permutation:     meta.Permutation,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) LoadFrames(runID string) ([]trace.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []trace.Frame{}, nil
	}

	frames := make([]trace.Frame, 0, len(records)-1)
	for i, record := range records[1:] {
		f, err := parseFrame(record)
		if err != nil {
			return nil, &trace.MalformedError{Frame: i, Reason: err.Error()}
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func parseFrame(record []string) (trace.Frame, error) {
	if len(record) < 4 {
		return trace.Frame{}, fmt.Errorf("expected at least 4 columns, got %d", len(record))
	}
	comparisons, err := strconv.Atoi(record[0])
	if err != nil {
		return trace.Frame{}, err
	}
	swaps, err := strconv.Atoi(record[1])
	if err != nil {
		return trace.Frame{}, err
	}
	h, err := trace.DecodeHighlight([]byte(record[2]))
	if err != nil {
		return trace.Frame{}, err
	}

	arr := make([]float64, 0, len(record)-3)
	for _, field := range record[3:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return trace.Frame{}, err
		}
		arr = append(arr, v)
	}
	return trace.Frame{Array: arr, Comparisons: comparisons, Swaps: swaps, Highlight: h}, nil
}

// ExportJSON writes t in the HTTP response format to path.
func ExportJSON(path string, t *trace.Trace) error {
	return writeJSON(path, trace.NewResponse(t))
}

// ExportJSONTo writes t in the HTTP response format to w.
func ExportJSONTo(w io.Writer, t *trace.Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(trace.NewResponse(t))
}
