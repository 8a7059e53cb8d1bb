package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

func generate(t *testing.T, kind sorts.Kind, input []float64) *trace.Trace {
	t.Helper()
	tr, err := sorts.Generate(input, kind, 0)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	return tr
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr := generate(t, sorts.Bubble, []float64{5, 3, 4, 1, 2})

	runID, err := st.Save(tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "bubble_") {
		t.Errorf("expected bubble_ prefix, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Algorithm != "bubble" {
		t.Errorf("expected algorithm 'bubble', got '%s'", meta.Algorithm)
	}
	if meta.Frames != 19 || meta.Length != 5 {
		t.Errorf("expected 19 frames of length 5, got %d/%d", meta.Frames, meta.Length)
	}
	if meta.Metrics["swaps"] != 8 {
		t.Errorf("expected 8 swaps, got %f", meta.Metrics["swaps"])
	}
	if meta.Metrics["sortedness"] != 1 {
		t.Errorf("expected sortedness 1, got %f", meta.Metrics["sortedness"])
	}
}

func TestStoreLoadTrace(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	for _, kind := range sorts.Kinds() {
		tr := generate(t, kind, []float64{9, 1.5, 8, 2, 7, 3, 3})
		runID, err := st.Save(tr)
		if err != nil {
			t.Fatalf("%s: save failed: %v", kind, err)
		}

		got, err := st.LoadTrace(runID)
		if err != nil {
			t.Fatalf("%s: load trace failed: %v", kind, err)
		}
		if len(got.Frames) != len(tr.Frames) {
			t.Fatalf("%s: expected %d frames, got %d", kind, len(tr.Frames), len(got.Frames))
		}
		for i := range tr.Frames {
			if !got.Frames[i].Equal(tr.Frames[i]) || got.Frames[i].Swaps != tr.Frames[i].Swaps ||
				got.Frames[i].Comparisons != tr.Frames[i].Comparisons {
				t.Errorf("%s: frame %d differs: %+v vs %+v", kind, i, got.Frames[i], tr.Frames[i])
			}
		}
		if got.TimeComplexity != tr.TimeComplexity {
			t.Errorf("%s: complexity %q, want %q", kind, got.TimeComplexity, tr.TimeComplexity)
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(generate(t, sorts.Quick, []float64{1})); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(generate(t, sorts.Merge, []float64{2, 1})); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreLoad_NotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.LoadTrace("bubble_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSave_RejectsInvalidTrace(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save(&trace.Trace{}); !errors.Is(err, trace.ErrInvalidTrace) {
		t.Errorf("expected ErrInvalidTrace, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(generate(t, sorts.Bubble, []float64{2, 1}))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		t.Fatalf("frames.csv not readable: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "comparisons,swaps,highlight,v0,v1" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("expected header plus 3 frames, got %d lines", len(lines))
	}
}

func TestExportJSON(t *testing.T) {
	tr := generate(t, sorts.Merge, []float64{2, 1})

	path := filepath.Join(t.TempDir(), "trace.json")
	if err := ExportJSON(path, tr); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var resp trace.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("exported file is not a response: %v", err)
	}
	if resp.TimeComplexity != "O(n log n)" || len(resp.Frames) != len(tr.Frames) {
		t.Errorf("unexpected export: %+v", resp)
	}

	var buf bytes.Buffer
	if err := ExportJSONTo(&buf, tr); err != nil {
		t.Fatalf("export to writer failed: %v", err)
	}
	if !bytes.Equal(bytes.TrimSpace(buf.Bytes()), bytes.TrimSpace(data)) {
		t.Error("file and writer exports differ")
	}
}
