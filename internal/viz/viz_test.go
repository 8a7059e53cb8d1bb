package viz

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/engine"
	"github.com/san-kum/algoviz/internal/runner"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

func TestRenderBars(t *testing.T) {
	out := RenderBars([]float64{1, 2, 4}, trace.None{}, 4, 1, ThemeDefault)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	// tallest bar fills every row
	for i, line := range lines {
		if !strings.HasSuffix(line, "█") {
			t.Errorf("row %d: expected full block for the tallest bar, got %q", i, line)
		}
	}
	if strings.Count(out, "█") != 4+2+1 {
		t.Errorf("unexpected block count in\n%s", out)
	}
}

func TestRenderBars_Empty(t *testing.T) {
	if RenderBars(nil, nil, 4, 1, ThemeDefault) != "" {
		t.Error("expected empty output")
	}
}

func TestRoleColor(t *testing.T) {
	th := ThemeDefault
	if th.RoleColor(trace.RoleSwap) != th.Swap {
		t.Error("swap should use the swap colour")
	}
	if th.RoleColor(trace.RoleSorted) != th.Sorted {
		t.Error("sorted should use the sorted colour")
	}
	if th.RoleColor(trace.RoleDefault) != th.Bar {
		t.Error("default should use the bar colour")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nonexistent").Name != "default" {
		t.Error("unknown theme should fall back to default")
	}
	names := ThemeNames()
	if NextTheme(names[len(names)-1]).Name != names[0] {
		t.Error("theme cycling should wrap")
	}
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Speed = time.Millisecond
	opts.MinSpeed = time.Millisecond
	opts.MinDelay = 0
	opts.FlashDuration = time.Millisecond

	m, err := NewModel(context.Background(), Options{
		Runner: runner.NewLocal(0),
		Engine: opts,
		Array:  config.ArrayConfig{Preset: "reversed", Size: 12, Min: 5, Max: 104, Seed: 1},
	})
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func waitState(t *testing.T, e *engine.Engine, want engine.State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if e.Snapshot().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("engine did not reach %s, at %s", want, e.Snapshot().State)
}

func TestModel_StartPlaysToFinish(t *testing.T) {
	m := newTestModel(t)
	if len(m.Input()) != 12 {
		t.Fatalf("expected generated input of 12, got %d", len(m.Input()))
	}

	press(m, "s")
	waitState(t, m.primary, engine.Finished)

	arr := m.primary.Snapshot().Array
	for i := 1; i < len(arr); i++ {
		if arr[i-1] > arr[i] {
			t.Fatalf("not sorted: %v", arr)
		}
	}
	if !strings.Contains(m.View(), "BUBBLE SORT") {
		t.Error("view should name the algorithm")
	}
}

func TestModel_AlgorithmAndSpeedKeys(t *testing.T) {
	m := newTestModel(t)

	press(m, "3")
	if m.primary.Snapshot().Algorithm != sorts.Quick {
		t.Error("3 should select quick sort")
	}

	m.primary.SetSpeed(50 * time.Millisecond)
	press(m, "up")
	if got := m.primary.Snapshot().Speed; got != 40*time.Millisecond {
		t.Errorf("up should lower the delay to 40ms, got %v", got)
	}
	press(m, "down")
	press(m, "down")
	if got := m.primary.Snapshot().Speed; got != 60*time.Millisecond {
		t.Errorf("down should raise the delay to 60ms, got %v", got)
	}
}

func TestModel_RegenerateAndTheme(t *testing.T) {
	m := newTestModel(t)
	m.opts.Array.Seed = 99
	m.opts.Array.Preset = "sorted"

	press(m, "r")
	in := m.Input()
	for i := 1; i < len(in); i++ {
		if in[i-1] > in[i] {
			t.Fatalf("expected sorted preset after r, got %v", in)
		}
	}

	before := m.theme.Name
	press(m, "t")
	if m.theme.Name == before {
		t.Error("t should change theme")
	}

	press(m, "?")
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("? should show help")
	}
}

func TestModel_CompareMode(t *testing.T) {
	m := newTestModel(t)

	press(m, "c")
	if !m.compare || m.pair == nil {
		t.Fatal("c should enable compare mode")
	}
	if m.pair.Left.Snapshot().Algorithm != sorts.Bubble || m.pair.Right.Snapshot().Algorithm != sorts.Merge {
		t.Errorf("unexpected pair: %s vs %s", m.pair.Left.Snapshot().Algorithm, m.pair.Right.Snapshot().Algorithm)
	}

	press(m, "s")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.pair.Wait(ctx); err != nil {
		t.Fatalf("pair did not finish: %v", err)
	}

	l, r := m.pair.Left.Snapshot(), m.pair.Right.Snapshot()
	if l.State != engine.Finished || r.State != engine.Finished {
		t.Errorf("expected both finished, got %s and %s", l.State, r.State)
	}
	view := m.View()
	if !strings.Contains(view, "BUBBLE SORT") || !strings.Contains(view, "MERGE SORT") {
		t.Error("compare view should show both algorithms")
	}

	press(m, "c")
	if m.compare {
		t.Error("c should leave compare mode")
	}
}

func TestModel_StepWhilePaused(t *testing.T) {
	tr, err := sorts.Generate([]float64{5, 3, 4, 1, 2}, sorts.Bubble, 0)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewModel(context.Background(), Options{
		Runner:       runner.NewLocal(0),
		Engine:       engine.DefaultOptions(),
		Restore:      tr,
		RestoreIndex: 0,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer m.primary.Stop()

	press(m, "n")
	press(m, "n")
	if got := m.primary.Snapshot().Index; got != 2 {
		t.Errorf("expected index 2 after two steps, got %d", got)
	}
	press(m, "b")
	if got := m.primary.Snapshot().Index; got != 1 {
		t.Errorf("expected index 1 after stepping back, got %d", got)
	}
	press(m, "]")
	if got := m.primary.Snapshot().Index; got != 11 {
		t.Errorf("expected index 11 after scrubbing, got %d", got)
	}
	press(m, "]")
	if got := m.primary.Snapshot().Index; got != 18 {
		t.Errorf("expected scrub to clamp at 18, got %d", got)
	}
}

func TestModel_RetryAfterError(t *testing.T) {
	var calls atomic.Int32
	flaky := engine.RunnerFunc(func(_ context.Context, input []float64, kind sorts.Kind) (*trace.Trace, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return sorts.Generate(input, kind, 0)
	})

	opts := engine.DefaultOptions()
	opts.Speed = time.Millisecond
	opts.MinSpeed = time.Millisecond
	opts.MinDelay = 0
	opts.FlashDuration = time.Millisecond
	m, err := NewModel(context.Background(), Options{
		Runner: flaky,
		Engine: opts,
		Input:  []float64{5, 3, 4, 1, 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	press(m, "s")
	waitDone(t, m.primary)
	if m.primary.Snapshot().Error == "" {
		t.Fatal("expected an error after the failed fetch")
	}
	if !strings.Contains(m.View(), "press s to retry") {
		t.Error("view should offer a retry")
	}

	press(m, "s")
	waitState(t, m.primary, engine.Finished)
	v := m.primary.Snapshot()
	if v.Error != "" {
		t.Errorf("expected error cleared, got %q", v.Error)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 fetches, got %d", calls.Load())
	}
	if got := v.Array; len(got) != 5 || got[0] != 1 || got[4] != 5 {
		t.Errorf("expected the original input sorted, got %v", got)
	}
}

func TestModel_StopThenContinue(t *testing.T) {
	m := newTestModel(t)
	m.primary.SetSpeed(20 * time.Millisecond)

	press(m, "s")
	waitState(t, m.primary, engine.Running)
	deadline := time.Now().Add(5 * time.Second)
	for m.primary.Snapshot().Index < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	press(m, "x")
	stopped := m.primary.Snapshot()
	if stopped.State != engine.Idle {
		t.Fatalf("expected idle after x, got %s", stopped.State)
	}
	if len(stopped.Frames) == 0 || stopped.Index >= len(stopped.Frames)-1 {
		t.Fatalf("expected frames kept mid-way, index %d of %d", stopped.Index, len(stopped.Frames))
	}
	if !strings.Contains(m.View(), "STOPPED") {
		t.Error("view should show the stopped state")
	}

	m.primary.SetSpeed(time.Millisecond)
	press(m, "s")
	waitState(t, m.primary, engine.Finished)
	v := m.primary.Snapshot()
	if len(v.Frames) != len(stopped.Frames) || v.Index != len(v.Frames)-1 {
		t.Errorf("expected to finish the kept %d frames, got index %d of %d", len(stopped.Frames), v.Index, len(v.Frames))
	}
	if v.Comparisons < stopped.Comparisons {
		t.Errorf("counters went back: %d < %d", v.Comparisons, stopped.Comparisons)
	}
}

func TestModel_StopTwiceClears(t *testing.T) {
	m := newTestModel(t)
	m.primary.SetSpeed(20 * time.Millisecond)

	press(m, "s")
	waitState(t, m.primary, engine.Running)
	press(m, "x")
	press(m, "x")

	v := m.primary.Snapshot()
	if v.State != engine.Idle || len(v.Frames) != 0 {
		t.Errorf("expected idle with no frames, got %s with %d", v.State, len(v.Frames))
	}
}

func waitDone(t *testing.T, e *engine.Engine) {
	t.Helper()
	select {
	case <-e.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
}
