package viz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/engine"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/trace"
)

const (
	refreshRate = time.Second / 30
	speedStep   = 10 * time.Millisecond
	scrubStep   = 10
	barRows     = 14
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type Options struct {
	Runner  engine.Runner
	Engine  engine.Options
	Array   config.ArrayConfig
	Input   []float64
	Compare sorts.Kind
	Theme   string
	// StartCompare opens in side by side mode. Ignored with Restore.
	StartCompare bool
	// Restore, when set, is loaded paused at RestoreIndex instead of
	// waiting for a start.
	Restore      *trace.Trace
	RestoreIndex int
}

// Model is the bubbletea player. It renders engine snapshots and forwards
// key presses as engine operations.
type Model struct {
	ctx           context.Context
	opts          Options
	primary       *engine.Engine
	pair          *engine.Pair
	compare       bool
	input         []float64
	theme         Theme
	showHelp      bool
	notice        string
	frame         int
	width, height int
}

func NewModel(ctx context.Context, opts Options) (*Model, error) {
	if opts.Compare == "" {
		opts.Compare = sorts.Merge
	}
	m := &Model{
		ctx:     ctx,
		opts:    opts,
		primary: engine.New(opts.Runner, opts.Engine),
		theme:   GetTheme(opts.Theme),
		width:   100,
		height:  30,
	}

	switch {
	case opts.Restore != nil:
		if err := m.primary.Load(ctx, opts.Restore, opts.RestoreIndex); err != nil {
			return nil, err
		}
		m.input = m.primary.Snapshot().Input
	case len(opts.Input) > 0:
		m.input = slices.Clone(opts.Input)
	default:
		if err := m.regenerate(); err != nil {
			return nil, err
		}
	}
	if opts.StartCompare && opts.Restore == nil {
		m.toggleCompare()
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m *Model) engines() []*engine.Engine {
	if m.compare {
		return []*engine.Engine{m.pair.Left, m.pair.Right}
	}
	return []*engine.Engine{m.primary}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.notice = ""
	switch msg.String() {
	case "q", "ctrl+c":
		for _, e := range m.engines() {
			e.Stop()
		}
		return tea.Quit
	case " ":
		for _, e := range m.engines() {
			e.TogglePause()
		}
	case "s", "enter":
		m.start()
	case "x":
		m.stop()
	case "r":
		for _, e := range m.engines() {
			e.Stop()
		}
		if err := m.regenerate(); err != nil {
			m.notice = err.Error()
		}
	case "n", "right":
		for _, e := range m.engines() {
			e.StepForward()
		}
	case "b", "left":
		for _, e := range m.engines() {
			e.StepBackward()
		}
	case "]":
		m.scrub(scrubStep)
	case "[":
		m.scrub(-scrubStep)
	case "up":
		m.setSpeed(m.engines()[0].Snapshot().Speed - speedStep)
	case "down":
		m.setSpeed(m.engines()[0].Snapshot().Speed + speedStep)
	case "1":
		m.selectAlgorithm(sorts.Bubble)
	case "2":
		m.selectAlgorithm(sorts.Merge)
	case "3":
		m.selectAlgorithm(sorts.Quick)
	case "c":
		m.toggleCompare()
	case "t":
		m.theme = NextTheme(m.theme.Name)
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

// start retries a failed fetch, continues frames kept by a stop, or starts
// a new playback of the current input, per engine.
func (m *Model) start() {
	var err error
	if m.compare && !pending(m.pair.Left.Snapshot()) && !pending(m.pair.Right.Snapshot()) {
		err = m.pair.Start(m.ctx, m.input)
	} else {
		var errs []error
		for _, e := range m.engines() {
			errs = append(errs, m.startEngine(e))
		}
		err = errors.Join(errs...)
	}
	if err != nil {
		m.notice = err.Error()
	}
}

func (m *Model) startEngine(e *engine.Engine) error {
	v := e.Snapshot()
	switch {
	case v.Error != "":
		return e.Retry(m.ctx)
	case resumable(v):
		return e.Continue(m.ctx)
	}
	return e.Start(m.ctx, m.input)
}

// pending reports a view that s picks up instead of starting over.
func pending(v engine.ViewState) bool { return v.Error != "" || resumable(v) }

func resumable(v engine.ViewState) bool {
	return v.State == engine.Idle && len(v.Frames) > 0 && v.Index < len(v.Frames)-1
}

// stop halts playback keeping the frames, so s continues from the same
// frame. Stopping an already stopped engine drops them.
func (m *Model) stop() {
	for _, e := range m.engines() {
		if e.Snapshot().State == engine.Idle {
			e.Stop()
			continue
		}
		e.StopPreserving()
	}
}

func (m *Model) scrub(delta int) {
	for _, e := range m.engines() {
		v := e.Snapshot()
		if !v.Paused() || len(v.Frames) == 0 {
			continue
		}
		_ = e.ScrubTo(max(0, min(v.Index+delta, len(v.Frames)-1)))
	}
}

func (m *Model) setSpeed(d time.Duration) {
	if m.compare {
		m.pair.SetSpeed(d)
		return
	}
	m.primary.SetSpeed(d)
}

func (m *Model) selectAlgorithm(kind sorts.Kind) {
	if m.compare {
		m.pair.Left.SetAlgorithm(kind)
		m.pair.Right.Stop()
		return
	}
	m.primary.SetAlgorithm(kind)
}

func (m *Model) toggleCompare() {
	for _, e := range m.engines() {
		e.Stop()
	}
	m.compare = !m.compare
	if !m.compare {
		return
	}
	left := m.primary.Snapshot().Algorithm
	right := m.opts.Compare
	if right == left {
		right = sorts.Quick
		if left == sorts.Quick {
			right = sorts.Merge
		}
	}
	speed := m.primary.Snapshot().Speed
	m.pair = engine.NewPair(m.opts.Runner, m.opts.Engine, left, right)
	m.pair.SetSpeed(speed)
}

func (m *Model) regenerate() error {
	arr, err := config.GenerateArray(m.opts.Array)
	if err != nil {
		return err
	}
	m.input = arr
	return nil
}

// Input returns the array the next start will sort.
func (m *Model) Input() []float64 { return slices.Clone(m.input) }

func (m *Model) View() string {
	var panels []string
	engines := m.engines()
	panelWidth := m.width - 4
	if len(engines) > 1 {
		panelWidth = m.width/2 - 4
	}
	for _, e := range engines {
		panels = append(panels, m.viewEngine(e.Snapshot(), panelWidth))
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("ALGOVIZ") + "  " + subtle.Render(fmt.Sprintf("n=%d  theme=%s", len(m.input), m.theme.Name)) + "\n")
	s.WriteString(Separator(m.width-4) + "\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...) + "\n")
	s.WriteString(Legend(m.theme) + "\n")
	if m.notice != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause S:Start/Continue X:Stop R:New array N/B:Step [ ]:Scrub ↑↓:Speed 1-3:Algorithm C:Compare T:Theme ?:Help Q:Quit"))

	if m.showHelp {
		return helpOverlay + "\n\n" + s.String()
	}
	return s.String()
}

func (m *Model) viewEngine(v engine.ViewState, width int) string {
	var s strings.Builder

	name := string(v.Algorithm)
	if algo, err := sorts.Lookup(v.Algorithm); err == nil {
		info := algo.Info()
		name = info.Name
		s.WriteString(titleStyle.Render(strings.ToUpper(name)) + "\n")
		s.WriteString(subtle.Render(infoLine(info)) + "\n")
	} else {
		s.WriteString(titleStyle.Render(strings.ToUpper(name)) + "\n")
	}
	s.WriteString(m.status(v) + "\n\n")

	arr := v.Array
	if len(arr) == 0 {
		arr = m.input
	}
	colWidth := 1
	if len(arr) > 0 {
		colWidth = max(1, width/len(arr))
	}
	s.WriteString(RenderBars(arr, v.Highlight, barRows, colWidth, m.theme) + "\n\n")

	if len(v.Frames) > 0 {
		s.WriteString(ProgressBar(v.Progress(), min(width, 40)) + "\n")
	}
	s.WriteString(labelStyle.Render("Comparisons") + valueStyle.Render(fmt.Sprintf("%d", v.Comparisons)) + "\n")
	s.WriteString(labelStyle.Render("Swaps") + valueStyle.Render(fmt.Sprintf("%d", v.Swaps)) + "\n")
	if len(v.Frames) > 0 {
		s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d / %d", v.Index+1, len(v.Frames))) + "\n")
	}
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(v.Speed.String()) + "\n")
	if v.TimeComplexity != "" {
		s.WriteString(labelStyle.Render("Complexity") + valueStyle.Render(v.TimeComplexity) + "\n")
		s.WriteString(labelStyle.Render("Exec time") + valueStyle.Render(fmt.Sprintf("%.3fms", v.ExecutionTimeMs)) + "\n")
	}
	if chart := countersChart(v, min(width, 40)); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if v.Warning != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warning).Render(v.Warning) + "\n")
	}
	if v.Error != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Error).Render("Error: "+v.Error+" (press s to retry)") + "\n")
	}

	return panelStyle.Width(width).Render(s.String())
}

func (m *Model) status(v engine.ViewState) string {
	switch v.State {
	case engine.Loading:
		return statusRunning.Render(AnimatedSpinner(m.frame) + " LOADING")
	case engine.Running:
		return statusRunning.Render(AnimatedSpinner(m.frame) + " SORTING")
	case engine.Paused:
		return statusPaused.Render("PAUSED")
	case engine.Finished:
		return statusRunning.Render("DONE")
	}
	if resumable(v) {
		return statusIdle.Render("STOPPED (s to continue)")
	}
	return statusIdle.Render("IDLE")
}

func infoLine(info sorts.Info) string {
	stable := "unstable"
	if info.Stable {
		stable = "stable"
	}
	return fmt.Sprintf("best %s  avg %s  worst %s  space %s  %s", info.Best, info.Average, info.Worst, info.Space, stable)
}

// countersChart plots comparisons and swaps up to the current frame.
func countersChart(v engine.ViewState, width int) string {
	if len(v.Frames) < 2 || v.Index < 1 {
		return ""
	}
	end := min(v.Index+1, len(v.Frames))
	comparisons := make([]float64, end)
	swaps := make([]float64, end)
	for i, f := range v.Frames[:end] {
		comparisons[i] = float64(f.Comparisons)
		swaps[i] = float64(f.Swaps)
	}
	return asciigraph.PlotMany([][]float64{comparisons, swaps},
		asciigraph.Height(4),
		asciigraph.Width(max(width-8, 10)),
		asciigraph.SeriesColors(asciigraph.Yellow, asciigraph.Red),
		asciigraph.Caption("comparisons / swaps"),
	)
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume playback    ║
║  S/Enter  - Start, continue or retry ║
║  X        - Stop (twice to clear)    ║
║  R        - Generate a new array     ║
║  N/Right  - Step forward (paused)    ║
║  B/Left   - Step backward (paused)   ║
║  [ ]      - Scrub 10 frames (paused) ║
║  Up/Down  - Faster/slower (10ms)     ║
║  1 2 3    - Bubble, merge, quick     ║
║  C        - Toggle compare mode      ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run starts the player on the terminal.
func Run(ctx context.Context, opts Options) error {
	m, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
