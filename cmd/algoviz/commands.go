package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/automation"
	"github.com/san-kum/algoviz/internal/export"
	"github.com/san-kum/algoviz/internal/metrics"
	"github.com/san-kum/algoviz/internal/server"
	"github.com/san-kum/algoviz/internal/sorts"
	"github.com/san-kum/algoviz/internal/storage"
	"github.com/san-kum/algoviz/internal/viz"
)

func openStore() (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, fmt.Errorf("failed to open data dir: %w", err)
	}
	return st, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	scfg := server.Config{
		Addr:           cfg.Server.Addr,
		MaxArrayLength: cfg.Server.MaxArrayLength,
		AllowOrigin:    cfg.Server.AllowOrigin,
		Logger:         slog.Default(),
	}
	if cfg.Server.Record {
		st, err := openStore()
		if err != nil {
			return err
		}
		scfg.Recorder = st
	}

	return server.New(scfg).Run(cmd.Context())
}

func runTrace(cmd *cobra.Command, args []string) error {
	kind, err := sorts.ParseKind(args[0])
	if err != nil {
		return err
	}
	input, err := resolveInput(args[1:])
	if err != nil {
		return err
	}

	tr, err := newRunner().RunTrace(cmd.Context(), input, kind)
	if err != nil {
		return err
	}

	if asJSON {
		return storage.ExportJSONTo(os.Stdout, tr)
	}

	last := tr.Last()
	fmt.Printf("%s sort  %s\n", kind, tr.TimeComplexity)
	fmt.Printf("  input:       %s\n", formatArray(input))
	fmt.Printf("  output:      %s\n", formatArray(last.Array))
	fmt.Printf("  frames:      %d\n", len(tr.Frames))
	fmt.Printf("  comparisons: %d\n", last.Comparisons)
	fmt.Printf("  swaps:       %d\n", last.Swaps)
	fmt.Printf("  time:        %.3f ms\n", tr.ExecutionTimeMs)

	if save {
		st, err := openStore()
		if err != nil {
			return err
		}
		id, err := st.Save(tr)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", id)
	}
	return nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg.Algorithm = args[0]
	}
	if _, err := cfg.AlgorithmKind(); err != nil {
		return err
	}
	other, err := cfg.CompareKind()
	if err != nil {
		return err
	}

	// keep log output off the alt screen
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	eopts := cfg.EngineOptions()
	eopts.Logger = quiet

	opts := viz.Options{
		Runner:       newRunner(),
		Engine:       eopts,
		Array:        cfg.Array,
		Compare:      other,
		Theme:        cfg.Theme,
		StartCompare: compare,
	}

	if restoreID != "" {
		st, err := openStore()
		if err != nil {
			return err
		}
		tr, err := st.LoadTrace(restoreID)
		if err != nil {
			return err
		}
		opts.Restore = tr
		opts.RestoreIndex = frameIdx
	} else if arrayFlag != "" {
		input, err := resolveInput(nil)
		if err != nil {
			return err
		}
		opts.Input = input
	}

	slog.SetDefault(quiet)
	return viz.Run(cmd.Context(), opts)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tLENGTH\tFRAMES\tCOMPARISONS\tSWAPS\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.0f\t%.0f\t%s\n",
			r.ID, r.Algorithm, r.Length, r.Frames,
			r.Metrics["comparisons"], r.Metrics["swaps"],
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	n := len(tr.Frames)
	cmps := make([]float64, n)
	swaps := make([]float64, n)
	order := make([]float64, n)
	s := metrics.NewSortedness()
	for i, f := range tr.Frames {
		cmps[i] = float64(f.Comparisons)
		swaps[i] = float64(f.Swaps)
		s.Observe(f, i)
		order[i] = s.Value()
	}

	last := tr.Last()
	fmt.Printf("%s  %s  %d frames  %d comparisons  %d swaps\n\n",
		tr.Algorithm, tr.TimeComplexity, n, last.Comparisons, last.Swaps)

	fmt.Println(asciigraph.PlotMany([][]float64{cmps, swaps},
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.SeriesColors(asciigraph.Yellow, asciigraph.Red),
		asciigraph.Caption("comparisons (yellow) / swaps (red)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(order,
		asciigraph.Height(8),
		asciigraph.Width(70),
		asciigraph.Caption("sortedness")))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	tr, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		err = storage.ExportJSONTo(out, tr)
	case "svg":
		idx := svgFrame
		if idx < 0 || idx >= len(tr.Frames) {
			idx = len(tr.Frames) - 1
		}
		_, err = io.WriteString(out, export.FrameToSVG(tr.Frames[idx], 800, 400))
	case "counters":
		_, err = io.WriteString(out, export.CountersToSVG(tr.Frames, 800, 300))
	case "gif":
		if outPath == "" {
			return fmt.Errorf("gif export needs --out")
		}
		err = export.WriteGIF(out, tr.Frames, 640, 320, 4)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "exported %s to %s\n", args[0], outPath)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var saver automation.Saver
	for _, step := range sc.Steps {
		if step.Save {
			st, err := openStore()
			if err != nil {
				return err
			}
			saver = st
			break
		}
	}

	start := time.Now()
	results, err := automation.RunScenario(cmd.Context(), sc, newRunner(), saver)
	if err != nil {
		return err
	}

	fmt.Printf("scenario %s: %d steps in %s\n\n", sc.Name, len(results), time.Since(start).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tALGORITHM\tLENGTH\tFRAMES\tCOMPARISONS\tSWAPS\tSORTEDNESS\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%.2f\t%s\n",
			r.Step, r.Algorithm, r.Length, r.Frames, r.Comparisons, r.Swaps,
			r.Metrics["sortedness"], r.RunID)
	}
	return w.Flush()
}

func showInfo(cmd *cobra.Command, args []string) error {
	kinds := sorts.Kinds()
	if len(args) > 0 {
		k, err := sorts.ParseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []sorts.Kind{k}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tBEST\tAVERAGE\tWORST\tSPACE\tSTABLE\tIN PLACE\tROUTE")
	for _, k := range kinds {
		a, err := sorts.Lookup(k)
		if err != nil {
			return err
		}
		info := a.Info()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t/api/%s\n",
			info.Name, info.Best, info.Average, info.Worst, info.Space,
			yesNo(info.Stable), yesNo(info.InPlace), k.Route())
	}
	return w.Flush()
}

func runBench(cmd *cobra.Command, args []string) error {
	sweep := &automation.Sweep{
		Preset:   preset,
		SizeMin:  sizeMin,
		SizeMax:  sizeMax,
		NumSteps: numSteps,
		Trials:   trials,
		Seed:     benchSeed,
	}
	if sweep.SizeMax > cfg.Server.MaxArrayLength {
		sweep.SizeMax = cfg.Server.MaxArrayLength
	}

	results, err := automation.RunSweep(cmd.Context(), sweep, newRunner())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tSIZE\tCOMPARISONS\tSWAPS\tFRAMES")
	series := map[sorts.Kind][]float64{}
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\n", r.Algorithm, r.Size, r.Comparisons, r.Swaps, r.Frames)
		series[r.Algorithm] = append(series[r.Algorithm], r.Comparisons)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var data [][]float64
	var names []string
	for _, k := range sorts.Kinds() {
		if s, ok := series[k]; ok && len(s) > 1 {
			data = append(data, s)
			names = append(names, string(k))
		}
	}
	if len(data) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("mean comparisons by size: "+strings.Join(names, ", "))))
	}
	return nil
}

func formatArray(a []float64) string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
