package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/algoviz/internal/config"
	"github.com/san-kum/algoviz/internal/engine"
	"github.com/san-kum/algoviz/internal/runner"
	"github.com/san-kum/algoviz/internal/sorts"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logJSON    bool
	// input selection, shared by trace and play
	arrayFlag string
	preset    string
	size      int
	seed      int64
	// remote backend URL; empty runs in process
	remote string
	// playback
	speedMs   int
	maxFrames int
	theme     string
	compare   bool
	restoreID string
	frameIdx  int
	// serve
	addr        string
	maxLen      int
	record      bool
	allowOrigin string
	// output
	outPath  string
	format   string
	svgFrame int
	asJSON   bool
	save     bool
	// bench
	sizeMin   int
	sizeMax   int
	numSteps  int
	trials    int
	benchSeed int64

	cfg *config.Config
)

// main registers commands and flags, opens the player when no subcommand is
// given, and exits with status 1 if the command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "algoviz",
		Short: "sorting algorithm visualizer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			return loadConfig(cmd)
		},
		RunE: runPlay,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	addPlayFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve traces over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().IntVar(&maxLen, "max-len", sorts.DefaultMaxArrayLength, "maximum array length")
	serveCmd.Flags().BoolVar(&record, "record", false, "store every generated trace")
	serveCmd.Flags().StringVar(&allowOrigin, "allow-origin", "*", "CORS allowed origin")

	traceCmd := &cobra.Command{
		Use:   "trace [algorithm] [values...]",
		Short: "generate a trace and print its summary",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTrace,
	}
	addInputFlags(traceCmd)
	traceCmd.Flags().StringVar(&remote, "remote", "", "backend URL (default: in process)")
	traceCmd.Flags().BoolVar(&save, "save", false, "store the trace")
	traceCmd.Flags().BoolVar(&asJSON, "json", false, "print the trace as JSON")

	playCmd := &cobra.Command{
		Use:   "play [algorithm]",
		Short: "play a trace in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	addPlayFlags(playCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored traces",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored trace as json, svg or gif",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, svg, counters or gif")
	exportCmd.Flags().IntVar(&svgFrame, "frame", -1, "frame to render for svg (default: last)")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a batch of traces from a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&remote, "remote", "", "backend URL (default: in process)")

	infoCmd := &cobra.Command{
		Use:   "info [algorithm]",
		Short: "show algorithm reference cards",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showInfo,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure counters across input sizes",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().StringVar(&preset, "preset", "random", "array preset")
	benchCmd.Flags().IntVar(&sizeMin, "min", 10, "smallest size")
	benchCmd.Flags().IntVar(&sizeMax, "max", 200, "largest size")
	benchCmd.Flags().IntVar(&numSteps, "steps", 5, "number of sizes")
	benchCmd.Flags().IntVar(&trials, "trials", 3, "arrays per size")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "random seed")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list array presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-14s %s\n", name, p.Description)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "algoviz.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, traceCmd, playCmd, listCmd, showCmd, exportCmd, scenarioCmd, infoCmd, benchCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&arrayFlag, "array", "", "comma separated values")
	cmd.Flags().StringVar(&preset, "preset", "random", "array preset (see presets)")
	cmd.Flags().IntVar(&size, "size", config.DefaultArraySize, "generated array size")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: clock)")
}

func addPlayFlags(cmd *cobra.Command) {
	addInputFlags(cmd)
	cmd.Flags().StringVar(&remote, "remote", "", "backend URL (default: in process)")
	cmd.Flags().IntVar(&speedMs, "speed", config.DefaultSpeedMs, "delay per frame in ms")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 5000, "frame cap")
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme")
	cmd.Flags().BoolVar(&compare, "compare", false, "start in compare mode")
	cmd.Flags().StringVar(&restoreID, "run", "", "restore a stored trace, paused")
	cmd.Flags().IntVar(&frameIdx, "frame", 0, "frame to restore at")
}

func setupLogging() {
	level := slog.LevelInfo
	_ = level.UnmarshalText([]byte(logLevel))
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if logJSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

// loadConfig reads the config file, then lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("addr") {
		cfg.Server.Addr = addr
	}
	if flags.Changed("max-len") {
		cfg.Server.MaxArrayLength = maxLen
	}
	if flags.Changed("record") {
		cfg.Server.Record = record
	}
	if flags.Changed("allow-origin") {
		cfg.Server.AllowOrigin = allowOrigin
	}
	if flags.Changed("speed") {
		cfg.Playback.SpeedMs = speedMs
	}
	if flags.Changed("max-frames") {
		cfg.Playback.MaxFrames = maxFrames
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("preset") {
		cfg.Array.Preset = preset
	}
	if flags.Changed("size") {
		cfg.Array.Size = size
	}
	if flags.Changed("seed") {
		cfg.Array.Seed = seed
	}
	cfg.Clamp()
	return nil
}

func newRunner() engine.Runner {
	if remote != "" {
		return runner.NewHTTP(remote)
	}
	return runner.NewLocal(cfg.Server.MaxArrayLength)
}

// resolveInput picks explicit values from args or --array, else generates
// an array from the preset settings.
func resolveInput(values []string) ([]float64, error) {
	if len(values) == 0 && arrayFlag != "" {
		values = strings.Split(arrayFlag, ",")
	}
	if len(values) == 0 {
		return config.GenerateArray(cfg.Array)
	}

	out := make([]float64, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", v, err)
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, errors.New("no values given")
	}
	return out, nil
}
