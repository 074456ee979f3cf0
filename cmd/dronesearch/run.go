package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/dronesearch/internal/config"
	"github.com/san-kum/dronesearch/internal/coverage"
	"github.com/san-kum/dronesearch/internal/experiment"
	"github.com/san-kum/dronesearch/internal/geo"
	"github.com/san-kum/dronesearch/internal/logging"
	"github.com/san-kum/dronesearch/internal/runner"
	"github.com/san-kum/dronesearch/internal/storage"
	"github.com/san-kum/dronesearch/internal/tui"
	"github.com/san-kum/dronesearch/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6bc2e5"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0e0e0"))
)

// resolveConfig builds the run configuration from the preset, then the run
// file, then any flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if flags.Changed("area") {
		area, err := config.ParseArea(areaSpec)
		if err != nil {
			return nil, err
		}
		cfg.Area = area
	}
	if flags.Changed("agents") {
		cfg.Agents = agents
	}
	if flags.Changed("padding") {
		cfg.Padding = padding
	}
	if flags.Changed("resolution") {
		cfg.Resolution = resolution
	}
	if flags.Changed("frame-size") {
		cfg.FrameSize = frameSize
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("threshold") {
		cfg.Threshold = threshold
	}
	if flags.Changed("checkpoint") {
		cfg.Checkpoints = append([]int(nil), checkpoints...)
	}
	if flags.Changed("unit") {
		cfg.Unit = unit
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
		log.Info("wrote run file", "path", saveConfig)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	sim := exp.Simulation()
	log.Debug("search area", "explorable_cells", sim.ExplorableCells(), "scan_radius_cells", sim.ScanCellRadius())
	if sim.ExplorableCells() == 0 {
		log.Warn("search area has no explorable cells; coverage will stay at 0", "vertices", len(cfg.Area))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []runner.Option{
		runner.WithStatus(logging.Status(log, "run", cfg.Name)),
		runner.WithProgress(progressLogger()),
	}
	if watch {
		live := tui.NewLiveRenderer(os.Stdout, sim, cfg.Name, frameRate)
		live.Start()
		defer live.Stop()
		opts = append(opts, runner.WithObserver(live.OnSnapshot))
	}

	res, runErr := exp.Run(ctx, opts...)
	if runErr != nil && !errors.Is(runErr, runner.ErrCanceled) {
		return runErr
	}

	runID, err := st.Save(exp.Metadata(), res)
	if err != nil {
		return err
	}

	printSummary(cfg, runID, res)
	return runErr
}

// progressLogger logs at debug level every 10 percent.
func progressLogger() func(float64) {
	next := 10.0
	return func(pct float64) {
		if pct >= next {
			log.Debug("progress", "percent", fmt.Sprintf("%.0f", pct))
			for next <= pct {
				next += 10
			}
		}
	}
}

func printSummary(cfg *config.Config, runID string, res *runner.Result) {
	row := func(label, value string) {
		fmt.Println(labelStyle.Render(label) + valueStyle.Render(value))
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("search " + cfg.Name))
	row("run id", runID)
	row("agents", fmt.Sprintf("%d", cfg.Agents))
	row("steps", fmt.Sprintf("%d / %d", res.StepsTaken, cfg.Steps))
	row("elapsed", res.Elapsed.Round(time.Millisecond).String())
	if u := geo.Unit(cfg.Unit); u != "" {
		if a, err := geo.Area(cfg.Area, u); err == nil {
			row("area", fmt.Sprintf("%.2f %s", a, u))
		} else {
			log.Warn("area not measured", "err", err)
		}
	}
	if res.Final != nil {
		row("coverage", fmt.Sprintf("%.1f%%", res.Coverage()))
	} else {
		row("coverage", "n/a")
	}
	for _, c := range res.Checkpoints {
		row(fmt.Sprintf("  step %d", c.Step), fmt.Sprintf("%.1f%%", c.Coverage))
	}

	if len(res.Metrics) > 0 {
		fmt.Println(titleStyle.Render("metrics"))
		names := make([]string, 0, len(res.Metrics))
		for name := range res.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			row(name, fmt.Sprintf("%.4f", res.Metrics[name]))
		}
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	build := func() (*coverage.Simulation, error) {
		return coverage.New(cfg.Area, cfg.Options()...)
	}
	m, err := viz.NewModel(cfg.Name, build, cfg.Steps)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok {
		if err := fm.Err(); err != nil {
			return err
		}
		snap := fm.Snapshot()
		log.Info("live view closed", "step", snap.Step, "coverage", fmt.Sprintf("%.1f%%", snap.CoveragePercent))
	}
	return nil
}
