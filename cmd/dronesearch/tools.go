package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dronesearch/internal/automation"
	"github.com/san-kum/dronesearch/internal/config"
	"github.com/san-kum/dronesearch/internal/experiment"
	"github.com/san-kum/dronesearch/internal/geo"
	"github.com/san-kum/dronesearch/internal/logging"
	"github.com/san-kum/dronesearch/internal/optim"
	"github.com/san-kum/dronesearch/internal/storage"
)

func listPresets(cmd *cobra.Command, args []string) error {
	u := geo.SquareKilometres
	if unit != "" {
		u = geo.Unit(unit)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tAGENTS\tVERTICES\tAREA (%s)\tDESCRIPTION\n", u)

	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		a, err := geo.Area(p.Area, u)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%s\n", name, p.Agents, len(p.Area), a, p.Description)
	}
	return w.Flush()
}

func measureArea(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	units := []string{cfg.Unit}
	if cfg.Unit == "" {
		units = geo.UnitNames()
	}

	fmt.Printf("area: %s (%d vertices)\n", cfg.Name, len(cfg.Area))
	for _, u := range units {
		a, err := geo.Area(cfg.Area, geo.Unit(u))
		if err != nil {
			return err
		}
		fmt.Printf("  %.4f %s\n", a, u)
	}

	b := geo.Bounds(cfg.Area)
	c := b.Center()
	fmt.Printf("bounds: lon [%.5f, %.5f] lat [%.5f, %.5f]\n", b.MinLon, b.MaxLon, b.MinLat, b.MaxLat)
	fmt.Printf("center: %.5f, %.5f\n", c.X, c.Y)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	metric, err := experiment.NewRegistry().GetMetric(objective, cfg.Threshold)
	if err != nil {
		return err
	}

	names := []string{"agents"}
	agentValues := make([]float64, len(sweepAgents))
	for i, a := range sweepAgents {
		agentValues[i] = float64(a)
	}
	ranges := [][]float64{agentValues}
	if len(sweepPadding) > 0 {
		names = append(names, "padding")
		ranges = append(ranges, sweepPadding)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(names, ranges)
	gs.Limit = limit
	log.Info("sweeping", "objective", metric.Name(), "params", strings.Join(names, ","), "seed", cfg.Seed)

	out, err := gs.Search(ctx, cfg, optim.Objective{Metric: metric.Name(), Maximize: maximize})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tCOVERAGE\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(metric.Name()))
	for _, t := range out.Trials {
		vals := make([]string, len(names))
		for i, n := range names {
			vals[i] = fmt.Sprintf("%g", t.Params[n])
		}
		fmt.Fprintf(w, "%s\t%s\t%.1f%%\n", strings.Join(vals, "\t"), formatMetric(t.Value), t.Coverage)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best := make([]string, 0, len(out.Best))
	for _, n := range names {
		best = append(best, fmt.Sprintf("%s=%g", n, out.Best[n]))
	}
	fmt.Printf("\nbest: %s (%s = %s)\n", strings.Join(best, " "), metric.Name(), formatMetric(out.Value))
	return nil
}

func formatMetric(v float64) string {
	if v < 0 {
		return "never"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.3f", v)
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("scenario", "name", sc.Name, "steps", len(sc.Steps))
	results, err := automation.RunScenario(ctx, sc, st, logging.Status(log, "scenario", sc.Name))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAGENTS\tSTEPS\tCOVERAGE\tRUN ID")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%s\n", r.Config.Name, r.Config.Agents, r.Result.StepsTaken, r.Result.Coverage(), id)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Config:    cfg,
		NumTrials: trials,
		Seed:      cfg.Seed,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Coverage > results[j].Coverage })
	reached, missed, meanCov, meanSteps := automation.MonteCarloStats(results)

	fmt.Printf("trials: %d (%d reached %.0f%%, %d missed)\n", len(results), reached, cfg.Threshold, missed)
	fmt.Printf("mean coverage: %.1f%%\n", meanCov)
	if meanSteps >= 0 {
		fmt.Printf("mean steps to %.0f%%: %.1f\n", cfg.Threshold, meanSteps)
	}
	if len(results) > 0 {
		best, worst := results[0], results[len(results)-1]
		fmt.Printf("best seed: %d (%.1f%%)\n", best.Seed, best.Coverage)
		fmt.Printf("worst seed: %d (%.1f%%)\n", worst.Seed, worst.Coverage)
	}
	return nil
}

func listLayers(cmd *cobra.Command, args []string) error {
	layers := geo.DefaultLayers()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tOVERLAY")
	for _, l := range layers {
		fmt.Fprintf(w, "%s\t%s\t%v\n", l.Title(), l.Kind(), l.IsOverlay())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if baseLayer == "" && len(overlays) == 0 {
		return nil
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	name := baseLayer
	if name == "" {
		name = geo.DefaultBaseLayer
	}
	base, picked, skipped := geo.Stack(layers, name, overlays)
	for _, s := range skipped {
		log.Warn("unknown overlay skipped", "layer", s)
	}
	fmt.Printf("\nbase: %s\n", base.Title())

	bbox := geo.Bounds(cfg.Area)
	for _, l := range picked {
		wms, ok := l.(geo.WMSLayer)
		if !ok {
			continue
		}
		u, err := wms.GetMapURL(bbox, mapWidth, mapHeight)
		if err != nil {
			return err
		}
		fmt.Printf("overlay %s:\n  %s\n", wms.Title(), u)
	}
	return nil
}
