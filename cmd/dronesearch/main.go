package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/dronesearch/internal/logging"
)

var (
	// process settings, resolved through viper
	dataDir    string
	logLevel   string
	configHome string

	// run settings
	configFile  string
	preset      string
	runName     string
	areaSpec    string
	agents      int
	padding     float64
	resolution  int
	frameSize   float64
	steps       int
	seed        int64
	threshold   float64
	checkpoints []int
	unit        string

	// output
	watch      bool
	frameRate  int
	saveConfig string
	outPath    string
	writePNG   bool
	pixelScale int

	// sweep and batch
	sweepAgents  []int
	sweepPadding []float64
	objective    string
	maximize     bool
	limit        int
	trials       int

	// layers
	baseLayer string
	overlays  []string
	mapWidth  int
	mapHeight int

	log *slog.Logger
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "dronesearch",
		Short: "multi-drone area search simulator",
		Long: `dronesearch simulates a team of drones sweeping a geographic search
area, tracks how much of it has been scanned and stores every run for
plotting and export.`,
		SilenceUsage: true,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dronesearch", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configHome, "config-home", "", "settings directory (default is $HOME/.dronesearch)")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a search and store it",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the search while it runs")
	runCmd.Flags().IntVar(&frameRate, "fps", 10, "frame rate for --watch")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved run file to this path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive live view of a search",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the coverage curve of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run report as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export trails and heatmap images",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file prefix (default run id)")
	exportSVGCmd.Flags().BoolVar(&writePNG, "png", false, "also write a png heatmap")
	exportSVGCmd.Flags().IntVar(&pixelScale, "scale", 10, "pixels per grid cell")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named search areas",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVar(&unit, "unit", "", "area unit (km2, ha, m2; default km2)")

	areaCmd := &cobra.Command{
		Use:   "area",
		Short: "measure a search area",
		Args:  cobra.NoArgs,
		RunE:  measureArea,
	}
	addRunFlags(areaCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over agent count and padding",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().IntSliceVar(&sweepAgents, "sweep-agents", []int{1, 3, 5, 8}, "agent counts to try")
	sweepCmd.Flags().Float64SliceVar(&sweepPadding, "sweep-padding", nil, "padding values to try")
	sweepCmd.Flags().StringVar(&objective, "objective", "steps_to_threshold", "metric to optimise")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "maximise the objective instead of minimising it")
	sweepCmd.Flags().IntVar(&limit, "parallel", 4, "concurrent runs")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "repeat a run over random seeds",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of seeds")
	monteCarloCmd.Flags().IntVar(&limit, "parallel", 4, "concurrent runs")

	layersCmd := &cobra.Command{
		Use:   "layers",
		Short: "list map layers and resolve a layer stack",
		Args:  cobra.NoArgs,
		RunE:  listLayers,
	}
	addRunFlags(layersCmd)
	layersCmd.Flags().StringVar(&baseLayer, "base", "", "base layer")
	layersCmd.Flags().StringSliceVar(&overlays, "overlay", nil, "overlay layers")
	layersCmd.Flags().IntVar(&mapWidth, "width", 1024, "GetMap width in pixels")
	layersCmd.Flags().IntVar(&mapHeight, "height", 768, "GetMap height in pixels")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, deleteCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, areaCmd, sweepCmd, batchCmd, monteCarloCmd, layersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// addRunFlags registers the flags that describe a single run. Values
// only override the run file or preset when set explicitly.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "run file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "named search area")
	cmd.Flags().StringVar(&runName, "name", "", "run name")
	cmd.Flags().StringVar(&areaSpec, "area", "", `polygon as "lon,lat;lon,lat;..."`)
	cmd.Flags().IntVar(&agents, "agents", 5, "number of drones")
	cmd.Flags().Float64Var(&padding, "padding", 10, "margin kept from the frame edge")
	cmd.Flags().IntVar(&resolution, "resolution", 50, "coverage grid cells per side")
	cmd.Flags().Float64Var(&frameSize, "frame-size", 500, "simulation frame side; <= 0 keeps source units")
	cmd.Flags().IntVar(&steps, "steps", 100, "number of steps")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (default from the clock)")
	cmd.Flags().Float64Var(&threshold, "threshold", 80, "coverage percent tracked by steps_to metrics")
	cmd.Flags().IntSliceVar(&checkpoints, "checkpoint", nil, "steps at which to keep the grid")
	cmd.Flags().StringVar(&unit, "unit", "", "area unit (km2, ha, m2)")
}

// initConfig reads $HOME/.dronesearch/config.yaml and DRONESEARCH_* env vars.
func initConfig() {
	if configHome != "" {
		viper.AddConfigPath(configHome)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".dronesearch"))
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.SetEnvPrefix("dronesearch")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	dataDir = viper.GetString("data")
	logLevel = viper.GetString("log_level")
	log = logging.NewLogger(logLevel, os.Stderr)
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug("loaded settings", "file", f)
	}
}
