package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dronesearch/internal/export"
	"github.com/san-kum/dronesearch/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tAGENTS\tSTEPS\tSEED\tCOVERAGE")

	for _, run := range runs {
		cov := "n/a"
		if run.Coverage != nil {
			cov = fmt.Sprintf("%.1f%%", *run.Coverage)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d/%d\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Agents,
			run.StepsTaken,
			run.Steps,
			run.Seed,
			cov,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	curve, err := st.LoadCurve(runID)
	if err != nil {
		return err
	}

	if len(curve) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("agents: %d\n", meta.Agents)
	fmt.Printf("steps: %d\n\n", len(curve))

	graph := asciigraph.Plot(curve,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Caption("coverage % vs step"),
	)
	fmt.Println(graph)

	if len(meta.Checkpoints) > 0 {
		fmt.Println("\ncheckpoints:")
		for _, c := range meta.Checkpoints {
			fmt.Printf("  step %d: %.1f%%\n", c.Step, c.Coverage)
		}
	}
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if _, err := st.Load(args[0]); err != nil {
		return err
	}
	if err := st.Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	report, err := export.FromStore(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.WriteJSON(os.Stdout, report)
	}
	if err := writeFile(outPath, func(w io.Writer) error { return export.WriteJSON(w, report) }); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}

// writeFile creates path and fills it with write. The close error is
// returned along with any write error.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	report, err := export.FromStore(storage.New(dataDir), runID)
	if err != nil {
		return err
	}

	prefix := outPath
	if prefix == "" {
		prefix = runID
	}

	trails := prefix + "_trails.svg"
	if err := os.WriteFile(trails, []byte(export.TrailsSVG(report, 500, 500)), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", trails)

	if report.Grid == nil {
		log.Warn("run has no stored grid; skipping heatmap", "run", runID)
		return nil
	}

	heat := prefix + "_heatmap.svg"
	if err := os.WriteFile(heat, []byte(export.HeatmapSVG(report.Grid, float64(pixelScale))), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s\n", heat)

	if writePNG {
		name := prefix + "_heatmap.png"
		err := writeFile(name, func(w io.Writer) error { return export.HeatmapPNG(w, report.Grid, pixelScale) })
		if err != nil {
			return err
		}
		fmt.Printf("exported %s\n", name)
	}
	return nil
}
