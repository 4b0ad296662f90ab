package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomas-hradek/ecolab/internal/config"
	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/export"
	"github.com/tomas-hradek/ecolab/internal/report"
	"github.com/tomas-hradek/ecolab/internal/solver"
	"github.com/tomas-hradek/ecolab/internal/storage"
	"github.com/tomas-hradek/ecolab/internal/sweep"
	"github.com/tomas-hradek/ecolab/internal/viz"
)

var (
	dataDir    string
	presetName string
	configFile string
	relax      bool
	tol        float64
	maxNodes   int
	saveRun    bool
	quiet      bool
	// Plot grouping
	plotBy string
	// Sweep axis
	sweepParam   string
	sweepFrom    float64
	sweepTo      float64
	sweepSteps   int
	sweepWorkers int
	// SVG output path
	outFile string
)

// main registers the commands and flags and executes the root command. With
// no subcommand it opens the interactive explorer on the pond preset.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ecolab",
		Short: "ecosystem capacity optimization lab",
		Run: func(cmd *cobra.Command, args []string) {
			def := config.GetPreset("pond")
			if err := viz.Run("pond", def, solver.DefaultOptions()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	solveCmd := &cobra.Command{
		Use:   "solve [definition]",
		Short: "solve a definition and print the allocation report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  solveDefinition,
	}
	solveCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in ecosystem")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	solveCmd.Flags().BoolVar(&relax, "relax", false, "solve the continuous relaxation")
	solveCmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "integrality tolerance")
	solveCmd.Flags().IntVar(&maxNodes, "max-nodes", config.DefaultMaxNodes, "branch and bound node limit")
	solveCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run to the data directory")
	solveCmd.Flags().BoolVar(&quiet, "quiet", false, "suppress the report, print the summary line only")

	showCmd := &cobra.Command{
		Use:   "show [definition]",
		Short: "print a definition",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showDefinition,
	}
	showCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in ecosystem")

	validateCmd := &cobra.Command{
		Use:   "validate [definition]",
		Short: "check a definition for consistency",
		Args:  cobra.MaximumNArgs(1),
		RunE:  validateDefinition,
	}
	validateCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in ecosystem")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in ecosystems",
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotBy, "by", "supply", "utilization grouping: supply or consumer")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved run's captures to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [definition]",
		Short: "sweep one parameter and chart the response",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepDefinition,
	}
	sweepCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in ecosystem")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "axis, e.g. supply:worms or market:frogs")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "axis start value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "axis end value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 20, "number of samples")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "solver workers (0 = all cpus)")
	sweepCmd.Flags().BoolVar(&relax, "relax", false, "solve the continuous relaxation")

	svgCmd := &cobra.Command{
		Use:   "svg [definition]",
		Short: "solve and export the penetration chart as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in ecosystem")
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().BoolVar(&relax, "relax", false, "solve the continuous relaxation")

	liveCmd := &cobra.Command{
		Use:   "live [definition]",
		Short: "explore a definition interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  liveDefinition,
	}
	liveCmd.Flags().StringVar(&presetName, "preset", "", "use a built-in ecosystem")
	liveCmd.Flags().BoolVar(&relax, "relax", false, "solve the continuous relaxation")

	rootCmd.AddCommand(solveCmd, showCmd, validateCmd, presetsCmd, listCmd, plotCmd,
		exportJSONCmd, exportCSVCmd, sweepCmd, svgCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDefinition resolves the preset flag or a definition file argument.
// CSV files use the tabular layout, everything else is YAML.
func loadDefinition(args []string) (*ecosystem.Definition, string, error) {
	if presetName != "" {
		def := config.GetPreset(presetName)
		if def == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", presetName, config.ListPresets())
		}
		return def, presetName, nil
	}
	if len(args) == 0 {
		return nil, "", fmt.Errorf("provide a definition file or --preset")
	}
	def, err := ecosystem.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	return def, name, nil
}

func solverOptions() solver.Options {
	return solver.Options{Integer: !relax, Tol: tol, MaxNodes: maxNodes}
}

func solveDefinition(cmd *cobra.Command, args []string) error {
	// Config file values apply where no flag overrides them.
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("relax") {
			relax = cfg.Relax
		}
		if !cmd.Flags().Changed("tol") {
			tol = cfg.Tol
		}
		if !cmd.Flags().Changed("max-nodes") {
			maxNodes = cfg.MaxNodes
		}
		if !cmd.Flags().Changed("save") {
			saveRun = cfg.Save
		}
		if !cmd.Flags().Changed("data") {
			dataDir = cfg.DataDir
		}
		if presetName == "" {
			presetName = cfg.Preset
		}
		if len(args) == 0 && cfg.Definition != "" {
			args = []string{cfg.Definition}
		}
	}

	def, name, err := loadDefinition(args)
	if err != nil {
		return err
	}

	prob, err := solver.Build(def)
	if err != nil {
		return err
	}

	opts := solverOptions()
	start := time.Now()
	sol, err := prob.Solve(opts)
	if err != nil {
		if errors.Is(err, solver.ErrInfeasible) {
			return fmt.Errorf("%s has no feasible allocation", name)
		}
		return err
	}
	elapsed := time.Since(start)

	rep := report.Build(def, sol)
	if !quiet {
		rep.Render(os.Stdout)
		fmt.Println()
	}
	fmt.Printf("solved %s in %v (%d nodes)\n", name, elapsed, sol.Nodes)

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(def, opts, sol, rep)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func showDefinition(cmd *cobra.Command, args []string) error {
	def, _, err := loadDefinition(args)
	if err != nil {
		return err
	}
	return def.Describe(os.Stdout)
}

func validateDefinition(cmd *cobra.Command, args []string) error {
	def, name, err := loadDefinition(args)
	if err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s is valid: %d consumers, %d resources (%d demanded)\n",
		name, len(def.Market), len(def.Supply), len(def.DemandedResources()))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCONSUMERS\tRESOURCES\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name,
			len(p.Definition.Market), len(p.Definition.Supply), p.Description)
	}
	return w.Flush()
}

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
	fmt.Fprintln(w, "ID\tTIME\tMODE\tPENETRATION\tUTILIZATION\tNODES")
	for _, run := range runs {
		mode := "integer"
		if !run.Integer {
			mode = "relaxed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\t%.1f%%\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			mode,
			run.MarketPenetration*100,
			run.SupplyUtilization*100,
			run.Nodes,
		)
	}
	return w.Flush()
}

// loadRunReport rebuilds a report from a saved run's definition and captures.
func loadRunReport(runID string) (*storage.RunMetadata, *ecosystem.Definition, *report.Report, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	def, err := st.LoadDefinition(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	captures, err := st.LoadCaptures(runID)
	if err != nil {
		return nil, nil, nil, err
	}

	sol := &solver.Solution{Captures: make(map[string]float64, len(captures)), Nodes: meta.Nodes}
	for _, c := range captures {
		sol.Captures[c.Consumer] = c.Captured
		sol.Total += c.Captured
		sol.Objective += def.Weight(c.Consumer) * c.Captured
	}
	return meta, def, report.Build(def, sol), nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, _, rep, err := loadRunReport(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n\n", meta.ID)
	fmt.Println(viz.PenetrationChart(rep))
	chart, err := viz.UtilizationChart(rep, plotBy)
	if err != nil {
		return err
	}
	fmt.Println(chart)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, def, rep, err := loadRunReport(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, def, rep)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	captures, err := st.LoadCaptures(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, captures)
}

func sweepDefinition(cmd *cobra.Command, args []string) error {
	def, name, err := loadDefinition(args)
	if err != nil {
		return err
	}

	kind, param, ok := strings.Cut(sweepParam, ":")
	if !ok {
		return fmt.Errorf("--param must look like supply:worms or market:frogs, got %q", sweepParam)
	}
	axis := sweep.Axis{
		Kind:  sweep.Kind(kind),
		Name:  param,
		From:  sweepFrom,
		To:    sweepTo,
		Steps: sweepSteps,
	}

	start := time.Now()
	points, err := sweep.Run(context.Background(), def, solverOptions(), axis, sweepWorkers)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	penetration := make([]float64, len(points))
	failed := 0
	for i, p := range points {
		penetration[i] = p.Penetration * 100
		if p.Err != nil {
			failed++
		}
	}

	fmt.Printf("sweep %s %s: %d samples in %v\n\n", name, sweepParam, len(points), elapsed)
	fmt.Println(viz.Curve(penetration, fmt.Sprintf("market penetration %% vs %s", param)))
	fmt.Println()

	if best, ok := sweep.Best(points); ok {
		fmt.Printf("best: %s = %g -> penetration %.1f%%, utilization %.1f%%, objective %.0f\n",
			param, best.Value, best.Penetration*100, best.Utilization*100, best.Objective)
	}
	if failed > 0 {
		fmt.Printf("%d samples failed\n", failed)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	def, _, err := loadDefinition(args)
	if err != nil {
		return err
	}
	prob, err := solver.Build(def)
	if err != nil {
		return err
	}
	sol, err := prob.Solve(solverOptions())
	if err != nil {
		return err
	}

	svg := export.ReportSVG(report.Build(def, sol))
	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}

func liveDefinition(cmd *cobra.Command, args []string) error {
	def, name, err := loadDefinition(args)
	if err != nil {
		return err
	}
	return viz.Run(name, def, solverOptions())
}
