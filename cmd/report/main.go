package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quanta-tokenomics/internal/config"
	"quanta-tokenomics/internal/reporting"
	"quanta-tokenomics/internal/simulation"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Parse flags
	outputDir := flag.String("output-dir", cfg.OutputDir, "Output directory for generated files")
	paramsFile := flag.String("params", cfg.ParamsFile, "YAML scenario file (defaults when empty)")
	generatedAt := flag.String("generated-at", "", "Fixed report timestamp (RFC3339) for deterministic output")
	runID := flag.String("run-id", "", "Fixed run ID for deterministic output")
	flag.Parse()

	ctx := context.Background()

	scenario, err := config.LoadScenario(*paramsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	runner, err := simulation.NewRunner(simulation.RunnerOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating runner: %v\n", err)
		os.Exit(1)
	}

	gen := reporting.NewGenerator(runner).WithPrimaryPreset(scenario.Preset)
	if *generatedAt != "" {
		fixedTime, err := time.Parse(time.RFC3339, *generatedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: --generated-at: %v\n", err)
			os.Exit(1)
		}
		gen = gen.WithClock(func() time.Time { return fixedTime.UTC() })
	}
	if *runID != "" {
		gen = gen.WithRunID(*runID)
	}

	report, err := gen.Generate(ctx, scenario.Parameters, scenario.Adjustments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	files := map[string]string{
		"REPORT_TOKENOMICS.md":  reporting.RenderMarkdown(report),
		"POWER_LAW.csv":         reporting.RenderPowerLawCSV(report.PowerLaw),
		"SUPPLY_PROJECTION.csv": reporting.RenderSupplyCSV(report.Supply),
		"TIERS.csv":             reporting.RenderTiersCSV(report.Simulation.Tiers),
	}
	names := append([]string(nil), reportFiles...)
	if primary, ok := report.Primary(); ok {
		files["BURN_CURVE.csv"] = reporting.RenderBurnCurveCSV(primary.Result.BurnCurve)
		names = append(names, "BURN_CURVE.csv")
	}
	for _, row := range report.Budgets {
		name := "BURN_CURVE_" + row.Preset.ID + ".csv"
		files[name] = reporting.RenderBurnCurveCSV(row.Result.BurnCurve)
		names = append(names, name)
	}

	if err := writeFiles(*outputDir, files); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tokenomics report generated successfully (scenario %s, budget preset %s):\n",
		report.Simulation.ScenarioID, report.PrimaryPreset)
	for _, name := range names {
		fmt.Printf("  - %s\n", filepath.Join(*outputDir, name))
	}
}

// reportFiles is the output order.
var reportFiles = []string{
	"REPORT_TOKENOMICS.md",
	"POWER_LAW.csv",
	"SUPPLY_PROJECTION.csv",
	"TIERS.csv",
}

func writeFiles(dir string, files map[string]string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
