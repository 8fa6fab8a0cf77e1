package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/transpile-pipeline/internal/config"
	"github.com/standardbeagle/transpile-pipeline/internal/mapper"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
	"github.com/standardbeagle/transpile-pipeline/internal/version"
)

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	unitsPath := c.String("units")
	if unitsPath == "" {
		unitsPath = cfg.Output.UnitsPath
	}
	outputPath := c.String("output")
	if outputPath == "" {
		outputPath = cfg.Output.BuildOrderPath
	}
	cycleAnalysisPath := cfg.Output.CycleAnalysisPath
	analyzeCycles := c.Bool("analyze-cycles")

	fmt.Printf("Mapper: loading units from %s\n", unitsPath)
	result, err := mapper.Run(unitsPath, analyzeCycles, cfg.Mapper.SuperNodeWarningThreshold)
	if err != nil {
		return err
	}

	if err := unit.WriteBuildOrder(outputPath, result.BuildOrder); err != nil {
		return fmt.Errorf("writing build order: %w", err)
	}
	fmt.Printf("Mapper: generated %d batches to %s\n", len(result.BuildOrder.Batches), outputPath)

	if analyzeCycles {
		if err := unit.WriteCycleAnalysis(cycleAnalysisPath, result.CycleAnalysis); err != nil {
			return fmt.Errorf("writing cycle analysis: %w", err)
		}
		fmt.Printf("Mapper: cycle analysis written to %s\n", cycleAnalysisPath)
	}

	if result.BuildOrder.Metadata.SuperNodes > 0 {
		fmt.Printf("Mapper: %d super node(s) detected, largest has %d function(s)\n",
			result.BuildOrder.Metadata.SuperNodes, result.BuildOrder.Metadata.LargestSuperNode)
	}

	return nil
}

func main() {
	app := &cli.App{
		Name:    "mapper",
		Usage:   "Condense units.json's dependency graph into a leaf-first build_order.json",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (not consulted; .transpiler.kdl is read from the working directory)",
				Value:   ".transpiler.kdl",
			},
			&cli.StringFlag{
				Name:    "units",
				Aliases: []string{"u"},
				Usage:   "Path to the input units.json file",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to the output build_order.json file",
			},
			&cli.BoolFlag{
				Name:  "analyze-cycles",
				Usage: "Also write cycle_analysis.json with refactoring suggestions for every super node",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
