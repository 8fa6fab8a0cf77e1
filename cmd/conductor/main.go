package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/transpile-pipeline/internal/conductor"
	"github.com/standardbeagle/transpile-pipeline/internal/config"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
	"github.com/standardbeagle/transpile-pipeline/internal/version"
)

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Conductor: transpile orchestration engine")

	store, err := conductor.OpenStore(cfg.Output.BlackboardPath)
	if err != nil {
		return fmt.Errorf("failed to initialize blackboard: %w", err)
	}
	defer store.Close()
	fmt.Printf("Conductor: blackboard ready at %s\n", cfg.Output.BlackboardPath)

	fmt.Printf("Conductor: loading units from %s\n", cfg.Output.UnitsPath)
	unitList, err := unit.ReadUnitsJSON(cfg.Output.UnitsPath)
	if err != nil {
		return fmt.Errorf("failed to read units: %w", err)
	}
	units := make(map[string]unit.AtomicUnit, len(unitList))
	for _, u := range unitList {
		units[u.ID] = u
	}

	fmt.Printf("Conductor: loading build order from %s\n", cfg.Output.BuildOrderPath)
	order, err := unit.ReadBuildOrder(cfg.Output.BuildOrderPath)
	if err != nil {
		return fmt.Errorf("failed to read build order: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("Conductor: shutdown requested, finishing in-flight units")
		cancel()
	}()

	if !cfg.Oracle.Mock {
		return fmt.Errorf("no real oracle configured: set oracle.mock true or wire a production Oracle implementation")
	}

	transpileTimeout := time.Duration(cfg.Oracle.TimeoutSec) * time.Second
	verifyTimeout := time.Duration(float64(cfg.Oracle.TimeoutSec)*cfg.Verify.TimeoutMultiplier) * time.Second

	opts := conductor.Options{
		Oracle:           conductor.MockOracle{},
		Verifier:         conductor.NewVerifier(cfg.Verify.Command),
		ForceRetry:       c.Bool("force-retry"),
		ParallelWorkers:  cfg.Performance.ParallelWorkers,
		TranspileTimeout: transpileTimeout,
		VerifyTimeout:    verifyTimeout,
	}

	if err := conductor.Run(ctx, store, units, order, opts); err != nil {
		return err
	}

	fmt.Println("Conductor: all batches processed successfully")
	return nil
}

func main() {
	app := &cli.App{
		Name:    "conductor",
		Usage:   "Dispatch build_order.json against a transpile/verify oracle, tracked in blackboard.db",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (not consulted; .transpiler.kdl is read from the working directory)",
				Value:   ".transpiler.kdl",
			},
			&cli.BoolFlag{
				Name:  "force-retry",
				Usage: "Re-dispatch units already in a terminal state",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
