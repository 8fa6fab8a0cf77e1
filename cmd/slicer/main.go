package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/transpile-pipeline/internal/config"
	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	"github.com/standardbeagle/transpile-pipeline/internal/slicer"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
	"github.com/standardbeagle/transpile-pipeline/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides:
// config file first, then any flags the caller explicitly set.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadWithRoot(c.String("config"), c.String("source"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if sourceFlag := c.String("source"); sourceFlag != "" {
		absRoot, err := filepath.Abs(sourceFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve source path %q: %w", sourceFlag, err)
		}
		cfg.Source.Root = absRoot
	}
	if outputFlag := c.String("output"); outputFlag != "" {
		cfg.Output.UnitsPath = outputFlag
	}

	return cfg, nil
}

func runOnce(cfg *config.Config) error {
	units, err := slicer.Run(cfg.Source.Root, cfg.Source.Include, cfg.Source.Exclude, cfg.Performance.MaxSourceFileBytes)
	if err != nil {
		return debug.Fatal("slicing %s: %v", cfg.Source.Root, err)
	}
	if err := unit.WriteUnitsJSON(cfg.Output.UnitsPath, units); err != nil {
		return debug.Fatal("writing %s: %v", cfg.Output.UnitsPath, err)
	}
	fmt.Printf("Slicer: extracted %d units to %s\n", len(units), cfg.Output.UnitsPath)
	return nil
}

func main() {
	app := &cli.App{
		Name:    "slicer",
		Usage:   "Extract atomic C translation units into units.json",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (not consulted; .transpiler.kdl is read from the --source directory, or the working directory)",
				Value:   ".transpiler.kdl",
			},
			&cli.StringFlag{
				Name:    "source",
				Aliases: []string{"s"},
				Usage:   "Path to the C source tree",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path to the output units.json file",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Re-slice the whole source tree when a source file changes",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			fmt.Printf("Slicer: analyzing source at %s\n", cfg.Source.Root)
			if err := runOnce(cfg); err != nil {
				return err
			}

			if !c.Bool("watch") {
				return nil
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			fmt.Println("Slicer: watching for changes, press Ctrl+C to stop")
			return slicer.Watch(ctx, cfg.Source.Root, cfg.Source.Include, cfg.Source.Exclude, func(changed []string) {
				fmt.Printf("Slicer: %d file(s) changed, re-slicing\n", len(changed))
				if err := runOnce(cfg); err != nil {
					fmt.Fprintf(os.Stderr, "Slicer: re-slice failed: %v\n", err)
				}
			})
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
