// Package config loads pipeline-wide defaults for the slicer, mapper, and
// conductor binaries from an optional .transpiler.kdl file, with CLI flags
// overriding whatever the file supplies.
package config

import (
	"os"
	"runtime"
)

// Config holds the settings shared across the three pipeline stages. Any
// given binary only reads the sections relevant to it.
type Config struct {
	Source      Source
	Output      Output
	Performance Performance
	Mapper      Mapper
	Verify      Verify
	Oracle      Oracle
}

// Source describes where the slicer looks for translation units.
type Source struct {
	Root    string
	Include []string
	Exclude []string
}

// Output holds the paths the pipeline's JSON artifacts and durable store are
// read from and written to.
type Output struct {
	UnitsPath         string
	BuildOrderPath    string
	CycleAnalysisPath string
	BlackboardPath    string
}

// Performance controls parallelism and resource limits shared across stages.
type Performance struct {
	ParallelWorkers    int   // defaults to NumCPU; 0 or less = no limit on concurrent units per batch
	MaxSourceFileBytes int64 // 0 = unlimited; larger source files are skipped by the slicer
}

// Mapper holds mapper-specific tuning.
type Mapper struct {
	SuperNodeWarningThreshold int
}

// Verify configures the conductor's verification subprocess.
type Verify struct {
	Command []string
	// TimeoutMultiplier scales Oracle.TimeoutSec to derive the verifier
	// subprocess's deadline, since compiling is typically slower than the
	// oracle call that produced the candidate source.
	TimeoutMultiplier float64
}

// Oracle configures the conductor's transpile oracle.
type Oracle struct {
	TimeoutSec int
	// Mock selects MockOracle when true. A real oracle has no implementation
	// yet, so Mock=false is rejected at startup rather than silently ignored.
	Mock bool
}

// Load reads configuration rooted at the current working directory. path is
// not consulted; see LoadWithRoot.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot reads a .transpiler.kdl file from rootDir (or the current
// directory if rootDir is empty), falling back to defaults if none exists.
// path is not consulted: the file read is always rootDir/.transpiler.kdl.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}

	cfg, err := LoadKDL(searchDir)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}

	return defaultConfig(searchDir), nil
}

func defaultConfig(root string) *Config {
	cwd := root
	if cwd == "" || cwd == "." {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		} else {
			cwd = "."
		}
	}

	return &Config{
		Source: Source{
			Root:    cwd,
			Include: []string{"**/*.c", "**/*.h"},
			Exclude: []string{
				"**/.git/**",
				"**/build/**",
				"**/test/**",
				"**/tests/**",
				"**/*_test.c",
			},
		},
		Output: Output{
			UnitsPath:         "units.json",
			BuildOrderPath:    "build_order.json",
			CycleAnalysisPath: "cycle_analysis.json",
			BlackboardPath:    "blackboard.db",
		},
		Performance: Performance{
			ParallelWorkers:    runtime.NumCPU(),
			MaxSourceFileBytes: 0,
		},
		Mapper: Mapper{
			SuperNodeWarningThreshold: 20,
		},
		Verify: Verify{
			Command:           []string{"true"},
			TimeoutMultiplier: 1.0,
		},
		Oracle: Oracle{
			TimeoutSec: 120,
			Mock:       true,
		},
	}
}
