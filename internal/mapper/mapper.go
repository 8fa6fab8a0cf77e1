package mapper

import (
	"fmt"
	"os"

	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	pipelineerrors "github.com/standardbeagle/transpile-pipeline/internal/errors"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// superNodeWarningThreshold is the default size above which a super-node is
// loud enough to warn about on stderr even without --analyze-cycles.
const superNodeWarningThreshold = 20

// Result bundles the mapper's two possible outputs: the build order always
// runs, cycle analysis only runs when requested.
type Result struct {
	BuildOrder    unit.BuildOrder
	CycleAnalysis []unit.CycleAnalysis
}

// Run loads units, computes the leaf-first build order, and optionally the
// cycle analysis, logging the same progress narration as the original
// standalone mapper tool.
func Run(unitsPath string, analyzeCycles bool, superNodeThreshold int) (Result, error) {
	if superNodeThreshold <= 0 {
		superNodeThreshold = superNodeWarningThreshold
	}

	debug.LogMapper("loading units from %s", unitsPath)
	units, err := unit.ReadUnitsJSON(unitsPath)
	if err != nil {
		return Result{}, pipelineerrors.NewStageError("mapper", "load units", unitsPath, err)
	}

	debug.LogMapper("constructing dependency graph for %d units", len(units))
	debug.LogMapper("running cycle detection (Tarjan's SCC)")
	debug.LogMapper("generating topological sort")

	order := BuildOrder(units)
	for _, batch := range order.Batches {
		if !batch.IsSuperNode {
			continue
		}
		debug.LogMapper("detected super node: %v", batch.Units)
		if batch.SCCSize != nil && *batch.SCCSize > superNodeThreshold {
			fmt.Fprintf(os.Stderr, "WARNING: super node with %d functions detected; consider breaking this cycle\n", *batch.SCCSize)
		}
	}
	debug.LogMapper("generated %d batches", len(order.Batches))

	result := Result{BuildOrder: order}
	if analyzeCycles {
		debug.LogMapper("analyzing cycles")
		result.CycleAnalysis = AnalyzeCycles(units)
		debug.LogMapper("cycle analysis complete: %d super node(s)", len(result.CycleAnalysis))
	}

	return result, nil
}
