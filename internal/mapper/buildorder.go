package mapper

import (
	"sort"

	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// BuildOrder computes the full leaf-first batch order for a set of atomic
// units: cycles become multi-unit super-node batches, everything else is a
// singleton batch, and batches are emitted so that every dependency of a
// unit appears in an earlier or the same batch.
func BuildOrder(units []unit.AtomicUnit) unit.BuildOrder {
	g := NewDependencyGraph(units)
	sccs := TarjanSCC(g)
	condensed := buildCondensedGraph(g, sccs)
	order := reverseInts(condensed.topoOrder())

	batches := make([]unit.BuildOrderBatch, 0, len(order))
	superNodes := 0
	largestSuperNode := 0

	for _, sccIdx := range order {
		members := append([]int(nil), condensed.sccs[sccIdx]...)
		sort.Ints(members)

		unitIDs := make([]string, len(members))
		for i, nodeIdx := range members {
			unitIDs[i] = g.ID(nodeIdx)
		}

		batch := unit.BuildOrderBatch{Units: unitIDs}
		if len(members) > 1 {
			batch.IsSuperNode = true
			size := len(members)
			difficulty := unit.RefactoringDifficulty(size)
			batch.SCCSize = &size
			batch.RefactoringDifficulty = &difficulty

			superNodes++
			if size > largestSuperNode {
				largestSuperNode = size
			}
		}
		batches = append(batches, batch)
	}

	metadata := unit.BuildMetadata{
		TotalUnits:       len(units),
		TotalBatches:     len(batches),
		SuperNodes:       superNodes,
		LargestSuperNode: largestSuperNode,
	}
	if metadata.TotalBatches > 0 {
		metadata.AverageBatchSize = float64(metadata.TotalUnits) / float64(metadata.TotalBatches)
	}

	return unit.BuildOrder{Metadata: metadata, Batches: batches}
}
