// Package unit defines the data model shared by the slicer, mapper, and
// conductor stages: the AtomicUnit record and the build-order envelope that
// connects them.
package unit

// AtomicUnit is an immutable record describing one C function made
// self-translatable: its own source text plus the minimum type context
// needed to reason about it in isolation.
type AtomicUnit struct {
	ID               string   `json:"id"`
	Code             string   `json:"code"`
	Dependencies     []string `json:"dependencies"`
	RequiredHeaders  []string `json:"required_headers"`
}

// New constructs an AtomicUnit, defaulting nil slices to empty so the JSON
// encoding always emits `[]` rather than `null`.
func New(id, code string, dependencies, requiredHeaders []string) AtomicUnit {
	if dependencies == nil {
		dependencies = []string{}
	}
	if requiredHeaders == nil {
		requiredHeaders = []string{}
	}
	return AtomicUnit{
		ID:              id,
		Code:            code,
		Dependencies:    dependencies,
		RequiredHeaders: requiredHeaders,
	}
}

// BuildMetadata summarizes the build order produced by the mapper.
type BuildMetadata struct {
	TotalUnits         int     `json:"total_units"`
	TotalBatches       int     `json:"total_batches"`
	SuperNodes         int     `json:"super_nodes"`
	LargestSuperNode   int     `json:"largest_super_node"`
	AverageBatchSize   float64 `json:"average_batch_size"`
}

// BuildOrderBatch is one contiguous group in the build order. Units in a
// batch may be processed concurrently once every earlier batch has settled.
type BuildOrderBatch struct {
	Units                 []string `json:"units"`
	IsSuperNode           bool     `json:"is_super_node"`
	SCCSize               *int     `json:"scc_size,omitempty"`
	RefactoringDifficulty *string  `json:"refactoring_difficulty,omitempty"`
}

// BuildOrder is the mapper's serialized output: metadata plus the ordered
// batch list.
type BuildOrder struct {
	Metadata BuildMetadata     `json:"metadata"`
	Batches  []BuildOrderBatch `json:"batches"`
}

// CycleAnalysis is one record of the mapper's optional cycle_analysis.json
// side output, describing a single super-node (SCC of size > 1).
type CycleAnalysis struct {
	SuperNode              []string  `json:"super_node"`
	Size                   int       `json:"size"`
	WeakEdges              [][]string `json:"weak_edges"`
	RefactoringSuggestions []string  `json:"refactoring_suggestions"`
}

// RefactoringDifficulty classifies a super-node's refactoring effort by size.
func RefactoringDifficulty(size int) string {
	switch {
	case size > 20:
		return "Very High"
	case size > 10:
		return "High"
	case size > 5:
		return "Medium"
	default:
		return "Low"
	}
}
