package slicer

import (
	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	pipelineerrors "github.com/standardbeagle/transpile-pipeline/internal/errors"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// Run discovers every source file under root, harvests types/macros/includes
// across the whole tree, then extracts every function as an AtomicUnit. This
// is the slicer's full two-pass algorithm end to end. maxFileBytes, if
// positive, excludes oversized source files from discovery.
func Run(root string, include, exclude []string, maxFileBytes int64) ([]unit.AtomicUnit, error) {
	files, err := DiscoverSources(root, include, exclude, maxFileBytes)
	if err != nil {
		return nil, pipelineerrors.NewStageError("slicer", "discover sources", root, err)
	}
	debug.LogSlicer("found %d source files under %s", len(files), root)

	q, err := newQueries()
	if err != nil {
		return nil, pipelineerrors.NewStageError("slicer", "compile tree-sitter queries", "", err)
	}
	defer q.Close()

	registry := NewTypeRegistry()
	for _, path := range files {
		if err := harvestFile(q, path, registry); err != nil {
			return nil, pipelineerrors.NewStageError("slicer", "harvest", path, err)
		}
	}
	debug.LogSlicer("registered %d types and %d macros across all files", registry.TypeCount(), registry.MacroCount())

	seen := newSeenIDs(root)
	var units []unit.AtomicUnit
	for _, path := range files {
		fileUnits, err := extractFile(q, path, registry, seen)
		if err != nil {
			return nil, pipelineerrors.NewStageError("slicer", "extract", path, err)
		}
		units = append(units, fileUnits...)
	}

	debug.LogSlicer("extracted %d units", len(units))
	return units, nil
}
