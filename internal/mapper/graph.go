// Package mapper computes a dependency-respecting, batched build order over
// the atomic units the slicer produced: a dependency graph is built, cycles
// are condensed into super-nodes via Tarjan's algorithm, and the condensed
// DAG is walked leaf-first to produce build_order.json.
package mapper

import (
	"github.com/standardbeagle/transpile-pipeline/internal/debug"
	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// DependencyGraph is an arena of unit ids with adjacency expressed as index
// slices rather than pointers, so the graph (which may contain cycles) has
// no pointer-cyclic structure to walk.
type DependencyGraph struct {
	ids   []string
	index map[string]int
	adj   [][]int // outgoing edges: adj[i] are the node indices unit i depends on
}

// NewDependencyGraph builds a graph from the slicer's atomic units.
// Dependencies naming a unit not present in the set are logged and dropped
// rather than treated as an error (a unit may call a libc function or
// another translation unit's undeclared symbol).
func NewDependencyGraph(units []unit.AtomicUnit) *DependencyGraph {
	g := &DependencyGraph{index: make(map[string]int, len(units))}

	for _, u := range units {
		g.index[u.ID] = len(g.ids)
		g.ids = append(g.ids, u.ID)
	}

	g.adj = make([][]int, len(g.ids))
	for _, u := range units {
		from := g.index[u.ID]
		for _, dep := range u.Dependencies {
			to, ok := g.index[dep]
			if !ok {
				debug.LogMapper("unit %q depends on %q, which has no corresponding unit; ignoring edge", u.ID, dep)
				continue
			}
			g.adj[from] = append(g.adj[from], to)
		}
	}

	return g
}

// NodeCount returns the number of units in the graph.
func (g *DependencyGraph) NodeCount() int { return len(g.ids) }

// ID returns the unit id for a node index.
func (g *DependencyGraph) ID(i int) string { return g.ids[i] }

// Edges returns the node indices i depends on.
func (g *DependencyGraph) Edges(i int) []int { return g.adj[i] }
