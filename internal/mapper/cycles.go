package mapper

import (
	"fmt"
	"sort"

	"github.com/standardbeagle/transpile-pipeline/internal/unit"
)

// maxSuggestedEdges caps how many weak-edge suggestions are printed per
// cycle so a large super-node doesn't produce an unreadable wall of text.
const maxSuggestedEdges = 3

// AnalyzeCycles produces a cycle_analysis.json record for every super-node
// (strongly connected component of size > 1) in units. The heuristics here
// are a best-effort aid for a human refactoring the cycle by hand, not a
// guaranteed decomposition.
func AnalyzeCycles(units []unit.AtomicUnit) []unit.CycleAnalysis {
	g := NewDependencyGraph(units)
	sccs := TarjanSCC(g)

	var analyses []unit.CycleAnalysis
	for _, scc := range sccs {
		if len(scc) <= 1 {
			continue
		}

		members := append([]int(nil), scc...)
		sort.Ints(members)

		inSCC := make(map[int]bool, len(members))
		for _, m := range members {
			inSCC[m] = true
		}

		weakEdges := findWeakEdges(g, members, inSCC)

		nodeIDs := make([]string, len(members))
		for i, m := range members {
			nodeIDs[i] = g.ID(m)
		}

		weakEdgeIDs := make([][]string, len(weakEdges))
		for i, e := range weakEdges {
			weakEdgeIDs[i] = []string{g.ID(e[0]), g.ID(e[1])}
		}

		analyses = append(analyses, unit.CycleAnalysis{
			SuperNode:              nodeIDs,
			Size:                   len(members),
			WeakEdges:              weakEdgeIDs,
			RefactoringSuggestions: generateRefactoringSuggestions(len(members), weakEdgeIDs),
		})
	}

	return analyses
}

// findWeakEdges reports intra-SCC edges whose target has an internal
// in-degree of 2 or fewer: a low-fan-in edge is a plausible place to break
// the cycle, since few other members depend on that exact edge.
func findWeakEdges(g *DependencyGraph, members []int, inSCC map[int]bool) [][2]int {
	inDegree := make(map[int]int, len(members))
	type edge struct{ from, to int }
	var internalEdges []edge

	for _, u := range members {
		for _, v := range g.Edges(u) {
			if inSCC[v] {
				internalEdges = append(internalEdges, edge{u, v})
				inDegree[v]++
			}
		}
	}

	var weak [][2]int
	for _, e := range internalEdges {
		if inDegree[e.to] <= 2 {
			weak = append(weak, [2]int{e.from, e.to})
		}
	}

	sort.Slice(weak, func(i, j int) bool {
		if weak[i][0] != weak[j][0] {
			return weak[i][0] < weak[j][0]
		}
		return weak[i][1] < weak[j][1]
	})
	return weak
}

// generateRefactoringSuggestions renders the heuristic notes attached to a
// cycle_analysis.json record.
func generateRefactoringSuggestions(size int, weakEdges [][]string) []string {
	suggestions := []string{
		"NOTE: Suggestions are based on heuristic analysis (low in-degree edges).",
	}

	if size > 20 {
		suggestions = append(suggestions, "CRITICAL: This Super Node is very large. Consider architectural refactoring.")
	}

	if len(weakEdges) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Consider breaking %d weak edge(s) to simplify the cycle. [Confidence: Medium]", len(weakEdges)))
		for i, e := range weakEdges {
			if i >= maxSuggestedEdges {
				break
			}
			suggestions = append(suggestions, fmt.Sprintf("  - Extract interface between '%s' and '%s'", e[0], e[1]))
		}
	}

	if size <= 5 {
		suggestions = append(suggestions, "This is a small cycle. Refactor all functions together atomically. [Confidence: High]")
	}

	return suggestions
}
