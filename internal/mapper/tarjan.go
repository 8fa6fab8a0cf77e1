package mapper

// tarjanState holds the working state of Tarjan's strongly-connected-
// components algorithm over a DependencyGraph's node indices.
type tarjanState struct {
	graph   *DependencyGraph
	counter int
	indices []int // -1 until visited
	lowlink []int
	onStack []bool
	stack   []int
	sccs    [][]int
}

// TarjanSCC partitions the graph's nodes into strongly connected components.
// A node with no cyclic partner is returned as a singleton component.
// Components are discovered in Tarjan's natural reverse-topological order,
// which callers condensing the graph into a DAG can rely on.
func TarjanSCC(g *DependencyGraph) [][]int {
	n := g.NodeCount()
	st := &tarjanState{
		graph:   g,
		indices: make([]int, n),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
	}
	for i := range st.indices {
		st.indices[i] = -1
	}

	for v := 0; v < n; v++ {
		if st.indices[v] == -1 {
			st.strongConnect(v)
		}
	}
	return st.sccs
}

func (st *tarjanState) strongConnect(v int) {
	st.indices[v] = st.counter
	st.lowlink[v] = st.counter
	st.counter++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, w := range st.graph.Edges(v) {
		switch {
		case st.indices[w] == -1:
			st.strongConnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		case st.onStack[w]:
			if st.indices[w] < st.lowlink[v] {
				st.lowlink[v] = st.indices[w]
			}
		}
	}

	if st.lowlink[v] != st.indices[v] {
		return
	}

	var scc []int
	for {
		w := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]
		st.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	st.sccs = append(st.sccs, scc)
}
