package graph

import "slices"

type tarjan struct {
	edges   map[string][]string
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// Cycles returns every strongly connected component that forms a cycle,
// including self-loops. Each component is sorted, and the list is sorted by
// its first element.
func (g *Graph) Cycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.cycles()
}

func (g *Graph) cycles() [][]string {
	t := &tarjan{
		edges:   g.edges,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, name := range g.sortedNodes() {
		if _, visited := t.indices[name]; !visited {
			t.strongConnect(name)
		}
	}

	var cycles [][]string
	for _, scc := range t.sccs {
		if len(scc) > 1 || slices.Contains(g.edges[scc[0]], scc[0]) {
			slices.Sort(scc)
			cycles = append(cycles, scc)
		}
	}
	slices.SortFunc(
		cycles, func(a, b []string) int {
			return compareStrings(a[0], b[0])
		},
	)
	return cycles
}

func (t *tarjan) strongConnect(name string) {
	t.indices[name] = t.index
	t.lowlink[name] = t.index
	t.index++
	t.stack = append(t.stack, name)
	t.onStack[name] = true

	for _, dep := range t.edges[name] {
		if _, exists := t.edges[dep]; !exists {
			continue
		}

		if _, visited := t.indices[dep]; !visited {
			t.strongConnect(dep)
			t.lowlink[name] = min(t.lowlink[name], t.lowlink[dep])
		} else if t.onStack[dep] {
			t.lowlink[name] = min(t.lowlink[name], t.indices[dep])
		}
	}

	if t.lowlink[name] != t.indices[name] {
		return
	}

	var scc []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == name {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

func (g *Graph) HasCycle() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.cycles()) > 0
}

// CyclePath walks from start and returns the first cycle it meets as a path
// that begins and ends with the same name, or nil.
func (g *Graph) CyclePath(start string) []string {
	return g.CycleFrom(start)
}

// CycleFrom is CyclePath over every node reachable from any of starts.
func (g *Graph) CycleFrom(starts ...string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	inPath := make(map[string]bool)
	var path []string

	var dfs func(name string) []string
	dfs = func(name string) []string {
		if inPath[name] {
			i := slices.Index(path, name)
			cycle := slices.Clone(path[i:])
			return append(cycle, name)
		}
		if visited[name] {
			return nil
		}

		visited[name] = true
		inPath[name] = true
		path = append(path, name)

		for _, dep := range g.edges[name] {
			if _, exists := g.edges[dep]; !exists {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[name] = false
		return nil
	}

	for _, start := range starts {
		if _, exists := g.edges[start]; !exists {
			continue
		}
		if cycle := dfs(start); cycle != nil {
			return cycle
		}
	}
	return nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
