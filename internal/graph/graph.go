package graph

import (
	"slices"
	"sync"
)

// Graph records which bindings declared which dependencies. Edges may point
// at names that are not (yet) nodes; those are reported by Missing.
type Graph struct {
	mu    sync.RWMutex
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

// Set adds name or replaces its declared dependencies.
func (g *Graph) Set(name string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps := make([]string, len(dependencies))
	copy(deps, dependencies)
	g.edges[name] = deps
}

func (g *Graph) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.edges, name)
}

func (g *Graph) Has(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.edges[name]
	return exists
}

func (g *Graph) Dependencies(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps, exists := g.edges[name]
	if !exists {
		return nil
	}
	return slices.Clone(deps)
}

// Dependents returns the sorted names of nodes that declare name.
func (g *Graph) Dependents(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for node, deps := range g.edges {
		if slices.Contains(deps, name) {
			dependents = append(dependents, node)
		}
	}
	slices.Sort(dependents)
	return dependents
}

// Nodes returns all node names, sorted.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.sortedNodes()
}

func (g *Graph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.edges))
	for name := range g.edges {
		nodes = append(nodes, name)
	}
	slices.Sort(nodes)
	return nodes
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	for name, deps := range g.edges {
		clone.edges[name] = slices.Clone(deps)
	}
	return clone
}

// Missing returns the sorted names that are declared as a dependency but
// have no node of their own.
func (g *Graph) Missing() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]bool)
	var missing []string
	for _, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.edges[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}
	slices.Sort(missing)
	return missing
}
