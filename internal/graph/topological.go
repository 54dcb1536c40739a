package graph

import (
	"errors"
	"slices"
)

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders nodes so every node comes after the dependencies it
// declared. Ties are broken by name, so the order is stable.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dependents := make(map[string][]string, len(g.edges))
	inDegree := make(map[string]int, len(g.edges))

	for name, deps := range g.edges {
		if _, ok := inDegree[name]; !ok {
			inDegree[name] = 0
		}
		for _, dep := range deps {
			if _, exists := g.edges[dep]; exists {
				dependents[dep] = append(dependents[dep], name)
				inDegree[name]++
			}
		}
	}

	var queue []string
	for _, name := range g.sortedNodes() {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	sorted := make([]string, 0, len(g.edges))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		sorted = append(sorted, name)

		next := dependents[name]
		slices.Sort(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.edges) {
		return nil, ErrCycleDetected
	}
	return sorted, nil
}

// Levels groups nodes by depth: level 0 declares no known dependencies, and
// every node sits one level above its deepest dependency. Nodes on the same
// level do not depend on each other.
func (g *Graph) Levels() ([][]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.cycles()) > 0 {
		return nil, ErrCycleDetected
	}

	levels := make(map[string]int, len(g.edges))

	var level func(name string) int
	level = func(name string) int {
		if l, ok := levels[name]; ok {
			return l
		}

		deepest := -1
		for _, dep := range g.edges[name] {
			if _, exists := g.edges[dep]; !exists {
				continue
			}
			deepest = max(deepest, level(dep))
		}

		levels[name] = deepest + 1
		return deepest + 1
	}

	maxLevel := -1
	for _, name := range g.sortedNodes() {
		maxLevel = max(maxLevel, level(name))
	}

	groups := make([][]string, maxLevel+1)
	for _, name := range g.sortedNodes() {
		l := levels[name]
		groups[l] = append(groups[l], name)
	}
	return groups, nil
}
