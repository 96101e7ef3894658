// Package loadorder computes a deterministic load order for a set of mods
// from their declared hard and optional dependencies.
package loadorder

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// CycleError reports mods that could not be ordered. Names holds the
	// mods that sit on a dependency cycle; Blocked holds mods that are not on
	// one but depend, directly or transitively, on a mod that is.
	CycleError struct {
		Names   []string
		Blocked []string
	}

	// graph is a directed graph keyed by mod name. An edge from A to B means
	// A loads before B.
	graph struct {
		adjacency map[string][]string
		nodeSet   map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between: %s", strings.Join(e.Names, ", "))
}

func newGraph() *graph {
	return &graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

func (g *graph) addNode(name string) {
	g.nodeSet[name] = true
}

func (g *graph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// sort orders the nodes with Kahn's algorithm, always taking the
// lexically smallest ready node so the result does not depend on insertion
// order. Nodes left over because of a cycle are returned sorted, after the
// ordered ones, together with a *CycleError.
func (g *graph) sort() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodeSet))
	for node := range g.nodeSet {
		inDegree[node] += 0
		for _, next := range g.adjacency[node] {
			inDegree[next]++
		}
	}

	var ready []string
	for node, d := range inDegree {
		if d == 0 {
			ready = append(ready, node)
		}
	}

	result := make([]string, 0, len(g.nodeSet))
	for len(ready) > 0 {
		sort.Strings(ready)
		node := ready[0]
		ready = ready[1:]
		result = append(result, node)

		for _, next := range g.adjacency[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(result) == len(g.nodeSet) {
		return result, nil
	}

	var stuck []string
	for node, d := range inDegree {
		if d > 0 {
			stuck = append(stuck, node)
		}
	}
	sort.Strings(stuck)

	cycleErr := &CycleError{}
	for _, node := range stuck {
		if g.reachesItself(node, inDegree) {
			cycleErr.Names = append(cycleErr.Names, node)
		} else {
			cycleErr.Blocked = append(cycleErr.Blocked, node)
		}
	}
	return append(result, stuck...), cycleErr
}

// reachesItself reports whether a path leads from start back to start
// through nodes that were left unsorted.
func (g *graph) reachesItself(start string, inDegree map[string]int) bool {
	visited := make(map[string]bool)
	stack := append([]string(nil), g.adjacency[start]...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == start {
			return true
		}
		if visited[node] || inDegree[node] == 0 {
			continue
		}
		visited[node] = true
		stack = append(stack, g.adjacency[node]...)
	}
	return false
}
