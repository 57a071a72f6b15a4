// Package dag provides the whole-program reference graph over a declaration
// table. It supports cycle detection and deterministic ordering for the
// graph and check commands; per-composition resolution itself lives in
// pkg/resolve and stays lazy.
package dag

import (
	"fmt"
	"sort"

	"github.com/shepherdvovkes/Motif/pkg/program"
	"github.com/shepherdvovkes/Motif/pkg/resolve"
)

// Node is one declaration in the reference graph.
type Node struct {
	// Name is the declaration name.
	Name string
	// Kind is the declaration kind.
	Kind string
}

// Graph is a directed graph of declaration references. An edge runs from a
// referencer to the declaration it names.
type Graph struct {
	nodes    map[string]*Node
	refs     map[string][]string // referencer -> referenced
	refdBy   map[string][]string // referenced -> referencers
	dangling map[string][]string // referencer -> names missing from the table
}

// NewGraph creates an empty reference graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		refs:     make(map[string][]string),
		refdBy:   make(map[string][]string),
		dangling: make(map[string][]string),
	}
}

// FromTable builds the reference graph of an entire declaration table using
// the given schema. References to names absent from the table are recorded
// as dangling rather than failing: building the overview graph must not be
// stricter than lazy per-root resolution.
func FromTable(table *program.Table, schema resolve.Schema) *Graph {
	g := NewGraph()

	for _, name := range table.Names() {
		decl, _ := table.Lookup(name)
		g.addNode(decl.Name, decl.Kind)
	}

	for _, name := range table.Names() {
		decl, _ := table.Lookup(name)
		for _, ref := range schema.RefFields(decl.Kind) {
			for _, target := range decl.SymbolList(ref.Field) {
				if _, ok := table.Lookup(target); !ok {
					g.dangling[name] = append(g.dangling[name], target)
					continue
				}
				g.addEdge(name, target)
			}
		}
	}

	return g
}

func (g *Graph) addNode(name, kind string) {
	if _, exists := g.nodes[name]; !exists {
		g.nodes[name] = &Node{Name: name, Kind: kind}
		g.refs[name] = []string{}
		g.refdBy[name] = []string{}
	}
}

func (g *Graph) addEdge(from, to string) {
	if !contains(g.refs[from], to) {
		g.refs[from] = append(g.refs[from], to)
	}
	if !contains(g.refdBy[to], from) {
		g.refdBy[to] = append(g.refdBy[to], from)
	}
}

// Node returns a node by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// References returns the names a declaration references, in field order.
func (g *Graph) References(name string) []string {
	return g.refs[name]
}

// Referencers returns the declarations that reference a name.
func (g *Graph) Referencers(name string) []string {
	return g.refdBy[name]
}

// Dangling returns, per referencer, the referenced names missing from the
// table.
func (g *Graph) Dangling() map[string][]string {
	out := make(map[string][]string, len(g.dangling))
	for k, v := range g.dangling {
		out[k] = append([]string{}, v...)
	}
	return out
}

// NodeCount returns the number of declarations in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of reference edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.refs {
		count += len(targets)
	}
	return count
}

// Roots returns declarations nothing references, sorted. In a typical
// program these are the compositions.
func (g *Graph) Roots() []string {
	var roots []string
	for name := range g.nodes {
		if len(g.refdBy[name]) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns declarations that reference nothing, sorted. In a typical
// program these are the archetypes.
func (g *Graph) Leaves() []string {
	var leaves []string
	for name := range g.nodes {
		if len(g.refs[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// HasCycle returns true if the graph contains a reference cycle, along with
// the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		recStack[name] = true

		for _, target := range g.refs[name] {
			if !visited[target] {
				path[target] = name
				if dfs(target) {
					return true
				}
			} else if recStack[target] {
				// Found cycle, reconstruct path
				cyclePath = []string{target}
				for curr := name; curr != target; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{target}, cyclePath...)
				return true
			}
		}

		recStack[name] = false
		return false
	}

	// Sorted start order keeps the reported cycle deterministic.
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !visited[name] {
			if dfs(name) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// TopologicalSort returns declarations so that every referenced declaration
// precedes its referencers. Returns an error if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("reference cycle: %v", cyclePath)
	}

	visited := make(map[string]bool)
	var result []*Node

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true

		for _, target := range g.refs[name] {
			visit(target)
		}

		result = append(result, g.nodes[name])
	}

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		visit(name)
	}

	return result, nil
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
