package resolve

import (
	"github.com/shepherdvovkes/Motif/pkg/program"
)

// Node is one declaration in a resolved tree. Children mirror the traversal
// and preserve each list field's original element order; that order is
// load-bearing because it determines final output line order.
type Node struct {
	Decl     *program.Declaration
	Children []*Node
}

// Name returns the declaration name at this node.
func (n *Node) Name() string { return n.Decl.Name }

// Kind returns the declaration kind at this node.
func (n *Node) Kind() string { return n.Decl.Kind }

// Resolver resolves references between declarations against one table.
type Resolver struct {
	table  *program.Table
	schema Schema
}

// New creates a resolver over the given table using the default schema.
func New(table *program.Table) *Resolver {
	return NewWithSchema(table, DefaultSchema())
}

// NewWithSchema creates a resolver with a caller-supplied reference schema.
func NewWithSchema(table *program.Table, schema Schema) *Resolver {
	return &Resolver{table: table, schema: schema}
}

// Resolve builds the resolved tree rooted at the named declaration, or
// fails with a ReferenceError for a missing name or a reference cycle.
func (r *Resolver) Resolve(root string) (*Node, error) {
	decl, ok := r.table.Lookup(root)
	if !ok {
		return nil, &ReferenceError{
			Code:       CodeUnknownDeclaration,
			Name:       root,
			Referencer: "<root>",
		}
	}

	onPath := make(map[string]bool)
	var path []string
	return r.visit(decl, onPath, path)
}

// visit resolves one declaration depth-first. onPath and path together form
// the current-path stack used for cycle detection.
func (r *Resolver) visit(decl *program.Declaration, onPath map[string]bool, path []string) (*Node, error) {
	onPath[decl.Name] = true
	path = append(path, decl.Name)
	defer delete(onPath, decl.Name)

	node := &Node{Decl: decl}

	for _, ref := range r.schema.RefFields(decl.Kind) {
		// Non-symbol elements inside a reference field are literal data
		// (e.g. an enrichment call form) and are not followed.
		for _, name := range decl.SymbolList(ref.Field) {
			if onPath[name] {
				cycle := append(append([]string{}, path...), name)
				return nil, &ReferenceError{
					Code:       CodeCyclicDeclaration,
					Name:       name,
					Referencer: decl.Name,
					Cycle:      cycle,
				}
			}

			target, ok := r.table.Lookup(name)
			if !ok {
				return nil, &ReferenceError{
					Code:       CodeUnknownDeclaration,
					Name:       name,
					Referencer: decl.Name,
				}
			}

			child, err := r.visit(target, onPath, path)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		}
	}

	return node, nil
}

// Walk calls fn for every node in the tree in depth-first pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
