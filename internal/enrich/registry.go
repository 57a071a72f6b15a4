// Package enrich implements the interpreter's extension point: a host may
// register named handlers that rewrite call forms like
// (predict-emotional-triggers sadness "urban") into literal values before
// the declaration table is built. Call forms with no registered handler
// pass through unevaluated as literal data, which is the core's default
// contract.
package enrich

import (
	"fmt"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// Handler maps a call form's arguments to a replacement literal node.
type Handler func(args []reader.Node) (reader.Node, error)

// Registry holds named enrichment handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler under the given operator name.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler %q already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Has reports whether a handler is registered for the name.
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.handlers) }

// Apply rewrites every form whose head names a registered handler,
// depth-first so nested call forms are enriched before their parent.
// Forms with no matching handler are returned unchanged.
func (r *Registry) Apply(forms []reader.Node) ([]reader.Node, error) {
	if r == nil || len(r.handlers) == 0 {
		return forms, nil
	}

	out := make([]reader.Node, len(forms))
	for i, node := range forms {
		rewritten, err := r.rewrite(node)
		if err != nil {
			return nil, err
		}
		out[i] = rewritten
	}
	return out, nil
}

func (r *Registry) rewrite(node reader.Node) (reader.Node, error) {
	form, ok := node.(*reader.Form)
	if !ok {
		return node, nil
	}

	children := make([]reader.Node, len(form.Children))
	for i, c := range form.Children {
		rewritten, err := r.rewrite(c)
		if err != nil {
			return nil, err
		}
		children[i] = rewritten
	}
	result := &reader.Form{Children: children, Position: form.Position}

	h, ok := r.handlers[result.Head()]
	if !ok {
		return result, nil
	}

	replacement, err := h(result.Children[1:])
	if err != nil {
		return nil, fmt.Errorf("enrichment %q failed: %w", result.Head(), err)
	}
	return replacement, nil
}
