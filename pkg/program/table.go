package program

import (
	"sort"
	"strings"

	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// definePrefix marks a top-level form as a declaration.
const definePrefix = "define-"

// Directive is a top-level form that is not a declaration, e.g.
// (compose despair). Directives are handed to the executor in source order.
type Directive struct {
	Form *reader.Form
}

// Name returns the directive's operator symbol.
func (d *Directive) Name() string { return d.Form.Head() }

// Args returns the directive's operands.
func (d *Directive) Args() []reader.Node {
	if d.Form.Len() == 0 {
		return nil
	}
	return d.Form.Children[1:]
}

// Table maps declaration names to declarations for one program load.
// Redefining a name overwrites the previous entry (last-write-wins); later
// text refines earlier text, mirroring a live-editing workflow.
type Table struct {
	decls map[string]*Declaration
	order []string // insertion order of first definition
}

// NewTable creates an empty declaration table.
func NewTable() *Table {
	return &Table{decls: make(map[string]*Declaration)}
}

// Insert adds or replaces a declaration.
func (t *Table) Insert(d *Declaration) {
	if _, exists := t.decls[d.Name]; !exists {
		t.order = append(t.order, d.Name)
	}
	t.decls[d.Name] = d
}

// Lookup returns the declaration for a name.
func (t *Table) Lookup(name string) (*Declaration, bool) {
	d, ok := t.decls[name]
	return d, ok
}

// Len returns the number of distinct names in the table.
func (t *Table) Len() int { return len(t.decls) }

// Names returns all declared names in first-definition order.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// ByKind returns names of all declarations of the given kind, sorted for
// deterministic output.
func (t *Table) ByKind(kind string) []string {
	var names []string
	for name, d := range t.decls {
		if d.Kind == kind {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Kinds returns the distinct kinds present in the table, sorted.
func (t *Table) Kinds() []string {
	seen := make(map[string]bool)
	for _, d := range t.decls {
		seen[d.Kind] = true
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build walks top-level forms and produces a declaration table plus the
// non-declaration directives in source order. Atoms at the top level and
// empty forms are ignored.
func Build(forms []reader.Node) (*Table, []Directive, error) {
	table := NewTable()
	var directives []Directive

	for _, node := range forms {
		form, ok := node.(*reader.Form)
		if !ok || form.Len() == 0 {
			continue
		}

		head := form.Head()
		if !strings.HasPrefix(head, definePrefix) {
			directives = append(directives, Directive{Form: form})
			continue
		}

		decl, err := buildDeclaration(form, strings.TrimPrefix(head, definePrefix))
		if err != nil {
			return nil, nil, err
		}
		table.Insert(decl)
	}

	return table, directives, nil
}

// buildDeclaration extracts a declaration from a define-* form. The second
// child is the name; every following child is a (field-name values...) form.
func buildDeclaration(form *reader.Form, kind string) (*Declaration, error) {
	if form.Len() < 2 {
		return nil, &DeclarationError{
			Code:    CodeMissingName,
			Kind:    kind,
			Pos:     form.Pos(),
			Message: "declaration has no name",
		}
	}

	nameSym, ok := form.Children[1].(*reader.Symbol)
	if !ok {
		return nil, &DeclarationError{
			Code:    CodeMissingName,
			Kind:    kind,
			Pos:     form.Children[1].Pos(),
			Message: "declaration name must be a symbol",
		}
	}

	decl := &Declaration{
		Name: nameSym.Name,
		Kind: kind,
		Pos:  form.Pos(),
	}

	for _, child := range form.Children[2:] {
		fieldForm, ok := child.(*reader.Form)
		if !ok || fieldForm.Len() == 0 {
			return nil, &DeclarationError{
				Code:    CodeMalformedField,
				Kind:    kind,
				Name:    decl.Name,
				Pos:     child.Pos(),
				Message: "field must be a non-empty form",
			}
		}
		fieldName, ok := fieldForm.Children[0].(*reader.Symbol)
		if !ok {
			return nil, &DeclarationError{
				Code:    CodeMalformedField,
				Kind:    kind,
				Name:    decl.Name,
				Pos:     fieldForm.Pos(),
				Message: "field name must be a symbol",
			}
		}
		decl.Fields = append(decl.Fields, Field{
			Name:   fieldName.Name,
			Values: fieldForm.Children[1:],
		})
	}

	return decl, nil
}
