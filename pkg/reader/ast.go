// Package reader tokenizes and parses symbolic-expression source text into
// an abstract syntax tree of atoms and ordered forms. The reader has no
// semantic vocabulary: it accepts any well-parenthesized input and leaves
// the interpretation of operators like define-* to later stages.
package reader

import "strings"

// Node is a parse-tree node: a Symbol, String, Number, or Form.
// Nodes are immutable once parsed.
type Node interface {
	// Pos returns the node's position in the source text.
	Pos() Position
	// Sexpr renders the node back to s-expression text.
	Sexpr() string
}

// Symbol is a bare identifier atom.
type Symbol struct {
	Name     string
	Position Position
}

// Pos returns the symbol's source position.
func (s *Symbol) Pos() Position { return s.Position }

// Sexpr renders the symbol.
func (s *Symbol) Sexpr() string { return s.Name }

// String is a string literal atom. Value holds the content with the
// surrounding quotes stripped.
type String struct {
	Value    string
	Position Position
}

// Pos returns the string's source position.
func (s *String) Pos() Position { return s.Position }

// Sexpr renders the string with quotes restored.
func (s *String) Sexpr() string {
	return `"` + strings.ReplaceAll(s.Value, `"`, `\"`) + `"`
}

// Number is a numeric literal atom. Text preserves the literal spelling;
// Value holds the parsed decimal value.
type Number struct {
	Text     string
	Value    float64
	Position Position
}

// Pos returns the number's source position.
func (n *Number) Pos() Position { return n.Position }

// Sexpr renders the number as written.
func (n *Number) Sexpr() string { return n.Text }

// IsInt reports whether the literal is a whole number with no fractional
// part in its spelling.
func (n *Number) IsInt() bool {
	return !strings.ContainsAny(n.Text, ".eE")
}

// Int returns the value truncated to an integer.
func (n *Number) Int() int { return int(n.Value) }

// Form is an ordered sequence of child nodes, delimited by parentheses in
// the source. An empty form is valid.
type Form struct {
	Children []Node
	Position Position
}

// Pos returns the form's source position (its opening paren).
func (f *Form) Pos() Position { return f.Position }

// Sexpr renders the form and its children.
func (f *Form) Sexpr() string {
	parts := make([]string, len(f.Children))
	for i, c := range f.Children {
		parts[i] = c.Sexpr()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Len returns the number of children.
func (f *Form) Len() int { return len(f.Children) }

// Head returns the first child as a symbol name, or "" if the form is
// empty or its first child is not a symbol.
func (f *Form) Head() string {
	if len(f.Children) == 0 {
		return ""
	}
	if sym, ok := f.Children[0].(*Symbol); ok {
		return sym.Name
	}
	return ""
}

// SymbolNames returns the names of all children that are symbols, in order.
// Non-symbol children are skipped.
func (f *Form) SymbolNames() []string {
	var names []string
	for _, c := range f.Children {
		if sym, ok := c.(*Symbol); ok {
			names = append(names, sym.Name)
		}
	}
	return names
}
