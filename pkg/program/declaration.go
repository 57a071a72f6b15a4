// Package program builds the declaration table of a MOTIF program from its
// parsed top-level forms. Declaration kinds form an open vocabulary: any
// (define-<kind> name ...) form is stored, whether or not the kind is one
// the resolver knows how to follow.
package program

import (
	"github.com/shepherdvovkes/Motif/pkg/reader"
)

// Well-known declaration kinds. The table itself does not restrict kinds to
// this set; these constants exist for the resolver and executor.
const (
	KindArchetype   = "archetype"
	KindImage       = "image"
	KindEmotion     = "emotion"
	KindMetaphor    = "metaphor"
	KindMotif       = "motif"
	KindLeitmotif   = "leitmotif"
	KindComposition = "composition"
	KindContext     = "context"
)

// Field is a named field of a declaration. The value payload is kept as
// unevaluated forms; interpretation happens at resolution or execution time.
type Field struct {
	Name   string
	Values []reader.Node
}

// Declaration is a named, kinded record extracted from a define-* form.
// Declarations are read-only after table construction.
type Declaration struct {
	Name   string
	Kind   string
	Fields []Field // source order preserved
	Pos    reader.Position
}

// Field returns the named field and whether it exists. When the source
// declares the same field twice, the first occurrence wins.
func (d *Declaration) Field(name string) (*Field, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// StringField returns the first string-literal value of the named field.
func (d *Declaration) StringField(name string) (string, bool) {
	f, ok := d.Field(name)
	if !ok {
		return "", false
	}
	for _, v := range f.Values {
		if s, ok := v.(*reader.String); ok {
			return s.Value, true
		}
	}
	return "", false
}

// SymbolList returns the symbol names listed in the named field. A field
// written as (motifs (a b c)) and one written as (motifs a b c) both yield
// [a b c]: a single nested form is unwrapped, matching how the original
// notation nests value lists.
func (d *Declaration) SymbolList(name string) []string {
	f, ok := d.Field(name)
	if !ok {
		return nil
	}

	values := f.Values
	if len(values) == 1 {
		if inner, ok := values[0].(*reader.Form); ok {
			values = inner.Children
		}
	}

	var names []string
	for _, v := range values {
		if sym, ok := v.(*reader.Symbol); ok {
			names = append(names, sym.Name)
		}
	}
	return names
}
