// Package resolve turns name references between declarations into an
// ordered, acyclic tree rooted at one declaration. Resolution is lazy and
// scoped to the requested root: a table may hold unreferenced or even
// invalid declarations without error.
package resolve

// Schema describes, per declaration kind, which fields hold references to
// other declarations. Fields not listed are literal data and are never
// followed. The schema is an explicit value rather than hardcoded branching
// so hosts can extend it as new kinds are documented.
type Schema map[string][]RefField

// RefField names a reference-bearing field of a declaration kind.
type RefField struct {
	// Field is the field name inside the declaration.
	Field string
	// Kind is the declaration kind the referenced names are expected to
	// have. Expectation is informational: resolution follows names through
	// the table regardless of the target's actual kind.
	Kind string
}

// DefaultSchema returns the reference schema of the core vocabulary.
func DefaultSchema() Schema {
	return Schema{
		"motif": {
			{Field: "archetypes", Kind: "archetype"},
			{Field: "metaphors", Kind: "metaphor"},
		},
		"leitmotif": {
			{Field: "motifs", Kind: "motif"},
			{Field: "leitmotifs", Kind: "leitmotif"},
		},
		"composition": {
			{Field: "leitmotif", Kind: "leitmotif"},
		},
	}
}

// RefFields returns the reference fields for a kind, nil for kinds with no
// schema entry (their fields are all literal data).
func (s Schema) RefFields(kind string) []RefField {
	return s[kind]
}
