// Package ontology implements the categorical ontology model: objects,
// typed morphisms, categories, and functors, together with the algebra
// operations (coproduct, product, difference, pullback, pushout) and
// functor composition.
//
// Categories are mutable only through AddObject/AddMorphism. Every
// algebra operation is pure: it reads its inputs and allocates a new
// category, so a category can be treated as immutable once published.
package ontology

import "fmt"

// Object is a named concept in an ontology. It is a value type and is
// never mutated after construction; operations that need an object in
// two categories create distinct copies.
type Object struct {
	// Name is unique within the owning category.
	Name string

	// Domain is a free-text classification tag (e.g. "equipment").
	Domain string

	// Attributes is an ordered list of tag strings.
	Attributes []string

	// Semantic is a free-text description used by semantic validation.
	Semantic string
}

// MorphismType classifies the relationship a morphism expresses.
// The enumeration is closed: new kinds are added here, never as
// runtime strings.
type MorphismType int

const (
	// Functional relationships (produces, consumes).
	Functional MorphismType = iota
	// Causal relationships (causes, enables).
	Causal
	// Structural relationships (has-part, is-a).
	Structural
	// Temporal relationships (before, after, during).
	Temporal
)

var morphismTypeNames = map[MorphismType]string{
	Functional: "FUNCTIONAL",
	Causal:     "CAUSAL",
	Structural: "STRUCTURAL",
	Temporal:   "TEMPORAL",
}

// String returns the canonical wire name of the morphism type.
func (t MorphismType) String() string {
	if name, ok := morphismTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MorphismType(%d)", int(t))
}

// ParseMorphismType converts a wire name into a MorphismType.
func ParseMorphismType(s string) (MorphismType, error) {
	for t, name := range morphismTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown morphism type %q", s)
}

// Morphism is a named, typed, directed edge between two objects of the
// same category. Source and Target are object names; the owning
// category guarantees they resolve (see Category.AddMorphism).
type Morphism struct {
	Name     string
	Source   string
	Target   string
	Type     MorphismType
	Semantic string
}
