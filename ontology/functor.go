package ontology

import "fmt"

// Functor is a structure mapping between two categories. The object
// and morphism maps are partial: source members without an entry are
// simply unmapped, which is a valid state. Consumers that strictly
// require a mapping decide themselves whether its absence is fatal.
type Functor struct {
	Name   string
	Source *Category
	Target *Category

	// ObjectMap maps source object names to target object names.
	ObjectMap map[string]string

	// MorphismMap maps source morphism names to target morphism names.
	MorphismMap map[string]string

	// Rules are free-text semantic mapping rules. They carry intent for
	// the semantic validator and have no structural meaning.
	Rules []string
}

// NewFunctor creates a functor with empty maps.
func NewFunctor(name string, source, target *Category) *Functor {
	return &Functor{
		Name:        name,
		Source:      source,
		Target:      target,
		ObjectMap:   make(map[string]string),
		MorphismMap: make(map[string]string),
	}
}

// ObjectImage resolves the image of the named source object in the
// target category. The second result is false when the object is
// unmapped or the mapped name does not resolve.
func (f *Functor) ObjectImage(name string) (Object, bool) {
	targetName, ok := f.ObjectMap[name]
	if !ok {
		return Object{}, false
	}
	return f.Target.Object(targetName)
}

// MorphismImage resolves the image of the named source morphism.
func (f *Functor) MorphismImage(name string) (Morphism, bool) {
	targetName, ok := f.MorphismMap[name]
	if !ok {
		return Morphism{}, false
	}
	return f.Target.Morphism(targetName)
}

// Validate checks the functor's mappings against its categories and
// returns a list of issues. An empty list means the functor is
// structurally sound: every mapped name exists on both sides and
// mapped morphisms preserve the mapped endpoints.
func (f *Functor) Validate() []string {
	var issues []string

	for src, tgt := range f.ObjectMap {
		if !f.Source.HasObject(src) {
			issues = append(issues, fmt.Sprintf("source object %q not found in %q", src, f.Source.Name))
		}
		if _, ok := f.Target.Object(tgt); !ok {
			issues = append(issues, fmt.Sprintf("target object %q not found in %q", tgt, f.Target.Name))
		}
	}

	for srcName, tgtName := range f.MorphismMap {
		srcMorph, srcOK := f.Source.Morphism(srcName)
		tgtMorph, tgtOK := f.Target.Morphism(tgtName)
		if !srcOK {
			issues = append(issues, fmt.Sprintf("source morphism %q not found in %q", srcName, f.Source.Name))
		}
		if !tgtOK {
			issues = append(issues, fmt.Sprintf("target morphism %q not found in %q", tgtName, f.Target.Name))
		}
		if !srcOK || !tgtOK {
			continue
		}
		// F(f: A -> B) must be F(f): F(A) -> F(B) for mapped endpoints.
		if expected, ok := f.ObjectMap[srcMorph.Source]; ok && tgtMorph.Source != expected {
			issues = append(issues, fmt.Sprintf("functor does not preserve source of %q", srcName))
		}
		if expected, ok := f.ObjectMap[srcMorph.Target]; ok && tgtMorph.Target != expected {
			issues = append(issues, fmt.Sprintf("functor does not preserve target of %q", srcName))
		}
	}

	return issues
}

// Compose chains two functors: given f: A -> B and g: B -> C it builds
// g∘f: A -> C. It fails with ErrIncompatibleFunctor unless f's target
// category is g's source category (compared by name).
//
// Both maps compose partially: an entry survives only when both hops
// are present. Missing hops are omitted, not an error, because
// composition of partial functors is itself partial.
func Compose(g, f *Functor) (*Functor, error) {
	if f.Target == nil || g.Source == nil || f.Target.Name != g.Source.Name {
		return nil, fmt.Errorf("compose %q after %q: target %q does not chain with source %q: %w",
			g.Name, f.Name, categoryName(f.Target), categoryName(g.Source), ErrIncompatibleFunctor)
	}

	composed := NewFunctor(fmt.Sprintf("(%s ∘ %s)", g.Name, f.Name), f.Source, g.Target)

	for a, b := range f.ObjectMap {
		if c, ok := g.ObjectMap[b]; ok {
			composed.ObjectMap[a] = c
		}
	}
	for a, b := range f.MorphismMap {
		if c, ok := g.MorphismMap[b]; ok {
			composed.MorphismMap[a] = c
		}
	}

	return composed, nil
}

func categoryName(c *Category) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}
