package ontology

import "fmt"

// The algebra operations below never mutate their inputs; every result
// is a freshly allocated category with a deterministic name of the
// form "{A}_{op}_{B}". Repeated invocation over the same inputs yields
// an identical result.

// Coproduct builds the disjoint union of a and b. Names that collide
// between the two inputs are kept on both sides, renamed with their
// source category's name as a prefix ("A.X", "B.X"); non-colliding
// names are kept verbatim. No morphisms are synthesized across the two
// inputs, so the result always has |A|+|B| objects and morphisms.
func Coproduct(a, b *Category) *Category {
	out := NewCategory(
		fmt.Sprintf("%s_coproduct_%s", a.Name, b.Name),
		fmt.Sprintf("Coproduct of %s and %s", a.Name, b.Name),
	)

	copySide(out, a, func(name string) bool { return b.HasObject(name) }, b.HasMorphism)
	copySide(out, b, func(name string) bool { return a.HasObject(name) }, a.HasMorphism)

	return out
}

// copySide copies src's objects and morphisms into out, prefixing any
// name for which the collision predicate reports true.
func copySide(out, src *Category, objCollides func(string) bool, morphCollides func(string) bool) {
	rename := make(map[string]string, src.ObjectCount())
	for _, obj := range src.Objects() {
		name := obj.Name
		if objCollides(name) {
			name = src.Name + "." + name
		}
		rename[obj.Name] = name
		obj.Name = name
		out.putObject(obj)
	}
	for _, m := range src.Morphisms() {
		if morphCollides(m.Name) {
			m.Name = src.Name + "." + m.Name
		}
		m.Source = rename[m.Source]
		m.Target = rename[m.Target]
		out.putMorphism(m)
	}
}

// Product builds the joint configuration space of a and b: one object
// per pair of objects and one morphism per pair of morphisms, so the
// result has |A|×|B| objects and |A|×|B| morphisms.
//
// This is deliberately not the textbook categorical product: the
// morphism set is the full Cartesian pairing, not a restriction to
// morphisms between already-paired endpoints. Downstream consumers
// depend on this literal behavior.
func Product(a, b *Category) *Category {
	out := NewCategory(
		fmt.Sprintf("%s_product_%s", a.Name, b.Name),
		fmt.Sprintf("Product of %s and %s", a.Name, b.Name),
	)

	for _, oa := range a.Objects() {
		for _, ob := range b.Objects() {
			attrs := make([]string, 0, len(oa.Attributes)+len(ob.Attributes))
			attrs = append(attrs, oa.Attributes...)
			attrs = append(attrs, ob.Attributes...)
			out.putObject(Object{
				Name:       pairName(oa.Name, ob.Name),
				Domain:     oa.Domain + "×" + ob.Domain,
				Attributes: attrs,
				Semantic:   fmt.Sprintf("Pair of [%s] and [%s]", oa.Semantic, ob.Semantic),
			})
		}
	}

	for _, ma := range a.Morphisms() {
		for _, mb := range b.Morphisms() {
			out.putMorphism(Morphism{
				Name:     pairName(ma.Name, mb.Name),
				Source:   pairName(ma.Source, mb.Source),
				Target:   pairName(ma.Target, mb.Target),
				Type:     Structural,
				Semantic: fmt.Sprintf("Product morphism: [%s] × [%s]", ma.Semantic, mb.Semantic),
			})
		}
	}

	return out
}

// Difference keeps the objects of a whose (name, domain) pair has no
// match in b, verbatim and unrenamed. A morphism of a survives only if
// both of its endpoints survived the object filter; orphaned morphisms
// are excluded regardless of their own names.
func Difference(a, b *Category) *Category {
	out := NewCategory(
		fmt.Sprintf("%s_difference_%s", a.Name, b.Name),
		fmt.Sprintf("Difference: %s minus %s", a.Name, b.Name),
	)

	excluded := make(map[[2]string]bool, b.ObjectCount())
	for _, obj := range b.Objects() {
		excluded[[2]string{obj.Name, obj.Domain}] = true
	}

	kept := make(map[string]bool, a.ObjectCount())
	for _, obj := range a.Objects() {
		if excluded[[2]string{obj.Name, obj.Domain}] {
			continue
		}
		kept[obj.Name] = true
		out.putObject(obj)
	}

	for _, m := range a.Morphisms() {
		if kept[m.Source] && kept[m.Target] {
			out.putMorphism(m)
		}
	}

	return out
}

// Pullback extracts the common structure of a and b over c: for every
// pair (x, y) with x in a and y in b, the pair becomes an object iff
// both functor maps contain an entry and f(x) == g(y). Absence of a
// mapping means no match, never an error.
//
// A morphism pair (m1, m2) is included iff both of its endpoint pairs
// were included as objects.
//
// f must map a into c and g must map b into c.
func Pullback(a, b, c *Category, f, g *Functor) (*Category, error) {
	if err := checkFunctorWiring("pullback", f, a, c); err != nil {
		return nil, err
	}
	if err := checkFunctorWiring("pullback", g, b, c); err != nil {
		return nil, err
	}

	out := NewCategory(
		fmt.Sprintf("%s_pullback_%s", a.Name, b.Name),
		fmt.Sprintf("Pullback of %s and %s over %s", a.Name, b.Name, c.Name),
	)

	for _, oa := range a.Objects() {
		fa, ok := f.ObjectMap[oa.Name]
		if !ok {
			continue
		}
		for _, ob := range b.Objects() {
			gb, ok := g.ObjectMap[ob.Name]
			if !ok || fa != gb {
				continue
			}
			attrs := make([]string, 0, len(oa.Attributes)+len(ob.Attributes))
			attrs = append(attrs, oa.Attributes...)
			attrs = append(attrs, ob.Attributes...)
			out.putObject(Object{
				Name:       pairName(oa.Name, ob.Name),
				Domain:     "pullback",
				Attributes: attrs,
				Semantic:   fmt.Sprintf("Pullback element: %s and %s both map to %s", oa.Name, ob.Name, fa),
			})
		}
	}

	for _, ma := range a.Morphisms() {
		for _, mb := range b.Morphisms() {
			if out.HasObject(pairName(ma.Source, mb.Source)) && out.HasObject(pairName(ma.Target, mb.Target)) {
				out.putMorphism(Morphism{
					Name:     pairName(ma.Name, mb.Name),
					Source:   pairName(ma.Source, mb.Source),
					Target:   pairName(ma.Target, mb.Target),
					Type:     Structural,
					Semantic: fmt.Sprintf("Pullback morphism of %s and %s", ma.Name, mb.Name),
				})
			}
		}
	}

	return out, nil
}

// Pushout merges a and b along a common source s: for every object of
// s whose images under f and g both resolve, the two images are
// identified into a single result object. The merged object carries
// a's fields (a wins attribute conflicts) and b's image name is
// registered as an alias for downstream lookup.
//
// Objects not reachable from s are retained coproduct-style, with the
// same prefix-on-collision rule. Morphisms from both sides are carried
// over with their endpoints remapped through the identification.
//
// f must map s into a and g must map s into b.
func Pushout(a, b, s *Category, f, g *Functor) (*Category, error) {
	if err := checkFunctorWiring("pushout", f, s, a); err != nil {
		return nil, err
	}
	if err := checkFunctorWiring("pushout", g, s, b); err != nil {
		return nil, err
	}

	out := NewCategory(
		fmt.Sprintf("%s_pushout_%s", a.Name, b.Name),
		fmt.Sprintf("Pushout of %s and %s from %s", a.Name, b.Name, s.Name),
	)

	// identified maps b's image name to a's image name for every object
	// of s with both images present.
	identified := make(map[string]string)
	for _, so := range s.Objects() {
		fa, okF := f.ObjectMap[so.Name]
		gb, okG := g.ObjectMap[so.Name]
		if okF && okG && a.HasObject(fa) && b.HasObject(gb) {
			identified[gb] = fa
		}
	}

	collides := func(name string, other *Category) bool {
		if !other.HasObject(name) {
			return false
		}
		// A name shared through identification is not a collision.
		return identified[name] != name
	}

	renameA := make(map[string]string, a.ObjectCount())
	for _, obj := range a.Objects() {
		name := obj.Name
		if collides(name, b) {
			name = a.Name + "." + name
		}
		renameA[obj.Name] = name
		obj.Name = name
		out.putObject(obj)
	}

	renameB := make(map[string]string, b.ObjectCount())
	for _, obj := range b.Objects() {
		if canonical, merged := identified[obj.Name]; merged {
			final := renameA[canonical]
			renameB[obj.Name] = final
			out.addAlias(obj.Name, final)
			continue
		}
		name := obj.Name
		if collides(name, a) {
			name = b.Name + "." + name
		}
		renameB[obj.Name] = name
		obj.Name = name
		out.putObject(obj)
	}

	for _, m := range a.Morphisms() {
		if b.HasMorphism(m.Name) {
			m.Name = a.Name + "." + m.Name
		}
		m.Source = renameA[m.Source]
		m.Target = renameA[m.Target]
		out.putMorphism(m)
	}
	for _, m := range b.Morphisms() {
		if a.HasMorphism(m.Name) {
			m.Name = b.Name + "." + m.Name
		}
		m.Source = renameB[m.Source]
		m.Target = renameB[m.Target]
		out.putMorphism(m)
	}

	return out, nil
}

func pairName(left, right string) string {
	return fmt.Sprintf("(%s, %s)", left, right)
}

// checkFunctorWiring verifies that fn maps from into to, by category
// name. The algebra trusts names rather than pointer identity so that
// categories decoded from the wire compose with in-memory ones.
func checkFunctorWiring(op string, fn *Functor, from, to *Category) error {
	if fn == nil || fn.Source == nil || fn.Target == nil {
		return fmt.Errorf("%s: functor is not fully wired: %w", op, ErrDanglingReference)
	}
	if fn.Source.Name != from.Name || fn.Target.Name != to.Name {
		return fmt.Errorf("%s: functor %q maps %s -> %s, want %s -> %s: %w",
			op, fn.Name, fn.Source.Name, fn.Target.Name, from.Name, to.Name, ErrIncompatibleFunctor)
	}
	return nil
}
