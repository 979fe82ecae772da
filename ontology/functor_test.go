package ontology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codsl/ontology"
)

func simpleCategory(t *testing.T, name string, objects ...string) *ontology.Category {
	t.Helper()
	cat := ontology.NewCategory(name, "")
	for _, o := range objects {
		require.NoError(t, cat.AddObject(ontology.Object{Name: o, Domain: "d"}))
	}
	return cat
}

func TestComposePartialMaps(t *testing.T) {
	a := simpleCategory(t, "A", "a1", "a2", "a3")
	b := simpleCategory(t, "B", "b1", "b2")
	c := simpleCategory(t, "C", "c1")

	f := ontology.NewFunctor("f", a, b)
	f.ObjectMap["a1"] = "b1"
	f.ObjectMap["a2"] = "b2"
	// a3 unmapped.

	g := ontology.NewFunctor("g", b, c)
	g.ObjectMap["b1"] = "c1"
	// b2 unmapped: the a2 entry must be silently dropped.

	composed, err := ontology.Compose(g, f)
	require.NoError(t, err)

	assert.Equal(t, a, composed.Source)
	assert.Equal(t, c, composed.Target)
	assert.Equal(t, map[string]string{"a1": "c1"}, composed.ObjectMap)
}

func TestComposeIncompatible(t *testing.T) {
	a := simpleCategory(t, "A", "a1")
	b := simpleCategory(t, "B", "b1")
	c := simpleCategory(t, "C", "c1")

	f := ontology.NewFunctor("f", a, b)
	g := ontology.NewFunctor("g", c, c)

	_, err := ontology.Compose(g, f)
	assert.ErrorIs(t, err, ontology.ErrIncompatibleFunctor)
}

func TestComposeAssociativity(t *testing.T) {
	a := simpleCategory(t, "A", "a1", "a2")
	b := simpleCategory(t, "B", "b1", "b2")
	c := simpleCategory(t, "C", "c1", "c2")
	d := simpleCategory(t, "D", "d1")

	f := ontology.NewFunctor("f", a, b)
	f.ObjectMap["a1"] = "b1"
	f.ObjectMap["a2"] = "b2"
	g := ontology.NewFunctor("g", b, c)
	g.ObjectMap["b1"] = "c1"
	h := ontology.NewFunctor("h", c, d)
	h.ObjectMap["c1"] = "d1"
	h.ObjectMap["c2"] = "d1"

	gf, err := ontology.Compose(g, f)
	require.NoError(t, err)
	left, err := ontology.Compose(h, gf)
	require.NoError(t, err)

	hg, err := ontology.Compose(h, g)
	require.NoError(t, err)
	right, err := ontology.Compose(hg, f)
	require.NoError(t, err)

	assert.Equal(t, left.ObjectMap, right.ObjectMap)
}

func TestFunctorValidate(t *testing.T) {
	a := simpleCategory(t, "A", "a1", "a2")
	b := simpleCategory(t, "B", "b1", "b2")
	require.NoError(t, a.AddMorphism(ontology.Morphism{Name: "m", Source: "a1", Target: "a2", Type: ontology.Structural}))
	require.NoError(t, b.AddMorphism(ontology.Morphism{Name: "n", Source: "b2", Target: "b1", Type: ontology.Structural}))

	f := ontology.NewFunctor("f", a, b)
	f.ObjectMap["a1"] = "b1"
	f.ObjectMap["a2"] = "b2"
	f.MorphismMap["m"] = "n"

	// n runs b2 -> b1 but the object map sends a1 -> b1, a2 -> b2, so
	// neither endpoint of m is preserved.
	issues := f.Validate()
	assert.Len(t, issues, 2)

	f.ObjectMap["missing"] = "nowhere"
	issues = f.Validate()
	assert.Len(t, issues, 4)
}

func TestObjectImage(t *testing.T) {
	a := simpleCategory(t, "A", "a1")
	b := simpleCategory(t, "B", "b1")

	f := ontology.NewFunctor("f", a, b)
	f.ObjectMap["a1"] = "b1"

	img, ok := f.ObjectImage("a1")
	require.True(t, ok)
	assert.Equal(t, "b1", img.Name)

	_, ok = f.ObjectImage("a2")
	assert.False(t, ok)
}
