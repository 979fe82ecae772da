package codec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/ontology"
)

const factoryJSON = `{
  "name": "FactoryA",
  "description": "Factory A - Automotive Parts",
  "objects": [
    {"name": "BoilerA1", "domain": "equipment", "attributes": ["type:gas_boiler", "capacity:5MW"], "semantic": "gas fired boiler"},
    {"name": "CO2_Combustion", "domain": "emission", "attributes": ["scope:1"]}
  ],
  "morphisms": [
    {"name": "boiler_emits", "source": "BoilerA1", "target": "CO2_Combustion", "type": "CAUSAL", "semantic": "boiler emits CO2"}
  ]
}`

func TestDecodeCategory(t *testing.T) {
	var doc codec.Category
	require.NoError(t, json.Unmarshal([]byte(factoryJSON), &doc))

	cat, err := codec.DecodeCategory(doc)
	require.NoError(t, err)

	assert.Equal(t, "FactoryA", cat.Name)
	assert.Equal(t, 2, cat.ObjectCount())

	m, ok := cat.Morphism("boiler_emits")
	require.True(t, ok)
	assert.Equal(t, ontology.Causal, m.Type)
	assert.Equal(t, "BoilerA1", m.Source)
}

func TestDecodeCategoryRejectsDanglingMorphism(t *testing.T) {
	doc := codec.Category{
		Name:    "Broken",
		Objects: []codec.Object{{Name: "X", Domain: "d"}},
		Morphisms: []codec.Morphism{
			{Name: "m", Source: "X", Target: "Missing", Type: "STRUCTURAL"},
		},
	}
	_, err := codec.DecodeCategory(doc)
	assert.ErrorIs(t, err, ontology.ErrDanglingReference)
}

func TestDecodeCategoryRejectsUnknownMorphismType(t *testing.T) {
	doc := codec.Category{
		Name: "Broken",
		Objects: []codec.Object{
			{Name: "X", Domain: "d"},
			{Name: "Y", Domain: "d"},
		},
		Morphisms: []codec.Morphism{
			{Name: "m", Source: "X", Target: "Y", Type: "MAGICAL"},
		},
	}
	_, err := codec.DecodeCategory(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown morphism type")
}

func TestCategoryRoundTripPreservesOrder(t *testing.T) {
	var doc codec.Category
	require.NoError(t, json.Unmarshal([]byte(factoryJSON), &doc))
	cat, err := codec.DecodeCategory(doc)
	require.NoError(t, err)

	encoded := codec.EncodeCategory(cat)
	assert.Equal(t, "BoilerA1", encoded.Objects[0].Name)
	assert.Equal(t, "CO2_Combustion", encoded.Objects[1].Name)
	assert.Equal(t, 2, encoded.ObjectCount)
	assert.Equal(t, "CAUSAL", encoded.Morphisms[0].Type)
}

func TestDecodeFunctorResolvesCategories(t *testing.T) {
	var doc codec.Category
	require.NoError(t, json.Unmarshal([]byte(factoryJSON), &doc))
	factory, err := codec.DecodeCategory(doc)
	require.NoError(t, err)

	report := ontology.NewCategory("GHGReport", "")
	require.NoError(t, report.AddObject(ontology.Object{Name: "StationaryCombustion", Domain: "category"}))

	categories := map[string]*ontology.Category{
		"FactoryA":  factory,
		"GHGReport": report,
	}

	f, err := codec.DecodeFunctor(codec.Functor{
		Name:      "F_A_to_GHG",
		Source:    "FactoryA",
		Target:    "GHGReport",
		ObjectMap: map[string]string{"CO2_Combustion": "StationaryCombustion"},
	}, categories)
	require.NoError(t, err)
	assert.Equal(t, factory, f.Source)

	_, err = codec.DecodeFunctor(codec.Functor{
		Name:   "broken",
		Source: "Nope",
		Target: "GHGReport",
	}, categories)
	assert.ErrorIs(t, err, ontology.ErrDanglingReference)
}

func TestDecodeInstanceSetTypeChecks(t *testing.T) {
	var doc codec.Category
	require.NoError(t, json.Unmarshal([]byte(factoryJSON), &doc))
	factory, err := codec.DecodeCategory(doc)
	require.NoError(t, err)

	set, err := codec.DecodeInstanceSet("FactoryA_Data", codec.InstanceSet{
		Category: "FactoryA",
		Instances: []codec.Instance{
			{Name: "Boiler01", ObjectType: "BoilerA1", Attributes: map[string]any{"fuel_consumption": 1000.0}},
		},
	}, factory)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	_, err = codec.DecodeInstanceSet("bad", codec.InstanceSet{
		Category: "FactoryA",
		Instances: []codec.Instance{
			{Name: "Ghost", ObjectType: "Phantom"},
		},
	}, factory)
	assert.ErrorIs(t, err, ontology.ErrDanglingReference)
}
