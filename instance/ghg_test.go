package instance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codsl/instance"
	"github.com/c360studio/codsl/ontology"
)

func ghgCategory(t *testing.T) *ontology.Category {
	t.Helper()
	cat := ontology.NewCategory("GHGReport", "GHG Protocol Report Structure")
	require.NoError(t, cat.AddObject(ontology.Object{Name: "StationaryCombustion", Domain: "category", Attributes: []string{"scope:1"}}))
	require.NoError(t, cat.AddObject(ontology.Object{Name: "PurchasedElectricity", Domain: "category", Attributes: []string{"scope:2"}}))
	return cat
}

func ghgFunctor(t *testing.T, source *ontology.Category) *ontology.Functor {
	t.Helper()
	f := ontology.NewFunctor("F_FactoryA_to_GHG", source, ghgCategory(t))
	f.ObjectMap["CO2_Combustion"] = "StationaryCombustion"
	f.ObjectMap["CO2_Electricity"] = "PurchasedElectricity"
	return f
}

func referenceContext() instance.Context {
	return instance.Context{
		EmissionFactors: map[string]float64{
			"natural_gas": 2.75,
			"coal":        3.2,
			"diesel":      3.1,
		},
		ElectricityFactor: 0.512,
	}
}

// referenceInstances is the reporting fixture: one gas boiler and two
// CNC machines with metered power usage.
func referenceInstances(t *testing.T, cat *ontology.Category) *instance.InstanceSet {
	t.Helper()
	set := instance.NewInstanceSet("FactoryA_Data_2024", cat, "Factory A reporting data")
	require.NoError(t, set.AddInstance(&instance.Instance{
		Name:       "Boiler",
		ObjectType: "Boiler",
		Attributes: map[string]any{"fuel_type": "natural_gas", "fuel_consumption": 1000.0},
	}))
	require.NoError(t, set.AddInstance(&instance.Instance{
		Name:       "CNC1",
		ObjectType: "CNCMachine",
		Attributes: map[string]any{"power_consumption": 50.0, "operating_hours": 20.0},
	}))
	require.NoError(t, set.AddInstance(&instance.Instance{
		Name:       "CNC2",
		ObjectType: "CNCMachine",
		Attributes: map[string]any{"power_consumption": 45.0, "operating_hours": 18.0},
	}))
	return set
}

func TestGHGComputationDeterminism(t *testing.T) {
	cat := factoryCategory(t)
	source := referenceInstances(t, cat)
	functor := ghgFunctor(t, cat)

	rules := instance.NewGHGRules(nil)
	result, err := rules.Apply(source, functor, referenceContext())
	require.NoError(t, err)

	require.Equal(t, 3, result.Len())

	boiler, ok := result.Instance("Boiler_CO2_emission")
	require.True(t, ok)
	amount, _ := boiler.Float("emission_amount")
	assert.InDelta(t, 2750.0, amount, 1e-9)
	assert.Equal(t, "StationaryCombustion", boiler.ObjectType)
	fuel, _ := boiler.String("fuel_type")
	assert.Equal(t, "natural_gas", fuel)
	src, _ := boiler.String("source")
	assert.Equal(t, "Boiler", src)

	cnc1, ok := result.Instance("CNC1_electricity_CO2")
	require.True(t, ok)
	amount, _ = cnc1.Float("emission_amount")
	assert.InDelta(t, 512.0, amount, 1e-9)
	energy, _ := cnc1.Float("energy_consumption")
	assert.InDelta(t, 1000.0, energy, 1e-9)
	assert.Equal(t, "PurchasedElectricity", cnc1.ObjectType)

	cnc2, ok := result.Instance("CNC2_electricity_CO2")
	require.True(t, ok)
	amount, _ = cnc2.Float("emission_amount")
	assert.InDelta(t, 414.72, amount, 1e-9)

	report := instance.Summarize(result)
	assert.InDelta(t, 3676.72, report.TotalDaily, 1e-9)
	assert.InDelta(t, 3676.72*365/1000, report.TotalAnnual, 1e-9)
	assert.InDelta(t, 1342.0028, report.TotalAnnual, 1e-4)
	assert.Equal(t, "kg-CO2/day", report.UnitDaily)
	assert.Equal(t, "t-CO2/year", report.UnitAnnual)
	require.Len(t, report.Details, 3)
	assert.Equal(t, "Boiler_CO2_emission", report.Details[0].Name)
}

func TestSkipOnMissingAttribute(t *testing.T) {
	cat := factoryCategory(t)
	set := instance.NewInstanceSet("sparse", cat, "")
	// No fuel_consumption and no power/hours pair: nothing to derive.
	require.NoError(t, set.AddInstance(&instance.Instance{
		Name:       "Idle",
		ObjectType: "CNCMachine",
		Attributes: map[string]any{"model": "DMU-650", "power_consumption": 50.0},
	}))
	// Unknown fuel type: skipped by the combustion rule.
	require.NoError(t, set.AddInstance(&instance.Instance{
		Name:       "Exotic",
		ObjectType: "Boiler",
		Attributes: map[string]any{"fuel_type": "hydrogen", "fuel_consumption": 10.0},
	}))
	// Valid instance alongside: the run continues past the skips.
	require.NoError(t, set.AddInstance(&instance.Instance{
		Name:       "Working",
		ObjectType: "CNCMachine",
		Attributes: map[string]any{"power_consumption": 10.0, "operating_hours": 1.0},
	}))

	rules := instance.NewGHGRules(nil)
	result, err := rules.Apply(set, ghgFunctor(t, cat), referenceContext())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Len())
	_, ok := result.Instance("Working_electricity_CO2")
	assert.True(t, ok)
}

func TestApplyAllocatesFreshAccumulator(t *testing.T) {
	cat := factoryCategory(t)
	source := referenceInstances(t, cat)
	functor := ghgFunctor(t, cat)
	rules := instance.NewGHGRules(nil)

	first, err := rules.Apply(source, functor, referenceContext())
	require.NoError(t, err)
	second, err := rules.Apply(source, functor, referenceContext())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Len(), second.Len())
	assert.Equal(t, functor.Target, first.Category)
	// Source set untouched.
	assert.Equal(t, 3, source.Len())
}

func TestRulesRunInRegistrationOrder(t *testing.T) {
	cat := factoryCategory(t)
	source := instance.NewInstanceSet("empty", cat, "")
	functor := ghgFunctor(t, cat)

	var order []string
	rules := instance.NewRules(nil)
	rules.Add(func(_, _ *instance.InstanceSet, _ *ontology.Functor, _ instance.Context) error {
		order = append(order, "first")
		return nil
	})
	rules.Add(func(_, _ *instance.InstanceSet, _ *ontology.Functor, _ instance.Context) error {
		order = append(order, "second")
		return nil
	})

	_, err := rules.Apply(source, functor, instance.Context{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}
