package store

import (
	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/instance"
)

// BuiltinName is the name of the example shipped with the workbench.
const BuiltinName = "carbon_footprint"

// BuiltinCarbonFootprint returns the bundled two-factory GHG example:
// categories for both factories and the report structure, functors
// into the report, reference instance data, and emission factors.
func BuiltinCarbonFootprint() *Document {
	return &Document{
		Title:       "Carbon Footprint (Factory A + B)",
		Description: "GHG emission accounting for two manufacturing sites",
		Categories: []codec.Category{
			{
				Name:        "FactoryA",
				Description: "Factory A - Automotive Parts",
				Objects: []codec.Object{
					{Name: "BoilerA1", Domain: "equipment", Attributes: []string{"type:gas_boiler", "capacity:5MW"}, Semantic: "natural gas fired boiler"},
					{Name: "CNCMachine01", Domain: "equipment", Attributes: []string{"type:cnc_machine", "power:50kW"}, Semantic: "CNC machining center"},
					{Name: "CO2_Combustion", Domain: "emission", Attributes: []string{"scope:1"}, Semantic: "combustion CO2"},
					{Name: "CO2_Electricity", Domain: "emission", Attributes: []string{"scope:2"}, Semantic: "electricity CO2"},
				},
				Morphisms: []codec.Morphism{
					{Name: "boiler_emits", Source: "BoilerA1", Target: "CO2_Combustion", Type: "CAUSAL", Semantic: "boiler emits combustion CO2"},
					{Name: "cnc_emits", Source: "CNCMachine01", Target: "CO2_Electricity", Type: "CAUSAL", Semantic: "CNC machine emits electricity CO2"},
				},
			},
			{
				Name:        "FactoryB",
				Description: "Factory B - Electronics",
				Objects: []codec.Object{
					{Name: "SMTLine01", Domain: "equipment", Attributes: []string{"type:smt_line", "power:100kW"}, Semantic: "SMT production line"},
					{Name: "CO2_Electricity", Domain: "emission", Attributes: []string{"scope:2"}, Semantic: "electricity CO2"},
				},
				Morphisms: []codec.Morphism{
					{Name: "smt_emits", Source: "SMTLine01", Target: "CO2_Electricity", Type: "CAUSAL", Semantic: "SMT line emits electricity CO2"},
				},
			},
			{
				Name:        "GHGReport",
				Description: "GHG Protocol Report Structure",
				Objects: []codec.Object{
					{Name: "Scope1", Domain: "scope", Semantic: "direct emissions"},
					{Name: "Scope2", Domain: "scope", Semantic: "indirect emissions (energy)"},
					{Name: "StationaryCombustion", Domain: "category", Attributes: []string{"scope:1"}, Semantic: "stationary combustion"},
					{Name: "PurchasedElectricity", Domain: "category", Attributes: []string{"scope:2"}, Semantic: "purchased electricity"},
				},
				Morphisms: []codec.Morphism{
					{Name: "scope1_includes_combustion", Source: "Scope1", Target: "StationaryCombustion", Type: "STRUCTURAL", Semantic: "Scope1 includes stationary combustion"},
					{Name: "scope2_includes_electricity", Source: "Scope2", Target: "PurchasedElectricity", Type: "STRUCTURAL", Semantic: "Scope2 includes purchased electricity"},
				},
			},
		},
		Functors: []codec.Functor{
			{
				Name:        "F_A_to_GHG",
				Source:      "FactoryA",
				Target:      "GHGReport",
				Description: "Factory A to GHG report",
				ObjectMap: map[string]string{
					"CO2_Combustion":  "StationaryCombustion",
					"CO2_Electricity": "PurchasedElectricity",
				},
				MorphismMap: map[string]string{},
			},
			{
				Name:        "F_B_to_GHG",
				Source:      "FactoryB",
				Target:      "GHGReport",
				Description: "Factory B to GHG report",
				ObjectMap: map[string]string{
					"CO2_Electricity": "PurchasedElectricity",
				},
				MorphismMap: map[string]string{},
			},
		},
		Instances: map[string]codec.InstanceSet{
			"factory_a_daily": {
				Category:    "FactoryA",
				Description: "Factory A daily operating data",
				Instances: []codec.Instance{
					{
						Name:       "BoilerA1_001",
						ObjectType: "BoilerA1",
						Attributes: map[string]any{
							"fuel_type":        "natural_gas",
							"fuel_consumption": 1000.0, // kg/day
							"operating_hours":  24.0,
						},
						Description: "natural gas boiler #1",
					},
					{
						Name:       "CNCMachine01_001",
						ObjectType: "CNCMachine01",
						Attributes: map[string]any{
							"power_consumption": 50.0, // kW
							"operating_hours":   20.0, // hours/day
						},
						Description: "CNC machine #1",
					},
					{
						Name:       "CNCMachine02_001",
						ObjectType: "CNCMachine01",
						Attributes: map[string]any{
							"power_consumption": 45.0, // kW
							"operating_hours":   18.0, // hours/day
						},
						Description: "CNC machine #2",
					},
				},
			},
		},
		Context: &instance.Context{
			EmissionFactors: map[string]float64{
				"natural_gas": 2.75, // kg-CO2 per kg fuel
				"coal":        3.2,
				"diesel":      3.1,
			},
			ElectricityFactor: 0.512, // kg-CO2/kWh
		},
	}
}
