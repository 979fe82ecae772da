package instance

import (
	"log/slog"

	"github.com/c360studio/codsl/ontology"
)

// Target object names the GHG rules emit into. Both must exist in the
// functor's target category or the affected instance is skipped.
const (
	stationaryCombustion = "StationaryCombustion"
	purchasedElectricity = "PurchasedElectricity"
)

// NewGHGRules returns the built-in GHG Protocol rule set: a stationary
// combustion rule followed by a purchased electricity rule. Instances
// that lack the attributes a rule needs are skipped, not failed, since
// partial instance data is expected.
func NewGHGRules(logger *slog.Logger) *Rules {
	if logger == nil {
		logger = slog.Default()
	}
	rules := NewRules(logger)
	rules.Add(combustionRule(logger))
	rules.Add(electricityRule(logger))
	return rules
}

// combustionRule converts fuel consumption into scope 1 emissions:
// emission_amount = fuel_consumption × emission_factor[fuel_type].
func combustionRule(logger *slog.Logger) Rule {
	return func(source, target *InstanceSet, f *ontology.Functor, ctx Context) error {
		emissionType, ok := f.Target.Object(stationaryCombustion)
		if !ok {
			logger.Warn("combustion rule: target category has no stationary combustion object",
				slog.String("category", f.Target.Name))
			return nil
		}

		for _, inst := range source.Instances() {
			consumption, ok := inst.Float("fuel_consumption")
			if !ok {
				continue
			}
			fuelType, ok := inst.String("fuel_type")
			if !ok {
				logger.Debug("skipping instance without fuel_type", slog.String("instance", inst.Name))
				continue
			}
			factor, ok := ctx.EmissionFactors[fuelType]
			if !ok {
				logger.Debug("skipping instance with unknown fuel type",
					slog.String("instance", inst.Name),
					slog.String("fuel_type", fuelType))
				continue
			}

			emitted := &Instance{
				Name:       inst.Name + "_CO2_emission",
				ObjectType: emissionType.Name,
				Attributes: map[string]any{
					"emission_amount": consumption * factor,
					"unit":            "kg-CO2",
					"fuel_type":       fuelType,
					"source":          inst.Name,
				},
				Description: "Combustion emission derived from " + inst.Name,
			}
			if err := target.AddInstance(emitted); err != nil {
				return err
			}
		}
		return nil
	}
}

// electricityRule converts metered power usage into scope 2 emissions:
// energy = power_consumption × operating_hours, then
// emission_amount = energy × electricity_factor.
func electricityRule(logger *slog.Logger) Rule {
	return func(source, target *InstanceSet, f *ontology.Functor, ctx Context) error {
		emissionType, ok := f.Target.Object(purchasedElectricity)
		if !ok {
			logger.Warn("electricity rule: target category has no purchased electricity object",
				slog.String("category", f.Target.Name))
			return nil
		}

		for _, inst := range source.Instances() {
			power, powerOK := inst.Float("power_consumption")
			hours, hoursOK := inst.Float("operating_hours")
			if !powerOK || !hoursOK {
				continue
			}

			energy := power * hours // kWh per reporting period
			emitted := &Instance{
				Name:       inst.Name + "_electricity_CO2",
				ObjectType: emissionType.Name,
				Attributes: map[string]any{
					"emission_amount":    energy * ctx.ElectricityFactor,
					"energy_consumption": energy,
					"unit":               "kg-CO2",
					"source":             inst.Name,
				},
				Description: "Electricity emission derived from " + inst.Name,
			}
			if err := target.AddInstance(emitted); err != nil {
				return err
			}
		}
		return nil
	}
}
