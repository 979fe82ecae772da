package instance

// EmissionDetail is one emitted record in a report.
type EmissionDetail struct {
	Name              string  `json:"name"`
	Source            string  `json:"source"`
	EmissionAmount    float64 `json:"emission_amount"`
	Unit              string  `json:"unit"`
	Category          string  `json:"category"`
	FuelType          string  `json:"fuel_type,omitempty"`
	EnergyConsumption float64 `json:"energy_consumption,omitempty"`
}

// Report aggregates a derived instance set for presentation. The
// totals are reporting values only; they are never stored back on an
// instance.
type Report struct {
	TotalDaily  float64          `json:"total_emissions_daily"`
	TotalAnnual float64          `json:"total_emissions_annual"`
	UnitDaily   string           `json:"unit_daily"`
	UnitAnnual  string           `json:"unit_annual"`
	Details     []EmissionDetail `json:"emission_details"`
}

// Summarize sums emission_amount over every instance of set and scales
// the daily total to tonnes per year (×365 / 1000).
func Summarize(set *InstanceSet) Report {
	report := Report{
		UnitDaily:  "kg-CO2/day",
		UnitAnnual: "t-CO2/year",
		Details:    make([]EmissionDetail, 0, set.Len()),
	}

	for _, inst := range set.Instances() {
		amount, _ := inst.Float("emission_amount")
		report.TotalDaily += amount

		detail := EmissionDetail{
			Name:           inst.Name,
			EmissionAmount: amount,
			Category:       inst.ObjectType,
		}
		detail.Source, _ = inst.String("source")
		detail.Unit, _ = inst.String("unit")
		detail.FuelType, _ = inst.String("fuel_type")
		detail.EnergyConsumption, _ = inst.Float("energy_consumption")
		report.Details = append(report.Details, detail)
	}

	report.TotalAnnual = report.TotalDaily * 365 / 1000
	return report
}
