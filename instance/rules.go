package instance

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/codsl/ontology"
)

// Context carries the numeric configuration a computation runs under.
type Context struct {
	// EmissionFactors maps fuel type to kg-CO2 per unit of fuel.
	EmissionFactors map[string]float64 `json:"emission_factors"`

	// ElectricityFactor is kg-CO2 per kWh of purchased electricity.
	ElectricityFactor float64 `json:"electricity_factor"`
}

// Rule derives zero or more instances from source into target. The
// functor resolves how source typing maps onto the target category.
// A rule must skip instances with missing required attributes rather
// than fail the run; returned errors abort the whole apply and are
// reserved for structural problems.
type Rule func(source, target *InstanceSet, f *ontology.Functor, ctx Context) error

// Rules is an ordered rule registry. Rules run in registration order;
// each may append instances to the shared accumulator.
type Rules struct {
	rules  []Rule
	logger *slog.Logger
}

// NewRules creates an empty registry. A nil logger uses slog.Default.
func NewRules(logger *slog.Logger) *Rules {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rules{logger: logger}
}

// Add appends a rule. The callable is not validated.
func (r *Rules) Add(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Len returns the number of registered rules.
func (r *Rules) Len() int { return len(r.rules) }

// Apply runs every registered rule against source, accumulating
// derived instances into a fresh set bound to the functor's target
// category. The source set is read-only; the accumulator is new on
// every call.
func (r *Rules) Apply(source *InstanceSet, f *ontology.Functor, ctx Context) (*InstanceSet, error) {
	target := NewInstanceSet(
		source.Name+"_derived",
		f.Target,
		fmt.Sprintf("Derived from %s via %s", source.Name, f.Name),
	)

	for i, rule := range r.rules {
		if err := rule(source, target, f, ctx); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}

	r.logger.Debug("computation applied",
		slog.String("source", source.Name),
		slog.String("functor", f.Name),
		slog.Int("derived", target.Len()))

	return target, nil
}
