package validator

import "fmt"

// DomainRule is a single domain-specific check. Check returns true
// when the data satisfies the rule.
type DomainRule struct {
	Description string
	Check       func(data map[string]any) bool
}

// DomainRules groups rules by domain tag. Rules run in registration
// order and failures are reported as issue strings, never errors.
type DomainRules struct {
	rules map[string][]DomainRule
}

// NewDomainRules creates an empty rule registry.
func NewDomainRules() *DomainRules {
	return &DomainRules{rules: make(map[string][]DomainRule)}
}

// Add registers a rule under a domain tag.
func (r *DomainRules) Add(domain string, rule DomainRule) {
	r.rules[domain] = append(r.rules[domain], rule)
}

// Check runs every rule registered for domain against data and returns
// one issue string per failing rule. A panicking rule is reported as a
// rule error rather than propagated.
func (r *DomainRules) Check(domain string, data map[string]any) []string {
	issues := []string{}
	for _, rule := range r.rules[domain] {
		if issue := runRule(rule, data); issue != "" {
			issues = append(issues, issue)
		}
	}
	return issues
}

func runRule(rule DomainRule, data map[string]any) (issue string) {
	defer func() {
		if rec := recover(); rec != nil {
			issue = fmt.Sprintf("rule error: %v", rec)
		}
	}()
	if !rule.Check(data) {
		return "rule failed: " + rule.Description
	}
	return ""
}

// DefaultDomainRules combines all built-in rule sets. This is what a
// validator uses for pragmatic passes unless WithDomainRules says
// otherwise.
func DefaultDomainRules() *DomainRules {
	combined := NewGHGDomainRules()
	for domain, rules := range NewManufacturingRules().rules {
		combined.rules[domain] = append(combined.rules[domain], rules...)
	}
	return combined
}

// NewGHGDomainRules returns the checklist for greenhouse-gas report
// data.
func NewGHGDomainRules() *DomainRules {
	rules := NewDomainRules()

	rules.Add("ghg", DomainRule{
		Description: "GHG data must include scope classification",
		Check: func(data map[string]any) bool {
			_, ok := data["scope"]
			return ok
		},
	})

	rules.Add("ghg", DomainRule{
		Description: "emission values must be non-negative",
		Check: func(data map[string]any) bool {
			emissions, ok := data["emissions"].(map[string]any)
			if !ok {
				return true
			}
			for _, v := range emissions {
				if f, ok := toFloat(v); ok && f < 0 {
					return false
				}
			}
			return true
		},
	})

	rules.Add("ghg", DomainRule{
		Description: "unit must be a CO2-equivalent unit",
		Check: func(data map[string]any) bool {
			unit, ok := data["unit"].(string)
			if !ok {
				return true
			}
			switch unit {
			case "tCO2e", "kgCO2e", "gCO2e":
				return true
			}
			return false
		},
	})

	return rules
}

// NewManufacturingRules returns the checklist for manufacturing
// process data.
func NewManufacturingRules() *DomainRules {
	rules := NewDomainRules()

	rules.Add("manufacturing", DomainRule{
		Description: "production values must be non-negative",
		Check: func(data map[string]any) bool {
			production, ok := data["production"].(map[string]any)
			if !ok {
				return true
			}
			for _, v := range production {
				if f, ok := toFloat(v); ok && f < 0 {
					return false
				}
			}
			return true
		},
	})

	rules.Add("manufacturing", DomainRule{
		Description: "manufacturing process must have input and output",
		Check: func(data map[string]any) bool {
			_, hasIn := data["input"]
			_, hasOut := data["output"]
			return hasIn && hasOut
		},
	})

	return rules
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
