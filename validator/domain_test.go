package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/codsl/validator"
)

func TestGHGRules(t *testing.T) {
	rules := validator.NewGHGDomainRules()

	t.Run("clean data passes", func(t *testing.T) {
		issues := rules.Check("ghg", map[string]any{
			"scope":     "scope1",
			"unit":      "kgCO2e",
			"emissions": map[string]any{"boiler": 2750.0},
		})
		assert.Empty(t, issues)
	})

	t.Run("missing scope flagged", func(t *testing.T) {
		issues := rules.Check("ghg", map[string]any{"unit": "kgCO2e"})
		assert.Contains(t, issues, "rule failed: GHG data must include scope classification")
	})

	t.Run("negative emission flagged", func(t *testing.T) {
		issues := rules.Check("ghg", map[string]any{
			"scope":     "scope2",
			"emissions": map[string]any{"cnc": -1.0},
		})
		assert.Contains(t, issues, "rule failed: emission values must be non-negative")
	})

	t.Run("unknown unit flagged", func(t *testing.T) {
		issues := rules.Check("ghg", map[string]any{
			"scope": "scope1",
			"unit":  "barrels",
		})
		assert.Contains(t, issues, "rule failed: unit must be a CO2-equivalent unit")
	})

	t.Run("unknown domain has no rules", func(t *testing.T) {
		assert.Empty(t, rules.Check("finance", map[string]any{}))
	})
}

func TestManufacturingRules(t *testing.T) {
	rules := validator.NewManufacturingRules()

	issues := rules.Check("manufacturing", map[string]any{
		"production": map[string]any{"line1": 120},
		"input":      "steel",
		"output":     "parts",
	})
	assert.Empty(t, issues)

	issues = rules.Check("manufacturing", map[string]any{
		"production": map[string]any{"line1": -5},
	})
	assert.Contains(t, issues, "rule failed: production values must be non-negative")
	assert.Contains(t, issues, "rule failed: manufacturing process must have input and output")
}

func TestPanickingRuleReportedAsIssue(t *testing.T) {
	rules := validator.NewDomainRules()
	rules.Add("test", validator.DomainRule{
		Description: "always panics",
		Check: func(data map[string]any) bool {
			panic("boom")
		},
	})

	issues := rules.Check("test", nil)
	assert.Equal(t, []string{"rule error: boom"}, issues)
}
