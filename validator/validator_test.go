package validator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codsl/llm"
	_ "github.com/c360studio/codsl/llm/providers" // Register providers
	"github.com/c360studio/codsl/ontology"
	"github.com/c360studio/codsl/validator"
)

func factoryCategory(t *testing.T) *ontology.Category {
	t.Helper()
	cat := ontology.NewCategory("FactoryA", "production site")
	require.NoError(t, cat.AddObject(ontology.Object{Name: "Boiler", Domain: "equipment"}))
	require.NoError(t, cat.AddObject(ontology.Object{Name: "CO2_Emission", Domain: "emission"}))
	require.NoError(t, cat.AddMorphism(ontology.Morphism{
		Name: "emits", Source: "Boiler", Target: "CO2_Emission", Type: ontology.Causal,
	}))
	return cat
}

func reportCategory(t *testing.T) *ontology.Category {
	t.Helper()
	cat := ontology.NewCategory("GHGReport", "reporting")
	require.NoError(t, cat.AddObject(ontology.Object{Name: "EmissionSource", Domain: "reporting"}))
	require.NoError(t, cat.AddObject(ontology.Object{Name: "CO2_Amount", Domain: "reporting"}))
	return cat
}

func openAIVerdict(content string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-42",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func TestStructural_FunctorChecks(t *testing.T) {
	v := validator.New(nil)

	f := ontology.NewFunctor("broken", factoryCategory(t), reportCategory(t))

	res := v.Validate(context.Background(), validator.Operation{
		Name:    "functor_application",
		Functor: f,
	}, validator.LevelStructural)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "object mapping is empty")
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
}

func TestStructural_CoproductNameConflicts(t *testing.T) {
	v := validator.New(nil)

	a := factoryCategory(t)
	b := ontology.NewCategory("FactoryB", "second site")
	require.NoError(t, b.AddObject(ontology.Object{Name: "Boiler", Domain: "equipment"}))

	result := ontology.Coproduct(a, b)

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "coproduct",
		Inputs: []*ontology.Category{a, b},
		Result: result,
	}, validator.LevelStructural)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "name conflict across inputs: Boiler")
}

func TestStructural_CleanPassesWithFullConfidence(t *testing.T) {
	v := validator.New(nil)

	f := ontology.NewFunctor("report", factoryCategory(t), reportCategory(t))
	f.ObjectMap["Boiler"] = "EmissionSource"
	f.ObjectMap["CO2_Emission"] = "CO2_Amount"

	res := v.Validate(context.Background(), validator.Operation{
		Name:    "functor_application",
		Functor: f,
		Result:  reportCategory(t),
	}, validator.LevelStructural)

	assert.True(t, res.Valid)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.Empty(t, res.Issues)
}

func TestSemantic_NilClientDegrades(t *testing.T) {
	v := validator.New(nil)

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "coproduct",
		Inputs: []*ontology.Category{factoryCategory(t), reportCategory(t)},
		Result: factoryCategory(t),
	}, validator.LevelSemantic)

	assert.True(t, res.Valid)
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)
	assert.Contains(t, res.Analysis, "LLM not connected")
}

func TestSemantic_ParsesFencedVerdict(t *testing.T) {
	// The model wraps its verdict in a markdown fence with a trailing
	// comma; both must be tolerated.
	content := "Here is my assessment.\n```json\n{\n  \"is_valid\": false,\n  \"confidence\": 0.85,\n  \"issues\": [\"Boiler means different things in each input\"],\n  \"suggestions\": [\"rename one of the Boiler objects\"],\n  \"analysis\": \"overlapping vocabulary\",\n}\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openAIVerdict(content))
	}))
	defer server.Close()

	client := llm.NewClient(llm.Endpoint{Provider: "ollama", URL: server.URL, Model: "test-model"})
	v := validator.New(client)

	a := factoryCategory(t)
	b := reportCategory(t)
	result := ontology.Coproduct(a, b)

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "coproduct",
		Inputs: []*ontology.Category{a, b},
		Result: result,
	}, validator.LevelSemantic)

	assert.False(t, res.Valid)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	assert.Contains(t, res.Issues, "Boiler means different things in each input")
	assert.Equal(t, []string{"rename one of the Boiler objects"}, res.Suggestions)
	assert.Equal(t, "overlapping vocabulary", res.Analysis)
}

func TestSemantic_LLMFailureIsAdvisory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "no key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := llm.NewClient(llm.Endpoint{Provider: "ollama", URL: server.URL, Model: "test-model"})
	v := validator.New(client)

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "product",
		Inputs: []*ontology.Category{factoryCategory(t)},
		Result: factoryCategory(t),
	}, validator.LevelSemantic)

	// Failure degrades to issues, never an error or panic.
	assert.False(t, res.Valid)
	assert.InDelta(t, 0.0, res.Confidence, 1e-9)
	require.NotEmpty(t, res.Issues)
	assert.Contains(t, res.Issues[0], "LLM validation error")
}

func TestPragmatic_DomainRulesFlagBadData(t *testing.T) {
	v := validator.New(nil)

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "functor_application",
		Result: reportCategory(t),
		Domain: "ghg",
		Data: map[string]any{
			"emissions": map[string]any{"combustion": -10.0},
			"unit":      "bananas",
		},
	}, validator.LevelPragmatic)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "rule failed: GHG data must include scope classification")
	assert.Contains(t, res.Issues, "rule failed: emission values must be non-negative")
	assert.Contains(t, res.Issues, "rule failed: unit must be a CO2-equivalent unit")
}

func TestPragmatic_CleanDataPasses(t *testing.T) {
	v := validator.New(nil)

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "functor_application",
		Result: reportCategory(t),
		Domain: "ghg",
		Data: map[string]any{
			"scope":     "scope1",
			"emissions": map[string]any{"combustion": 2750.0},
			"unit":      "kgCO2e",
		},
	}, validator.LevelPragmatic)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestSemantic_SkipsDomainRules(t *testing.T) {
	v := validator.New(nil)

	// The same rule-breaking data must not surface issues below the
	// pragmatic level.
	res := v.Validate(context.Background(), validator.Operation{
		Name:   "functor_application",
		Result: reportCategory(t),
		Domain: "ghg",
		Data:   map[string]any{"unit": "bananas"},
	}, validator.LevelSemantic)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Issues)
}

func TestPragmatic_CustomRules(t *testing.T) {
	rules := validator.NewDomainRules()
	rules.Add("plants", validator.DomainRule{
		Description: "plant data must name a site",
		Check: func(data map[string]any) bool {
			_, ok := data["site"]
			return ok
		},
	})

	v := validator.New(nil, validator.WithDomainRules(rules))

	res := v.Validate(context.Background(), validator.Operation{
		Name:   "coproduct",
		Result: factoryCategory(t),
		Domain: "plants",
		Data:   map[string]any{},
	}, validator.LevelPragmatic)

	assert.False(t, res.Valid)
	assert.Contains(t, res.Issues, "rule failed: plant data must name a site")
}

func TestHistoryAccumulates(t *testing.T) {
	v := validator.New(nil)
	op := validator.Operation{Name: "difference", Result: factoryCategory(t)}

	v.Validate(context.Background(), op, validator.LevelStructural)
	v.Validate(context.Background(), op, validator.LevelSemantic)

	history := v.History()
	require.Len(t, history, 2)
	assert.Equal(t, validator.LevelStructural, history[0].Level)
	assert.Equal(t, validator.LevelSemantic, history[1].Level)
}
