// Package validator checks the semantic plausibility of ontology
// operations. Structural soundness is already guaranteed by the
// ontology package; this layer asks an LLM whether a result makes
// sense for the domain. All output is advisory and never blocks an
// operation.
package validator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/c360studio/codsl/llm"
	"github.com/c360studio/codsl/ontology"
)

// Level selects how deep a validation pass goes.
type Level string

const (
	// LevelStructural runs only the structural checks.
	LevelStructural Level = "structural"

	// LevelSemantic adds an LLM judgement of semantic plausibility.
	LevelSemantic Level = "semantic"

	// LevelPragmatic adds domain rule checks on top of the semantic
	// pass, selected by the operation's Domain tag.
	LevelPragmatic Level = "pragmatic"
)

// Result is the outcome of a validation pass.
type Result struct {
	Valid       bool     `json:"is_valid"`
	Level       Level    `json:"level"`
	Confidence  float64  `json:"confidence"` // 0.0 - 1.0
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Analysis    string   `json:"analysis,omitempty"`
}

// Operation describes the ontology operation under validation.
type Operation struct {
	// Name identifies the operation: "functor_application",
	// "coproduct", "pullback", or any other algebra operation name.
	Name string

	// Functor is set for functor_application.
	Functor *ontology.Functor

	// Inputs are the operation's input categories, in argument order.
	Inputs []*ontology.Category

	// Result is the operation's output category, if it produced one.
	Result *ontology.Category

	// Domain selects the rule set for pragmatic passes (e.g. "ghg",
	// "manufacturing"). Empty means no domain rules apply.
	Domain string

	// Data is the payload domain rules inspect.
	Data map[string]any
}

// verdict is the JSON shape the LLM is asked to answer with.
type verdict struct {
	IsValid     bool     `json:"is_valid"`
	Confidence  float64  `json:"confidence"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Analysis    string   `json:"analysis"`
}

// Validator validates ontology operations. A nil LLM client degrades
// semantic passes to structural checks with a skip notice.
type Validator struct {
	client *llm.Client
	logger *slog.Logger
	rules  *DomainRules

	mu      sync.Mutex
	history []Result
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithDomainRules replaces the built-in pragmatic rule sets.
func WithDomainRules(rules *DomainRules) Option {
	return func(v *Validator) {
		v.rules = rules
	}
}

// New creates a validator. client may be nil, in which case semantic
// validation is skipped and only structural checks run.
func New(client *llm.Client, opts ...Option) *Validator {
	v := &Validator{
		client: client,
		logger: slog.Default(),
		rules:  DefaultDomainRules(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs a validation pass at the given level. It never returns
// an error: LLM failures are folded into the result as issues so that
// callers can always proceed with the operation's output.
func (v *Validator) Validate(ctx context.Context, op Operation, level Level) *Result {
	issues := v.structuralIssues(op)
	suggestions := []string{}

	if level == LevelStructural {
		confidence := 1.0
		if len(issues) > 0 {
			confidence = 0.5
		}
		return v.record(Result{
			Valid:       len(issues) == 0,
			Level:       level,
			Confidence:  confidence,
			Issues:      issues,
			Suggestions: suggestions,
		})
	}

	confidence := 0.7
	analysis := "[LLM not connected: semantic validation skipped]"

	if v.client != nil {
		verdict := v.semanticVerdict(ctx, op)
		issues = append(issues, verdict.Issues...)
		suggestions = append(suggestions, verdict.Suggestions...)
		confidence = verdict.Confidence
		analysis = verdict.Analysis
	}

	if level == LevelPragmatic && v.rules != nil && op.Domain != "" {
		issues = append(issues, v.rules.Check(op.Domain, op.Data)...)
	}

	return v.record(Result{
		Valid:       len(issues) == 0,
		Level:       level,
		Confidence:  confidence,
		Issues:      issues,
		Suggestions: suggestions,
		Analysis:    analysis,
	})
}

// History returns the results of all passes run so far, oldest first.
func (v *Validator) History() []Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Result, len(v.history))
	copy(out, v.history)
	return out
}

func (v *Validator) record(r Result) *Result {
	v.mu.Lock()
	v.history = append(v.history, r)
	v.mu.Unlock()
	return &r
}

// structuralIssues runs the structural checks appropriate for the
// operation. These are cheap, deterministic, and always run.
func (v *Validator) structuralIssues(op Operation) []string {
	issues := []string{}

	switch op.Name {
	case "functor_application":
		if op.Functor == nil {
			issues = append(issues, "no functor given for functor_application")
			break
		}
		if len(op.Functor.ObjectMap) == 0 {
			issues = append(issues, "object mapping is empty")
		}
		issues = append(issues, op.Functor.Validate()...)

	case "coproduct":
		if len(op.Inputs) == 2 {
			conflicts := sharedObjectNames(op.Inputs[0], op.Inputs[1])
			for _, name := range conflicts {
				issues = append(issues, "name conflict across inputs: "+name)
			}
		}
	}

	if op.Result != nil && op.Result.ObjectCount() == 0 {
		issues = append(issues, "result category has no objects")
	}

	return issues
}

// semanticVerdict asks the LLM to judge the operation. Any failure is
// returned as a zero-confidence verdict carrying the error as an issue.
func (v *Validator) semanticVerdict(ctx context.Context, op Operation) verdict {
	prompt := validationPrompt(op)

	resp, err := v.client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		v.logger.Warn("semantic validation failed",
			slog.String("operation", op.Name),
			slog.String("error", err.Error()))
		return verdict{
			Confidence:  0.0,
			Issues:      []string{"LLM validation error: " + err.Error()},
			Suggestions: []string{"check the model endpoint configuration"},
		}
	}

	raw := llm.ExtractJSON(resp.Content)
	if raw == "" {
		v.logger.Warn("semantic validation returned no JSON",
			slog.String("operation", op.Name),
			slog.String("request_id", resp.RequestID))
		return verdict{
			Confidence: 0.0,
			Issues:     []string{"LLM response contained no JSON verdict"},
		}
	}

	var out verdict
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		v.logger.Warn("semantic validation verdict unparseable",
			slog.String("operation", op.Name),
			slog.String("request_id", resp.RequestID),
			slog.String("error", err.Error()))
		return verdict{
			Confidence: 0.0,
			Issues:     []string{"LLM verdict is not valid JSON: " + err.Error()},
		}
	}

	// A verdict that says invalid but names no issue still needs to
	// surface as an issue, otherwise Valid would come out true.
	if !out.IsValid && len(out.Issues) == 0 {
		out.Issues = []string{"model judged the operation semantically invalid"}
	}

	return out
}

// sharedObjectNames returns object names present in both categories,
// in a's insertion order.
func sharedObjectNames(a, b *ontology.Category) []string {
	var shared []string
	for _, obj := range a.Objects() {
		if b.HasObject(obj.Name) {
			shared = append(shared, obj.Name)
		}
	}
	return shared
}
