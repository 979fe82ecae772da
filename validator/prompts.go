package validator

import (
	"encoding/json"
	"fmt"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/ontology"
)

const systemPrompt = `You are an ontology engineer reviewing the result of a categorical operation on domain ontologies. Judge semantic plausibility only; structural soundness is already verified. Answer with a single JSON object and nothing else.`

const verdictShape = `Answer in JSON: {"is_valid": bool, "confidence": float, "issues": [...], "suggestions": [...], "analysis": "..."}`

// validationPrompt builds the operation-specific prompt.
func validationPrompt(op Operation) string {
	switch op.Name {
	case "functor_application":
		return functorPrompt(op)
	case "coproduct":
		return coproductPrompt(op)
	case "pullback":
		return pullbackPrompt(op)
	default:
		return genericPrompt(op)
	}
}

func functorPrompt(op Operation) string {
	f := op.Functor
	return fmt.Sprintf(`Assess the semantic validity of the following ontology mapping (functor).

Source ontology:
%s

Target ontology:
%s

Object mapping: %s
Morphism mapping: %s

Check:
1. Semantic correspondence: is each mapping semantically sound?
2. Information loss: is any important information dropped?
3. Structure preservation: is the essence of each relation preserved?

%s`,
		categoryJSON(f.Source),
		categoryJSON(f.Target),
		mapJSON(f.ObjectMap),
		mapJSON(f.MorphismMap),
		verdictShape)
}

func coproductPrompt(op Operation) string {
	return fmt.Sprintf(`Assess the semantic validity of combining the following two ontologies side by side (coproduct).

Ontology 1:
%s

Ontology 2:
%s

Result:
%s

Check:
1. Name conflicts: do same-named concepts carry different meanings?
2. Coherence: is the combined concept system consistent?
3. Utility: is the combined result practically meaningful?

%s`,
		inputJSON(op, 0),
		inputJSON(op, 1),
		categoryJSON(op.Result),
		verdictShape)
}

func pullbackPrompt(op Operation) string {
	return fmt.Sprintf(`Assess the semantic validity of the following shared-structure extraction (pullback).

Ontology A:
%s

Ontology B:
%s

Shared target:
%s

Extracted shared structure:
%s

Check:
1. Genuine commonality: are the extracted pairs really the same thing?
2. Completeness: is any shared structure missing?
3. Coincidence: are accidental name matches mistaken for shared structure?

%s`,
		inputJSON(op, 0),
		inputJSON(op, 1),
		inputJSON(op, 2),
		categoryJSON(op.Result),
		verdictShape)
}

func genericPrompt(op Operation) string {
	inputs := make([]json.RawMessage, 0, len(op.Inputs))
	for _, cat := range op.Inputs {
		inputs = append(inputs, json.RawMessage(categoryJSON(cat)))
	}
	inputDoc, _ := json.MarshalIndent(inputs, "", "  ")

	return fmt.Sprintf(`Assess the semantic validity of the following ontology operation.

Operation: %s

Inputs:
%s

Output:
%s

Check:
1. Semantic validity
2. Structure preservation
3. Practical utility

%s`,
		op.Name,
		string(inputDoc),
		categoryJSON(op.Result),
		verdictShape)
}

func categoryJSON(cat *ontology.Category) string {
	if cat == nil {
		return "{}"
	}
	doc, err := json.MarshalIndent(codec.EncodeCategory(cat), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(doc)
}

func inputJSON(op Operation, i int) string {
	if i >= len(op.Inputs) {
		return "{}"
	}
	return categoryJSON(op.Inputs[i])
}

func mapJSON(m map[string]string) string {
	doc, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(doc)
}
