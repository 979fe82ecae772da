package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codsl/validator"
)

const testProgram = `# Two sites and their combined view.
ONTOLOGY SiteA {
    OBJECT Boiler {
        attributes: ["fuel", "2.5MW"]
    }
    OBJECT CO2 {
        semantic: "combustion emissions"
    }
    MORPHISM emits: Boiler -> CO2 {
        type: CAUSAL
    }
}

ONTOLOGY SiteB {
    OBJECT Press {}
    OBJECT CO2 {}
    MORPHISM emits: Press -> CO2 {
        type: CAUSAL
    }
}

OPERATION Combined = COPRODUCT(SiteA, SiteB)
VALIDATE Combined WITH STRUCTURAL
`

func TestRunProgramSummary(t *testing.T) {
	var buf bytes.Buffer
	err := runProgram(context.Background(), &buf, testProgram, false, validator.New(nil))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Ontologies: 2")
	assert.Contains(t, out, "SiteA: 2 objects, 1 morphisms")
	assert.Contains(t, out, "Combined: 4 objects, 2 morphisms")
	assert.Contains(t, out, "SiteA.CO2")
	assert.Contains(t, out, "SiteB.CO2")
	assert.Contains(t, out, "Validation of Combined (structural): valid=true confidence=1.00")
}

func TestRunProgramJSON(t *testing.T) {
	var buf bytes.Buffer
	err := runProgram(context.Background(), &buf, testProgram, true, validator.New(nil))
	require.NoError(t, err)

	var doc struct {
		Results []struct {
			Name        string `json:"name"`
			ObjectCount int    `json:"object_count"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "Combined", doc.Results[0].Name)
	assert.Equal(t, 4, doc.Results[0].ObjectCount)
}

func TestRunProgramReportsParseErrors(t *testing.T) {
	var buf bytes.Buffer
	err := runProgram(context.Background(), &buf, "ONTOLOGY Broken {", false, validator.New(nil))
	require.Error(t, err)
}

func TestRunProgramUnknownValidateTarget(t *testing.T) {
	program := `ONTOLOGY A {
    OBJECT X {}
}
VALIDATE Missing WITH STRUCTURAL
`
	var buf bytes.Buffer
	err := runProgram(context.Background(), &buf, program, false, validator.New(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing")
}
