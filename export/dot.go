package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/codsl/ontology"
)

// edgeColors maps morphism types to Graphviz edge colors.
var edgeColors = map[ontology.MorphismType]string{
	ontology.Functional: "blue",
	ontology.Causal:     "red",
	ontology.Structural: "black",
	ontology.Temporal:   "darkgreen",
}

// toDOT serializes a category as a Graphviz digraph. Objects become
// nodes and morphisms become labeled edges, colored by morphism type.
func toDOT(cat *ontology.Category) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("digraph %q {\n", cat.Name))
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=box, style=rounded];\n\n")

	for _, obj := range cat.Objects() {
		label := escapeDOT(obj.Name)
		if obj.Semantic != "" {
			label += "\\n" + escapeDOT(obj.Semantic)
		}
		sb.WriteString(fmt.Sprintf("    %q [label=\"%s\"];\n", obj.Name, label))
	}
	sb.WriteString("\n")

	for _, m := range cat.Morphisms() {
		color := edgeColors[m.Type]
		if color == "" {
			color = "black"
		}
		sb.WriteString(fmt.Sprintf("    %q -> %q [label=%q, color=%q];\n",
			m.Source, m.Target, m.Name, color))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// escapeDOT escapes quotes and backslashes for DOT string literals.
func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
