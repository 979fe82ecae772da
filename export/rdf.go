// Package export serializes categories to interchange formats: RDF
// (Turtle, N-Triples) for knowledge-graph tooling and DOT for
// visualization.
package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/codsl/ontology"
)

// Namespace is the CODSL vocabulary namespace.
const Namespace = "https://codsl.dev/ns#"

// OntologyNamespace is the base IRI for exported ontology terms.
const OntologyNamespace = "https://codsl.dev/ontology/"

// defaultPrefixes returns the standard namespace prefixes for RDF export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":   "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":  "http://www.w3.org/2000/01/rdf-schema#",
		"xsd":   "http://www.w3.org/2001/XMLSchema#",
		"dc":    "http://purl.org/dc/terms/",
		"skos":  "http://www.w3.org/2004/02/skos/core#",
		"codsl": Namespace,
	}
}

// Export serializes cat to the given format.
func Export(cat *ontology.Category, format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return toTurtle(cat), nil
	case FormatNTriples:
		return toNTriples(cat), nil
	case FormatDOT:
		return toDOT(cat), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// categoryIRI returns the IRI naming the category itself.
func categoryIRI(cat *ontology.Category) string {
	return OntologyNamespace + iriFragment(cat.Name)
}

// termIRI returns the IRI of an object or morphism within a category.
func termIRI(cat *ontology.Category, name string) string {
	return OntologyNamespace + iriFragment(cat.Name) + "#" + iriFragment(name)
}

// iriFragment makes a name safe for use inside an IRI. Pair names from
// product and pullback results carry parentheses, commas, and spaces.
func iriFragment(name string) string {
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		",", "_",
		"<", "",
		">", "",
		"\"", "",
	)
	return replacer.Replace(name)
}

// toTurtle serializes to Turtle format.
func toTurtle(cat *ontology.Category) string {
	w := NewTurtleWriter()
	w.WritePrefixes()

	w.WriteSubject(categoryIRI(cat))
	w.WriteType(Namespace+"Ontology", false)
	w.WritePredicate("http://www.w3.org/2000/01/rdf-schema#label", cat.Name, cat.Description == "")
	if cat.Description != "" {
		w.WritePredicate("http://purl.org/dc/terms/description", cat.Description, true)
	}
	w.WriteBlank()

	for _, obj := range cat.Objects() {
		w.WriteSubject(termIRI(cat, obj.Name))
		w.WriteType(Namespace+"Object", false)
		last := obj.Domain == "" && len(obj.Attributes) == 0 && obj.Semantic == ""
		w.WritePredicate("http://www.w3.org/2000/01/rdf-schema#label", obj.Name, last)
		if obj.Domain != "" {
			last = len(obj.Attributes) == 0 && obj.Semantic == ""
			w.WritePredicate(Namespace+"domain", obj.Domain, last)
		}
		for i, attr := range obj.Attributes {
			last = i == len(obj.Attributes)-1 && obj.Semantic == ""
			w.WritePredicate(Namespace+"attribute", attr, last)
		}
		if obj.Semantic != "" {
			w.WritePredicate("http://www.w3.org/2004/02/skos/core#definition", obj.Semantic, true)
		}
		w.WriteBlank()
	}

	for _, m := range cat.Morphisms() {
		w.WriteSubject(termIRI(cat, m.Name))
		w.WriteType(Namespace+"Morphism", false)
		w.WritePredicate("http://www.w3.org/2000/01/rdf-schema#label", m.Name, false)
		w.WritePredicate(Namespace+"source", termIRI(cat, m.Source), false)
		w.WritePredicate(Namespace+"target", termIRI(cat, m.Target), false)
		last := m.Semantic == ""
		w.WritePredicate(Namespace+"morphismType", m.Type.String(), last)
		if m.Semantic != "" {
			w.WritePredicate("http://www.w3.org/2004/02/skos/core#definition", m.Semantic, true)
		}
		w.WriteBlank()
	}

	return w.String()
}

// toNTriples serializes to N-Triples format.
func toNTriples(cat *ontology.Category) string {
	w := NewNTriplesWriter()

	label := "http://www.w3.org/2000/01/rdf-schema#label"
	definition := "http://www.w3.org/2004/02/skos/core#definition"

	catIRI := categoryIRI(cat)
	w.WriteTypeTriple(catIRI, Namespace+"Ontology")
	w.WriteTriple(catIRI, label, cat.Name)
	if cat.Description != "" {
		w.WriteTriple(catIRI, "http://purl.org/dc/terms/description", cat.Description)
	}

	for _, obj := range cat.Objects() {
		iri := termIRI(cat, obj.Name)
		w.WriteTypeTriple(iri, Namespace+"Object")
		w.WriteTriple(iri, label, obj.Name)
		if obj.Domain != "" {
			w.WriteTriple(iri, Namespace+"domain", obj.Domain)
		}
		for _, attr := range obj.Attributes {
			w.WriteTriple(iri, Namespace+"attribute", attr)
		}
		if obj.Semantic != "" {
			w.WriteTriple(iri, definition, obj.Semantic)
		}
	}

	for _, m := range cat.Morphisms() {
		iri := termIRI(cat, m.Name)
		w.WriteTypeTriple(iri, Namespace+"Morphism")
		w.WriteTriple(iri, label, m.Name)
		w.WriteTriple(iri, Namespace+"source", termIRI(cat, m.Source))
		w.WriteTriple(iri, Namespace+"target", termIRI(cat, m.Target))
		w.WriteTriple(iri, Namespace+"morphismType", m.Type.String())
		if m.Semantic != "" {
			w.WriteTriple(iri, definition, m.Semantic)
		}
	}

	return w.String()
}

// formatObject formats an object value for Turtle output.
func formatObject(obj any) string {
	switch v := obj.(type) {
	case string:
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return fmt.Sprintf("<%s>", v)
		}
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^xsd:integer", v)
	case float32, float64:
		return fmt.Sprintf("\"%f\"^^xsd:decimal", v)
	case bool:
		return fmt.Sprintf("\"%t\"^^xsd:boolean", v)
	default:
		return fmt.Sprintf("\"%v\"", v)
	}
}

// formatObjectNTriples formats an object value for N-Triples output.
func formatObjectNTriples(obj any) string {
	switch v := obj.(type) {
	case string:
		if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
			return fmt.Sprintf("<%s>", v)
		}
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^<http://www.w3.org/2001/XMLSchema#integer>", v)
	case float32, float64:
		return fmt.Sprintf("\"%f\"^^<http://www.w3.org/2001/XMLSchema#decimal>", v)
	case bool:
		return fmt.Sprintf("\"%t\"^^<http://www.w3.org/2001/XMLSchema#boolean>", v)
	default:
		return fmt.Sprintf("\"%v\"", v)
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
