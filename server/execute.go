package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/ontology"
)

// executeRequest is the wire shape of POST /api/execute. The payload
// carries the full working set; which name fields matter depends on
// the operation.
type executeRequest struct {
	Operation  string           `json:"operation"`
	Categories []codec.Category `json:"categories"`
	Functors   []codec.Functor  `json:"functors"`

	// Cat1 and Cat2 name the operands of the binary operations.
	Cat1 string `json:"cat1"`
	Cat2 string `json:"cat2"`

	// Target names the third category: the common target of a pullback
	// or the shared source of a pushout.
	Target string `json:"target"`

	// Functor1 and Functor2 name the functor pair for pullback and
	// pushout; for compose, Functor1 is applied first.
	Functor1 string `json:"functor1"`
	Functor2 string `json:"functor2"`

	// Functor names the functor for apply_functor.
	Functor string `json:"functor"`
}

// functorReport is the apply_functor response: the resolved mappings
// plus the functor's own validation verdict.
type functorReport struct {
	Functor          string            `json:"functor"`
	Source           string            `json:"source"`
	Target           string            `json:"target"`
	ObjectMappings   map[string]string `json:"object_mappings"`
	MorphismMappings map[string]string `json:"morphism_mappings"`
	IsValid          bool              `json:"is_valid"`
	ValidationErrors []string          `json:"validation_errors"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req executeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := s.execute(req)
	s.metrics.recordOperation(req.Operation, err)
	if err != nil {
		s.logger.Warn("operation failed",
			slog.String("operation", req.Operation),
			slog.String("error", err.Error()))
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// execute decodes the working set and dispatches the operation. The
// result is already in wire form.
func (s *Server) execute(req executeRequest) (any, error) {
	ws, err := buildWorkspace(req.Categories, req.Functors)
	if err != nil {
		return nil, err
	}

	switch req.Operation {
	case "coproduct", "product", "difference":
		a, err := ws.category(req.Cat1)
		if err != nil {
			return nil, err
		}
		b, err := ws.category(req.Cat2)
		if err != nil {
			return nil, err
		}
		var result *ontology.Category
		switch req.Operation {
		case "coproduct":
			result = ontology.Coproduct(a, b)
		case "product":
			result = ontology.Product(a, b)
		case "difference":
			result = ontology.Difference(a, b)
		}
		return codec.EncodeCategory(result), nil

	case "pullback", "pushout":
		a, err := ws.category(req.Cat1)
		if err != nil {
			return nil, err
		}
		b, err := ws.category(req.Cat2)
		if err != nil {
			return nil, err
		}
		third, err := ws.category(req.Target)
		if err != nil {
			return nil, err
		}
		f, err := ws.functor(req.Functor1)
		if err != nil {
			return nil, err
		}
		g, err := ws.functor(req.Functor2)
		if err != nil {
			return nil, err
		}

		var result *ontology.Category
		if req.Operation == "pullback" {
			result, err = ontology.Pullback(a, b, third, f, g)
		} else {
			result, err = ontology.Pushout(a, b, third, f, g)
		}
		if err != nil {
			return nil, err
		}
		return codec.EncodeCategory(result), nil

	case "apply_functor":
		f, err := ws.functor(req.Functor)
		if err != nil {
			return nil, err
		}
		return buildFunctorReport(f), nil

	case "compose":
		first, err := ws.functor(req.Functor1)
		if err != nil {
			return nil, err
		}
		second, err := ws.functor(req.Functor2)
		if err != nil {
			return nil, err
		}
		composed, err := ontology.Compose(second, first)
		if err != nil {
			return nil, err
		}
		return codec.EncodeFunctor(composed), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Operation)
	}
}

// buildFunctorReport resolves every mapped name that has an image in
// the target category. Entries that do not resolve are left out of the
// mappings and surface through the validation issues instead.
func buildFunctorReport(f *ontology.Functor) functorReport {
	report := functorReport{
		Functor:          f.Name,
		Source:           f.Source.Name,
		Target:           f.Target.Name,
		ObjectMappings:   make(map[string]string),
		MorphismMappings: make(map[string]string),
		ValidationErrors: []string{},
	}

	for _, obj := range f.Source.Objects() {
		if image, ok := f.ObjectImage(obj.Name); ok {
			report.ObjectMappings[obj.Name] = image.Name
		}
	}
	for _, m := range f.Source.Morphisms() {
		if image, ok := f.MorphismImage(m.Name); ok {
			report.MorphismMappings[m.Name] = image.Name
		}
	}

	issues := f.Validate()
	report.IsValid = len(issues) == 0
	if issues != nil {
		report.ValidationErrors = issues
	}
	return report
}
