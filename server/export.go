package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/export"
	"github.com/c360studio/codsl/store"
)

// ----------------------------------------------------------------------------
// GET /api/export?example={name}&category={name}&format={turtle|ntriples|dot}
// ----------------------------------------------------------------------------

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	exampleName := q.Get("example")
	if exampleName == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("example query parameter is required"))
		return
	}

	format := export.FormatTurtle
	if name := q.Get("format"); name != "" {
		parsed, err := export.ParseFormat(name)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		format = parsed
	}

	var doc *store.Document
	if exampleName == store.BuiltinName {
		doc = store.BuiltinCarbonFootprint()
	} else {
		stored, err := s.store.Get(r.Context(), exampleName)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				s.writeError(w, http.StatusNotFound, fmt.Errorf("example not found: %s", exampleName))
			case errors.Is(err, store.ErrInvalidName):
				s.writeError(w, http.StatusBadRequest, err)
			default:
				s.logger.Error("export failed",
					slog.String("example", exampleName), slog.String("error", err.Error()))
				s.writeError(w, http.StatusInternalServerError, err)
			}
			return
		}
		doc = stored
	}

	catDoc, err := pickCategory(doc, q.Get("category"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	cat, err := codec.DecodeCategory(*catDoc)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	out, err := export.Export(cat, format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	info, _ := export.GetFormatInfo(format)
	w.Header().Set("Content-Type", info.MIMEType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", cat.Name+info.Extension))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// pickCategory resolves which of the document's categories to export.
// An empty name is valid only when the document has exactly one.
func pickCategory(doc *store.Document, name string) (*codec.Category, error) {
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("example has no categories")
	}

	if name == "" {
		if len(doc.Categories) == 1 {
			return &doc.Categories[0], nil
		}
		names := make([]string, 0, len(doc.Categories))
		for _, c := range doc.Categories {
			names = append(names, c.Name)
		}
		return nil, fmt.Errorf("example has multiple categories %v: category query parameter is required", names)
	}

	for i := range doc.Categories {
		if doc.Categories[i].Name == name {
			return &doc.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("category not found in example: %s", name)
}
