package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/ontology"
	"github.com/c360studio/codsl/store"
	"github.com/c360studio/codsl/validator"
)

// ----------------------------------------------------------------------------
// GET /api/examples
// ----------------------------------------------------------------------------

func (s *Server) handleListExamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	builtin := store.BuiltinCarbonFootprint()
	infos := []store.Info{{
		Name:        store.BuiltinName,
		Title:       builtin.Title,
		Description: builtin.Description,
	}}

	stored, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list examples failed", slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	for _, info := range stored {
		if info.Name == store.BuiltinName {
			continue // the bundled example shadows a saved copy
		}
		infos = append(infos, info)
	}

	writeJSON(w, http.StatusOK, infos)
}

// ----------------------------------------------------------------------------
// GET /api/example/{name}
// ----------------------------------------------------------------------------

func (s *Server) handleGetExample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/example/")
	if name == store.BuiltinName {
		writeJSON(w, http.StatusOK, store.BuiltinCarbonFootprint())
		return
	}

	doc, err := s.store.Get(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.writeError(w, http.StatusNotFound, fmt.Errorf("example not found: %s", name))
		case errors.Is(err, store.ErrInvalidName):
			s.writeError(w, http.StatusBadRequest, err)
		default:
			s.logger.Error("get example failed", slog.String("name", name), slog.String("error", err.Error()))
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// ----------------------------------------------------------------------------
// POST /api/save_example
// ----------------------------------------------------------------------------

type saveExampleRequest struct {
	Name string `json:"name"`
	store.Document
}

type saveExampleResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
}

func (s *Server) handleSaveExample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req saveExampleRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Name == "" {
		req.Name = "custom_example"
	}

	if err := s.store.Put(r.Context(), req.Name, &req.Document); err != nil {
		if errors.Is(err, store.ErrInvalidName) {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		s.logger.Error("save example failed", slog.String("name", req.Name), slog.String("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Info("example saved", slog.String("name", req.Name))
	writeJSON(w, http.StatusOK, saveExampleResponse{Success: true, Name: req.Name})
}

// ----------------------------------------------------------------------------
// POST /api/validate
// ----------------------------------------------------------------------------

type validateRequest struct {
	Level      string           `json:"level"`
	Operation  string           `json:"operation"`
	Categories []codec.Category `json:"categories"`
	Functors   []codec.Functor  `json:"functors"`
	Functor    string           `json:"functor"`
	Cat1       string           `json:"cat1"`
	Cat2       string           `json:"cat2"`
	Result     *codec.Category  `json:"result,omitempty"`
	Domain     string           `json:"domain,omitempty"`
	Data       map[string]any   `json:"data,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req validateRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	ws, err := buildWorkspace(req.Categories, req.Functors)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	op := validator.Operation{Name: req.Operation, Domain: req.Domain, Data: req.Data}
	if req.Functor != "" {
		f, ok := ws.functors[req.Functor]
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown functor %q", req.Functor))
			return
		}
		op.Functor = f
	}
	for _, name := range []string{req.Cat1, req.Cat2} {
		if name == "" {
			continue
		}
		cat, ok := ws.categories[name]
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown category %q", name))
			return
		}
		op.Inputs = append(op.Inputs, cat)
	}
	if req.Result != nil {
		result, err := codec.DecodeCategory(*req.Result)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		op.Result = result
	}

	level := s.defaultLevel
	if req.Level != "" {
		level = validator.Level(strings.ToLower(req.Level))
	}

	writeJSON(w, http.StatusOK, s.validator.Validate(r.Context(), op, level))
}

// workspace holds the categories and functors decoded from a request
// payload. It is rebuilt per request; nothing here is shared.
type workspace struct {
	categories    map[string]*ontology.Category
	categoryOrder []string
	functors      map[string]*ontology.Functor
	functorOrder  []string
}

func buildWorkspace(categories []codec.Category, functors []codec.Functor) (*workspace, error) {
	ws := &workspace{
		categories: make(map[string]*ontology.Category, len(categories)),
		functors:   make(map[string]*ontology.Functor, len(functors)),
	}

	for _, doc := range categories {
		cat, err := codec.DecodeCategory(doc)
		if err != nil {
			return nil, err
		}
		if _, exists := ws.categories[cat.Name]; exists {
			return nil, fmt.Errorf("category %q: %w", cat.Name, ontology.ErrDuplicateName)
		}
		ws.categories[cat.Name] = cat
		ws.categoryOrder = append(ws.categoryOrder, cat.Name)
	}

	for _, doc := range functors {
		f, err := codec.DecodeFunctor(doc, ws.categories)
		if err != nil {
			return nil, err
		}
		if _, exists := ws.functors[f.Name]; exists {
			return nil, fmt.Errorf("functor %q: %w", f.Name, ontology.ErrDuplicateName)
		}
		ws.functors[f.Name] = f
		ws.functorOrder = append(ws.functorOrder, f.Name)
	}

	return ws, nil
}

func (ws *workspace) category(name string) (*ontology.Category, error) {
	cat, ok := ws.categories[name]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", name)
	}
	return cat, nil
}

func (ws *workspace) functor(name string) (*ontology.Functor, error) {
	f, ok := ws.functors[name]
	if !ok {
		return nil, fmt.Errorf("unknown functor %q", name)
	}
	return f, nil
}
