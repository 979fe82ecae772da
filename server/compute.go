package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/instance"
)

// computeRequest is the wire shape of POST /api/compute_instances.
type computeRequest struct {
	Categories []codec.Category             `json:"categories"`
	Functors   []codec.Functor              `json:"functors"`
	Instances  map[string]codec.InstanceSet `json:"instances"`

	// SourceInstanceSet names the input data. Optional when exactly
	// one instance set is supplied.
	SourceInstanceSet string `json:"source_instance_set"`

	// Functor names the mapping into the report structure. Optional
	// when exactly one functor is supplied.
	Functor string `json:"functor"`

	Context instance.Context `json:"computation_context"`
}

// computeResults nests the report and derived instances under the
// "results" key.
type computeResults struct {
	instance.Report
	ResultInstances codec.InstanceSet `json:"result_instances"`
}

type computeResponse struct {
	Success           bool             `json:"success"`
	SourceInstanceSet string           `json:"source_instance_set"`
	Functor           string           `json:"functor"`
	Context           instance.Context `json:"computation_context"`
	Results           computeResults   `json:"results"`
}

func (s *Server) handleComputeInstances(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req computeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	resp, err := s.compute(req)
	s.metrics.recordOperation("compute_instances", err)
	if err != nil {
		s.logger.Warn("instance computation failed", slog.String("error", err.Error()))
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) compute(req computeRequest) (*computeResponse, error) {
	ws, err := buildWorkspace(req.Categories, req.Functors)
	if err != nil {
		return nil, err
	}

	// Decode instance sets against their categories.
	sets := make(map[string]*instance.InstanceSet, len(req.Instances))
	for name, doc := range req.Instances {
		cat, err := ws.category(doc.Category)
		if err != nil {
			return nil, fmt.Errorf("instance set %q: %w", name, err)
		}
		set, err := codec.DecodeInstanceSet(name, doc, cat)
		if err != nil {
			return nil, err
		}
		sets[name] = set
	}

	sourceName, err := pickSource(req.SourceInstanceSet, sets)
	if err != nil {
		return nil, err
	}
	functorName := req.Functor
	if functorName == "" {
		if len(ws.functorOrder) == 0 {
			return nil, fmt.Errorf("no functor specified and none available")
		}
		functorName = ws.functorOrder[0]
	}
	f, err := ws.functor(functorName)
	if err != nil {
		return nil, err
	}

	rules := instance.NewGHGRules(s.logger)
	derived, err := rules.Apply(sets[sourceName], f, req.Context)
	if err != nil {
		return nil, err
	}

	return &computeResponse{
		Success:           true,
		SourceInstanceSet: sourceName,
		Functor:           functorName,
		Context:           req.Context,
		Results: computeResults{
			Report:          instance.Summarize(derived),
			ResultInstances: codec.EncodeInstanceSet(derived),
		},
	}, nil
}

// pickSource resolves the source instance set name. A missing name is
// only tolerated when the choice is unambiguous.
func pickSource(name string, sets map[string]*instance.InstanceSet) (string, error) {
	if name != "" {
		if _, ok := sets[name]; !ok {
			return "", fmt.Errorf("unknown instance set %q", name)
		}
		return name, nil
	}

	switch len(sets) {
	case 0:
		return "", fmt.Errorf("no instance set specified and none available")
	case 1:
		for only := range sets {
			return only, nil
		}
	}

	names := make([]string, 0, len(sets))
	for n := range sets {
		names = append(names, n)
	}
	sort.Strings(names)
	return "", fmt.Errorf("multiple instance sets %v: source_instance_set is required", names)
}
