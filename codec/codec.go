// Package codec converts between the JSON wire representation used by
// the workbench API and example files, and the in-memory ontology and
// instance models. Decoding re-runs the model's own registration
// checks, so a wire document can never produce a category with
// dangling references.
package codec

import (
	"fmt"

	"github.com/c360studio/codsl/instance"
	"github.com/c360studio/codsl/ontology"
)

// Object is the wire form of an ontology object.
type Object struct {
	Name       string   `json:"name"`
	Domain     string   `json:"domain"`
	Attributes []string `json:"attributes,omitempty"`
	Semantic   string   `json:"semantic,omitempty"`
}

// Morphism is the wire form of a morphism. Type is the canonical
// upper-case name (FUNCTIONAL, CAUSAL, STRUCTURAL, TEMPORAL).
type Morphism struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Semantic string `json:"semantic,omitempty"`
}

// Category is the wire form of a category. The counts are filled on
// encode for display purposes and ignored on decode.
type Category struct {
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Objects       []Object          `json:"objects"`
	Morphisms     []Morphism        `json:"morphisms"`
	Aliases       map[string]string `json:"aliases,omitempty"`
	ObjectCount   int               `json:"object_count,omitempty"`
	MorphismCount int               `json:"morphism_count,omitempty"`
}

// Functor is the wire form of a functor. Source and Target are
// category names resolved against the surrounding document.
type Functor struct {
	Name        string            `json:"name"`
	Source      string            `json:"source"`
	Target      string            `json:"target"`
	ObjectMap   map[string]string `json:"object_map"`
	MorphismMap map[string]string `json:"morphism_map"`
	Rules       []string          `json:"rules,omitempty"`
	Description string            `json:"description,omitempty"`
}

// Instance is the wire form of a data record.
type Instance struct {
	Name        string         `json:"name"`
	ObjectType  string         `json:"object_type"`
	Attributes  map[string]any `json:"attributes"`
	Description string         `json:"description,omitempty"`
}

// InstanceSet is the wire form of an instance collection.
type InstanceSet struct {
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Instances   []Instance `json:"instances"`
}

// EncodeCategory serializes cat, preserving insertion order.
func EncodeCategory(cat *ontology.Category) Category {
	out := Category{
		Name:          cat.Name,
		Description:   cat.Description,
		Objects:       make([]Object, 0, cat.ObjectCount()),
		Morphisms:     make([]Morphism, 0, cat.MorphismCount()),
		ObjectCount:   cat.ObjectCount(),
		MorphismCount: cat.MorphismCount(),
	}
	for _, obj := range cat.Objects() {
		out.Objects = append(out.Objects, Object{
			Name:       obj.Name,
			Domain:     obj.Domain,
			Attributes: obj.Attributes,
			Semantic:   obj.Semantic,
		})
	}
	for _, m := range cat.Morphisms() {
		out.Morphisms = append(out.Morphisms, Morphism{
			Name:     m.Name,
			Source:   m.Source,
			Target:   m.Target,
			Type:     m.Type.String(),
			Semantic: m.Semantic,
		})
	}
	if aliases := cat.Aliases(); len(aliases) > 0 {
		out.Aliases = aliases
	}
	return out
}

// DecodeCategory builds a category from its wire form. Objects are
// registered before morphisms so endpoint checks see the full object
// table.
func DecodeCategory(doc Category) (*ontology.Category, error) {
	cat := ontology.NewCategory(doc.Name, doc.Description)
	for _, obj := range doc.Objects {
		err := cat.AddObject(ontology.Object{
			Name:       obj.Name,
			Domain:     obj.Domain,
			Attributes: obj.Attributes,
			Semantic:   obj.Semantic,
		})
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", doc.Name, err)
		}
	}
	for _, m := range doc.Morphisms {
		mt, err := ontology.ParseMorphismType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("category %q, morphism %q: %w", doc.Name, m.Name, err)
		}
		err = cat.AddMorphism(ontology.Morphism{
			Name:     m.Name,
			Source:   m.Source,
			Target:   m.Target,
			Type:     mt,
			Semantic: m.Semantic,
		})
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", doc.Name, err)
		}
	}
	return cat, nil
}

// EncodeFunctor serializes f.
func EncodeFunctor(f *ontology.Functor) Functor {
	return Functor{
		Name:        f.Name,
		Source:      f.Source.Name,
		Target:      f.Target.Name,
		ObjectMap:   f.ObjectMap,
		MorphismMap: f.MorphismMap,
		Rules:       f.Rules,
	}
}

// DecodeFunctor builds a functor, resolving its category names against
// categories.
func DecodeFunctor(doc Functor, categories map[string]*ontology.Category) (*ontology.Functor, error) {
	source, ok := categories[doc.Source]
	if !ok {
		return nil, fmt.Errorf("functor %q: source category %q: %w", doc.Name, doc.Source, ontology.ErrDanglingReference)
	}
	target, ok := categories[doc.Target]
	if !ok {
		return nil, fmt.Errorf("functor %q: target category %q: %w", doc.Name, doc.Target, ontology.ErrDanglingReference)
	}

	f := ontology.NewFunctor(doc.Name, source, target)
	for k, v := range doc.ObjectMap {
		f.ObjectMap[k] = v
	}
	for k, v := range doc.MorphismMap {
		f.MorphismMap[k] = v
	}
	f.Rules = append(f.Rules, doc.Rules...)
	return f, nil
}

// EncodeInstanceSet serializes set, preserving insertion order.
func EncodeInstanceSet(set *instance.InstanceSet) InstanceSet {
	out := InstanceSet{
		Category:    set.Category.Name,
		Description: set.Description,
		Instances:   make([]Instance, 0, set.Len()),
	}
	for _, inst := range set.Instances() {
		out.Instances = append(out.Instances, Instance{
			Name:        inst.Name,
			ObjectType:  inst.ObjectType,
			Attributes:  inst.Attributes,
			Description: inst.Description,
		})
	}
	return out
}

// DecodeInstanceSet builds an instance set named name and bound to
// category. Every instance's object type is checked against the
// category on insert.
func DecodeInstanceSet(name string, doc InstanceSet, category *ontology.Category) (*instance.InstanceSet, error) {
	set := instance.NewInstanceSet(name, category, doc.Description)
	for _, inst := range doc.Instances {
		err := set.AddInstance(&instance.Instance{
			Name:        inst.Name,
			ObjectType:  inst.ObjectType,
			Attributes:  inst.Attributes,
			Description: inst.Description,
		})
		if err != nil {
			return nil, fmt.Errorf("instance set %q: %w", name, err)
		}
	}
	return set, nil
}
