// Package instance binds concrete data records to an ontology and
// derives new records from them. An InstanceSet holds typed instances
// of one category's objects; Rules transforms a source set into a
// derived set using a functor to resolve target typing.
package instance

import (
	"fmt"

	"github.com/c360studio/codsl/ontology"
)

// Instance is a concrete data record typed by an ontology object. The
// object type is a weak back-reference held by name: it is resolved
// against the owning category when the instance joins an InstanceSet,
// never stored as a live pointer.
type Instance struct {
	// Name is unique within the owning InstanceSet.
	Name string

	// ObjectType names the ontology object this record instantiates.
	ObjectType string

	// Attributes holds numeric or string values keyed by attribute name.
	Attributes map[string]any

	Description string
}

// Attribute returns the named attribute value. Absence is not an error
// at this layer; rules decide whether a missing attribute is fatal.
func (i *Instance) Attribute(key string) (any, bool) {
	v, ok := i.Attributes[key]
	return v, ok
}

// Float returns the named attribute coerced to float64. JSON decoding
// produces float64 for all numbers, but integer literals from code are
// accepted too.
func (i *Instance) Float(key string) (float64, bool) {
	v, ok := i.Attributes[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// String returns the named attribute if it is a string.
func (i *Instance) String(key string) (string, bool) {
	v, ok := i.Attributes[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// InstanceSet is a named collection of instances bound to the category
// they instantiate. Insertion order is preserved for deterministic
// reporting.
type InstanceSet struct {
	Name        string
	Category    *ontology.Category
	Description string

	instances map[string]*Instance
	order     []string
}

// NewInstanceSet creates an empty set bound to category.
func NewInstanceSet(name string, category *ontology.Category, description string) *InstanceSet {
	return &InstanceSet{
		Name:        name,
		Category:    category,
		Description: description,
		instances:   make(map[string]*Instance),
	}
}

// AddInstance registers inst. The instance's object type must be a
// member of the bound category; otherwise the add fails with
// ontology.ErrDanglingReference. A name collision fails with
// ontology.ErrDuplicateName.
func (s *InstanceSet) AddInstance(inst *Instance) error {
	if _, ok := s.Category.Object(inst.ObjectType); !ok {
		return fmt.Errorf("instance %q: object type %q not in category %q: %w",
			inst.Name, inst.ObjectType, s.Category.Name, ontology.ErrDanglingReference)
	}
	if _, exists := s.instances[inst.Name]; exists {
		return fmt.Errorf("instance %q in set %q: %w", inst.Name, s.Name, ontology.ErrDuplicateName)
	}
	s.instances[inst.Name] = inst
	s.order = append(s.order, inst.Name)
	return nil
}

// Instance looks up an instance by name.
func (s *InstanceSet) Instance(name string) (*Instance, bool) {
	inst, ok := s.instances[name]
	return inst, ok
}

// Instances returns all instances in insertion order.
func (s *InstanceSet) Instances() []*Instance {
	out := make([]*Instance, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.instances[name])
	}
	return out
}

// Len returns the number of instances in the set.
func (s *InstanceSet) Len() int { return len(s.instances) }
