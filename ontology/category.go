package ontology

import "fmt"

// Category is a named graph of objects and morphisms. Membership is
// keyed by name; insertion order is preserved so that derived output
// is deterministic.
//
// The zero value is not usable; construct with NewCategory.
type Category struct {
	Name        string
	Description string

	objects     map[string]Object
	objectOrder []string

	morphisms  map[string]Morphism
	morphOrder []string

	// aliases maps alternative object names to canonical member names.
	// Populated by pushout when two objects are identified.
	aliases map[string]string
}

// NewCategory creates an empty category.
func NewCategory(name, description string) *Category {
	return &Category{
		Name:        name,
		Description: description,
		objects:     make(map[string]Object),
		morphisms:   make(map[string]Morphism),
		aliases:     make(map[string]string),
	}
}

// AddObject registers obj. It fails with ErrDuplicateName if an object
// with the same name is already a member.
func (c *Category) AddObject(obj Object) error {
	if _, exists := c.objects[obj.Name]; exists {
		return fmt.Errorf("object %q in category %q: %w", obj.Name, c.Name, ErrDuplicateName)
	}
	c.putObject(obj)
	return nil
}

// AddMorphism registers m. Both endpoints must already be registered
// objects; otherwise it fails with ErrDanglingReference. A name
// collision fails with ErrDuplicateName.
func (c *Category) AddMorphism(m Morphism) error {
	if _, ok := c.objects[m.Source]; !ok {
		return fmt.Errorf("morphism %q: source %q not in category %q: %w", m.Name, m.Source, c.Name, ErrDanglingReference)
	}
	if _, ok := c.objects[m.Target]; !ok {
		return fmt.Errorf("morphism %q: target %q not in category %q: %w", m.Name, m.Target, c.Name, ErrDanglingReference)
	}
	if _, exists := c.morphisms[m.Name]; exists {
		return fmt.Errorf("morphism %q in category %q: %w", m.Name, c.Name, ErrDuplicateName)
	}
	c.putMorphism(m)
	return nil
}

// Object looks up an object by name, resolving pushout aliases.
func (c *Category) Object(name string) (Object, bool) {
	if obj, ok := c.objects[name]; ok {
		return obj, true
	}
	if canonical, ok := c.aliases[name]; ok {
		obj, ok := c.objects[canonical]
		return obj, ok
	}
	return Object{}, false
}

// HasObject reports whether name is a member (aliases not considered).
func (c *Category) HasObject(name string) bool {
	_, ok := c.objects[name]
	return ok
}

// Morphism looks up a morphism by name.
func (c *Category) Morphism(name string) (Morphism, bool) {
	m, ok := c.morphisms[name]
	return m, ok
}

// HasMorphism reports whether name is a registered morphism.
func (c *Category) HasMorphism(name string) bool {
	_, ok := c.morphisms[name]
	return ok
}

// Objects returns all objects in insertion order.
func (c *Category) Objects() []Object {
	out := make([]Object, 0, len(c.objectOrder))
	for _, name := range c.objectOrder {
		out = append(out, c.objects[name])
	}
	return out
}

// Morphisms returns all morphisms in insertion order.
func (c *Category) Morphisms() []Morphism {
	out := make([]Morphism, 0, len(c.morphOrder))
	for _, name := range c.morphOrder {
		out = append(out, c.morphisms[name])
	}
	return out
}

// ObjectCount returns the number of objects.
func (c *Category) ObjectCount() int { return len(c.objects) }

// MorphismCount returns the number of morphisms.
func (c *Category) MorphismCount() int { return len(c.morphisms) }

// MorphismsFrom returns the morphisms whose source is the named object.
func (c *Category) MorphismsFrom(name string) []Morphism {
	var out []Morphism
	for _, mn := range c.morphOrder {
		if m := c.morphisms[mn]; m.Source == name {
			out = append(out, m)
		}
	}
	return out
}

// MorphismsTo returns the morphisms whose target is the named object.
func (c *Category) MorphismsTo(name string) []Morphism {
	var out []Morphism
	for _, mn := range c.morphOrder {
		if m := c.morphisms[mn]; m.Target == name {
			out = append(out, m)
		}
	}
	return out
}

// Aliases returns the alias table (alias name -> canonical member name).
func (c *Category) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// putObject inserts without validation. Algebra operations use it after
// computing names that are unique by construction.
func (c *Category) putObject(obj Object) {
	c.objects[obj.Name] = obj
	c.objectOrder = append(c.objectOrder, obj.Name)
}

// putMorphism inserts without validation.
func (c *Category) putMorphism(m Morphism) {
	c.morphisms[m.Name] = m
	c.morphOrder = append(c.morphOrder, m.Name)
}

// addAlias records alias -> canonical, unless alias is itself a member.
func (c *Category) addAlias(alias, canonical string) {
	if alias == canonical {
		return
	}
	if _, taken := c.objects[alias]; taken {
		return
	}
	c.aliases[alias] = canonical
}
