package ontology

import "errors"

// Common ontology errors.
var (
	// ErrDuplicateName is returned when registering an object or morphism
	// whose name is already taken in the category.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrDanglingReference is returned when a morphism endpoint or a
	// strictly required functor mapping refers to a member that does not
	// exist in the category.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrIncompatibleFunctor is returned when two functors cannot be
	// chained because the intermediate categories do not match.
	ErrIncompatibleFunctor = errors.New("incompatible functor")
)
