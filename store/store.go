// Package store persists workbench example documents. Two backends
// are provided: a directory of JSON files and a NATS JetStream
// key-value bucket.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/c360studio/codsl/codec"
	"github.com/c360studio/codsl/instance"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no example exists under a name.
	ErrNotFound = errors.New("example not found")

	// ErrInvalidName is returned for empty names or names that would
	// escape the store's namespace.
	ErrInvalidName = errors.New("invalid example name")
)

// Document is a stored example: categories, functors, instance sets,
// and a computation context, all in wire form.
type Document struct {
	Title       string                       `json:"title,omitempty"`
	Description string                       `json:"description,omitempty"`
	Categories  []codec.Category             `json:"categories,omitempty"`
	Functors    []codec.Functor              `json:"functors,omitempty"`
	Instances   map[string]codec.InstanceSet `json:"instances,omitempty"`
	Context     *instance.Context            `json:"computation_context,omitempty"`
}

// Info is a listing entry for an example.
type Info struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Store persists example documents by name.
type Store interface {
	// List returns listing entries for all stored examples.
	List(ctx context.Context) ([]Info, error)

	// Get loads the named example. It returns ErrNotFound when the
	// name is unknown.
	Get(ctx context.Context, name string) (*Document, error)

	// Put stores doc under name, replacing any previous document.
	Put(ctx context.Context, name string, doc *Document) error

	// Close releases backend resources.
	Close() error
}

// validateName rejects names that are empty or could address entries
// outside the store.
func validateName(name string) error {
	if name == "" {
		return ErrInvalidName
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return ErrInvalidName
	}
	return nil
}
