package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the JetStream KV bucket used for examples.
const DefaultBucket = "CODSL_EXAMPLES"

// KVStore keeps examples in a NATS JetStream key-value bucket, for
// deployments where several workbench instances share one library.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore binds to the named bucket, creating it if necessary.
func NewKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		// Bucket doesn't exist, create it
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "CODSL example documents",
			History:     5, // Keep last 5 revisions
		})
		if err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	return &KVStore{kv: kv}, nil
}

// List walks every key in the bucket.
func (s *KVStore) List(ctx context.Context) ([]Info, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}

	var names []string
	for key := range lister.Keys() {
		names = append(names, key)
	}
	sort.Strings(names)

	infos := make([]Info, 0, len(names))
	for _, name := range names {
		doc, err := s.Get(ctx, name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // deleted between list and get
			}
			return nil, err
		}
		title := doc.Title
		if title == "" {
			title = name
		}
		infos = append(infos, Info{Name: name, Title: title, Description: doc.Description})
	}
	return infos, nil
}

// Get loads the named example.
func (s *KVStore) Get(ctx context.Context, name string) (*Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	entry, err := s.kv.Get(ctx, name)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get example %q: %w", name, err)
	}

	var doc Document
	if err := json.Unmarshal(entry.Value(), &doc); err != nil {
		return nil, fmt.Errorf("parse example %q: %w", name, err)
	}
	return &doc, nil
}

// Put stores doc under name.
func (s *KVStore) Put(ctx context.Context, name string, doc *Document) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal example %q: %w", name, err)
	}

	if _, err := s.kv.Put(ctx, name, data); err != nil {
		return fmt.Errorf("store example %q: %w", name, err)
	}
	return nil
}

// Close is a no-op; the NATS connection is owned by the caller.
func (s *KVStore) Close() error { return nil }
