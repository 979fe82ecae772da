package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// FileStore keeps examples as JSON files under a directory. Documents
// are cached after first read; an fsnotify watcher invalidates the
// cache when the directory changes.
type FileStore struct {
	dir     string
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.RWMutex
	cache map[string]*Document
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileStoreLogger sets the logger.
func WithFileStoreLogger(logger *slog.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore opens (and creates if needed) the example directory.
// When watch is true, file changes invalidate the read cache.
func NewFileStore(dir string, watch bool, opts ...FileStoreOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create examples directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		logger: slog.Default(),
		cache:  make(map[string]*Document),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if watch {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		s.watcher = watcher
		if err := s.addWatchesRecursive(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		go s.watchLoop()
	}

	return s, nil
}

// addWatchesRecursive watches root and every subdirectory beneath it,
// so changes to nested examples raise events too. Hidden directories
// are skipped.
func (s *FileStore) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if base := filepath.Base(path); strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}
		if err := s.watcher.Add(path); err != nil {
			s.logger.Warn("failed to watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return nil
		}
		return nil
	})
}

// watchLoop drops cached documents whenever the directory changes.
func (s *FileStore) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := s.watcher.Add(event.Name); err != nil {
						s.logger.Warn("failed to watch new directory",
							slog.String("path", event.Name),
							slog.String("error", err.Error()))
					}
					continue
				}
			}
			name, err := s.nameFor(event.Name)
			if err != nil {
				continue
			}
			s.mu.Lock()
			delete(s.cache, name)
			s.mu.Unlock()
			s.logger.Debug("example cache invalidated",
				slog.String("name", name),
				slog.String("op", event.Op.String()))
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("example watcher error", slog.String("error", err.Error()))
		}
	}
}

// List globs for JSON documents recursively and returns one entry per
// readable file. Unreadable or malformed files are skipped with a
// warning so one broken example cannot hide the rest.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	pattern := filepath.Join(s.dir, "**", "*.json")
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob examples: %w", err)
	}
	sort.Strings(matches)

	infos := make([]Info, 0, len(matches))
	for _, match := range matches {
		name, err := s.nameFor(match)
		if err != nil {
			continue
		}
		doc, err := s.load(name, match)
		if err != nil {
			s.logger.Warn("skipping unreadable example",
				slog.String("path", match),
				slog.String("error", err.Error()))
			continue
		}
		title := doc.Title
		if title == "" {
			title = name
		}
		infos = append(infos, Info{Name: name, Title: title, Description: doc.Description})
	}
	return infos, nil
}

// Get loads the named example, serving from cache when possible.
func (s *FileStore) Get(ctx context.Context, name string) (*Document, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	doc, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	return s.load(name, s.pathFor(name))
}

// Put writes doc as indented JSON.
func (s *FileStore) Put(ctx context.Context, name string, doc *Document) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal example %q: %w", name, err)
	}

	path := s.pathFor(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create example directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write example %q: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = doc
	s.mu.Unlock()
	return nil
}

// Close stops the watcher.
func (s *FileStore) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *FileStore) pathFor(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// nameFor converts an absolute match back into a store name: the path
// relative to the store root without the .json extension.
func (s *FileStore) nameFor(path string) (string, error) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), ".json"), nil
}

func (s *FileStore) load(name, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read example %q: %w", name, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse example %q: %w", name, err)
	}

	s.mu.Lock()
	s.cache[name] = &doc
	s.mu.Unlock()
	return &doc, nil
}
