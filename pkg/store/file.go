package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-variables/pkg/models"
)

// FileStore keeps variables in a YAML document. A missing file is an empty
// store and is created on the first Put.
type FileStore struct {
	path   string
	logger *logrus.Entry

	mu   sync.RWMutex
	snap *Snapshot
}

// NewFileStore loads the document at path.
func NewFileStore(path string, logger *logrus.Entry) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store: no path configured")
	}
	s := &FileStore{path: path, logger: defaultLogger(logger, "file")}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the document path.
func (s *FileStore) Path() string {
	return s.path
}

// Reload rereads the document from disk.
func (s *FileStore) Reload() error {
	snap, err := ReadSnapshot(s.path)
	if errors.Is(err, os.ErrNotExist) {
		snap, err = &Snapshot{}, nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

func (s *FileStore) FloorVariables(ctx context.Context, floor int) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyVars(s.snap.Floors[strconv.Itoa(floor)]), nil
}

func (s *FileStore) ScopeVariables(ctx context.Context, scope models.Scope) (map[string]any, error) {
	if scope == models.ScopeMessage {
		last, err := s.LastFloor(ctx)
		if err != nil || last == NoFloor {
			return map[string]any{}, err
		}
		return s.FloorVariables(ctx, last)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyVars(s.snap.Scopes[string(scope)]), nil
}

func (s *FileStore) LastFloor(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last := NoFloor
	for key, vars := range s.snap.Floors {
		floor, err := parseFloorKey(key)
		if err != nil {
			return NoFloor, err
		}
		if len(vars) > 0 && floor > last {
			last = floor
		}
	}
	return last, nil
}

// Put sets the entries and rewrites the document.
func (s *FileStore) Put(ctx context.Context, entries ...Entry) error {
	for _, e := range entries {
		if err := validate(e); err != nil {
			return fmt.Errorf("put variable: %w", err)
		}
	}
	return s.update(func(snap *Snapshot) {
		for _, e := range entries {
			snap.put(e)
		}
	})
}

// Delete removes the entries and rewrites the document. Missing entries are
// ignored.
func (s *FileStore) Delete(ctx context.Context, entries ...Entry) error {
	for _, e := range entries {
		if err := validate(e); err != nil {
			return fmt.Errorf("delete variable: %w", err)
		}
	}
	return s.update(func(snap *Snapshot) {
		for _, e := range entries {
			snap.remove(e)
		}
	})
}

// update applies fn to a copy of the document and only keeps the copy once
// it was written to disk.
func (s *FileStore) update(fn func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap.clone()
	fn(next)
	if err := WriteSnapshot(s.path, next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// Watch reloads the document whenever it changes on disk and calls onChange
// after each successful reload. It blocks until ctx is done.
func (s *FileStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors and WriteSnapshot replace the file.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("file watcher events channel closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.WithError(err).Warn("failed to reload variables file")
				continue
			}
			s.logger.WithField("op", event.Op.String()).Debug("variables file changed")
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("file watcher errors channel closed")
			}
			s.logger.WithError(err).Warn("file watcher error")
		}
	}
}

func (s *FileStore) Close() error {
	return nil
}
