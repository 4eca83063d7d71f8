// Package store provides the variable stores the editor reads floors and
// scopes from: a YAML file, a SQLite database, or Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/value"
)

// NoFloor is returned by LastFloor when no floor has variables.
const NoFloor = -1

var ErrUnknownDriver = errors.New("unknown store driver")

// Entry addresses one variable. Floor is only used for the message scope.
type Entry struct {
	Scope models.Scope
	Floor int
	Name  string
	Value any
}

// Store is a variable store. Values come back untyped; the editor infers
// their type.
type Store interface {
	FloorVariables(ctx context.Context, floor int) (map[string]any, error)
	ScopeVariables(ctx context.Context, scope models.Scope) (map[string]any, error)
	LastFloor(ctx context.Context) (int, error)
	Put(ctx context.Context, entries ...Entry) error
	Delete(ctx context.Context, entries ...Entry) error
	Close() error
}

// Config selects and configures a Store.
type Config struct {
	Driver      string
	Path        string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
	Logger      *logrus.Entry
}

// Open creates the store named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileStore(cfg.Path, cfg.Logger)
	case "sqlite":
		return NewSQLiteStore(cfg.Path, cfg.Logger)
	case "redis":
		return NewRedisStore(ctx, RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.RedisPrefix,
		}, cfg.Logger)
	default:
		return nil, fmt.Errorf("open store %q: %w", cfg.Driver, ErrUnknownDriver)
	}
}

// Snapshot is the file layout of a variable document:
//
//	scopes:
//	  global: {name: value}
//	floors:
//	  "5": {hp: 42}
type Snapshot struct {
	Scopes map[string]map[string]any `yaml:"scopes,omitempty" json:"scopes,omitempty"`
	Floors map[string]map[string]any `yaml:"floors,omitempty" json:"floors,omitempty"`
}

// ReadSnapshot parses a YAML or JSON document.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variables file: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse variables file %s: %w", path, err)
	}
	if _, err := snap.Entries(); err != nil {
		return nil, fmt.Errorf("parse variables file %s: %w", path, err)
	}
	return &snap, nil
}

// WriteSnapshot writes snap as YAML, replacing path atomically.
func WriteSnapshot(path string, snap *Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal variables: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create variables dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write variables file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace variables file: %w", err)
	}
	return nil
}

// Entries flattens the snapshot. Floor keys must be non-negative integers.
func (s *Snapshot) Entries() ([]Entry, error) {
	var out []Entry
	for scope, vars := range s.Scopes {
		sc, err := models.ParseScope(scope)
		if err != nil {
			return nil, err
		}
		for name, v := range vars {
			out = append(out, Entry{Scope: sc, Floor: NoFloor, Name: name, Value: value.Normalize(v)})
		}
	}
	for key, vars := range s.Floors {
		floor, err := parseFloorKey(key)
		if err != nil {
			return nil, err
		}
		for name, v := range vars {
			out = append(out, Entry{Scope: models.ScopeMessage, Floor: floor, Name: name, Value: value.Normalize(v)})
		}
	}
	return out, nil
}

func (s *Snapshot) put(e Entry) {
	if e.Scope == models.ScopeMessage {
		if s.Floors == nil {
			s.Floors = make(map[string]map[string]any)
		}
		key := strconv.Itoa(e.Floor)
		if s.Floors[key] == nil {
			s.Floors[key] = make(map[string]any)
		}
		s.Floors[key][e.Name] = value.Plain(e.Value)
		return
	}
	if s.Scopes == nil {
		s.Scopes = make(map[string]map[string]any)
	}
	key := string(e.Scope)
	if s.Scopes[key] == nil {
		s.Scopes[key] = make(map[string]any)
	}
	s.Scopes[key][e.Name] = value.Plain(e.Value)
}

// remove deletes e and drops a scope or floor that is left empty.
func (s *Snapshot) remove(e Entry) {
	if e.Scope == models.ScopeMessage {
		key := strconv.Itoa(e.Floor)
		delete(s.Floors[key], e.Name)
		if len(s.Floors[key]) == 0 {
			delete(s.Floors, key)
		}
		return
	}
	key := string(e.Scope)
	delete(s.Scopes[key], e.Name)
	if len(s.Scopes[key]) == 0 {
		delete(s.Scopes, key)
	}
}

// clone copies the scope and floor maps. Values are shared; put replaces
// them rather than mutating them.
func (s *Snapshot) clone() *Snapshot {
	out := &Snapshot{}
	if s.Scopes != nil {
		out.Scopes = make(map[string]map[string]any, len(s.Scopes))
		for k, vars := range s.Scopes {
			out.Scopes[k] = cloneVars(vars)
		}
	}
	if s.Floors != nil {
		out.Floors = make(map[string]map[string]any, len(s.Floors))
		for k, vars := range s.Floors {
			out.Floors[k] = cloneVars(vars)
		}
	}
	return out
}

func cloneVars(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func parseFloorKey(key string) (int, error) {
	floor, err := strconv.Atoi(key)
	if err != nil || floor < 0 {
		return 0, fmt.Errorf("invalid floor %q", key)
	}
	return floor, nil
}

func validate(e Entry) error {
	if e.Name == "" {
		return errors.New("variable name is empty")
	}
	if e.Scope == models.ScopeMessage && e.Floor < 0 {
		return fmt.Errorf("variable %q: floor must not be negative", e.Name)
	}
	if _, err := models.ParseScope(string(e.Scope)); err != nil {
		return fmt.Errorf("variable %q: %w", e.Name, err)
	}
	return nil
}

func defaultLogger(l *logrus.Entry, driver string) *logrus.Entry {
	if l == nil {
		l = logrus.NewEntry(logrus.New())
	}
	return l.WithFields(logrus.Fields{"component": "store", "driver": driver})
}

func copyVars(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = value.Normalize(v)
	}
	return out
}
