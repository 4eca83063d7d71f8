//go:build integration
// +build integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mattsolo1/grove-variables/pkg/card"
	"github.com/mattsolo1/grove-variables/pkg/floor"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
)

type captureSurface struct {
	view  *floor.View
	empty string
	err   error
}

func (s *captureSurface) ShowEmpty(_ floor.EmptyReason, message string) { s.empty = message }
func (s *captureSurface) ShowError(err error)                           { s.err = err }
func (s *captureSurface) Commit(view *floor.View)                       { s.view = view }

func TestIntegration(t *testing.T) {
	// Skip if not running integration tests
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}

	ctx := context.Background()
	tmpDir := t.TempDir()
	docPath := filepath.Join(tmpDir, "doc.yaml")

	// Test 1: Write a document through the file store
	t.Run("FileStore", func(t *testing.T) {
		fs, err := store.NewFileStore(docPath, nil)
		if err != nil {
			t.Fatalf("Failed to open file store: %v", err)
		}
		defer fs.Close()

		err = fs.Put(ctx,
			store.Entry{Scope: models.ScopeGlobal, Floor: store.NoFloor, Name: "mode", Value: "story"},
			store.Entry{Scope: models.ScopeMessage, Floor: 1, Name: "hp", Value: float64(10)},
			store.Entry{Scope: models.ScopeMessage, Floor: 3, Name: "party", Value: map[string]any{"lead": "ann", "size": float64(2)}},
		)
		if err != nil {
			t.Fatalf("Failed to put variables: %v", err)
		}
	})

	dbPath := filepath.Join(tmpDir, "vars.db")

	// Test 2: Import the document into sqlite
	t.Run("ImportIntoSQLite", func(t *testing.T) {
		snap, err := store.ReadSnapshot(docPath)
		if err != nil {
			t.Fatalf("Failed to read snapshot: %v", err)
		}
		entries, err := snap.Entries()
		if err != nil {
			t.Fatalf("Failed to flatten snapshot: %v", err)
		}

		db, err := store.NewSQLiteStore(dbPath, nil)
		if err != nil {
			t.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer db.Close()

		if err := db.Put(ctx, entries...); err != nil {
			t.Fatalf("Failed to import: %v", err)
		}
		last, err := db.LastFloor(ctx)
		if err != nil || last != 3 {
			t.Fatalf("Expected last floor 3, got %d (%v)", last, err)
		}
	})

	// Test 3: Render floors, edit a nested key and save it back
	t.Run("RenderEditSave", func(t *testing.T) {
		db, err := store.NewSQLiteStore(dbPath, nil)
		if err != nil {
			t.Fatalf("Failed to open sqlite store: %v", err)
		}
		defer db.Close()

		surface := &captureSurface{}
		p := floor.New(surface, floor.WithStore(db))
		min, max := floor.DefaultRange(3, 4)
		if res := p.Render(ctx, min, max); res.Cancelled || res.Err != nil {
			t.Fatalf("Render failed: %+v", res)
		}
		if surface.view == nil || len(surface.view.Panels) != 2 {
			t.Fatalf("Expected two floor panels, got %+v", surface.view)
		}

		top := surface.view.Panels[0]
		if top.Floor != 3 || !top.Expanded || len(top.Cards) != 1 {
			t.Fatalf("Unexpected newest panel: %+v", top)
		}
		tree := surface.view.Cards
		party, _ := tree.Node(top.Cards[0])

		child, err := tree.AddChild(party.ID(), models.TypeBoolean)
		if err != nil {
			t.Fatalf("Failed to add key: %v", err)
		}
		if err := tree.SetBool(child.ID(), true); err != nil {
			t.Fatalf("Failed to set boolean: %v", err)
		}

		var saved []card.NodeID
		tree.OnChange(func(n *card.Node) { saved = append(saved, n.ID()) })
		if err := tree.Commit(child.ID()); err != nil {
			t.Fatalf("Failed to commit: %v", err)
		}
		if len(saved) != 1 || saved[0] != party.ID() {
			t.Fatalf("Expected the top-level card to change, got %v", saved)
		}

		item, err := tree.Item(party.ID())
		if err != nil {
			t.Fatalf("Failed to extract: %v", err)
		}
		if err := db.Put(ctx, store.Entry{Scope: models.ScopeMessage, Floor: top.Floor, Name: item.Name, Value: item.Value}); err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		vars, err := db.FloorVariables(ctx, 3)
		if err != nil {
			t.Fatalf("Failed to read floor: %v", err)
		}
		partyVars, ok := vars["party"].(map[string]any)
		if !ok || partyVars["flag1"] != true || partyVars["lead"] != "ann" {
			t.Errorf("Unexpected saved value: %#v", vars["party"])
		}
	})
}
