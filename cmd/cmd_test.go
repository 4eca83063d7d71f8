package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-variables/cmd/config"
	"github.com/mattsolo1/grove-variables/pkg/models"
	"github.com/mattsolo1/grove-variables/pkg/store"
)

func newTestApp(t *testing.T, driver string) *App {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vars.yaml")
	if driver == "sqlite" {
		path = filepath.Join(dir, "vars.db")
	}
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	return &App{
		Config: &config.Config{
			Store:    store.Config{Driver: driver, Path: path},
			LogLevel: logrus.WarnLevel,
			Window:   4,
			Types:    models.AllDataTypes(),
		},
		Logger: logrus.NewEntry(logger),
	}
}

func run(t *testing.T, c *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const document = `scopes:
  global:
    difficulty: hard
floors:
  "2":
    hp: 10
  "6":
    hp: 42
    alive: true
    bag: [sword, 3]
`

func TestImportThenRender(t *testing.T) {
	app := newTestApp(t, "sqlite")

	out, err := run(t, NewImportCmd(&app), writeFile(t, "doc.yaml", document))
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 5 variables into the sqlite store")

	out, err = run(t, NewRenderCmd(&app))
	require.NoError(t, err)
	assert.Contains(t, out, "▾ # 6")
	assert.Contains(t, out, "▸ # 2")
	assert.Contains(t, out, "(1 variables)")
	assert.Regexp(t, `alive\s+boolean\s+true`, out)
	assert.Contains(t, out, "- sword")
	assert.NotContains(t, out, "difficulty")

	out, err = run(t, NewRenderCmd(&app), "--min", "0", "--max", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "▾ # 2")
	assert.NotContains(t, out, "# 6")
}

func TestRenderFilters(t *testing.T) {
	app := newTestApp(t, "file")
	_, err := run(t, NewImportCmd(&app), writeFile(t, "doc.yaml", document))
	require.NoError(t, err)

	out, err := run(t, NewRenderCmd(&app), "--types", "number", "--all")
	require.NoError(t, err)
	assert.Regexp(t, `hp\s+number\s+42`, out)
	assert.Regexp(t, `hp\s+number\s+10`, out)
	assert.NotContains(t, out, "alive")

	out, err = run(t, NewRenderCmd(&app), "--where", "type == 'number' && value > 20")
	require.NoError(t, err)
	assert.Contains(t, out, "42")
	assert.NotContains(t, out, "# 2")

	out, err = run(t, NewRenderCmd(&app), "--keyword", "nothing-matches")
	require.NoError(t, err)
	assert.Contains(t, out, "No floor variables match the current filters")

	out, err = run(t, NewRenderCmd(&app), "--min", "x", "--max", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Set a valid floor range to filter by")

	_, err = run(t, NewRenderCmd(&app), "--where", "value >")
	assert.Error(t, err)

	_, err = run(t, NewRenderCmd(&app), "--types", "date")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	app := newTestApp(t, "file")
	path := writeFile(t, "settings.json", `{"zeta": 1, "alpha": {"on": true}}`)

	out, err := run(t, NewShowCmd(&app), path)
	require.NoError(t, err)
	assert.Regexp(t, `settings\s+object\s+\{2 keys\}`, out)
	assert.Regexp(t, `zeta\s+number\s+1`, out)
	assert.Regexp(t, `on\s+boolean\s+true`, out)

	out, err = run(t, NewShowCmd(&app), path, "--json", "--add", "string", "--add", "number")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"num1\": 0,\n  \"str1\": \"\",\n  \"zeta\": 1,\n  \"alpha\": {\n    \"on\": true\n  }\n}\n", out)
}

func TestShowRejectsNonObject(t *testing.T) {
	app := newTestApp(t, "file")

	_, err := run(t, NewShowCmd(&app), writeFile(t, "list.yaml", "- 1\n- 2\n"))
	assert.ErrorContains(t, err, "does not contain an object")

	_, err = run(t, NewShowCmd(&app), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, NewVersionCmd(), "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "dev"`)
}
