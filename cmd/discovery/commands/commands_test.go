package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:")

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"goVersion"`)
}

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "logger:\n  output: stderr\ndata:\n  database:\n    driver: sqlite\n    source: "+filepath.Join(dir, "listings.db")+"\n")

	out, err := run(t, "migrate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")
}

func TestReindexArgs(t *testing.T) {
	_, err := run(t, "reindex")
	assert.ErrorContains(t, err, "not both")

	_, err = run(t, "reindex", "--all", "listing-1")
	assert.ErrorContains(t, err, "not both")
}

func TestReindexRequiresSearchEngine(t *testing.T) {
	path := writeConfig(t, "logger:\n  output: stderr\ndata:\n  database:\n    driver: sqlite\n    source: \"file::memory:\"\n")

	_, err := run(t, "reindex", "--all", "--config", path)
	assert.ErrorContains(t, err, "requires a database and a search engine")
}
