package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxlang/flux/internal/config"
)

func TestParseProjectRequiresEntry(t *testing.T) {
	_, err := config.ParseProject([]byte("import_path: [lib]\n"), "flux.yaml")
	require.Error(t, err)
}

func TestParseProjectRoundTrip(t *testing.T) {
	p, err := config.ParseProject([]byte("entry: main.flux\nimport_path:\n  - lib\n  - vendor\n"), "flux.yaml")
	require.NoError(t, err)
	assert.Equal(t, "main.flux", p.Entry)
	assert.Equal(t, []string{"lib", "vendor"}, p.ImportPath)
}

func TestLoadProjectMissingFileIsNotAnError(t *testing.T) {
	p, err := config.LoadProject(filepath.Join(t.TempDir(), "flux.yaml"))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLoadProjectReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flux.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entry: main.flux\n"), 0o644))

	p, err := config.LoadProject(path)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "main.flux", p.Entry)
}
