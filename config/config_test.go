package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
classpath = ["lib/**/*.jar", "/opt/classes"]
sources = ["src/**/*.java"]
verbosity = 2
jobs = 3
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Verbosity)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, []string{filepath.Join(dir, "lib/**/*.jar"), "/opt/classes"}, cfg.ClasspathPatterns())
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.java"}, cfg.Sources)
	assert.Positive(t, cfg.Jobs)
}

func TestLoadRejectsInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("classpath = ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"src/a/A.java", "src/a/b/B.java", "src/notes.txt"} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}
	cfg := Default()
	cfg.Dir = dir
	cfg.Sources = []string{"src/**/*.java", "src/a/*.java"}

	files, err := cfg.SourceFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "src", "a", "A.java"),
		filepath.Join(dir, "src", "a", "b", "B.java"),
	}, files)
}
