package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dhamidi/javasem/classfile/classfiletest"
	"github.com/dhamidi/javasem/classpath"
	"github.com/dhamidi/javasem/semantic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func jdk() *classpath.Cache {
	p := &classpath.Path{}
	p.Add(classpath.Memory(classfiletest.JDK()))
	return classpath.NewCache(p)
}

func writeSources(t *testing.T, files map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, src := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
		paths = append(paths, path)
	}
	return paths
}

func TestRunKeepsGoingPastBrokenFiles(t *testing.T) {
	paths := writeSources(t, map[string]string{
		"Good.java":  `class Good { int n() { return "x".length(); } }`,
		"Cycle.java": `class A extends B {} class B extends A {}`,
		"Miss.java":  `class Miss { Missing m; }`,
	})
	paths = append(paths, filepath.Join(t.TempDir(), "Gone.java"))

	cache := jdk()
	reports, err := NewRunner(cache, 2).Run(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, reports, len(paths))

	byName := map[string]Report{}
	for i, r := range reports {
		assert.Equal(t, paths[i], r.File)
		byName[filepath.Base(r.File)] = r
	}

	good := byName["Good.java"]
	require.NoError(t, good.Err)
	require.NotNil(t, good.Model)
	assert.Empty(t, good.Unresolved)

	var cycle *semantic.CycleError
	assert.ErrorAs(t, byName["Cycle.java"].Err, &cycle)
	assert.Nil(t, byName["Cycle.java"].Model)

	assert.Len(t, byName["Miss.java"].Unresolved, 1)
	assert.ErrorIs(t, byName["Gone.java"].Err, os.ErrNotExist)

	assert.Equal(t, 1, Unresolved(reports))
	assert.Positive(t, cache.Loads())
}

func TestRunSharesDecodedClasses(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"A", "B", "C", "D"} {
		files[name+".java"] = "class " + name + " { void m() { System.out.println(\"" + name + "\"); } }"
	}
	paths := writeSources(t, files)

	cache := jdk()
	runner := NewRunner(cache, 4)
	_, err := runner.Run(context.Background(), paths[:1])
	require.NoError(t, err)
	loads := cache.Loads()

	reports, err := runner.Run(context.Background(), paths)
	require.NoError(t, err)
	for _, r := range reports {
		require.NoError(t, r.Err)
		assert.Empty(t, r.Unresolved, r.File)
	}
	assert.Equal(t, loads, cache.Loads())
}

func TestRunStopsOnCancel(t *testing.T) {
	paths := writeSources(t, map[string]string{"A.java": "class A {}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(jdk(), 1).Run(ctx, paths)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeSource(t *testing.T) {
	rep := NewRunner(jdk(), 0).AnalyzeSource("Inline.java", []byte(`
import java.util.List;
class Inline { int first(List<String> xs) { return xs.get(0).length(); } }
`))
	require.NoError(t, rep.Err)
	require.NotNil(t, rep.Model)
	assert.Empty(t, rep.Unresolved)
	assert.Len(t, rep.Model.Classes(), 1)
}
