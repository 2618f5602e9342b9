package classpath

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dhamidi/javasem/classfile"
	"github.com/dhamidi/javasem/classfile/classfiletest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeDir(t *testing.T, files map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return dir
}

func writeJar(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestPathDirectoryAndJar(t *testing.T) {
	jdk := classfiletest.JDK()
	dir := writeDir(t, map[string][]byte{"java/lang/Object.class": jdk["java/lang/Object.class"]})
	libs := t.TempDir()
	writeJar(t, filepath.Join(libs, "rt", "rt.jar"), map[string][]byte{
		"java/lang/String.class": jdk["java/lang/String.class"],
		"java/lang/Object.class": (&classfiletest.Class{Name: "java/lang/Object", Flags: classfile.AccFinal}).Bytes(),
	})

	p, err := New(dir, filepath.Join(libs, "**", "*.jar"))
	require.NoError(t, err)
	defer p.Close()
	require.Len(t, p.Entries(), 2)

	t.Run("first entry wins", func(t *testing.T) {
		cf, err := p.FindClass("java/lang/Object")
		require.NoError(t, err)
		assert.True(t, cf.AccessFlags.IsPublic())
	})

	t.Run("archive", func(t *testing.T) {
		cf, err := p.FindClass("java/lang/String")
		require.NoError(t, err)
		assert.Equal(t, "java/lang/Object", cf.SuperName)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := p.FindClass("java/lang/Missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNewRejectsUnknownEntry(t *testing.T) {
	file := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err := New(file)
	assert.Error(t, err)

	_, err = New(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestExpandKeepsOrderAndDeduplicates(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a/x.jar", "b/y.jar"} {
		writeJar(t, filepath.Join(root, name), nil)
	}
	got, err := Expand([]string{
		filepath.Join(root, "classes"),
		filepath.Join(root, "**", "*.jar"),
		filepath.Join(root, "a", "x.jar"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "classes"),
		filepath.Join(root, "a", "x.jar"),
		filepath.Join(root, "b", "y.jar"),
	}, got)
}

type countingFinder struct {
	mu    sync.Mutex
	calls map[string]int
	inner Finder
}

func (f *countingFinder) FindClass(name string) (*classfile.ClassFile, error) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
	return f.inner.FindClass(name)
}

func TestCacheSharesDecodes(t *testing.T) {
	p := &Path{}
	p.Add(Memory(classfiletest.JDK()))
	finder := &countingFinder{calls: map[string]int{}, inner: p}
	cache := NewCache(finder)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cf, err := cache.FindClass("java/lang/String")
			assert.NoError(t, err)
			assert.Equal(t, "java/lang/String", cf.Name)
			_, err = cache.FindClass("does/not/Exist")
			assert.ErrorIs(t, err, ErrNotFound)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, finder.calls["java/lang/String"])
	assert.Equal(t, 1, finder.calls["does/not/Exist"])
	assert.Equal(t, int64(2), cache.Loads())
	assert.Equal(t, 2, cache.Len())
}
