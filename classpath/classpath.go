// Package classpath locates compiled classes in an ordered list of
// directories and archives.
package classpath

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/javasem/classfile"
)

var log = commonlog.GetLogger("javasem.classpath")

// ErrNotFound is returned when no entry provides the requested class.
var ErrNotFound = errors.New("class not found")

// Entry is one classpath element. Names are class file paths such as
// java/lang/String.class.
type Entry interface {
	Open(name string) (io.ReadCloser, error)
	Close() error
	String() string
}

// Path is an ordered classpath; the first entry providing a class wins.
type Path struct {
	entries []Entry
}

// New builds a classpath from directories, .jar/.zip archives and glob
// patterns (lib/**/*.jar).
func New(specs ...string) (*Path, error) {
	paths, err := Expand(specs)
	if err != nil {
		return nil, err
	}
	p := &Path{}
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("classpath entry %s: %w", path, err)
		}
		if info.IsDir() {
			p.Add(Dir(path))
			continue
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".jar", ".zip":
			p.Add(Jar(path))
		default:
			return nil, fmt.Errorf("classpath entry %s: not a directory or archive", path)
		}
	}
	return p, nil
}

// Expand resolves glob patterns to existing paths, keeping the pattern
// order. A plain path is kept as is even when it matches nothing, so a
// missing entry is reported by the caller.
func Expand(patterns []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				out = append(out, pattern)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func (p *Path) Add(e Entry) {
	p.entries = append(p.entries, e)
}

func (p *Path) Entries() []Entry {
	return p.entries
}

// Open returns the bytes stream of the named class file from the first
// entry that has it.
func (p *Path) Open(name string) (io.ReadCloser, error) {
	for _, e := range p.entries {
		rc, err := e.Open(name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, ErrNotFound) {
			log.Warningf("classpath entry %s: %s", e, err)
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// FindClass decodes the class with the given internal name
// (java/util/Map$Entry).
func (p *Path) FindClass(internalName string) (*classfile.ClassFile, error) {
	rc, err := p.Open(internalName + ".class")
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	cf, err := classfile.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", internalName, err)
	}
	return cf, nil
}

// Close releases every archive opened so far.
func (p *Path) Close() error {
	var errs []error
	for _, e := range p.entries {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Path) String() string {
	parts := make([]string, len(p.entries))
	for i, e := range p.entries {
		parts[i] = e.String()
	}
	return strings.Join(parts, string(os.PathListSeparator))
}

type dirEntry string

// Dir is a directory entry; class files live at their package path.
func Dir(path string) Entry { return dirEntry(path) }

func (d dirEntry) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (d dirEntry) Close() error   { return nil }
func (d dirEntry) String() string { return string(d) }

// jarEntry opens its archive on first use and keeps it open until Close.
type jarEntry struct {
	path  string
	mu    sync.Mutex
	zr    *zip.ReadCloser
	files map[string]*zip.File
	err   error
}

func Jar(path string) Entry { return &jarEntry{path: path} }

func (j *jarEntry) index() (map[string]*zip.File, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.files != nil || j.err != nil {
		return j.files, j.err
	}
	zr, err := zip.OpenReader(j.path)
	if err != nil {
		j.err = fmt.Errorf("open archive: %w", err)
		return nil, j.err
	}
	j.zr = zr
	j.files = make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			j.files[f.Name] = f
		}
	}
	log.Debugf("indexed %s (%d entries)", j.path, len(j.files))
	return j.files, nil
}

func (j *jarEntry) Open(name string) (io.ReadCloser, error) {
	files, err := j.index()
	if err != nil {
		return nil, err
	}
	f, ok := files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return f.Open()
}

func (j *jarEntry) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.zr == nil {
		return nil
	}
	err := j.zr.Close()
	j.zr, j.files = nil, nil
	return err
}

func (j *jarEntry) String() string { return j.path }

type memoryEntry map[string][]byte

// Memory serves class files from a map keyed by class file path.
func Memory(files map[string][]byte) Entry { return memoryEntry(files) }

func (m memoryEntry) Open(name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m memoryEntry) Close() error   { return nil }
func (m memoryEntry) String() string { return "<memory>" }
