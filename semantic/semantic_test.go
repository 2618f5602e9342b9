package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dhamidi/javasem/classfile/classfiletest"
	"github.com/dhamidi/javasem/classpath"
	"github.com/dhamidi/javasem/source"
	"github.com/dhamidi/javasem/tree"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSession(classes ...*classfiletest.Class) *Session {
	p := &classpath.Path{}
	p.Add(classpath.Memory(classfiletest.With(classfiletest.JDK(), classes...)))
	return NewSession(classpath.NewCache(p))
}

type fixture struct {
	t     *testing.T
	src   string
	ss    *Session
	model *Model
}

func analyze(t *testing.T, src string, classes ...*classfiletest.Class) *fixture {
	t.Helper()
	unit, err := source.Parse("Test.java", []byte(src))
	require.NoError(t, err)
	ss := newSession(classes...)
	m, err := ss.Analyze(unit)
	require.NoError(t, err)
	return &fixture{t: t, src: src, ss: ss, model: m}
}

// expr returns the outermost expression spanning exactly the first
// occurrence of text.
func (f *fixture) expr(text string) tree.Expression {
	f.t.Helper()
	return f.exprAfter("", text)
}

// exprAfter is expr searching from the first occurrence of anchor.
func (f *fixture) exprAfter(anchor, text string) tree.Expression {
	f.t.Helper()
	from := strings.Index(f.src, anchor)
	require.GreaterOrEqual(f.t, from, 0, "anchor %q", anchor)
	i := strings.Index(f.src[from:], text)
	require.GreaterOrEqual(f.t, i, 0, "text %q", text)
	start, end := from+i, from+i+len(text)

	var out tree.Expression
	tree.Inspect(f.model.Unit(), func(n tree.Tree) bool {
		if out != nil {
			return false
		}
		r := n.Range()
		if e, ok := n.(tree.Expression); ok && r.Start.Offset == start && r.End.Offset == end {
			out = e
			return false
		}
		return r.Start.Offset <= start && end <= r.End.Offset
	})
	require.NotNil(f.t, out, "no expression spans %q", text)
	return out
}

func (f *fixture) typeOf(text string) string {
	f.t.Helper()
	return f.model.TypeOf(f.expr(text)).String()
}

func (f *fixture) symbolOf(text string) Symbol {
	f.t.Helper()
	return f.model.SymbolOf(f.expr(text))
}

func (f *fixture) class(name string) *TypeSymbol {
	f.t.Helper()
	for _, c := range f.model.Classes() {
		if c.Name() == name {
			return c
		}
	}
	f.t.Fatalf("no class %s", name)
	return nil
}

// find returns the first tree of type T accepted by pred.
func find[T tree.Tree](t *testing.T, root tree.Tree, pred func(T) bool) T {
	t.Helper()
	var (
		out   T
		found bool
	)
	tree.Inspect(root, func(n tree.Tree) bool {
		if found {
			return false
		}
		if v, ok := n.(T); ok && pred(v) {
			out, found = v, true
			return false
		}
		return true
	})
	require.True(t, found)
	return out
}

func (f *fixture) method(name string) *tree.MethodDecl {
	f.t.Helper()
	return find(f.t, f.model.Unit(), func(m *tree.MethodDecl) bool {
		return m.Name != nil && m.Name.Name == name
	})
}

func (f *fixture) unresolved(name string) (Unresolved, bool) {
	for _, u := range f.model.Unresolved() {
		if u.Name == name {
			return u, true
		}
	}
	return Unresolved{}, false
}

func parseUnit(t *testing.T, src string) *tree.CompilationUnit {
	t.Helper()
	unit, err := source.Parse("Test.java", []byte(src))
	require.NoError(t, err)
	return unit
}

func (c *typeCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ps := range c.entries {
		n += len(ps)
	}
	return n
}
