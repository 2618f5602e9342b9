package semantic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/tree"
)

func TestModelAt(t *testing.T) {
	src := `
class A {
    String greeting = "hi";
    int size() { return greeting.length(); }
}
`
	f := analyze(t, src)

	n, sym, typ := f.model.At(strings.Index(src, "greeting.length") + 2)
	require.NotNil(t, n)
	require.NotNil(t, sym)
	assert.Equal(t, "greeting", sym.Name())
	assert.Equal(t, "java.lang.String", typ.String())

	_, sym, typ = f.model.At(strings.Index(src, "length()") + len("length"))
	m, ok := sym.(*MethodSymbol)
	require.True(t, ok)
	assert.Equal(t, "length()", m.Signature())
	assert.Equal(t, "int", typ.String())
}

func TestDeclarationsAndUsages(t *testing.T) {
	f := analyze(t, `
class Counter {
    private int n;
    void inc() { n++; n += 2; }
    int get() { return n; }
}
`)
	field := find(t, f.model.Unit(), func(v *tree.VariableDecl) bool { return v.Name != nil && v.Name.Name == "n" })
	sym := f.model.DeclaredSymbol(field)
	require.NotNil(t, sym)
	assert.Equal(t, KindVariable, sym.Kind())
	assert.Equal(t, "Counter", sym.Owner().Name())
	assert.Len(t, sym.Usages(), 3)

	counter := f.class("Counter")
	assert.Same(t, counter, f.model.DeclaredSymbol(counter.Decl()))
	require.NotNil(t, f.model.EnvOf(counter.Decl()))
	assert.NotNil(t, f.model.SymbolEnv(sym))

	get := f.model.DeclaredSymbol(f.method("get")).(*MethodSymbol)
	assert.Equal(t, "int", get.ReturnType().String())
}

func TestNestedAndLocalClasses(t *testing.T) {
	f := analyze(t, `
package p;

class Outer {
    static class Nested { int v; }
    interface Shape { double area(); }
    void m() {
        class Local implements Shape {
            public double area() { return 1.0; }
        }
        new Local().area();
        new Nested().v++;
    }
}
`)
	nested := f.class("Nested")
	assert.Equal(t, "p.Outer.Nested", nested.FullName())
	assert.Equal(t, "p.Outer$Nested", nested.FlatName())
	assert.True(t, nested.Flags().Has(Static))

	shape := f.class("Shape")
	assert.True(t, shape.Flags().Has(Static))
	area := shape.Members().LookupLocal("area")
	require.Len(t, area, 1)
	assert.Equal(t, Public|Abstract, area[0].Flags()&(Public|Abstract))

	assert.Equal(t, "double", f.typeOf("new Local().area()"))
	assert.Equal(t, "int", f.typeOf("new Nested().v++"))
	assert.Empty(t, f.model.Unresolved())
}

func TestInterfaceMemberModifiers(t *testing.T) {
	f := analyze(t, `
interface I {
    int LIMIT = 3;
    void run();
    default int twice() { return LIMIT * 2; }
    static I create() { return null; }
    private void helper() {}
}
`)
	members := f.class("I").Members()
	flag := func(name string) Flags {
		syms := members.LookupLocal(name)
		require.Len(t, syms, 1, name)
		return syms[0].Flags()
	}
	assert.Equal(t, Public|Static|Final, flag("LIMIT")&(Public|Static|Final))
	assert.Equal(t, Public|Abstract, flag("run")&(Public|Abstract))
	assert.Equal(t, Public|Default, flag("twice")&(Public|Default))
	assert.False(t, flag("twice").Has(Abstract))
	assert.Equal(t, Public|Static, flag("create")&(Public|Static))
	assert.True(t, flag("helper").Has(Private))
	assert.False(t, flag("helper").Has(Public))
}

// bindings renders every typed expression with its symbol.
func bindings(m *Model) []string {
	var out []string
	tree.Inspect(m.Unit(), func(n tree.Tree) bool {
		e, ok := n.(tree.Expression)
		if !ok {
			return true
		}
		line := fmt.Sprintf("%d %s %s", n.Range().Start.Offset, n.Kind(), m.TypeOf(e))
		if sym := m.SymbolOf(e); sym != nil {
			line += " " + sym.Name()
		}
		out = append(out, line)
		return true
	})
	return out
}

func TestAnalysisIsDeterministic(t *testing.T) {
	src := `
import java.util.*;

class A {
    Map<String, List<Integer>> index;
    int count(String key) {
        List<Integer> xs = index.get(key);
        return xs == null ? 0 : xs.size() + missing;
    }
}
`
	first, second := analyze(t, src), analyze(t, src)
	assert.Equal(t, bindings(first.model), bindings(second.model))
	assert.NotEmpty(t, bindings(first.model))
}
