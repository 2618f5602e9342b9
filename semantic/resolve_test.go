package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/classfile"
	"github.com/dhamidi/javasem/classfile/classfiletest"
)

func TestLocalShadowsField(t *testing.T) {
	f := analyze(t, `
class A {
    int x;
    void m() {
        String x = "";
        x.length();
    }
}
`)
	x, ok := f.model.Reference(f.exprAfter("x.length", "x")).(*VariableSymbol)
	require.True(t, ok)
	assert.Equal(t, "java.lang.String", x.Type().String())
	assert.IsType(t, &MethodSymbol{}, x.Owner())
	assert.Equal(t, "int", f.typeOf("x.length()"))
}

func TestVariableBeforeType(t *testing.T) {
	f := analyze(t, `
class A {
    String String = "";
    void m() {
        String.length();
    }
}
`)
	sym := f.model.Reference(f.exprAfter("String.length", "String"))
	assert.Equal(t, KindVariable, sym.Kind())
	assert.Equal(t, "int", f.typeOf("String.length()"))

	env := f.model.EnvOf(f.method("m"))
	require.NotNil(t, env)
	res := f.ss.Resolve().FindIdent(env, "String", MaskType)
	require.True(t, res.Resolved())
	assert.Equal(t, KindType, res.Symbol.Kind())
}

func TestInheritedAndOuterFields(t *testing.T) {
	f := analyze(t, `
class Base { protected int count; }
class Outer {
    String name;
    class Inner extends Base {
        void m() {
            name.length();
            count++;
        }
    }
}
`)
	name := f.model.Reference(f.exprAfter("name.length", "name"))
	require.NotNil(t, name)
	assert.Equal(t, "Outer", name.Owner().Name())

	count := f.model.Reference(f.expr("count"))
	require.NotNil(t, count)
	assert.Equal(t, "Base", count.Owner().Name())
	assert.Equal(t, "int", f.typeOf("count++"))
}

func TestImports(t *testing.T) {
	f := analyze(t, `
import java.util.List;
import java.util.*;
import static java.lang.Math.max;
import static java.lang.Math.*;

class A {
    List<String> list;
    Map<String, Integer> map;
    void m() {
        int a = max(1, 2);
        int b = abs(-1);
        double pi = PI;
        Map.Entry<String, Integer> e = null;
        e.getKey();
    }
}
`)
	assert.Equal(t, "int", f.typeOf("max(1, 2)"))
	assert.Equal(t, "int", f.typeOf("abs(-1)"))
	assert.Equal(t, "double", f.typeOf("PI"))
	assert.Equal(t, "java.lang.String", f.typeOf("e.getKey()"))

	list := f.class("A").Members().LookupLocal("list")
	require.Len(t, list, 1)
	assert.Equal(t, "java.util.List<java.lang.String>", list[0].Type().String())
	assert.Empty(t, f.model.Unresolved())
}

func publicClass(name string, fields ...classfiletest.Member) *classfiletest.Class {
	return &classfiletest.Class{
		Name:   name,
		Super:  "java/lang/Object",
		Flags:  classfile.AccPublic | classfile.AccSuper,
		Fields: fields,
		Methods: []classfiletest.Member{
			{Flags: classfile.AccPublic, Name: "<init>", Descriptor: "()V", Body: true},
		},
	}
}

func TestNamedImportBeatsSamePackage(t *testing.T) {
	classes := []*classfiletest.Class{publicClass("p/Foo"), publicClass("q/Foo"), publicClass("p/Bar")}
	fieldType := func(f *fixture, name string) string {
		syms := f.class("A").Members().LookupLocal(name)
		require.Len(t, syms, 1)
		return syms[0].Type().String()
	}

	// The qualified use loads p.Foo before the simple name is resolved.
	f := analyze(t, `
package p;

import q.Foo;

class A {
    p.Foo a;
    Foo b;
    Bar c;
}
`, classes...)
	assert.Equal(t, "p.Foo", fieldType(f, "a"))
	assert.Equal(t, "q.Foo", fieldType(f, "b"))
	assert.Equal(t, "p.Bar", fieldType(f, "c"))

	f = analyze(t, `
package p;

import q.Foo;

class A {
    Foo b;
    p.Foo a;
}
`, classes...)
	assert.Equal(t, "q.Foo", fieldType(f, "b"))
	assert.Equal(t, "p.Foo", fieldType(f, "a"))
}

func TestUnitClassesBeatStarImports(t *testing.T) {
	f := analyze(t, `
package p;

import q.*;

class A {
    Foo local;
}

class Foo {}
`, publicClass("q/Foo"))
	syms := f.class("A").Members().LookupLocal("local")
	require.Len(t, syms, 1)
	assert.Same(t, f.class("Foo"), syms[0].Type().Symbol())
}

func TestShadowingAcrossLocalInheritedAndStaticImport(t *testing.T) {
	consts := publicClass("lib/Consts", classfiletest.Member{
		Flags: classfile.AccPublic | classfile.AccStatic | classfile.AccFinal, Name: "x", Descriptor: "J",
	})
	f := analyze(t, `
import static lib.Consts.x;

class Base {
    String x = "";
}

class A extends Base {
    int m() {
        int x = 1;
        return x * 2;
    }
    int n() {
        return x.length();
    }
}

class B {
    long k() {
        return x - 1;
    }
}
`, consts)
	local := f.model.Reference(f.exprAfter("x * 2", "x"))
	require.NotNil(t, local)
	assert.Equal(t, "m", local.Owner().Name())
	assert.Equal(t, "int", local.Type().String())

	inherited := f.model.Reference(f.exprAfter("x.length", "x"))
	require.NotNil(t, inherited)
	assert.Equal(t, "Base", inherited.Owner().Name())
	assert.Equal(t, "int", f.typeOf("x.length()"))

	imported := f.model.Reference(f.exprAfter("x - 1", "x"))
	require.NotNil(t, imported)
	assert.Equal(t, "Consts", imported.Owner().Name())
	assert.Equal(t, "long", f.typeOf("x - 1"))
	assert.Empty(t, f.model.Unresolved())
}

func TestOverloadMostSpecific(t *testing.T) {
	f := analyze(t, `
class A {
    void m() {
        System.out.println('c');
        System.out.println(1L);
        System.out.println("s");
        System.out.println(new Object());
        System.out.println(new StringBuilderLike());
    }
}
class StringBuilderLike {}
`)
	sig := func(text string) string {
		m, ok := f.symbolOf(text).(*MethodSymbol)
		require.True(t, ok, text)
		return m.Signature()
	}
	assert.Equal(t, "println(char)", sig("System.out.println('c')"))
	assert.Equal(t, "println(long)", sig("System.out.println(1L)"))
	assert.Equal(t, "println(java.lang.String)", sig(`System.out.println("s")`))
	assert.Equal(t, "println(java.lang.Object)", sig("System.out.println(new Object())"))
	assert.Equal(t, "println(java.lang.Object)", sig("System.out.println(new StringBuilderLike())"))
}

func TestStrictPhaseBeatsBoxing(t *testing.T) {
	f := analyze(t, `
class A {
    void f(long x) {}
    void f(Integer x) {}
    void g(Object o) {}
    void m() {
        f(1);
        g(1);
    }
}
`)
	m, ok := f.symbolOf("f(1)").(*MethodSymbol)
	require.True(t, ok)
	assert.Equal(t, "f(long)", m.Signature())

	g, ok := f.symbolOf("g(1)").(*MethodSymbol)
	require.True(t, ok)
	assert.Equal(t, "g(java.lang.Object)", g.Signature())
}

func TestVarargs(t *testing.T) {
	f := analyze(t, `
class A {
    void h(String a) {}
    void h(String... a) {}
    void k(int... xs) {}
    void m() {
        String s = String.format("%d %d", 1, 2);
        String j = String.join(",", "a", "b");
        h("x");
        h("x", "y");
        k();
        k(new int[0]);
    }
}
`)
	assert.Equal(t, "java.lang.String", f.typeOf(`String.format("%d %d", 1, 2)`))
	assert.Equal(t, "java.lang.String", f.typeOf(`String.join(",", "a", "b")`))

	one := f.symbolOf(`h("x")`).(*MethodSymbol)
	assert.False(t, one.IsVarargs())
	two := f.symbolOf(`h("x", "y")`).(*MethodSymbol)
	assert.True(t, two.IsVarargs())
	assert.Equal(t, "h(java.lang.String[])", two.Signature())

	assert.NotNil(t, f.symbolOf("k()"))
	assert.NotNil(t, f.symbolOf("k(new int[0])"))
	assert.Empty(t, f.model.Unresolved())
}

func TestVarargsArity(t *testing.T) {
	f := analyze(t, `
class A {
    void f(String a, String... rest) {}
    void g(String... xs) {}
    void m(String[] arr) {
        g();
        g("a");
        g("a", "b", "c");
        g(arr);
        f("a");
        f("a", "b");
        f("a", arr);
        f();
    }
}
`)
	for _, call := range []string{`g()`, `g("a")`, `g("a", "b", "c")`, `g(arr)`, `f("a")`, `f("a", "b")`, `f("a", arr)`} {
		m, ok := f.symbolOf(call).(*MethodSymbol)
		require.True(t, ok, call)
		assert.True(t, m.IsVarargs(), call)
	}

	require.Len(t, f.model.Unresolved(), 1)
	u := f.model.Unresolved()[0]
	assert.Equal(t, "f", u.Name)
	assert.Equal(t, NotFound, u.Outcome)
}

func TestAmbiguousCall(t *testing.T) {
	f := analyze(t, `
class A {
    void k(Integer a, long b) {}
    void k(long a, Integer b) {}
    void m() {
        k(1, 1);
    }
}
`)
	u, ok := f.unresolved("k")
	require.True(t, ok)
	assert.Equal(t, Ambiguous, u.Outcome)
	assert.Equal(t, "void", f.typeOf("k(1, 1)"))
}

func TestAccessErrors(t *testing.T) {
	f := analyze(t, `
class A {
    void m() {
        int n = "x".value.length;
        Object s = new System();
    }
}
`)
	u, ok := f.unresolved("value")
	require.True(t, ok)
	assert.Equal(t, AccessError, u.Outcome)

	u, ok = f.unresolved("System")
	require.True(t, ok)
	assert.Equal(t, AccessError, u.Outcome)
}

func TestPrivateAccessWithinOutermostClass(t *testing.T) {
	f := analyze(t, `
class Outer {
    private int secret;
    static class Nested {
        private int hidden;
        int peek(Outer o) { return o.secret; }
    }
    int look(Nested n) { return n.hidden; }
}
`)
	assert.Empty(t, f.model.Unresolved())
	assert.Equal(t, "int", f.typeOf("o.secret"))
	assert.Equal(t, "int", f.typeOf("n.hidden"))
}

func TestPackagePrivateAcrossPackages(t *testing.T) {
	lib := &classfiletest.Class{
		Name:  "lib/Thing",
		Super: "java/lang/Object",
		Flags: classfile.AccPublic | classfile.AccSuper,
		Fields: []classfiletest.Member{
			{Flags: 0, Name: "internal", Descriptor: "I"},
			{Flags: classfile.AccPublic, Name: "open", Descriptor: "I"},
		},
		Methods: []classfiletest.Member{
			{Flags: classfile.AccPublic, Name: "<init>", Descriptor: "()V", Body: true},
		},
	}
	f := analyze(t, `
package app;

import lib.Thing;

class A {
    void m(Thing t) {
        int a = t.open;
        int b = t.internal;
    }
}
`, lib)
	assert.Equal(t, "int", f.typeOf("t.open"))
	u, ok := f.unresolved("internal")
	require.True(t, ok)
	assert.Equal(t, AccessError, u.Outcome)
}

func TestInnerClassConstructors(t *testing.T) {
	f := analyze(t, `
class O {
    class I {
        I(int x) {}
    }
    void m() {
        I a = new I(1);
    }
    static void s(O o) {
        O.I b = o.new I(2);
    }
}
`)
	ctor, ok := f.symbolOf("new I(1)").(*MethodSymbol)
	require.True(t, ok)
	assert.True(t, ctor.IsConstructor())
	params := ctor.MethodType().Params
	require.Len(t, params, 2)
	assert.Equal(t, "O", params[0].String())

	assert.Equal(t, ctor, f.symbolOf("o.new I(2)"))
	assert.Equal(t, "O.I", f.typeOf("o.new I(2)"))
	assert.Empty(t, f.model.Unresolved())
}

func TestThisAndSuperCalls(t *testing.T) {
	f := analyze(t, `
class Base {
    Base(String s) {}
    String name() { return ""; }
}
class A extends Base {
    A() { this(1); }
    A(int x) { super("x"); }
    String name() { return super.name() + "!"; }
}
`)
	base := f.symbolOf(`super("x")`).(*MethodSymbol)
	assert.Equal(t, "Base", base.Owner().Name())
	self := f.symbolOf("this(1)").(*MethodSymbol)
	assert.Equal(t, "A", self.Owner().Name())
	assert.Equal(t, "java.lang.String", f.typeOf(`super.name() + "!"`))
}

func TestEnums(t *testing.T) {
	f := analyze(t, `
enum Color {
    RED, GREEN("g") { int extra() { return 1; } };
    Color() {}
    Color(String s) {}
}
class A {
    int m(Color c) {
        Color[] all = Color.values();
        Color g = Color.valueOf("GREEN");
        switch (c) {
        case RED:
            return Color.RED.ordinal();
        default:
            return c.name().length();
        }
    }
}
`)
	assert.Equal(t, "Color[]", f.typeOf("Color.values()"))
	assert.Equal(t, "Color", f.typeOf(`Color.valueOf("GREEN")`))
	assert.Equal(t, "int", f.typeOf("Color.RED.ordinal()"))
	assert.Equal(t, "int", f.typeOf("c.name().length()"))

	red := f.model.Reference(f.exprAfter("case ", "RED"))
	v, ok := red.(*VariableSymbol)
	require.True(t, ok)
	assert.True(t, v.IsEnumConstant())

	color := f.class("Color")
	assert.Equal(t, "java.lang.Enum<Color>", color.Superclass().String())
	assert.Empty(t, f.model.Unresolved())
}

func TestRecords(t *testing.T) {
	record := &classfiletest.Class{
		Name:  "java/lang/Record",
		Super: "java/lang/Object",
		Flags: classfile.AccPublic | classfile.AccAbstract | classfile.AccSuper,
		Methods: []classfiletest.Member{
			{Flags: classfile.AccProtected, Name: "<init>", Descriptor: "()V", Body: true},
		},
	}
	f := analyze(t, `
record P(int x, String y) {
    P {
        if (x < 0) throw new IllegalArgumentException();
    }
    String label() { return y + x; }
}
class A {
    int m() {
        P p = new P(1, "a");
        return p.x() + p.y().length();
    }
}
`, record)
	assert.Equal(t, "int", f.typeOf("p.x()"))
	assert.Equal(t, "java.lang.String", f.typeOf("p.y()"))
	assert.NotNil(t, f.symbolOf(`new P(1, "a")`))
	assert.Equal(t, "java.lang.String", f.typeOf("y + x"))
	assert.Empty(t, f.model.Unresolved())
}

func TestLabels(t *testing.T) {
	f := analyze(t, `
class A {
    void m() {
        outer:
        for (int i = 0; i < 3; i++) {
            for (;;) {
                break outer;
            }
        }
    }
}
`)
	l := f.model.Reference(f.exprAfter("break ", "outer"))
	require.NotNil(t, l)
	assert.Equal(t, KindLabel, l.Kind())
}

func TestCyclicInheritance(t *testing.T) {
	src := `
class A extends B {}
class B extends A {}
`
	unit := parseUnit(t, src)
	_, err := newSession().Analyze(unit)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Contains(t, err.Error(), "cyclic inheritance")
}

func TestUnresolvedReferences(t *testing.T) {
	f := analyze(t, `
import no.such.Thing;

class A {
    Missing field;
    void m() {
        undefined.call();
        int x = nothing;
        int y = missing().length();
    }
}
`)
	for _, name := range []string{"Thing", "Missing", "call", "nothing", "missing"} {
		u, ok := f.unresolved(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, NotFound, u.Outcome, name)
		}
	}
	_, cascaded := f.unresolved("length")
	assert.False(t, cascaded)
	assert.True(t, IsUnknown(f.model.TypeOf(f.expr("missing().length()"))))
}
