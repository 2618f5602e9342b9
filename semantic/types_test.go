package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/tree"
)

func TestGenericMembers(t *testing.T) {
	f := analyze(t, `
import java.util.*;

class A {
    void m(List<String> names, Map<String, List<Integer>> index, List raw) {
        names.get(0).length();
        index.get("k").get(0).intValue();
        Object o = raw.get(0);
        List<String> copy = new ArrayList<>();
        ArrayList<Integer> direct = new ArrayList<Integer>();
    }
}
`)
	assert.Equal(t, "java.lang.String", f.typeOf("names.get(0)"))
	assert.Equal(t, "java.util.List<java.lang.Integer>", f.typeOf(`index.get("k")`))
	assert.Equal(t, "java.lang.Integer", f.typeOf(`index.get("k").get(0)`))
	assert.Equal(t, "java.lang.Object", f.typeOf("raw.get(0)"))
	assert.Equal(t, "java.util.ArrayList<java.lang.String>", f.typeOf("new ArrayList<>()"))
	assert.Equal(t, "java.util.ArrayList<java.lang.Integer>", f.typeOf("new ArrayList<Integer>()"))
	assert.Empty(t, f.model.Unresolved())
}

func TestGenericMethodInference(t *testing.T) {
	f := analyze(t, `
import java.util.*;

class A {
    <T> T first(List<T> xs) { return xs.get(0); }
    void m(List<Long> longs) {
        Collections.singletonList("a").get(0).length();
        List<Integer> none = Collections.<Integer>emptyList();
        Object e = Collections.emptyList();
        first(longs).longValue();
    }
}
`)
	assert.Equal(t, "java.lang.String", f.typeOf(`Collections.singletonList("a").get(0)`))
	assert.Equal(t, "java.util.List<java.lang.Integer>", f.typeOf("Collections.<Integer>emptyList()"))
	assert.Equal(t, "java.util.List", f.typeOf("Collections.emptyList()"))
	assert.Equal(t, "java.lang.Long", f.typeOf("first(longs)"))
}

func TestLocalInference(t *testing.T) {
	f := analyze(t, `
import java.util.*;

class A {
    void m(List<String> names, int[] nums) {
        for (String s : names) { s.length(); }
        for (var s : names) { s.isEmpty(); }
        for (int n : nums) { n++; }
        var count = names.size();
        var copy = new ArrayList<String>();
        count++;
        copy.get(0);
    }
}
`)
	s := f.model.Reference(f.exprAfter("s.isEmpty", "s"))
	require.NotNil(t, s)
	assert.Equal(t, "java.lang.String", s.Type().String())
	assert.Equal(t, "int", f.typeOf("count++"))
	assert.Equal(t, "java.lang.String", f.typeOf("copy.get(0)"))
}

func TestConditionalTyping(t *testing.T) {
	f := analyze(t, `
class A {
    void m(boolean b, Integer boxed, String s) {
        Object a = b ? 1 : 2L;
        Object c = b ? null : 1;
        Object d = b ? boxed : 1;
        Object e = b ? s : boxed;
        Object h = b ? s : null;
    }
}
`)
	assert.Equal(t, "long", f.typeOf("b ? 1 : 2L"))
	assert.Equal(t, "java.lang.Integer", f.typeOf("b ? null : 1"))
	assert.Equal(t, "int", f.typeOf("b ? boxed : 1"))
	assert.Equal(t, "java.io.Serializable", f.typeOf("b ? s : boxed"))
	assert.Equal(t, "java.lang.String", f.typeOf("b ? s : null"))
}

func TestOperators(t *testing.T) {
	f := analyze(t, `
class A {
    void m(int i, long l, double d, byte b, String s, boolean z) {
        Object o1 = i + l;
        Object o2 = i * d;
        Object o3 = b + b;
        Object o4 = s + i;
        Object o5 = i < l;
        Object o6 = z && !z;
        Object o7 = i << l;
        Object o8 = -b;
        Object o9 = i += d;
        Object o10 = (long) i;
        Object o11 = s instanceof String str && str.isEmpty();
    }
}
`)
	assert.Equal(t, "long", f.typeOf("i + l"))
	assert.Equal(t, "double", f.typeOf("i * d"))
	assert.Equal(t, "int", f.typeOf("b + b"))
	assert.Equal(t, "java.lang.String", f.typeOf("s + i"))
	assert.Equal(t, "boolean", f.typeOf("i < l"))
	assert.Equal(t, "boolean", f.typeOf("z && !z"))
	assert.Equal(t, "int", f.typeOf("i << l"))
	assert.Equal(t, "int", f.typeOf("-b"))
	assert.Equal(t, "int", f.typeOf("i += d"))
	assert.Equal(t, "long", f.typeOf("(long) i"))
	assert.Equal(t, "boolean", f.typeOf("str.isEmpty()"))
}

func TestCompoundAssignment(t *testing.T) {
	f := analyze(t, `
class A {
    void m(int i, long l, String s, boolean z, char c) {
        s += i;
        z &= z;
        i <<= l;
        c += 1;
        l >>>= 2;
        z += 1;
    }
}
`)
	assert.Equal(t, "java.lang.String", f.typeOf("s += i"))
	assert.Equal(t, "boolean", f.typeOf("z &= z"))
	assert.Equal(t, "int", f.typeOf("i <<= l"))
	assert.Equal(t, "char", f.typeOf("c += 1"))
	assert.Equal(t, "long", f.typeOf("l >>>= 2"))
	assert.True(t, IsUnknown(f.model.TypeOf(f.expr("z += 1"))))
}

func TestSpecialMembers(t *testing.T) {
	f := analyze(t, `
class A {
    void m(int[] xs, String s) {
        int[] ys = xs.clone();
        int n = xs.length;
        Object c = s.getClass();
        Object k = String.class;
        Object p = int.class;
        Object self = this;
    }
}
`)
	assert.Equal(t, "int[]", f.typeOf("xs.clone()"))
	assert.Equal(t, "int", f.typeOf("xs.length"))
	assert.Equal(t, "java.lang.Class<? extends java.lang.String>", f.typeOf("s.getClass()"))
	assert.Equal(t, "java.lang.Class<java.lang.String>", f.typeOf("String.class"))
	assert.Equal(t, "java.lang.Class<java.lang.Integer>", f.typeOf("int.class"))
	assert.Equal(t, "A", f.typeOf("this"))
}

func TestLambdasAndAnonymousClasses(t *testing.T) {
	f := analyze(t, `
import java.util.*;

class A {
    void m() {
        Runnable r = () -> System.out.println("run");
        Comparator<String> c = (a, b) -> a.length() - b.length();
        Runnable anon = new Runnable() {
            public void run() { }
        };
        Comparator<String> ref = String::compareTo;
    }
}
`)
	assert.Equal(t, "java.lang.Runnable", f.typeOf(`() -> System.out.println("run")`))
	assert.Equal(t, "int", f.typeOf("a.length() - b.length()"))
	a := f.model.Reference(f.exprAfter("a.length()", "a"))
	require.NotNil(t, a)
	assert.Equal(t, "java.lang.String", a.Type().String())

	anon := f.model.TypeOf(f.expr("new Runnable() {\n            public void run() { }\n        }"))
	sym := anon.Symbol()
	require.NotNil(t, sym)
	assert.True(t, sym.IsAnonymous())
	assert.Equal(t, "java.lang.Object", sym.Superclass().String())
	require.Len(t, sym.Interfaces(), 1)
	assert.Equal(t, "java.lang.Runnable", sym.Interfaces()[0].String())

	assert.Equal(t, "java.util.Comparator<java.lang.String>", f.typeOf("String::compareTo"))
}

func TestLambdaParameterInference(t *testing.T) {
	f := analyze(t, `
import java.util.*;

class A {
    void m() {
        Comparator<? super String> w = (x, y) -> x.compareTo(y);
        Comparator<String> typed = (String p, String q) -> p.length();
        Object o = (u) -> u;
    }
}
`)
	x := f.model.Reference(f.exprAfter("x.compareTo", "x"))
	require.NotNil(t, x)
	assert.Equal(t, "java.lang.String", x.Type().String())
	assert.Equal(t, "int", f.typeOf("x.compareTo(y)"))
	assert.Equal(t, "int", f.typeOf("p.length()"))

	u := f.model.Reference(f.exprAfter("-> u", "u"))
	require.NotNil(t, u)
	assert.True(t, IsUnknown(u.Type()))
}

func TestSwitchExpressions(t *testing.T) {
	f := analyze(t, `
class A {
    int m(int k) {
        int a = switch (k) {
            case 1 -> 10;
            case 2 -> { yield 20; }
            default -> 30;
        };
        long b = switch (k) { case 1 -> 1; default -> 2L; };
        return a;
    }
}
`)
	assert.Equal(t, "int", f.model.TypeOf(find(t, f.model.Unit(), func(*tree.Switch) bool { return true })).String())
	assert.Equal(t, "long", f.typeOf("switch (k) { case 1 -> 1; default -> 2L; }"))
}

func TestEveryExpressionTyped(t *testing.T) {
	f := analyze(t, `
import java.util.*;

class A<T extends Comparable<T>> {
    T best;
    @Deprecated
    List<T> items = new ArrayList<>();

    T max(T a, T b) { return a.compareTo(b) >= 0 ? a : b; }

    void m(String[] args) {
        int total = 0;
        for (int i = 0; i < args.length; i++) {
            total += args[i].length();
        }
        try {
            if (total > 10) throw new IllegalStateException("big");
        } catch (IllegalStateException | IllegalArgumentException e) {
            e.getMessage();
        }
        Unknown u = undefined.field;
        Object o = items.isEmpty() ? null : items.get(0);
        System.out.println(Math.max(total, 1) + " " + o);
    }
}
`)
	tree.Inspect(f.model.Unit(), func(n tree.Tree) bool {
		if e, ok := n.(tree.Expression); ok {
			assert.True(t, f.model.HasType(e), "untyped %s at %d", n.Kind(), n.Range().Start.Offset)
		}
		return true
	})
	assert.Equal(t, "T", f.typeOf("a.compareTo(b) >= 0 ? a : b"))
}

func TestLeastUpperBound(t *testing.T) {
	ss := newSession()
	sy, types := ss.Symbols(), ss.Types()
	integer, long := sy.ClassType("java.lang.Integer"), sy.ClassType("java.lang.Long")
	str := sy.StringType()

	assert.Equal(t, "java.lang.Number", types.LUB([]Type{integer, long}).String())
	assert.Equal(t, "java.io.Serializable", types.LUB([]Type{str, integer}).String())
	assert.Equal(t, "java.lang.String", types.LUB([]Type{str, sy.Null}).String())

	list := ss.completer.ClassSymbol("java.util.List")
	a, b := ss.Parameterized(list, str), ss.Parameterized(list, integer)
	assert.Equal(t, "java.util.List<? extends java.io.Serializable>", types.LUB([]Type{a, b}).String())

	arrayList := ss.completer.ClassSymbol("java.util.ArrayList")
	assert.Equal(t, "java.util.List<java.lang.String>",
		types.LUB([]Type{ss.Parameterized(arrayList, str), a}).String())
}

func TestSubtyping(t *testing.T) {
	ss := newSession()
	sy, types := ss.Symbols(), ss.Types()
	str, obj := sy.StringType(), sy.ObjectType()
	list := ss.completer.ClassSymbol("java.util.List")
	arrayList := ss.completer.ClassSymbol("java.util.ArrayList")

	assert.True(t, types.IsSubtype(str, obj))
	assert.False(t, types.IsSubtype(obj, str))
	assert.True(t, types.IsSubtype(ss.Parameterized(arrayList, str), ss.Parameterized(list, str)))
	assert.False(t, types.IsSubtype(ss.Parameterized(list, str), ss.Parameterized(list, obj)))
	assert.True(t, types.IsSubtype(ss.Parameterized(list, str),
		ss.Parameterized(list, sy.Wildcard(Extends, obj))))
	assert.True(t, types.IsSubtype(sy.ArrayOf(str), sy.ArrayOf(obj)))
	assert.True(t, types.IsSubtype(sy.Primitive("int"), sy.Primitive("long")))
	assert.False(t, types.IsSubtype(sy.Primitive("long"), sy.Primitive("int")))
	assert.True(t, types.IsSubtype(sy.Null, str))

	sup := types.asSuper(ss.Parameterized(arrayList, str), list)
	require.NotNil(t, sup)
	assert.Equal(t, "java.util.List<java.lang.String>", sup.String())
}

func TestParameterizedTypesAreInterned(t *testing.T) {
	f := analyze(t, `
import java.util.List;

class A {
    List<String> a;
    List<String> b;
    List<Integer> c;
}
`)
	field := func(name string) Type {
		syms := f.class("A").Members().LookupLocal(name)
		require.Len(t, syms, 1)
		return syms[0].Type()
	}
	a, b, c := field("a"), field("b"), field("c")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	n := f.ss.cache.len()
	again := f.ss.cache.parameterized(a.Symbol(), []Type{f.ss.Symbols().StringType()})
	assert.Same(t, a, again)
	assert.Equal(t, n, f.ss.cache.len())
}

func TestIntersectionBoundMembers(t *testing.T) {
	f := analyze(t, `
class A<T extends Number & Comparable<T>> {
    int m(T a, T b) {
        return a.compareTo(b) + a.intValue();
    }
}
`)
	assert.Equal(t, "int", f.typeOf("a.compareTo(b)"))
	assert.Equal(t, "int", f.typeOf("a.intValue()"))
	assert.Equal(t, "java.lang.Comparable", f.symbolOf("a.compareTo(b)").Owner().(*TypeSymbol).FullName())
	assert.Empty(t, f.model.Unresolved())
}

func TestGreatestLowerBound(t *testing.T) {
	ss := newSession()
	sy, types := ss.Symbols(), ss.Types()
	number, integer := sy.ClassType("java.lang.Number"), sy.ClassType("java.lang.Integer")
	comparable := sy.ClassType("java.lang.Comparable")

	assert.Same(t, integer, types.GLB([]Type{number, integer}))
	assert.Same(t, integer, types.GLB([]Type{comparable, integer}))
	assert.Same(t, number, types.GLB([]Type{comparable, number}))
	assert.Same(t, sy.ObjectType(), types.GLB(nil))
}
