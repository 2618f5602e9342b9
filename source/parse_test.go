package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/javasem/tree"
)

func parse(t *testing.T, src string) *tree.CompilationUnit {
	t.Helper()
	unit, err := Parse("Test.java", []byte(src))
	require.NoError(t, err)
	return unit
}

func TestParseHeader(t *testing.T) {
	unit := parse(t, `
package com.example.app;

import java.util.List;
import java.util.*;
import static java.lang.Math.max;
import static java.lang.Math.*;

public class App {}
`)
	assert.Equal(t, "com.example.app", tree.QualifiedName(unit.Package))
	require.Len(t, unit.Imports, 4)

	assert.Equal(t, "java.util.List", tree.QualifiedName(unit.Imports[0].Name))
	assert.False(t, unit.Imports[0].Star)
	assert.True(t, unit.Imports[1].Star)
	assert.Equal(t, "java.util", tree.QualifiedName(unit.Imports[1].Name))
	assert.True(t, unit.Imports[2].Static)
	assert.True(t, unit.Imports[3].Static && unit.Imports[3].Star)

	require.Len(t, unit.Types, 1)
	assert.Equal(t, "App", unit.Types[0].Name.Name)
	assert.True(t, unit.Types[0].Modifiers.Has("public"))
}

func TestParseClassMembers(t *testing.T) {
	unit := parse(t, `
class Box<T extends Comparable<T>> extends Base implements Runnable, java.io.Serializable {
    private int a, b[] = {1};
    static { a = 1; }
    Box(T value) { super(); }
    @Deprecated
    public <R> R map(java.util.function.Function<? super T, ? extends R> f, String... rest) throws Exception { return null; }
    class Inner {}
}
`)
	box := unit.Types[0]
	assert.Equal(t, tree.KindClass, box.Kind())
	require.Len(t, box.TypeParams, 1)
	assert.Equal(t, "T", box.TypeParams[0].Name.Name)
	require.Len(t, box.TypeParams[0].Bounds, 1)
	assert.IsType(t, &tree.ParameterizedType{}, box.TypeParams[0].Bounds[0])
	assert.Equal(t, "Base", tree.QualifiedName(box.Extends))
	require.Len(t, box.Implements, 2)
	assert.Equal(t, "java.io.Serializable", tree.QualifiedName(box.Implements[1]))

	require.Len(t, box.Members, 6)
	a := box.Members[0].(*tree.VariableDecl)
	b := box.Members[1].(*tree.VariableDecl)
	assert.Equal(t, "a", a.Name.Name)
	assert.IsType(t, &tree.PrimitiveType{}, a.Type)
	assert.IsType(t, &tree.ArrayType{}, b.Type)
	assert.IsType(t, &tree.NewArray{}, b.Init)
	assert.True(t, box.Members[2].(*tree.Block).Static)

	ctor := box.Members[3].(*tree.MethodDecl)
	assert.True(t, ctor.IsConstructor())
	call := ctor.Body.Statements[0].(*tree.ExpressionStatement).Expr.(*tree.MethodInvocation)
	assert.Equal(t, "super", call.Target.(*tree.Identifier).Name)

	m := box.Members[4].(*tree.MethodDecl)
	assert.Equal(t, "map", m.Name.Name)
	assert.Len(t, m.Modifiers.Annotations, 1)
	require.Len(t, m.TypeParams, 1)
	require.Len(t, m.Params, 2)
	assert.True(t, m.Params[1].Varargs)
	assert.Equal(t, "String", tree.QualifiedName(m.Params[1].Type))
	fn := m.Params[0].Type.(*tree.ParameterizedType)
	require.Len(t, fn.Args, 2)
	assert.Equal(t, "super", fn.Args[0].(*tree.Wildcard).BoundKind)
	assert.Equal(t, "extends", fn.Args[1].(*tree.Wildcard).BoundKind)
	require.Len(t, m.Throws, 1)

	assert.Equal(t, tree.KindClass, box.Members[5].Kind())
}

func TestParseEnumAndRecord(t *testing.T) {
	unit := parse(t, `
enum Color { RED, GREEN("g") { void f() {} }; Color() {} Color(String s) {} }
record Point(int x, int y) { Point { } }
`)
	color := unit.Types[0]
	assert.Equal(t, tree.KindEnum, color.Kind())
	red := color.Members[0].(*tree.EnumConstant)
	green := color.Members[1].(*tree.EnumConstant)
	assert.Equal(t, "RED", red.Name.Name)
	assert.Len(t, green.Args, 1)
	assert.NotNil(t, green.Body)
	assert.Len(t, color.Members, 4)

	point := unit.Types[1]
	assert.Equal(t, tree.KindRecord, point.Kind())
	require.Len(t, point.RecordComponents, 2)
	compact := point.Members[0].(*tree.MethodDecl)
	require.Len(t, compact.Params, 2)
	assert.Equal(t, "y", compact.Params[1].Name.Name)
}

func TestParseStatementsAndExpressions(t *testing.T) {
	unit := parse(t, `
class S {
    void run(java.util.List<String> xs) {
        var n = 0;
        for (int i = 0, j = 1; i < 10; i++) { n += i; }
        for (String x : xs) { System.out.println(x.length()); }
        try (var r = open()) { } catch (IllegalStateException | IllegalArgumentException e) { } finally { }
        Object o = n > 0 ? "a" : new Object() {};
        if (o instanceof String s) { s.length(); }
        int[] arr = new int[3];
        Runnable r = () -> run(xs);
        java.util.function.Function<String, Integer> f = String::length;
        Class<?> k = String.class;
        outer: while (true) { break outer; }
        long l = 1L; double d = 2.0; float g = 1f; char c = 'c';
        this.run(null);
    }
}
`)
	body := unit.Types[0].Members[0].(*tree.MethodDecl).Body.Statements
	n := body[0].(*tree.VariableDecl)
	assert.Nil(t, n.Type, "var declares an inferred type")

	loop := body[1].(*tree.For)
	assert.Len(t, loop.Init, 2)
	assert.Len(t, loop.Update, 1)
	assert.Equal(t, "++", loop.Update[0].(*tree.ExpressionStatement).Expr.(*tree.Unary).Op)

	each := body[2].(*tree.ForEach)
	assert.Equal(t, "x", each.Var.Name.Name)

	try := body[3].(*tree.Try)
	require.Len(t, try.Resources, 1)
	require.Len(t, try.Catches, 1)
	assert.IsType(t, &tree.UnionType{}, try.Catches[0].Param.Type)
	assert.NotNil(t, try.Finally)

	o := body[4].(*tree.VariableDecl)
	cond := o.Init.(*tree.Conditional)
	assert.NotNil(t, cond.False.(*tree.NewClass).Body)

	inst := body[5].(*tree.If).Cond.(*tree.InstanceOf)
	assert.Equal(t, "s", inst.Binding.Name.Name)

	arr := body[6].(*tree.VariableDecl).Init.(*tree.NewArray)
	assert.Len(t, arr.Dims, 1)

	assert.IsType(t, &tree.Lambda{}, body[7].(*tree.VariableDecl).Init)
	ref := body[8].(*tree.VariableDecl).Init.(*tree.MethodReference)
	assert.Equal(t, "length", ref.Name.Name)

	class := body[9].(*tree.VariableDecl).Init.(*tree.MemberSelect)
	assert.Equal(t, "class", class.Name.Name)

	assert.IsType(t, &tree.Labeled{}, body[10])

	kinds := []tree.Kind{tree.KindLongLiteral, tree.KindDoubleLiteral, tree.KindFloatLiteral, tree.KindCharLiteral}
	for i, k := range kinds {
		assert.Equal(t, k, body[11+i].(*tree.VariableDecl).Init.Kind())
	}

	call := body[15].(*tree.ExpressionStatement).Expr.(*tree.MethodInvocation)
	sel := call.Target.(*tree.MemberSelect)
	assert.Equal(t, "this", sel.Expr.(*tree.Identifier).Name)
	assert.Equal(t, tree.KindNullLiteral, call.Args[0].Kind())
}

func TestParsePositions(t *testing.T) {
	src := "class A {\n  int x;\n}\n"
	unit := parse(t, src)
	x := unit.Types[0].Members[0].(*tree.VariableDecl)
	assert.Equal(t, 2, x.Name.Pos().Line)
	assert.Equal(t, 7, x.Name.Pos().Column)
	assert.Equal(t, "x", src[x.Name.Start.Offset:x.Name.End.Offset])
}

func TestParseToleratesErrors(t *testing.T) {
	unit, err := Parse("Broken.java", []byte("class A { void f() { int x = ; } }"))
	require.NoError(t, err)
	require.Len(t, unit.Types, 1)
}
