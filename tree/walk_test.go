package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func span(start, end int) Span {
	return Span{Start: Position{Offset: start}, End: Position{Offset: end}}
}

func TestQualifiedName(t *testing.T) {
	name := &MemberSelect{
		Expr: &MemberSelect{Expr: &Identifier{Name: "java"}, Name: &Identifier{Name: "util"}},
		Name: &Identifier{Name: "List"},
	}
	assert.Equal(t, "java.util.List", QualifiedName(name))
	assert.Equal(t, "", QualifiedName(&Literal{LitKind: KindIntLiteral, Value: "1"}))
}

func TestInspectSkipsNilChildren(t *testing.T) {
	ifStmt := &If{
		Cond: &Identifier{Name: "ok"},
		Then: &Block{Statements: []Statement{&Return{}}},
	}
	var kinds []Kind
	Inspect(ifStmt, func(n Tree) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{KindIf, KindIdentifier, KindBlock, KindReturn}, kinds)
}

func TestPathFindsInnermost(t *testing.T) {
	x := &Identifier{Span: span(10, 11), Name: "x"}
	call := &MethodInvocation{
		Span:   span(4, 13),
		Target: &Identifier{Span: span(4, 9), Name: "print"},
		Args:   []Expression{x},
	}
	stmt := &ExpressionStatement{Span: span(4, 14), Expr: call}

	path := Path(stmt, 10)
	assert.Equal(t, []Tree{stmt, call, x}, path)
	assert.Empty(t, Path(stmt, 30))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MethodInvocation", KindMethodInvocation.String())
	assert.Equal(t, "Unknown", Kind(-1).String())
	assert.Equal(t, KindConstructor, (&MethodDecl{}).Kind())
}
