// Package tree defines the Java syntax tree consumed by the semantic
// passes. Nodes are plain structs; identity (the pointer) is what the
// semantic model keys on.
package tree

import "fmt"

// Position is a 1-based line and column plus a 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the source range of a node; End is exclusive.
type Span struct {
	Start Position
	End   Position
}

func (s Span) Range() Span { return s }

func (s Span) Pos() Position { return s.Start }

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

type Tree interface {
	Kind() Kind
	Range() Span
	Pos() Position
}

// Expression is any tree that denotes a value or a type.
type Expression interface {
	Tree
	expression()
}

type Statement interface {
	Tree
	statement()
}

type CompilationUnit struct {
	Span
	File    string
	Package Expression
	Imports []*Import
	Types   []*ClassDecl
}

type Import struct {
	Span
	Static bool
	// Name is the imported qualified name without the trailing .*
	Name Expression
	Star bool
}

type Modifiers struct {
	Keywords    []string
	Annotations []*Annotation
}

func (m *Modifiers) Has(keyword string) bool {
	if m == nil {
		return false
	}
	for _, k := range m.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

type Annotation struct {
	Span
	Type Expression
	// Args are the element values; name = value pairs are Assignments.
	Args []Expression
}

// ClassDecl declares a class, interface, enum, annotation type or record.
// Name is nil for anonymous class bodies.
type ClassDecl struct {
	Span
	DeclKind   Kind
	Modifiers  *Modifiers
	Name       *Identifier
	TypeParams []*TypeParameter
	Extends    Expression
	// Implements holds implemented interfaces, or the extended interfaces
	// of an interface declaration.
	Implements []Expression
	// RecordComponents are the header parameters of a record.
	RecordComponents []*VariableDecl
	Members          []Tree
}

type TypeParameter struct {
	Span
	Name   *Identifier
	Bounds []Expression
}

// MethodDecl declares a method; ReturnType is nil for constructors.
type MethodDecl struct {
	Span
	Modifiers    *Modifiers
	TypeParams   []*TypeParameter
	ReturnType   Expression
	Name         *Identifier
	Params       []*VariableDecl
	Throws       []Expression
	Body         *Block
	DefaultValue Expression
}

func (m *MethodDecl) IsConstructor() bool { return m.ReturnType == nil }

// VariableDecl declares a field, local, parameter or resource. Type is nil
// when the type is inferred (var, implicitly typed lambda parameters).
type VariableDecl struct {
	Span
	Modifiers *Modifiers
	Type      Expression
	Name      *Identifier
	Init      Expression
	Varargs   bool
}

type EnumConstant struct {
	Span
	Modifiers *Modifiers
	Name      *Identifier
	Args      []Expression
	Body      *ClassDecl
}

type Block struct {
	Span
	Static     bool
	Statements []Statement
}

type ExpressionStatement struct {
	Span
	Expr Expression
}

type If struct {
	Span
	Cond Expression
	Then Statement
	Else Statement
}

type While struct {
	Span
	Cond Expression
	Body Statement
}

type DoWhile struct {
	Span
	Body Statement
	Cond Expression
}

type For struct {
	Span
	Init   []Statement
	Cond   Expression
	Update []Statement
	Body   Statement
}

type ForEach struct {
	Span
	Var      *VariableDecl
	Iterable Expression
	Body     Statement
}

type Return struct {
	Span
	Expr Expression
}

type Throw struct {
	Span
	Expr Expression
}

type Break struct {
	Span
	Label *Identifier
}

type Continue struct {
	Span
	Label *Identifier
}

type Yield struct {
	Span
	Expr Expression
}

type Try struct {
	Span
	// Resources are VariableDecls or Expressions.
	Resources []Tree
	Body      *Block
	Catches   []*Catch
	Finally   *Block
}

type Catch struct {
	Span
	Param *VariableDecl
	Body  *Block
}

// Switch is both a statement and, in arrow or yield form, an expression.
type Switch struct {
	Span
	Selector Expression
	Cases    []*Case
}

type Case struct {
	Span
	Default bool
	Labels  []Expression
	Arrow   bool
	Body    []Statement
}

type Labeled struct {
	Span
	Label *Identifier
	Body  Statement
}

type Synchronized struct {
	Span
	Lock Expression
	Body *Block
}

type Assert struct {
	Span
	Cond   Expression
	Detail Expression
}

type Empty struct {
	Span
}

type Identifier struct {
	Span
	Name string
}

// MemberSelect is a qualified name or field access: Expr.Name. A class
// literal is a MemberSelect whose Name is "class".
type MemberSelect struct {
	Span
	Expr Expression
	Name *Identifier
}

// MethodInvocation calls Target, an Identifier or MemberSelect. Explicit
// constructor invocations use the identifiers this and super.
type MethodInvocation struct {
	Span
	Target   Expression
	TypeArgs []Expression
	Args     []Expression
}

type NewClass struct {
	Span
	Outer    Expression
	Type     Expression
	TypeArgs []Expression
	Args     []Expression
	Body     *ClassDecl
}

// NewArray is an array creation or a bare array initializer (ElemType nil).
type NewArray struct {
	Span
	ElemType  Expression
	Dims      []Expression
	ExtraDims int
	Init      []Expression
	HasInit   bool
}

type Literal struct {
	Span
	LitKind Kind
	Value   string
}

type Binary struct {
	Span
	Op    string
	Left  Expression
	Right Expression
}

// Unary covers prefix operators and ++/-- in both positions.
type Unary struct {
	Span
	Op      string
	Operand Expression
	Postfix bool
}

type Assignment struct {
	Span
	Op   string
	Var  Expression
	Expr Expression
}

type Conditional struct {
	Span
	Cond  Expression
	True  Expression
	False Expression
}

type InstanceOf struct {
	Span
	Expr    Expression
	Type    Expression
	Binding *VariableDecl
}

type Cast struct {
	Span
	Type Expression
	Expr Expression
}

type ArrayAccess struct {
	Span
	Array Expression
	Index Expression
}

type Parenthesized struct {
	Span
	Expr Expression
}

// Lambda has an Expression or *Block body.
type Lambda struct {
	Span
	Params []*VariableDecl
	Body   Tree
}

type MethodReference struct {
	Span
	Expr     Expression
	TypeArgs []Expression
	Name     *Identifier
}

// Erroneous stands for source the parser could not make sense of.
type Erroneous struct {
	Span
	Text string
}

type PrimitiveType struct {
	Span
	Name string
}

type ArrayType struct {
	Span
	Elem Expression
}

type ParameterizedType struct {
	Span
	Type Expression
	Args []Expression
}

// Wildcard is ?, ? extends Bound or ? super Bound.
type Wildcard struct {
	Span
	BoundKind string
	Bound     Expression
}

type UnionType struct {
	Span
	Alternatives []Expression
}

func (*CompilationUnit) Kind() Kind     { return KindCompilationUnit }
func (*Import) Kind() Kind              { return KindImport }
func (*Annotation) Kind() Kind          { return KindAnnotation }
func (c *ClassDecl) Kind() Kind         { return c.DeclKind }
func (*TypeParameter) Kind() Kind       { return KindTypeParameter }
func (*VariableDecl) Kind() Kind        { return KindVariable }
func (*EnumConstant) Kind() Kind        { return KindEnumConstant }
func (*Block) Kind() Kind               { return KindBlock }
func (*ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (*If) Kind() Kind                  { return KindIf }
func (*While) Kind() Kind               { return KindWhile }
func (*DoWhile) Kind() Kind             { return KindDoWhile }
func (*For) Kind() Kind                 { return KindFor }
func (*ForEach) Kind() Kind             { return KindForEach }
func (*Return) Kind() Kind              { return KindReturn }
func (*Throw) Kind() Kind               { return KindThrow }
func (*Break) Kind() Kind               { return KindBreak }
func (*Continue) Kind() Kind            { return KindContinue }
func (*Yield) Kind() Kind               { return KindYield }
func (*Try) Kind() Kind                 { return KindTry }
func (*Catch) Kind() Kind               { return KindCatch }
func (*Switch) Kind() Kind              { return KindSwitch }
func (*Case) Kind() Kind                { return KindCase }
func (*Labeled) Kind() Kind             { return KindLabeled }
func (*Synchronized) Kind() Kind        { return KindSynchronized }
func (*Assert) Kind() Kind              { return KindAssert }
func (*Empty) Kind() Kind               { return KindEmpty }
func (*Identifier) Kind() Kind          { return KindIdentifier }
func (*MemberSelect) Kind() Kind        { return KindMemberSelect }
func (*MethodInvocation) Kind() Kind    { return KindMethodInvocation }
func (*NewClass) Kind() Kind            { return KindNewClass }
func (*NewArray) Kind() Kind            { return KindNewArray }
func (l *Literal) Kind() Kind           { return l.LitKind }
func (*Binary) Kind() Kind              { return KindBinary }
func (*Unary) Kind() Kind               { return KindUnary }
func (*Assignment) Kind() Kind          { return KindAssignment }
func (*Conditional) Kind() Kind         { return KindConditional }
func (*InstanceOf) Kind() Kind          { return KindInstanceOf }
func (*Cast) Kind() Kind                { return KindCast }
func (*ArrayAccess) Kind() Kind         { return KindArrayAccess }
func (*Parenthesized) Kind() Kind       { return KindParenthesized }
func (*Lambda) Kind() Kind              { return KindLambda }
func (*MethodReference) Kind() Kind     { return KindMethodReference }
func (*Erroneous) Kind() Kind           { return KindErroneous }
func (*PrimitiveType) Kind() Kind       { return KindPrimitiveType }
func (*ArrayType) Kind() Kind           { return KindArrayType }
func (*ParameterizedType) Kind() Kind   { return KindParameterizedType }
func (*Wildcard) Kind() Kind            { return KindWildcard }
func (*UnionType) Kind() Kind           { return KindUnionType }

func (m *MethodDecl) Kind() Kind {
	if m.IsConstructor() {
		return KindConstructor
	}
	return KindMethod
}

func (*Annotation) expression()        {}
func (*Identifier) expression()        {}
func (*MemberSelect) expression()      {}
func (*MethodInvocation) expression()  {}
func (*NewClass) expression()          {}
func (*NewArray) expression()          {}
func (*Literal) expression()           {}
func (*Binary) expression()            {}
func (*Unary) expression()             {}
func (*Assignment) expression()        {}
func (*Conditional) expression()       {}
func (*InstanceOf) expression()        {}
func (*Cast) expression()              {}
func (*ArrayAccess) expression()       {}
func (*Parenthesized) expression()     {}
func (*Lambda) expression()            {}
func (*MethodReference) expression()   {}
func (*Erroneous) expression()         {}
func (*Switch) expression()            {}
func (*PrimitiveType) expression()     {}
func (*ArrayType) expression()         {}
func (*ParameterizedType) expression() {}
func (*Wildcard) expression()          {}
func (*UnionType) expression()         {}

func (*ClassDecl) statement()           {}
func (*VariableDecl) statement()        {}
func (*Block) statement()               {}
func (*ExpressionStatement) statement() {}
func (*If) statement()                  {}
func (*While) statement()               {}
func (*DoWhile) statement()             {}
func (*For) statement()                 {}
func (*ForEach) statement()             {}
func (*Return) statement()              {}
func (*Throw) statement()               {}
func (*Break) statement()               {}
func (*Continue) statement()            {}
func (*Yield) statement()               {}
func (*Try) statement()                 {}
func (*Switch) statement()              {}
func (*Labeled) statement()             {}
func (*Synchronized) statement()        {}
func (*Assert) statement()              {}
func (*Empty) statement()               {}
