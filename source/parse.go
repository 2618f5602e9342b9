// Package source turns Java source text into tree.CompilationUnit values
// using the tree-sitter Java grammar.
package source

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/dhamidi/javasem/tree"
)

var log = commonlog.GetLogger("javasem.source")

var (
	languageOnce sync.Once
	language     *tree_sitter.Language
	parsers      sync.Pool
)

func javaParser() *tree_sitter.Parser {
	languageOnce.Do(func() {
		language = tree_sitter.NewLanguage(tree_sitter_java.Language())
		parsers.New = func() any {
			p := tree_sitter.NewParser()
			if err := p.SetLanguage(language); err != nil {
				panic(fmt.Sprintf("set language: %v", err))
			}
			return p
		}
	})
	return parsers.Get().(*tree_sitter.Parser)
}

// ParseFile reads and parses the Java file at path.
func ParseFile(path string) (*tree.CompilationUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return Parse(path, src)
}

// Parse parses src. Syntax errors do not fail the parse: the affected
// regions become Erroneous expressions or are dropped.
func Parse(filename string, src []byte) (*tree.CompilationUnit, error) {
	p := javaParser()
	defer parsers.Put(p)

	t := p.Parse(src, nil)
	if t == nil {
		return nil, fmt.Errorf("parse %s: parser returned no tree", filename)
	}
	defer t.Close()

	root := t.RootNode()
	if root.HasError() {
		log.Debugf("%s: source contains syntax errors", filename)
	}
	c := &converter{src: src}
	unit := c.compilationUnit(root)
	unit.File = filename
	return unit, nil
}

type converter struct {
	src []byte
	// record holds the components of the record whose body is being
	// converted, for compact constructors.
	record []*tree.VariableDecl
}

func (c *converter) span(n *tree_sitter.Node) tree.Span {
	start, end := n.StartPosition(), n.EndPosition()
	return tree.Span{
		Start: tree.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1, Offset: int(n.StartByte())},
		End:   tree.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1, Offset: int(n.EndByte())},
	}
}

func (c *converter) text(n *tree_sitter.Node) string {
	return n.Utf8Text(c.src)
}

func isComment(n *tree_sitter.Node) bool {
	k := n.Kind()
	return k == "line_comment" || k == "block_comment"
}

func named(n *tree_sitter.Node) []*tree_sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*tree_sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || isComment(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func childOfKind(n *tree_sitter.Node, kinds ...string) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

func hasToken(n *tree_sitter.Node, token string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

func (c *converter) fields(n *tree_sitter.Node, name string) []*tree_sitter.Node {
	cursor := n.Walk()
	defer cursor.Close()
	nodes := n.ChildrenByFieldName(name, cursor)
	out := make([]*tree_sitter.Node, 0, len(nodes))
	for i := range nodes {
		out = append(out, &nodes[i])
	}
	return out
}

func (c *converter) ident(n *tree_sitter.Node) *tree.Identifier {
	if n == nil {
		return nil
	}
	return &tree.Identifier{Span: c.span(n), Name: c.text(n)}
}

func (c *converter) compilationUnit(root *tree_sitter.Node) *tree.CompilationUnit {
	unit := &tree.CompilationUnit{Span: c.span(root)}
	for _, n := range named(root) {
		switch n.Kind() {
		case "package_declaration":
			if name := childOfKind(n, "scoped_identifier", "identifier"); name != nil {
				unit.Package = c.name(name)
			}
		case "import_declaration":
			unit.Imports = append(unit.Imports, c.importDecl(n))
		case "class_declaration", "interface_declaration", "enum_declaration",
			"annotation_type_declaration", "record_declaration":
			unit.Types = append(unit.Types, c.classDecl(n))
		}
	}
	return unit
}

func (c *converter) importDecl(n *tree_sitter.Node) *tree.Import {
	imp := &tree.Import{
		Span:   c.span(n),
		Static: hasToken(n, "static"),
		Star:   childOfKind(n, "asterisk") != nil,
	}
	if name := childOfKind(n, "scoped_identifier", "identifier"); name != nil {
		imp.Name = c.name(name)
	}
	return imp
}

// name converts identifier and scoped_identifier chains.
func (c *converter) name(n *tree_sitter.Node) tree.Expression {
	switch n.Kind() {
	case "scoped_identifier":
		return &tree.MemberSelect{
			Span: c.span(n),
			Expr: c.name(n.ChildByFieldName("scope")),
			Name: c.ident(n.ChildByFieldName("name")),
		}
	case "this", "super":
		return &tree.Identifier{Span: c.span(n), Name: n.Kind()}
	}
	return c.ident(n)
}

func (c *converter) modifiers(n *tree_sitter.Node) *tree.Modifiers {
	mods := &tree.Modifiers{}
	m := childOfKind(n, "modifiers")
	if m == nil {
		return mods
	}
	for i := uint(0); i < m.ChildCount(); i++ {
		child := m.Child(i)
		switch {
		case child.Kind() == "annotation" || child.Kind() == "marker_annotation":
			mods.Annotations = append(mods.Annotations, c.annotation(child))
		case !child.IsNamed():
			mods.Keywords = append(mods.Keywords, child.Kind())
		}
	}
	return mods
}

func (c *converter) annotation(n *tree_sitter.Node) *tree.Annotation {
	a := &tree.Annotation{Span: c.span(n), Type: c.name(n.ChildByFieldName("name"))}
	for _, arg := range named(n.ChildByFieldName("arguments")) {
		if arg.Kind() == "element_value_pair" {
			a.Args = append(a.Args, &tree.Assignment{
				Span: c.span(arg),
				Op:   "=",
				Var:  c.ident(arg.ChildByFieldName("key")),
				Expr: c.elementValue(arg.ChildByFieldName("value")),
			})
			continue
		}
		a.Args = append(a.Args, c.elementValue(arg))
	}
	return a
}

func (c *converter) elementValue(n *tree_sitter.Node) tree.Expression {
	switch n.Kind() {
	case "annotation", "marker_annotation":
		return c.annotation(n)
	case "element_value_array_initializer":
		arr := &tree.NewArray{Span: c.span(n), HasInit: true}
		for _, v := range named(n) {
			arr.Init = append(arr.Init, c.elementValue(v))
		}
		return arr
	}
	return c.expr(n)
}

func (c *converter) typeParams(n *tree_sitter.Node) []*tree.TypeParameter {
	var out []*tree.TypeParameter
	for _, p := range named(n.ChildByFieldName("type_parameters")) {
		if p.Kind() != "type_parameter" {
			continue
		}
		tp := &tree.TypeParameter{Span: c.span(p)}
		for _, child := range named(p) {
			switch child.Kind() {
			case "type_identifier", "identifier":
				tp.Name = c.ident(child)
			case "type_bound":
				for _, b := range named(child) {
					tp.Bounds = append(tp.Bounds, c.typeTree(b))
				}
			}
		}
		out = append(out, tp)
	}
	return out
}

var declKinds = map[string]tree.Kind{
	"class_declaration":           tree.KindClass,
	"interface_declaration":       tree.KindInterface,
	"enum_declaration":            tree.KindEnum,
	"annotation_type_declaration": tree.KindAnnotationType,
	"record_declaration":          tree.KindRecord,
}

func (c *converter) classDecl(n *tree_sitter.Node) *tree.ClassDecl {
	decl := &tree.ClassDecl{
		Span:       c.span(n),
		DeclKind:   declKinds[n.Kind()],
		Modifiers:  c.modifiers(n),
		Name:       c.ident(n.ChildByFieldName("name")),
		TypeParams: c.typeParams(n),
	}
	if super := n.ChildByFieldName("superclass"); super != nil {
		if types := named(super); len(types) > 0 {
			decl.Extends = c.typeTree(types[len(types)-1])
		}
	}
	for _, list := range []*tree_sitter.Node{n.ChildByFieldName("interfaces"), childOfKind(n, "extends_interfaces")} {
		for _, tl := range named(list) {
			for _, t := range named(tl) {
				decl.Implements = append(decl.Implements, c.typeTree(t))
			}
		}
	}

	saved := c.record
	if decl.DeclKind == tree.KindRecord {
		decl.RecordComponents = c.params(n.ChildByFieldName("parameters"))
		c.record = decl.RecordComponents
	}
	decl.Members = c.members(n.ChildByFieldName("body"))
	c.record = saved
	return decl
}

func (c *converter) anonymousClass(body *tree_sitter.Node) *tree.ClassDecl {
	saved := c.record
	c.record = nil
	defer func() { c.record = saved }()
	return &tree.ClassDecl{
		Span:      c.span(body),
		DeclKind:  tree.KindClass,
		Modifiers: &tree.Modifiers{},
		Members:   c.members(body),
	}
}

func (c *converter) members(body *tree_sitter.Node) []tree.Tree {
	var out []tree.Tree
	for _, n := range named(body) {
		switch n.Kind() {
		case "field_declaration", "constant_declaration":
			for _, v := range c.variables(n) {
				out = append(out, v)
			}
		case "method_declaration", "constructor_declaration", "compact_constructor_declaration",
			"annotation_type_element_declaration":
			out = append(out, c.methodDecl(n))
		case "class_declaration", "interface_declaration", "enum_declaration",
			"annotation_type_declaration", "record_declaration":
			out = append(out, c.classDecl(n))
		case "block":
			out = append(out, c.block(n))
		case "static_initializer":
			if b := childOfKind(n, "block"); b != nil {
				blk := c.block(b)
				blk.Static = true
				out = append(out, blk)
			}
		case "enum_constant":
			out = append(out, c.enumConstant(n))
		case "enum_body_declarations":
			out = append(out, c.members(n)...)
		}
	}
	return out
}

func (c *converter) enumConstant(n *tree_sitter.Node) *tree.EnumConstant {
	ec := &tree.EnumConstant{
		Span:      c.span(n),
		Modifiers: c.modifiers(n),
		Name:      c.ident(n.ChildByFieldName("name")),
		Args:      c.args(n.ChildByFieldName("arguments")),
	}
	if body := n.ChildByFieldName("body"); body != nil {
		ec.Body = c.anonymousClass(body)
	}
	return ec
}

func dims(n *tree_sitter.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "[" {
			count++
		}
	}
	return count
}

func (c *converter) withDims(t tree.Expression, n *tree_sitter.Node, count int) tree.Expression {
	for i := 0; i < count; i++ {
		t = &tree.ArrayType{Span: c.span(n), Elem: t}
	}
	return t
}

// declaredType converts a declaration's type, mapping var to nil.
func (c *converter) declaredType(n *tree_sitter.Node) tree.Expression {
	if n == nil {
		return nil
	}
	if n.Kind() == "type_identifier" && c.text(n) == "var" {
		return nil
	}
	return c.typeTree(n)
}

// variables converts field, constant and local variable declarations,
// one VariableDecl per declarator.
func (c *converter) variables(n *tree_sitter.Node) []*tree.VariableDecl {
	mods := c.modifiers(n)
	typeNode := n.ChildByFieldName("type")
	var out []*tree.VariableDecl
	for _, d := range c.fields(n, "declarator") {
		v := &tree.VariableDecl{
			Span:      c.span(d),
			Modifiers: mods,
			Type:      c.declaredType(typeNode),
			Name:      c.ident(d.ChildByFieldName("name")),
		}
		if extra := d.ChildByFieldName("dimensions"); extra != nil && v.Type != nil {
			v.Type = c.withDims(v.Type, extra, dims(extra))
		}
		if value := d.ChildByFieldName("value"); value != nil {
			v.Init = c.expr(value)
		}
		out = append(out, v)
	}
	return out
}

func (c *converter) params(n *tree_sitter.Node) []*tree.VariableDecl {
	var out []*tree.VariableDecl
	for _, p := range named(n) {
		switch p.Kind() {
		case "formal_parameter":
			v := &tree.VariableDecl{
				Span:      c.span(p),
				Modifiers: c.modifiers(p),
				Type:      c.typeTree(p.ChildByFieldName("type")),
				Name:      c.ident(p.ChildByFieldName("name")),
			}
			if extra := p.ChildByFieldName("dimensions"); extra != nil {
				v.Type = c.withDims(v.Type, extra, dims(extra))
			}
			out = append(out, v)
		case "spread_parameter":
			v := &tree.VariableDecl{Span: c.span(p), Modifiers: c.modifiers(p), Varargs: true}
			for _, child := range named(p) {
				switch child.Kind() {
				case "modifiers":
				case "variable_declarator":
					v.Name = c.ident(child.ChildByFieldName("name"))
				default:
					if v.Type == nil {
						v.Type = c.typeTree(child)
					}
				}
			}
			out = append(out, v)
		}
	}
	return out
}

func (c *converter) methodDecl(n *tree_sitter.Node) *tree.MethodDecl {
	m := &tree.MethodDecl{
		Span:       c.span(n),
		Modifiers:  c.modifiers(n),
		TypeParams: c.typeParams(n),
		Name:       c.ident(n.ChildByFieldName("name")),
	}
	switch n.Kind() {
	case "method_declaration", "annotation_type_element_declaration":
		m.ReturnType = c.typeTree(n.ChildByFieldName("type"))
		if extra := n.ChildByFieldName("dimensions"); extra != nil {
			m.ReturnType = c.withDims(m.ReturnType, extra, dims(extra))
		}
	case "compact_constructor_declaration":
		for _, rc := range c.record {
			m.Params = append(m.Params, &tree.VariableDecl{
				Span:      rc.Span,
				Modifiers: &tree.Modifiers{},
				Type:      rc.Type,
				Name:      &tree.Identifier{Span: rc.Name.Span, Name: rc.Name.Name},
			})
		}
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.Params = c.params(params)
	}
	if throws := childOfKind(n, "throws"); throws != nil {
		for _, t := range named(throws) {
			m.Throws = append(m.Throws, c.typeTree(t))
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		m.Body = c.block(body)
	} else if body := childOfKind(n, "constructor_body"); body != nil {
		m.Body = c.block(body)
	}
	if def := childOfKind(n, "default_value"); def != nil {
		if vs := named(def); len(vs) > 0 {
			m.DefaultValue = c.elementValue(vs[0])
		}
	}
	return m
}

func (c *converter) block(n *tree_sitter.Node) *tree.Block {
	b := &tree.Block{Span: c.span(n)}
	for _, s := range named(n) {
		b.Statements = append(b.Statements, c.statements(s)...)
	}
	return b
}

// statements converts one statement node; local variable declarations
// with several declarators expand to several statements.
func (c *converter) statements(n *tree_sitter.Node) []tree.Statement {
	if n.Kind() == "local_variable_declaration" {
		var out []tree.Statement
		for _, v := range c.variables(n) {
			out = append(out, v)
		}
		return out
	}
	if s := c.statement(n); s != nil {
		return []tree.Statement{s}
	}
	return nil
}

func unparen(n *tree_sitter.Node) *tree_sitter.Node {
	if n != nil && n.Kind() == "parenthesized_expression" {
		if inner := named(n); len(inner) == 1 {
			return inner[0]
		}
	}
	return n
}

func (c *converter) optExpr(n *tree_sitter.Node) tree.Expression {
	if n == nil {
		return nil
	}
	return c.expr(n)
}

func (c *converter) optStatement(n *tree_sitter.Node) tree.Statement {
	if n == nil {
		return nil
	}
	return c.statement(n)
}

func (c *converter) statement(n *tree_sitter.Node) tree.Statement {
	sp := c.span(n)
	switch n.Kind() {
	case "block":
		return c.block(n)
	case "local_variable_declaration":
		if vs := c.variables(n); len(vs) > 0 {
			return vs[0]
		}
		return nil
	case "expression_statement":
		inner := named(n)
		if len(inner) == 0 {
			return &tree.Empty{Span: sp}
		}
		if inner[0].Kind() == "switch_expression" {
			return c.switchTree(inner[0])
		}
		return &tree.ExpressionStatement{Span: sp, Expr: c.expr(inner[0])}
	case "if_statement":
		return &tree.If{
			Span: sp,
			Cond: c.expr(unparen(n.ChildByFieldName("condition"))),
			Then: c.optStatement(n.ChildByFieldName("consequence")),
			Else: c.optStatement(n.ChildByFieldName("alternative")),
		}
	case "while_statement":
		return &tree.While{
			Span: sp,
			Cond: c.expr(unparen(n.ChildByFieldName("condition"))),
			Body: c.optStatement(n.ChildByFieldName("body")),
		}
	case "do_statement":
		return &tree.DoWhile{
			Span: sp,
			Body: c.optStatement(n.ChildByFieldName("body")),
			Cond: c.expr(unparen(n.ChildByFieldName("condition"))),
		}
	case "for_statement":
		f := &tree.For{
			Span: sp,
			Cond: c.optExpr(n.ChildByFieldName("condition")),
			Body: c.optStatement(n.ChildByFieldName("body")),
		}
		for _, init := range c.fields(n, "init") {
			if init.Kind() == "local_variable_declaration" {
				f.Init = append(f.Init, c.statements(init)...)
				continue
			}
			f.Init = append(f.Init, &tree.ExpressionStatement{Span: c.span(init), Expr: c.expr(init)})
		}
		for _, u := range c.fields(n, "update") {
			f.Update = append(f.Update, &tree.ExpressionStatement{Span: c.span(u), Expr: c.expr(u)})
		}
		return f
	case "enhanced_for_statement":
		v := &tree.VariableDecl{
			Modifiers: c.modifiers(n),
			Type:      c.declaredType(n.ChildByFieldName("type")),
			Name:      c.ident(n.ChildByFieldName("name")),
		}
		if v.Name != nil {
			v.Span = v.Name.Span
		}
		if extra := n.ChildByFieldName("dimensions"); extra != nil && v.Type != nil {
			v.Type = c.withDims(v.Type, extra, dims(extra))
		}
		return &tree.ForEach{
			Span:     sp,
			Var:      v,
			Iterable: c.expr(n.ChildByFieldName("value")),
			Body:     c.optStatement(n.ChildByFieldName("body")),
		}
	case "return_statement":
		r := &tree.Return{Span: sp}
		if e := named(n); len(e) > 0 {
			r.Expr = c.expr(e[0])
		}
		return r
	case "throw_statement":
		t := &tree.Throw{Span: sp}
		if e := named(n); len(e) > 0 {
			t.Expr = c.expr(e[0])
		}
		return t
	case "yield_statement":
		y := &tree.Yield{Span: sp}
		if e := named(n); len(e) > 0 {
			y.Expr = c.expr(e[0])
		}
		return y
	case "break_statement":
		return &tree.Break{Span: sp, Label: c.ident(childOfKind(n, "identifier"))}
	case "continue_statement":
		return &tree.Continue{Span: sp, Label: c.ident(childOfKind(n, "identifier"))}
	case "try_statement", "try_with_resources_statement":
		return c.try(n)
	case "switch_expression", "switch_statement":
		return c.switchTree(n)
	case "labeled_statement":
		l := &tree.Labeled{Span: sp}
		for _, child := range named(n) {
			if child.Kind() == "identifier" && l.Label == nil {
				l.Label = c.ident(child)
				continue
			}
			l.Body = c.statement(child)
		}
		return l
	case "synchronized_statement":
		s := &tree.Synchronized{Span: sp}
		if lock := childOfKind(n, "parenthesized_expression"); lock != nil {
			s.Lock = c.expr(unparen(lock))
		}
		if body := n.ChildByFieldName("body"); body != nil {
			s.Body = c.block(body)
		}
		return s
	case "assert_statement":
		a := &tree.Assert{Span: sp}
		es := named(n)
		if len(es) > 0 {
			a.Cond = c.expr(es[0])
		}
		if len(es) > 1 {
			a.Detail = c.expr(es[1])
		}
		return a
	case "class_declaration", "interface_declaration", "enum_declaration",
		"annotation_type_declaration", "record_declaration":
		return c.classDecl(n)
	case "explicit_constructor_invocation":
		return &tree.ExpressionStatement{Span: sp, Expr: c.constructorCall(n)}
	}
	return nil
}

// constructorCall converts this(...), super(...) and outer.super(...).
func (c *converter) constructorCall(n *tree_sitter.Node) *tree.MethodInvocation {
	call := &tree.MethodInvocation{Span: c.span(n), Args: c.args(n.ChildByFieldName("arguments"))}
	ctor := n.ChildByFieldName("constructor")
	var target tree.Expression = &tree.Identifier{Span: c.span(ctor), Name: ctor.Kind()}
	if obj := n.ChildByFieldName("object"); obj != nil {
		target = &tree.MemberSelect{
			Span: c.span(n),
			Expr: c.expr(obj),
			Name: &tree.Identifier{Span: c.span(ctor), Name: ctor.Kind()},
		}
	}
	call.Target = target
	call.TypeArgs = c.typeArgs(n.ChildByFieldName("type_arguments"))
	return call
}

func (c *converter) try(n *tree_sitter.Node) *tree.Try {
	t := &tree.Try{Span: c.span(n)}
	for _, r := range named(n.ChildByFieldName("resources")) {
		if r.Kind() != "resource" {
			continue
		}
		if name := r.ChildByFieldName("name"); name != nil {
			t.Resources = append(t.Resources, &tree.VariableDecl{
				Span:      c.span(r),
				Modifiers: c.modifiers(r),
				Type:      c.declaredType(r.ChildByFieldName("type")),
				Name:      c.ident(name),
				Init:      c.optExpr(r.ChildByFieldName("value")),
			})
			continue
		}
		if inner := named(r); len(inner) > 0 {
			t.Resources = append(t.Resources, c.expr(inner[0]))
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		t.Body = c.block(body)
	}
	for _, child := range named(n) {
		switch child.Kind() {
		case "catch_clause":
			t.Catches = append(t.Catches, c.catch(child))
		case "finally_clause":
			if b := childOfKind(child, "block"); b != nil {
				t.Finally = c.block(b)
			}
		}
	}
	return t
}

func (c *converter) catch(n *tree_sitter.Node) *tree.Catch {
	cc := &tree.Catch{Span: c.span(n)}
	if param := childOfKind(n, "catch_formal_parameter"); param != nil {
		v := &tree.VariableDecl{
			Span:      c.span(param),
			Modifiers: c.modifiers(param),
			Name:      c.ident(param.ChildByFieldName("name")),
		}
		if ct := childOfKind(param, "catch_type"); ct != nil {
			alts := named(ct)
			if len(alts) == 1 {
				v.Type = c.typeTree(alts[0])
			} else {
				u := &tree.UnionType{Span: c.span(ct)}
				for _, a := range alts {
					u.Alternatives = append(u.Alternatives, c.typeTree(a))
				}
				v.Type = u
			}
		}
		cc.Param = v
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cc.Body = c.block(body)
	}
	return cc
}

func (c *converter) switchTree(n *tree_sitter.Node) *tree.Switch {
	s := &tree.Switch{Span: c.span(n)}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		s.Selector = c.expr(unparen(cond))
	}
	for _, group := range named(n.ChildByFieldName("body")) {
		cs := &tree.Case{Span: c.span(group), Arrow: group.Kind() == "switch_rule"}
		for _, child := range named(group) {
			if child.Kind() == "switch_label" {
				c.switchLabel(cs, child)
				continue
			}
			cs.Body = append(cs.Body, c.statements(child)...)
		}
		s.Cases = append(s.Cases, cs)
	}
	return s
}

func (c *converter) switchLabel(cs *tree.Case, n *tree_sitter.Node) {
	if hasToken(n, "default") {
		cs.Default = true
	}
	for _, l := range named(n) {
		switch l.Kind() {
		case "guard":
		case "pattern", "type_pattern", "record_pattern":
			cs.Labels = append(cs.Labels, &tree.Erroneous{Span: c.span(l), Text: c.text(l)})
		default:
			cs.Labels = append(cs.Labels, c.expr(l))
		}
	}
}

func (c *converter) args(n *tree_sitter.Node) []tree.Expression {
	if n == nil {
		return nil
	}
	out := []tree.Expression{}
	for _, a := range named(n) {
		out = append(out, c.expr(a))
	}
	return out
}

func (c *converter) typeArgs(n *tree_sitter.Node) []tree.Expression {
	if n == nil {
		return nil
	}
	out := []tree.Expression{}
	for _, a := range named(n) {
		out = append(out, c.typeTree(a))
	}
	return out
}

func literalKind(kind, text string) tree.Kind {
	switch kind {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L") {
			return tree.KindLongLiteral
		}
		return tree.KindIntLiteral
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			return tree.KindFloatLiteral
		}
		return tree.KindDoubleLiteral
	case "true", "false":
		return tree.KindBooleanLiteral
	case "character_literal":
		return tree.KindCharLiteral
	case "string_literal", "text_block":
		return tree.KindStringLiteral
	case "null_literal":
		return tree.KindNullLiteral
	}
	return tree.KindErroneous
}

// qualified wraps obj in a .super selection when the node has one, as in
// Outer.super.m().
func (c *converter) qualified(n, objNode *tree_sitter.Node, obj tree.Expression) tree.Expression {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child.Kind() == "super" && child.StartByte() > objNode.StartByte() {
			return &tree.MemberSelect{
				Span: c.span(n),
				Expr: obj,
				Name: &tree.Identifier{Span: c.span(child), Name: "super"},
			}
		}
	}
	return obj
}

func (c *converter) expr(n *tree_sitter.Node) tree.Expression {
	sp := c.span(n)
	switch n.Kind() {
	case "identifier", "type_identifier":
		return c.ident(n)
	case "this", "super":
		return &tree.Identifier{Span: sp, Name: n.Kind()}
	case "scoped_identifier":
		return c.name(n)
	case "field_access":
		objNode := n.ChildByFieldName("object")
		obj := c.qualified(n, objNode, c.expr(objNode))
		field := n.ChildByFieldName("field")
		return &tree.MemberSelect{Span: sp, Expr: obj, Name: &tree.Identifier{Span: c.span(field), Name: c.text(field)}}
	case "method_invocation":
		call := &tree.MethodInvocation{
			Span:     sp,
			TypeArgs: c.typeArgs(n.ChildByFieldName("type_arguments")),
			Args:     c.args(n.ChildByFieldName("arguments")),
		}
		name := c.ident(n.ChildByFieldName("name"))
		if objNode := n.ChildByFieldName("object"); objNode != nil {
			obj := c.qualified(n, objNode, c.expr(objNode))
			call.Target = &tree.MemberSelect{Span: tree.Span{Start: sp.Start, End: name.End}, Expr: obj, Name: name}
		} else {
			call.Target = name
		}
		return call
	case "object_creation_expression":
		nc := &tree.NewClass{
			Span:     sp,
			Type:     c.typeTree(n.ChildByFieldName("type")),
			TypeArgs: c.typeArgs(n.ChildByFieldName("type_arguments")),
			Args:     c.args(n.ChildByFieldName("arguments")),
		}
		if first := n.Child(0); first != nil && first.Kind() != "new" {
			nc.Outer = c.expr(first)
		}
		if body := childOfKind(n, "class_body"); body != nil {
			nc.Body = c.anonymousClass(body)
		}
		return nc
	case "array_creation_expression":
		arr := &tree.NewArray{Span: sp, ElemType: c.typeTree(n.ChildByFieldName("type"))}
		for _, child := range named(n) {
			switch child.Kind() {
			case "dimensions_expr":
				if e := named(child); len(e) > 0 {
					arr.Dims = append(arr.Dims, c.expr(e[0]))
				}
			case "dimensions":
				arr.ExtraDims += dims(child)
			case "array_initializer":
				init := c.expr(child).(*tree.NewArray)
				arr.Init, arr.HasInit = init.Init, true
			}
		}
		return arr
	case "array_initializer":
		arr := &tree.NewArray{Span: sp, HasInit: true, Init: []tree.Expression{}}
		for _, child := range named(n) {
			arr.Init = append(arr.Init, c.expr(child))
		}
		return arr
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal",
		"decimal_floating_point_literal", "hex_floating_point_literal", "true", "false",
		"character_literal", "string_literal", "text_block", "null_literal":
		text := c.text(n)
		return &tree.Literal{Span: sp, LitKind: literalKind(n.Kind(), text), Value: text}
	case "class_literal":
		var typ tree.Expression
		if inner := named(n); len(inner) > 0 {
			typ = c.typeTree(inner[0])
		}
		end := tree.Span{Start: sp.End, End: sp.End}
		end.Start.Column -= len("class")
		end.Start.Offset -= len("class")
		return &tree.MemberSelect{Span: sp, Expr: typ, Name: &tree.Identifier{Span: end, Name: "class"}}
	case "parenthesized_expression":
		p := &tree.Parenthesized{Span: sp}
		if inner := named(n); len(inner) > 0 {
			p.Expr = c.expr(inner[0])
		}
		return p
	case "binary_expression":
		return &tree.Binary{
			Span:  sp,
			Op:    c.text(n.ChildByFieldName("operator")),
			Left:  c.expr(n.ChildByFieldName("left")),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case "unary_expression":
		return &tree.Unary{
			Span:    sp,
			Op:      c.text(n.ChildByFieldName("operator")),
			Operand: c.expr(n.ChildByFieldName("operand")),
		}
	case "update_expression":
		u := &tree.Unary{Span: sp}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child.IsNamed() {
				u.Operand = c.expr(child)
				u.Postfix = i == 0
				continue
			}
			u.Op = child.Kind()
		}
		return u
	case "assignment_expression":
		return &tree.Assignment{
			Span: sp,
			Op:   c.text(n.ChildByFieldName("operator")),
			Var:  c.expr(n.ChildByFieldName("left")),
			Expr: c.expr(n.ChildByFieldName("right")),
		}
	case "ternary_expression":
		return &tree.Conditional{
			Span:  sp,
			Cond:  c.expr(n.ChildByFieldName("condition")),
			True:  c.expr(n.ChildByFieldName("consequence")),
			False: c.expr(n.ChildByFieldName("alternative")),
		}
	case "instanceof_expression":
		io := &tree.InstanceOf{Span: sp, Expr: c.expr(n.ChildByFieldName("left"))}
		if right := n.ChildByFieldName("right"); right != nil {
			io.Type = c.typeTree(right)
		} else if pattern := n.ChildByFieldName("pattern"); pattern != nil {
			io.Type = &tree.Erroneous{Span: c.span(pattern), Text: c.text(pattern)}
		}
		if name := n.ChildByFieldName("name"); name != nil {
			io.Binding = &tree.VariableDecl{
				Span:      c.span(name),
				Modifiers: &tree.Modifiers{},
				Type:      io.Type,
				Name:      c.ident(name),
			}
		}
		return io
	case "cast_expression":
		return &tree.Cast{
			Span: sp,
			Type: c.typeTree(n.ChildByFieldName("type")),
			Expr: c.expr(n.ChildByFieldName("value")),
		}
	case "array_access":
		return &tree.ArrayAccess{
			Span:  sp,
			Array: c.expr(n.ChildByFieldName("array")),
			Index: c.expr(n.ChildByFieldName("index")),
		}
	case "lambda_expression":
		return c.lambda(n)
	case "method_reference":
		ref := &tree.MethodReference{Span: sp}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			switch {
			case child.Kind() == "new":
				ref.Name = &tree.Identifier{Span: c.span(child), Name: "new"}
			case child.Kind() == "type_arguments":
				ref.TypeArgs = c.typeArgs(child)
			case !child.IsNamed() || isComment(child):
			case ref.Expr == nil:
				ref.Expr = c.typeTree(child)
			default:
				ref.Name = c.ident(child)
			}
		}
		return ref
	case "switch_expression":
		return c.switchTree(n)
	case "integral_type", "floating_point_type", "boolean_type", "void_type",
		"generic_type", "array_type", "scoped_type_identifier", "annotated_type", "wildcard":
		return c.typeTree(n)
	}
	return &tree.Erroneous{Span: sp, Text: c.text(n)}
}

func (c *converter) lambda(n *tree_sitter.Node) *tree.Lambda {
	l := &tree.Lambda{Span: c.span(n), Params: []*tree.VariableDecl{}}
	if params := n.ChildByFieldName("parameters"); params != nil {
		switch params.Kind() {
		case "identifier":
			l.Params = append(l.Params, &tree.VariableDecl{Span: c.span(params), Modifiers: &tree.Modifiers{}, Name: c.ident(params)})
		case "formal_parameters":
			l.Params = c.params(params)
		case "inferred_parameters":
			for _, id := range named(params) {
				l.Params = append(l.Params, &tree.VariableDecl{Span: c.span(id), Modifiers: &tree.Modifiers{}, Name: c.ident(id)})
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Kind() == "block" {
			l.Body = c.block(body)
		} else {
			l.Body = c.expr(body)
		}
	}
	return l
}

// typeTree converts nodes in type position.
func (c *converter) typeTree(n *tree_sitter.Node) tree.Expression {
	if n == nil {
		return nil
	}
	sp := c.span(n)
	switch n.Kind() {
	case "type_identifier", "identifier":
		return c.ident(n)
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return &tree.PrimitiveType{Span: sp, Name: c.text(n)}
	case "scoped_identifier":
		return c.name(n)
	case "scoped_type_identifier":
		var parts []*tree_sitter.Node
		for _, child := range named(n) {
			if child.Kind() != "annotation" && child.Kind() != "marker_annotation" {
				parts = append(parts, child)
			}
		}
		if len(parts) < 2 {
			return &tree.Erroneous{Span: sp, Text: c.text(n)}
		}
		return &tree.MemberSelect{
			Span: sp,
			Expr: c.typeTree(parts[0]),
			Name: c.ident(parts[len(parts)-1]),
		}
	case "generic_type":
		pt := &tree.ParameterizedType{Span: sp}
		for _, child := range named(n) {
			if child.Kind() == "type_arguments" {
				pt.Args = c.typeArgs(child)
				continue
			}
			pt.Type = c.typeTree(child)
		}
		return pt
	case "array_type":
		elem := c.typeTree(n.ChildByFieldName("element"))
		d := n.ChildByFieldName("dimensions")
		return c.withDims(elem, d, dims(d))
	case "wildcard":
		w := &tree.Wildcard{Span: sp}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			switch child.Kind() {
			case "extends":
				w.BoundKind = "extends"
			case "super":
				w.BoundKind = "super"
			case "?", "annotation", "marker_annotation":
			default:
				if child.IsNamed() && !isComment(child) {
					w.Bound = c.typeTree(child)
				}
			}
		}
		return w
	case "annotated_type":
		if parts := named(n); len(parts) > 0 {
			return c.typeTree(parts[len(parts)-1])
		}
		return &tree.Erroneous{Span: sp, Text: c.text(n)}
	}
	return c.expr(n)
}
