package tree

// Children returns the direct subtrees of t in source order. Nil
// children are omitted.
func Children(t Tree) []Tree {
	var out []Tree
	add := func(ts ...Tree) {
		for _, c := range ts {
			if c != nil && !isNil(c) {
				out = append(out, c)
			}
		}
	}
	addExprs := func(es []Expression) {
		for _, e := range es {
			add(e)
		}
	}
	addStmts := func(ss []Statement) {
		for _, s := range ss {
			add(s)
		}
	}
	addModifiers := func(m *Modifiers) {
		if m == nil {
			return
		}
		for _, a := range m.Annotations {
			add(a)
		}
	}

	switch n := t.(type) {
	case *CompilationUnit:
		add(n.Package)
		for _, i := range n.Imports {
			add(i)
		}
		for _, c := range n.Types {
			add(c)
		}
	case *Import:
		add(n.Name)
	case *Annotation:
		add(n.Type)
		addExprs(n.Args)
	case *ClassDecl:
		addModifiers(n.Modifiers)
		add(n.Name)
		for _, p := range n.TypeParams {
			add(p)
		}
		add(n.Extends)
		addExprs(n.Implements)
		for _, rc := range n.RecordComponents {
			add(rc)
		}
		add(n.Members...)
	case *TypeParameter:
		add(n.Name)
		addExprs(n.Bounds)
	case *MethodDecl:
		addModifiers(n.Modifiers)
		for _, p := range n.TypeParams {
			add(p)
		}
		add(n.ReturnType, n.Name)
		for _, p := range n.Params {
			add(p)
		}
		addExprs(n.Throws)
		add(n.Body, n.DefaultValue)
	case *VariableDecl:
		addModifiers(n.Modifiers)
		add(n.Type, n.Name, n.Init)
	case *EnumConstant:
		addModifiers(n.Modifiers)
		add(n.Name)
		addExprs(n.Args)
		add(n.Body)
	case *Block:
		addStmts(n.Statements)
	case *ExpressionStatement:
		add(n.Expr)
	case *If:
		add(n.Cond, n.Then, n.Else)
	case *While:
		add(n.Cond, n.Body)
	case *DoWhile:
		add(n.Body, n.Cond)
	case *For:
		addStmts(n.Init)
		add(n.Cond)
		addStmts(n.Update)
		add(n.Body)
	case *ForEach:
		add(n.Var, n.Iterable, n.Body)
	case *Return:
		add(n.Expr)
	case *Throw:
		add(n.Expr)
	case *Break:
		add(n.Label)
	case *Continue:
		add(n.Label)
	case *Yield:
		add(n.Expr)
	case *Try:
		add(n.Resources...)
		add(n.Body)
		for _, c := range n.Catches {
			add(c)
		}
		add(n.Finally)
	case *Catch:
		add(n.Param, n.Body)
	case *Switch:
		add(n.Selector)
		for _, c := range n.Cases {
			add(c)
		}
	case *Case:
		addExprs(n.Labels)
		addStmts(n.Body)
	case *Labeled:
		add(n.Label, n.Body)
	case *Synchronized:
		add(n.Lock, n.Body)
	case *Assert:
		add(n.Cond, n.Detail)
	case *MemberSelect:
		add(n.Expr, n.Name)
	case *MethodInvocation:
		add(n.Target)
		addExprs(n.TypeArgs)
		addExprs(n.Args)
	case *NewClass:
		add(n.Outer, n.Type)
		addExprs(n.TypeArgs)
		addExprs(n.Args)
		add(n.Body)
	case *NewArray:
		add(n.ElemType)
		addExprs(n.Dims)
		addExprs(n.Init)
	case *Binary:
		add(n.Left, n.Right)
	case *Unary:
		add(n.Operand)
	case *Assignment:
		add(n.Var, n.Expr)
	case *Conditional:
		add(n.Cond, n.True, n.False)
	case *InstanceOf:
		add(n.Expr, n.Type, n.Binding)
	case *Cast:
		add(n.Type, n.Expr)
	case *ArrayAccess:
		add(n.Array, n.Index)
	case *Parenthesized:
		add(n.Expr)
	case *Lambda:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *MethodReference:
		add(n.Expr)
		addExprs(n.TypeArgs)
		add(n.Name)
	case *ArrayType:
		add(n.Elem)
	case *ParameterizedType:
		add(n.Type)
		addExprs(n.Args)
	case *Wildcard:
		add(n.Bound)
	case *UnionType:
		addExprs(n.Alternatives)
	}
	return out
}

// isNil catches typed nil pointers stored in interfaces.
func isNil(t Tree) bool {
	switch n := t.(type) {
	case *Identifier:
		return n == nil
	case *Block:
		return n == nil
	case *ClassDecl:
		return n == nil
	case *VariableDecl:
		return n == nil
	case *Import:
		return n == nil
	case *Catch:
		return n == nil
	case *Case:
		return n == nil
	case *Annotation:
		return n == nil
	case *TypeParameter:
		return n == nil
	}
	return false
}

// Inspect traverses t depth-first, calling f for each node before its
// children. If f returns false the children are skipped.
func Inspect(t Tree, f func(Tree) bool) {
	if t == nil || isNil(t) || !f(t) {
		return
	}
	for _, c := range Children(t) {
		Inspect(c, f)
	}
}

// Path returns the chain of nodes from root to the innermost node whose
// span contains offset. It is empty when root does not contain offset.
func Path(root Tree, offset int) []Tree {
	var path []Tree
	cur := root
	for cur != nil && cur.Range().Contains(offset) {
		path = append(path, cur)
		var next Tree
		for _, c := range Children(cur) {
			if c.Range().Contains(offset) {
				next = c
				break
			}
		}
		cur = next
	}
	return path
}

// QualifiedName flattens an Identifier/MemberSelect chain to a dotted
// name. It returns "" for any other shape.
func QualifiedName(e Expression) string {
	switch n := e.(type) {
	case *Identifier:
		return n.Name
	case *MemberSelect:
		prefix := QualifiedName(n.Expr)
		if prefix == "" {
			return ""
		}
		return prefix + "." + n.Name.Name
	}
	return ""
}
