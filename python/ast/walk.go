package ast

import "fmt"

// Visitor is called on every node of a walk. Enter returns false to skip
// the children of n; Leave runs after the children either way.
type Visitor interface {
	Enter(n Node) bool
	Leave(n Node)
}

// Walk traverses the tree rooted at n in source order.
func Walk(v Visitor, n Node) {
	if isNil(n) {
		return
	}
	if v.Enter(n) {
		for _, c := range Children(n) {
			Walk(v, c)
		}
	}
	v.Leave(n)
}

type inspector func(Node) bool

func (f inspector) Enter(n Node) bool { return f(n) }
func (inspector) Leave(Node)          {}

// Inspect calls f for every node in source order until f returns false
// for a subtree.
func Inspect(n Node, f func(Node) bool) {
	Walk(inspector(f), n)
}

// FreezeAll freezes n and every node beneath it.
func FreezeAll(n Node) {
	Inspect(n, func(n Node) bool {
		n.Freeze()
		return true
	})
}

// Children returns the direct children of n in source order. It panics
// on a node type it does not know.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *Module:
		add(n.body)
	case *SuiteStatement:
		for _, s := range n.stmts {
			add(s)
		}
	case *ExpressionStatement:
		add(n.expr)
	case *AssignmentStatement:
		for _, t := range n.targets {
			add(t)
		}
		add(n.value)
	case *AugmentedAssignStatement:
		add(n.target, n.value)
	case *Clause:
		add(n.test, n.target, n.body)
	case *IfStatement:
		for _, c := range n.tests {
			add(c)
		}
		add(n.elseCase)
	case *WhileStatement:
		add(n.test, n.body, n.elseCase)
	case *ForStatement:
		add(n.target, n.iter, n.body, n.elseCase)
	case *TryStatement:
		add(n.body)
		for _, h := range n.handlers {
			add(h)
		}
		add(n.elseCase, n.finally)
	case *FunctionDefinition:
		add(n.name)
		for _, p := range n.params {
			add(p)
		}
		add(n.returns, n.body)
	case *ClassDefinition:
		add(n.name)
		for _, b := range n.bases {
			add(b)
		}
		add(n.body)
	case *WithStatement:
		for _, i := range n.items {
			add(i)
		}
		add(n.body)
	case *DottedName:
		for _, name := range n.names {
			add(name)
		}
	case *ImportName:
		add(n.name, n.alias)
	case *ImportStatement:
		for _, name := range n.names {
			add(name)
		}
	case *FromImportStatement:
		add(n.module)
		for _, name := range n.names {
			add(name)
		}
	case *GlobalStatement:
		for _, name := range n.names {
			add(name)
		}
	case *NonlocalStatement:
		for _, name := range n.names {
			add(name)
		}
	case *RaiseStatement:
		add(n.exc, n.value, n.traceback, n.cause)
	case *AssertStatement:
		add(n.test, n.message)
	case *ExecStatement:
		add(n.code, n.globals, n.locals)
	case *DelStatement:
		for _, t := range n.targets {
			add(t)
		}
	case *ReturnStatement:
		add(n.value)
	case *PrintStatement:
		add(n.dest)
		for _, e := range n.exprs {
			add(e)
		}
	case *Decorator:
		add(n.expr)
	case *DecoratorStatement:
		for _, d := range n.decorators {
			add(d)
		}
		add(n.inner)
	case *ErrorStatement:
		add(n.body)
	case *PassStatement, *BreakStatement, *ContinueStatement, *EmptyStatement:

	case *NameExpression, *ConstantExpression, *ErrorExpression, *EmptyExpression:

	case *StringExpression:
		for _, p := range n.parts {
			add(p)
		}
	case *BinaryExpression:
		add(n.left, n.right)
	case *UnaryExpression:
		add(n.operand)
	case *Arg:
		add(n.name, n.value)
	case *CallExpression:
		add(n.target)
		for _, a := range n.args {
			add(a)
		}
	case *IndexExpression:
		add(n.target, n.index)
	case *MemberExpression:
		add(n.target, n.name)
	case *ConditionalExpression:
		add(n.trueExpr, n.test, n.falseExpr)
	case *LambdaExpression:
		for _, p := range n.params {
			add(p)
		}
		add(n.body)
	case *Parameter:
		add(n.name, n.sublist, n.annotation, n.def)
	case *ComprehensionFor:
		add(n.target, n.iter)
	case *ComprehensionIf:
		add(n.test)
	case *GeneratorExpression:
		addComprehension(add, &n.comprehension)
	case *ListComprehension:
		addComprehension(add, &n.comprehension)
	case *SetComprehension:
		addComprehension(add, &n.comprehension)
	case *DictComprehension:
		add(n.key, n.value)
		for _, it := range n.iterators {
			add(it)
		}
	case *ListExpression:
		addItems(add, n.items)
	case *SetExpression:
		addItems(add, n.items)
	case *DictionaryExpression:
		addItems(add, n.items)
	case *TupleExpression:
		addItems(add, n.items)
	case *ParenthesisExpression:
		add(n.expr)
	case *SliceExpression:
		add(n.start, n.stop, n.step)
	case *StarredExpression:
		add(n.value)
	case *YieldExpression:
		add(n.value)
	case *YieldFromExpression:
		add(n.value)
	case *AwaitExpression:
		add(n.value)
	case *AsExpression:
		add(n.expr, n.target)
	case *BackQuoteExpression:
		add(n.value)
	default:
		panic(fmt.Sprintf("ast: unknown node type %T", n))
	}
	return out
}

func addComprehension(add func(...Node), c *comprehension) {
	add(c.element)
	for _, it := range c.iterators {
		add(it)
	}
}

func addItems(add func(...Node), items []Expression) {
	for _, e := range items {
		add(e)
	}
}

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch n := n.(type) {
	case *Clause:
		return n == nil
	case *SuiteStatement:
		return n == nil
	case *NameExpression:
		return n == nil
	case *DottedName:
		return n == nil
	case *Parameter:
		return n == nil
	case *Arg:
		return n == nil
	case *Decorator:
		return n == nil
	case *ImportName:
		return n == nil
	case *ConstantExpression:
		return n == nil
	}
	return false
}
