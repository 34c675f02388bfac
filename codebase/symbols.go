package codebase

import (
	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
)

type SymbolKind int

const (
	SymbolClass SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolClass:
		return "class"
	case SymbolFunction:
		return "function"
	case SymbolMethod:
		return "method"
	default:
		return "variable"
	}
}

// Symbol is one entry of a file outline. Span covers the whole
// definition including decorators; Selection covers its name.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Detail    string
	Span      token.SourceSpan
	Selection token.SourceSpan
	Children  []Symbol
}

// Symbols returns the classes, functions and module-level variables
// defined in tree, nested the way they are in the source.
func Symbols(tree *parser.AST) []Symbol {
	if tree == nil || tree.Root == nil {
		return nil
	}
	o := outliner{tree: tree}
	return o.suite(tree.Root.Body(), false)
}

type outliner struct {
	tree *parser.AST
}

func (o *outliner) suite(body *ast.SuiteStatement, inClass bool) []Symbol {
	if body == nil {
		return nil
	}
	var out []Symbol
	for _, stmt := range body.Statements() {
		out = append(out, o.statement(stmt, stmt.Span(), inClass)...)
	}
	return out
}

func (o *outliner) statement(stmt ast.Statement, span token.SourceSpan, inClass bool) []Symbol {
	switch s := stmt.(type) {
	case *ast.DecoratorStatement:
		if s.Inner() == nil {
			return nil
		}
		return o.statement(s.Inner(), span, inClass)
	case *ast.FunctionDefinition:
		kind := SymbolFunction
		if inClass {
			kind = SymbolMethod
		}
		return []Symbol{{
			Name:      s.Name().Name(),
			Kind:      kind,
			Detail:    o.signature(s),
			Span:      span,
			Selection: s.Name().Span(),
			Children:  o.nested(s.Body()),
		}}
	case *ast.ClassDefinition:
		return []Symbol{{
			Name:      s.Name().Name(),
			Kind:      SymbolClass,
			Span:      span,
			Selection: s.Name().Span(),
			Children:  o.suite(s.Body(), true),
		}}
	case *ast.AssignmentStatement:
		var out []Symbol
		for _, target := range s.Targets() {
			out = append(out, o.variables(target, span)...)
		}
		return out
	case *ast.IfStatement:
		var out []Symbol
		for _, c := range s.Tests() {
			out = append(out, o.suite(c.Body(), inClass)...)
		}
		if s.Else() != nil {
			out = append(out, o.suite(s.Else().Body(), inClass)...)
		}
		return out
	case *ast.TryStatement:
		out := o.suite(s.Body(), inClass)
		for _, h := range s.Handlers() {
			out = append(out, o.suite(h.Body(), inClass)...)
		}
		return out
	}
	return nil
}

// nested lists the definitions inside a function body. Local variables
// are left out.
func (o *outliner) nested(body *ast.SuiteStatement) []Symbol {
	var out []Symbol
	for _, sym := range o.suite(body, false) {
		if sym.Kind != SymbolVariable {
			out = append(out, sym)
		}
	}
	return out
}

func (o *outliner) variables(target ast.Expression, span token.SourceSpan) []Symbol {
	var out []Symbol
	switch t := target.(type) {
	case *ast.NameExpression:
		out = append(out, Symbol{Name: t.Name(), Kind: SymbolVariable, Span: span, Selection: t.Span()})
	case *ast.TupleExpression:
		for _, item := range t.Items() {
			out = append(out, o.variables(item, span)...)
		}
	case *ast.ListExpression:
		for _, item := range t.Items() {
			out = append(out, o.variables(item, span)...)
		}
	case *ast.ParenthesisExpression:
		out = append(out, o.variables(t.Expression(), span)...)
	case *ast.StarredExpression:
		out = append(out, o.variables(t.Value(), span)...)
	}
	return out
}

// signature is the parameter list of fn as written.
func (o *outliner) signature(fn *ast.FunctionDefinition) string {
	params := fn.Parameters()
	if len(params) == 0 {
		return "()"
	}
	start := params[0].Span().Start
	end := params[len(params)-1].Span().End
	return "(" + o.tree.Tokenization.Text(token.NewSpan(start, end)) + ")"
}
