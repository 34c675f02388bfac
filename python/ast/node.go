// Package ast declares the syntax tree produced by the parser.
//
// Every node records three spans: the core text it was parsed from, the
// trivia read immediately before it and the trivia attached after it.
// Child spans nest inside their parent's core span and never overlap, so
// the source can be rebuilt from the tree alone.
//
// Nodes are built in two phases. While the parser owns a node it may
// attach trivia and fill late fields; Freeze ends that phase and every
// setter panics with ErrFrozen afterwards. Child fields are unexported,
// so code outside this package can only change a node through setters.
package ast

import (
	"errors"
	"slices"

	"github.com/dhamidi/pyfront/python/token"
)

// ErrFrozen is the panic value raised when a frozen node is mutated.
var ErrFrozen = errors.New("ast: mutation of frozen node")

// Kind identifies the concrete type of a node.
type Kind int

const (
	KindModule Kind = iota

	KindSuite
	KindExpressionStatement
	KindAssignment
	KindAugmentedAssign
	KindIf
	KindWhile
	KindFor
	KindTry
	KindFunctionDefinition
	KindClassDefinition
	KindWith
	KindImport
	KindFromImport
	KindGlobal
	KindNonlocal
	KindRaise
	KindAssert
	KindExec
	KindDel
	KindPass
	KindBreak
	KindContinue
	KindReturn
	KindPrint
	KindDecorated
	KindErrorStatement
	KindEmptyStatement

	KindClause
	KindParameter
	KindArg
	KindDecorator
	KindComprehensionFor
	KindComprehensionIf
	KindDottedName
	KindImportName

	KindName
	KindConstant
	KindString
	KindBinary
	KindUnary
	KindCall
	KindIndex
	KindMember
	KindConditional
	KindLambda
	KindGenerator
	KindListComprehension
	KindSetComprehension
	KindDictComprehension
	KindList
	KindSet
	KindDict
	KindTuple
	KindParenthesis
	KindSlice
	KindStarred
	KindYield
	KindYieldFrom
	KindAwait
	KindAs
	KindBackQuote
	KindErrorExpression
	KindEmptyExpression

	kindCount
)

var kindNames = map[Kind]string{
	KindModule:              "Module",
	KindSuite:               "Suite",
	KindExpressionStatement: "ExpressionStatement",
	KindAssignment:          "Assignment",
	KindAugmentedAssign:     "AugmentedAssign",
	KindIf:                  "If",
	KindWhile:               "While",
	KindFor:                 "For",
	KindTry:                 "Try",
	KindFunctionDefinition:  "FunctionDefinition",
	KindClassDefinition:     "ClassDefinition",
	KindWith:                "With",
	KindImport:              "Import",
	KindFromImport:          "FromImport",
	KindGlobal:              "Global",
	KindNonlocal:            "Nonlocal",
	KindRaise:               "Raise",
	KindAssert:              "Assert",
	KindExec:                "Exec",
	KindDel:                 "Del",
	KindPass:                "Pass",
	KindBreak:               "Break",
	KindContinue:            "Continue",
	KindReturn:              "Return",
	KindPrint:               "Print",
	KindDecorated:           "Decorated",
	KindErrorStatement:      "ErrorStatement",
	KindEmptyStatement:      "EmptyStatement",
	KindClause:              "Clause",
	KindParameter:           "Parameter",
	KindArg:                 "Arg",
	KindDecorator:           "Decorator",
	KindComprehensionFor:    "ComprehensionFor",
	KindComprehensionIf:     "ComprehensionIf",
	KindDottedName:          "DottedName",
	KindImportName:          "ImportName",
	KindName:                "Name",
	KindConstant:            "Constant",
	KindString:              "String",
	KindBinary:              "Binary",
	KindUnary:               "Unary",
	KindCall:                "Call",
	KindIndex:               "Index",
	KindMember:              "Member",
	KindConditional:         "Conditional",
	KindLambda:              "Lambda",
	KindGenerator:           "Generator",
	KindListComprehension:   "ListComprehension",
	KindSetComprehension:    "SetComprehension",
	KindDictComprehension:   "DictComprehension",
	KindList:                "List",
	KindSet:                 "Set",
	KindDict:                "Dict",
	KindTuple:               "Tuple",
	KindParenthesis:         "Parenthesis",
	KindSlice:               "Slice",
	KindStarred:             "Starred",
	KindYield:               "Yield",
	KindYieldFrom:           "YieldFrom",
	KindAwait:               "Await",
	KindAs:                  "As",
	KindBackQuote:           "BackQuote",
	KindErrorExpression:     "ErrorExpression",
	KindEmptyExpression:     "EmptyExpression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is implemented by every tree node. The set of implementations is
// closed to this package.
type Node interface {
	Kind() Kind
	Span() token.SourceSpan
	BeforeNode() token.SourceSpan
	AfterNode() token.SourceSpan
	FullSpan() token.SourceSpan
	SetSpan(token.SourceSpan)
	SetBeforeNode(token.SourceSpan)
	SetAfterNode(token.SourceSpan)
	Freeze()
	IsFrozen() bool

	base() *nodeBase
}

// Statement is a node that can appear in a suite.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

type nodeBase struct {
	span   token.SourceSpan
	before token.SourceSpan
	after  token.SourceSpan
	frozen bool
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) Span() token.SourceSpan       { return b.span }
func (b *nodeBase) BeforeNode() token.SourceSpan { return b.before }
func (b *nodeBase) AfterNode() token.SourceSpan  { return b.after }
func (b *nodeBase) IsFrozen() bool               { return b.frozen }

// FullSpan covers the core text and both trivia spans.
func (b *nodeBase) FullSpan() token.SourceSpan {
	return b.span.Union(b.before).Union(b.after)
}

func (b *nodeBase) SetSpan(s token.SourceSpan) {
	b.checkMutable()
	b.span = s
}

func (b *nodeBase) SetBeforeNode(s token.SourceSpan) {
	b.checkMutable()
	b.before = s
}

func (b *nodeBase) SetAfterNode(s token.SourceSpan) {
	b.checkMutable()
	b.after = s
}

// Freeze ends construction. It is idempotent.
func (b *nodeBase) Freeze() { b.frozen = true }

func (b *nodeBase) checkMutable() {
	if b.frozen {
		panic(ErrFrozen)
	}
}

type stmtBase struct{ nodeBase }

func (*stmtBase) statementNode() {}

type exprBase struct{ nodeBase }

func (*exprBase) expressionNode() {}

// Module is the root of every tree.
type Module struct {
	nodeBase
	body *SuiteStatement
}

func NewModule(body *SuiteStatement) *Module { return &Module{body: body} }

func (*Module) Kind() Kind              { return KindModule }
func (n *Module) Body() *SuiteStatement { return n.body }

// Docstring returns the leading string constant of the module, if any.
func (n *Module) Docstring() (string, bool) {
	return docstring(n.body)
}

func docstring(body *SuiteStatement) (string, bool) {
	if body == nil || len(body.stmts) == 0 {
		return "", false
	}
	es, ok := body.stmts[0].(*ExpressionStatement)
	if !ok {
		return "", false
	}
	switch e := es.expr.(type) {
	case *ConstantExpression:
		return stringValue(e.value)
	case *StringExpression:
		return stringValue(e.Value())
	}
	return "", false
}

func stringValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return "", false
}

func clone[T any](s []T) []T { return slices.Clone(s) }
