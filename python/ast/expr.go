package ast

import (
	"bytes"
	"strings"

	"github.com/dhamidi/pyfront/python/token"
)

type NameExpression struct {
	exprBase
	name string
}

func NewName(name string) *NameExpression { return &NameExpression{name: name} }

func (*NameExpression) Kind() Kind     { return KindName }
func (n *NameExpression) Name() string { return n.name }

// ConstantExpression is a literal. Value is one of int, *big.Int,
// float64, complex128, string, []byte or a *token.Singleton.
type ConstantExpression struct {
	exprBase
	value any
}

func NewConstant(value any) *ConstantExpression { return &ConstantExpression{value: value} }

func (*ConstantExpression) Kind() Kind   { return KindConstant }
func (n *ConstantExpression) Value() any { return n.value }

// IsNone reports whether n is the None constant.
func (n *ConstantExpression) IsNone() bool { return n.value == token.NoneValue }

// StringExpression is implicit concatenation of adjacent literals. Each
// physical literal is kept as its own part.
type StringExpression struct {
	exprBase
	parts []*ConstantExpression
}

func NewString(parts []*ConstantExpression) *StringExpression { return &StringExpression{parts: parts} }

func (*StringExpression) Kind() Kind                     { return KindString }
func (n *StringExpression) Parts() []*ConstantExpression { return clone(n.parts) }

// Value concatenates the parts. Mixed text and bytes parts yield text.
func (n *StringExpression) Value() any {
	allBytes := len(n.parts) > 0
	for _, p := range n.parts {
		if _, ok := p.value.([]byte); !ok {
			allBytes = false
		}
	}
	if allBytes {
		var b bytes.Buffer
		for _, p := range n.parts {
			b.Write(p.value.([]byte))
		}
		return b.Bytes()
	}
	var s strings.Builder
	for _, p := range n.parts {
		switch v := p.value.(type) {
		case string:
			s.WriteString(v)
		case []byte:
			s.Write(v)
		}
	}
	return s.String()
}

type BinaryExpression struct {
	exprBase
	op          token.Kind
	left, right Expression
}

func NewBinary(op token.Kind, left, right Expression) *BinaryExpression {
	return &BinaryExpression{op: op, left: left, right: right}
}

func (*BinaryExpression) Kind() Kind             { return KindBinary }
func (n *BinaryExpression) Operator() token.Kind { return n.op }
func (n *BinaryExpression) Left() Expression     { return n.left }
func (n *BinaryExpression) Right() Expression    { return n.right }

type UnaryExpression struct {
	exprBase
	op      token.Kind
	operand Expression
}

func NewUnary(op token.Kind, operand Expression) *UnaryExpression {
	return &UnaryExpression{op: op, operand: operand}
}

func (*UnaryExpression) Kind() Kind             { return KindUnary }
func (n *UnaryExpression) Operator() token.Kind { return n.op }
func (n *UnaryExpression) Operand() Expression  { return n.operand }

// ArgKind tells how an argument is passed.
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgKeyword
	ArgList
	ArgDict
)

// Arg is one call argument or class base.
type Arg struct {
	nodeBase
	kind  ArgKind
	name  *NameExpression
	value Expression
}

func NewArg(kind ArgKind, name *NameExpression, value Expression) *Arg {
	return &Arg{kind: kind, name: name, value: value}
}

func (*Arg) Kind() Kind              { return KindArg }
func (n *Arg) ArgKind() ArgKind      { return n.kind }
func (n *Arg) Name() *NameExpression { return n.name }
func (n *Arg) Value() Expression     { return n.value }

type CallExpression struct {
	exprBase
	target Expression
	args   []*Arg
}

func NewCall(target Expression, args []*Arg) *CallExpression {
	return &CallExpression{target: target, args: args}
}

func (*CallExpression) Kind() Kind           { return KindCall }
func (n *CallExpression) Target() Expression { return n.target }
func (n *CallExpression) Args() []*Arg       { return clone(n.args) }

type IndexExpression struct {
	exprBase
	target, index Expression
}

func NewIndex(target, index Expression) *IndexExpression {
	return &IndexExpression{target: target, index: index}
}

func (*IndexExpression) Kind() Kind           { return KindIndex }
func (n *IndexExpression) Target() Expression { return n.target }
func (n *IndexExpression) Index() Expression  { return n.index }

type MemberExpression struct {
	exprBase
	target Expression
	name   *NameExpression
}

func NewMember(target Expression, name *NameExpression) *MemberExpression {
	return &MemberExpression{target: target, name: name}
}

func (*MemberExpression) Kind() Kind              { return KindMember }
func (n *MemberExpression) Target() Expression    { return n.target }
func (n *MemberExpression) Name() *NameExpression { return n.name }

// ConditionalExpression is `trueExpr if test else falseExpr`.
type ConditionalExpression struct {
	exprBase
	trueExpr, test, falseExpr Expression
}

func NewConditional(trueExpr, test, falseExpr Expression) *ConditionalExpression {
	return &ConditionalExpression{trueExpr: trueExpr, test: test, falseExpr: falseExpr}
}

func (*ConditionalExpression) Kind() Kind                    { return KindConditional }
func (n *ConditionalExpression) TrueExpression() Expression  { return n.trueExpr }
func (n *ConditionalExpression) Test() Expression            { return n.test }
func (n *ConditionalExpression) FalseExpression() Expression { return n.falseExpr }

// LambdaExpression is also a scope: yield inside a lambda makes it a
// generator.
type LambdaExpression struct {
	scopeBase
	params []*Parameter
	body   Expression
}

func NewLambda(params []*Parameter) *LambdaExpression { return &LambdaExpression{params: params} }

func (*LambdaExpression) expressionNode()            {}
func (*LambdaExpression) Kind() Kind                 { return KindLambda }
func (n *LambdaExpression) Parameters() []*Parameter { return clone(n.params) }
func (n *LambdaExpression) Body() Expression         { return n.body }

func (n *LambdaExpression) SetBody(body Expression) {
	n.checkMutable()
	n.body = body
}

// ParameterKind tells how a parameter receives its argument.
type ParameterKind int

const (
	ParameterNormal ParameterKind = iota
	ParameterList
	ParameterDict
	// ParameterKeywordMarker is the bare * separating keyword-only
	// parameters.
	ParameterKeywordMarker
	// ParameterSublist is a 2.x tuple parameter such as (a, b).
	ParameterSublist
)

type Parameter struct {
	nodeBase
	kind       ParameterKind
	name       *NameExpression
	sublist    Expression
	annotation Expression
	def        Expression
}

func NewParameter(kind ParameterKind, name *NameExpression, annotation, def Expression) *Parameter {
	return &Parameter{kind: kind, name: name, annotation: annotation, def: def}
}

// NewSublistParameter wraps a 2.x tuple parameter.
func NewSublistParameter(sublist Expression, def Expression) *Parameter {
	return &Parameter{kind: ParameterSublist, sublist: sublist, def: def}
}

func (*Parameter) Kind() Kind                     { return KindParameter }
func (n *Parameter) ParameterKind() ParameterKind { return n.kind }
func (n *Parameter) Name() *NameExpression        { return n.name }
func (n *Parameter) Sublist() Expression          { return n.sublist }
func (n *Parameter) Annotation() Expression       { return n.annotation }
func (n *Parameter) Default() Expression          { return n.def }

// ComprehensionIterator is a for or if clause of a comprehension.
type ComprehensionIterator interface {
	Node
	comprehensionNode()
}

type ComprehensionFor struct {
	nodeBase
	target, iter Expression
	async        bool
}

func NewComprehensionFor(target, iter Expression, async bool) *ComprehensionFor {
	return &ComprehensionFor{target: target, iter: iter, async: async}
}

func (*ComprehensionFor) comprehensionNode()   {}
func (*ComprehensionFor) Kind() Kind           { return KindComprehensionFor }
func (n *ComprehensionFor) Target() Expression { return n.target }
func (n *ComprehensionFor) Iter() Expression   { return n.iter }
func (n *ComprehensionFor) IsAsync() bool      { return n.async }

type ComprehensionIf struct {
	nodeBase
	test Expression
}

func NewComprehensionIf(test Expression) *ComprehensionIf { return &ComprehensionIf{test: test} }

func (*ComprehensionIf) comprehensionNode() {}
func (*ComprehensionIf) Kind() Kind         { return KindComprehensionIf }
func (n *ComprehensionIf) Test() Expression { return n.test }

type comprehension struct {
	exprBase
	element   Expression
	iterators []ComprehensionIterator
}

func (n *comprehension) Element() Expression                { return n.element }
func (n *comprehension) Iterators() []ComprehensionIterator { return clone(n.iterators) }

type GeneratorExpression struct{ comprehension }

func NewGenerator(element Expression, iterators []ComprehensionIterator) *GeneratorExpression {
	return &GeneratorExpression{comprehension{element: element, iterators: iterators}}
}

func (*GeneratorExpression) Kind() Kind { return KindGenerator }

type ListComprehension struct{ comprehension }

func NewListComprehension(element Expression, iterators []ComprehensionIterator) *ListComprehension {
	return &ListComprehension{comprehension{element: element, iterators: iterators}}
}

func (*ListComprehension) Kind() Kind { return KindListComprehension }

type SetComprehension struct{ comprehension }

func NewSetComprehension(element Expression, iterators []ComprehensionIterator) *SetComprehension {
	return &SetComprehension{comprehension{element: element, iterators: iterators}}
}

func (*SetComprehension) Kind() Kind { return KindSetComprehension }

type DictComprehension struct {
	exprBase
	key, value Expression
	iterators  []ComprehensionIterator
}

func NewDictComprehension(key, value Expression, iterators []ComprehensionIterator) *DictComprehension {
	return &DictComprehension{key: key, value: value, iterators: iterators}
}

func (*DictComprehension) Kind() Kind                           { return KindDictComprehension }
func (n *DictComprehension) Key() Expression                    { return n.key }
func (n *DictComprehension) Value() Expression                  { return n.value }
func (n *DictComprehension) Iterators() []ComprehensionIterator { return clone(n.iterators) }

type sequence struct {
	exprBase
	items []Expression
}

func (n *sequence) Items() []Expression { return clone(n.items) }

type ListExpression struct{ sequence }

func NewList(items []Expression) *ListExpression { return &ListExpression{sequence{items: items}} }
func (*ListExpression) Kind() Kind               { return KindList }

type SetExpression struct{ sequence }

func NewSet(items []Expression) *SetExpression { return &SetExpression{sequence{items: items}} }
func (*SetExpression) Kind() Kind              { return KindSet }

// DictionaryExpression items are SliceExpressions holding key and value,
// or double StarredExpressions for **mapping.
type DictionaryExpression struct{ sequence }

func NewDictionary(items []Expression) *DictionaryExpression {
	return &DictionaryExpression{sequence{items: items}}
}

func (*DictionaryExpression) Kind() Kind { return KindDict }

type TupleExpression struct {
	sequence
	parenthesized bool
}

func NewTuple(items []Expression, parenthesized bool) *TupleExpression {
	return &TupleExpression{sequence: sequence{items: items}, parenthesized: parenthesized}
}

func (*TupleExpression) Kind() Kind              { return KindTuple }
func (n *TupleExpression) IsParenthesized() bool { return n.parenthesized }

// ParenthesisExpression is a parenthesized single expression.
type ParenthesisExpression struct {
	exprBase
	expr Expression
}

func NewParenthesis(e Expression) *ParenthesisExpression { return &ParenthesisExpression{expr: e} }

func (*ParenthesisExpression) Kind() Kind               { return KindParenthesis }
func (n *ParenthesisExpression) Expression() Expression { return n.expr }

// SliceExpression is start:stop:step; absent parts are nil.
type SliceExpression struct {
	exprBase
	start, stop, step Expression
	stepColon         bool
}

func NewSlice(start, stop, step Expression, stepColon bool) *SliceExpression {
	return &SliceExpression{start: start, stop: stop, step: step, stepColon: stepColon}
}

func (*SliceExpression) Kind() Kind          { return KindSlice }
func (n *SliceExpression) Start() Expression { return n.start }
func (n *SliceExpression) Stop() Expression  { return n.stop }
func (n *SliceExpression) Step() Expression  { return n.step }

// HasStepColon reports whether a second colon was written.
func (n *SliceExpression) HasStepColon() bool { return n.stepColon }

// StarredExpression is *value, or **value when Double.
type StarredExpression struct {
	exprBase
	value  Expression
	double bool
}

func NewStarred(value Expression, double bool) *StarredExpression {
	return &StarredExpression{value: value, double: double}
}

func (*StarredExpression) Kind() Kind          { return KindStarred }
func (n *StarredExpression) Value() Expression { return n.value }
func (n *StarredExpression) IsDouble() bool    { return n.double }

type YieldExpression struct {
	exprBase
	value Expression
}

func NewYield(value Expression) *YieldExpression { return &YieldExpression{value: value} }

func (*YieldExpression) Kind() Kind          { return KindYield }
func (n *YieldExpression) Value() Expression { return n.value }

type YieldFromExpression struct {
	exprBase
	value Expression
}

func NewYieldFrom(value Expression) *YieldFromExpression { return &YieldFromExpression{value: value} }

func (*YieldFromExpression) Kind() Kind          { return KindYieldFrom }
func (n *YieldFromExpression) Value() Expression { return n.value }

type AwaitExpression struct {
	exprBase
	value Expression
}

func NewAwait(value Expression) *AwaitExpression { return &AwaitExpression{value: value} }

func (*AwaitExpression) Kind() Kind          { return KindAwait }
func (n *AwaitExpression) Value() Expression { return n.value }

// AsExpression is `expr as target` in with items.
type AsExpression struct {
	exprBase
	expr, target Expression
}

func NewAs(e, target Expression) *AsExpression { return &AsExpression{expr: e, target: target} }

func (*AsExpression) Kind() Kind               { return KindAs }
func (n *AsExpression) Expression() Expression { return n.expr }
func (n *AsExpression) Target() Expression     { return n.target }

// BackQuoteExpression is the 2.x `expr` repr form.
type BackQuoteExpression struct {
	exprBase
	value Expression
}

func NewBackQuote(value Expression) *BackQuoteExpression { return &BackQuoteExpression{value: value} }

func (*BackQuoteExpression) Kind() Kind          { return KindBackQuote }
func (n *BackQuoteExpression) Value() Expression { return n.value }

// ErrorExpression covers tokens that do not form an expression.
type ErrorExpression struct{ exprBase }

func NewErrorExpression() *ErrorExpression { return &ErrorExpression{} }
func (*ErrorExpression) Kind() Kind        { return KindErrorExpression }

// EmptyExpression is a zero-width placeholder for a missing expression.
type EmptyExpression struct{ exprBase }

func NewEmptyExpression() *EmptyExpression { return &EmptyExpression{} }
func (*EmptyExpression) Kind() Kind        { return KindEmptyExpression }
