package ast

import (
	"errors"
	"testing"

	"github.com/dhamidi/pyfront/python/token"
)

func allNodes() []Node {
	name := NewName("x")
	c := NewConstant(1)
	suite := NewSuite([]Statement{NewPass()})
	return []Node{
		NewModule(suite),
		suite,
		NewExpressionStatement(name),
		NewAssignment([]Expression{name}, c),
		NewAugmentedAssign(token.Add, name, c),
		NewClause(token.KeywordElse, nil, nil, suite),
		NewIf(nil, nil),
		NewWhile(name, suite, nil),
		NewFor(name, name, suite, nil, false),
		NewTry(suite, nil, nil, nil),
		NewFunctionDefinition(name, nil, nil, false),
		NewClassDefinition(name, nil),
		NewWith(nil, suite, false),
		NewImport(nil),
		NewFromImport(0, nil, nil, true),
		NewGlobal(nil),
		NewNonlocal(nil),
		NewRaise(nil, nil, nil, nil),
		NewAssert(name, nil),
		NewExec(name, nil, nil),
		NewDel(nil),
		NewPass(),
		NewBreak(),
		NewContinue(),
		NewReturn(nil),
		NewPrint(nil, nil, false),
		NewDecoratorStatement(nil, nil),
		NewErrorStatement("bad"),
		NewEmptyStatement(),
		NewParameter(ParameterNormal, name, nil, nil),
		NewArg(ArgPositional, nil, name),
		NewDecorator(name),
		NewComprehensionFor(name, name, false),
		NewComprehensionIf(name),
		NewDottedName([]*NameExpression{name}),
		NewImportName(NewDottedName([]*NameExpression{name}), nil),
		name,
		c,
		NewString([]*ConstantExpression{NewConstant("a"), NewConstant("b")}),
		NewBinary(token.Add, name, c),
		NewUnary(token.Subtract, c),
		NewCall(name, nil),
		NewIndex(name, c),
		NewMember(name, NewName("y")),
		NewConditional(name, name, name),
		NewLambda(nil),
		NewGenerator(name, nil),
		NewListComprehension(name, nil),
		NewSetComprehension(name, nil),
		NewDictComprehension(name, name, nil),
		NewList(nil),
		NewSet(nil),
		NewDictionary(nil),
		NewTuple(nil, true),
		NewParenthesis(name),
		NewSlice(nil, nil, nil, false),
		NewStarred(name, false),
		NewYield(nil),
		NewYieldFrom(name),
		NewAwait(name),
		NewAs(name, name),
		NewBackQuote(name),
		NewErrorExpression(),
		NewEmptyExpression(),
	}
}

func TestEveryKindIsCovered(t *testing.T) {
	seen := map[Kind]bool{}
	for _, n := range allNodes() {
		seen[n.Kind()] = true
		if n.Kind().String() == "Unknown" {
			t.Errorf("%T has no kind name", n)
		}
		Children(n)
	}
	for k := Kind(0); k < kindCount; k++ {
		if !seen[k] {
			t.Errorf("no node of kind %v", k)
		}
	}
}

func expectFrozen(t *testing.T, label string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrFrozen) {
			t.Errorf("%s: got panic %v, want ErrFrozen", label, r)
		}
	}()
	f()
}

func TestFrozenNodesRejectMutation(t *testing.T) {
	for _, n := range allNodes() {
		t.Run(n.Kind().String(), func(t *testing.T) {
			n.SetSpan(token.EmptySpan(token.NewLocation(0, 1, 1)))
			n.Freeze()
			if !n.IsFrozen() {
				t.Fatalf("got IsFrozen false after Freeze")
			}
			span := token.EmptySpan(token.NewLocation(0, 1, 1))
			expectFrozen(t, "SetSpan", func() { n.SetSpan(span) })
			expectFrozen(t, "SetBeforeNode", func() { n.SetBeforeNode(span) })
			expectFrozen(t, "SetAfterNode", func() { n.SetAfterNode(span) })
			if s, ok := n.(Scope); ok {
				expectFrozen(t, "AddLocal", func() { s.AddLocal("a") })
				expectFrozen(t, "MarkGenerator", func() { s.MarkGenerator() })
			}
		})
	}
}

func TestFreezeAllReachesDescendants(t *testing.T) {
	inner := NewName("a")
	mod := NewModule(NewSuite([]Statement{
		NewExpressionStatement(NewBinary(token.Add, inner, NewConstant(1))),
	}))
	FreezeAll(mod)
	if !inner.IsFrozen() {
		t.Errorf("got leaf not frozen, want frozen")
	}
}

type recorder struct{ events []string }

func (r *recorder) Enter(n Node) bool {
	r.events = append(r.events, "+"+n.Kind().String())
	return n.Kind() != KindCall
}

func (r *recorder) Leave(n Node) { r.events = append(r.events, "-"+n.Kind().String()) }

func TestWalkOrder(t *testing.T) {
	stmt := NewAssignment(
		[]Expression{NewName("a")},
		NewBinary(token.Add, NewCall(NewName("f"), nil), NewConstant(2)),
	)
	r := &recorder{}
	Walk(r, stmt)
	want := []string{
		"+Assignment", "+Name", "-Name",
		"+Binary", "+Call", "-Call", "+Constant", "-Constant", "-Binary",
		"-Assignment",
	}
	if len(r.events) != len(want) {
		t.Fatalf("got %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, r.events[i], want[i])
		}
	}
}

func TestChildrenSkipsMissingParts(t *testing.T) {
	tests := []struct {
		node Node
		want int
	}{
		{NewRaise(nil, nil, nil, nil), 0},
		{NewRaise(NewName("E"), nil, nil, NewName("c")), 2},
		{NewSlice(nil, NewConstant(1), nil, true), 1},
		{NewIf([]*Clause{NewClause(token.KeywordIf, NewName("x"), nil, NewSuite(nil))}, nil), 1},
		{NewImportName(NewDottedName(nil), nil), 1},
	}
	for _, tt := range tests {
		t.Run(tt.node.Kind().String(), func(t *testing.T) {
			if got := len(Children(tt.node)); got != tt.want {
				t.Errorf("got %d children, want %d", got, tt.want)
			}
		})
	}
}

func TestStringValue(t *testing.T) {
	s := NewString([]*ConstantExpression{NewConstant("ab"), NewConstant("cd")})
	if got := s.Value(); got != "abcd" {
		t.Errorf("got %v, want abcd", got)
	}
	b := NewString([]*ConstantExpression{NewConstant([]byte("a")), NewConstant([]byte("b"))})
	if got, ok := b.Value().([]byte); !ok || string(got) != "ab" {
		t.Errorf("got %v, want bytes ab", b.Value())
	}
}

func TestDocstring(t *testing.T) {
	mod := NewModule(NewSuite([]Statement{
		NewExpressionStatement(NewConstant("hello")),
		NewPass(),
	}))
	got, ok := mod.Docstring()
	if !ok || got != "hello" {
		t.Errorf("got %q %v, want hello true", got, ok)
	}
	if _, ok := NewModule(NewSuite([]Statement{NewPass()})).Docstring(); ok {
		t.Errorf("got docstring for module starting with pass")
	}
}

func TestScopeRecordsNames(t *testing.T) {
	fn := NewFunctionDefinition(NewName("f"), nil, nil, false)
	fn.AddGlobal("g")
	fn.AddGlobal("g")
	fn.AddLocal("x")
	if got := fn.Globals(); len(got) != 1 || got[0] != "g" {
		t.Errorf("got globals %v, want [g]", got)
	}
	if !fn.IsLocal("x") || fn.IsLocal("g") {
		t.Errorf("got wrong local membership")
	}
	var _ Scope = fn
	var _ Scope = NewClassDefinition(nil, nil)
	var _ Scope = NewLambda(nil)
}
