package token

import "testing"

func TestParseVersion(t *testing.T) {
	for _, v := range Versions {
		got, err := ParseVersion(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVersion(%q) = %v, %v", v.String(), got, err)
		}
	}
	if _, err := ParseVersion("2.3"); err == nil {
		t.Errorf("2.3 was accepted")
	}
	if !V27.Is2x() || V27.Is3x() || !V36.AtLeast(V30) || V26.AtLeast(V27) {
		t.Errorf("version predicates are wrong")
	}
	var v LanguageVersion
	if err := v.UnmarshalText([]byte("3.4")); err != nil || v != V34 {
		t.Errorf("UnmarshalText: got %v, %v", v, err)
	}
}

func TestSpan(t *testing.T) {
	a := NewSpan(NewLocation(0, 1, 1), NewLocation(3, 1, 4))
	b := NewSpan(NewLocation(5, 1, 6), NewLocation(9, 2, 2))

	if a.Length() != 3 || !a.Contains(2) || a.Contains(3) {
		t.Errorf("span %v has the wrong extent", a)
	}
	u := a.Union(b)
	if u.Start.Index != 0 || u.End.Index != 9 {
		t.Errorf("union: got %v", u)
	}
	if got := NoSpan.Union(a); got != a {
		t.Errorf("none span was not absorbed: %v", got)
	}
	if !NoSpan.IsNone() || !NoSpan.IsEmpty() || NoSpan.Length() != 0 {
		t.Errorf("NoSpan is not empty")
	}
	if got := b.IndexSpan(); got.Start != 5 || got.End() != 9 {
		t.Errorf("index span: got %v", got)
	}
	if got := a.String(); got != "1:1-1:4" {
		t.Errorf("got %q, want %q", got, "1:1-1:4")
	}
}

func TestNewSpanPanicsOnReversedBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic")
		}
	}()
	NewSpan(NewLocation(4, 1, 5), NewLocation(2, 1, 3))
}

func TestKinds(t *testing.T) {
	if LookupKeyword("def") != KeywordDef {
		t.Errorf("def is not a keyword")
	}
	if LookupKeyword("spam") != Name {
		t.Errorf("spam is a keyword")
	}
	if !AddEqual.IsAugmentedAssign() || AddEqual.AugmentedOperator() != Add {
		t.Errorf("+= does not map to +")
	}
	if !Comment.IsTrivia() || Name.IsTrivia() {
		t.Errorf("trivia classification is wrong")
	}
	if !Decimal.IsLiteral() || !LeftSingleQuote.IsLiteral() || Name.IsLiteral() {
		t.Errorf("literal classification is wrong")
	}
	if Add.Precedence() == 0 {
		t.Errorf("+ has no precedence")
	}
}
