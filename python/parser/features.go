package parser

import (
	"github.com/dhamidi/pyfront/python/token"
)

// FutureOptions is the set of `from __future__ import` features in
// effect.
type FutureOptions uint

const (
	FutureDivision FutureOptions = 1 << iota
	FutureAbsoluteImports
	FutureWithStatement
	FuturePrintFunction
	FutureUnicodeLiterals
	FutureGeneratorStop
	FutureGenerators
	FutureNestedScopes
)

var futureNames = map[string]FutureOptions{
	"division":         FutureDivision,
	"absolute_import":  FutureAbsoluteImports,
	"with_statement":   FutureWithStatement,
	"print_function":   FuturePrintFunction,
	"unicode_literals": FutureUnicodeLiterals,
	"generator_stop":   FutureGeneratorStop,
	"generators":       FutureGenerators,
	"nested_scopes":    FutureNestedScopes,
}

// LookupFuture returns the flag named by a __future__ import.
func LookupFuture(name string) (FutureOptions, bool) {
	f, ok := futureNames[name]
	return f, ok
}

// Has reports whether every flag in o is set.
func (f FutureOptions) Has(o FutureOptions) bool { return f&o == o }

// LanguageFeatures is the grammar matrix derived from a version and the
// future imports seen so far.
type LanguageFeatures struct {
	Version token.LanguageVersion
	Future  FutureOptions
}

func (f LanguageFeatures) is2x() bool                           { return f.Version.Is2x() }
func (f LanguageFeatures) is3x() bool                           { return f.Version.Is3x() }
func (f LanguageFeatures) atLeast(v token.LanguageVersion) bool { return f.Version.AtLeast(v) }

func (f LanguageFeatures) HasWith() bool {
	return f.atLeast(token.V26) || f.Future.Has(FutureWithStatement)
}

func (f LanguageFeatures) HasAs() bool                    { return f.HasWith() }
func (f LanguageFeatures) HasYieldFrom() bool             { return f.atLeast(token.V33) }
func (f LanguageFeatures) HasSetLiterals() bool           { return f.atLeast(token.V27) }
func (f LanguageFeatures) HasDictComprehension() bool     { return f.atLeast(token.V27) }
func (f LanguageFeatures) HasAsyncAwait() bool            { return f.atLeast(token.V35) }
func (f LanguageFeatures) HasAnnotations() bool           { return f.is3x() }
func (f LanguageFeatures) HasStarUnpacking() bool         { return f.is3x() }
func (f LanguageFeatures) HasGeneralUnpacking() bool      { return f.atLeast(token.V35) }
func (f LanguageFeatures) HasSublistParameters() bool     { return f.is2x() }
func (f LanguageFeatures) HasBareStarParameter() bool     { return f.is3x() }
func (f LanguageFeatures) HasKeywordOnlyArgs() bool       { return f.is3x() }
func (f LanguageFeatures) HasExecStatement() bool         { return f.is2x() }
func (f LanguageFeatures) HasConstantBooleans() bool      { return f.is3x() }
func (f LanguageFeatures) HasBytePrefix() bool            { return f.atLeast(token.V26) }
func (f LanguageFeatures) HasClassDecorators() bool       { return f.atLeast(token.V26) }
func (f LanguageFeatures) HasNonlocal() bool              { return f.is3x() }
func (f LanguageFeatures) HasOctalPrefix() bool           { return f.atLeast(token.V26) }
func (f LanguageFeatures) HasBinaryLiterals() bool        { return f.atLeast(token.V26) }
func (f LanguageFeatures) HasLongSuffix() bool            { return f.is2x() }
func (f LanguageFeatures) HasBackquote() bool             { return f.is2x() }
func (f LanguageFeatures) HasLessGreater() bool           { return f.is2x() }
func (f LanguageFeatures) HasMatMultiply() bool           { return f.atLeast(token.V35) }
func (f LanguageFeatures) HasExceptAs() bool              { return f.atLeast(token.V26) }
func (f LanguageFeatures) HasRaiseFrom() bool             { return f.is3x() }
func (f LanguageFeatures) HasTryExceptFinally() bool      { return f.atLeast(token.V25) }
func (f LanguageFeatures) HasConditionalExpression() bool { return f.atLeast(token.V25) }
func (f LanguageFeatures) HasFormattedStrings() bool      { return f.atLeast(token.V36) }

// HasReturnValueInGenerator reports whether `return value` is allowed in
// a generator.
func (f LanguageFeatures) HasReturnValueInGenerator() bool { return f.atLeast(token.V33) }

func (f LanguageFeatures) HasPrintFunction() bool {
	return f.is3x() || f.Future.Has(FuturePrintFunction)
}

func (f LanguageFeatures) HasTrueDivision() bool {
	return f.is3x() || f.Future.Has(FutureDivision)
}

// HasUnicodePrefix reports whether u'' is legal; 3.0 to 3.2 rejected it.
func (f LanguageFeatures) HasUnicodePrefix() bool {
	return f.is2x() || f.atLeast(token.V33)
}

// HasUnicodeLiterals reports whether unprefixed strings are text.
func (f LanguageFeatures) HasUnicodeLiterals() bool {
	return f.is3x() || f.Future.Has(FutureUnicodeLiterals)
}
