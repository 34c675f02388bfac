// Package parser builds a lossless, error-tolerant syntax tree from a
// tokenization of Python 2.4 through 3.6 source.
//
// # Overview
//
// The parser reads the flattened token stream of a tokenizer.Tokenization
// with a lazily grown lookahead buffer and a single cursor. It never
// backtracks: every decision is made by peeking at most a few tokens past
// the cursor. Malformed input never fails a parse; the result is always a
// tree plus diagnostics.
//
// # Architecture
//
//	┌──────────────┐     ┌──────────────┐     ┌──────────────┐
//	│   Document   │────▶│  Tokenizer   │────▶│    Parser    │
//	│   (bytes)    │     │ (per line)   │     │  (ast.Module)│
//	└──────────────┘     └──────────────┘     └──────────────┘
//	                            │                    │
//	                            ▼                    ▼
//	                     ┌──────────────┐     ┌──────────────┐
//	                     │   Encoding   │     │ Diagnostics  │
//	                     │  Detection   │     │  (ErrorSink) │
//	                     └──────────────┘     └──────────────┘
//
// # Usage
//
//	tz := tokenizer.TokenizeString(src, token.V36, tokenizer.Options{})
//	tree, err := parser.New(tz).Parse(ctx, diag.NullSink{})
//
// or, in one step:
//
//	tree, diags := parser.ParseString(src, parser.WithVersion(token.V27))
//
// # Trivia
//
// Every node records the whitespace and comments read immediately before
// it (BeforeNode) and, for simple statements, the comment trailing it on
// its line (AfterNode). A statement's BeforeNode also holds the blank
// lines and indentation that precede it. Text between a node's children
// belongs to the node itself, so printing before, core and after spans in
// a pre-order walk reproduces the source byte for byte.
//
// # Indentation
//
// Block structure comes from the SignificantWhitespace token that opens
// every logical line. Widths count a tab as eight columns. A line deeper
// than its block is reported as "unexpected indent" and parsed anyway; a
// dedent to a width that matches no enclosing block is reported once and
// closes the block. Indentation of the right width but different
// spelling is reported as "inconsistent whitespace" at the configured
// severity.
//
// # Error Recovery
//
// A statement that cannot be parsed is abandoned at the point of failure:
//
//  1. The failure is recorded with its message and span.
//  2. Tokens are skipped to the end of the logical line.
//  3. An ErrorStatement covers the skipped text. If the broken line was a
//     compound header, the indented block after it becomes the
//     ErrorStatement's body.
//
// Missing operands become EmptyExpression nodes and invalid tokens become
// ErrorExpression nodes, so most errors do not abandon the statement.
//
// # Language Versions
//
// The parser accepts the union of the supported grammars. LanguageFeatures
// decides which constructs are legal for the requested version and the
// __future__ imports seen so far; a construct from another version still
// parses into a normal node and adds a diagnostic with diag.CodeVersion.
//
// # Limits
//
// Statement and expression nesting is bounded by WithMaxDepth. Exceeding
// it reports "nesting too deep" and abandons the statement. Parse checks
// its context between statements and returns ctx.Err() on cancellation.
package parser
