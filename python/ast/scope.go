package ast

import "slices"

// Scope is a definition that opens a lexical scope. The parser records
// declarations and assignments on it while reading the body.
type Scope interface {
	Node
	AddGlobal(name string)
	AddNonlocal(name string)
	AddLocal(name string)
	MarkGenerator()
	IsGenerator() bool
	Globals() []string
	Nonlocals() []string
	Locals() []string
	IsGlobal(name string) bool
	IsNonlocal(name string) bool
	IsLocal(name string) bool
}

type scopeBase struct {
	nodeBase
	generator bool
	globals   []string
	nonlocals []string
	locals    []string
}

func addName(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}

func (s *scopeBase) AddGlobal(name string) {
	s.checkMutable()
	s.globals = addName(s.globals, name)
}

func (s *scopeBase) AddNonlocal(name string) {
	s.checkMutable()
	s.nonlocals = addName(s.nonlocals, name)
}

func (s *scopeBase) AddLocal(name string) {
	s.checkMutable()
	s.locals = addName(s.locals, name)
}

func (s *scopeBase) MarkGenerator() {
	s.checkMutable()
	s.generator = true
}

func (s *scopeBase) IsGenerator() bool           { return s.generator }
func (s *scopeBase) Globals() []string           { return clone(s.globals) }
func (s *scopeBase) Nonlocals() []string         { return clone(s.nonlocals) }
func (s *scopeBase) Locals() []string            { return clone(s.locals) }
func (s *scopeBase) IsGlobal(name string) bool   { return slices.Contains(s.globals, name) }
func (s *scopeBase) IsNonlocal(name string) bool { return slices.Contains(s.nonlocals, name) }
func (s *scopeBase) IsLocal(name string) bool    { return slices.Contains(s.locals, name) }
