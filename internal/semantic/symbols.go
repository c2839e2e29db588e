// Package semantic implements the static analysis of a QL form: symbol
// resolution, dependency resolution, cycle detection and type checking.
//
// Every phase is a pure function over the immutable tree. Diagnostics are
// accumulated in a report.ErrorList threaded through recursive calls by
// value; nothing in this package logs or returns a Go error for a problem
// in the form.
package semantic

import (
	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
)

// Symbol is one declared question id.
type Symbol struct {
	Name  string
	Type  ast.Type
	Index int     // dense index in declaration order, used by the dependency graph
	Pos   ast.Pos // position of the binding declaration
}

// SymbolTable maps every declared question id to its declared type. It is
// read-only once ResolveSymbols returns.
type SymbolTable struct {
	symbols []Symbol
	byName  map[string]int
}

// ResolveSymbols visits every Question and CalculatedQuestion at any nesting
// depth and binds its id. The first declaration of an id wins; each later one
// records a DuplicateDeclaration pointing back at it. When the returned list
// has errors the caller must not proceed to later phases.
func ResolveSymbols(form *ast.Form) (*SymbolTable, report.ErrorList) {
	st := &SymbolTable{byName: make(map[string]int)}
	var errs report.ErrorList

	ast.WalkStatements(form.Statements, func(s ast.Statement) {
		switch q := s.(type) {
		case *ast.Question:
			errs = st.declare(errs, form.File, q.ID, q.Type, q.Pos)
		case *ast.CalculatedQuestion:
			errs = st.declare(errs, form.File, q.ID, q.Type, q.Pos)
		case *ast.Condition:
			// bodies are visited by WalkStatements
		}
	})

	return st, errs
}

func (st *SymbolTable) declare(errs report.ErrorList, file, name string, t ast.Type, pos ast.Pos) report.ErrorList {
	if i, ok := st.byName[name]; ok {
		return errs.Add(report.DuplicateDeclaration(
			locate(file, pos), name, locate(file, st.symbols[i].Pos)))
	}
	st.byName[name] = len(st.symbols)
	st.symbols = append(st.symbols, Symbol{Name: name, Type: t, Index: len(st.symbols), Pos: pos})
	return errs
}

// Lookup returns the symbol bound to name.
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := st.byName[name]
	if !ok {
		return Symbol{}, false
	}
	return st.symbols[i], true
}

// TypeOf returns the declared type of name, or Undefined if name is not declared.
func (st *SymbolTable) TypeOf(name string) ast.Type {
	if s, ok := st.Lookup(name); ok {
		return s.Type
	}
	return ast.Undefined
}

// Index returns the dense index of name.
func (st *SymbolTable) Index(name string) (int, bool) {
	i, ok := st.byName[name]
	return i, ok
}

// Len returns the number of declared ids.
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}

// Symbols returns the declared symbols in declaration order.
func (st *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, len(st.symbols))
	copy(out, st.symbols)
	return out
}

func locate(file string, pos ast.Pos) report.Location {
	return report.Location{File: file, Line: pos.Line, Column: pos.Column}
}
