package semantic

import (
	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
)

// Phase names a stage of Check.
type Phase string

const (
	PhaseSymbols Phase = "symbols"
	PhaseCycles  Phase = "cycles"
	PhaseTypes   Phase = "types"
)

// Result is the outcome of CheckPhases: the diagnostics and the phase that
// produced them. When Errors is empty, Phase is PhaseTypes and every phase ran.
type Result struct {
	Phase   Phase
	Errors  report.ErrorList
	Symbols *SymbolTable
	Graph   *DependencyGraph
}

// Check validates form and returns every diagnostic found. An empty list
// means the form may be rendered.
//
// Phases run in order and each gates the next: symbol resolution, then
// dependency resolution with cycle detection, then type checking. The first
// phase that reports anything ends the check with its own diagnostics.
func Check(form *ast.Form) report.ErrorList {
	return CheckPhases(form).Errors
}

// CheckPhases is Check, also returning which phase stopped the pipeline and
// the intermediate tables built so far.
func CheckPhases(form *ast.Form) Result {
	symbols, errs := ResolveSymbols(form)
	if errs.HasErrors() {
		return Result{Phase: PhaseSymbols, Errors: errs, Symbols: symbols}
	}

	graph := ResolveDependencies(form, symbols)
	if errs := CheckCycles(graph); errs.HasErrors() {
		return Result{Phase: PhaseCycles, Errors: errs, Symbols: symbols, Graph: graph}
	}

	return Result{
		Phase:   PhaseTypes,
		Errors:  CheckTypes(form, symbols),
		Symbols: symbols,
		Graph:   graph,
	}
}
