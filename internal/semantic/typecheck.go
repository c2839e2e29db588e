package semantic

import (
	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
)

// typeChecker walks a form whose symbols resolved cleanly and whose
// dependency graph is acyclic. It never stops early: every statement and
// every independent subexpression is visited.
type typeChecker struct {
	file    string
	symbols *SymbolTable
}

// CheckTypes runs the type-directed traversal over every statement of form
// and returns all diagnostics found. It assumes ResolveSymbols and
// CheckCycles reported nothing; Check enforces that order.
func CheckTypes(form *ast.Form, symbols *SymbolTable) report.ErrorList {
	tc := &typeChecker{file: form.File, symbols: symbols}
	return tc.statements(nil, form.Statements)
}

func (tc *typeChecker) statements(errs report.ErrorList, stmts []ast.Statement) report.ErrorList {
	for _, s := range stmts {
		errs = tc.statement(errs, s)
	}
	return errs
}

func (tc *typeChecker) statement(errs report.ErrorList, s ast.Statement) report.ErrorList {
	switch n := s.(type) {
	case *ast.Question:
		return errs
	case *ast.CalculatedQuestion:
		var t ast.Type
		t, errs = tc.expr(errs, n.Expr)
		if t.IsUndefined() {
			return errs
		}
		if t.Promote() != n.Type.Promote() {
			errs = errs.Add(report.TypeMismatch(tc.loc(n), n.ID, n.Type.String(), t.String()))
		}
		return errs
	case *ast.Condition:
		var t ast.Type
		t, errs = tc.expr(errs, n.Guard)
		if t != ast.Boolean {
			errs = errs.Add(report.InvalidConditionType(tc.loc(n), t.String()))
		}
		return tc.statements(errs, n.Body)
	default:
		return errs
	}
}

func (tc *typeChecker) expr(errs report.ErrorList, e ast.Expr) (ast.Type, report.ErrorList) {
	switch n := e.(type) {
	case *ast.BooleanLiteral:
		return ast.Boolean, errs
	case *ast.IntegerLiteral:
		return ast.Integer, errs
	case *ast.DecimalLiteral:
		return ast.Decimal, errs
	case *ast.StringLiteral:
		return ast.String, errs
	case *ast.Reference:
		if s, ok := tc.symbols.Lookup(n.Name); ok {
			return s.Type, errs
		}
		return ast.Undefined, errs.Add(report.UndefinedReference(tc.loc(n), n.Name))
	case *ast.Unary:
		return tc.unary(errs, n)
	case *ast.Binary:
		return tc.binary(errs, n)
	default:
		return ast.Undefined, errs
	}
}

func (tc *typeChecker) unary(errs report.ErrorList, n *ast.Unary) (ast.Type, report.ErrorList) {
	mark := len(errs)
	var t ast.Type
	t, errs = tc.expr(errs, n.X)
	if t.IsUndefined() {
		return ast.Undefined, tc.undefinedOperand(errs, mark, n.X)
	}
	return tc.defineType(errs, n, t, unaryAllowed(n.Op), n.Op.String())
}

func (tc *typeChecker) binary(errs report.ErrorList, n *ast.Binary) (ast.Type, report.ErrorList) {
	mark := len(errs)
	var lt, rt ast.Type
	lt, errs = tc.expr(errs, n.Left)
	leftMark := len(errs)
	rt, errs = tc.expr(errs, n.Right)

	if lt.IsUndefined() || rt.IsUndefined() {
		if lt.IsUndefined() {
			errs = tc.undefinedOperand(errs, mark, n.Left)
		}
		if rt.IsUndefined() {
			errs = tc.undefinedOperand(errs, leftMark, n.Right)
		}
		return ast.Undefined, errs
	}

	allowed := binaryAllowed(n.Op)
	operand := lt
	if lt != rt {
		if lt.Promote() != rt.Promote() {
			errs = errs.Add(report.InvalidOperandType(tc.loc(n), n.Op.String(), lt.String(), rt.String()))
			for _, t := range distinct(lt, rt) {
				if !t.IsIn(allowed...) {
					errs = errs.Add(report.TypeNotAllowed(tc.loc(n), t.String(), n.Op.String()))
				}
			}
			return ast.Undefined, errs
		}
		operand = lt.Promote()
	}

	var t ast.Type
	t, errs = tc.defineType(errs, n, operand, allowed, n.Op.String())
	if t.IsUndefined() {
		return t, errs
	}
	if n.Op.IsComparison() {
		return ast.Boolean, errs
	}
	return t, errs
}

// defineType validates t against the operator's allowed set.
func (tc *typeChecker) defineType(errs report.ErrorList, n ast.Node, t ast.Type, allowed []ast.Type, operator string) (ast.Type, report.ErrorList) {
	if t.IsIn(allowed...) {
		return t, errs
	}
	return ast.Undefined, errs.Add(report.TypeNotAllowed(tc.loc(n), t.String(), operator))
}

// undefinedOperand records that operand has no type. An operand that already
// reported itself as an undefined reference at the same position (the
// findings added since mark) is not reported twice.
func (tc *typeChecker) undefinedOperand(errs report.ErrorList, mark int, operand ast.Expr) report.ErrorList {
	loc := tc.loc(operand)
	for _, f := range errs[mark:] {
		if f.Kind == report.KindUndefinedReference && f.Location == loc {
			return errs
		}
	}
	return errs.Add(report.UndefinedReference(loc, operand.String()))
}

func (tc *typeChecker) loc(n ast.Node) report.Location {
	return locate(tc.file, n.Position())
}

func unaryAllowed(op ast.UnaryOp) []ast.Type {
	if op == ast.Not {
		return []ast.Type{ast.Boolean}
	}
	return ast.NumericTypes
}

func binaryAllowed(op ast.BinaryOp) []ast.Type {
	switch op {
	case ast.Addition:
		return ast.AlphaNumericTypes
	case ast.Subtraction, ast.Multiply, ast.Divide, ast.Modulo, ast.Power:
		return ast.NumericTypes
	case ast.And, ast.Or:
		return []ast.Type{ast.Boolean}
	case ast.Equal, ast.NotEqual:
		return ast.AllTypes
	default:
		return ast.AlphaNumericTypes
	}
}

func distinct(a, b ast.Type) []ast.Type {
	if a == b {
		return []ast.Type{a}
	}
	return []ast.Type{a, b}
}
