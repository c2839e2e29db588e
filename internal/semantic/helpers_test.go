package semantic

import (
	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
)

// --- Test helpers ---
//
// Builders take the source line as their first argument; the column is
// always 1. Tests give every node a distinct line so diagnostics can be
// matched by position.

const testFile = "test.ql.json"

func form(stmts ...ast.Statement) *ast.Form {
	return &ast.Form{Name: "test", File: testFile, Statements: stmts}
}

func question(line int, id string, t ast.Type) *ast.Question {
	return &ast.Question{Pos: at(line), ID: id, Type: t, Label: id + "?"}
}

func calculated(line int, id string, t ast.Type, e ast.Expr) *ast.CalculatedQuestion {
	return &ast.CalculatedQuestion{Pos: at(line), ID: id, Type: t, Label: id + "?", Expr: e}
}

func condition(line int, guard ast.Expr, body ...ast.Statement) *ast.Condition {
	return &ast.Condition{Pos: at(line), Guard: guard, Body: body}
}

func ref(line int, name string) *ast.Reference {
	return &ast.Reference{Pos: at(line), Name: name}
}

func boolLit(line int, v bool) *ast.BooleanLiteral {
	return &ast.BooleanLiteral{Pos: at(line), Value: v}
}

func intLit(line int, v int64) *ast.IntegerLiteral {
	return &ast.IntegerLiteral{Pos: at(line), Value: v}
}

func decLit(line int, v float64) *ast.DecimalLiteral {
	return &ast.DecimalLiteral{Pos: at(line), Value: v}
}

func strLit(line int, v string) *ast.StringLiteral {
	return &ast.StringLiteral{Pos: at(line), Value: v}
}

func unary(line int, op ast.UnaryOp, x ast.Expr) *ast.Unary {
	return &ast.Unary{Pos: at(line), Op: op, X: x}
}

func binary(line int, op ast.BinaryOp, l, r ast.Expr) *ast.Binary {
	return &ast.Binary{Pos: at(line), Op: op, Left: l, Right: r}
}

func at(line int) ast.Pos {
	return ast.Pos{Line: line, Column: 1}
}

// kinds returns the kind of each finding in order.
func kinds(errs report.ErrorList) []report.Kind {
	out := make([]report.Kind, len(errs))
	for i, f := range errs {
		out[i] = f.Kind
	}
	return out
}
