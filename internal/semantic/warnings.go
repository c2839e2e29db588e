package semantic

import (
	"fmt"
	"strings"

	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
)

// The lint passes below report questionable but legal forms. They run only
// on forms that Check accepted, and every finding is a warning.

// CheckLabels warns when two questions show the same label. Labels are
// compared after trimming surrounding space, ignoring case.
func CheckLabels(form *ast.Form, _ *SymbolTable) []report.Finding {
	var findings []report.Finding
	first := make(map[string]string)

	ast.WalkStatements(form.Statements, func(s ast.Statement) {
		var id, label string
		var pos ast.Pos
		switch q := s.(type) {
		case *ast.Question:
			id, label, pos = q.ID, q.Label, q.Pos
		case *ast.CalculatedQuestion:
			id, label, pos = q.ID, q.Label, q.Pos
		default:
			return
		}
		key := strings.ToLower(strings.TrimSpace(label))
		if key == "" {
			return
		}
		if prev, ok := first[key]; ok {
			f := report.NewWarning(report.KindDuplicateLabel,
				fmt.Sprintf("Question '%s' has the same label as '%s': %q", id, prev, label),
				locate(form.File, pos))
			f.Name = id
			findings = append(findings, f)
			return
		}
		first[key] = id
	})

	return findings
}

// CheckConditions warns about conditions with an empty body and about guards
// that are a Boolean literal, so the block is always or never shown.
func CheckConditions(form *ast.Form, _ *SymbolTable) []report.Finding {
	var findings []report.Finding

	ast.WalkStatements(form.Statements, func(s ast.Statement) {
		c, ok := s.(*ast.Condition)
		if !ok {
			return
		}
		loc := locate(form.File, c.Pos)
		if len(c.Body) == 0 {
			findings = append(findings, report.NewWarning(report.KindEmptyCondition,
				fmt.Sprintf("Condition on %s contains no questions", c.Guard), loc))
		}
		if lit, ok := c.Guard.(*ast.BooleanLiteral); ok {
			visibility := "never"
			if lit.Value {
				visibility = "always"
			}
			findings = append(findings, report.NewWarning(report.KindConstantCondition,
				fmt.Sprintf("Condition is constant %t; its questions are %s shown", lit.Value, visibility), loc))
		}
	})

	return findings
}

// CheckCalculations warns about calculated questions whose expression
// references no other question and so always has the same value.
func CheckCalculations(form *ast.Form, _ *SymbolTable) []report.Finding {
	var findings []report.Finding

	ast.WalkStatements(form.Statements, func(s ast.Statement) {
		q, ok := s.(*ast.CalculatedQuestion)
		if !ok || len(ast.References(q.Expr)) > 0 {
			return
		}
		f := report.NewWarning(report.KindConstantCalculation,
			fmt.Sprintf("Calculated question '%s' is constant: %s", q.ID, q.Expr),
			locate(form.File, q.Pos))
		f.Name = q.ID
		findings = append(findings, f)
	})

	return findings
}
