package report

import (
	"fmt"
	"strings"
)

// Kind tags what a finding is about.
type Kind string

const (
	// KindInput indicates the form document could not be read or decoded.
	KindInput Kind = "input"
	// KindSchema indicates the form document violates the form JSON Schema.
	KindSchema Kind = "schema"

	// KindDuplicateDeclaration indicates a question id is declared more than once.
	KindDuplicateDeclaration Kind = "duplicate-declaration"
	// KindCyclicDependency indicates questions depend on each other in a cycle.
	KindCyclicDependency Kind = "cyclic-dependency"
	// KindUndefinedReference indicates a reference to an undeclared question, or
	// an operand whose type could not be determined because of an earlier error.
	KindUndefinedReference Kind = "undefined-reference"
	// KindInvalidOperandType indicates binary operands of incompatible types.
	KindInvalidOperandType Kind = "invalid-operand-type"
	// KindTypeNotAllowed indicates an operand type the operator does not accept.
	KindTypeNotAllowed Kind = "type-not-allowed"
	// KindTypeMismatch indicates a calculated question whose expression type
	// disagrees with its declared type.
	KindTypeMismatch Kind = "type-mismatch"
	// KindInvalidConditionType indicates a condition guard that is not Boolean.
	KindInvalidConditionType Kind = "invalid-condition-type"

	KindDuplicateLabel      Kind = "duplicate-label"
	KindEmptyCondition      Kind = "empty-condition"
	KindConstantCondition   Kind = "constant-condition"
	KindConstantCalculation Kind = "constant-calculation"
)

// DuplicateDeclaration reports a later declaration of an id first declared at first.
func DuplicateDeclaration(loc Location, name string, first Location) Finding {
	f := NewError(KindDuplicateDeclaration,
		fmt.Sprintf("Question '%s' is already declared at line %d", name, first.Line), loc)
	f.Name = name
	f.Related = &first
	return f
}

// CyclicDependency reports a dependency cycle. The cycle lists the member ids
// in traversal order with the first id repeated at the end.
func CyclicDependency(loc Location, cycle []string) Finding {
	f := NewError(KindCyclicDependency,
		fmt.Sprintf("Cyclic dependency: %s", strings.Join(cycle, " -> ")), loc)
	f.Cycle = cycle
	if len(cycle) > 0 {
		f.Name = cycle[0]
	}
	return f
}

// UndefinedReference reports an undeclared reference or an operand of unknown type.
func UndefinedReference(loc Location, name string) Finding {
	f := NewError(KindUndefinedReference,
		fmt.Sprintf("Reference to undefined question '%s'", name), loc)
	f.Name = name
	return f
}

// InvalidOperandType reports binary operands whose types cannot be combined.
func InvalidOperandType(loc Location, operator, left, right string) Finding {
	f := NewError(KindInvalidOperandType,
		fmt.Sprintf("Invalid operand types for %s: %s and %s", operator, left, right), loc)
	f.Operator = operator
	f.Left = left
	f.Right = right
	return f
}

// TypeNotAllowed reports an operand type the operator does not accept.
func TypeNotAllowed(loc Location, actual, operator string) Finding {
	f := NewError(KindTypeNotAllowed,
		fmt.Sprintf("%s not permitted on %s", operator, actual), loc)
	f.Actual = actual
	f.Operator = operator
	return f
}

// TypeMismatch reports a calculated question whose expression type differs from its declaration.
func TypeMismatch(loc Location, name, expected, actual string) Finding {
	f := NewError(KindTypeMismatch,
		fmt.Sprintf("Question '%s' is declared %s but its expression is %s", name, expected, actual), loc)
	f.Name = name
	f.Expected = expected
	f.Actual = actual
	return f
}

// InvalidConditionType reports a guard expression that is not Boolean.
func InvalidConditionType(loc Location, actual string) Finding {
	f := NewError(KindInvalidConditionType,
		fmt.Sprintf("Condition must be Boolean, got %s", actual), loc)
	f.Expected = "Boolean"
	f.Actual = actual
	return f
}
