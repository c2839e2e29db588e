package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// UnaryOp identifies a prefix operator.
type UnaryOp int

const (
	Not UnaryOp = iota
	Negative
	Positive
)

var unaryOps = []struct {
	symbol string
	name   string
}{
	Not:      {"!", "Not"},
	Negative: {"-", "Negative"},
	Positive: {"+", "Positive"},
}

// String returns the operator's name, e.g. "Not".
func (op UnaryOp) String() string {
	if int(op) < 0 || int(op) >= len(unaryOps) {
		return fmt.Sprintf("unary(%d)", int(op))
	}
	return unaryOps[op].name
}

// Symbol returns the operator as written in source, e.g. "!".
func (op UnaryOp) Symbol() string {
	if int(op) < 0 || int(op) >= len(unaryOps) {
		return "?"
	}
	return unaryOps[op].symbol
}

// ParseUnaryOp maps a source symbol to its operator.
func ParseUnaryOp(symbol string) (UnaryOp, error) {
	for i, u := range unaryOps {
		if u.symbol == symbol {
			return UnaryOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unary operator %q", symbol)
}

// BinaryOp identifies an infix operator.
type BinaryOp int

const (
	Addition BinaryOp = iota
	Subtraction
	Multiply
	Divide
	Modulo
	Power
	And
	Or
	Equal
	NotEqual
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
)

var binaryOps = []struct {
	symbol string
	name   string
}{
	Addition:       {"+", "Addition"},
	Subtraction:    {"-", "Subtraction"},
	Multiply:       {"*", "Multiply"},
	Divide:         {"/", "Divide"},
	Modulo:         {"%", "Modulo"},
	Power:          {"^", "Power"},
	And:            {"&&", "And"},
	Or:             {"||", "Or"},
	Equal:          {"==", "Equal"},
	NotEqual:       {"!=", "NotEqual"},
	LessThan:       {"<", "LessThan"},
	LessOrEqual:    {"<=", "LessOrEqual"},
	GreaterThan:    {">", "GreaterThan"},
	GreaterOrEqual: {">=", "GreaterOrEqual"},
}

// String returns the operator's name, e.g. "Addition".
func (op BinaryOp) String() string {
	if int(op) < 0 || int(op) >= len(binaryOps) {
		return fmt.Sprintf("binary(%d)", int(op))
	}
	return binaryOps[op].name
}

// Symbol returns the operator as written in source, e.g. "+".
func (op BinaryOp) Symbol() string {
	if int(op) < 0 || int(op) >= len(binaryOps) {
		return "?"
	}
	return binaryOps[op].symbol
}

// ParseBinaryOp maps a source symbol to its operator.
func ParseBinaryOp(symbol string) (BinaryOp, error) {
	for i, b := range binaryOps {
		if b.symbol == symbol {
			return BinaryOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", symbol)
}

// IsComparison reports whether op yields Boolean rather than its operand type.
func (op BinaryOp) IsComparison() bool {
	switch op {
	case Equal, NotEqual, LessThan, LessOrEqual, GreaterThan, GreaterOrEqual:
		return true
	}
	return false
}

func (l *BooleanLiteral) String() string { return strconv.FormatBool(l.Value) }
func (l *IntegerLiteral) String() string { return strconv.FormatInt(l.Value, 10) }
func (l *StringLiteral) String() string  { return strconv.Quote(l.Value) }
func (r *Reference) String() string      { return r.Name }

func (l *DecimalLiteral) String() string {
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (u *Unary) String() string {
	return u.Op.Symbol() + operand(u.X)
}

func (b *Binary) String() string {
	return operand(b.Left) + " " + b.Op.Symbol() + " " + operand(b.Right)
}

// operand parenthesizes nested binary expressions so the rendering is unambiguous.
func operand(e Expr) string {
	if e == nil {
		return "<nil>"
	}
	if _, ok := e.(*Binary); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}
