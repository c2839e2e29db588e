package ast

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The document types mirror the JSON form document. They are discriminated by
// Kind and converted into the sealed node types by DecodeForm.

type formDoc struct {
	Name       string         `json:"name"`
	File       string         `json:"file,omitempty"`
	Statements []statementDoc `json:"statements"`
}

// statementDoc: Kind is one of question, calculated, condition.
type statementDoc struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Column int    `json:"column"`

	// question, calculated
	ID    string `json:"id,omitempty"`
	Type  string `json:"type,omitempty"`
	Label string `json:"label,omitempty"`

	// calculated
	Expression *exprDoc `json:"expression,omitempty"`

	// condition
	Guard *exprDoc       `json:"guard,omitempty"`
	Body  []statementDoc `json:"body,omitempty"`
}

// exprDoc: Kind is one of literal, reference, unary, binary.
type exprDoc struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line"`
	Column int    `json:"column"`

	// literal
	Type  string          `json:"type,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	// reference
	Name string `json:"name,omitempty"`

	// unary, binary
	Operator string   `json:"operator,omitempty"`
	Operand  *exprDoc `json:"operand,omitempty"`
	Left     *exprDoc `json:"left,omitempty"`
	Right    *exprDoc `json:"right,omitempty"`
}

// DecodeForm builds a Form from a JSON form document.
func DecodeForm(data []byte) (*Form, error) {
	var doc formDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse form JSON: %w", err)
	}

	stmts, err := decodeStatements(doc.Statements, "$.statements")
	if err != nil {
		return nil, err
	}
	return &Form{Name: doc.Name, File: doc.File, Statements: stmts}, nil
}

// DecodeError locates a structural problem in a form document.
type DecodeError struct {
	Path string // JSON path like "$.statements[2].guard"
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeStatements(docs []statementDoc, path string) ([]Statement, error) {
	stmts := make([]Statement, 0, len(docs))
	for i := range docs {
		s, err := decodeStatement(&docs[i], fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func decodeStatement(d *statementDoc, path string) (Statement, error) {
	pos := Pos{Line: d.Line, Column: d.Column}

	switch d.Kind {
	case "question", "calculated":
		if d.ID == "" {
			return nil, &DecodeError{Path: path, Err: errors.New("missing question id")}
		}
		t, err := ParseType(d.Type)
		if err != nil {
			return nil, &DecodeError{Path: path + ".type", Err: err}
		}
		if d.Kind == "question" {
			return &Question{Pos: pos, ID: d.ID, Type: t, Label: d.Label}, nil
		}
		expr, err := decodeExpr(d.Expression, path+".expression")
		if err != nil {
			return nil, err
		}
		return &CalculatedQuestion{Pos: pos, ID: d.ID, Type: t, Label: d.Label, Expr: expr}, nil

	case "condition":
		guard, err := decodeExpr(d.Guard, path+".guard")
		if err != nil {
			return nil, err
		}
		body, err := decodeStatements(d.Body, path+".body")
		if err != nil {
			return nil, err
		}
		return &Condition{Pos: pos, Guard: guard, Body: body}, nil

	default:
		return nil, &DecodeError{Path: path + ".kind", Err: fmt.Errorf("unknown statement kind %q", d.Kind)}
	}
}

func decodeExpr(d *exprDoc, path string) (Expr, error) {
	if d == nil {
		return nil, &DecodeError{Path: path, Err: errors.New("missing expression")}
	}
	pos := Pos{Line: d.Line, Column: d.Column}

	switch d.Kind {
	case "literal":
		return decodeLiteral(d, pos, path)

	case "reference":
		if d.Name == "" {
			return nil, &DecodeError{Path: path + ".name", Err: errors.New("missing reference name")}
		}
		return &Reference{Pos: pos, Name: d.Name}, nil

	case "unary":
		op, err := ParseUnaryOp(d.Operator)
		if err != nil {
			return nil, &DecodeError{Path: path + ".operator", Err: err}
		}
		x, err := decodeExpr(d.Operand, path+".operand")
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: pos, Op: op, X: x}, nil

	case "binary":
		op, err := ParseBinaryOp(d.Operator)
		if err != nil {
			return nil, &DecodeError{Path: path + ".operator", Err: err}
		}
		left, err := decodeExpr(d.Left, path+".left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExpr(d.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return &Binary{Pos: pos, Op: op, Left: left, Right: right}, nil

	default:
		return nil, &DecodeError{Path: path + ".kind", Err: fmt.Errorf("unknown expression kind %q", d.Kind)}
	}
}

func decodeLiteral(d *exprDoc, pos Pos, path string) (Expr, error) {
	if len(d.Value) == 0 {
		return nil, &DecodeError{Path: path + ".value", Err: errors.New("missing literal value")}
	}
	t, err := ParseType(d.Type)
	if err != nil {
		return nil, &DecodeError{Path: path + ".type", Err: err}
	}

	var (
		e      Expr
		target any
	)
	switch t {
	case Boolean:
		lit := &BooleanLiteral{Pos: pos}
		e, target = lit, &lit.Value
	case Integer:
		lit := &IntegerLiteral{Pos: pos}
		e, target = lit, &lit.Value
	case Decimal:
		lit := &DecimalLiteral{Pos: pos}
		e, target = lit, &lit.Value
	case String:
		lit := &StringLiteral{Pos: pos}
		e, target = lit, &lit.Value
	}
	if err := json.Unmarshal(d.Value, target); err != nil {
		return nil, &DecodeError{Path: path + ".value", Err: fmt.Errorf("invalid %s literal: %w", t, err)}
	}
	return e, nil
}
