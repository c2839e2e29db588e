// Package ast defines the abstract syntax tree of a QL form and loads it from
// JSON or YAML form documents.
//
// The tree is immutable once built. Statement and Expr are sealed: the only
// implementations are the node types declared in this package, so a type
// switch over them is exhaustive.
package ast

// Pos is a source position assigned by the parser that produced the tree.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Position returns p. Every node embeds a Pos and so implements Node.
func (p Pos) Position() Pos {
	return p
}

// Node is any positioned tree node.
type Node interface {
	Position() Pos
}

// Form is the root of the tree: an ordered sequence of statements.
type Form struct {
	Name       string
	File       string // source document; used for diagnostic locations
	Statements []Statement
}

// Statement is one of *Question, *CalculatedQuestion or *Condition.
type Statement interface {
	Node
	statementNode()
}

// Question is a question answered directly by the user.
type Question struct {
	Pos
	ID    string
	Type  Type
	Label string
}

// CalculatedQuestion is a question whose value is derived from Expr.
type CalculatedQuestion struct {
	Pos
	ID    string
	Type  Type
	Label string
	Expr  Expr
}

// Condition is a block of statements visible only while Guard holds.
type Condition struct {
	Pos
	Guard Expr
	Body  []Statement
}

func (*Question) statementNode()           {}
func (*CalculatedQuestion) statementNode() {}
func (*Condition) statementNode()          {}

// Expr is one of the literal types, *Reference, *Unary or *Binary.
// String renders the expression in source-like form.
type Expr interface {
	Node
	String() string
	exprNode()
}

type BooleanLiteral struct {
	Pos
	Value bool
}

type IntegerLiteral struct {
	Pos
	Value int64
}

type DecimalLiteral struct {
	Pos
	Value float64
}

type StringLiteral struct {
	Pos
	Value string
}

// Reference names another question.
type Reference struct {
	Pos
	Name string
}

// Unary applies Op to X.
type Unary struct {
	Pos
	Op UnaryOp
	X  Expr
}

// Binary applies Op to Left and Right.
type Binary struct {
	Pos
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BooleanLiteral) exprNode() {}
func (*IntegerLiteral) exprNode() {}
func (*DecimalLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*Reference) exprNode()      {}
func (*Unary) exprNode()          {}
func (*Binary) exprNode()         {}

// Inspect traverses e in pre-order, calling fn for each expression. If fn
// returns false the children of that expression are skipped.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Unary:
		Inspect(n.X, fn)
	case *Binary:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)
	}
}

// References returns every Reference in e, left to right.
func References(e Expr) []*Reference {
	var refs []*Reference
	Inspect(e, func(n Expr) bool {
		if r, ok := n.(*Reference); ok {
			refs = append(refs, r)
		}
		return true
	})
	return refs
}

// WalkStatements calls fn for every statement in stmts in document order,
// descending into condition bodies after visiting the condition itself.
func WalkStatements(stmts []Statement, fn func(Statement)) {
	for _, s := range stmts {
		fn(s)
		if c, ok := s.(*Condition); ok {
			WalkStatements(c.Body, fn)
		}
	}
}
