package semantic

import (
	"github.com/foundry-zero/qlform/internal/ast"
)

// DependencyGraph records which question ids each question depends on.
// Nodes are dense indices: declared ids take their symbol table index, and
// ids referenced but never declared are appended after them. An edge u -> v
// means "u depends on v".
type DependencyGraph struct {
	file  string
	names []string
	pos   []ast.Pos // declaration position, zero for undeclared ids
	index map[string]int
	adj   [][]int
}

// ResolveDependencies builds the dependency graph of form. A calculated
// question depends on every id its expression references. Every question
// directly inside a condition body depends on every id its guard references.
// Undeclared ids are recorded as nodes like any other; reporting them is the
// type checker's job.
func ResolveDependencies(form *ast.Form, symbols *SymbolTable) *DependencyGraph {
	g := &DependencyGraph{file: form.File, index: make(map[string]int, symbols.Len())}
	for _, s := range symbols.symbols {
		g.node(s.Name, s.Pos)
	}
	g.collect(form.Statements)
	return g
}

func (g *DependencyGraph) collect(stmts []ast.Statement) {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Question:
			// no outgoing edges
		case *ast.CalculatedQuestion:
			from := g.node(n.ID, n.Pos)
			for _, ref := range ast.References(n.Expr) {
				g.edge(from, g.node(ref.Name, ast.Pos{}))
			}
		case *ast.Condition:
			guardRefs := ast.References(n.Guard)
			for _, bs := range n.Body {
				id, pos, ok := questionID(bs)
				if !ok {
					continue
				}
				from := g.node(id, pos)
				for _, ref := range guardRefs {
					g.edge(from, g.node(ref.Name, ast.Pos{}))
				}
			}
			g.collect(n.Body)
		}
	}
}

func questionID(s ast.Statement) (string, ast.Pos, bool) {
	switch q := s.(type) {
	case *ast.Question:
		return q.ID, q.Pos, true
	case *ast.CalculatedQuestion:
		return q.ID, q.Pos, true
	default:
		return "", ast.Pos{}, false
	}
}

// node returns the index of name, adding it if absent.
func (g *DependencyGraph) node(name string, pos ast.Pos) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.index[name] = i
	g.names = append(g.names, name)
	g.pos = append(g.pos, pos)
	g.adj = append(g.adj, nil)
	return i
}

func (g *DependencyGraph) edge(from, to int) {
	for _, v := range g.adj[from] {
		if v == to {
			return
		}
	}
	g.adj[from] = append(g.adj[from], to)
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.names)
}

// Name returns the question id of node i.
func (g *DependencyGraph) Name(i int) string {
	return g.names[i]
}

// Index returns the node index of name.
func (g *DependencyGraph) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// DependsOn returns the ids name directly depends on, in the order the
// edges were first recorded.
func (g *DependencyGraph) DependsOn(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, len(g.adj[i]))
	for k, v := range g.adj[i] {
		out[k] = g.names[v]
	}
	return out
}
