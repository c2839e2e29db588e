package semantic

import (
	"github.com/foundry-zero/qlform/internal/report"
)

const (
	unvisited = iota
	onPath
	done
)

// CheckCycles reports every dependency cycle found by a depth-first search
// of g started from each unvisited node in index order. Reaching a node that
// is still on the current path reports the path segment from that node back
// to itself, and abandons the rest of that search tree so nothing reachable
// only through the cycle is reported again. An empty result means g is
// acyclic.
func CheckCycles(g *DependencyGraph) report.ErrorList {
	var errs report.ErrorList
	state := make([]int, g.Len())
	var path []int

	// visit returns false when a cycle was reported below v.
	var visit func(v int) bool
	visit = func(v int) bool {
		state[v] = onPath
		path = append(path, v)
		for _, w := range g.adj[v] {
			switch state[w] {
			case onPath:
				errs = errs.Add(g.cycleAt(path, w))
				return false
			case unvisited:
				if !visit(w) {
					return false
				}
			}
		}
		path = path[:len(path)-1]
		state[v] = done
		return true
	}

	for v := range g.Len() {
		if state[v] != unvisited {
			continue
		}
		if !visit(v) {
			for _, u := range path {
				state[u] = done
			}
		}
		path = path[:0]
	}

	return errs
}

// cycleAt builds the diagnostic for the cycle closing at w, which is on path.
func (g *DependencyGraph) cycleAt(path []int, w int) report.Finding {
	start := 0
	for k, v := range path {
		if v == w {
			start = k
			break
		}
	}
	names := make([]string, 0, len(path)-start+1)
	for _, v := range path[start:] {
		names = append(names, g.names[v])
	}
	names = append(names, g.names[w])
	return report.CyclicDependency(locate(g.file, g.pos[w]), names)
}
