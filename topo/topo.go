// Package topo computes a stable topological order over a vertex set and
// an edge-lookup function, generalizing the white/gray/black DFS used by
// the teacher's dfs.TopologicalSort to work over graph.Vertex instead of
// string vertex IDs, and over a caller-supplied edge function instead of a
// fixed adjacency structure — the population pass (driver package) needs
// to topo-sort DependencyEdges, while the creation pass needs to topo-sort
// ParentChild∪Sibling edges, and those come from different accessors on
// graph.Graph.
package topo

import (
	"errors"
	"fmt"

	"github.com/ilweave/mixweave/graph"
)

// ErrCyclicDependency is the sentinel wrapped by CycleError. Callers that
// only care whether sorting failed because of a cycle (as opposed to some
// other invariant violation) should check errors.Is(err, ErrCyclicDependency).
var ErrCyclicDependency = errors.New("topo: cyclic dependency")

// CycleError reports a discovered cycle along with the vertices involved,
// in traversal order, so the driver package can render a useful diagnostic
// (spec.md §7 requires the weave to fail with the offending cycle named).
type CycleError struct {
	Cycle []graph.Vertex
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.Cycle))
	for i, v := range e.Cycle {
		names[i] = v.Entity.FullName()
	}

	return fmt.Sprintf("%v: %s", ErrCyclicDependency, joinArrow(names))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

func joinArrow(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " -> "
		}
		out += n
	}

	return out
}

type color int

const (
	white color = iota
	gray
	black
)

// Sort returns vertices ordered so that, for every edge reported by edgesOf
// (from a vertex to the vertices it depends on), the dependency appears
// before the dependent. Sort visits vertices depth-first in the order given
// and emits each vertex right after its dependencies, so with no edges the
// output is exactly the input order. Unconstrained vertices are not always
// kept in input order: a dependency is emitted just before its first
// dependent, ahead of any vertex that preceded that dependency in vertices
// but follows the dependent.
//
// Sort returns a *CycleError (wrapped so errors.Is(err, ErrCyclicDependency)
// succeeds) if edgesOf's relation is not acyclic over vertices.
func Sort(vertices []graph.Vertex, edgesOf func(graph.Vertex) []graph.Vertex) ([]graph.Vertex, error) {
	s := &sorter{
		edgesOf: edgesOf,
		state:   make(map[string]color, len(vertices)),
		path:    make([]graph.Vertex, 0, len(vertices)),
		order:   make([]graph.Vertex, 0, len(vertices)),
	}

	for _, v := range vertices {
		if s.state[v.Entity.FullName()] == white {
			if err := s.visit(v); err != nil {
				return nil, err
			}
		}
	}

	return s.order, nil
}

type sorter struct {
	edgesOf func(graph.Vertex) []graph.Vertex
	state   map[string]color
	path    []graph.Vertex
	order   []graph.Vertex
}

func (s *sorter) visit(v graph.Vertex) error {
	key := v.Entity.FullName()
	if s.state[key] == black {
		return nil
	}
	if s.state[key] == gray {
		idx := 0
		for i, p := range s.path {
			if p.Entity.FullName() == key {
				idx = i
				break
			}
		}
		cycle := append(append([]graph.Vertex(nil), s.path[idx:]...), v)

		return &CycleError{Cycle: cycle}
	}

	s.state[key] = gray
	s.path = append(s.path, v)

	for _, dep := range s.edgesOf(v) {
		if err := s.visit(dep); err != nil {
			return err
		}
	}

	s.path = s.path[:len(s.path)-1]
	s.state[key] = black
	s.order = append(s.order, v)

	return nil
}
