// Package graph holds the weave-time dependency graph: one Vertex per
// discovered source entity, connected by three distinct edge classes
// (parent/child, sibling, and semantic dependency). It generalizes the
// single untyped edge set of a conventional graph library into the three
// classes the weaver actually needs to schedule cloning correctly — see
// Graph's doc comment for why a single edge kind cannot express both a
// two-pass schedule and deterministic sibling order at once.
//
// Unlike a typical mutable graph, Graph is built once by New and is
// immutable afterward: the weave discovers its full vertex set up front
// (driver.Discoverer collects it before calling New), so there is no concurrent-mutation problem to
// solve and no need for the teacher's per-field mutexes.
package graph

import (
	"errors"
	"fmt"

	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// Sentinel errors returned by New and by the query methods below. Callers
// should compare with errors.Is, never by string.
var (
	ErrNilVertex            = errors.New("graph: nil vertex")
	ErrDuplicateVertex      = errors.New("graph: duplicate vertex")
	ErrMismatchedSiblingKind = errors.New("graph: sibling edge endpoints have different kinds")
	ErrUnknownVertex        = errors.New("graph: edge references a vertex outside the graph")
	ErrMultipleParents      = errors.New("graph: vertex has more than one parent")
	ErrNoParent             = errors.New("graph: vertex has no parent")
	ErrNoPreviousSibling    = errors.New("graph: vertex has no previous sibling")

	// ErrParentCycle is returned by DepthOf when walking parent pointers
	// exceeds |V| hops without reaching a root (spec.md §4.A: "Cycle
	// detection bound: the walk may not exceed |V| hops"). New does not
	// itself reject a parent/child cycle — it only rejects a vertex having
	// two incoming parent edges — so a malformed input (e.g. A's parent is
	// B and B's parent is A, each with exactly one parent edge) is only
	// ever caught here, on demand, the way spec.md describes.
	ErrParentCycle = errors.New("graph: parent chain exceeds vertex count")
)

// Vertex is one discovered source entity, tagged with its Kind so callers
// can dispatch without a type switch over model.Entity's many concrete
// shapes.
type Vertex struct {
	Entity model.Entity
	Kind   kind.Kind
}

// newVertex wraps e, deriving Kind from e.Kind() unless explicitly
// overridden — in practice the two always agree, but keeping Kind as an
// explicit field (rather than a method forwarding to Entity.Kind) is what
// lets a Vertex be compared and hashed as a small value type independent
// of the concrete model.Entity behind it.
func newVertex(e model.Entity) Vertex {
	return Vertex{Entity: e, Kind: e.Kind()}
}

// ParentChildEdge records that Child was discovered while cloning Parent
// (e.g. a field discovered while cloning its declaring type). The set of
// ParentChildEdges over a graph's vertices forms a forest: every non-root
// vertex has exactly one parent.
type ParentChildEdge struct {
	Parent Vertex
	Child  Vertex
}

// SiblingEdge orders two same-kind vertices that share a parent, e.g. two
// fields of the same type in declaration order. Next must report the same
// Kind as Previous; mismatched kinds indicate a construction bug upstream,
// not a legitimate graph shape.
type SiblingEdge struct {
	Previous Vertex
	Next     Vertex
}

// DependencyEdge records that Dependent's clone cannot be populated until
// DependsOn's clone exists, e.g. a method body referencing a field of the
// same target type. The set of DependencyEdges must be acyclic; topo.Sort
// reports ErrCyclicDependency when it is not.
type DependencyEdge struct {
	Dependent Vertex
	DependsOn Vertex
}

// Graph is the immutable result of one discovery pass: every vertex the
// weaver will clone, plus the three edge classes connecting them.
type Graph struct {
	vertices   []Vertex
	index      map[string]int // Vertex.Entity.FullName() -> index into vertices
	parentOf   map[string]Vertex
	childrenOf map[string][]Vertex
	prevSib    map[string]Vertex
	nextSib    map[string][]Vertex
	depsOf     map[string][]Vertex
	dependents map[string][]Vertex
}

// New validates and assembles a Graph from a flat vertex list and the three
// edge sets. It returns ErrNilVertex, ErrDuplicateVertex,
// ErrMismatchedSiblingKind, ErrUnknownVertex, or ErrMultipleParents if the
// inputs are not internally consistent; callers (normally
// driver.Discoverer) are expected to have discovered these inputs
// consistently, so validation failures indicate a bug in discovery, not
// ordinary user error.
func New(vertices []Vertex, parentChild []ParentChildEdge, siblings []SiblingEdge, deps []DependencyEdge) (*Graph, error) {
	g := &Graph{
		index:      make(map[string]int, len(vertices)),
		parentOf:   make(map[string]Vertex, len(vertices)),
		childrenOf: make(map[string][]Vertex),
		prevSib:    make(map[string]Vertex),
		nextSib:    make(map[string][]Vertex),
		depsOf:     make(map[string][]Vertex),
		dependents: make(map[string][]Vertex),
	}

	g.vertices = make([]Vertex, len(vertices))
	for i, v := range vertices {
		if v.Entity == nil {
			return nil, fmt.Errorf("%w: at position %d", ErrNilVertex, i)
		}
		key := v.Entity.FullName()
		if _, exists := g.index[key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVertex, key)
		}
		g.index[key] = i
		g.vertices[i] = v
	}

	for _, e := range parentChild {
		if err := g.mustKnow(e.Parent, e.Child); err != nil {
			return nil, err
		}
		childKey := e.Child.Entity.FullName()
		if _, exists := g.parentOf[childKey]; exists {
			return nil, fmt.Errorf("%w: %s", ErrMultipleParents, childKey)
		}
		g.parentOf[childKey] = e.Parent
		parentKey := e.Parent.Entity.FullName()
		g.childrenOf[parentKey] = append(g.childrenOf[parentKey], e.Child)
	}

	for _, e := range siblings {
		if err := g.mustKnow(e.Previous, e.Next); err != nil {
			return nil, err
		}
		if e.Previous.Kind != e.Next.Kind {
			return nil, fmt.Errorf("%w: %s (%s) -> %s (%s)", ErrMismatchedSiblingKind,
				e.Previous.Entity.FullName(), e.Previous.Kind, e.Next.Entity.FullName(), e.Next.Kind)
		}
		g.prevSib[e.Next.Entity.FullName()] = e.Previous
		prevKey := e.Previous.Entity.FullName()
		g.nextSib[prevKey] = append(g.nextSib[prevKey], e.Next)
	}

	for _, e := range deps {
		if err := g.mustKnow(e.Dependent, e.DependsOn); err != nil {
			return nil, err
		}
		dependentKey := e.Dependent.Entity.FullName()
		g.depsOf[dependentKey] = append(g.depsOf[dependentKey], e.DependsOn)
		dependsOnKey := e.DependsOn.Entity.FullName()
		g.dependents[dependsOnKey] = append(g.dependents[dependsOnKey], e.Dependent)
	}

	return g, nil
}

func (g *Graph) mustKnow(vs ...Vertex) error {
	for _, v := range vs {
		if v.Entity == nil {
			return ErrNilVertex
		}
		if _, ok := g.index[v.Entity.FullName()]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVertex, v.Entity.FullName())
		}
	}

	return nil
}

// Vertices returns every vertex in the graph, in the order passed to New.
// Callers that need a deterministic processing order should run this
// through topo.Sort rather than relying on this order directly: New does
// not reorder its input.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, len(g.vertices))
	copy(out, g.vertices)

	return out
}

// Roots returns every vertex with no parent edge, in Vertices order.
func (g *Graph) Roots() []Vertex {
	var out []Vertex
	for _, v := range g.vertices {
		if _, ok := g.parentOf[v.Entity.FullName()]; !ok {
			out = append(out, v)
		}
	}

	return out
}

// ParentOf returns v's parent, or ErrNoParent if v is a root. Use
// TryParentOf when a root is an expected, non-exceptional input.
func (g *Graph) ParentOf(v Vertex) (Vertex, error) {
	p, ok := g.TryParentOf(v)
	if !ok {
		return Vertex{}, fmt.Errorf("%w: %s", ErrNoParent, v.Entity.FullName())
	}

	return p, nil
}

// TryParentOf returns v's parent and true, or the zero Vertex and false if
// v is a root.
func (g *Graph) TryParentOf(v Vertex) (Vertex, bool) {
	p, ok := g.parentOf[v.Entity.FullName()]

	return p, ok
}

// ChildrenOf returns v's children in the order they were added to New,
// which discovery preserves as declaration order.
func (g *Graph) ChildrenOf(v Vertex) []Vertex {
	return g.childrenOf[v.Entity.FullName()]
}

// PreviousSiblingOf returns v's immediate predecessor in its sibling chain,
// or ErrNoPreviousSibling if v is first in its chain. Use
// TryPreviousSiblingOf when that case is an expected, non-exceptional
// input.
func (g *Graph) PreviousSiblingOf(v Vertex) (Vertex, error) {
	p, ok := g.TryPreviousSiblingOf(v)
	if !ok {
		return Vertex{}, fmt.Errorf("%w: %s", ErrNoPreviousSibling, v.Entity.FullName())
	}

	return p, nil
}

// TryPreviousSiblingOf returns v's previous sibling and true, or the zero
// Vertex and false if v is first in its sibling chain.
func (g *Graph) TryPreviousSiblingOf(v Vertex) (Vertex, bool) {
	p, ok := g.prevSib[v.Entity.FullName()]

	return p, ok
}

// NextSiblingsOf returns the vertices directly ordered after v in its
// sibling chain (normally at most one, but New does not forbid a vertex
// having more than one declared successor).
func (g *Graph) NextSiblingsOf(v Vertex) []Vertex {
	return g.nextSib[v.Entity.FullName()]
}

// DependenciesOf returns the vertices v's DependencyEdges point at: the
// clones that must be populated before v's own clone can be populated.
func (g *Graph) DependenciesOf(v Vertex) []Vertex {
	return g.depsOf[v.Entity.FullName()]
}

// DependentsOf returns the vertices that declared a dependency on v.
func (g *Graph) DependentsOf(v Vertex) []Vertex {
	return g.dependents[v.Entity.FullName()]
}

// DepthOf walks v's parent chain to the nearest root and returns the number
// of edges traversed. A root vertex has depth 0. The walk is bounded at
// |V| hops (spec.md §4.A); a parent/child cycle — which New does not
// itself reject, since it only rejects a vertex having two incoming parent
// edges, not a cycle among single-parent edges — makes the walk exceed
// that bound and DepthOf returns ErrParentCycle instead of looping forever.
func (g *Graph) DepthOf(v Vertex) (int, error) {
	depth := 0
	cur := v
	limit := len(g.vertices)
	for {
		p, ok := g.TryParentOf(cur)
		if !ok {
			return depth, nil
		}
		cur = p
		depth++
		if depth > limit {
			return 0, fmt.Errorf("%w: from %s", ErrParentCycle, v.Entity.FullName())
		}
	}
}
