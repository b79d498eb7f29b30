package driver

import (
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// Discoverer walks a source model.TypeDef and builds the full vertex and
// edge sets spec.md §3 describes, grounded on the component-model
// constructor package's resolverAndDiscoverer.Discover method (walk an
// entity, return the IDs/handles of its structural children). Unlike that
// reference, which resolves children into a single flat list for a DAG
// processor, Discoverer classifies every relationship it finds into one of
// the three edge classes graph.New expects, because mixweave schedules
// creation and population with two different edge sets while OCM's
// resolver only ever needs one.
type Discoverer struct {
	opts Options

	vertices    []graph.Vertex
	index       map[string]graph.Vertex
	parentChild []graph.ParentChildEdge
	siblings    []graph.SiblingEdge
	deps        []graph.DependencyEdge

	pendingBodies []bodyInstructions
}

// bodyInstructions defers a method body's instruction-operand dependency
// analysis to a second pass, run only once the full vertex index is
// built: an instruction can reference a field or method declared later in
// the same type (or in a different nested type entirely), so the
// in-closure check below cannot run correctly mid-walk.
type bodyInstructions struct {
	bodyVertex   graph.Vertex
	instructions []model.InstructionDef
}

// bodyEntity adapts a model.MethodBodyDef, which carries no FullName or
// Kind of its own, into a model.Entity so a method body can be given its
// own graph vertex. The convention — the owning method's full name plus a
// "$body" suffix — lives here because Discoverer is the one place that
// invents vertex identities for entities that don't carry their own; see
// cloner.MethodBodyCloner's doc comment, which only ever relays whatever
// identity it is handed.
type bodyEntity struct {
	model.MethodBodyDef
	fullName string
}

func (b bodyEntity) Kind() kind.Kind  { return kind.KindMethodBody }
func (b bodyEntity) FullName() string { return b.fullName }

// NewDiscoverer builds a Discoverer configured by opts.
func NewDiscoverer(opts Options) *Discoverer {
	return &Discoverer{opts: opts, index: make(map[string]graph.Vertex)}
}

// Discover walks root and returns the graph.Graph feeding one Driver.Weave
// call.
func (d *Discoverer) Discover(root model.TypeDef) (*graph.Graph, error) {
	d.walkType(root, nil)
	d.resolveInstructionDependencies()

	return graph.New(d.vertices, d.parentChild, d.siblings, d.deps)
}

func (d *Discoverer) addVertex(v graph.Vertex) {
	d.vertices = append(d.vertices, v)
	d.index[v.Entity.FullName()] = v
}

// chain links consecutive vertices of vs with SiblingEdges, in the order
// Discoverer encountered them — which, since every walk below iterates the
// model package's own slice accessors, is declaration order.
func (d *Discoverer) chain(vs []graph.Vertex) {
	for i := 1; i < len(vs); i++ {
		d.siblings = append(d.siblings, graph.SiblingEdge{Previous: vs[i-1], Next: vs[i]})
	}
}

// skip reports whether attrs carries the skip-constructor-mark attribute
// and skip-mark exclusion is enabled.
func (d *Discoverer) skip(attrs []model.CustomAttribute) bool {
	if !d.opts.SkipConstructorMark {
		return false
	}

	for _, a := range attrs {
		if a.AttributeType().FullName() == SkipAttributeFullName {
			return true
		}
	}

	return false
}

func vertexOf(e model.Entity, k kind.Kind) graph.Vertex {
	return graph.Vertex{Entity: e, Kind: k}
}

func (d *Discoverer) walkType(t model.TypeDef, parent *graph.Vertex) graph.Vertex {
	tv := vertexOf(t, kind.KindType)
	d.addVertex(tv)
	if parent != nil {
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: *parent, Child: tv})
	}

	d.walkGenericParameters(t.GenericParameters(), tv)

	var fieldVerts []graph.Vertex
	for _, f := range t.Fields() {
		if d.skip(f.Attributes()) {
			continue
		}
		fv := vertexOf(f, kind.KindField)
		d.addVertex(fv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: tv, Child: fv})
		fieldVerts = append(fieldVerts, fv)
	}
	d.chain(fieldVerts)

	var methodVerts []graph.Vertex
	for _, m := range t.Methods() {
		if d.skip(m.Attributes()) {
			continue
		}
		methodVerts = append(methodVerts, d.walkMethod(m, tv))
	}
	d.chain(methodVerts)

	var propVerts []graph.Vertex
	for _, p := range t.Properties() {
		if d.skip(p.Attributes()) {
			continue
		}
		pv := vertexOf(p, kind.KindProperty)
		d.addVertex(pv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: tv, Child: pv})
		propVerts = append(propVerts, pv)
	}
	d.chain(propVerts)

	var eventVerts []graph.Vertex
	for _, e := range t.Events() {
		if d.skip(e.Attributes()) {
			continue
		}
		ev := vertexOf(e, kind.KindEvent)
		d.addVertex(ev)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: tv, Child: ev})
		eventVerts = append(eventVerts, ev)
	}
	d.chain(eventVerts)

	var nestedVerts []graph.Vertex
	for _, n := range t.NestedTypes() {
		if d.skip(n.Attributes()) {
			continue
		}
		nestedVerts = append(nestedVerts, d.walkType(n, &tv))
	}
	d.chain(nestedVerts)

	return tv
}

func (d *Discoverer) walkGenericParameters(gps []model.GenericParameterDef, owner graph.Vertex) {
	var verts []graph.Vertex
	for _, gp := range gps {
		gv := vertexOf(gp, kind.KindGenericParameter)
		d.addVertex(gv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: owner, Child: gv})
		verts = append(verts, gv)
	}
	d.chain(verts)
}

func (d *Discoverer) walkMethod(m model.MethodDef, parent graph.Vertex) graph.Vertex {
	mv := vertexOf(m, kind.KindMethod)
	d.addVertex(mv)
	d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: parent, Child: mv})

	d.walkGenericParameters(m.GenericParameters(), mv)

	var paramVerts []graph.Vertex
	for _, p := range m.Parameters() {
		pv := vertexOf(p, kind.KindParameter)
		d.addVertex(pv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: mv, Child: pv})
		paramVerts = append(paramVerts, pv)
	}
	d.chain(paramVerts)

	if body, ok := m.Body(); ok {
		bv := vertexOf(bodyEntity{body, m.FullName() + "$body"}, kind.KindMethodBody)
		d.addVertex(bv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: mv, Child: bv})
		d.walkBody(body, bv)
	}

	return mv
}

func (d *Discoverer) walkBody(body model.MethodBodyDef, bv graph.Vertex) {
	var varVerts []graph.Vertex
	for _, v := range body.Variables() {
		vv := vertexOf(v, kind.KindVariable)
		d.addVertex(vv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: bv, Child: vv})
		d.deps = append(d.deps, graph.DependencyEdge{Dependent: bv, DependsOn: vv})
		varVerts = append(varVerts, vv)
	}
	d.chain(varVerts)

	var instrVerts []graph.Vertex
	for _, in := range body.Instructions() {
		iv := vertexOf(in, kind.KindInstruction)
		d.addVertex(iv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: bv, Child: iv})
		instrVerts = append(instrVerts, iv)
	}
	d.chain(instrVerts)

	var handlerVerts []graph.Vertex
	for _, h := range body.ExceptionHandlers() {
		hv := vertexOf(h, kind.KindExceptionHandler)
		d.addVertex(hv)
		d.parentChild = append(d.parentChild, graph.ParentChildEdge{Parent: bv, Child: hv})
		handlerVerts = append(handlerVerts, hv)
	}
	d.chain(handlerVerts)

	d.pendingBodies = append(d.pendingBodies, bodyInstructions{bodyVertex: bv, instructions: body.Instructions()})
}

// resolveInstructionDependencies implements spec.md §3's "a method body
// depends on ... the methods/fields/types its instructions reference":
// for every instruction in a body whose operand names a field, method, or
// type that is itself a vertex discovered in this same closure, the body
// vertex depends on it. References leaving the closure are the root-import
// engine's concern at populate time, not a graph dependency — there is
// nothing in this vertex set to depend on.
func (d *Discoverer) resolveInstructionDependencies() {
	for _, rec := range d.pendingBodies {
		seen := make(map[string]bool)
		for _, in := range rec.instructions {
			ref, ok := instructionReferencedEntity(in)
			if !ok {
				continue
			}
			key := ref.FullName()
			target, known := d.index[key]
			if !known || seen[key] {
				continue
			}
			seen[key] = true
			d.deps = append(d.deps, graph.DependencyEdge{Dependent: rec.bodyVertex, DependsOn: target})
		}
	}
}

func instructionReferencedEntity(in model.InstructionDef) (model.Entity, bool) {
	switch in.OperandKind() {
	case model.OperandField:
		return in.FieldOperand(), true
	case model.OperandMethod:
		return in.MethodOperand(), true
	case model.OperandType:
		return in.TypeOperand(), true
	default:
		return nil, false
	}
}
