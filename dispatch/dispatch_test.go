package dispatch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilweave/mixweave/dispatch"
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
	"github.com/ilweave/mixweave/registry"
)

func vertex(e model.Entity, k kind.Kind) graph.Vertex { return graph.Vertex{Entity: e, Kind: k} }

type fakeEntry struct {
	source graph.Vertex
	target model.Entity
}

func (e fakeEntry) Source() graph.Vertex { return e.source }
func (e fakeEntry) Target() model.Entity { return e.target }

// bodyEntity adapts a model.MethodBodyDef (which has no FullName/Kind of
// its own) into a model.Entity, the way driver.Discoverer does for real
// when it gives a method body its own graph vertex.
type bodyEntity struct {
	model.MethodBodyDef
	fullName string
}

func (b bodyEntity) Kind() kind.Kind  { return kind.KindMethodBody }
func (b bodyEntity) FullName() string { return b.fullName }

// TestDispatcherTableIsExhaustive asserts every kind.Kind has a registered
// Factory, mirroring kind_test.go's own exhaustiveness check over String.
func TestDispatcherTableIsExhaustive(t *testing.T) {
	g, err := graph.New(nil, nil, nil, nil)
	require.NoError(t, err)

	d := dispatch.New(g)
	got := d.Kinds()

	assert.Len(t, got, len(kind.All()))
	for _, k := range kind.All() {
		assert.Contains(t, got, k)
	}
}

func TestDispatchUnknownKindFails(t *testing.T) {
	g, err := graph.New(nil, nil, nil, nil)
	require.NoError(t, err)

	d := dispatch.New(g)
	_, err = d.Dispatch(graph.Vertex{Entity: memory.NewTypeDef("Acme", "T"), Kind: kind.Kind(99)}, registry.New())
	assert.ErrorIs(t, err, dispatch.ErrUnknownKind)
}

func TestDispatchTypeRootHasNoParent(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	rv := vertex(root, kind.KindType)

	g, err := graph.New([]graph.Vertex{rv}, nil, nil, nil)
	require.NoError(t, err)

	d := dispatch.New(g)
	cloners, err := d.Dispatch(rv, registry.New())
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchFieldResolvesParentFromGraph(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	field := memory.NewFieldDef(root, "X", memory.NewTypeDef("System", "Int32"))

	rv := vertex(root, kind.KindType)
	fv := vertex(field, kind.KindField)

	g, err := graph.New([]graph.Vertex{rv, fv}, []graph.ParentChildEdge{{Parent: rv, Child: fv}}, nil, nil)
	require.NoError(t, err)

	reg := registry.New()
	tgtRoot := memory.NewTypeDef("Acme", "Root")
	require.NoError(t, reg.Add(rv, fakeEntry{rv, tgtRoot}))

	d := dispatch.New(g)
	cloners, err := d.Dispatch(fv, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchFieldFailsWithoutParentEdge(t *testing.T) {
	field := memory.NewFieldDef(memory.NewTypeDef("Acme", "Root"), "X", memory.NewTypeDef("System", "Int32"))
	fv := vertex(field, kind.KindField)

	g, err := graph.New([]graph.Vertex{fv}, nil, nil, nil)
	require.NoError(t, err)

	d := dispatch.New(g)
	_, err = d.Dispatch(fv, registry.New())
	assert.ErrorIs(t, err, dispatch.ErrMissingParent)
}

func TestDispatchFieldFailsWhenParentNotYetCloned(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	field := memory.NewFieldDef(root, "X", memory.NewTypeDef("System", "Int32"))

	rv := vertex(root, kind.KindType)
	fv := vertex(field, kind.KindField)

	g, err := graph.New([]graph.Vertex{rv, fv}, []graph.ParentChildEdge{{Parent: rv, Child: fv}}, nil, nil)
	require.NoError(t, err)

	d := dispatch.New(g)
	_, err = d.Dispatch(fv, registry.New())
	assert.ErrorIs(t, err, dispatch.ErrParentNotCloned)
}

func TestDispatchFieldFailsWhenParentCloneIsWrongShape(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	field := memory.NewFieldDef(root, "X", memory.NewTypeDef("System", "Int32"))

	rv := vertex(root, kind.KindType)
	fv := vertex(field, kind.KindField)

	g, err := graph.New([]graph.Vertex{rv, fv}, []graph.ParentChildEdge{{Parent: rv, Child: fv}}, nil, nil)
	require.NoError(t, err)

	reg := registry.New()
	wrongShape := memory.NewFieldDef(root, "NotAType", memory.NewTypeDef("System", "Int32"))
	require.NoError(t, reg.Add(rv, fakeEntry{rv, wrongShape}))

	d := dispatch.New(g)
	_, err = d.Dispatch(fv, reg)
	assert.ErrorIs(t, err, dispatch.ErrUnexpectedShape)
}

func TestDispatchMethodBodyResolvesTargetMethod(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	method := memory.NewMethodDef(root, "M")
	body := memory.NewMethodBody(method)
	method.SetBody(body)

	mv := vertex(method, kind.KindMethod)
	bv := vertex(bodyEntity{body, method.FullName() + "$body"}, kind.KindMethodBody)

	g, err := graph.New([]graph.Vertex{mv, bv}, []graph.ParentChildEdge{{Parent: mv, Child: bv}}, nil, nil)
	require.NoError(t, err)

	reg := registry.New()
	tgtMethod := memory.NewMethodDef(root, "M")
	require.NoError(t, reg.Add(mv, fakeEntry{mv, tgtMethod}))

	d := dispatch.New(g)
	cloners, err := d.Dispatch(bv, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchParameterResolvesTargetMethod(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	method := memory.NewMethodDef(root, "M")
	param := method.AddParameter("x", memory.NewTypeDef("System", "Int32"))

	mv := vertex(method, kind.KindMethod)
	pv := vertex(param, kind.KindParameter)

	g, err := graph.New([]graph.Vertex{mv, pv}, []graph.ParentChildEdge{{Parent: mv, Child: pv}}, nil, nil)
	require.NoError(t, err)

	reg := registry.New()
	tgtMethod := memory.NewMethodDef(root, "M")
	require.NoError(t, reg.Add(mv, fakeEntry{mv, tgtMethod}))

	d := dispatch.New(g)
	cloners, err := d.Dispatch(pv, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchVariableAndInstructionResolveTargetBody(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	method := memory.NewMethodDef(root, "M")
	body := memory.NewMethodBody(method)
	method.SetBody(body)
	variable := body.AddVariable(memory.NewTypeDef("System", "Int32"))
	instr := body.Emit("nop")

	bv := vertex(bodyEntity{body, method.FullName() + "$body"}, kind.KindMethodBody)
	varV := vertex(variable, kind.KindVariable)
	instrV := vertex(instr, kind.KindInstruction)

	g, err := graph.New(
		[]graph.Vertex{bv, varV, instrV},
		[]graph.ParentChildEdge{{Parent: bv, Child: varV}, {Parent: bv, Child: instrV}},
		nil, nil,
	)
	require.NoError(t, err)

	reg := registry.New()
	tgtMethod := memory.NewMethodDef(root, "M")
	tgtBody := memory.NewMethodBody(tgtMethod)
	tgtMethod.SetBody(tgtBody)
	require.NoError(t, reg.Add(bv, fakeEntry{bv, bodyEntity{tgtBody, tgtMethod.FullName() + "$body"}}))

	d := dispatch.New(g)

	cloners, err := d.Dispatch(varV, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)

	cloners, err = d.Dispatch(instrV, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchExceptionHandlerResolvesTargetBody(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	method := memory.NewMethodDef(root, "M")
	body := memory.NewMethodBody(method)
	method.SetBody(body)
	tryStart := body.Emit("nop")
	tryEnd := body.Emit("nop")
	handlerStart := body.Emit("nop")
	handlerEnd := body.Emit("nop")
	handler := body.AddHandler(memory.NewExceptionHandler("catch", tryStart, tryEnd, handlerStart, handlerEnd))

	bv := vertex(bodyEntity{body, method.FullName() + "$body"}, kind.KindMethodBody)
	hv := vertex(handler, kind.KindExceptionHandler)

	g, err := graph.New([]graph.Vertex{bv, hv}, []graph.ParentChildEdge{{Parent: bv, Child: hv}}, nil, nil)
	require.NoError(t, err)

	reg := registry.New()
	tgtMethod := memory.NewMethodDef(root, "M")
	tgtBody := memory.NewMethodBody(tgtMethod)
	tgtMethod.SetBody(tgtBody)
	require.NoError(t, reg.Add(bv, fakeEntry{bv, bodyEntity{tgtBody, tgtMethod.FullName() + "$body"}}))

	d := dispatch.New(g)
	cloners, err := d.Dispatch(hv, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchGenericParameterResolvesOwner(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	gp := root.AddGenericParameter("T")

	rv := vertex(root, kind.KindType)
	gv := vertex(gp, kind.KindGenericParameter)

	g, err := graph.New([]graph.Vertex{rv, gv}, []graph.ParentChildEdge{{Parent: rv, Child: gv}}, nil, nil)
	require.NoError(t, err)

	reg := registry.New()
	tgtRoot := memory.NewTypeDef("Acme", "Root")
	require.NoError(t, reg.Add(rv, fakeEntry{rv, tgtRoot}))

	d := dispatch.New(g)
	cloners, err := d.Dispatch(gv, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}

func TestDispatchPropertyAndEventResolveParentType(t *testing.T) {
	root := memory.NewTypeDef("Acme", "Root")
	prop := memory.NewPropertyDef(root, "Count", memory.NewTypeDef("System", "Int32"))
	event := memory.NewEventDef(root, "Changed", memory.NewTypeDef("System", "EventHandler"))

	rv := vertex(root, kind.KindType)
	pv := vertex(prop, kind.KindProperty)
	ev := vertex(event, kind.KindEvent)

	g, err := graph.New(
		[]graph.Vertex{rv, pv, ev},
		[]graph.ParentChildEdge{{Parent: rv, Child: pv}, {Parent: rv, Child: ev}},
		nil, nil,
	)
	require.NoError(t, err)

	reg := registry.New()
	tgtRoot := memory.NewTypeDef("Acme", "Root")
	require.NoError(t, reg.Add(rv, fakeEntry{rv, tgtRoot}))

	d := dispatch.New(g)

	cloners, err := d.Dispatch(pv, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)

	cloners, err = d.Dispatch(ev, reg)
	require.NoError(t, err)
	require.Len(t, cloners, 1)
}
