package cloner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilweave/mixweave/cloner"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model/memory"
	"github.com/ilweave/mixweave/registry"
)

func TestTypeClonerCreatesRootTypeUnderModule(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	c := cloner.NewTypeCloner(vertex(sourceRoot, kind.KindType), sourceRoot, nil)
	require.NoError(t, c.Create(ctx))

	got := c.Target()
	require.NotNil(t, got)
	assert.Equal(t, "Acme.Source", got.FullName())

	gotEntry, err := reg.GetTargetFor(sourceRoot)
	require.NoError(t, err)
	assert.Equal(t, got.FullName(), gotEntry.FullName())
}

func TestTypeClonerNestsUnderParent(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	parentSource := memory.NewTypeDef("Acme", "Outer")
	nestedSource := memory.NewTypeDef("", "Inner")
	parentSource.AddNested(nestedSource)

	parentTarget := memory.NewTypeDef("Acme", "Outer")

	c := cloner.NewTypeCloner(vertex(nestedSource, kind.KindType), nestedSource, parentTarget)
	require.NoError(t, c.Create(ctx))

	assert.Len(t, parentTarget.Nested, 1)
	assert.Equal(t, "Inner", parentTarget.Nested[0].Name)
}

func TestTypeClonerPopulateCopiesBaseTypeInterfacesAndAttributes(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	base := memory.NewTypeDef("System", "Object")
	iface := memory.NewTypeDef("System", "IDisposable")
	sourceRoot.Base = base
	sourceRoot.IfaceList = append(sourceRoot.IfaceList, iface)
	sourceRoot.AttributesList = append(sourceRoot.AttributesList, fakeAttribute{attrType: base})

	c := cloner.NewTypeCloner(vertex(sourceRoot, kind.KindType), sourceRoot, nil)
	require.NoError(t, c.Create(ctx))
	require.NoError(t, c.Populate(ctx))

	td := c.Target()
	concrete, ok := td.(*memory.TypeDef)
	require.True(t, ok)
	require.NotNil(t, concrete.Base)
	assert.Equal(t, "System.Object", concrete.Base.FullName())
	require.Len(t, concrete.IfaceList, 1)
	assert.Equal(t, "System.IDisposable", concrete.IfaceList[0].FullName())
	assert.Len(t, concrete.AttributesList, 1)
}

func TestTypeClonerPopulateTwiceFails(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	c := cloner.NewTypeCloner(vertex(sourceRoot, kind.KindType), sourceRoot, nil)
	require.NoError(t, c.Create(ctx))
	require.NoError(t, c.Populate(ctx))

	err := c.Populate(ctx)
	assert.ErrorIs(t, err, cloner.ErrDoubleInvoke)
}
