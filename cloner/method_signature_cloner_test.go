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

func TestMethodSignatureClonerCreatesMethodShell(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	srcMethod := memory.NewMethodDef(sourceRoot, "DoWork")
	srcMethod.CallConv = "default"
	srcMethod.HasThisFlag = true

	c := cloner.NewMethodSignatureCloner(vertex(srcMethod, kind.KindMethod), srcMethod, targetRoot)
	require.NoError(t, c.Create(ctx))

	require.Len(t, targetRoot.MethodList, 1)
	assert.Equal(t, "DoWork", targetRoot.MethodList[0].Name)
	assert.True(t, targetRoot.MethodList[0].HasThis())
}

func TestMethodSignatureClonerPopulateSetsReturnTypeAndAttributes(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	intType := memory.NewTypeDef("System", "Int32")
	srcMethod := memory.NewMethodDef(sourceRoot, "GetCount")
	srcMethod.Return = intType
	srcMethod.AttributesList = append(srcMethod.AttributesList, fakeAttribute{attrType: intType})

	c := cloner.NewMethodSignatureCloner(vertex(srcMethod, kind.KindMethod), srcMethod, targetRoot)
	require.NoError(t, c.Create(ctx))
	require.NoError(t, c.Populate(ctx))

	tm := targetRoot.MethodList[0]
	ret, ok := tm.ReturnType()
	require.True(t, ok)
	assert.Equal(t, "System.Int32", ret.FullName())
	assert.Len(t, tm.AttributesList, 1)
}

func TestMethodSignatureClonerPopulateSkipsVoidReturn(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	srcMethod := memory.NewMethodDef(sourceRoot, "Run")

	c := cloner.NewMethodSignatureCloner(vertex(srcMethod, kind.KindMethod), srcMethod, targetRoot)
	require.NoError(t, c.Create(ctx))
	require.NoError(t, c.Populate(ctx))

	_, ok := targetRoot.MethodList[0].ReturnType()
	assert.False(t, ok)
}
