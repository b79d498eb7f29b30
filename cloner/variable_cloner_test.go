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

func TestVariableClonerAddsVariableToBody(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	intType := memory.NewTypeDef("System", "Int32")
	srcMethod := memory.NewMethodDef(sourceRoot, "M")
	srcBody := memory.NewMethodBody(srcMethod)
	srcMethod.SetBody(srcBody)
	srcVar := srcBody.AddVariable(intType)

	tgtMethod := memory.NewMethodDef(targetRoot, "M")
	tgtBody := memory.NewMethodBody(tgtMethod)
	tgtMethod.SetBody(tgtBody)

	c := cloner.NewVariableCloner(vertex(srcVar, kind.KindVariable), srcVar, tgtBody)
	require.NoError(t, c.Create(ctx))
	require.NoError(t, c.Populate(ctx))

	require.Len(t, tgtBody.VariableList, 1)
	assert.Equal(t, 0, tgtBody.VariableList[0].Index())

	got, err := reg.GetTargetFor(srcVar)
	require.NoError(t, err)
	assert.Equal(t, tgtBody.VariableList[0].FullName(), got.FullName())
}

func TestVariableClonerPopulateTwiceFails(t *testing.T) {
	reg := registry.New()
	target := memory.NewModule("Target.dll")
	sourceRoot, targetRoot := newRootPair()
	ctx := newTestContext(reg, target, sourceRoot, targetRoot)

	intType := memory.NewTypeDef("System", "Int32")
	srcMethod := memory.NewMethodDef(sourceRoot, "M")
	srcBody := memory.NewMethodBody(srcMethod)
	srcVar := srcBody.AddVariable(intType)

	tgtMethod := memory.NewMethodDef(targetRoot, "M")
	tgtBody := memory.NewMethodBody(tgtMethod)

	c := cloner.NewVariableCloner(vertex(srcVar, kind.KindVariable), srcVar, tgtBody)
	require.NoError(t, c.Create(ctx))
	require.NoError(t, c.Populate(ctx))
	assert.ErrorIs(t, c.Populate(ctx), cloner.ErrDoubleInvoke)
}
