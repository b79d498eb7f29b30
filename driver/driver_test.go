package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilweave/mixweave/driver"
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
)

// noopFallbackImporter treats every reference as already belonging to the
// target frame: none of the driver tests clone anything that reaches
// outside the mixin-mapped closure.
type noopFallbackImporter struct{}

func (noopFallbackImporter) ImportType(_ model.Module, ref model.TypeRef) (model.TypeRef, error) {
	return ref, nil
}

func (noopFallbackImporter) ImportField(_ model.Module, ref model.FieldRef) (model.FieldRef, error) {
	return ref, nil
}

func (noopFallbackImporter) ImportMethod(_ model.Module, ref model.MethodRef) (model.MethodRef, error) {
	return ref, nil
}

func buildSourceAndTarget(t *testing.T) (model.Module, model.TypeDef, model.Module, model.TypeDef) {
	t.Helper()

	intType := memory.NewTypeDef("System", "Int32")

	sourceModule := memory.NewModule("Source.Assembly")
	sourceRoot := memory.NewTypeDef("Acme", "Mixin")
	mixinAttr := fakeAttribute{attrType: memory.NewTypeDef("", driver.MixinAttributeFullName)}
	ordinaryAttr := fakeAttribute{attrType: memory.NewTypeDef("Acme", "OrdinaryAttribute")}
	sourceRoot.AttributesList = append(sourceRoot.AttributesList, mixinAttr, ordinaryAttr)

	field := memory.NewFieldDef(sourceRoot, "Count", intType)
	sourceRoot.FieldList = append(sourceRoot.FieldList, field)

	method := memory.NewMethodDef(sourceRoot, "Increment")
	body := memory.NewMethodBody(method)
	method.SetBody(body)
	ldfld := body.Emit("ldfld")
	ldfld.OperandKindValue = model.OperandField
	ldfld.FieldOp = field
	sourceRoot.MethodList = append(sourceRoot.MethodList, method)

	sourceModule.AddType(sourceRoot)

	targetModule := memory.NewModule("Target.Assembly")
	targetRoot := memory.NewTypeDef("Acme", "Widget")
	targetModule.AddType(targetRoot)

	return sourceModule, sourceRoot, targetModule, targetRoot
}

func TestWeaveClonesFieldsAndMethodsOntoExistingTarget(t *testing.T) {
	sourceModule, _, targetModule, targetRoot := buildSourceAndTarget(t)

	build := memory.NewBuilder()
	d := driver.New()
	result, err := d.Weave(context.Background(), sourceModule, "Acme.Mixin", targetModule, "Acme.Widget", build, noopFallbackImporter{}, driver.DefaultOptions())
	require.NoError(t, err)
	assert.Same(t, targetModule, result)

	concreteTarget := targetRoot.(*memory.TypeDef)
	require.Len(t, concreteTarget.FieldList, 1)
	assert.Equal(t, "Count", concreteTarget.FieldList[0].Name)
	require.Len(t, concreteTarget.MethodList, 1)
	assert.Equal(t, "Increment", concreteTarget.MethodList[0].Name)
}

func TestWeaveDoesNotDefineASpuriousSecondRootType(t *testing.T) {
	sourceModule, _, targetModule, _ := buildSourceAndTarget(t)

	build := memory.NewBuilder()
	d := driver.New()
	_, err := d.Weave(context.Background(), sourceModule, "Acme.Mixin", targetModule, "Acme.Widget", build, noopFallbackImporter{}, driver.DefaultOptions())
	require.NoError(t, err)

	concreteModule := targetModule.(*memory.Module)
	assert.Len(t, concreteModule.RootTypes(), 1)
}

func TestWeaveCopiesRootAttributesExcludingMixinMarker(t *testing.T) {
	sourceModule, _, targetModule, targetRoot := buildSourceAndTarget(t)

	build := memory.NewBuilder()
	d := driver.New()
	_, err := d.Weave(context.Background(), sourceModule, "Acme.Mixin", targetModule, "Acme.Widget", build, noopFallbackImporter{}, driver.DefaultOptions())
	require.NoError(t, err)

	attrs := targetRoot.Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "Acme.OrdinaryAttribute", attrs[0].AttributeType().FullName())
}

func TestWeaveRunsBeforeAndAfterCallbacks(t *testing.T) {
	sourceModule, _, targetModule, _ := buildSourceAndTarget(t)

	var before, after int
	opts := driver.DefaultOptions()
	opts.Callbacks.OnBeforeClone = func(v graph.Vertex) error {
		before++
		return nil
	}
	opts.Callbacks.OnAfterClone = func(v graph.Vertex, err error) error {
		after++
		return err
	}

	build := memory.NewBuilder()
	d := driver.New()

	_, err := d.Weave(context.Background(), sourceModule, "Acme.Mixin", targetModule, "Acme.Widget", build, noopFallbackImporter{}, opts)
	require.NoError(t, err)
	assert.True(t, before > 0)
	// OnBeforeClone runs once per non-root vertex, before Create; OnAfterClone
	// runs after Create and again after Populate, and every vertex here has
	// exactly one cloner.
	assert.Equal(t, 2*before, after)
}
