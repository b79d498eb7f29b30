package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/importer"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
	"github.com/ilweave/mixweave/registry"
)

// fallbackImporter is a minimal model.MetadataImporter stand-in for types
// that never belong to the mixin (e.g. a framework base class).
type fallbackImporter struct {
	types   map[string]model.TypeRef
	fields  map[string]model.FieldRef
	methods map[string]model.MethodRef
}

func newFallbackImporter() *fallbackImporter {
	return &fallbackImporter{
		types:   make(map[string]model.TypeRef),
		fields:  make(map[string]model.FieldRef),
		methods: make(map[string]model.MethodRef),
	}
}

func (f *fallbackImporter) ImportType(_ model.Module, ref model.TypeRef) (model.TypeRef, error) {
	if t, ok := f.types[ref.FullName()]; ok {
		return t, nil
	}
	return ref, nil
}

func (f *fallbackImporter) ImportField(_ model.Module, ref model.FieldRef) (model.FieldRef, error) {
	if fd, ok := f.fields[ref.FullName()]; ok {
		return fd, nil
	}
	return ref, nil
}

func (f *fallbackImporter) ImportMethod(_ model.Module, ref model.MethodRef) (model.MethodRef, error) {
	if m, ok := f.methods[ref.FullName()]; ok {
		return m, nil
	}
	return ref, nil
}

func vertex(e model.Entity, k kind.Kind) graph.Vertex {
	return graph.Vertex{Entity: e, Kind: k}
}

func TestImportTypeFallsBackForNonMixinTypes(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	sysString := memory.NewTypeDef("System", "String")
	got, err := e.ImportType(sysString)
	require.NoError(t, err)
	assert.Equal(t, "System.String", got.FullName())
}

func TestImportTypeUsesRegistryForMixinMappedTypes(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	require.NoError(t, reg.Add(vertex(sourceRoot, kind.KindType), fakeEntry{sourceRoot, targetRoot}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	got, err := e.ImportType(sourceRoot)
	require.NoError(t, err)
	assert.Equal(t, targetRoot.FullName(), got.FullName())
}

func TestImportTypeCachesResults(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	sysInt := memory.NewTypeDef("System", "Int32")
	first, err := e.ImportType(sysInt)
	require.NoError(t, err)
	second, err := e.ImportType(sysInt)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestImportTypeBuildsArrayOfImportedElement(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	elem := memory.NewTypeDef("System", "Int32")
	arr := memory.NewArrayType(elem, 1)

	got, err := e.ImportType(arr)
	require.NoError(t, err)
	assert.Equal(t, "System.Int32[]", got.FullName())
}

func TestImportTypeBuildsGenericInstanceOfImportedArguments(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	require.NoError(t, reg.Add(vertex(sourceRoot, kind.KindType), fakeEntry{sourceRoot, targetRoot}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	box := memory.NewTypeDef("Acme", "Box")
	instance := memory.NewGenericInstanceType(box, sourceRoot)

	got, err := e.ImportType(instance)
	require.NoError(t, err)
	assert.Contains(t, got.FullName(), targetRoot.FullName())
}

func TestImportGenericParameterResolvesThroughRegisteredTarget(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	srcGP := sourceRoot.AddGenericParameter("T")
	tgtGP := targetRoot.AddGenericParameter("T")

	require.NoError(t, reg.Add(vertex(srcGP, kind.KindGenericParameter), fakeEntry{srcGP, tgtGP}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	got, err := e.ImportGenericParameter(srcGP)
	require.NoError(t, err)
	assert.Equal(t, tgtGP.FullName(), got.FullName())
}

func TestImportGenericParameterFailsWhenNotRegistered(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	srcGP := sourceRoot.AddGenericParameter("T")

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	_, err := e.ImportGenericParameter(srcGP)
	assert.ErrorIs(t, err, importer.ErrUnknownGenericParameter)
}

func TestImportGenericParameterFailsWhenStillVoidPlaceholder(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	srcGP := sourceRoot.AddGenericParameter("T")

	require.NoError(t, reg.Add(vertex(srcGP, kind.KindGenericParameter), fakeEntry{srcGP, importer.VoidGenericParameterTarget}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	_, err := e.ImportGenericParameter(srcGP)
	assert.ErrorIs(t, err, importer.ErrUnmaterializedGenericParameter)
}

func TestImportFieldUsesRegistryWhenDeclaringTypeIsMixinMapped(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	intType := memory.NewTypeDef("System", "Int32")
	srcField := memory.NewFieldDef(sourceRoot, "Count", intType)
	tgtField := memory.NewFieldDef(targetRoot, "Count", intType)

	require.NoError(t, reg.Add(vertex(sourceRoot, kind.KindType), fakeEntry{sourceRoot, targetRoot}))
	require.NoError(t, reg.Add(vertex(srcField, kind.KindField), fakeEntry{srcField, tgtField}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	got, err := e.ImportField(srcField)
	require.NoError(t, err)
	assert.Equal(t, tgtField.FullName(), got.FullName())
}

func TestImportMethodResolvesClosedGenericInstantiation(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	srcMethod := memory.NewMethodDef(sourceRoot, "Generic")
	tgtMethod := memory.NewMethodDef(targetRoot, "Generic")

	require.NoError(t, reg.Add(vertex(sourceRoot, kind.KindType), fakeEntry{sourceRoot, targetRoot}))
	require.NoError(t, reg.Add(vertex(srcMethod, kind.KindMethod), fakeEntry{srcMethod, tgtMethod}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	intType := memory.NewTypeDef("System", "Int32")
	instance := memory.NewGenericMethodInstance(srcMethod, intType)

	got, err := e.ImportMethod(instance)
	require.NoError(t, err)
	assert.True(t, got.IsGenericInstance())
	assert.Equal(t, tgtMethod.FullName(), got.GenericDefinition().FullName())
}

func TestImportParameterIsPureRegistryLookup(t *testing.T) {
	reg := registry.New()
	build := memory.NewBuilder()
	fallback := newFallbackImporter()
	target := memory.NewModule("Target.dll")

	sourceRoot := memory.NewTypeDef("Acme", "Source")
	targetRoot := memory.NewTypeDef("Acme", "Target")

	intType := memory.NewTypeDef("System", "Int32")
	srcMethod := memory.NewMethodDef(sourceRoot, "M")
	tgtMethod := memory.NewMethodDef(targetRoot, "M")
	srcParam := srcMethod.AddParameter("x", intType)
	tgtParam := tgtMethod.AddParameter("x", intType)

	require.NoError(t, reg.Add(vertex(srcParam, kind.KindParameter), fakeEntry{srcParam, tgtParam}))

	e := importer.New(reg, build, fallback, target, sourceRoot, targetRoot)

	got, err := e.ImportParameter(srcParam)
	require.NoError(t, err)
	assert.Equal(t, tgtParam.FullName(), got.FullName())
}

// fakeEntry is a minimal registry.Entry test double.
type fakeEntry struct {
	source model.Entity
	target model.Entity
}

func (f fakeEntry) Source() graph.Vertex { return vertex(f.source, kind.KindType) }
func (f fakeEntry) Target() model.Entity { return f.target }
