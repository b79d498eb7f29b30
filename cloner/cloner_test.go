package cloner_test

import (
	"testing"

	"github.com/ilweave/mixweave/cloner"
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/importer"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
	"github.com/ilweave/mixweave/registry"
)

// noopFallbackImporter treats every reference as already belonging to the
// target frame, which is all the cloner tests need: none of them clone a
// type that reaches outside the mixin-mapped closure.
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

// testContext is a minimal cloner.Context test double wired over the
// in-memory model package, mirroring what driver's concrete Context
// provides without pulling in the driver package (which would import
// cloner right back).
type testContext struct {
	reg    *registry.Registry
	build  model.Builder
	target model.Module
	imp    *importer.Engine

	skipCtor   bool
	excludeAll bool
}

func newTestContext(reg *registry.Registry, target model.Module, sourceRoot, targetRoot model.TypeDef) *testContext {
	build := memory.NewBuilder()

	return &testContext{
		reg:    reg,
		build:  build,
		target: target,
		imp:    importer.New(reg, build, noopFallbackImporter{}, target, sourceRoot, targetRoot),
	}
}

func (c *testContext) Importer() *importer.Engine    { return c.imp }
func (c *testContext) Registry() *registry.Registry  { return c.reg }
func (c *testContext) Builder() model.Builder        { return c.build }
func (c *testContext) TargetModule() model.Module    { return c.target }
func (c *testContext) SkipConstructorMark() bool     { return c.skipCtor }
func (c *testContext) IncludeAttribute(_ model.CustomAttribute) bool {
	return !c.excludeAll
}

var _ cloner.Context = (*testContext)(nil)

func vertex(e model.Entity, k kind.Kind) graph.Vertex {
	return graph.Vertex{Entity: e, Kind: k}
}

// fakeAttribute is a minimal model.CustomAttribute test double.
type fakeAttribute struct {
	attrType model.TypeRef
}

func (f fakeAttribute) AttributeType() model.TypeRef                 { return f.attrType }
func (f fakeAttribute) Arguments() []model.CustomAttributeArgument    { return nil }

func newRootPair() (*memory.TypeDef, *memory.TypeDef) {
	return memory.NewTypeDef("Acme", "Source"), memory.NewTypeDef("Acme", "Target")
}
