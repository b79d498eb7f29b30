package main

import (
	"github.com/ilweave/mixweave/driver"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
)

// fixtureAttribute is the minimal model.CustomAttribute this demo needs:
// just enough identity for driver's attribute filter to compare against.
type fixtureAttribute struct {
	attrType model.TypeRef
}

func (a fixtureAttribute) AttributeType() model.TypeRef              { return a.attrType }
func (a fixtureAttribute) Arguments() []model.CustomAttributeArgument { return nil }

// buildFixtureModules constructs the source and target modules cmd/mixweave
// weaves against. There is no PE/IL reader in this module (model/memory is
// entirely out of scope for real assembly parsing, per spec.md §1), so the
// demo's "assemblies" are built by hand the same way every package's test
// suite builds its fixtures, standing in for a real decompiled input.
//
// The source type is a small counting mixin: one field and one method that
// reads it, plus a custom attribute marking the type as a mixin root
// (excluded from propagation by driver.DefaultAttributeFilter) and a second,
// ordinary attribute (propagated). The target type is an otherwise-empty
// widget that ends up with the mixin's members after the weave runs.
func buildFixtureModules() (sourceModule model.Module, targetModule model.Module) {
	int32Type := memory.NewTypeDef("System", "Int32")

	source := memory.NewModule("Acme.Mixins")
	mixinRoot := memory.NewTypeDef("Acme.Mixins", "Counting")
	mixinRoot.AttributesList = append(mixinRoot.AttributesList,
		fixtureAttribute{attrType: memory.NewTypeDef("", driver.MixinAttributeFullName)},
		fixtureAttribute{attrType: memory.NewTypeDef("Acme.Mixins", "DemoAttribute")},
	)

	count := memory.NewFieldDef(mixinRoot, "count", int32Type)
	mixinRoot.FieldList = append(mixinRoot.FieldList, count)

	increment := memory.NewMethodDef(mixinRoot, "Increment")
	body := memory.NewMethodBody(increment)
	increment.SetBody(body)
	ldfld := body.Emit("ldfld")
	ldfld.OperandKindValue = model.OperandField
	ldfld.FieldOp = count
	body.Emit("ret")
	mixinRoot.MethodList = append(mixinRoot.MethodList, increment)

	source.AddType(mixinRoot)

	target := memory.NewModule("Acme.Widgets")
	widget := memory.NewTypeDef("Acme.Widgets", "Gadget")
	target.AddType(widget)

	return source, target
}
