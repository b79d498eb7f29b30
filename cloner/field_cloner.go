package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// FieldCloner clones one field: name, attributes, type, constant value, and
// marshal info.
type FieldCloner struct {
	base
	sourceField model.FieldDef
	parent      model.TypeDef

	target model.FieldDef
}

func NewFieldCloner(v graph.Vertex, sourceField model.FieldDef, parent model.TypeDef) *FieldCloner {
	return &FieldCloner{base: base{source: v}, sourceField: sourceField, parent: parent}
}

func (c *FieldCloner) Target() model.Entity { return c.target }

func (c *FieldCloner) Create(ctx Context) error {
	fieldType, err := ctx.Importer().ImportType(c.sourceField.FieldType())
	if err != nil {
		return fmt.Errorf("cloner: field type of %s: %w", c.sourceField.FullName(), err)
	}

	f, err := ctx.Builder().DefineField(c.parent, simpleMemberName(c.sourceField.FullName()), fieldType)
	if err != nil {
		return fmt.Errorf("cloner: create field %s: %w", c.sourceField.FullName(), err)
	}

	c.target = f

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceField, Kind: kind.KindField}, c)
}

func (c *FieldCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	if value, ok := c.sourceField.ConstantValue(); ok {
		if err := ctx.Builder().SetFieldConstant(c.target, value); err != nil {
			return fmt.Errorf("cloner: constant of %s: %w", c.sourceField.FullName(), err)
		}
	}

	if info, ok := c.sourceField.MarshalInfo(); ok {
		if err := ctx.Builder().SetFieldMarshalInfo(c.target, info); err != nil {
			return fmt.Errorf("cloner: marshal info of %s: %w", c.sourceField.FullName(), err)
		}
	}

	return copyAttributes(ctx, c.sourceField.Attributes(), c.target)
}

// simpleMemberName strips the "DeclaringType::" prefix memory.FieldDef and
// memory.MethodDef bake into FullName, leaving the bare member name.
func simpleMemberName(fullName string) string {
	for i := len(fullName) - 1; i >= 1; i-- {
		if fullName[i] == ':' && fullName[i-1] == ':' {
			return fullName[i+1:]
		}
	}

	return fullName
}
