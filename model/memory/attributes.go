package memory

import "github.com/ilweave/mixweave/model"

// CustomAttribute is a custom-attribute instance attached to any Entity.
type CustomAttribute struct {
	Type     model.TypeRef
	ArgumentList []model.CustomAttributeArgument
}

func NewCustomAttribute(t model.TypeRef, args ...model.CustomAttributeArgument) *CustomAttribute {
	return &CustomAttribute{Type: t, ArgumentList: args}
}

func (c *CustomAttribute) AttributeType() model.TypeRef             { return c.Type }
func (c *CustomAttribute) Arguments() []model.CustomAttributeArgument { return c.ArgumentList }

// CustomAttributeArgument is one positional argument of a CustomAttribute.
type CustomAttributeArgument struct {
	Type   model.TypeRef
	RawValue any
}

func NewCustomAttributeArgument(t model.TypeRef, value any) *CustomAttributeArgument {
	return &CustomAttributeArgument{Type: t, RawValue: value}
}

func (a *CustomAttributeArgument) ArgumentType() model.TypeRef { return a.Type }
func (a *CustomAttributeArgument) Value() any                  { return a.RawValue }
