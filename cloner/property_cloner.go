package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// PropertyCloner clones a property's name, attributes, and type, then
// attaches its already-cloned get/set accessor methods: the
// MethodSignatureCloners for those accessors register their clones during
// the creation pass, which finishes before any Populate runs, so Populate
// looks them up in the registry.
type PropertyCloner struct {
	base
	sourceProperty model.PropertyDef
	parent         model.TypeDef

	target model.PropertyDef
}

func NewPropertyCloner(v graph.Vertex, sourceProperty model.PropertyDef, parent model.TypeDef) *PropertyCloner {
	return &PropertyCloner{base: base{source: v}, sourceProperty: sourceProperty, parent: parent}
}

func (c *PropertyCloner) Target() model.Entity { return c.target }

func (c *PropertyCloner) Create(ctx Context) error {
	propType, err := ctx.Importer().ImportType(c.sourceProperty.PropertyType())
	if err != nil {
		return fmt.Errorf("cloner: property type of %s: %w", c.sourceProperty.FullName(), err)
	}

	p, err := ctx.Builder().DefineProperty(c.parent, simpleMemberName(c.sourceProperty.FullName()), propType)
	if err != nil {
		return fmt.Errorf("cloner: create property %s: %w", c.sourceProperty.FullName(), err)
	}

	c.target = p

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceProperty, Kind: kind.KindProperty}, c)
}

func (c *PropertyCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	getter, setter, err := resolveAccessors(ctx, c.sourceProperty.Getter, c.sourceProperty.Setter)
	if err != nil {
		return fmt.Errorf("cloner: accessors of %s: %w", c.sourceProperty.FullName(), err)
	}

	if err := ctx.Builder().SetPropertyAccessors(c.target, getter, setter); err != nil {
		return fmt.Errorf("cloner: set accessors of %s: %w", c.sourceProperty.FullName(), err)
	}

	return copyAttributes(ctx, c.sourceProperty.Attributes(), c.target)
}

// resolveAccessors looks each optional accessor's clone up in the registry
// by its source method's identity.
func resolveAccessors(ctx Context, getSource func() (model.MethodDef, bool), getOther func() (model.MethodDef, bool)) (model.MethodDef, model.MethodDef, error) {
	a, err := resolveAccessor(ctx, getSource)
	if err != nil {
		return nil, nil, err
	}
	b, err := resolveAccessor(ctx, getOther)
	if err != nil {
		return nil, nil, err
	}

	return a, b, nil
}

func resolveAccessor(ctx Context, get func() (model.MethodDef, bool)) (model.MethodDef, error) {
	src, ok := get()
	if !ok {
		return nil, nil
	}

	target, err := ctx.Registry().GetTargetFor(src)
	if err != nil {
		return nil, err
	}

	m, ok := target.(model.MethodDef)
	if !ok {
		return nil, fmt.Errorf("cloner: clone for accessor %s is not a method", src.FullName())
	}

	return m, nil
}
