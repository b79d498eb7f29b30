package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// TypeCloner clones a nested or top-level type: the type itself, its base
// type reference, its interface list, and its attributes. Its own members
// (fields, methods, ...) are each handled by their own cloner, discovered as
// separate vertices and created only after TypeCloner.Create has registered
// this type's target shell.
type TypeCloner struct {
	base
	sourceType model.TypeDef
	parent     model.TypeDef // nil for the mixin root, which attaches directly to the target module

	target model.TypeDef
}

// NewTypeCloner builds a TypeCloner for sourceType, attaching under parent
// (nil when sourceType is the mixin root, in which case it attaches to
// ctx.TargetModule() instead).
func NewTypeCloner(v graph.Vertex, sourceType model.TypeDef, parent model.TypeDef) *TypeCloner {
	return &TypeCloner{base: base{source: v}, sourceType: sourceType, parent: parent}
}

func (c *TypeCloner) Target() model.Entity { return c.target }

// Create defines the target type under its parent (or the target module,
// for the root) and copies its namespace/name. Base type, interfaces, and
// attributes are filled in during Populate, once every type the base/
// interfaces might reference has at least a shell.
func (c *TypeCloner) Create(ctx Context) error {
	t, err := ctx.Builder().DefineType(ctx.TargetModule(), namespaceOf(c.sourceType), simpleNameOf(c.sourceType))
	if err != nil {
		return fmt.Errorf("cloner: create type %s: %w", c.sourceType.FullName(), err)
	}

	if c.parent != nil {
		if err := ctx.Builder().AddNestedType(c.parent, t); err != nil {
			return fmt.Errorf("cloner: nest type %s: %w", c.sourceType.FullName(), err)
		}
	}

	c.target = t

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceType, Kind: kind.KindType}, c)
}

func (c *TypeCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	if baseType, ok := c.sourceType.BaseType(); ok {
		importedBase, err := ctx.Importer().ImportType(baseType)
		if err != nil {
			return fmt.Errorf("cloner: base type of %s: %w", c.sourceType.FullName(), err)
		}
		if err := ctx.Builder().SetBaseType(c.target, importedBase); err != nil {
			return fmt.Errorf("cloner: set base type of %s: %w", c.sourceType.FullName(), err)
		}
	}

	for _, iface := range c.sourceType.Interfaces() {
		imported, err := ctx.Importer().ImportType(iface)
		if err != nil {
			return fmt.Errorf("cloner: interface of %s: %w", c.sourceType.FullName(), err)
		}
		if err := ctx.Builder().AddInterface(c.target, imported); err != nil {
			return fmt.Errorf("cloner: add interface to %s: %w", c.sourceType.FullName(), err)
		}
	}

	return copyAttributes(ctx, c.sourceType.Attributes(), c.target)
}

func namespaceOf(t model.TypeDef) string {
	if _, nested := t.DeclaringType(); nested {
		return ""
	}
	// FullName for a root type is "Namespace.Name"; split on the last dot.
	full := t.FullName()
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == '.' {
			return full[:i]
		}
	}

	return ""
}

// simpleNameOf returns t's bare name, stripping any namespace ("NS.Name")
// or nesting ("Outer+Name") prefix FullName carries.
func simpleNameOf(t model.TypeDef) string {
	full := t.FullName()
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == '.' || full[i] == '+' {
			return full[i+1:]
		}
	}

	return full
}

// CopyAttributes exports copyAttributes for callers outside this package
// that need the same filtered re-attachment without a full Cloner of their
// own — namely the driver, which copies the mixin root's qualifying
// attributes directly onto the caller-supplied target root instead of
// through a TypeCloner (the root's target already exists; it is never
// Create'd).
func CopyAttributes(ctx Context, attrs []model.CustomAttribute, target model.Entity) error {
	return copyAttributes(ctx, attrs, target)
}

// copyAttributes re-attaches every attribute in attrs that
// ctx.IncludeAttribute approves, skipping the rest. Each attribute is
// attached as the same value: its attribute type and any type-valued
// arguments are not root-imported.
func copyAttributes(ctx Context, attrs []model.CustomAttribute, target model.Entity) error {
	for _, a := range attrs {
		if !ctx.IncludeAttribute(a) {
			continue
		}
		if err := ctx.Builder().AddAttribute(target, a); err != nil {
			return fmt.Errorf("cloner: attribute on %s: %w", target.FullName(), err)
		}
	}

	return nil
}
