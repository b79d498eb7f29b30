package cloner

import (
	"fmt"
	"strings"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// MethodSignatureCloner clones a method's shell: name, calling convention,
// return type, and an empty parameter list. It does not clone the body;
// MethodBodyCloner does that once every field and method the body might
// reference has at least a shell.
type MethodSignatureCloner struct {
	base
	sourceMethod model.MethodDef
	parent       model.TypeDef

	target model.MethodDef
}

func NewMethodSignatureCloner(v graph.Vertex, sourceMethod model.MethodDef, parent model.TypeDef) *MethodSignatureCloner {
	return &MethodSignatureCloner{base: base{source: v}, sourceMethod: sourceMethod, parent: parent}
}

func (c *MethodSignatureCloner) Target() model.Entity { return c.target }

func (c *MethodSignatureCloner) Create(ctx Context) error {
	m, err := ctx.Builder().DefineMethod(c.parent, simpleMethodName(c.sourceMethod.FullName()))
	if err != nil {
		return fmt.Errorf("cloner: create method %s: %w", c.sourceMethod.FullName(), err)
	}

	if err := ctx.Builder().SetMethodFlags(m, c.sourceMethod.CallingConvention(), c.sourceMethod.HasThis(), c.sourceMethod.ExplicitThis()); err != nil {
		return fmt.Errorf("cloner: method flags of %s: %w", c.sourceMethod.FullName(), err)
	}

	c.target = m

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceMethod, Kind: kind.KindMethod}, c)
}

func (c *MethodSignatureCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	if ret, ok := c.sourceMethod.ReturnType(); ok {
		imported, err := ctx.Importer().ImportType(ret)
		if err != nil {
			return fmt.Errorf("cloner: return type of %s: %w", c.sourceMethod.FullName(), err)
		}
		if err := ctx.Builder().SetMethodReturnType(c.target, imported); err != nil {
			return fmt.Errorf("cloner: set return type of %s: %w", c.sourceMethod.FullName(), err)
		}
	}

	return copyAttributes(ctx, c.sourceMethod.Attributes(), c.target)
}

// simpleMethodName strips the "DeclaringType::" prefix and the trailing
// "(paramTypes)" suffix memory.MethodDef bakes into FullName, leaving the
// bare method name.
func simpleMethodName(fullName string) string {
	name := simpleMemberName(fullName)
	if i := strings.IndexByte(name, '('); i >= 0 {
		return name[:i]
	}

	return name
}
