package cloner

import (
	"fmt"
	"strings"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// ParameterCloner clones one method parameter (or its return-value slot).
// Its target is registered during Create, not just Populate, because
// InstructionCloner needs the source->target parameter mapping (via the
// registry) to rewrite parameter operands, and instructions are only ever
// populated, never created, from a parameter's perspective.
type ParameterCloner struct {
	base
	sourceParam  model.ParameterDef
	targetMethod model.MethodDef

	target model.ParameterDef
}

func NewParameterCloner(v graph.Vertex, sourceParam model.ParameterDef, targetMethod model.MethodDef) *ParameterCloner {
	return &ParameterCloner{base: base{source: v}, sourceParam: sourceParam, targetMethod: targetMethod}
}

func (c *ParameterCloner) Target() model.Entity { return c.target }

func (c *ParameterCloner) Create(ctx Context) error {
	paramType, err := ctx.Importer().ImportType(c.sourceParam.ParameterType())
	if err != nil {
		return fmt.Errorf("cloner: parameter type of %s: %w", c.sourceParam.FullName(), err)
	}

	p, err := ctx.Builder().AddParameter(c.targetMethod, parameterName(c.sourceParam), paramType)
	if err != nil {
		return fmt.Errorf("cloner: create parameter %s: %w", c.sourceParam.FullName(), err)
	}

	if err := ctx.Builder().SetParameterFlags(p, c.sourceParam.In(), c.sourceParam.Out(), c.sourceParam.Optional(), c.sourceParam.IsReturnValue()); err != nil {
		return fmt.Errorf("cloner: parameter flags of %s: %w", c.sourceParam.FullName(), err)
	}

	c.target = p

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceParam, Kind: kind.KindParameter}, c)
}

func (c *ParameterCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	if value, ok := c.sourceParam.ConstantValue(); ok {
		if err := ctx.Builder().SetParameterConstant(c.target, value); err != nil {
			return fmt.Errorf("cloner: constant of %s: %w", c.sourceParam.FullName(), err)
		}
	}

	if info, ok := c.sourceParam.MarshalInfo(); ok {
		if err := ctx.Builder().SetParameterMarshalInfo(c.target, info); err != nil {
			return fmt.Errorf("cloner: marshal info of %s: %w", c.sourceParam.FullName(), err)
		}
	}

	return copyAttributes(ctx, c.sourceParam.Attributes(), c.target)
}

// parameterName recovers the bare parameter name from FullName's
// "Owner$position[name]" shape memory.ParameterDef uses.
func parameterName(p model.ParameterDef) string {
	full := p.FullName()
	if i := strings.LastIndexByte(full, '['); i >= 0 && strings.HasSuffix(full, "]") {
		return full[i+1 : len(full)-1]
	}

	return full
}
