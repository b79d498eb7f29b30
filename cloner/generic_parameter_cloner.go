package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/importer"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// GenericParameterCloner clones one generic parameter of a type or method.
// DefineGenericParameter needs the owner's target, which Create looks up in
// the registry. Discovery makes each generic parameter a child of its owner,
// so in a weave the owner's clone is registered first; when it is not yet
// registered, Create still registers this cloner, Target reports
// importer.VoidGenericParameterTarget, and Populate tries again.
type GenericParameterCloner struct {
	base
	sourceParam model.GenericParameterDef
	owner       model.Entity // already-cloned owner's *source* entity

	target model.GenericParameterDef
}

// NewGenericParameterCloner builds a GenericParameterCloner for
// sourceParam, whose owner (a type or method) is identified by its source
// entity.
func NewGenericParameterCloner(v graph.Vertex, sourceParam model.GenericParameterDef, owner model.Entity) *GenericParameterCloner {
	return &GenericParameterCloner{base: base{source: v}, sourceParam: sourceParam, owner: owner}
}

func (c *GenericParameterCloner) Target() model.Entity {
	if c.target == nil {
		return importer.VoidGenericParameterTarget
	}

	return c.target
}

func (c *GenericParameterCloner) sourceVertex() graph.Vertex {
	return graph.Vertex{Entity: c.sourceParam, Kind: kind.KindGenericParameter}
}

// Create registers the placeholder immediately (so any Populate-phase
// lookup sees a recognizable void target rather than nothing at all), then
// patches it with the real target generic parameter if the owner's target
// already exists. If not, Populate will try again; by the population pass
// parent/child ∪ sibling order guarantees the owner exists.
func (c *GenericParameterCloner) Create(ctx Context) error {
	if err := ctx.Registry().Add(c.sourceVertex(), c); err != nil {
		return fmt.Errorf("cloner: register generic parameter %s: %w", c.sourceParam.FullName(), err)
	}

	return c.materialize(ctx)
}

func (c *GenericParameterCloner) materialize(ctx Context) error {
	if c.target != nil {
		return nil
	}

	ownerTarget, ok := ctx.Registry().TryGetTargetFor(c.owner)
	if !ok {
		return nil
	}

	gp, err := ctx.Builder().DefineGenericParameter(ownerTarget, c.sourceParam.Name())
	if err != nil {
		return fmt.Errorf("cloner: define generic parameter for %s: %w", c.sourceParam.FullName(), err)
	}

	c.target = gp

	return nil
}

// Populate ensures the target was materialized (a generic parameter whose
// owner's Create ran after this cloner's Create needs a second chance
// here). model.GenericParameterDef carries no attributes, so there is
// nothing else to copy.
func (c *GenericParameterCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	if err := c.materialize(ctx); err != nil {
		return err
	}
	if c.target == nil {
		return fmt.Errorf("%w: %s", importer.ErrUnmaterializedGenericParameter, c.sourceParam.FullName())
	}

	return nil
}
