package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// VariableCloner clones one local variable declared in a method body: its
// type (root-imported) and index. Indices are assigned by
// VariableCloner.Create calling the builder's AddVariable; the creation pass
// follows a body's variable sibling chain in source-declaration order, so
// the target index matches the source index.
type VariableCloner struct {
	base
	sourceVariable model.VariableDef
	targetBody     model.MethodBodyDef

	target model.VariableDef
}

func NewVariableCloner(v graph.Vertex, sourceVariable model.VariableDef, targetBody model.MethodBodyDef) *VariableCloner {
	return &VariableCloner{base: base{source: v}, sourceVariable: sourceVariable, targetBody: targetBody}
}

func (c *VariableCloner) Target() model.Entity { return c.target }

func (c *VariableCloner) Create(ctx Context) error {
	varType, err := ctx.Importer().ImportType(c.sourceVariable.VariableType())
	if err != nil {
		return fmt.Errorf("cloner: variable type of %s: %w", c.sourceVariable.FullName(), err)
	}

	v, err := ctx.Builder().AddVariable(c.targetBody, varType)
	if err != nil {
		return fmt.Errorf("cloner: create variable %s: %w", c.sourceVariable.FullName(), err)
	}

	c.target = v

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceVariable, Kind: kind.KindVariable}, c)
}

func (c *VariableCloner) Populate(ctx Context) error {
	return c.markPopulated()
}
