package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// MethodBodyCloner clones a method body's scalar fields: max-stack and
// init-locals. The local-variable table, instruction stream, and exception
// handlers are each cloned by their own VariableCloner/InstructionCloner/
// ExceptionHandlerCloner vertices, discovered as the body's structural
// children; MethodBodyCloner.Create only has to reserve the target body
// itself so those children have somewhere to attach.
//
// v (the vertex passed to NewMethodBodyCloner) is the body's own discovered
// vertex, a child of its owning method in the graph: model.MethodBodyDef
// carries no FullName of its own, so the driver package's Discoverer is
// responsible for giving it a stable one (by convention, the owning
// method's full name plus a "$body" suffix) when it builds the vertex set.
// methodBodyEntity here only needs to relay that identity, not invent it.
type MethodBodyCloner struct {
	base
	sourceBody   model.MethodBodyDef
	targetMethod model.MethodDef

	target model.MethodBodyDef
}

func NewMethodBodyCloner(v graph.Vertex, sourceBody model.MethodBodyDef, targetMethod model.MethodDef) *MethodBodyCloner {
	return &MethodBodyCloner{base: base{source: v}, sourceBody: sourceBody, targetMethod: targetMethod}
}

func (c *MethodBodyCloner) Target() model.Entity {
	return methodBodyEntity{c.target, c.source.Entity.FullName()}
}

func (c *MethodBodyCloner) Create(ctx Context) error {
	b, err := ctx.Builder().DefineMethodBody(c.targetMethod)
	if err != nil {
		return fmt.Errorf("cloner: create method body: %w", err)
	}

	c.target = b

	return ctx.Registry().Add(c.source, c)
}

func (c *MethodBodyCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	return ctx.Builder().SetBodyFlags(c.target, c.sourceBody.MaxStack(), c.sourceBody.InitLocals())
}

// methodBodyEntity adapts a model.MethodBodyDef, which has no FullName or
// Kind of its own, into a model.Entity by relaying the identity its
// discovered vertex already carries.
type methodBodyEntity struct {
	model.MethodBodyDef
	fullName string
}

func (m methodBodyEntity) Kind() kind.Kind  { return kind.KindMethodBody }
func (m methodBodyEntity) FullName() string { return m.fullName }
