package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// ExceptionHandlerCloner clones one try/catch/finally/filter region. Its
// try/handler/filter bounds reference instructions by identity and are
// resolved through the registry: Create resolves the four mandatory
// try/handler bounds and defines the handler, and Populate resolves the
// optional catch type and filter start.
type ExceptionHandlerCloner struct {
	base
	sourceHandler model.ExceptionHandlerDef
	targetBody    model.MethodBodyDef

	target model.ExceptionHandlerDef
}

func NewExceptionHandlerCloner(v graph.Vertex, sourceHandler model.ExceptionHandlerDef, targetBody model.MethodBodyDef) *ExceptionHandlerCloner {
	return &ExceptionHandlerCloner{base: base{source: v}, sourceHandler: sourceHandler, targetBody: targetBody}
}

func (c *ExceptionHandlerCloner) Target() model.Entity { return c.target }

// Create resolves the four mandatory instruction bounds immediately: the
// creation pass runs in parent/child ∪ sibling order, and an exception
// handler's instruction bounds are siblings created before it, so they
// already have registered targets.
func (c *ExceptionHandlerCloner) Create(ctx Context) error {
	tryStart, err := ctx.Importer().ImportInstruction(c.sourceHandler.TryStart())
	if err != nil {
		return fmt.Errorf("cloner: exception handler %s try-start: %w", c.sourceHandler.FullName(), err)
	}
	tryEnd, err := ctx.Importer().ImportInstruction(c.sourceHandler.TryEnd())
	if err != nil {
		return fmt.Errorf("cloner: exception handler %s try-end: %w", c.sourceHandler.FullName(), err)
	}
	handlerStart, err := ctx.Importer().ImportInstruction(c.sourceHandler.HandlerStart())
	if err != nil {
		return fmt.Errorf("cloner: exception handler %s handler-start: %w", c.sourceHandler.FullName(), err)
	}
	handlerEnd, err := ctx.Importer().ImportInstruction(c.sourceHandler.HandlerEnd())
	if err != nil {
		return fmt.Errorf("cloner: exception handler %s handler-end: %w", c.sourceHandler.FullName(), err)
	}

	h, err := ctx.Builder().AddExceptionHandler(c.targetBody, c.sourceHandler.HandlerKind(), tryStart, tryEnd, handlerStart, handlerEnd)
	if err != nil {
		return fmt.Errorf("cloner: create exception handler %s: %w", c.sourceHandler.FullName(), err)
	}

	c.target = h

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceHandler, Kind: kind.KindExceptionHandler}, c)
}

// Populate fills the optional catch type (root-imported, since it can name
// a type outside the cloning closure) and filter start (instruction
// identity, like the mandatory bounds).
func (c *ExceptionHandlerCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	if catchType, ok := c.sourceHandler.CatchType(); ok {
		imported, err := ctx.Importer().ImportType(catchType)
		if err != nil {
			return fmt.Errorf("cloner: catch type of %s: %w", c.sourceHandler.FullName(), err)
		}
		if err := ctx.Builder().SetExceptionHandlerCatchType(c.target, imported); err != nil {
			return fmt.Errorf("cloner: set catch type of %s: %w", c.sourceHandler.FullName(), err)
		}
	}

	if filterStart, ok := c.sourceHandler.FilterStart(); ok {
		imported, err := ctx.Importer().ImportInstruction(filterStart)
		if err != nil {
			return fmt.Errorf("cloner: filter start of %s: %w", c.sourceHandler.FullName(), err)
		}
		if err := ctx.Builder().SetExceptionHandlerFilter(c.target, imported); err != nil {
			return fmt.Errorf("cloner: set filter start of %s: %w", c.sourceHandler.FullName(), err)
		}
	}

	return nil
}
