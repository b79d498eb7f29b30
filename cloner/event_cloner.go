package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// EventCloner clones an event's name, attributes, and type, then attaches
// its already-cloned add/remove accessor methods by name resolution, the
// same way PropertyCloner does for get/set.
type EventCloner struct {
	base
	sourceEvent model.EventDef
	parent      model.TypeDef

	target model.EventDef
}

func NewEventCloner(v graph.Vertex, sourceEvent model.EventDef, parent model.TypeDef) *EventCloner {
	return &EventCloner{base: base{source: v}, sourceEvent: sourceEvent, parent: parent}
}

func (c *EventCloner) Target() model.Entity { return c.target }

func (c *EventCloner) Create(ctx Context) error {
	eventType, err := ctx.Importer().ImportType(c.sourceEvent.EventType())
	if err != nil {
		return fmt.Errorf("cloner: event type of %s: %w", c.sourceEvent.FullName(), err)
	}

	e, err := ctx.Builder().DefineEvent(c.parent, simpleMemberName(c.sourceEvent.FullName()), eventType)
	if err != nil {
		return fmt.Errorf("cloner: create event %s: %w", c.sourceEvent.FullName(), err)
	}

	c.target = e

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceEvent, Kind: kind.KindEvent}, c)
}

func (c *EventCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	add, remove, err := resolveAccessors(ctx, c.sourceEvent.AddMethod, c.sourceEvent.RemoveMethod)
	if err != nil {
		return fmt.Errorf("cloner: accessors of %s: %w", c.sourceEvent.FullName(), err)
	}

	if err := ctx.Builder().SetEventAccessors(c.target, add, remove); err != nil {
		return fmt.Errorf("cloner: set accessors of %s: %w", c.sourceEvent.FullName(), err)
	}

	return copyAttributes(ctx, c.sourceEvent.Attributes(), c.target)
}
