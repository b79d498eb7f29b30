// Package dispatch maps a discovered graph.Vertex to the cloner(s) that
// clone it, generalizing the teacher's builder/api.go Constructor
// factory-table idea (BuildGraph running an ordered list of Constructor
// closures) from "list of closures run once" to "table of closures keyed by
// kind.Kind, invoked once per discovered vertex".
//
// Dispatcher closes over the weave's graph.Graph so each Factory can look
// up v's parent vertex and, through the registry, that parent's
// already-created target entity — every cloner constructor needs its
// parent as a concrete target-side handle (a model.TypeDef to nest a field
// under, a model.MethodBodyDef to append an instruction to, ...), and the
// creation-pass topological order guarantees the parent's Entry is already
// registered by the time its children dispatch.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/ilweave/mixweave/cloner"
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/registry"
)

var (
	// ErrUnknownKind is returned by Dispatch for a kind.Kind with no
	// registered Factory. dispatch_test.go's exhaustiveness assertion over
	// dispatch.New's table exists precisely so this never happens at
	// weave time.
	ErrUnknownKind = errors.New("dispatch: no factory registered for kind")

	// ErrMissingParent is returned when a vertex that requires a parent
	// (every kind but the mixin root type) has none in the graph.
	ErrMissingParent = errors.New("dispatch: vertex has no parent")

	// ErrParentNotCloned is returned when a vertex's parent has no
	// registered clone yet, which indicates a topological-order bug
	// upstream in the driver, not a legitimate runtime outcome.
	ErrParentNotCloned = errors.New("dispatch: parent vertex has no registered clone")

	// ErrUnexpectedShape is returned when a vertex's Entity, or its
	// resolved parent's clone, does not satisfy the concrete model
	// interface its kind requires.
	ErrUnexpectedShape = errors.New("dispatch: vertex or parent clone has unexpected shape")
)

// Factory builds the cloner(s) for one discovered vertex. It returns a
// slice, and the driver runs every Cloner in it, but each Factory that New
// wires returns exactly one Cloner.
type Factory func(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error)

// Dispatcher is a map[kind.Kind]Factory built once at driver construction.
// Exhaustiveness over kind.Kind is asserted by dispatch_test.go, not the
// compiler: Go has no sealed interfaces, so this is as close as the
// language gets to the "closed sum... making exhaustiveness a compile-time
// property" design note.
type Dispatcher struct {
	g     *graph.Graph
	table map[kind.Kind]Factory
}

// New builds a Dispatcher over g, wiring one Factory per kind.Kind.
func New(g *graph.Graph) *Dispatcher {
	d := &Dispatcher{g: g}
	d.table = map[kind.Kind]Factory{
		kind.KindType:             d.dispatchType,
		kind.KindGenericParameter: d.dispatchGenericParameter,
		kind.KindField:            d.dispatchField,
		kind.KindMethod:           d.dispatchMethod,
		kind.KindMethodBody:       d.dispatchMethodBody,
		kind.KindParameter:        d.dispatchParameter,
		kind.KindVariable:         d.dispatchVariable,
		kind.KindInstruction:      d.dispatchInstruction,
		kind.KindExceptionHandler: d.dispatchExceptionHandler,
		kind.KindProperty:         d.dispatchProperty,
		kind.KindEvent:            d.dispatchEvent,
	}

	return d
}

// Dispatch returns the cloner(s) for v, looking up v.Kind's Factory and
// invoking it with reg.
func (d *Dispatcher) Dispatch(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	factory, ok := d.table[v.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, v.Kind)
	}

	return factory(v, reg)
}

// Kinds returns every kind.Kind with a registered Factory, in no particular
// order. dispatch_test.go uses this to assert table completeness.
func (d *Dispatcher) Kinds() []kind.Kind {
	out := make([]kind.Kind, 0, len(d.table))
	for k := range d.table {
		out = append(out, k)
	}

	return out
}

// parentTarget resolves v's parent vertex in the graph and its registered
// clone. required controls whether a missing parent is an error (every
// kind but the mixin root type, which attaches directly to the target
// module).
func (d *Dispatcher) parentTarget(v graph.Vertex, reg *registry.Registry, required bool) (model.Entity, error) {
	parent, ok := d.g.TryParentOf(v)
	if !ok {
		if required {
			return nil, fmt.Errorf("%w: %s", ErrMissingParent, v.Entity.FullName())
		}

		return nil, nil
	}

	target, err := reg.GetTargetFor(parent.Entity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParentNotCloned, v.Entity.FullName(), err)
	}

	return target, nil
}

func (d *Dispatcher) dispatchType(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceType, ok := v.Entity.(model.TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.TypeDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	parentTarget, err := d.parentTarget(v, reg, false)
	if err != nil {
		return nil, err
	}

	var parent model.TypeDef
	if parentTarget != nil {
		parent, ok = parentTarget.(model.TypeDef)
		if !ok {
			return nil, fmt.Errorf("%w: parent of %s is not a model.TypeDef", ErrUnexpectedShape, v.Entity.FullName())
		}
	}

	return []cloner.Cloner{cloner.NewTypeCloner(v, sourceType, parent)}, nil
}

func (d *Dispatcher) dispatchGenericParameter(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceParam, ok := v.Entity.(model.GenericParameterDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.GenericParameterDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	if _, err := d.parentTarget(v, reg, true); err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewGenericParameterCloner(v, sourceParam, sourceParam.Owner())}, nil
}

func (d *Dispatcher) dispatchField(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceField, ok := v.Entity.(model.FieldDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.FieldDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	parent, err := d.requireParentType(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewFieldCloner(v, sourceField, parent)}, nil
}

func (d *Dispatcher) dispatchMethod(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceMethod, ok := v.Entity.(model.MethodDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.MethodDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	parent, err := d.requireParentType(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewMethodSignatureCloner(v, sourceMethod, parent)}, nil
}

func (d *Dispatcher) dispatchMethodBody(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceBody, ok := v.Entity.(model.MethodBodyDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.MethodBodyDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	targetMethod, err := d.requireParentMethod(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewMethodBodyCloner(v, sourceBody, targetMethod)}, nil
}

func (d *Dispatcher) dispatchParameter(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceParam, ok := v.Entity.(model.ParameterDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.ParameterDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	targetMethod, err := d.requireParentMethod(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewParameterCloner(v, sourceParam, targetMethod)}, nil
}

func (d *Dispatcher) dispatchVariable(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceVariable, ok := v.Entity.(model.VariableDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.VariableDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	targetBody, err := d.requireParentBody(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewVariableCloner(v, sourceVariable, targetBody)}, nil
}

func (d *Dispatcher) dispatchInstruction(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceInstruction, ok := v.Entity.(model.InstructionDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.InstructionDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	targetBody, err := d.requireParentBody(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewInstructionCloner(v, sourceInstruction, targetBody)}, nil
}

func (d *Dispatcher) dispatchExceptionHandler(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceHandler, ok := v.Entity.(model.ExceptionHandlerDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.ExceptionHandlerDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	targetBody, err := d.requireParentBody(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewExceptionHandlerCloner(v, sourceHandler, targetBody)}, nil
}

func (d *Dispatcher) dispatchProperty(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceProperty, ok := v.Entity.(model.PropertyDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.PropertyDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	parent, err := d.requireParentType(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewPropertyCloner(v, sourceProperty, parent)}, nil
}

func (d *Dispatcher) dispatchEvent(v graph.Vertex, reg *registry.Registry) ([]cloner.Cloner, error) {
	sourceEvent, ok := v.Entity.(model.EventDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a model.EventDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	parent, err := d.requireParentType(v, reg)
	if err != nil {
		return nil, err
	}

	return []cloner.Cloner{cloner.NewEventCloner(v, sourceEvent, parent)}, nil
}

func (d *Dispatcher) requireParentType(v graph.Vertex, reg *registry.Registry) (model.TypeDef, error) {
	target, err := d.parentTarget(v, reg, true)
	if err != nil {
		return nil, err
	}

	parent, ok := target.(model.TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: parent of %s is not a model.TypeDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	return parent, nil
}

func (d *Dispatcher) requireParentMethod(v graph.Vertex, reg *registry.Registry) (model.MethodDef, error) {
	target, err := d.parentTarget(v, reg, true)
	if err != nil {
		return nil, err
	}

	parent, ok := target.(model.MethodDef)
	if !ok {
		return nil, fmt.Errorf("%w: parent of %s is not a model.MethodDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	return parent, nil
}

func (d *Dispatcher) requireParentBody(v graph.Vertex, reg *registry.Registry) (model.MethodBodyDef, error) {
	target, err := d.parentTarget(v, reg, true)
	if err != nil {
		return nil, err
	}

	parent, ok := target.(model.MethodBodyDef)
	if !ok {
		return nil, fmt.Errorf("%w: parent of %s is not a model.MethodBodyDef", ErrUnexpectedShape, v.Entity.FullName())
	}

	return parent, nil
}
