package cloner

import (
	"fmt"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// InstructionCloner clones one IL instruction: its opcode, verbatim, and its
// operand, rewritten according to operand kind. Because a branch or switch
// operand can reference an instruction later in the stream than its own
// position, InstructionCloner.Create only allocates the target instruction
// shell (opcode, no operand); operand rewriting happens in Populate, once
// the rest of the method body's instructions, parameters, and variables all
// have registered targets.
type InstructionCloner struct {
	base
	sourceInstruction model.InstructionDef
	targetBody        model.MethodBodyDef

	target model.InstructionDef
}

func NewInstructionCloner(v graph.Vertex, sourceInstruction model.InstructionDef, targetBody model.MethodBodyDef) *InstructionCloner {
	return &InstructionCloner{base: base{source: v}, sourceInstruction: sourceInstruction, targetBody: targetBody}
}

func (c *InstructionCloner) Target() model.Entity { return c.target }

func (c *InstructionCloner) Create(ctx Context) error {
	in, err := ctx.Builder().EmitInstruction(c.targetBody, c.sourceInstruction.Opcode())
	if err != nil {
		return fmt.Errorf("cloner: create instruction at %d: %w", c.sourceInstruction.Offset(), err)
	}

	c.target = in

	return ctx.Registry().Add(graph.Vertex{Entity: c.sourceInstruction, Kind: kind.KindInstruction}, c)
}

// Populate rewrites the operand according to its kind: type/field/method
// references are root-imported, parameter/variable/instruction references
// are resolved through the registry (they point at something this weave
// itself cloned), and primitive/string operands copy verbatim.
func (c *InstructionCloner) Populate(ctx Context) error {
	if err := c.markPopulated(); err != nil {
		return err
	}

	operandKind := c.sourceInstruction.OperandKind()

	var (
		operand any
		err     error
	)

	switch operandKind {
	case model.OperandNone:
		return nil

	case model.OperandType:
		operand, err = ctx.Importer().ImportType(c.sourceInstruction.TypeOperand())

	case model.OperandField:
		operand, err = ctx.Importer().ImportField(c.sourceInstruction.FieldOperand())

	case model.OperandMethod:
		operand, err = ctx.Importer().ImportMethod(c.sourceInstruction.MethodOperand())

	case model.OperandParameter:
		operand, err = ctx.Importer().ImportParameter(c.sourceInstruction.ParameterOperand())

	case model.OperandVariable:
		operand, err = ctx.Importer().ImportVariable(c.sourceInstruction.VariableOperand())

	case model.OperandInstruction:
		operand, err = c.resolveInstructionOperand(ctx)

	case model.OperandPrimitive:
		operand = c.sourceInstruction.PrimitiveOperand()

	case model.OperandString:
		operand = c.sourceInstruction.StringOperand()

	default:
		return fmt.Errorf("cloner: instruction at %d has unknown operand kind %v", c.sourceInstruction.Offset(), operandKind)
	}

	if err != nil {
		return fmt.Errorf("cloner: operand of instruction at %d: %w", c.sourceInstruction.Offset(), err)
	}

	return ctx.Builder().SetInstructionOperand(c.target, operandKind, operand)
}

// resolveInstructionOperand handles both a single branch target and a
// switch jump table, since both share model.OperandInstruction.
func (c *InstructionCloner) resolveInstructionOperand(ctx Context) (any, error) {
	if switchOps := c.sourceInstruction.SwitchOperands(); switchOps != nil {
		out := make([]model.InstructionDef, len(switchOps))
		for i, s := range switchOps {
			resolved, err := ctx.Importer().ImportInstruction(s)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}

		return out, nil
	}

	return ctx.Importer().ImportInstruction(c.sourceInstruction.InstructionOperand())
}
