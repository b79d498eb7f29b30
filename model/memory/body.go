package memory

import (
	"fmt"

	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// MethodBody is the executable content of a MethodDef.
type MethodBody struct {
	owner         model.Entity
	MaxStackN     int
	InitLocalsFlag bool
	VariableList  []*VariableDef
	InstructionList []*Instruction
	HandlerList   []*ExceptionHandler
}

// NewMethodBody creates an empty body owned by owner (normally the
// MethodDef it will be attached to via MethodDef.SetBody).
func NewMethodBody(owner model.Entity) *MethodBody {
	return &MethodBody{owner: owner, MaxStackN: 8, InitLocalsFlag: true}
}

func (b *MethodBody) MaxStack() int     { return b.MaxStackN }
func (b *MethodBody) InitLocals() bool  { return b.InitLocalsFlag }

func (b *MethodBody) Variables() []model.VariableDef {
	out := make([]model.VariableDef, len(b.VariableList))
	for i, v := range b.VariableList {
		out[i] = v
	}

	return out
}

func (b *MethodBody) Instructions() []model.InstructionDef {
	out := make([]model.InstructionDef, len(b.InstructionList))
	for i, in := range b.InstructionList {
		out[i] = in
	}

	return out
}

func (b *MethodBody) ExceptionHandlers() []model.ExceptionHandlerDef {
	out := make([]model.ExceptionHandlerDef, len(b.HandlerList))
	for i, h := range b.HandlerList {
		out[i] = h
	}

	return out
}

// AddVariable declares a new local of the given type at the next index.
func (b *MethodBody) AddVariable(t model.TypeRef) *VariableDef {
	v := &VariableDef{owner: b.owner, Type: t, index: len(b.VariableList)}
	b.VariableList = append(b.VariableList, v)

	return v
}

// Emit appends a new instruction at the next offset and returns it so its
// operand can be set afterward (instructions frequently need to reference
// later instructions, e.g. forward branches).
func (b *MethodBody) Emit(opcode string) *Instruction {
	in := &Instruction{owner: b.owner, offset: len(b.InstructionList), Op: opcode}
	b.InstructionList = append(b.InstructionList, in)

	return in
}

// AddHandler appends a new exception-handling region.
func (b *MethodBody) AddHandler(h *ExceptionHandler) *ExceptionHandler {
	h.owner = b.owner
	b.HandlerList = append(b.HandlerList, h)

	return h
}

// Instruction is one IL instruction. Exactly one of the operand accessors
// is meaningful, selected by OperandKind; the rest return zero values.
type Instruction struct {
	owner       model.Entity
	offset      int
	Op          string
	OperandKindValue model.OperandKind
	TypeOp      model.TypeRef
	FieldOp     model.FieldRef
	MethodOp    model.MethodRef
	ParameterOp model.ParameterDef
	VariableOp  model.VariableDef
	InstrOp     model.InstructionDef
	SwitchOps   []model.InstructionDef
	Primitive   any
	Str         string
}

func (i *Instruction) Kind() kind.Kind { return kind.KindInstruction }

func (i *Instruction) FullName() string {
	return fmt.Sprintf("%s$il%04d", i.owner.FullName(), i.offset)
}

func (i *Instruction) Offset() int                         { return i.offset }
func (i *Instruction) Opcode() string                       { return i.Op }
func (i *Instruction) OperandKind() model.OperandKind       { return i.OperandKindValue }
func (i *Instruction) TypeOperand() model.TypeRef           { return i.TypeOp }
func (i *Instruction) FieldOperand() model.FieldRef         { return i.FieldOp }
func (i *Instruction) MethodOperand() model.MethodRef       { return i.MethodOp }
func (i *Instruction) ParameterOperand() model.ParameterDef { return i.ParameterOp }
func (i *Instruction) VariableOperand() model.VariableDef   { return i.VariableOp }
func (i *Instruction) InstructionOperand() model.InstructionDef { return i.InstrOp }
func (i *Instruction) SwitchOperands() []model.InstructionDef  { return i.SwitchOps }
func (i *Instruction) PrimitiveOperand() any                 { return i.Primitive }
func (i *Instruction) StringOperand() string                  { return i.Str }

// ExceptionHandler is one try/catch/finally/filter region.
type ExceptionHandler struct {
	owner        model.Entity
	index        int
	HandlerKindV string
	Try          [2]model.InstructionDef
	Handler      [2]model.InstructionDef
	Catch        model.TypeRef
	Filter       model.InstructionDef
}

// NewExceptionHandler builds a handler of the given kind ("catch",
// "finally", "fault", or "filter") spanning the given try/handler ranges.
func NewExceptionHandler(handlerKind string, tryStart, tryEnd, handlerStart, handlerEnd model.InstructionDef) *ExceptionHandler {
	return &ExceptionHandler{
		HandlerKindV: handlerKind,
		Try:          [2]model.InstructionDef{tryStart, tryEnd},
		Handler:      [2]model.InstructionDef{handlerStart, handlerEnd},
	}
}

func (e *ExceptionHandler) Kind() kind.Kind { return kind.KindExceptionHandler }

func (e *ExceptionHandler) FullName() string {
	return fmt.Sprintf("%s$eh%d", e.owner.FullName(), e.index)
}

func (e *ExceptionHandler) HandlerKind() string            { return e.HandlerKindV }
func (e *ExceptionHandler) TryStart() model.InstructionDef  { return e.Try[0] }
func (e *ExceptionHandler) TryEnd() model.InstructionDef    { return e.Try[1] }
func (e *ExceptionHandler) HandlerStart() model.InstructionDef { return e.Handler[0] }
func (e *ExceptionHandler) HandlerEnd() model.InstructionDef   { return e.Handler[1] }

func (e *ExceptionHandler) CatchType() (model.TypeRef, bool) {
	if e.Catch == nil {
		return nil, false
	}

	return e.Catch, true
}

func (e *ExceptionHandler) FilterStart() (model.InstructionDef, bool) {
	if e.Filter == nil {
		return nil, false
	}

	return e.Filter, true
}
