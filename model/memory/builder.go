package memory

import (
	"errors"
	"fmt"

	"github.com/ilweave/mixweave/model"
)

// ErrForeignEntity is returned by every Builder method when handed a
// model interface value whose concrete type is not one of this package's
// own types. Builder can only mutate objects it itself allocated.
var ErrForeignEntity = errors.New("memory: entity was not created by this builder")

// Builder implements model.Builder over this package's concrete types. It
// holds no state of its own; every method operates directly on the
// concrete value behind the model interface argument.
type Builder struct{}

// NewBuilder returns a Builder. There is nothing to configure: Builder is
// a stateless adapter from model.Builder calls to concrete memory types.
func NewBuilder() *Builder { return &Builder{} }

var _ model.Builder = (*Builder)(nil)

func (Builder) NewArrayType(element model.TypeRef, rank int) (model.TypeRef, error) {
	return NewArrayType(element, rank), nil
}

func (Builder) NewGenericInstanceType(definition model.TypeRef, arguments ...model.TypeRef) (model.TypeRef, error) {
	return NewGenericInstanceType(definition, arguments...), nil
}

func (Builder) NewGenericMethodInstance(definition model.MethodRef, arguments ...model.TypeRef) (model.MethodRef, error) {
	return NewGenericMethodInstance(definition, arguments...), nil
}

func (Builder) DefineType(target model.Module, namespace, name string) (model.TypeDef, error) {
	mod, ok := target.(*Module)
	if !ok {
		return nil, fmt.Errorf("%w: target module", ErrForeignEntity)
	}

	return mod.AddType(NewTypeDef(namespace, name)), nil
}

func (Builder) SetBaseType(t model.TypeDef, base model.TypeRef) error {
	td, ok := t.(*TypeDef)
	if !ok {
		return fmt.Errorf("%w: type", ErrForeignEntity)
	}
	td.Base = base

	return nil
}

func (Builder) AddInterface(t model.TypeDef, iface model.TypeRef) error {
	td, ok := t.(*TypeDef)
	if !ok {
		return fmt.Errorf("%w: type", ErrForeignEntity)
	}
	td.IfaceList = append(td.IfaceList, iface)

	return nil
}

func (Builder) AddNestedType(parent, nested model.TypeDef) error {
	p, ok := parent.(*TypeDef)
	if !ok {
		return fmt.Errorf("%w: parent type", ErrForeignEntity)
	}
	n, ok := nested.(*TypeDef)
	if !ok {
		return fmt.Errorf("%w: nested type", ErrForeignEntity)
	}
	p.AddNested(n)

	return nil
}

func (Builder) AddAttribute(e model.Entity, attr model.CustomAttribute) error {
	switch v := e.(type) {
	case *TypeDef:
		v.AttributesList = append(v.AttributesList, attr)
	case *FieldDef:
		v.AttributesList = append(v.AttributesList, attr)
	case *MethodDef:
		v.AttributesList = append(v.AttributesList, attr)
	case *ParameterDef:
		v.AttributesList = append(v.AttributesList, attr)
	case *PropertyDef:
		v.AttributesList = append(v.AttributesList, attr)
	case *EventDef:
		v.AttributesList = append(v.AttributesList, attr)
	default:
		return fmt.Errorf("%w: entity does not carry attributes", ErrForeignEntity)
	}

	return nil
}

func (Builder) DefineGenericParameter(owner model.Entity, name string) (model.GenericParameterDef, error) {
	switch o := owner.(type) {
	case *TypeDef:
		return o.AddGenericParameter(name), nil
	case *MethodDef:
		return o.AddGenericParameter(name), nil
	default:
		return nil, fmt.Errorf("%w: generic parameter owner", ErrForeignEntity)
	}
}

func (Builder) DefineField(t model.TypeDef, name string, fieldType model.TypeRef) (model.FieldDef, error) {
	td, ok := t.(*TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: declaring type", ErrForeignEntity)
	}
	f := NewFieldDef(td, name, fieldType)
	td.FieldList = append(td.FieldList, f)

	return f, nil
}

func (Builder) SetFieldConstant(f model.FieldDef, value any) error {
	fd, ok := f.(*FieldDef)
	if !ok {
		return fmt.Errorf("%w: field", ErrForeignEntity)
	}
	fd.Constant = value
	fd.HasConstant = true

	return nil
}

func (Builder) SetFieldMarshalInfo(f model.FieldDef, info string) error {
	fd, ok := f.(*FieldDef)
	if !ok {
		return fmt.Errorf("%w: field", ErrForeignEntity)
	}
	fd.Marshal = info
	fd.HasMarshal = true

	return nil
}

func (Builder) DefineMethod(t model.TypeDef, name string) (model.MethodDef, error) {
	td, ok := t.(*TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: declaring type", ErrForeignEntity)
	}
	m := NewMethodDef(td, name)
	td.MethodList = append(td.MethodList, m)

	return m, nil
}

func (Builder) SetMethodReturnType(m model.MethodDef, t model.TypeRef) error {
	md, ok := m.(*MethodDef)
	if !ok {
		return fmt.Errorf("%w: method", ErrForeignEntity)
	}
	md.Return = t

	return nil
}

func (Builder) SetMethodFlags(m model.MethodDef, callingConvention string, hasThis, explicitThis bool) error {
	md, ok := m.(*MethodDef)
	if !ok {
		return fmt.Errorf("%w: method", ErrForeignEntity)
	}
	md.CallConv = callingConvention
	md.HasThisFlag = hasThis
	md.ExplicitThisFlag = explicitThis

	return nil
}

func (Builder) AddParameter(m model.MethodDef, name string, t model.TypeRef) (model.ParameterDef, error) {
	md, ok := m.(*MethodDef)
	if !ok {
		return nil, fmt.Errorf("%w: method", ErrForeignEntity)
	}

	return md.AddParameter(name, t), nil
}

func (Builder) SetParameterFlags(p model.ParameterDef, in, out, optional, isReturnValue bool) error {
	pd, ok := p.(*ParameterDef)
	if !ok {
		return fmt.Errorf("%w: parameter", ErrForeignEntity)
	}
	pd.InFlag = in
	pd.OutFlag = out
	pd.OptionalFlag = optional
	pd.ReturnValue = isReturnValue

	return nil
}

func (Builder) SetParameterConstant(p model.ParameterDef, value any) error {
	pd, ok := p.(*ParameterDef)
	if !ok {
		return fmt.Errorf("%w: parameter", ErrForeignEntity)
	}
	pd.Constant = value
	pd.HasConstant = true

	return nil
}

func (Builder) SetParameterMarshalInfo(p model.ParameterDef, info string) error {
	pd, ok := p.(*ParameterDef)
	if !ok {
		return fmt.Errorf("%w: parameter", ErrForeignEntity)
	}
	pd.Marshal = info
	pd.HasMarshal = true

	return nil
}

func (Builder) DefineMethodBody(m model.MethodDef) (model.MethodBodyDef, error) {
	md, ok := m.(*MethodDef)
	if !ok {
		return nil, fmt.Errorf("%w: method", ErrForeignEntity)
	}
	b := NewMethodBody(md)
	md.SetBody(b)

	return b, nil
}

func (Builder) SetBodyFlags(b model.MethodBodyDef, maxStack int, initLocals bool) error {
	body, ok := b.(*MethodBody)
	if !ok {
		return fmt.Errorf("%w: method body", ErrForeignEntity)
	}
	body.MaxStackN = maxStack
	body.InitLocalsFlag = initLocals

	return nil
}

func (Builder) AddVariable(b model.MethodBodyDef, t model.TypeRef) (model.VariableDef, error) {
	body, ok := b.(*MethodBody)
	if !ok {
		return nil, fmt.Errorf("%w: method body", ErrForeignEntity)
	}

	return body.AddVariable(t), nil
}

func (Builder) EmitInstruction(b model.MethodBodyDef, opcode string) (model.InstructionDef, error) {
	body, ok := b.(*MethodBody)
	if !ok {
		return nil, fmt.Errorf("%w: method body", ErrForeignEntity)
	}

	return body.Emit(opcode), nil
}

func (Builder) SetInstructionOperand(i model.InstructionDef, k model.OperandKind, operand any) error {
	in, ok := i.(*Instruction)
	if !ok {
		return fmt.Errorf("%w: instruction", ErrForeignEntity)
	}
	in.OperandKindValue = k

	switch k {
	case model.OperandNone:
	case model.OperandType:
		t, ok := operand.(model.TypeRef)
		if !ok {
			return fmt.Errorf("%w: expected model.TypeRef operand", ErrForeignEntity)
		}
		in.TypeOp = t
	case model.OperandField:
		f, ok := operand.(model.FieldRef)
		if !ok {
			return fmt.Errorf("%w: expected model.FieldRef operand", ErrForeignEntity)
		}
		in.FieldOp = f
	case model.OperandMethod:
		mm, ok := operand.(model.MethodRef)
		if !ok {
			return fmt.Errorf("%w: expected model.MethodRef operand", ErrForeignEntity)
		}
		in.MethodOp = mm
	case model.OperandParameter:
		p, ok := operand.(model.ParameterDef)
		if !ok {
			return fmt.Errorf("%w: expected model.ParameterDef operand", ErrForeignEntity)
		}
		in.ParameterOp = p
	case model.OperandVariable:
		v, ok := operand.(model.VariableDef)
		if !ok {
			return fmt.Errorf("%w: expected model.VariableDef operand", ErrForeignEntity)
		}
		in.VariableOp = v
	case model.OperandInstruction:
		switch v := operand.(type) {
		case model.InstructionDef:
			in.InstrOp = v
		case []model.InstructionDef:
			in.SwitchOps = v
		default:
			return fmt.Errorf("%w: expected model.InstructionDef or []model.InstructionDef operand", ErrForeignEntity)
		}
	case model.OperandPrimitive:
		in.Primitive = operand
	case model.OperandString:
		s, ok := operand.(string)
		if !ok {
			return fmt.Errorf("%w: expected string operand", ErrForeignEntity)
		}
		in.Str = s
	default:
		return fmt.Errorf("%w: unknown operand kind %v", ErrForeignEntity, k)
	}

	return nil
}

func (Builder) AddExceptionHandler(b model.MethodBodyDef, handlerKind string, tryStart, tryEnd, handlerStart, handlerEnd model.InstructionDef) (model.ExceptionHandlerDef, error) {
	body, ok := b.(*MethodBody)
	if !ok {
		return nil, fmt.Errorf("%w: method body", ErrForeignEntity)
	}
	h := NewExceptionHandler(handlerKind, tryStart, tryEnd, handlerStart, handlerEnd)
	body.AddHandler(h)

	return h, nil
}

func (Builder) SetExceptionHandlerCatchType(h model.ExceptionHandlerDef, t model.TypeRef) error {
	eh, ok := h.(*ExceptionHandler)
	if !ok {
		return fmt.Errorf("%w: exception handler", ErrForeignEntity)
	}
	eh.Catch = t

	return nil
}

func (Builder) SetExceptionHandlerFilter(h model.ExceptionHandlerDef, filterStart model.InstructionDef) error {
	eh, ok := h.(*ExceptionHandler)
	if !ok {
		return fmt.Errorf("%w: exception handler", ErrForeignEntity)
	}
	eh.Filter = filterStart

	return nil
}

func (Builder) DefineProperty(t model.TypeDef, name string, propType model.TypeRef) (model.PropertyDef, error) {
	td, ok := t.(*TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: declaring type", ErrForeignEntity)
	}
	p := NewPropertyDef(td, name, propType)
	td.PropertyList = append(td.PropertyList, p)

	return p, nil
}

func (Builder) SetPropertyAccessors(p model.PropertyDef, getter, setter model.MethodDef) error {
	pd, ok := p.(*PropertyDef)
	if !ok {
		return fmt.Errorf("%w: property", ErrForeignEntity)
	}
	if getter != nil {
		g, ok := getter.(*MethodDef)
		if !ok {
			return fmt.Errorf("%w: getter", ErrForeignEntity)
		}
		pd.Get = g
	}
	if setter != nil {
		s, ok := setter.(*MethodDef)
		if !ok {
			return fmt.Errorf("%w: setter", ErrForeignEntity)
		}
		pd.Set = s
	}

	return nil
}

func (Builder) DefineEvent(t model.TypeDef, name string, eventType model.TypeRef) (model.EventDef, error) {
	td, ok := t.(*TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: declaring type", ErrForeignEntity)
	}
	e := NewEventDef(td, name, eventType)
	td.EventList = append(td.EventList, e)

	return e, nil
}

func (Builder) SetEventAccessors(e model.EventDef, add, remove model.MethodDef) error {
	ed, ok := e.(*EventDef)
	if !ok {
		return fmt.Errorf("%w: event", ErrForeignEntity)
	}
	if add != nil {
		a, ok := add.(*MethodDef)
		if !ok {
			return fmt.Errorf("%w: add accessor", ErrForeignEntity)
		}
		ed.Add = a
	}
	if remove != nil {
		r, ok := remove.(*MethodDef)
		if !ok {
			return fmt.Errorf("%w: remove accessor", ErrForeignEntity)
		}
		ed.Remove = r
	}

	return nil
}
