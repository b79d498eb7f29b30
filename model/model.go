// Package model declares the object-model surface the weaver treats as an
// external collaborator: a typed view over compiled-assembly metadata and
// IL. spec.md §1 places "assembly I/O, symbol (debug) reading/writing, and
// module-level editing primitives" out of scope, "assumed present as a
// library providing a typed object model of metadata and IL". model is that
// assumed library's shape, expressed as interfaces so every other mixweave
// package (graph, cloner, importer, driver, dispatch) depends only on the
// shape, never on a concrete metadata reader/writer.
//
// model/memory provides the only concrete implementation in this module: an
// in-memory stand-in used by tests and by cmd/mixweave. Production use would
// swap in a real metadata library's adapter without touching any other
// package, the same way gopls's metadata.Graph is built once from
// go/packages output and then consumed everywhere else purely through its
// own exported fields and methods.
package model

import "github.com/ilweave/mixweave/kind"

// Entity is the common supertype of every metadata object the weaver
// discovers. FullName must be stable and unique within a Module: the
// root-import caches (importer package) and the signature-matching oracle
// (cloner package) both key off it.
type Entity interface {
	Kind() kind.Kind
	FullName() string
}

// Module is the out-of-scope assembly handle: a compiled, loaded unit of
// metadata that can be asked for one of its top-level types by name.
type Module interface {
	FullName() string
	RootType(fullName string) (TypeDef, bool)
}

// TypeRef is any reference to a type: a simple named type, an array, a
// generic instance, or a generic parameter. TypeDef (below) is the richer
// case where the type is also fully defined (has fields, methods, ...).
type TypeRef interface {
	Entity

	// IsArray reports whether this reference denotes an array of
	// ElementType with the given Rank.
	IsArray() bool
	ElementType() TypeRef
	Rank() int

	// IsGenericInstance reports whether this reference denotes a closed
	// generic instantiation, e.g. Outer<int>.
	IsGenericInstance() bool
	GenericDefinition() TypeRef
	GenericArguments() []TypeRef

	// IsGenericParameter reports whether this reference denotes a generic
	// parameter (T, not a concrete argument).
	IsGenericParameter() bool
	GenericParameterOwner() Entity
	GenericParameterPosition() int
}

// TypeDef is a TypeRef that is also fully defined: it owns members, has a
// base type and interface list, and belongs to a Module.
type TypeDef interface {
	TypeRef

	DeclaringModule() Module
	DeclaringType() (TypeDef, bool) // nested types report their enclosing type

	Attributes() []CustomAttribute
	BaseType() (TypeRef, bool)
	Interfaces() []TypeRef
	NestedTypes() []TypeDef
	Fields() []FieldDef
	Methods() []MethodDef
	Properties() []PropertyDef
	Events() []EventDef
	GenericParameters() []GenericParameterDef
}

// FieldRef is any reference to a field, resolved or not.
type FieldRef interface {
	Entity
	DeclaringType() TypeRef
	FieldType() TypeRef
}

// FieldDef is a fully defined field.
type FieldDef interface {
	FieldRef
	Attributes() []CustomAttribute
	ConstantValue() (any, bool)
	MarshalInfo() (string, bool)
}

// MethodRef is any reference to a method, including closed-generic method
// instantiations (IsGenericInstance true).
type MethodRef interface {
	Entity
	DeclaringType() TypeRef
	Signature() string

	IsGenericInstance() bool
	GenericDefinition() MethodRef
	GenericArguments() []TypeRef
}

// MethodDef is a fully defined method.
type MethodDef interface {
	MethodRef
	Attributes() []CustomAttribute
	ReturnType() (TypeRef, bool)
	CallingConvention() string
	HasThis() bool
	ExplicitThis() bool
	Parameters() []ParameterDef
	GenericParameters() []GenericParameterDef
	Body() (MethodBodyDef, bool)
}

// ParameterDef is a method parameter or return-value slot.
type ParameterDef interface {
	Entity
	ParameterType() TypeRef
	Position() int
	In() bool
	Out() bool
	Optional() bool
	IsReturnValue() bool
	ConstantValue() (any, bool)
	MarshalInfo() (string, bool)
	Attributes() []CustomAttribute
}

// VariableDef is a local variable declared in a method body.
type VariableDef interface {
	Entity
	VariableType() TypeRef
	Index() int
}

// MethodBodyDef is the executable content of a method.
type MethodBodyDef interface {
	MaxStack() int
	InitLocals() bool
	Variables() []VariableDef
	Instructions() []InstructionDef
	ExceptionHandlers() []ExceptionHandlerDef
}

// OperandKind classifies an InstructionDef's operand for the purposes of
// operand rewriting (spec.md §4.D InstructionCloner).
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandType
	OperandField
	OperandMethod
	OperandParameter
	OperandVariable
	OperandInstruction
	OperandPrimitive
	OperandString
)

// InstructionDef is one IL instruction.
type InstructionDef interface {
	Entity
	Offset() int
	Opcode() string
	OperandKind() OperandKind
	TypeOperand() TypeRef
	FieldOperand() FieldRef
	MethodOperand() MethodRef
	ParameterOperand() ParameterDef
	VariableOperand() VariableDef
	InstructionOperand() InstructionDef
	SwitchOperands() []InstructionDef
	PrimitiveOperand() any
	StringOperand() string
}

// ExceptionHandlerDef is one try/catch/finally/filter region.
type ExceptionHandlerDef interface {
	Entity
	HandlerKind() string
	TryStart() InstructionDef
	TryEnd() InstructionDef
	HandlerStart() InstructionDef
	HandlerEnd() InstructionDef
	CatchType() (TypeRef, bool)
	FilterStart() (InstructionDef, bool)
}

// PropertyDef pairs a name with get/set accessor methods.
type PropertyDef interface {
	Entity
	Attributes() []CustomAttribute
	PropertyType() TypeRef
	Getter() (MethodDef, bool)
	Setter() (MethodDef, bool)
}

// EventDef pairs a name with add/remove accessor methods.
type EventDef interface {
	Entity
	Attributes() []CustomAttribute
	EventType() TypeRef
	AddMethod() (MethodDef, bool)
	RemoveMethod() (MethodDef, bool)
}

// GenericParameterDef is a generic parameter declared on a type or method.
type GenericParameterDef interface {
	Entity
	Name() string
	Position() int
	Owner() Entity
}

// CustomAttribute is a custom-attribute instance attached to any Entity.
type CustomAttribute interface {
	AttributeType() TypeRef
	Arguments() []CustomAttributeArgument
}

// CustomAttributeArgument is one positional argument of a CustomAttribute.
// Value holds a TypeRef when the argument is a `typeof(...)` literal (§8
// scenario 5), otherwise a primitive Go value.
type CustomAttributeArgument interface {
	ArgumentType() TypeRef
	Value() any
}

// MetadataImporter is the "ordinary metadata importer" referenced
// throughout spec.md §4.E: the fallback path for references that are not
// mixin-mapped, i.e. references into assemblies other than the source and
// target modules. The root-import engine (importer package) delegates to it
// once it has exhausted the mixin-specific cases.
type MetadataImporter interface {
	ImportType(target Module, ref TypeRef) (TypeRef, error)
	ImportField(target Module, ref FieldRef) (FieldRef, error)
	ImportMethod(target Module, ref MethodRef) (MethodRef, error)
}
