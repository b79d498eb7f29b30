package model

// Builder is the write side of the out-of-scope metadata collaborator:
// spec.md §1 places "module-level editing primitives" out of scope,
// "assumed present as a library". Builder is that assumed primitive,
// expressed as an interface so the cloner package can construct clones in
// the target module without depending on model/memory (or any concrete
// metadata-writing library) directly. model/memory.Builder is the only
// implementation in this tree; a production deployment would implement
// Builder over a real IL-emitting library instead.
//
// Every method is named for the metadata element it defines or mutates,
// mirroring the shape of the corresponding read-only accessor on the
// TypeDef/MethodDef/... interfaces it populates.
type Builder interface {
	// NewArrayType and NewGenericInstanceType/NewGenericMethodInstance build
	// composite type/method references. Unlike the Define*/Add* methods
	// below, these do not register anything in a module's member list: an
	// array-of-T or a closed Box<int> reference has no identity beyond the
	// value itself, so the root-import engine (importer package) calls
	// these freely while walking a source signature, the same way it
	// would allocate a value type in any language with composite types.
	NewArrayType(element TypeRef, rank int) (TypeRef, error)
	NewGenericInstanceType(definition TypeRef, arguments ...TypeRef) (TypeRef, error)
	NewGenericMethodInstance(definition MethodRef, arguments ...TypeRef) (MethodRef, error)

	DefineType(target Module, namespace, name string) (TypeDef, error)
	SetBaseType(t TypeDef, base TypeRef) error
	AddInterface(t TypeDef, iface TypeRef) error
	AddNestedType(parent, nested TypeDef) error
	AddAttribute(e Entity, attr CustomAttribute) error

	DefineGenericParameter(owner Entity, name string) (GenericParameterDef, error)

	DefineField(t TypeDef, name string, fieldType TypeRef) (FieldDef, error)
	SetFieldConstant(f FieldDef, value any) error
	SetFieldMarshalInfo(f FieldDef, info string) error

	DefineMethod(t TypeDef, name string) (MethodDef, error)
	SetMethodReturnType(m MethodDef, t TypeRef) error
	SetMethodFlags(m MethodDef, callingConvention string, hasThis, explicitThis bool) error
	AddParameter(m MethodDef, name string, t TypeRef) (ParameterDef, error)
	SetParameterFlags(p ParameterDef, in, out, optional, isReturnValue bool) error
	SetParameterConstant(p ParameterDef, value any) error
	SetParameterMarshalInfo(p ParameterDef, info string) error

	DefineMethodBody(m MethodDef) (MethodBodyDef, error)
	SetBodyFlags(b MethodBodyDef, maxStack int, initLocals bool) error
	AddVariable(b MethodBodyDef, t TypeRef) (VariableDef, error)
	EmitInstruction(b MethodBodyDef, opcode string) (InstructionDef, error)
	SetInstructionOperand(i InstructionDef, k OperandKind, operand any) error
	AddExceptionHandler(b MethodBodyDef, handlerKind string, tryStart, tryEnd, handlerStart, handlerEnd InstructionDef) (ExceptionHandlerDef, error)
	SetExceptionHandlerCatchType(h ExceptionHandlerDef, t TypeRef) error
	SetExceptionHandlerFilter(h ExceptionHandlerDef, filterStart InstructionDef) error

	DefineProperty(t TypeDef, name string, propType TypeRef) (PropertyDef, error)
	SetPropertyAccessors(p PropertyDef, getter, setter MethodDef) error
	DefineEvent(t TypeDef, name string, eventType TypeRef) (EventDef, error)
	SetEventAccessors(e EventDef, add, remove MethodDef) error
}
