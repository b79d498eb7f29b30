package memory

import (
	"fmt"

	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// FieldDef is a fully defined field.
type FieldDef struct {
	Name           string
	declaringType  model.TypeRef
	Type           model.TypeRef
	AttributesList []model.CustomAttribute
	Constant       any
	HasConstant    bool
	Marshal        string
	HasMarshal     bool
}

// NewFieldDef creates a field named name, of the given type, owned by
// declaringType. declaringType is normally the *TypeDef the field is
// attached to via TypeDef.FieldList.
func NewFieldDef(declaringType model.TypeRef, name string, fieldType model.TypeRef) *FieldDef {
	return &FieldDef{Name: name, declaringType: declaringType, Type: fieldType}
}

func (f *FieldDef) Kind() kind.Kind { return kind.KindField }
func (f *FieldDef) FullName() string {
	return fmt.Sprintf("%s::%s", f.declaringType.FullName(), f.Name)
}
func (f *FieldDef) DeclaringType() model.TypeRef         { return f.declaringType }
func (f *FieldDef) FieldType() model.TypeRef              { return f.Type }
func (f *FieldDef) Attributes() []model.CustomAttribute   { return f.AttributesList }
func (f *FieldDef) ConstantValue() (any, bool)             { return f.Constant, f.HasConstant }
func (f *FieldDef) MarshalInfo() (string, bool)            { return f.Marshal, f.HasMarshal }

// MethodDef is a fully defined method.
type MethodDef struct {
	Name              string
	declaringType     model.TypeRef
	AttributesList    []model.CustomAttribute
	Return            model.TypeRef
	CallConv          string
	HasThisFlag       bool
	ExplicitThisFlag  bool
	ParameterList     []*ParameterDef
	GenericParams     []*GenericParameterDef
	body              *MethodBody
}

// NewMethodDef creates a method named name, owned by declaringType.
func NewMethodDef(declaringType model.TypeRef, name string) *MethodDef {
	return &MethodDef{Name: name, declaringType: declaringType, HasThisFlag: true, CallConv: "default"}
}

func (m *MethodDef) Kind() kind.Kind { return kind.KindMethod }

func (m *MethodDef) FullName() string {
	names := make([]string, len(m.ParameterList))
	for i, p := range m.ParameterList {
		names[i] = p.Type.FullName()
	}

	return fmt.Sprintf("%s::%s(%s)", m.declaringType.FullName(), m.Name, joinTypes(names))
}

func (m *MethodDef) DeclaringType() model.TypeRef { return m.declaringType }

// Signature is the canonical pre-substitution signature string used by the
// cloner's signature-equality oracle to match closed-generic and nested
// method references back to their open method definitions.
func (m *MethodDef) Signature() string {
	names := make([]string, len(m.ParameterList))
	for i, p := range m.ParameterList {
		names[i] = p.Type.FullName()
	}
	ret := "void"
	if m.Return != nil {
		ret = m.Return.FullName()
	}

	return fmt.Sprintf("%s %s<%d>(%s)", ret, m.Name, len(m.GenericParams), joinTypes(names))
}

func (m *MethodDef) IsGenericInstance() bool            { return false }
func (m *MethodDef) GenericDefinition() model.MethodRef { return nil }
func (m *MethodDef) GenericArguments() []model.TypeRef  { return nil }

func (m *MethodDef) Attributes() []model.CustomAttribute { return m.AttributesList }

func (m *MethodDef) ReturnType() (model.TypeRef, bool) {
	if m.Return == nil {
		return nil, false
	}

	return m.Return, true
}

func (m *MethodDef) CallingConvention() string { return m.CallConv }
func (m *MethodDef) HasThis() bool             { return m.HasThisFlag }
func (m *MethodDef) ExplicitThis() bool        { return m.ExplicitThisFlag }

func (m *MethodDef) Parameters() []model.ParameterDef {
	out := make([]model.ParameterDef, len(m.ParameterList))
	for i, p := range m.ParameterList {
		out[i] = p
	}

	return out
}

func (m *MethodDef) GenericParameters() []model.GenericParameterDef {
	out := make([]model.GenericParameterDef, len(m.GenericParams))
	for i, g := range m.GenericParams {
		out[i] = g
	}

	return out
}

func (m *MethodDef) Body() (model.MethodBodyDef, bool) {
	if m.body == nil {
		return nil, false
	}

	return m.body, true
}

// SetBody attaches a method body, replacing any previous one.
func (m *MethodDef) SetBody(b *MethodBody) { m.body = b }

// AddParameter registers and returns a fresh parameter at the next
// available position.
func (m *MethodDef) AddParameter(name string, t model.TypeRef) *ParameterDef {
	p := &ParameterDef{Name: name, Type: t, position: len(m.ParameterList), owner: m, InFlag: true}
	m.ParameterList = append(m.ParameterList, p)

	return p
}

// AddGenericParameter registers and returns a fresh generic parameter owned
// by m at the next available position.
func (m *MethodDef) AddGenericParameter(name string) *GenericParameterDef {
	gp := &GenericParameterDef{name: name, position: len(m.GenericParams), owner: m}
	m.GenericParams = append(m.GenericParams, gp)

	return gp
}

// GenericMethodInstance is a model.MethodRef denoting a closed generic
// method instantiation, e.g. Identity<int>. It is never a model.MethodDef:
// only the open definition carries a body and parameter list to clone.
type GenericMethodInstance struct {
	Definition model.MethodRef
	Arguments  []model.TypeRef
}

func NewGenericMethodInstance(def model.MethodRef, args ...model.TypeRef) *GenericMethodInstance {
	return &GenericMethodInstance{Definition: def, Arguments: args}
}

func (g *GenericMethodInstance) Kind() kind.Kind { return kind.KindMethod }

func (g *GenericMethodInstance) FullName() string {
	names := make([]string, len(g.Arguments))
	for i, a := range g.Arguments {
		names[i] = a.FullName()
	}

	return fmt.Sprintf("%s<%s>", g.Definition.FullName(), joinTypes(names))
}

func (g *GenericMethodInstance) DeclaringType() model.TypeRef { return g.Definition.DeclaringType() }
func (g *GenericMethodInstance) Signature() string            { return g.Definition.Signature() }
func (g *GenericMethodInstance) IsGenericInstance() bool       { return true }
func (g *GenericMethodInstance) GenericDefinition() model.MethodRef { return g.Definition }
func (g *GenericMethodInstance) GenericArguments() []model.TypeRef  { return g.Arguments }

func joinTypes(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}

	return out
}

// ParameterDef is a method parameter or, when IsReturnValue is true, the
// return-value metadata slot (custom attributes/marshal info on the return
// type attach here, not on the TypeRef).
type ParameterDef struct {
	Name          string
	Type          model.TypeRef
	position      int
	owner         model.Entity
	InFlag        bool
	OutFlag       bool
	OptionalFlag  bool
	ReturnValue   bool
	Constant      any
	HasConstant   bool
	Marshal       string
	HasMarshal    bool
	AttributesList []model.CustomAttribute
}

func (p *ParameterDef) Kind() kind.Kind { return kind.KindParameter }
func (p *ParameterDef) FullName() string {
	return fmt.Sprintf("%s$%d[%s]", p.owner.FullName(), p.position, p.Name)
}
func (p *ParameterDef) ParameterType() model.TypeRef        { return p.Type }
func (p *ParameterDef) Position() int                       { return p.position }
func (p *ParameterDef) In() bool                             { return p.InFlag }
func (p *ParameterDef) Out() bool                            { return p.OutFlag }
func (p *ParameterDef) Optional() bool                       { return p.OptionalFlag }
func (p *ParameterDef) IsReturnValue() bool                  { return p.ReturnValue }
func (p *ParameterDef) ConstantValue() (any, bool)           { return p.Constant, p.HasConstant }
func (p *ParameterDef) MarshalInfo() (string, bool)          { return p.Marshal, p.HasMarshal }
func (p *ParameterDef) Attributes() []model.CustomAttribute  { return p.AttributesList }

// PropertyDef pairs a name with get/set accessor methods.
type PropertyDef struct {
	Name           string
	declaringType  model.TypeRef
	Type           model.TypeRef
	AttributesList []model.CustomAttribute
	Get            *MethodDef
	Set            *MethodDef
}

func NewPropertyDef(declaringType model.TypeRef, name string, t model.TypeRef) *PropertyDef {
	return &PropertyDef{Name: name, declaringType: declaringType, Type: t}
}

func (p *PropertyDef) Kind() kind.Kind { return kind.KindProperty }
func (p *PropertyDef) FullName() string {
	return fmt.Sprintf("%s::%s", p.declaringType.FullName(), p.Name)
}
func (p *PropertyDef) Attributes() []model.CustomAttribute { return p.AttributesList }
func (p *PropertyDef) PropertyType() model.TypeRef          { return p.Type }

func (p *PropertyDef) Getter() (model.MethodDef, bool) {
	if p.Get == nil {
		return nil, false
	}

	return p.Get, true
}

func (p *PropertyDef) Setter() (model.MethodDef, bool) {
	if p.Set == nil {
		return nil, false
	}

	return p.Set, true
}

// EventDef pairs a name with add/remove accessor methods.
type EventDef struct {
	Name           string
	declaringType  model.TypeRef
	Type           model.TypeRef
	AttributesList []model.CustomAttribute
	Add            *MethodDef
	Remove         *MethodDef
}

func NewEventDef(declaringType model.TypeRef, name string, t model.TypeRef) *EventDef {
	return &EventDef{Name: name, declaringType: declaringType, Type: t}
}

func (e *EventDef) Kind() kind.Kind { return kind.KindEvent }
func (e *EventDef) FullName() string {
	return fmt.Sprintf("%s::%s", e.declaringType.FullName(), e.Name)
}
func (e *EventDef) Attributes() []model.CustomAttribute { return e.AttributesList }
func (e *EventDef) EventType() model.TypeRef              { return e.Type }

func (e *EventDef) AddMethod() (model.MethodDef, bool) {
	if e.Add == nil {
		return nil, false
	}

	return e.Add, true
}

func (e *EventDef) RemoveMethod() (model.MethodDef, bool) {
	if e.Remove == nil {
		return nil, false
	}

	return e.Remove, true
}

// VariableDef is a local variable declared in a method body.
type VariableDef struct {
	Name  string
	owner model.Entity
	Type  model.TypeRef
	index int
}

func (v *VariableDef) Kind() kind.Kind                { return kind.KindVariable }
func (v *VariableDef) FullName() string               { return fmt.Sprintf("%s$local%d", v.owner.FullName(), v.index) }
func (v *VariableDef) VariableType() model.TypeRef     { return v.Type }
func (v *VariableDef) Index() int                      { return v.index }
