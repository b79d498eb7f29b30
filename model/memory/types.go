// Package memory is a deterministic, in-process implementation of the
// model package's interfaces. It exists because spec.md treats the
// metadata/IL object model as an external collaborator rather than
// something this module builds; memory gives the rest of mixweave (and its
// tests, and cmd/mixweave) something concrete to run against without
// depending on any particular assembly-reading library. A production
// deployment would implement model.Module et al. over a real metadata
// reader and never import this package.
package memory

import (
	"fmt"
	"strings"

	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
)

// Module is an in-memory model.Module: a named bag of root TypeDefs.
type Module struct {
	Name  string
	types map[string]*TypeDef
}

// NewModule creates an empty module. Use AddType to register root types.
func NewModule(name string) *Module {
	return &Module{Name: name, types: make(map[string]*TypeDef)}
}

func (m *Module) FullName() string { return m.Name }

// AddType registers t as a root type of the module and stamps its
// DeclaringModule. AddType does not recurse into t.NestedTypes; nested
// types are reached through their enclosing TypeDef, never through
// Module.RootType.
func (m *Module) AddType(t *TypeDef) *TypeDef {
	t.declaringModule = m
	m.types[t.FullName()] = t

	return t
}

func (m *Module) RootType(fullName string) (model.TypeDef, bool) {
	t, ok := m.types[fullName]

	return t, ok
}

// RootTypes returns every registered root type in insertion-independent,
// name-sorted order, for deterministic iteration in tests and demos.
func (m *Module) RootTypes() []*TypeDef {
	out := make([]*TypeDef, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	sortTypeDefs(out)

	return out
}

// TypeDef is a fully defined type: it implements both model.TypeDef and, by
// extension, model.TypeRef (a defined type is always a valid reference to
// itself).
type TypeDef struct {
	Namespace string
	Name      string

	declaringModule *Module
	declaringType   *TypeDef

	AttributesList []model.CustomAttribute
	Base           model.TypeRef
	IfaceList      []model.TypeRef
	Nested         []*TypeDef
	FieldList      []*FieldDef
	MethodList     []*MethodDef
	PropertyList   []*PropertyDef
	EventList      []*EventDef
	GenericParams  []*GenericParameterDef
}

// NewTypeDef creates a type named namespace.name (namespace may be empty).
func NewTypeDef(namespace, name string) *TypeDef {
	return &TypeDef{Namespace: namespace, Name: name}
}

func (t *TypeDef) Kind() kind.Kind { return kind.KindType }

func (t *TypeDef) FullName() string {
	if t.declaringType != nil {
		return t.declaringType.FullName() + "+" + t.Name
	}
	if t.Namespace == "" {
		return t.Name
	}

	return t.Namespace + "." + t.Name
}

func (t *TypeDef) IsArray() bool                         { return false }
func (t *TypeDef) ElementType() model.TypeRef            { return nil }
func (t *TypeDef) Rank() int                             { return 0 }
func (t *TypeDef) IsGenericInstance() bool               { return false }
func (t *TypeDef) GenericDefinition() model.TypeRef      { return nil }
func (t *TypeDef) GenericArguments() []model.TypeRef     { return nil }
func (t *TypeDef) IsGenericParameter() bool              { return false }
func (t *TypeDef) GenericParameterOwner() model.Entity   { return nil }
func (t *TypeDef) GenericParameterPosition() int         { return -1 }

func (t *TypeDef) DeclaringModule() model.Module { return t.declaringModule }

func (t *TypeDef) DeclaringType() (model.TypeDef, bool) {
	if t.declaringType == nil {
		return nil, false
	}

	return t.declaringType, true
}

func (t *TypeDef) Attributes() []model.CustomAttribute { return t.AttributesList }

func (t *TypeDef) BaseType() (model.TypeRef, bool) {
	if t.Base == nil {
		return nil, false
	}

	return t.Base, true
}

func (t *TypeDef) Interfaces() []model.TypeRef { return t.IfaceList }

func (t *TypeDef) NestedTypes() []model.TypeDef {
	out := make([]model.TypeDef, len(t.Nested))
	for i, n := range t.Nested {
		out[i] = n
	}

	return out
}

func (t *TypeDef) Fields() []model.FieldDef {
	out := make([]model.FieldDef, len(t.FieldList))
	for i, f := range t.FieldList {
		out[i] = f
	}

	return out
}

func (t *TypeDef) Methods() []model.MethodDef {
	out := make([]model.MethodDef, len(t.MethodList))
	for i, mm := range t.MethodList {
		out[i] = mm
	}

	return out
}

func (t *TypeDef) Properties() []model.PropertyDef {
	out := make([]model.PropertyDef, len(t.PropertyList))
	for i, p := range t.PropertyList {
		out[i] = p
	}

	return out
}

func (t *TypeDef) Events() []model.EventDef {
	out := make([]model.EventDef, len(t.EventList))
	for i, e := range t.EventList {
		out[i] = e
	}

	return out
}

func (t *TypeDef) GenericParameters() []model.GenericParameterDef {
	out := make([]model.GenericParameterDef, len(t.GenericParams))
	for i, g := range t.GenericParams {
		out[i] = g
	}

	return out
}

// AddNested registers n as a nested type of t and stamps its declaringType.
func (t *TypeDef) AddNested(n *TypeDef) *TypeDef {
	n.declaringType = t
	n.declaringModule = t.declaringModule
	t.Nested = append(t.Nested, n)

	return n
}

// AddGenericParameter registers and returns a fresh generic parameter owned
// by t at the next available position.
func (t *TypeDef) AddGenericParameter(name string) *GenericParameterDef {
	gp := &GenericParameterDef{name: name, position: len(t.GenericParams), owner: t}
	t.GenericParams = append(t.GenericParams, gp)

	return gp
}

func sortTypeDefs(ts []*TypeDef) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j-1].FullName() > ts[j].FullName(); j-- {
			ts[j-1], ts[j] = ts[j], ts[j-1]
		}
	}
}

// ArrayType is a model.TypeRef denoting an array of Element with Rank
// dimensions. It is never a model.TypeDef: arrays have no members of their
// own.
type ArrayType struct {
	Element model.TypeRef
	RankN   int
}

// NewArrayType builds a reference to an array of element with rank
// dimensions.
func NewArrayType(element model.TypeRef, rank int) *ArrayType {
	return &ArrayType{Element: element, RankN: rank}
}

func (a *ArrayType) Kind() kind.Kind { return kind.KindType }

func (a *ArrayType) FullName() string {
	return fmt.Sprintf("%s[%s]", a.Element.FullName(), strings.Repeat(",", a.RankN-1))
}

func (a *ArrayType) IsArray() bool                       { return true }
func (a *ArrayType) ElementType() model.TypeRef          { return a.Element }
func (a *ArrayType) Rank() int                           { return a.RankN }
func (a *ArrayType) IsGenericInstance() bool             { return false }
func (a *ArrayType) GenericDefinition() model.TypeRef    { return nil }
func (a *ArrayType) GenericArguments() []model.TypeRef   { return nil }
func (a *ArrayType) IsGenericParameter() bool            { return false }
func (a *ArrayType) GenericParameterOwner() model.Entity { return nil }
func (a *ArrayType) GenericParameterPosition() int       { return -1 }

// GenericInstanceType is a model.TypeRef denoting a closed generic
// instantiation of Definition with Arguments, e.g. Box<int>.
type GenericInstanceType struct {
	Definition model.TypeRef
	Arguments  []model.TypeRef
}

func NewGenericInstanceType(def model.TypeRef, args ...model.TypeRef) *GenericInstanceType {
	return &GenericInstanceType{Definition: def, Arguments: args}
}

func (g *GenericInstanceType) Kind() kind.Kind { return kind.KindType }

func (g *GenericInstanceType) FullName() string {
	names := make([]string, len(g.Arguments))
	for i, a := range g.Arguments {
		names[i] = a.FullName()
	}

	return fmt.Sprintf("%s<%s>", g.Definition.FullName(), strings.Join(names, ","))
}

func (g *GenericInstanceType) IsArray() bool                       { return false }
func (g *GenericInstanceType) ElementType() model.TypeRef          { return nil }
func (g *GenericInstanceType) Rank() int                           { return 0 }
func (g *GenericInstanceType) IsGenericInstance() bool             { return true }
func (g *GenericInstanceType) GenericDefinition() model.TypeRef    { return g.Definition }
func (g *GenericInstanceType) GenericArguments() []model.TypeRef   { return g.Arguments }
func (g *GenericInstanceType) IsGenericParameter() bool            { return false }
func (g *GenericInstanceType) GenericParameterOwner() model.Entity { return nil }
func (g *GenericInstanceType) GenericParameterPosition() int       { return -1 }

// GenericParameterDef is both a model.GenericParameterDef (the declaration)
// and a model.TypeRef (the way that declaration is referenced from within
// its own owner's signatures, e.g. a field typed T).
type GenericParameterDef struct {
	name     string
	position int
	owner    model.Entity
}

func (g *GenericParameterDef) Kind() kind.Kind { return kind.KindGenericParameter }

func (g *GenericParameterDef) FullName() string {
	return fmt.Sprintf("%s!%d[%s]", g.owner.FullName(), g.position, g.name)
}

func (g *GenericParameterDef) Name() string        { return g.name }
func (g *GenericParameterDef) Position() int        { return g.position }
func (g *GenericParameterDef) Owner() model.Entity  { return g.owner }

func (g *GenericParameterDef) IsArray() bool                       { return false }
func (g *GenericParameterDef) ElementType() model.TypeRef          { return nil }
func (g *GenericParameterDef) Rank() int                           { return 0 }
func (g *GenericParameterDef) IsGenericInstance() bool             { return false }
func (g *GenericParameterDef) GenericDefinition() model.TypeRef    { return nil }
func (g *GenericParameterDef) GenericArguments() []model.TypeRef   { return nil }
func (g *GenericParameterDef) IsGenericParameter() bool            { return true }
func (g *GenericParameterDef) GenericParameterOwner() model.Entity { return g.owner }
func (g *GenericParameterDef) GenericParameterPosition() int       { return g.position }
