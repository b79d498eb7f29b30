// Package importer implements the root-import engine: the component
// responsible for taking any reference reachable from a cloned member
// (a field's type, a method's parameter type, an instruction's operand)
// and producing the equivalent reference in the target module's frame.
//
// A reference falls into exactly one of three buckets, checked in order:
//  1. it is a composite shape (array, generic instance, generic parameter)
//     built recursively from other references;
//  2. it points at something the weave itself cloned (the source root type
//     or one of its members) — the registry already holds the answer;
//  3. it points at something else entirely (a framework type, a type in a
//     third assembly) — the ordinary model.MetadataImporter handles it,
//     the same import a non-mixin reference would get in any other
//     assembly-to-assembly copy.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/registry"
)

var (
	// ErrUnknownGenericParameter is returned when a generic parameter
	// reference's owner was never discovered by the weave and is not a
	// parameter of the target root itself.
	ErrUnknownGenericParameter = errors.New("importer: generic parameter owner not recognized")

	// ErrUnmaterializedGenericParameter is returned when a generic
	// parameter's target-side clone has not been created yet. Generic
	// parameters are always created before any reference to them can be
	// resolved (parent/child order guarantees the owner's shell, and the
	// owner's generic parameter list, exist before its members do), so
	// seeing this error indicates a scheduling bug upstream.
	ErrUnmaterializedGenericParameter = errors.New("importer: generic parameter not yet materialized")

	// ErrUnresolvedDeclaringType is returned when a field or method
	// reference's declaring type cannot itself be imported.
	ErrUnresolvedDeclaringType = errors.New("importer: could not resolve declaring type")
)

// Engine holds the root-import caches and the collaborators needed to
// resolve a reference: the registry (for mixin-mapped references), a
// model.Builder (for composite reference shapes), and a fallback
// model.MetadataImporter (for everything else).
type Engine struct {
	reg      *registry.Registry
	build    model.Builder
	fallback model.MetadataImporter
	target   model.Module

	// sourceRoot/targetRoot bound the mixin-mapped substitution: any
	// reference whose declaring type, walked up through nesting, reaches
	// sourceRoot is mixin-mapped and resolved via the registry instead of
	// the fallback importer.
	sourceRoot model.TypeDef
	targetRoot model.TypeDef

	typeCache   map[digest.Digest]model.TypeRef
	fieldCache  map[digest.Digest]model.FieldRef
	methodCache map[digest.Digest]model.MethodRef
}

// New returns an Engine scoped to one weave: sourceRoot/targetRoot identify
// the mixin boundary, build constructs composite reference shapes, and
// fallback handles references model.TypeRef.

// Engine's caches start empty; they are populated lazily as ImportType/
// ImportField/ImportMethod resolve each distinct reference for the first
// time.
func New(reg *registry.Registry, build model.Builder, fallback model.MetadataImporter, target model.Module, sourceRoot, targetRoot model.TypeDef) *Engine {
	return &Engine{
		reg:         reg,
		build:       build,
		fallback:    fallback,
		target:      target,
		sourceRoot:  sourceRoot,
		targetRoot:  targetRoot,
		typeCache:   make(map[digest.Digest]model.TypeRef),
		fieldCache:  make(map[digest.Digest]model.FieldRef),
		methodCache: make(map[digest.Digest]model.MethodRef),
	}
}

func keyOf(e model.Entity) digest.Digest {
	return digest.FromString(e.FullName())
}

// ImportType resolves ref into the target module's frame, following the
// six-step order: nil passthrough, generic parameter, cache hit, array,
// generic instance, then the mixin/fallback split.
func (e *Engine) ImportType(ref model.TypeRef) (model.TypeRef, error) {
	if ref == nil {
		return nil, nil
	}

	if ref.IsGenericParameter() {
		return e.ImportGenericParameter(ref)
	}

	key := keyOf(ref)
	if cached, ok := e.typeCache[key]; ok {
		return cached, nil
	}

	var resolved model.TypeRef
	var err error

	switch {
	case ref.IsArray():
		resolved, err = e.importArray(ref)
	case ref.IsGenericInstance():
		resolved, err = e.importGenericInstance(ref)
	case e.isMixinMapped(ref):
		resolved, err = e.importMixinType(ref)
	default:
		resolved, err = e.fallback.ImportType(e.target, ref)
	}
	if err != nil {
		return nil, err
	}

	e.typeCache[key] = resolved

	return resolved, nil
}

func (e *Engine) importArray(ref model.TypeRef) (model.TypeRef, error) {
	elem, err := e.ImportType(ref.ElementType())
	if err != nil {
		return nil, fmt.Errorf("importer: array element of %s: %w", ref.FullName(), err)
	}

	return e.build.NewArrayType(elem, ref.Rank())
}

func (e *Engine) importGenericInstance(ref model.TypeRef) (model.TypeRef, error) {
	def, err := e.ImportType(ref.GenericDefinition())
	if err != nil {
		return nil, fmt.Errorf("importer: generic definition of %s: %w", ref.FullName(), err)
	}

	args := ref.GenericArguments()
	imported := make([]model.TypeRef, len(args))
	for i, a := range args {
		imported[i], err = e.ImportType(a)
		if err != nil {
			return nil, fmt.Errorf("importer: generic argument %d of %s: %w", i, ref.FullName(), err)
		}
	}

	return e.build.NewGenericInstanceType(def, imported...)
}

// voidGenericParameter is the well-known placeholder a GenericParameterCloner
// registers as its target before its owner's Create has patched it up with
// the real target generic parameter (spec §4.D: "A sentinel placeholder
// owner (the void type) signals target not yet materialized"). It is
// exported as VoidGenericParameterTarget so the cloner package, which
// already imports importer, can register it without either package
// depending on a third location for the sentinel.
type voidGenericParameter struct{}

func (voidGenericParameter) Kind() kind.Kind  { return kind.KindGenericParameter }
func (voidGenericParameter) FullName() string { return "<void>" }

// VoidGenericParameterTarget is the placeholder GenericParameterCloner
// registers for its target until its owner's Create runs.
var VoidGenericParameterTarget model.Entity = voidGenericParameter{}

// ImportGenericParameter resolves a generic-parameter reference to its
// target-side counterpart. The reference itself, not its owner, is the
// registry key: a GenericParameterCloner registers its own source vertex
// against either the real target generic parameter or
// VoidGenericParameterTarget, so this is always a pure lookup, never a
// construction.
func (e *Engine) ImportGenericParameter(ref model.TypeRef) (model.TypeRef, error) {
	key := keyOf(ref)
	if cached, ok := e.typeCache[key]; ok {
		return cached, nil
	}

	target, ok := e.reg.TryGetTargetFor(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenericParameter, ref.FullName())
	}
	if target == VoidGenericParameterTarget {
		return nil, fmt.Errorf("%w: %s", ErrUnmaterializedGenericParameter, ref.FullName())
	}

	asTypeRef, ok := target.(model.TypeRef)
	if !ok {
		return nil, fmt.Errorf("%w: clone for %s is not a usable type reference", ErrUnresolvedDeclaringType, ref.FullName())
	}

	e.typeCache[key] = asTypeRef

	return asTypeRef, nil
}

// isMixinMapped reports whether ref's declaring chain reaches the source
// root, meaning the clone already exists (or will exist) in the registry
// rather than needing the fallback importer.
func (e *Engine) isMixinMapped(ref model.TypeRef) bool {
	td, ok := ref.(model.TypeDef)
	if !ok {
		return false
	}

	for cur := td; ; {
		if cur.FullName() == e.sourceRoot.FullName() {
			return true
		}
		parent, ok := cur.DeclaringType()
		if !ok {
			return false
		}
		cur = parent
	}
}

func (e *Engine) importMixinType(ref model.TypeRef) (model.TypeRef, error) {
	target, ok := e.reg.TryGetTargetFor(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedDeclaringType, ref.FullName())
	}
	asRef, ok := target.(model.TypeRef)
	if !ok {
		return nil, fmt.Errorf("%w: clone for %s is not a type reference", ErrUnresolvedDeclaringType, ref.FullName())
	}

	return asRef, nil
}

// ImportField resolves a field reference: its declaring type is imported
// first (mixin-mapped or not), then either the registry (mixin-mapped) or
// the fallback importer supplies the field itself.
func (e *Engine) ImportField(ref model.FieldRef) (model.FieldRef, error) {
	if ref == nil {
		return nil, nil
	}

	key := keyOf(ref)
	if cached, ok := e.fieldCache[key]; ok {
		return cached, nil
	}

	var resolved model.FieldRef
	var err error

	if declTD, ok := ref.DeclaringType().(model.TypeDef); ok && e.isMixinMapped(declTD) {
		target, found := e.reg.TryGetTargetFor(ref)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedDeclaringType, ref.FullName())
		}
		resolved, ok = target.(model.FieldRef)
		if !ok {
			return nil, fmt.Errorf("%w: clone for %s is not a field", ErrUnresolvedDeclaringType, ref.FullName())
		}
	} else {
		resolved, err = e.fallback.ImportField(e.target, ref)
		if err != nil {
			return nil, err
		}
	}

	e.fieldCache[key] = resolved

	return resolved, nil
}

// ImportMethod resolves a method reference, including closed-generic
// instantiations: the open definition is resolved first (mixin-mapped or
// fallback), then, if ref itself is a generic instance, its arguments are
// imported and a fresh closed instantiation is built over the resolved
// definition.
func (e *Engine) ImportMethod(ref model.MethodRef) (model.MethodRef, error) {
	if ref == nil {
		return nil, nil
	}

	key := keyOf(ref)
	if cached, ok := e.methodCache[key]; ok {
		return cached, nil
	}

	def := ref
	if ref.IsGenericInstance() {
		def = ref.GenericDefinition()
	}

	var resolvedDef model.MethodRef
	var err error

	if declTD, ok := def.DeclaringType().(model.TypeDef); ok && e.isMixinMapped(declTD) {
		resolvedDef, err = e.resolveMixinMethod(def, declTD)
		if err != nil {
			return nil, err
		}
	} else {
		resolvedDef, err = e.fallback.ImportMethod(e.target, def)
		if err != nil {
			return nil, err
		}
	}

	resolved := resolvedDef
	if ref.IsGenericInstance() {
		args := ref.GenericArguments()
		imported := make([]model.TypeRef, len(args))
		for i, a := range args {
			imported[i], err = e.ImportType(a)
			if err != nil {
				return nil, fmt.Errorf("importer: generic argument %d of %s: %w", i, ref.FullName(), err)
			}
		}
		resolved, err = e.build.NewGenericMethodInstance(resolvedDef, imported...)
		if err != nil {
			return nil, err
		}
	}

	e.methodCache[key] = resolved

	return resolved, nil
}

// resolveMixinMethod resolves a method whose declaring type is reachable
// from the source root. The common case is a direct registry hit: def is
// itself a discovered vertex. When it is not — def belongs to a generic
// instantiation of a mixin-mapped type rather than the open type itself —
// §4.E's "find the local method in the imported declaring type whose
// signature matches" applies: import the declaring type, then search its
// methods for a signature match under root-name substitution.
func (e *Engine) resolveMixinMethod(def model.MethodRef, declTD model.TypeDef) (model.MethodRef, error) {
	if target, found := e.reg.TryGetTargetFor(def); found {
		resolved, ok := target.(model.MethodRef)
		if !ok {
			return nil, fmt.Errorf("%w: clone for %s is not a method", ErrUnresolvedDeclaringType, def.FullName())
		}

		return resolved, nil
	}

	importedDeclType, err := e.ImportType(declTD)
	if err != nil {
		return nil, fmt.Errorf("importer: declaring type of %s: %w", def.FullName(), err)
	}

	importedTD, ok := importedDeclType.(model.TypeDef)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedDeclaringType, def.FullName())
	}

	for _, candidate := range importedTD.Methods() {
		if signatureMatchesAcrossRoots(def.Signature(), candidate, e.sourceRoot, e.targetRoot) {
			return candidate, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnresolvedDeclaringType, def.FullName())
}

// signatureMatchesAcrossRoots is the same substitution-based oracle
// cloner.SignaturesEqualUnderSubstitution implements (§4.D): a candidate
// target-side method matches a source signature if, after substituting the
// target root's full name back to the source root's in the candidate's own
// signature, the strings match. It is duplicated here in miniature, rather
// than imported from cloner, because cloner already imports importer for
// Context's Importer() accessor — importer importing cloner back would
// cycle. Both copies implement the identical three-line algorithm; cloner's
// is the one with direct test coverage.
func signatureMatchesAcrossRoots(sourceSignature string, candidate model.MethodDef, sourceRoot, targetRoot model.TypeDef) bool {
	substituted := strings.ReplaceAll(candidate.Signature(), targetRoot.FullName(), sourceRoot.FullName())

	return substituted == sourceSignature
}

// ImportParameter, ImportVariable, and ImportInstruction resolve
// references that can only ever point at something the weave itself
// cloned (a parameter, local, or instruction always belongs to a method
// body the weave owns end to end), so they are pure registry lookups with
// no fallback path.
func (e *Engine) ImportParameter(ref model.ParameterDef) (model.ParameterDef, error) {
	target, ok := e.reg.TryGetTargetFor(ref)
	if !ok {
		return nil, fmt.Errorf("importer: parameter %s has no registered clone", ref.FullName())
	}
	p, ok := target.(model.ParameterDef)
	if !ok {
		return nil, fmt.Errorf("importer: clone for %s is not a parameter", ref.FullName())
	}

	return p, nil
}

func (e *Engine) ImportVariable(ref model.VariableDef) (model.VariableDef, error) {
	target, ok := e.reg.TryGetTargetFor(ref)
	if !ok {
		return nil, fmt.Errorf("importer: variable %s has no registered clone", ref.FullName())
	}
	v, ok := target.(model.VariableDef)
	if !ok {
		return nil, fmt.Errorf("importer: clone for %s is not a variable", ref.FullName())
	}

	return v, nil
}

func (e *Engine) ImportInstruction(ref model.InstructionDef) (model.InstructionDef, error) {
	target, ok := e.reg.TryGetTargetFor(ref)
	if !ok {
		return nil, fmt.Errorf("importer: instruction %s has no registered clone", ref.FullName())
	}
	in, ok := target.(model.InstructionDef)
	if !ok {
		return nil, fmt.Errorf("importer: clone for %s is not an instruction", ref.FullName())
	}

	return in, nil
}
