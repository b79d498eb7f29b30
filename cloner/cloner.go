// Package cloner implements the per-kind cloning strategies that turn one
// discovered source vertex into a target-module entity. Each concrete
// cloner follows the teacher's pattern of centralizing a repeated concern
// in one embedded type rather than duplicating it — the way core.Graph
// centralizes locking, base here centralizes the unpopulated→populated
// transition every Cloner must respect.
//
// Package cloner does not import the driver package, even though every
// Cloner method takes a Context that the driver constructs: Context is
// declared here, as the minimal capability set a cloner needs, and driver
// provides a concrete implementation. Declaring the interface at its
// consumer rather than its implementer is what keeps driver -> cloner a
// one-way dependency.
package cloner

import (
	"errors"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/importer"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/registry"
)

// ErrDoubleInvoke is returned by a Cloner's Populate method if it is called
// more than once for the same instance.
var ErrDoubleInvoke = errors.New("cloner: populate invoked twice")

// ErrSignatureMatchMissing is returned by the signature-equality oracle
// (signature.go) when no open method definition's substituted signature
// matches a closed-generic or nested method reference.
var ErrSignatureMatchMissing = errors.New("cloner: no method signature match in target type")

// Context is everything a Cloner needs from the driver to do its work: the
// root-import engine for references leaving the mixin-mapped set, the
// registry for references staying inside it, the target module clones
// attach to, and the subset of driver.Options that change cloning
// behavior.
type Context interface {
	Importer() *importer.Engine
	Registry() *registry.Registry
	Builder() model.Builder
	TargetModule() model.Module
	SkipConstructorMark() bool
	IncludeAttribute(attr model.CustomAttribute) bool
}

// Cloner clones exactly one source vertex into exactly one primary target
// entity, in two steps: Create allocates the target-side shell (a type
// with no members yet, a method with no body yet, ...) and registers it,
// so other cloners can reference it before it is fully populated; Populate
// fills in the shell's content once every clone it might reference also
// has at least a shell.
//
// This two-step split is why the weave runs two topological sorts
// (spec.md §4.F): Create follows parent/child ∪ sibling order (a type's
// shell must exist before its fields' shells, a method's generic
// parameters must exist in declaration order), while Populate follows
// dependency order (a method body can only be populated once every field
// and method it references has at least a registered shell).
type Cloner interface {
	Source() graph.Vertex
	Target() model.Entity
	Create(ctx Context) error
	Populate(ctx Context) error
}

// base centralizes the populated-once invariant every concrete Cloner
// embeds. It does not implement Create: each kind's Create is different
// enough that there is nothing to factor out beyond the source vertex
// itself.
type base struct {
	source    graph.Vertex
	populated bool
}

func (b *base) Source() graph.Vertex { return b.source }

// markPopulated records that Populate has run, returning ErrDoubleInvoke if
// it already had. Concrete cloners call this first thing inside Populate.
func (b *base) markPopulated() error {
	if b.populated {
		return ErrDoubleInvoke
	}
	b.populated = true

	return nil
}
