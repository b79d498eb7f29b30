package driver

import (
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/model"
)

// SkipAttributeFullName names the custom attribute a source member carries
// to opt out of cloning entirely (spec.md §6's skip-constructor-mark:
// "a source member annotated 'skip' is excluded from cloning"). The spec
// describes the behavior but not a concrete attribute name, so mixweave
// invents one the way a real weaver would ship its own marker type.
const SkipAttributeFullName = "Mixweave.SkipAttribute"

// MixinAttributeFullName names the custom attribute a mixin source root
// carries to identify itself as a weave input. DefaultAttributeFilter
// excludes it from propagating to the cloned root, per spec.md §6's
// custom-attribute-filter: "attributes on the source root that are meta
// (describing the weave itself) are not propagated; all others are."
const MixinAttributeFullName = "Mixweave.MixinAttribute"

// Callbacks are optional per-vertex hooks a caller can use to observe or
// veto a weave in progress, grounded on the component-model constructor
// package's ComponentConstructionCallbacks (OnStartComponentConstruct /
// OnEndComponentConstruct pairs per processing phase). mixweave has one
// creation/population cycle rather than OCM's multi-phase component/
// resource/source/reference processing, so there is a single hook pair
// covering every discovered vertex rather than one pair per phase.
type Callbacks struct {
	// OnBeforeClone runs immediately before a vertex's cloner(s) are
	// created. Returning an error aborts the weave.
	OnBeforeClone func(v graph.Vertex) error

	// OnAfterClone runs after a vertex's cloner(s) have run Create (during
	// the creation pass) or Populate (during the population pass). err is
	// whatever that step returned; OnAfterClone may wrap or replace it, or
	// return nil to swallow it, the same way OCM's OnEnd* hooks do.
	OnAfterClone func(v graph.Vertex, err error) error
}

// Options configures one Driver.Weave call.
type Options struct {
	// SkipConstructorMark enables skip-constructor-mark exclusion: when
	// true, the Discoverer omits any member whose Attributes() includes
	// one typed SkipAttributeFullName, and never descends into it.
	SkipConstructorMark bool

	// CustomAttributeFilter decides whether an attribute is propagated
	// onto its cloned entity. nil behaves like a filter that includes
	// everything. DefaultAttributeFilter implements the spec's default.
	CustomAttributeFilter func(model.CustomAttribute) bool

	Callbacks Callbacks
}

// DefaultAttributeFilter excludes only the attribute identifying a type as
// a mixin source root; every other attribute is propagated.
func DefaultAttributeFilter(attr model.CustomAttribute) bool {
	return attr.AttributeType().FullName() != MixinAttributeFullName
}

// DefaultOptions returns the zero-value weave configuration: skip-mark
// exclusion disabled, DefaultAttributeFilter, and no callbacks.
func DefaultOptions() Options {
	return Options{CustomAttributeFilter: DefaultAttributeFilter}
}

func (o Options) includeAttribute(attr model.CustomAttribute) bool {
	if o.CustomAttributeFilter == nil {
		return true
	}

	return o.CustomAttributeFilter(attr)
}
