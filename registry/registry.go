// Package registry tracks the source-vertex-to-clone mapping that the
// weaver builds during its creation pass and consults during its
// population pass. It generalizes the teacher's builderConfig resolution
// pattern (functional options collapsing into one immutable value) into a
// one-shot lifecycle gate: discovery is open while vertices are still being
// found and given cloners, then closed once and for all before population
// begins, so a population-pass bug that tries to discover "just one more"
// vertex fails loudly instead of silently growing the graph mid-pass.
//
// Registry deliberately does not import the cloner package, even though it
// stores what the spec calls a "map[graph.Vertex][]cloner.Cloner": cloner
// will need to import registry (a Context passed to every Cloner carries a
// *Registry), so registry depends on cloner would form an import cycle.
// Entry is the minimal structural interface registry actually needs;
// cloner.Cloner satisfies it without either package importing the other.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/model"
)

var (
	// ErrDiscoveryClosed is returned by Add once CloseDiscovery has run.
	ErrDiscoveryClosed = errors.New("registry: discovery already closed")

	// ErrGateAlreadyClosed is returned by CloseDiscovery if called more than
	// once.
	ErrGateAlreadyClosed = errors.New("registry: gate already closed")

	// ErrUnknownSource is returned by GetTargetFor for a source entity never
	// passed to Add.
	ErrUnknownSource = errors.New("registry: no clone registered for source entity")

	// ErrNoEntries is returned by Add when called with zero entries: every
	// discovered vertex must produce at least one clone.
	ErrNoEntries = errors.New("registry: vertex registered with no cloner entries")
)

// Entry is the part of cloner.Cloner the registry needs to know about: which
// source vertex produced it, and what target entity it clones to. A vertex
// may register more than one Entry (Add appends), but
// TryGetTargetFor/GetTargetFor always resolve to the first entry registered
// for a vertex, by convention the "primary" clone.
type Entry interface {
	Source() graph.Vertex
	Target() model.Entity
}

// Registry maps each discovered source vertex to the Entry (or entries) the
// cloner package produced for it. The single-threaded execution model means
// Registry does not strictly need internal locking for correctness, but the
// mutex is kept so a future caller that does run discovery concurrently
// fails safely (via the race detector) rather than racing silently; it adds
// nothing to the deterministic single-threaded path's cost profile beyond an
// uncontended lock.
type Registry struct {
	mu       sync.Mutex
	closed   bool
	byVertex map[string][]Entry
}

// New returns an empty Registry with discovery open.
func New() *Registry {
	return &Registry{byVertex: make(map[string][]Entry)}
}

// Add registers entries as the clone(s) produced for source. It returns
// ErrDiscoveryClosed if CloseDiscovery has already run, or ErrNoEntries if
// entries is empty. Calling Add again for a vertex already registered
// appends to its entry list.
func (r *Registry) Add(source graph.Vertex, entries ...Entry) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: cannot register %s", ErrDiscoveryClosed, source.Entity.FullName())
	}

	key := source.Entity.FullName()
	r.byVertex[key] = append(r.byVertex[key], entries...)

	return nil
}

// CloseDiscovery seals the registry. Every subsequent Add call fails with
// ErrDiscoveryClosed. It returns ErrGateAlreadyClosed if called more than
// once.
func (r *Registry) CloseDiscovery() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrGateAlreadyClosed
	}
	r.closed = true

	return nil
}

// Closed reports whether CloseDiscovery has run.
func (r *Registry) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.closed
}

// EntriesFor returns every Entry registered for source, in registration
// order, or nil if none were registered.
func (r *Registry) EntriesFor(source graph.Vertex) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Entry(nil), r.byVertex[source.Entity.FullName()]...)
}

// TryGetTargetFor returns the primary clone registered for the source
// entity identified by fullName, and true, or the zero value and false if
// no entry was registered under that name. Lookups are by the source
// entity's FullName rather than by graph.Vertex because callers that need
// this (notably the importer package, resolving a field or method
// reference it did not itself discover as a vertex) usually only have the
// model.Entity in hand, not the Vertex that wrapped it during discovery.
//
// Unlike Add, TryGetTargetFor is never gated on discovery being closed: the
// dispatcher calls it during the creation pass to resolve an already-
// cloned parent's target before dispatching its child (creation order
// guarantees the parent was Add'ed first), and GenericParameterCloner
// re-checks its owner's target on every Create. What CloseDiscovery buys a
// caller is completeness, not availability — before it runs, a miss only
// means "not registered yet", not "will never exist"; every mixin-mapped
// reference is guaranteed resolvable only from CloseDiscovery onward,
// which is why the root-import engine's real substitution work happens
// during Populate, never during Create.
func (r *Registry) TryGetTargetFor(source model.Entity) (model.Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.byVertex[source.FullName()]
	if !ok || len(entries) == 0 {
		return nil, false
	}

	return entries[0].Target(), true
}

// GetTargetFor is TryGetTargetFor's strict sibling, for callers for whom a
// missing clone is a programming error rather than a legitimate outcome.
func (r *Registry) GetTargetFor(source model.Entity) (model.Entity, error) {
	e, ok := r.TryGetTargetFor(source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source.FullName())
	}

	return e, nil
}

// Len reports how many distinct source vertices are currently registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.byVertex)
}
