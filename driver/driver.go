// Package driver ties graph, registry, dispatch, cloner, and importer
// together into the single entry point spec.md §4.F describes: build the
// graph, seed the registry with the root pairing, run the creation pass,
// close discovery, run the population pass.
package driver

import (
	"context"
	"fmt"

	"github.com/ilweave/mixweave/cloner"
	"github.com/ilweave/mixweave/dispatch"
	"github.com/ilweave/mixweave/graph"
	"github.com/ilweave/mixweave/importer"
	"github.com/ilweave/mixweave/internal/wlog"
	"github.com/ilweave/mixweave/kind"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/registry"
	"github.com/ilweave/mixweave/topo"
)

// rootEntry is the registry.Entry the Driver seeds by hand for the source
// root: every other vertex's Entry comes from a cloner.Cloner, but the
// root pairing precedes any cloner running (spec.md §4.F step 2), so it
// has no Cloner of its own to register it.
type rootEntry struct {
	source graph.Vertex
	target model.Entity
}

func (r rootEntry) Source() graph.Vertex { return r.source }
func (r rootEntry) Target() model.Entity { return r.target }

// Driver runs one weave. It holds no state between calls; Weave is safe to
// call repeatedly with different inputs.
type Driver struct{}

// New returns a Driver. There is nothing to configure at construction time
// — every per-weave setting is an Options field passed to Weave.
func New() *Driver {
	return &Driver{}
}

// Weave clones sourceType's members (found by name in sourceModule) into
// targetType (found by name in targetModule) using build to construct the
// target-side entities and fallback for references leaving the mixin-
// mapped pair. It returns targetModule, mutated in place by build, once
// every discovered vertex has been created and populated.
func (d *Driver) Weave(
	ctx context.Context,
	sourceModule model.Module,
	sourceTypeFullName string,
	targetModule model.Module,
	targetTypeFullName string,
	build model.Builder,
	fallback model.MetadataImporter,
	opts Options,
) (model.Module, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	sourceRoot, ok := sourceModule.RootType(sourceTypeFullName)
	if !ok {
		return nil, fmt.Errorf("driver: source type %s not found in module %s", sourceTypeFullName, sourceModule.FullName())
	}
	targetRoot, ok := targetModule.RootType(targetTypeFullName)
	if !ok {
		return nil, fmt.Errorf("driver: target type %s not found in module %s", targetTypeFullName, targetModule.FullName())
	}

	// Step 1: build the IL graph rooted at the source type.
	wlog.Discovery().DebugContext(ctx, "starting discovery", "source", sourceTypeFullName, "target", targetTypeFullName)
	g, err := NewDiscoverer(opts).Discover(sourceRoot)
	if err != nil {
		wlog.Discovery().WarnContext(ctx, "discovery failed", "source", sourceTypeFullName, "error", err)
		return nil, fmt.Errorf("driver: discover %s: %w", sourceTypeFullName, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg := registry.New()
	imp := importer.New(reg, build, fallback, targetModule, sourceRoot, targetRoot)
	cctx := newContext(reg, build, targetModule, imp, opts)

	// Step 2: seed the registry with the root pairing.
	rootVertex := graph.Vertex{Entity: sourceRoot, Kind: kind.KindType}
	if err := reg.Add(rootVertex, rootEntry{source: rootVertex, target: targetRoot}); err != nil {
		return nil, fmt.Errorf("driver: seed root pairing: %w", err)
	}

	disp := dispatch.New(g)

	// Step 3: creation pass, parent/child ∪ sibling order.
	wlog.Creation().DebugContext(ctx, "starting creation pass", "vertices", len(g.Vertices()))
	creationOrder, err := topo.Sort(g.Vertices(), creationEdges(g))
	if err != nil {
		wlog.Creation().WarnContext(ctx, "creation order failed", "error", err)
		return nil, fmt.Errorf("driver: creation order: %w", err)
	}

	for _, v := range creationOrder {
		if v == rootVertex {
			// The root pairing is seeded above, not dispatched: its target
			// is the caller-supplied targetRoot, an existing type, not a
			// shell TypeCloner.Create would define under the target
			// module. Only its own qualifying attributes still need to
			// land on targetRoot, which happens once, here, instead of
			// through a Populate call it will never receive.
			if err := cloner.CopyAttributes(cctx, sourceRoot.Attributes(), targetRoot); err != nil {
				return nil, fmt.Errorf("driver: copy root attributes: %w", err)
			}

			continue
		}

		if err := d.runCallback(opts.Callbacks.OnBeforeClone, v); err != nil {
			return nil, fmt.Errorf("driver: before-clone hook for %s: %w", v.Entity.FullName(), err)
		}

		cloners, dispatchErr := disp.Dispatch(v, reg)
		if dispatchErr == nil {
			for _, c := range cloners {
				if createErr := c.Create(cctx); createErr != nil {
					dispatchErr = createErr
					break
				}
			}
		}

		if hookErr := d.runAfterCallback(opts.Callbacks.OnAfterClone, v, dispatchErr); hookErr != nil {
			wlog.Creation().WarnContext(ctx, "create failed", "vertex", v.Entity.FullName(), "error", hookErr)
			return nil, fmt.Errorf("driver: create %s: %w", v.Entity.FullName(), hookErr)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 4: flip the registry gate.
	if err := reg.CloseDiscovery(); err != nil {
		return nil, fmt.Errorf("driver: close discovery: %w", err)
	}

	// Step 5: population pass, dependency order.
	wlog.Population().DebugContext(ctx, "starting population pass")
	populationOrder, err := topo.Sort(g.Vertices(), g.DependenciesOf)
	if err != nil {
		wlog.Population().WarnContext(ctx, "population order failed", "error", err)
		return nil, fmt.Errorf("driver: population order: %w", err)
	}

	for _, v := range populationOrder {
		for _, entry := range reg.EntriesFor(v) {
			c, ok := entry.(cloner.Cloner)
			if !ok {
				// The root's registry.Entry is a rootEntry, not a
				// cloner.Cloner: there is nothing to populate for it, its
				// target is the caller-supplied targetRoot itself.
				continue
			}

			populateErr := c.Populate(cctx)
			if hookErr := d.runAfterCallback(opts.Callbacks.OnAfterClone, v, populateErr); hookErr != nil {
				wlog.Population().WarnContext(ctx, "populate failed", "vertex", v.Entity.FullName(), "error", hookErr)
				return nil, fmt.Errorf("driver: populate %s: %w", v.Entity.FullName(), hookErr)
			}
		}
	}

	wlog.Population().DebugContext(ctx, "weave completed successfully")

	return targetModule, nil
}

func (d *Driver) runCallback(hook func(graph.Vertex) error, v graph.Vertex) error {
	if hook == nil {
		return nil
	}

	return hook(v)
}

func (d *Driver) runAfterCallback(hook func(graph.Vertex, error) error, v graph.Vertex, err error) error {
	if hook == nil {
		return err
	}

	return hook(v, err)
}

// creationEdges returns the edgesOf function topo.Sort needs for the
// creation pass: a vertex depends on its parent (must exist first) and on
// its previous sibling (so same-kind children attach in declaration
// order, which matters for indices like a variable's slot or a
// parameter's position).
func creationEdges(g *graph.Graph) func(graph.Vertex) []graph.Vertex {
	return func(v graph.Vertex) []graph.Vertex {
		var deps []graph.Vertex
		if parent, ok := g.TryParentOf(v); ok {
			deps = append(deps, parent)
		}
		if prev, ok := g.TryPreviousSiblingOf(v); ok {
			deps = append(deps, prev)
		}

		return deps
	}
}
