package driver

import (
	"github.com/ilweave/mixweave/cloner"
	"github.com/ilweave/mixweave/importer"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/registry"
)

// Context is the concrete cloner.Context every Cloner sees during a weave:
// the non-owning handle back into the driver's importer.Engine and
// registry.Registry (spec.md §3's "Ownership" note — the driver owns
// both, cloners only borrow them for the duration of one Create/Populate
// call).
type Context struct {
	imp    *importer.Engine
	reg    *registry.Registry
	build  model.Builder
	target model.Module
	opts   Options
}

func newContext(reg *registry.Registry, build model.Builder, target model.Module, imp *importer.Engine, opts Options) *Context {
	return &Context{imp: imp, reg: reg, build: build, target: target, opts: opts}
}

func (c *Context) Importer() *importer.Engine   { return c.imp }
func (c *Context) Registry() *registry.Registry { return c.reg }
func (c *Context) Builder() model.Builder       { return c.build }
func (c *Context) TargetModule() model.Module   { return c.target }
func (c *Context) SkipConstructorMark() bool    { return c.opts.SkipConstructorMark }

func (c *Context) IncludeAttribute(attr model.CustomAttribute) bool {
	return c.opts.includeAttribute(attr)
}

var _ cloner.Context = (*Context)(nil)
