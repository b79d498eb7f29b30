// Command mixweave is a minimal CLI entry point exercising a weave
// end-to-end against the in-memory model. It is not the build-host
// integration or command-dispatch shell spec.md places out of scope
// (§1: "the command-dispatch shell that selects which weavers run" is
// not this module's concern) — it drives exactly one fixed weave against
// fixture data built into the binary, for smoke-testing the library.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ilweave/mixweave/driver"
	"github.com/ilweave/mixweave/model"
	"github.com/ilweave/mixweave/model/memory"
	"github.com/ilweave/mixweave/weaveconfig"
)

// noopFallback treats every reference as already belonging to the target
// frame. The fixture mixin never references anything outside its own
// closure, so there is nothing for a real MetadataImporter to resolve.
type noopFallback struct{}

func (noopFallback) ImportType(_ model.Module, ref model.TypeRef) (model.TypeRef, error) {
	return ref, nil
}

func (noopFallback) ImportField(_ model.Module, ref model.FieldRef) (model.FieldRef, error) {
	return ref, nil
}

func (noopFallback) ImportMethod(_ model.Module, ref model.MethodRef) (model.MethodRef, error) {
	return ref, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mixweave: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mixweave", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to a weaveconfig YAML document")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mixweave -config weave.yaml\n\n")
		fmt.Fprintf(os.Stderr, "Weaves a fixture mixin into a fixture target and prints a summary.\n\n")
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return fmt.Errorf("parse flags: %w", err)
	}

	if *configPath == "" {
		fs.Usage()
		return fmt.Errorf("-config is required")
	}

	spec, err := weaveconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sourceModule, targetModule := buildFixtureModules()

	build := memory.NewBuilder()
	d := driver.New()

	result, err := d.Weave(context.Background(), sourceModule, spec.SourceType, targetModule, spec.TargetType, build, noopFallback{}, spec.ToDriverOptions())
	if err != nil {
		return fmt.Errorf("weave: %w", err)
	}

	return printSummary(out, result, spec.TargetType)
}

// printSummary reports the cloned field and method names now hanging off
// the target root, the observable result of a weave from the outside.
func printSummary(out io.Writer, target model.Module, targetTypeFullName string) error {
	concreteTarget, ok := target.(*memory.Module)
	if !ok {
		return fmt.Errorf("printSummary: target module is not a *memory.Module")
	}

	root, ok := concreteTarget.RootType(targetTypeFullName)
	if !ok {
		return fmt.Errorf("printSummary: target type %s not found after weave", targetTypeFullName)
	}

	concreteRoot, ok := root.(*memory.TypeDef)
	if !ok {
		return fmt.Errorf("printSummary: target type is not a *memory.TypeDef")
	}

	fmt.Fprintf(out, "woven %s:\n", concreteRoot.FullName())
	for _, f := range concreteRoot.FieldList {
		fmt.Fprintf(out, "  field  %s\n", f.FullName())
	}
	for _, m := range concreteRoot.MethodList {
		fmt.Fprintf(out, "  method %s\n", m.FullName())
	}
	for _, a := range concreteRoot.Attributes() {
		fmt.Fprintf(out, "  attribute %s\n", a.AttributeType().FullName())
	}

	slog.Info("weave completed", slog.String("target", targetTypeFullName))

	return nil
}
