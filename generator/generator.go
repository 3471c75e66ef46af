// Package generator compiles definition documents into Go client bindings.
// Each service yields a contract file declaring the client interface and a
// binding file implementing it on top of the runtime package.
package generator

import (
	"context"
	"errors"
	"sort"
	"sync"

	"goa.design/goa/v3/codegen"
	"golang.org/x/sync/errgroup"

	"github.com/xeger/bindgen/definition"
	"github.com/xeger/bindgen/generator/internal/bindgen"
)

// Compile errors. Errors returned by Generate wrap one of these, located by a
// *CompileError when they come from a service.
var (
	ErrUnresolvedReference      = bindgen.ErrUnresolvedReference
	ErrMultipleBodyArguments    = bindgen.ErrMultipleBodyArguments
	ErrUnsupportedAuthType      = bindgen.ErrUnsupportedAuthType
	ErrUnsupportedParamCategory = bindgen.ErrUnsupportedParamCategory
	ErrInvalidPathArgument      = bindgen.ErrInvalidPathArgument
	ErrInvalidMarker            = bindgen.ErrInvalidMarker
	ErrUnrecognized             = bindgen.ErrUnrecognized
)

// CompileError locates a compile error in the definition.
type CompileError = bindgen.CompileError

// Options configures a generation run.
type Options struct {
	// GenPkg is the import path of the directory generated packages are
	// written to, e.g. "github.com/acme/widgets/gen".
	GenPkg string
	// FailFast aborts the whole run on the first failing service. By default
	// a failing service is skipped and the others are still generated.
	FailFast bool
	// Concurrency bounds the number of services compiled in parallel. Zero
	// means no limit.
	Concurrency int
	// Codec selects the runtime codec of structured bodies: "json" (the
	// default) or "msgpack".
	Codec string
}

// Generate compiles every service of doc and returns the generated files
// sorted by path. Files are not written; call Render on each.
//
// Unless opts.FailFast is set, the files of services that compiled are
// returned together with the joined errors of those that did not.
func Generate(ctx context.Context, doc *definition.Document, opts Options) ([]*codegen.File, error) {
	if doc == nil {
		return nil, nil
	}
	if _, err := bindgen.Codec(opts.Codec).Expr(); err != nil {
		return nil, err
	}
	var (
		mu    sync.Mutex
		files []*codegen.File
		errs  []error
	)
	eg, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		eg.SetLimit(opts.Concurrency)
	}
	for i := range doc.Services {
		svc := &doc.Services[i]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			spec, err := bindgen.BuildServiceSpec(opts.GenPkg, bindgen.Codec(opts.Codec), doc, svc)
			if err != nil {
				if opts.FailFast {
					return err
				}
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			mu.Lock()
			files = append(files, bindgen.RenderContract(spec), bindgen.RenderBinding(spec))
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	sortErrors(errs)
	return files, errors.Join(errs...)
}

// sortErrors orders compile errors by service name so joined messages are
// stable across runs.
func sortErrors(errs []error) {
	sort.SliceStable(errs, func(i, j int) bool {
		var a, b *CompileError
		if !errors.As(errs[i], &a) || !errors.As(errs[j], &b) {
			return false
		}
		return a.Service < b.Service
	})
}
