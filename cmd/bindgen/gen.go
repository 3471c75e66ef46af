package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"goa.design/clue/log"
	"golang.org/x/mod/modfile"

	"github.com/xeger/bindgen/definition"
	"github.com/xeger/bindgen/generator"
)

// DefinitionFlags are shared by the commands that compile definitions.
type DefinitionFlags struct {
	Definitions []string `arg:"" name:"definition" help:"Definition documents (YAML or JSON)." type:"existingfile"`
	GenPkg      string   `name:"gen-pkg" help:"Import path of the generated packages root. Defaults to the module path of the output directory plus /gen." env:"BINDGEN_GEN_PKG"`
	FailFast    bool     `name:"fail-fast" help:"Abort on the first service that fails to compile." env:"BINDGEN_FAIL_FAST"`
	Concurrency int      `help:"Maximum number of services compiled in parallel (0 for no limit)." default:"0" env:"BINDGEN_CONCURRENCY"`
	Codec       string   `help:"Runtime codec of structured bodies." enum:"json,msgpack" default:"json" env:"BINDGEN_CODEC"`
}

func (f *DefinitionFlags) options(output string) (generator.Options, error) {
	genpkg := f.GenPkg
	if genpkg == "" {
		var err error
		if genpkg, err = defaultGenPkg(output); err != nil {
			return generator.Options{}, err
		}
	}
	return generator.Options{GenPkg: genpkg, FailFast: f.FailFast, Concurrency: f.Concurrency, Codec: f.Codec}, nil
}

// GenCmd writes the contract and binding of every service.
type GenCmd struct {
	DefinitionFlags `embed:""`

	Output string `short:"o" help:"Output directory; files are written under its gen/ subdirectory." default:"." env:"BINDGEN_OUTPUT" type:"path"`
}

func (c *GenCmd) Run(ctx context.Context) error {
	files, err := generate(ctx, c.Definitions, c.Output, &c.DefinitionFlags)
	for _, f := range files {
		fmt.Println(f)
	}
	return err
}

// generate loads the definitions, compiles them and renders the resulting
// files below output. It returns the paths written. Compile errors of
// individual services do not prevent the other services from being written
// unless fail-fast is set.
func generate(ctx context.Context, defs []string, output string, flags *DefinitionFlags) ([]string, error) {
	startTotal := time.Now()

	startLoad := time.Now()
	doc, err := definition.LoadFiles(defs...)
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, log.KV{K: "step", V: "load"}, log.KV{K: "files", V: len(defs)}, log.KV{K: "took", V: time.Since(startLoad)})

	opts, err := flags.options(output)
	if err != nil {
		return nil, err
	}
	ctx = log.With(ctx, log.KV{K: "genpkg", V: opts.GenPkg})

	startGen := time.Now()
	files, genErr := generator.Generate(ctx, doc, opts)
	log.Debug(ctx, log.KV{K: "step", V: "compile"}, log.KV{K: "files", V: len(files)}, log.KV{K: "took", V: time.Since(startGen)})
	if genErr != nil && (opts.FailFast || len(files) == 0) {
		return nil, genErr
	}

	if err := os.RemoveAll(filepath.Join(output, "gen")); err != nil {
		return nil, err
	}
	startWrite := time.Now()
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path, err := f.Render(output)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", f.Path, err)
		}
		paths = append(paths, path)
	}
	log.Debug(ctx, log.KV{K: "step", V: "write"}, log.KV{K: "took", V: time.Since(startWrite)})
	log.Debug(ctx, log.KV{K: "step", V: "total"}, log.KV{K: "took", V: time.Since(startTotal)})
	return paths, genErr
}

// defaultGenPkg derives the import path of dir/gen from the nearest go.mod
// at or above dir.
func defaultGenPkg(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for root := abs; ; {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			mod := modfile.ModulePath(data)
			if mod == "" {
				return "", fmt.Errorf("%s: missing module directive", filepath.Join(root, "go.mod"))
			}
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mod + "/gen", nil
			}
			return mod + "/" + filepath.ToSlash(rel) + "/gen", nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(root)
		if parent == root {
			return "", fmt.Errorf("no go.mod found above %s; use --gen-pkg", abs)
		}
		root = parent
	}
}
