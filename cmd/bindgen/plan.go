package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bndr/gotabulate"
	"goa.design/clue/log"

	"github.com/xeger/bindgen/definition"
	"github.com/xeger/bindgen/generator"
)

var planHeaders = []string{"ENDPOINT", "METHOD", "PATH", "REQUEST", "STEPS", "BODY", "RESPONSE"}

// PlanCmd prints how each endpoint would be compiled.
type PlanCmd struct {
	DefinitionFlags `embed:""`

	Format string `help:"Table format." enum:"grid,simple,plain" default:"grid"`
}

func (c *PlanCmd) Run(ctx context.Context) error {
	return plan(ctx, os.Stdout, &c.DefinitionFlags, c.Format)
}

func plan(ctx context.Context, w io.Writer, flags *DefinitionFlags, format string) error {
	doc, err := definition.LoadFiles(flags.Definitions...)
	if err != nil {
		return err
	}
	opts := generator.Options{GenPkg: flags.GenPkg, FailFast: flags.FailFast, Codec: flags.Codec}
	if opts.GenPkg == "" {
		opts.GenPkg = "gen"
	}
	sums, err := generator.Summarize(doc, opts)
	if err != nil {
		if opts.FailFast || len(sums) == 0 {
			return err
		}
		log.Error(ctx, err, log.KV{K: "msg", V: "some endpoints failed to compile"})
	}
	if len(sums) == 0 {
		return nil
	}
	_, werr := fmt.Fprint(w, planTable(sums, format))
	if werr != nil {
		return werr
	}
	return err
}

func planTable(sums []generator.EndpointSummary, format string) string {
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		steps := "-"
		if len(s.Steps) > 0 {
			steps = strings.Join(s.Steps, ", ")
		}
		rows = append(rows, []string{
			s.Service + "." + s.Endpoint,
			s.Method,
			s.Path,
			s.Serializer,
			steps,
			s.Body,
			s.Deserializer,
		})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(planHeaders)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(60)
	return t.Render(format)
}
