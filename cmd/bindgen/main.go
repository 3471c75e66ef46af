package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"goa.design/clue/log"
	goa "goa.design/goa/v3/pkg"
)

// CLI is the bindgen command line.
type CLI struct {
	Debug bool `help:"Print debug information and timings." env:"BINDGEN_DEBUG"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     GenCmd     `cmd:"" help:"Generate client contracts and bindings from definition documents."`
	Plan    PlanCmd    `cmd:"" help:"Print the compiled call plan of every endpoint without writing files."`
}

// VersionCmd prints the version of the code generation toolchain.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("bindgen (goa " + goa.Version() + ")")
	return nil
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("bindgen"),
		kong.Description("bindgen compiles HTTP interface definitions into typed Go client bindings."),
		kong.UsageOnError(),
	)
	ctx := logContext(context.Background(), cli.Debug)
	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(); err != nil {
		log.Error(ctx, err)
		os.Exit(1)
	}
}

func logContext(ctx context.Context, debug bool) context.Context {
	opts := []log.LogOption{log.WithFormat(log.FormatTerminal), log.WithOutput(os.Stderr)}
	if debug {
		opts = append(opts, log.WithDebug())
	}
	return log.Context(ctx, opts...)
}
