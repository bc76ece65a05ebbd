package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Simplici0/b2b-catalog/internal/config"
	"github.com/Simplici0/b2b-catalog/internal/export"
	"github.com/Simplici0/b2b-catalog/internal/logx"
	"github.com/Simplici0/b2b-catalog/web"
)

const usage = `usage: catalogctl <command> [flags]

commands:
  build    convert the product sheet into the served data files
  export   write the printable catalog
  browse   search the catalog interactively from the terminal
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}
	logx.Init(cfg.Environment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "build":
		err = runBuild(ctx, args, os.Stdout)
	case "export":
		err = runExport(ctx, cfg, args, os.Stdout)
	case "browse":
		err = runBrowse(ctx, cfg, args, os.Stdin, os.Stdout)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		var exportErr *export.Error
		if errors.As(err, &exportErr) {
			fmt.Fprintln(os.Stderr, exportErr.Notice())
		}
		logx.Error().Err(err).Str("command", cmd).Msg("command failed")
		os.Exit(1)
	}
}

func newExporter(cfg config.Export) (*export.Exporter, error) {
	facility, err := export.FacilityFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return export.New(
		export.TempStage{Dir: cfg.StageDir},
		web.ExportEncoder{},
		facility,
		export.OptionsFromConfig(cfg),
		export.WithBaseHref(cfg.BaseHref),
	), nil
}

func newFlagSet(name string, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}
