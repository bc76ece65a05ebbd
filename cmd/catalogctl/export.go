package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/config"
)

const sourceFlag = "source"

func runExport(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("export", stdout)
	source := fs.String(sourceFlag, cfg.DataSource, "catalog data file, snapshot or URL")
	out := fs.StringP(outFlag, "o", ".", "directory to write the export into")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := catalog.Load(ctx, catalog.OpenSource(*source))
	if err != nil {
		return err
	}

	exporter, err := newExporter(cfg.Export)
	if err != nil {
		return err
	}
	res, err := exporter.Export(ctx, products)
	if err != nil {
		return err
	}

	path := filepath.Join(*out, res.Filename)
	if err := os.WriteFile(path, res.Body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(stdout, "%d products in %d sections -> %s\n", res.Products, res.Sections, path)
	return nil
}
