package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Simplici0/b2b-catalog/internal/build"
)

const (
	csvFlag            = "csv"
	outFlag            = "out"
	snapshotFlag       = "snapshot"
	noPlaceholdersFlag = "no-placeholders"
	noIconsFlag        = "no-icons"
)

func runBuild(ctx context.Context, args []string, stdout io.Writer) error {
	opts := build.DefaultOptions()

	fs := newFlagSet("build", stdout)
	fs.StringVarP(&opts.CSVPath, csvFlag, "c", opts.CSVPath, "product sheet to read")
	fs.StringVarP(&opts.OutDir, outFlag, "o", opts.OutDir, "directory to write the data files into")
	fs.StringVarP(&opts.Snapshot, snapshotFlag, "s", "", "also write a SQLite snapshot to this path")
	noPlaceholders := fs.Bool(noPlaceholdersFlag, false, "skip placeholder images")
	noIcons := fs.Bool(noIconsFlag, false, "skip app icons")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.Placeholders = !*noPlaceholders
	opts.Icons = !*noIcons

	summary, err := build.Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s -> %s\n", summary, summary.JSONPath)
	if summary.Snapshot != nil {
		fmt.Fprintf(stdout, "snapshot: %d inserted, %d updated, %d deleted -> %s\n",
			summary.Snapshot.Inserts, summary.Snapshot.Updates, summary.Snapshot.Deletes, opts.Snapshot)
	}
	if opts.Placeholders {
		fmt.Fprintf(stdout, "%d placeholder images generated\n", summary.Placeholders)
	}
	return nil
}
