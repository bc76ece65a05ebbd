package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/config"
	"github.com/Simplici0/b2b-catalog/internal/export"
	"github.com/Simplici0/b2b-catalog/internal/termview"
	"github.com/Simplici0/b2b-catalog/internal/view"
	"github.com/Simplici0/b2b-catalog/internal/viewer"
)

type commandKind int

const (
	cmdSearch commandKind = iota
	cmdCategory
	cmdToggle
	cmdExport
	cmdQuit
)

type command struct {
	kind commandKind
	arg  string
}

// parseCommand reads one input line. Lines starting with a colon are commands,
// anything else is search text.
func parseCommand(line string) (command, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, ":") {
		return command{kind: cmdSearch, arg: line}, nil
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "cat":
		return command{kind: cmdCategory, arg: arg}, nil
	case "open":
		if arg == "" {
			return command{}, errors.New(":open needs a product id")
		}
		return command{kind: cmdToggle, arg: arg}, nil
	case "export":
		return command{kind: cmdExport}, nil
	case "q", "quit":
		return command{kind: cmdQuit}, nil
	default:
		return command{}, fmt.Errorf("unknown command :%s", name)
	}
}

// console serializes writes from the session and the command loop.
type console struct {
	mu  sync.Mutex
	out io.Writer
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) render(v view.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = termview.Write(c.out, v)
}

func (c *console) categories(categories []string, active string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = termview.WriteCategories(c.out, categories, active)
}

func runBrowse(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := newFlagSet("browse", stdout)
	source := fs.String(sourceFlag, cfg.DataSource, "catalog data file, snapshot or URL")
	out := fs.StringP(outFlag, "o", ".", "directory to write exports into")
	if err := fs.Parse(args); err != nil {
		return err
	}

	con := &console{out: stdout}

	products, err := catalog.Load(ctx, catalog.OpenSource(*source))
	if err != nil {
		con.printf("%s\n", view.LoadErrorMessage)
		return err
	}
	exporter, err := newExporter(cfg.Export)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := viewer.New(products, con.render, viewer.WithDebounce(cfg.Debounce))
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx) }()

	var exports sync.WaitGroup
	finish := func() error {
		exports.Wait()
		cancel()
		return waitSession(done)
	}

	con.categories(catalog.Categories(products), "")

	lines := readLines(stdin)
	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return finish()
		case line, ok = <-lines:
		}
		if !ok {
			return finish()
		}

		cmd, err := parseCommand(line)
		if err != nil {
			con.printf("%v\n", err)
			continue
		}

		switch cmd.kind {
		case cmdSearch:
			err = session.Input(cmd.arg)
		case cmdCategory:
			if err = session.SelectCategory(cmd.arg); err == nil {
				var snap viewer.Snapshot
				if snap, err = session.Snapshot(ctx); err == nil {
					con.categories(snap.Categories, snap.State.Category)
				}
			}
		case cmdToggle:
			err = session.Toggle(catalog.ID(cmd.arg))
		case cmdExport:
			exports.Add(1)
			go func() {
				defer exports.Done()
				runSessionExport(ctx, session, exporter, *out, con)
			}()
		case cmdQuit:
			return finish()
		}
		if err != nil {
			_ = finish()
			return err
		}
	}
}

func runSessionExport(ctx context.Context, session *viewer.Session, exporter *export.Exporter, dir string, con *console) {
	snap, err := session.Snapshot(ctx)
	if err != nil {
		return
	}

	res, err := exporter.Export(ctx, snap.Products)
	var exportErr *export.Error
	switch {
	case errors.Is(err, export.ErrInProgress):
		con.printf("%s\n", export.BusyNotice)
		return
	case errors.As(err, &exportErr):
		con.printf("%s\n", exportErr.Notice())
		return
	case err != nil:
		con.printf("%s\n", export.Notice)
		return
	}

	path := filepath.Join(dir, res.Filename)
	if err := os.WriteFile(path, res.Body, 0o644); err != nil {
		con.printf("%s\n", export.Notice)
		return
	}
	con.printf("exported -> %s\n", path)
}

func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func waitSession(done <-chan error) error {
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
