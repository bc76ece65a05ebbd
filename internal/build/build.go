// Package build turns the product spreadsheet into the files the catalog is served from.
package build

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/db"
	"github.com/Simplici0/b2b-catalog/internal/logx"
	"github.com/Simplici0/b2b-catalog/internal/migrations"
)

// Options selects the inputs and outputs of a build.
type Options struct {
	CSVPath string
	OutDir  string

	// Snapshot is the path of the optional SQLite snapshot. Empty skips it.
	Snapshot string

	Placeholders bool
	Icons        bool
}

// DefaultOptions reads data/products.csv and writes into dist.
func DefaultOptions() Options {
	return Options{
		CSVPath:      filepath.Join("data", "products.csv"),
		OutDir:       "dist",
		Placeholders: true,
		Icons:        true,
	}
}

// Summary describes a finished build.
type Summary struct {
	Products     int
	Categories   int
	JSONPath     string
	Placeholders int
	Snapshot     *Stats
}

func (s Summary) String() string {
	return fmt.Sprintf("%d products, %d categories", s.Products, s.Categories)
}

// WriteJSON writes products as an indented JSON array, keeping non-ASCII text as is.
func WriteJSON(w io.Writer, products []catalog.Product) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(products); err != nil {
		return fmt.Errorf("encode products: %w", err)
	}
	return nil
}

// Run executes every build step in order and stops at the first failure.
func Run(ctx context.Context, opts Options) (Summary, error) {
	products, err := readProducts(opts.CSVPath)
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory: %w", err)
	}

	summary := Summary{
		Products:   len(products),
		Categories: len(catalog.Categories(products)),
		JSONPath:   filepath.Join(opts.OutDir, "products.json"),
	}

	if err := writeJSONFile(summary.JSONPath, products); err != nil {
		return Summary{}, err
	}
	logx.Info().Str("path", summary.JSONPath).Int("products", summary.Products).Int("categories", summary.Categories).Msg("catalog data written")

	if opts.Snapshot != "" {
		stats, err := writeSnapshotFile(ctx, opts.Snapshot, products)
		if err != nil {
			return Summary{}, err
		}
		summary.Snapshot = &stats
		logx.Info().Str("path", opts.Snapshot).Int("inserts", stats.Inserts).Int("updates", stats.Updates).Int("deletes", stats.Deletes).Msg("catalog snapshot written")
	}

	if opts.Placeholders {
		n, err := WritePlaceholders(opts.OutDir, products)
		if err != nil {
			return Summary{}, err
		}
		summary.Placeholders = n
		logx.Debug().Int("images", n).Msg("placeholder images generated")
	}

	if opts.Icons {
		if err := WriteIcons(opts.OutDir); err != nil {
			return Summary{}, err
		}
		logx.Debug().Msg("app icons generated")
	}

	return summary, nil
}

func readProducts(path string) ([]catalog.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open product sheet: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

func writeJSONFile(path string, products []catalog.Product) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".products-*.json")
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod data file: %w", err)
	}
	if err := WriteJSON(tmp, products); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close data file: %w", err)
	}
	// the server may be reading the previous file while it is replaced
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func writeSnapshotFile(ctx context.Context, path string, products []catalog.Product) (Stats, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	database, err := db.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer database.Close()
	// journal mode can only be switched back on the sole open connection
	database.SetMaxOpenConns(1)

	if err := migrations.Up(database); err != nil {
		return Stats{}, err
	}

	stats, err := WriteSnapshot(ctx, database, products)
	if err != nil {
		return Stats{}, err
	}

	if err := db.Detach(database); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
