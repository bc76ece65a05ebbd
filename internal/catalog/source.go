package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrLoad marks every failure to obtain a usable catalog.
var ErrLoad = errors.New("catalog load failed")

// Source retrieves the raw product list.
type Source interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// Load fetches products from src and applies load-time defaults.
// On any failure it returns a nil slice and an error wrapping ErrLoad, never a partial catalog.
func Load(ctx context.Context, src Source) ([]Product, error) {
	products, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	assignMissingIDs(products)
	if err := validate(products); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return Normalize(products), nil
}

// assignMissingIDs gives records without an id their 1-based position.
func assignMissingIDs(products []Product) {
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = ID(strconv.Itoa(i + 1))
		}
	}
}

func validate(products []Product) error {
	seen := make(map[ID]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// Decode reads a JSON array of products.
func Decode(r io.Reader) ([]Product, error) {
	var products []Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	if products == nil {
		return nil, errors.New("decode products: document is not a product list")
	}
	return products, nil
}

// FileSource reads the catalog from a JSON document on disk.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// OpenSource picks a Source for location: http(s) URLs are fetched remotely,
// .db/.sqlite files are read as snapshots and everything else as a JSON document.
func OpenSource(location string) Source {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTPSource(location)
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite", ".sqlite3":
		return SQLiteSource{Path: location}
	default:
		return FileSource{Path: location}
	}
}
