package build

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/pricing"
)

var requiredColumns = []string{
	"image", "name", "description", "package",
	"price_200", "price_200_plus", "price_500_plus", "price_container",
}

// ReadCSV parses the product sheet. Product ids are 1-based row numbers and every
// derived field (economy, margin, best price) is computed here.
func ReadCSV(r io.Reader) ([]catalog.Product, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read csv header: file is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv column %q is missing", name)
		}
	}
	reader.FieldsPerRecord = len(header)

	products := make([]catalog.Product, 0)
	for n := 1; ; n++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", n, err)
		}

		p, err := parseRow(n, row{cols: cols, record: record})
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", n, err)
		}
		products = append(products, p)
	}

	return products, nil
}

type row struct {
	cols   map[string]int
	record []string
}

func (r row) text(name string) string {
	i, ok := r.cols[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r row) number(name string) (float64, error) {
	s := r.text(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func parseRow(n int, r row) (catalog.Product, error) {
	p := catalog.Product{
		ID:          catalog.ID(strconv.Itoa(n)),
		Image:       r.text("image"),
		Name:        r.text("name"),
		Description: r.text("description"),
		Package:     r.text("package"),
		Category:    r.text("category"),
		Hit:         strings.EqualFold(r.text("hit"), "yes"),
	}
	if p.Category == "" {
		p.Category = catalog.FallbackCategory
	}

	var err error
	if p.RRP, err = r.number("rrp"); err != nil {
		return catalog.Product{}, err
	}
	columns := [catalog.TierCount]string{"price_200", "price_200_plus", "price_500_plus", "price_container"}
	for i, t := range catalog.AllTiers {
		v, err := r.number(columns[i])
		if err != nil {
			return catalog.Product{}, err
		}
		p.Prices.Set(t, v)
	}

	Derive(&p)
	return p, nil
}

// Derive fills economy, margin and best price from the prices and the recommended retail price.
// Tiers without a price get no economy or margin.
// BestPrice is the plain minimum over all four prices, the way the data file has always carried it.
func Derive(p *catalog.Product) {
	base := p.Prices.UpTo200
	p.Economy = catalog.Tiers{}
	p.Margin = catalog.Tiers{}
	p.BestPrice = p.Prices.UpTo200
	for _, t := range catalog.AllTiers {
		price := p.Prices.At(t)
		p.BestPrice = min(p.BestPrice, price)
		if price <= 0 {
			continue
		}
		if t != catalog.UpTo200 {
			p.Economy.Set(t, pricing.Economy(base, price))
		}
		p.Margin.Set(t, pricing.Margin(p.RRP, price))
	}
}
