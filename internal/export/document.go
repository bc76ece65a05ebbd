package export

import (
	"fmt"
	"html/template"
	"time"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/money"
	"github.com/Simplici0/b2b-catalog/internal/pricing"
)

const (
	Title    = "Оптовый каталог"
	BestMark = " ★"
)

// Document is a self-contained, printable rendition of the whole catalog.
type Document struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Total       int
	Sections    []Section
	Options     Options

	// BaseHref resolves relative image paths when the document is rendered outside the site.
	BaseHref template.URL
}

// Section is one category of the document.
type Section struct {
	Title  string
	Blocks []Block
}

// Block describes one product.
type Block struct {
	Name        string
	Description string
	Package     string
	RRP         string
	Image       string
	Hit         bool
	Rows        []Row
}

// Row is one tier line. Best rows carry the star marker in Price.
type Row struct {
	Label   string
	Price   string
	Economy string
	Margin  string
	Best    bool
}

// BuildDocument renders all products, ignoring any active filters.
func BuildDocument(products []catalog.Product, now time.Time, f money.Formatter) Document {
	groups := catalog.GroupByCategory(products)

	doc := Document{
		Title:       Title,
		Subtitle:    fmt.Sprintf("Актуально на: %s · %d товаров", now.Format("02.01.2006"), len(products)),
		GeneratedAt: now,
		Total:       len(products),
		Sections:    make([]Section, 0, len(groups)),
	}

	for _, g := range groups {
		sec := Section{Title: g.Label, Blocks: make([]Block, 0, len(g.Products))}
		for _, p := range g.Products {
			sec.Blocks = append(sec.Blocks, buildBlock(p, f))
		}
		doc.Sections = append(doc.Sections, sec)
	}
	return doc
}

func buildBlock(p catalog.Product, f money.Formatter) Block {
	b := Block{
		Name:        p.Name,
		Description: p.Description,
		Package:     p.Package,
		Image:       p.Image,
		Hit:         p.Hit,
	}
	if p.RRP > 0 {
		b.RRP = f.Format(p.RRP)
	}

	for _, r := range pricing.Rows(p) {
		row := Row{
			Label:   r.Label,
			Price:   f.Price(r.Price),
			Economy: r.EconomyText(),
			Margin:  r.MarginText(),
			Best:    r.Best,
		}
		if r.Best {
			row.Price += BestMark
		}
		b.Rows = append(b.Rows, row)
	}
	return b
}

func baseHref(href string) template.URL {
	// Operator-configured value, not user input.
	return template.URL(href)
}
