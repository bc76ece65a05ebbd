// Package view builds the presentation-independent view-model of the interactive catalog.
package view

import (
	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/money"
	"github.com/Simplici0/b2b-catalog/internal/pricing"
)

const (
	// LoadErrorMessage replaces the catalog when the data file cannot be loaded.
	LoadErrorMessage = "Не удалось загрузить каталог."
	// EmptyMessage is shown when no product matches the active filters.
	EmptyMessage = "Ничего не найдено"
	// HitBadge marks featured products.
	HitBadge = "Хит продаж"
	// BestBadge marks the best-priced tier rows.
	BestBadge = "Выгодно"
)

// State is the user-controlled part of the interactive view.
type State struct {
	Query    string     `json:"query"`
	Category string     `json:"category"`
	Expanded catalog.ID `json:"expanded,omitempty"`
}

// Filter returns the filter predicates of the state.
func (s State) Filter() catalog.Query {
	return catalog.Query{Text: s.Query, Category: s.Category}
}

// Toggle expands the card id, collapsing any other one. Toggling the expanded card collapses it.
func (s State) Toggle(id catalog.ID) State {
	if s.Expanded == id {
		s.Expanded = ""
	} else {
		s.Expanded = id
	}
	return s
}

// Catalog is the full on-screen view.
type Catalog struct {
	Empty    bool      `json:"empty"`
	Count    int       `json:"count"`
	Sections []Section `json:"sections"`
}

// Section is one category heading with its cards.
type Section struct {
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// Card is one product. Collapsed cards show only the image, name and best price.
type Card struct {
	ID          catalog.ID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Package     string     `json:"package,omitempty"`
	RRP         string     `json:"rrp,omitempty"`
	Image       string     `json:"image,omitempty"`
	Hit         bool       `json:"hit"`
	BestPrice   string     `json:"bestPrice"`
	Expanded    bool       `json:"expanded"`
	Toggle      catalog.ID `json:"toggle"`
	Rows        []PriceRow `json:"rows"`
}

// HasImage reports whether the card has an image to show instead of the placeholder.
func (c Card) HasImage() bool {
	return c.Image != ""
}

// PriceRow is one tier line of the price table, already formatted.
type PriceRow struct {
	Label   string `json:"label"`
	Price   string `json:"price"`
	Economy string `json:"economy"`
	Margin  string `json:"margin"`
	Best    bool   `json:"best"`
}

// Apply filters the full product list by st and builds the view.
func Apply(all []catalog.Product, st State, f money.Formatter) Catalog {
	return Build(catalog.Filter(all, st.Filter()), st, f)
}

// Build renders an already filtered product list. An empty list yields the empty state
// with no sections.
func Build(products []catalog.Product, st State, f money.Formatter) Catalog {
	if len(products) == 0 {
		return Catalog{Empty: true, Sections: []Section{}}
	}

	groups := catalog.GroupByCategory(products)
	c := Catalog{Count: len(products), Sections: make([]Section, 0, len(groups))}
	for _, g := range groups {
		sec := Section{Title: g.Label, Cards: make([]Card, 0, len(g.Products))}
		for _, p := range g.Products {
			sec.Cards = append(sec.Cards, buildCard(p, st, f))
		}
		c.Sections = append(c.Sections, sec)
	}
	return c
}

func buildCard(p catalog.Product, st State, f money.Formatter) Card {
	card := Card{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Package:     p.Package,
		Image:       p.Image,
		Hit:         p.Hit,
		Expanded:    st.Expanded == p.ID,
		Toggle:      st.Toggle(p.ID).Expanded,
		BestPrice:   money.Placeholder,
	}
	if p.RRP > 0 {
		card.RRP = f.Format(p.RRP)
	}
	if best, ok := pricing.BestPrice(p); ok {
		card.BestPrice = f.Format(best)
	}

	rows := pricing.Rows(p)
	card.Rows = make([]PriceRow, 0, len(rows))
	for _, r := range rows {
		card.Rows = append(card.Rows, PriceRow{
			Label:   r.Label,
			Price:   f.Price(r.Price),
			Economy: r.EconomyText(),
			Margin:  r.MarginText(),
			Best:    r.Best,
		})
	}
	return card
}
