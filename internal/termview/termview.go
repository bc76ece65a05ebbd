// Package termview renders the catalog view as plain text for terminals.
package termview

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Simplici0/b2b-catalog/internal/view"
)

// Write renders c to w. Collapsed cards take one line, the expanded card adds its price table.
func Write(w io.Writer, c view.Catalog) error {
	if c.Empty {
		_, err := fmt.Fprintln(w, view.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sec := range c.Sections {
		fmt.Fprintf(tw, "\n== %s ==\n", sec.Title)
		for _, card := range sec.Cards {
			writeCard(tw, card)
		}
	}
	fmt.Fprintf(tw, "\n%d\n", c.Count)
	return tw.Flush()
}

func writeCard(w io.Writer, card view.Card) {
	marker := "+"
	if card.Expanded {
		marker = "-"
	}
	name := card.Name
	if card.Hit {
		name += " [" + view.HitBadge + "]"
	}
	fmt.Fprintf(w, "%s [%s]\t%s\t%s\n", marker, card.ID, name, card.BestPrice)
	if !card.Expanded {
		return
	}

	if card.Description != "" {
		fmt.Fprintf(w, "\t%s\n", card.Description)
	}
	if card.Package != "" {
		fmt.Fprintf(w, "\tУпаковка: %s\n", card.Package)
	}
	if card.RRP != "" {
		fmt.Fprintf(w, "\tРРЦ: %s\n", card.RRP)
	}
	fmt.Fprintf(w, "\tТираж\tЦена\tЭкономия\tМаржа\t\n")
	for _, r := range card.Rows {
		price := r.Price
		if r.Best {
			price += " " + view.BestBadge
		}
		fmt.Fprintf(w, "\t%s\t%s\t%s\t%s\t\n", r.Label, price, r.Economy, r.Margin)
	}
}

// WriteCategories lists the category choices, marking the active one.
func WriteCategories(w io.Writer, categories []string, active string) error {
	items := make([]string, 0, len(categories)+1)
	all := "Все"
	if active == "" {
		all = "*" + all
	}
	items = append(items, all)
	for _, c := range categories {
		if c == active {
			c = "*" + c
		}
		items = append(items, c)
	}
	_, err := fmt.Fprintln(w, strings.Join(items, " | "))
	return err
}
