package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Query holds the active filter predicates. Zero values match everything.
type Query struct {
	Text     string
	Category string
}

// Filter returns the products whose name contains q.Text case-insensitively and whose category
// equals q.Category. The input slice is never modified.
func Filter(products []Product, q Query) []Product {
	fold := cases.Fold()
	text := fold.String(strings.TrimSpace(q.Text))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if text != "" && !strings.Contains(fold.String(p.Name), text) {
			continue
		}
		if q.Category != "" && p.CategoryLabel() != q.Category {
			continue
		}
		out = append(out, p)
	}
	return out
}
