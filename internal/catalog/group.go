package catalog

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Group is a named bucket of products sharing a category label.
type Group struct {
	Label    string
	Products []Product
}

// GroupByCategory partitions products by category label. Groups appear in the order their
// category was first seen and products keep their relative input order.
func GroupByCategory(products []Product) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, p := range products {
		label := p.CategoryLabel()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// Categories returns the distinct category labels of products in alphabetical order.
// It is meant for the full, unfiltered catalog so selectors do not shrink while filtering.
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, p := range products {
		label := p.CategoryLabel()
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	collate.New(language.Russian).SortStrings(labels)
	return labels
}
