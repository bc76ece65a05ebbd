package catalog

import (
	"context"
	"fmt"

	"github.com/Simplici0/b2b-catalog/internal/db"
)

// SQLiteSource reads a catalog snapshot written by the build tool.
type SQLiteSource struct {
	Path string
}

func (s SQLiteSource) Fetch(ctx context.Context) ([]Product, error) {
	database, err := db.OpenReadOnly(s.Path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	rows, err := database.QueryContext(ctx, `
		SELECT
			id, name, description, category, package, image, rrp, hit,
			price_up_to_200, price_from_200, price_from_500, price_container,
			economy_from_200, economy_from_500, economy_container,
			margin_up_to_200, margin_from_200, margin_from_500, margin_container,
			best_price
		FROM products
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		var id string
		if err := rows.Scan(
			&id, &p.Name, &p.Description, &p.Category, &p.Package, &p.Image, &p.RRP, &p.Hit,
			&p.Prices.UpTo200, &p.Prices.From200, &p.Prices.From500, &p.Prices.Container,
			&p.Economy.From200, &p.Economy.From500, &p.Economy.Container,
			&p.Margin.UpTo200, &p.Margin.From200, &p.Margin.From500, &p.Margin.Container,
			&p.BestPrice,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p.ID = ID(id)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}
