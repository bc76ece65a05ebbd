package build

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
)

// Stats contains snapshot write counters.
type Stats struct {
	Inserts int
	Updates int
	Deletes int
}

// WriteSnapshot makes the products table mirror products in one transaction.
// Rewriting the same list twice leaves the table unchanged and reports no inserts.
func WriteSnapshot(ctx context.Context, db *sql.DB, products []catalog.Product) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin snapshot transaction: %w", err)
	}

	stats, err := writeSnapshot(ctx, tx, products)
	if err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit snapshot transaction: %w", err)
	}

	return stats, nil
}

func writeSnapshot(ctx context.Context, tx *sql.Tx, products []catalog.Product) (Stats, error) {
	existing, err := existingIDs(ctx, tx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	for i, p := range products {
		if err := upsertProduct(ctx, tx, i, p); err != nil {
			return Stats{}, err
		}
		if _, ok := existing[p.ID.String()]; ok {
			stats.Updates++
			delete(existing, p.ID.String())
		} else {
			stats.Inserts++
		}
	}

	for id := range existing {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
			return Stats{}, fmt.Errorf("delete stale product %s: %w", id, err)
		}
		stats.Deletes++
	}

	return stats, nil
}

func existingIDs(ctx context.Context, tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM products`)
	if err != nil {
		return nil, fmt.Errorf("query product ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product ids: %w", err)
	}
	return ids, nil
}

func upsertProduct(ctx context.Context, tx *sql.Tx, position int, p catalog.Product) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO products (
			id, position, name, description, category, package, image, rrp, hit,
			price_up_to_200, price_from_200, price_from_500, price_container,
			economy_from_200, economy_from_500, economy_container,
			margin_up_to_200, margin_from_200, margin_from_500, margin_container,
			best_price
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			position = excluded.position,
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			package = excluded.package,
			image = excluded.image,
			rrp = excluded.rrp,
			hit = excluded.hit,
			price_up_to_200 = excluded.price_up_to_200,
			price_from_200 = excluded.price_from_200,
			price_from_500 = excluded.price_from_500,
			price_container = excluded.price_container,
			economy_from_200 = excluded.economy_from_200,
			economy_from_500 = excluded.economy_from_500,
			economy_container = excluded.economy_container,
			margin_up_to_200 = excluded.margin_up_to_200,
			margin_from_200 = excluded.margin_from_200,
			margin_from_500 = excluded.margin_from_500,
			margin_container = excluded.margin_container,
			best_price = excluded.best_price
	`,
		p.ID.String(), position, p.Name, p.Description, p.Category, p.Package, p.Image, p.RRP, p.Hit,
		p.Prices.UpTo200, p.Prices.From200, p.Prices.From500, p.Prices.Container,
		p.Economy.From200, p.Economy.From500, p.Economy.Container,
		p.Margin.UpTo200, p.Margin.From200, p.Margin.From500, p.Margin.Container,
		p.BestPrice,
	); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}
