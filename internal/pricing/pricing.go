package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
)

// Placeholder is shown for values that are absent or not applicable.
const Placeholder = "—"

var tierLabels = [catalog.TierCount]string{
	catalog.UpTo200:   "до 200 шт",
	catalog.From200:   "от 200 шт",
	catalog.From500:   "от 500 шт",
	catalog.Container: "Контейнер",
}

// Label returns the display label of a tier.
func Label(t catalog.Tier) string {
	if t < 0 || int(t) >= len(tierLabels) {
		return t.Key()
	}
	return tierLabels[t]
}

// Row is the pricing of one tier of one product.
type Row struct {
	Tier    catalog.Tier
	Label   string
	Price   float64
	Economy float64
	Margin  float64
	Best    bool
}

// Offered reports whether the tier has a price.
func (r Row) Offered() bool {
	return r.Price > 0
}

// EconomyText renders the discount as "-12.5%" or the placeholder.
func (r Row) EconomyText() string {
	if r.Economy <= 0 {
		return Placeholder
	}
	return "-" + percent(r.Economy)
}

// MarginText renders the margin as "23.4%" or the placeholder.
func (r Row) MarginText() string {
	if r.Margin <= 0 {
		return Placeholder
	}
	return percent(r.Margin)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// BestPrice returns the lowest offered tier price of p.
// ok is false when no tier is offered.
func BestPrice(p catalog.Product) (best float64, ok bool) {
	for _, t := range catalog.AllTiers {
		price := p.Prices.At(t)
		if price <= 0 {
			continue
		}
		if !ok || price < best {
			best, ok = price, true
		}
	}
	return best, ok
}

// Rows computes the four tier rows of p in fixed order. Every offered tier whose price equals
// the derived best price is marked best, so ties mark several rows.
// The first tier never carries an economy value and tiers that are not offered carry neither
// economy nor margin.
func Rows(p catalog.Product) [catalog.TierCount]Row {
	best, hasBest := BestPrice(p)

	var rows [catalog.TierCount]Row
	for i, t := range catalog.AllTiers {
		row := Row{
			Tier:    t,
			Label:   Label(t),
			Price:   p.Prices.At(t),
			Economy: p.Economy.At(t),
			Margin:  p.Margin.At(t),
		}
		if t == catalog.UpTo200 {
			row.Economy = 0
		}
		if !row.Offered() {
			row.Economy, row.Margin = 0, 0
		}
		row.Best = hasBest && row.Offered() && row.Price == best
		rows[i] = row
	}
	return rows
}

var hundred = decimal.NewFromInt(100)

// Economy is the discount of price relative to base in percent, rounded to one decimal.
func Economy(base, price float64) float64 {
	return ratio(base, price)
}

// Margin is the share of rrp left after paying price, in percent, rounded to one decimal.
func Margin(rrp, price float64) float64 {
	return ratio(rrp, price)
}

func ratio(reference, price float64) float64 {
	if reference <= 0 {
		return 0
	}
	ref := decimal.NewFromFloat(reference)
	v, _ := ref.Sub(decimal.NewFromFloat(price)).Div(ref).Mul(hundred).Round(1).Float64()
	return v
}
