package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
)

func bestTiers(rows [catalog.TierCount]Row) []catalog.Tier {
	out := make([]catalog.Tier, 0)
	for _, r := range rows {
		if r.Best {
			out = append(out, r.Tier)
		}
	}
	return out
}

func TestRows_FixedOrderAndLabels(t *testing.T) {
	rows := Rows(catalog.Product{Prices: catalog.Tiers{UpTo200: 100, From200: 90, From500: 80, Container: 70}})

	require.Len(t, rows, catalog.TierCount)
	assert.Equal(t, catalog.UpTo200, rows[0].Tier)
	assert.Equal(t, catalog.From200, rows[1].Tier)
	assert.Equal(t, catalog.From500, rows[2].Tier)
	assert.Equal(t, catalog.Container, rows[3].Tier)
	assert.Equal(t, "до 200 шт", rows[0].Label)
	assert.Equal(t, "Контейнер", rows[3].Label)
	assert.Equal(t, []catalog.Tier{catalog.Container}, bestTiers(rows))
}

func TestRows_BestPrice(t *testing.T) {
	tests := []struct {
		name   string
		prices catalog.Tiers
		best   []catalog.Tier
	}{
		{
			name:   "ThreeWayTie",
			prices: catalog.Tiers{UpTo200: 50, From200: 45, From500: 45, Container: 45},
			best:   []catalog.Tier{catalog.From200, catalog.From500, catalog.Container},
		},
		{
			name:   "FirstTierCheapest",
			prices: catalog.Tiers{UpTo200: 10, From200: 12, From500: 14, Container: 16},
			best:   []catalog.Tier{catalog.UpTo200},
		},
		{
			name:   "AbsentTiersIgnored",
			prices: catalog.Tiers{UpTo200: 30, From200: 25, From500: 0, Container: 0},
			best:   []catalog.Tier{catalog.From200},
		},
		{
			name:   "NothingOffered",
			prices: catalog.Tiers{},
			best:   []catalog.Tier{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Rows(catalog.Product{Prices: tt.prices})
			assert.Equal(t, tt.best, bestTiers(rows))
		})
	}
}

func TestRows_IgnoresInputBestPrice(t *testing.T) {
	p := catalog.Product{
		Prices:    catalog.Tiers{UpTo200: 100, From200: 90, From500: 80, Container: 70},
		BestPrice: 100,
	}

	assert.Equal(t, []catalog.Tier{catalog.Container}, bestTiers(Rows(p)))
}

func TestRows_FirstTierEconomyAlwaysPlaceholder(t *testing.T) {
	p := catalog.Product{
		Prices:  catalog.Tiers{UpTo200: 100, From200: 90, From500: 80, Container: 70},
		Economy: catalog.Tiers{UpTo200: 99, From200: 10, From500: 20, Container: 0},
		Margin:  catalog.Tiers{UpTo200: 33.3, From200: 0, From500: 46.7, Container: -5},
	}

	rows := Rows(p)

	assert.Zero(t, rows[0].Economy)
	assert.Equal(t, Placeholder, rows[0].EconomyText())
	assert.Equal(t, "-10%", rows[1].EconomyText())
	assert.Equal(t, "-20%", rows[2].EconomyText())
	assert.Equal(t, Placeholder, rows[3].EconomyText())

	assert.Equal(t, "33.3%", rows[0].MarginText())
	assert.Equal(t, Placeholder, rows[1].MarginText())
	assert.Equal(t, "46.7%", rows[2].MarginText())
	assert.Equal(t, Placeholder, rows[3].MarginText())
}

func TestRows_TierWithoutPriceHasNoEconomyOrMargin(t *testing.T) {
	p := catalog.Product{
		RRP:     200,
		Prices:  catalog.Tiers{UpTo200: 100, From200: 90, From500: 80, Container: 0},
		Economy: catalog.Tiers{From200: 10, From500: 20, Container: 100},
		Margin:  catalog.Tiers{UpTo200: 50, From200: 55, From500: 60, Container: 100},
	}

	container := Rows(p)[catalog.Container]

	assert.False(t, container.Offered())
	assert.False(t, container.Best)
	assert.Zero(t, container.Economy)
	assert.Zero(t, container.Margin)
	assert.Equal(t, Placeholder, container.EconomyText())
	assert.Equal(t, Placeholder, container.MarginText())
}

func TestBestPrice(t *testing.T) {
	best, ok := BestPrice(catalog.Product{Prices: catalog.Tiers{UpTo200: 50, From200: 45, Container: 47}})
	require.True(t, ok)
	assert.Equal(t, 45.0, best)

	_, ok = BestPrice(catalog.Product{})
	assert.False(t, ok)
}

func TestEconomyAndMargin(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float64, float64) float64
		ref  float64
		v    float64
		want float64
	}{
		{name: "EconomyWhole", fn: Economy, ref: 100, v: 90, want: 10},
		{name: "EconomyRounded", fn: Economy, ref: 120, v: 100, want: 16.7},
		{name: "EconomyNoBase", fn: Economy, ref: 0, v: 90, want: 0},
		{name: "MarginRounded", fn: Margin, ref: 150, v: 100, want: 33.3},
		{name: "MarginNegative", fn: Margin, ref: 100, v: 110, want: -10},
		{name: "MarginNoRRP", fn: Margin, ref: 0, v: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.fn(tt.ref, tt.v), 1e-9)
		})
	}
}
