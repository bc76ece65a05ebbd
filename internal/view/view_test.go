package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/b2b-catalog/internal/catalog"
	"github.com/Simplici0/b2b-catalog/internal/money"
)

func products() []catalog.Product {
	return []catalog.Product{
		{
			ID:          "1",
			Name:        "Cup A",
			Description: "Фарфор",
			Category:    "Mugs",
			Package:     "24 шт",
			Image:       "images/cup.jpg",
			Hit:         true,
			RRP:         150,
			Prices:      catalog.Tiers{UpTo200: 100, From200: 90, From500: 80, Container: 70},
			Economy:     catalog.Tiers{From200: 10, From500: 20, Container: 30},
			Margin:      catalog.Tiers{UpTo200: 33.3, From200: 40, From500: 46.7, Container: 53.3},
		},
		{
			ID:       "2",
			Name:     "Plate B",
			Category: "Plates",
			Prices:   catalog.Tiers{UpTo200: 50, From200: 45, From500: 45, Container: 45},
		},
	}
}

func TestApply(t *testing.T) {
	f := money.RUB()

	t.Run("GroupsAllWithoutFilter", func(t *testing.T) {
		c := Apply(products(), State{}, f)

		assert.False(t, c.Empty)
		assert.Equal(t, 2, c.Count)
		require.Len(t, c.Sections, 2)
		assert.Equal(t, "Mugs", c.Sections[0].Title)
		assert.Equal(t, "Plates", c.Sections[1].Title)
	})

	t.Run("TextFilter", func(t *testing.T) {
		c := Apply(products(), State{Query: "cup"}, f)

		require.Len(t, c.Sections, 1)
		require.Len(t, c.Sections[0].Cards, 1)
		assert.Equal(t, "Cup A", c.Sections[0].Cards[0].Name)
	})

	t.Run("EmptyState", func(t *testing.T) {
		c := Apply(products(), State{Query: "bowl"}, f)

		assert.True(t, c.Empty)
		assert.Zero(t, c.Count)
		assert.Empty(t, c.Sections)
	})
}

func TestBuildCard(t *testing.T) {
	f := money.RUB()
	c := Build(products(), State{}, f)

	cup := c.Sections[0].Cards[0]
	assert.Equal(t, "150,00\u00a0₽", cup.RRP)
	assert.Equal(t, "70,00\u00a0₽", cup.BestPrice)
	assert.True(t, cup.Hit)
	assert.True(t, cup.HasImage())
	require.Len(t, cup.Rows, 4)
	assert.Equal(t, PriceRow{Label: "до 200 шт", Price: "100,00\u00a0₽", Economy: "—", Margin: "33.3%"}, cup.Rows[0])
	assert.Equal(t, PriceRow{Label: "Контейнер", Price: "70,00\u00a0₽", Economy: "-30%", Margin: "53.3%", Best: true}, cup.Rows[3])

	plate := c.Sections[1].Cards[0]
	assert.Empty(t, plate.RRP, "rrp 0 must not be displayed")
	assert.False(t, plate.HasImage())
	best := make([]bool, 0, 4)
	for _, r := range plate.Rows {
		best = append(best, r.Best)
	}
	assert.Equal(t, []bool{false, true, true, true}, best)
}

func TestExpandCollapse(t *testing.T) {
	f := money.RUB()
	st := State{}

	st = st.Toggle("1")
	c := Build(products(), st, f)
	assert.True(t, c.Sections[0].Cards[0].Expanded)
	assert.False(t, c.Sections[1].Cards[0].Expanded)
	assert.Equal(t, catalog.ID(""), c.Sections[0].Cards[0].Toggle, "open card toggles to collapsed")
	assert.Equal(t, catalog.ID("2"), c.Sections[1].Cards[0].Toggle)

	st = st.Toggle("2")
	c = Build(products(), st, f)
	assert.False(t, c.Sections[0].Cards[0].Expanded, "expanding another card collapses the first")
	assert.True(t, c.Sections[1].Cards[0].Expanded)

	st = st.Toggle("2")
	c = Build(products(), st, f)
	for _, sec := range c.Sections {
		for _, card := range sec.Cards {
			assert.False(t, card.Expanded)
		}
	}
}
