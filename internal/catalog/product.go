package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FallbackCategory labels products whose category is absent or empty.
const FallbackCategory = "Без категории"

// ID is an opaque product identifier. The data file may carry it as a JSON number or string.
type ID string

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode product id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode product id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Tier is one of the four fixed purchase-quantity brackets.
type Tier int

const (
	UpTo200 Tier = iota
	From200
	From500
	Container
)

// TierCount is the number of tiers every product carries.
const TierCount = 4

// AllTiers lists the tiers in display order.
var AllTiers = [TierCount]Tier{UpTo200, From200, From500, Container}

// Key returns the data file field name of the tier.
func (t Tier) Key() string {
	switch t {
	case UpTo200:
		return "upTo200"
	case From200:
		return "from200"
	case From500:
		return "from500"
	case Container:
		return "container"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Tiers holds one value per tier. A zero value means the tier is absent.
type Tiers struct {
	UpTo200   float64 `json:"upTo200"`
	From200   float64 `json:"from200"`
	From500   float64 `json:"from500"`
	Container float64 `json:"container"`
}

// At returns the value stored for t.
func (ts Tiers) At(t Tier) float64 {
	switch t {
	case UpTo200:
		return ts.UpTo200
	case From200:
		return ts.From200
	case From500:
		return ts.From500
	case Container:
		return ts.Container
	default:
		return 0
	}
}

// Set stores v for t.
func (ts *Tiers) Set(t Tier, v float64) {
	switch t {
	case UpTo200:
		ts.UpTo200 = v
	case From200:
		ts.From200 = v
	case From500:
		ts.From500 = v
	case Container:
		ts.Container = v
	}
}

// Product is a single catalog entry. Products are immutable once a catalog is loaded.
type Product struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Package     string  `json:"package,omitempty"`
	Image       string  `json:"image,omitempty"`
	RRP         float64 `json:"rrp,omitempty"`
	Hit         bool    `json:"hit"`
	Prices      Tiers   `json:"prices"`
	Economy     Tiers   `json:"economy"`
	Margin      Tiers   `json:"margin"`

	// BestPrice is carried through from the data file for compatibility only.
	// Highlighting always uses the value derived by the pricing package.
	BestPrice float64 `json:"bestPrice"`
}

// CategoryLabel returns the category or FallbackCategory when it is empty.
func (p Product) CategoryLabel() string {
	if p.Category == "" {
		return FallbackCategory
	}
	return p.Category
}

// Normalize applies load-time defaults: the fallback category label.
func Normalize(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		p.Category = p.CategoryLabel()
		out[i] = p
	}
	return out
}
