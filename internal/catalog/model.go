package catalog

import "github.com/shopspring/decimal"

// Price goes over the wire as a bare JSON number (25.5). Decoding accepts a
// number or a numeric string.
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

type Product struct {
	ID         int    `json:"id"`
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Price      Price  `json:"price"`
}

type Category struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// CategorySummary is the list view of a category; it never carries products.
type CategorySummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CategoryPatch is a category body as submitted to PUT. Nil fields were absent
// from the body and leave the stored value alone.
type CategoryPatch struct {
	ID       int        `json:"id"`
	Name     *string    `json:"name"`
	Products *[]Product `json:"products"`
}

func (c Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name}
}

func (c Category) clone() Category {
	c.Products = cloneProducts(c.Products)
	return c
}

func cloneProducts(ps []Product) []Product {
	out := make([]Product, len(ps))
	copy(out, ps)
	return out
}
