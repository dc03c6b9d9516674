package snapshot

import "github.com/shopspring/decimal"

type Variant struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	SKU   string          `json:"sku"`
}

// Product is the last-known state of one product. The stored document is a JSON array of these.
type Product struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Variants []Variant `json:"variants"`
}

func (p Product) variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}
