package models

import "github.com/shopspring/decimal"

// SizeVariant represents a size option of a product with its optional price
// An invalid (null) price means the price is only available on request
type SizeVariant struct {
	Size  string              `json:"size"`
	Price decimal.NullDecimal `json:"price"`
}

// HasPrice reports whether the variant carries a price
func (s SizeVariant) HasPrice() bool {
	return s.Price.Valid
}

// Product represents a validated catalog product
type Product struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Tags        []string      `json:"tags,omitempty"`
	Sizes       []SizeVariant `json:"sizes"`
	Colors      []string      `json:"colors"`
	Images      []string      `json:"images"`
	Description string        `json:"description,omitempty"`

	// Session-only fields, never persisted
	CurrentImageIndex int `json:"currentImageIndex"`
	SelectedSizeIndex int `json:"selectedSizeIndex"`
}

// HasTag reports whether the product is labelled with tag
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SelectedSize returns the currently selected size variant
// Returns false when the product has no sizes
func (p *Product) SelectedSize() (SizeVariant, bool) {
	if len(p.Sizes) == 0 {
		return SizeVariant{}, false
	}
	return p.Sizes[p.SelectedSizeIndex], true
}

// FullscreenSession represents the state of an open fullscreen viewer.
// CurrentIdx is independent from the product's own carousel index.
type FullscreenSession struct {
	ProductID  int `json:"productId"`
	CurrentIdx int `json:"currentIdx"`
}
