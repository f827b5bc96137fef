package models

import "github.com/shopspring/decimal"

// SizeRecord is a size variant as delivered by the data source
type SizeRecord struct {
	Size  string              `json:"size"`
	Price decimal.NullDecimal `json:"price"`
}

// ProductRecord is the raw product shape delivered by the data source.
// It is validated and converted to Product by the catalog loader.
type ProductRecord struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Tags        []string     `json:"tags,omitempty"`
	Sizes       []SizeRecord `json:"sizes"`
	Colors      []string     `json:"colors"`
	Images      []string     `json:"images"`
	Description string       `json:"description,omitempty"`
}

// QuarantinedRecord describes a record rejected at load time
type QuarantinedRecord struct {
	Index  int    `json:"index"`
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// LoadReport summarizes a catalog load
type LoadReport struct {
	Received    int                 `json:"received"`
	Accepted    int                 `json:"accepted"`
	Quarantined []QuarantinedRecord `json:"quarantined,omitempty"`
}

// CatalogPage represents the data structure passed to the catalog page template
type CatalogPage struct {
	SessionID    string
	Filters      string
	Grid         string
	Overlay      string
	ScrollLocked bool
	Focus        string
	Preload      []string

	// Host capabilities
	LazyLoad        bool
	ProximityMargin int
}
