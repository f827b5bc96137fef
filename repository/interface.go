package repository

import (
	"context"

	"vetrina-catalogo/models"
)

// ProductSourceInterface defines the contract for reading the product list.
// FetchProducts is called once per session, records are returned unvalidated.
type ProductSourceInterface interface {
	FetchProducts(ctx context.Context) ([]models.ProductRecord, error)
	// Describe returns a short human readable location of the source for diagnostics
	Describe() string
}
