package service

import (
	"go.uber.org/zap"

	"vetrina-catalogo/models"
)

// SizeSelector is the size selection API over the catalog store
type SizeSelector struct {
	store  *CatalogStore
	logger *zap.Logger
}

// NewSizeSelector creates a new SizeSelector
func NewSizeSelector(store *CatalogStore, logger *zap.Logger) *SizeSelector {
	return &SizeSelector{
		store:  store,
		logger: logger,
	}
}

// Select marks size k of the product as selected and returns the chosen variant.
// Unknown products and out of range sizes leave the store untouched.
func (s *SizeSelector) Select(productID, k int) (models.SizeVariant, bool) {
	variant, ok := s.store.setSelectedSize(productID, k)
	if !ok {
		s.logger.Debug("Ignoring size selection", zap.Int("productId", productID), zap.Int("sizeIdx", k))
		return models.SizeVariant{}, false
	}
	return variant, true
}
