package service

import (
	"vetrina-catalogo/models"
)

// CatalogStore owns the products of a session.
// The session fields are only mutated through the carousel and size selection APIs.
type CatalogStore struct {
	products []*models.Product
	byID     map[int]*models.Product
}

// NewCatalogStore creates an empty CatalogStore
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		byID: make(map[int]*models.Product),
	}
}

// populate replaces the store content with the validated products
func (s *CatalogStore) populate(products []models.Product) {
	s.products = make([]*models.Product, 0, len(products))
	s.byID = make(map[int]*models.Product, len(products))
	for i := range products {
		p := products[i]
		s.products = append(s.products, &p)
		s.byID[p.ID] = &p
	}
}

// Len returns the number of products
func (s *CatalogStore) Len() int {
	return len(s.products)
}

// Products returns a snapshot of every product in catalog order
func (s *CatalogStore) Products() []models.Product {
	out := make([]models.Product, len(s.products))
	for i, p := range s.products {
		out[i] = *p
	}
	return out
}

// Product returns a snapshot of the product with the given id
func (s *CatalogStore) Product(id int) (models.Product, bool) {
	p, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return *p, true
}

// setImageIndex moves the product carousel to idx, wrapped into range.
// Returns the stored index, false when the product does not exist.
func (s *CatalogStore) setImageIndex(id, idx int) (int, bool) {
	p, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	p.CurrentImageIndex = wrapIndex(idx, len(p.Images))
	return p.CurrentImageIndex, true
}

// setSelectedSize selects size k, out of range indexes are rejected
func (s *CatalogStore) setSelectedSize(id, k int) (models.SizeVariant, bool) {
	p, ok := s.byID[id]
	if !ok || k < 0 || k >= len(p.Sizes) {
		return models.SizeVariant{}, false
	}
	p.SelectedSizeIndex = k
	return p.Sizes[k], true
}

// wrapIndex maps any index into [0, n), 0 when n is empty
func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	return ((idx % n) + n) % n
}
