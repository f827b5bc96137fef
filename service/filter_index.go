package service

import (
	"go.uber.org/zap"

	"vetrina-catalogo/dom"
	"vetrina-catalogo/models"
	"vetrina-catalogo/utils"
)

// FacetAll is the sentinel facet matching every product
const FacetAll = "all"

// BuildFacets returns "all", then distinct categories and then distinct tags,
// each in first-seen order. A label used both as category and tag appears twice.
func BuildFacets(products []models.Product) []string {
	facets := []string{FacetAll}

	seenCategories := make(map[string]bool)
	for _, p := range products {
		if !seenCategories[p.Category] {
			seenCategories[p.Category] = true
			facets = append(facets, p.Category)
		}
	}

	seenTags := make(map[string]bool)
	for _, p := range products {
		for _, tag := range p.Tags {
			if !seenTags[tag] {
				seenTags[tag] = true
				facets = append(facets, tag)
			}
		}
	}

	return facets
}

// ApplyFilter returns the products matching facet in catalog order
func ApplyFilter(products []models.Product, facet string) []models.Product {
	if facet == FacetAll {
		out := make([]models.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]models.Product, 0, len(products))
	for i := range products {
		if products[i].Category == facet || products[i].HasTag(facet) {
			out = append(out, products[i])
		}
	}
	return out
}

// FacetCount is a facet with the number of products it matches
type FacetCount struct {
	Label    string `json:"label"`
	Products int    `json:"products"`
}

// CountFacets returns every facet with its match count
func CountFacets(products []models.Product) []FacetCount {
	facets := BuildFacets(products)
	counts := make([]FacetCount, 0, len(facets))
	for _, f := range facets {
		counts = append(counts, FacetCount{Label: f, Products: len(ApplyFilter(products, f))})
	}
	return counts
}

// gridRenderer redraws the product grid
type gridRenderer interface {
	Render(products []models.Product)
}

// FilterIndex tracks the active facet and owns the facet button region
type FilterIndex struct {
	doc       *dom.Document
	container *dom.Element
	store     *CatalogStore
	grid      gridRenderer
	facets    []string
	buttons   []*dom.Element
	active    int
	logger    *zap.Logger
}

// NewFilterIndex creates a new FilterIndex writing into its own container
func NewFilterIndex(doc *dom.Document, store *CatalogStore, grid gridRenderer, logger *zap.Logger) *FilterIndex {
	container := doc.CreateElement("div").AddClass("filters")
	container.SetAttr("id", "filters")
	return &FilterIndex{
		doc:       doc,
		container: container,
		store:     store,
		grid:      grid,
		logger:    logger,
	}
}

// Container returns the facet button region
func (f *FilterIndex) Container() *dom.Element {
	return f.container
}

// Facets returns the facets built from the catalog
func (f *FilterIndex) Facets() []string {
	return f.facets
}

// Buttons returns the facet buttons in facet order
func (f *FilterIndex) Buttons() []*dom.Element {
	return f.buttons
}

// Active returns the active facet label
func (f *FilterIndex) Active() string {
	if len(f.facets) == 0 {
		return FacetAll
	}
	return f.facets[f.active]
}

// Build derives the facets from the store, renders one button per facet and
// renders the whole catalog with "all" active
func (f *FilterIndex) Build() {
	f.container.Clear()
	f.buttons = nil
	f.facets = BuildFacets(f.store.Products())
	f.active = 0

	for idx, facet := range f.facets {
		label := facet
		if facet == FacetAll {
			label = utils.LabelAllFacet
		}
		btn := f.doc.CreateElement("button").AddClass("filter-btn").ToggleClass("active", idx == 0)
		btn.SetAttr("data-filter", facet)
		btn.SetText(label)

		target := idx
		f.doc.On(btn, models.EventClick, func(*models.Event, *dom.Element) {
			f.selectIndex(target)
		})
		f.container.Append(btn)
		f.buttons = append(f.buttons, btn)
	}

	f.grid.Render(f.store.Products())
	f.logger.Info("✓ Filters built", zap.Int("facets", len(f.facets)))
}

// Select activates the first facet with the given label. Unknown labels are ignored.
func (f *FilterIndex) Select(facet string) bool {
	for idx, label := range f.facets {
		if label == facet {
			f.selectIndex(idx)
			return true
		}
	}
	f.logger.Debug("Ignoring unknown facet", zap.String("facet", facet))
	return false
}

func (f *FilterIndex) selectIndex(idx int) {
	if idx < 0 || idx >= len(f.facets) {
		return
	}
	f.buttons[f.active].RemoveClass("active")
	f.active = idx
	f.buttons[idx].AddClass("active")

	f.grid.Render(ApplyFilter(f.store.Products(), f.facets[idx]))
}
