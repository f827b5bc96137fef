package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vetrina-catalogo/models"
)

func TestLoadFailureLeavesEmptyUI(t *testing.T) {
	source := &staticSource{err: errors.New("connection refused")}
	s := NewSession(SessionOptions{Source: source, Logger: zaptest.NewLogger(t)})

	report, err := s.Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "connection refused")

	page, err := s.Page()
	require.NoError(t, err)
	assert.Equal(t, 0, parseRegion(t, page.Filters).Find("button").Length())
	assert.Equal(t, 0, parseRegion(t, page.Grid).Find(".product-card").Length())

	diag := s.Diagnostics()
	assert.Equal(t, 0, diag.Products)
	assert.Contains(t, diag.LoadError, "connection refused")

	// never retried
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrCatalogAlreadyLoaded)
	assert.Equal(t, 1, source.calls)
}

func TestLoadReadsOnce(t *testing.T) {
	source := &staticSource{records: sampleCatalog()}
	s := NewSession(SessionOptions{Source: source})

	report, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Received)
	assert.Equal(t, 4, report.Accepted)

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrCatalogAlreadyLoaded)
	assert.Equal(t, 1, source.calls)
	assert.Len(t, s.Products(), 4)
}

func TestValidateRecordsQuarantine(t *testing.T) {
	records := []models.ProductRecord{
		{ID: 1, Name: "Valido", Category: "A", Images: []string{"a.jpg"}},
		{ID: 2, Name: "Senza immagini", Category: "A", Images: []string{}},
		{ID: 3, Name: "  ", Category: "A", Images: []string{"c.jpg"}},
		{ID: 1, Name: "Duplicato", Category: "A", Images: []string{"d.jpg"}},
		{ID: 5, Name: "Misura vuota", Category: "A", Images: []string{"e.jpg"}, Sizes: []models.SizeRecord{{Size: ""}}},
		{ID: 6, Name: "Prezzo negativo", Category: "A", Images: []string{"f.jpg"},
			Sizes: []models.SizeRecord{{Size: "M", Price: decimal.NewNullDecimal(decimal.NewFromInt(-3))}}},
		{ID: 7, Name: "Immagine vuota", Category: "A", Images: []string{"g.jpg", " "}},
	}

	products, report := ValidateRecords(records)

	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 7, report.Received)
	assert.Equal(t, 1, report.Accepted)
	require.Len(t, report.Quarantined, 6)

	reasons := map[int]string{}
	for _, q := range report.Quarantined {
		reasons[q.Index] = q.Reason
	}
	assert.Contains(t, reasons[1], "no images")
	assert.Contains(t, reasons[2], "empty name")
	assert.Contains(t, reasons[3], "duplicate id 1")
	assert.Contains(t, reasons[4], "empty size label")
	assert.Contains(t, reasons[5], "negative price")
	assert.Contains(t, reasons[6], "empty image reference")
	for _, reason := range reasons {
		assert.Contains(t, reason, models.ErrInvalidProduct.Error())
	}
}

func TestValidateRecordsSanitizesText(t *testing.T) {
	records := []models.ProductRecord{{
		ID:       1,
		Name:     "<b>Cappotto</b> <script>x()</script>",
		Category: " Giacche ",
		Tags:     []string{"<i>Saldi</i>", "<br>"},
		Sizes:    []models.SizeRecord{{Size: " M "}},
		Colors:   []string{"Rosso &amp; Nero"},
		Images:   []string{" a.jpg "},
	}}

	products, report := ValidateRecords(records)
	require.Empty(t, report.Quarantined)
	p := products[0]

	assert.Equal(t, "Cappotto", p.Name)
	assert.Equal(t, "Giacche", p.Category)
	assert.Equal(t, []string{"Saldi"}, p.Tags)
	assert.Equal(t, "M", p.Sizes[0].Size)
	assert.False(t, p.Sizes[0].HasPrice())
	assert.Equal(t, []string{"Rosso & Nero"}, p.Colors)
	assert.Equal(t, []string{"a.jpg"}, p.Images)
	assert.Equal(t, 0, p.CurrentImageIndex)
	assert.Equal(t, 0, p.SelectedSizeIndex)
}

func TestQuarantinedProductsAreNotRendered(t *testing.T) {
	records := append(workedExample(), models.ProductRecord{ID: 2, Name: "Vuoto", Category: "Boots"})
	s := newLoadedSession(t, records, false)

	assert.Len(t, s.renderer.Cards(), 1)
	assert.Equal(t, []string{"all", "Shoes", "Sale"}, s.filters.Facets())
	assert.Equal(t, 1, s.Diagnostics().Quarantined)
}
