package service

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vetrina-catalogo/dom"
	"vetrina-catalogo/models"
)

type staticSource struct {
	records []models.ProductRecord
	err     error
	calls   int
}

func (s *staticSource) FetchProducts(ctx context.Context) ([]models.ProductRecord, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *staticSource) Describe() string {
	return "static"
}

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// workedExample is the single product catalog used throughout the docs
func workedExample() []models.ProductRecord {
	return []models.ProductRecord{{
		ID:       1,
		Name:     "Scarpa",
		Category: "Shoes",
		Tags:     []string{"Sale"},
		Sizes:    []models.SizeRecord{{Size: "M", Price: price(50)}},
		Colors:   []string{"Rosso"},
		Images:   []string{"a.jpg", "b.jpg"},
	}}
}

func sampleCatalog() []models.ProductRecord {
	return []models.ProductRecord{
		{
			ID:       1,
			Name:     "Cappotto",
			Category: "Giacche",
			Tags:     []string{"Novità", "Saldi"},
			Sizes: []models.SizeRecord{
				{Size: "S", Price: price(40)},
				{Size: "M", Price: decimal.NewNullDecimal(decimal.RequireFromString("42.5"))},
				{Size: "L"},
			},
			Colors: []string{"Rosso-Scuro", "Blu", "Ocra"},
			Images: []string{"c1.jpg", "c2.jpg", "c3.jpg"},
		},
		{
			ID:       2,
			Name:     "Maglione",
			Category: "Maglie",
			Tags:     []string{"Saldi"},
			Sizes:    []models.SizeRecord{{Size: "U"}},
			Colors:   []string{},
			Images:   []string{"m1.jpg"},
		},
		{
			ID:       3,
			Name:     "Sciarpa",
			Category: "Accessori",
			Sizes:    []models.SizeRecord{},
			Colors:   []string{"Nero"},
			Images:   []string{"s1.jpg", "s2.jpg"},
		},
		{
			ID:       4,
			Name:     "Giubbotto",
			Category: "Giacche",
			Sizes:    []models.SizeRecord{{Size: "M", Price: price(80)}, {Size: "L", Price: price(85)}},
			Colors:   []string{"Verde"},
			Images:   []string{"g1.jpg", "g2.jpg", "g3.jpg", "g4.jpg"},
		},
	}
}

func newLoadedSession(t *testing.T, records []models.ProductRecord, lazy bool) *Session {
	t.Helper()
	s := NewSession(SessionOptions{
		Source:          &staticSource{records: records},
		LazyLoad:        lazy,
		ProximityMargin: 50,
		Logger:          zaptest.NewLogger(t),
	})
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s
}

func send(t *testing.T, s *Session, ev *models.Event) *models.EventResponse {
	t.Helper()
	resp, err := s.HandleEvent(ev)
	require.NoError(t, err)
	return resp
}

func click(t *testing.T, s *Session, el *dom.Element) *models.EventResponse {
	t.Helper()
	return send(t, s, &models.Event{Type: models.EventClick, Target: el.ID()})
}

func key(t *testing.T, s *Session, k string, shift bool) *models.EventResponse {
	t.Helper()
	return send(t, s, &models.Event{Type: models.EventKeyDown, Key: k, Shift: shift})
}

func swipe(t *testing.T, s *Session, target *dom.Element, from, to float64) {
	t.Helper()
	send(t, s, &models.Event{Type: models.EventTouchStart, Target: target.ID(), ScreenX: from})
	send(t, s, &models.Event{Type: models.EventTouchEnd, Target: target.ID(), ScreenX: to})
}

func parseRegion(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func gridDoc(t *testing.T, s *Session) *goquery.Document {
	t.Helper()
	page, err := s.Page()
	require.NoError(t, err)
	return parseRegion(t, page.Grid)
}

func card(t *testing.T, s *Session, productID int) *ProductCard {
	t.Helper()
	c, ok := s.renderer.Card(productID)
	require.True(t, ok, "card %d not rendered", productID)
	return c
}

func currentIndex(t *testing.T, s *Session, productID int) int {
	t.Helper()
	p, ok := s.store.Product(productID)
	require.True(t, ok)
	return p.CurrentImageIndex
}
