package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina-catalogo/models"
)

func TestWorkedExampleRender(t *testing.T) {
	s := newLoadedSession(t, workedExample(), false)

	doc := gridDoc(t, s)
	cards := doc.Find(".product-card")
	require.Equal(t, 1, cards.Length())

	assert.Equal(t, "50€", cards.Find(".price-display").Text())
	assert.Equal(t, 0, cards.Find(".price-note").Length())
	assert.Equal(t, "Scarpa", cards.Find(".product-name").Text())
	assert.Equal(t, "Shoes", cards.Find(".product-category").Text())

	images := cards.Find("img.slider-image")
	require.Equal(t, 2, images.Length())
	assert.True(t, images.Eq(0).HasClass("active"))
	assert.False(t, images.Eq(1).HasClass("active"))
	alt, _ := images.Eq(0).Attr("alt")
	assert.Equal(t, "Scarpa", alt)

	assert.Equal(t, 2, cards.Find(".slider-dot").Length())
	assert.Equal(t, 1, cards.Find(".slider-btn.prev").Length())
	assert.Equal(t, 1, cards.Find(".slider-btn.next").Length())
}

func TestCardRegionsFollowProductShape(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), false)
	doc := gridDoc(t, s)

	coat := doc.Find(`.product-card[data-product-id="1"]`)
	assert.Equal(t, 3, coat.Find(".variant-pill").Length())
	assert.True(t, coat.Find(".variant-pill").Eq(0).HasClass("selected"))
	assert.Equal(t, "40€", coat.Find(".price-display").Text())
	assert.Equal(t, "Scegli una misura", coat.Find(".price-note").Text())
	assert.Equal(t, 3, coat.Find(".color-dot").Length())

	// single size without price: placeholder, no note
	sweater := doc.Find(`.product-card[data-product-id="2"]`)
	assert.Equal(t, "Contatta per info", sweater.Find(".price-display").Text())
	assert.Equal(t, 0, sweater.Find(".price-note").Length())
	assert.Equal(t, 0, sweater.Find(".colors-display").Length())
	// single image: no arrows, no dots
	assert.Equal(t, 0, sweater.Find(".slider-btn").Length())
	assert.Equal(t, 0, sweater.Find(".slider-dot").Length())

	// no sizes: no size region and no price section at all
	scarf := doc.Find(`.product-card[data-product-id="3"]`)
	assert.Equal(t, 0, scarf.Find(".variant-pills").Length())
	assert.Equal(t, 0, scarf.Find(".price-section").Length())
	assert.Equal(t, 1, scarf.Find(".colors-display").Length())
}

func TestColorDots(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), false)
	doc := gridDoc(t, s)

	dots := doc.Find(`.product-card[data-product-id="1"] .color-dot`)
	require.Equal(t, 3, dots.Length())

	tests := []struct {
		title string
		style string
	}{
		{"Rosso-Scuro", "background-color: #e74c3c;"},
		{"Blu", "background-color: #3498db;"},
		{"Ocra", "background-color: #ccc;"},
	}
	for i, tt := range tests {
		title, _ := dots.Eq(i).Attr("title")
		style, _ := dots.Eq(i).Attr("style")
		assert.Equal(t, tt.title, title)
		assert.Equal(t, tt.style, style)
	}
}

func TestSizeSelectionUpdatesPriceAndIsolatesProducts(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), false)
	coat := card(t, s, 1)
	jacket := card(t, s, 4)

	click(t, s, coat.Pills()[1])

	p, _ := s.store.Product(1)
	assert.Equal(t, 1, p.SelectedSizeIndex)
	assert.Equal(t, "42.5€", coat.Price().Text())
	assert.False(t, coat.Pills()[0].HasClass("selected"))
	assert.True(t, coat.Pills()[1].HasClass("selected"))

	click(t, s, coat.Pills()[2])
	assert.Equal(t, "Contatta per info", coat.Price().Text())

	other, _ := s.store.Product(4)
	assert.Equal(t, 0, other.SelectedSizeIndex)
	assert.Equal(t, "80€", jacket.Price().Text())
	assert.True(t, jacket.Pills()[0].HasClass("selected"))
}

func TestSizeSelectionOutOfRangeIsNoop(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), false)

	_, ok := s.sizes.Select(1, 7)
	assert.False(t, ok)
	_, ok = s.sizes.Select(1, -1)
	assert.False(t, ok)
	_, ok = s.sizes.Select(99, 0)
	assert.False(t, ok)

	p, _ := s.store.Product(1)
	assert.Equal(t, 0, p.SelectedSizeIndex)
}

func TestSessionStateSurvivesRerender(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), false)

	click(t, s, card(t, s, 1).Pills()[1])
	click(t, s, card(t, s, 1).NextButton())

	s.filters.Select("Giacche")

	doc := gridDoc(t, s)
	coat := doc.Find(`.product-card[data-product-id="1"]`)
	assert.True(t, coat.Find(".variant-pill").Eq(1).HasClass("selected"))
	assert.Equal(t, "42.5€", coat.Find(".price-display").Text())
	assert.True(t, coat.Find("img.slider-image").Eq(1).HasClass("active"))
	assert.True(t, coat.Find(".slider-dot").Eq(1).HasClass("active"))
}

func TestImageLoadHidesItsPlaceholder(t *testing.T) {
	s := newLoadedSession(t, workedExample(), false)
	c := card(t, s, 1)

	send(t, s, &models.Event{Type: models.EventImageLoad, Target: c.Images()[1].ID()})

	assert.False(t, c.Loaders()[0].Hidden())
	assert.True(t, c.Loaders()[1].Hidden())
}

func TestImageErrorShowsPlaceholderOnce(t *testing.T) {
	s := newLoadedSession(t, workedExample(), false)
	c := card(t, s, 1)

	for i := 0; i < 3; i++ {
		send(t, s, &models.Event{Type: models.EventImageError, Target: c.Images()[0].ID()})
	}

	assert.True(t, c.Images()[0].Hidden())
	assert.False(t, c.Images()[1].Hidden())

	doc := gridDoc(t, s)
	errs := doc.Find(".image-error")
	require.Equal(t, 1, errs.Length())
	assert.Equal(t, "Immagine non disponibile", errs.Text())

	// the failed slot still takes part in the rotation
	click(t, s, c.NextButton())
	click(t, s, c.NextButton())
	assert.Equal(t, 0, currentIndex(t, s, 1))
}

func TestImageErrorPlaceholderStaysInItsSlot(t *testing.T) {
	s := newLoadedSession(t, workedExample(), false)
	c := card(t, s, 1)

	click(t, s, c.NextButton())
	send(t, s, &models.Event{Type: models.EventImageError, Target: c.Images()[1].ID()})

	doc := gridDoc(t, s)
	require.Equal(t, 1, doc.Find(".image-error").Length())
	assert.Equal(t, 1, doc.Find(".image-error.active").Length())
	assert.Equal(t, 1, doc.Find(`img.slider-image[hidden] + .image-error`).Length())

	// back on the healthy image nothing covers it
	click(t, s, c.NextButton())
	require.Equal(t, 0, currentIndex(t, s, 1))

	doc = gridDoc(t, s)
	assert.Equal(t, 1, doc.Find(".image-error").Length())
	assert.Equal(t, 0, doc.Find(".image-error.active").Length())
	assert.True(t, c.Images()[0].HasClass("active"))
	assert.False(t, c.Images()[0].Hidden())

	click(t, s, c.NextButton())
	assert.Equal(t, 1, gridDoc(t, s).Find(".image-error.active").Length())
}

func TestMarkdownDescription(t *testing.T) {
	records := workedExample()
	records[0].Description = "Pelle **italiana** <script>alert(1)</script>"
	s := newLoadedSession(t, records, false)

	doc := gridDoc(t, s)
	desc := doc.Find(".product-description")
	require.Equal(t, 1, desc.Length())
	assert.Equal(t, "italiana", desc.Find("strong").Text())
	assert.Equal(t, 0, desc.Find("script").Length())
}

func TestProxyImageSources(t *testing.T) {
	s := NewSession(SessionOptions{
		Source:   &staticSource{records: workedExample()},
		Resolver: ProxySources("/images"),
	})
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	src, ok := card(t, s, 1).Images()[0].Attr("src")
	require.True(t, ok)
	assert.Equal(t, "/images?size=medium&src=a.jpg", src)
}
