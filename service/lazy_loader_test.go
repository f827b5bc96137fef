package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina-catalogo/models"
)

func TestLazyLoadingBindsActiveImageOnly(t *testing.T) {
	s := newLoadedSession(t, workedExample(), true)
	c := card(t, s, 1)

	assert.True(t, IsBound(c.Images()[0]))
	assert.False(t, IsBound(c.Images()[1]))

	lazy, ok := c.Images()[1].Attr(LazySourceAttr)
	require.True(t, ok)
	assert.Equal(t, "b.jpg", lazy)

	_, observed := c.Images()[1].Attr(ObserveAttr)
	assert.True(t, observed)
	assert.Equal(t, 1, s.lazy.Pending())
}

func TestVisibilityNotificationBindsOnce(t *testing.T) {
	s := newLoadedSession(t, workedExample(), true)
	img := card(t, s, 1).Images()[1]

	resp := send(t, s, &models.Event{Type: models.EventVisible, Target: img.ID()})

	src, ok := img.Attr("src")
	require.True(t, ok)
	assert.Equal(t, "b.jpg", src)
	_, observed := img.Attr(ObserveAttr)
	assert.False(t, observed)
	assert.Equal(t, 0, s.lazy.Pending())
	assert.Equal(t, 0, s.observer.Observed())

	doc := parseRegion(t, resp.Grid)
	assert.Equal(t, 2, doc.Find("img.slider-image[src]").Length())

	// later notifications are ignored
	assert.False(t, s.dispatcher.Dispatch(&models.Event{Type: models.EventVisible, Target: img.ID()}))
}

func TestCarouselMoveBindsNewActiveImage(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), true)
	c := card(t, s, 4)
	require.False(t, IsBound(c.Images()[2]))

	click(t, s, c.Dots()[2])

	assert.True(t, IsBound(c.Images()[2]))
	assert.False(t, IsBound(c.Images()[3]))

	// moving away never unbinds
	click(t, s, c.Dots()[0])
	assert.True(t, IsBound(c.Images()[2]))
}

func TestNoObserverBindsEverything(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), false)

	for _, c := range s.renderer.Cards() {
		for _, img := range c.Images() {
			assert.True(t, IsBound(img))
			_, observed := img.Attr(ObserveAttr)
			assert.False(t, observed)
		}
	}
	assert.Equal(t, 0, s.lazy.Pending())
}

func TestRerenderForgetsPendingImages(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), true)
	stale := card(t, s, 4).Images()[3]
	require.Equal(t, 6, s.observer.Observed())

	s.filters.Select("Accessori")

	assert.Equal(t, 1, s.observer.Observed())
	assert.Equal(t, 1, s.lazy.Pending())
	assert.False(t, s.observer.Notify(stale.ID()))
}
