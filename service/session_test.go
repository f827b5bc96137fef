package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetrina-catalogo/models"
)

type recordingWarmer struct {
	mu    sync.Mutex
	warms []string
}

func (w *recordingWarmer) Warm(ref, size string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warms = append(w.warms, size+":"+ref)
}

func TestPageRegions(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), true)

	page, err := s.Page()
	require.NoError(t, err)

	assert.Equal(t, s.ID, page.SessionID)
	assert.True(t, page.LazyLoad)
	assert.Equal(t, 50, page.ProximityMargin)
	assert.False(t, page.ScrollLocked)

	assert.Equal(t, 1, parseRegion(t, page.Filters).Find("#filters").Length())
	assert.Equal(t, 4, parseRegion(t, page.Grid).Find("#productsGrid .product-card").Length())

	overlay := parseRegion(t, page.Overlay).Find("#fullscreenModal")
	require.Equal(t, 1, overlay.Length())
	assert.False(t, overlay.HasClass("active"))
	role, _ := overlay.Attr("role")
	assert.Equal(t, "dialog", role)
}

func TestHandleEventRoundTrip(t *testing.T) {
	warmer := &recordingWarmer{}
	s := NewSession(SessionOptions{
		Source:   &staticSource{records: workedExample()},
		Resolver: ProxySources("/images"),
		Warmer:   warmer,
	})
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	resp := click(t, s, card(t, s, 1).Images()[0])

	assert.True(t, resp.ScrollLocked)
	assert.Equal(t, []string{"/images?size=full&src=b.jpg"}, resp.Preload)
	assert.Equal(t, []string{"full:b.jpg"}, warmer.warms)

	overlay := parseRegion(t, resp.Overlay)
	src, _ := overlay.Find("img.fullscreen-image").Attr("src")
	assert.Equal(t, "/images?size=full&src=a.jpg", src)

	// the queue is drained by each response
	resp = send(t, s, &models.Event{Type: models.EventKeyDown, Key: KeyEscape})
	assert.Empty(t, resp.Preload)
	assert.False(t, resp.ScrollLocked)
}

func TestDiagnostics(t *testing.T) {
	s := newLoadedSession(t, sampleCatalog(), true)
	require.True(t, s.viewer.Open(1, 0))

	diag := s.Diagnostics()
	assert.Equal(t, s.ID, diag.SessionID)
	assert.Equal(t, 4, diag.Products)
	assert.Equal(t, 4, diag.Received)
	assert.Equal(t, 0, diag.Quarantined)
	assert.Empty(t, diag.LoadError)
	assert.Equal(t, 6, diag.PendingImages)
	assert.True(t, diag.FullscreenOn)
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	a := NewSession(SessionOptions{Source: &staticSource{}})
	b := NewSession(SessionOptions{Source: &staticSource{}})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPageLeavesPreloadsForTheEventChannel(t *testing.T) {
	s := newLoadedSession(t, workedExample(), false)
	require.True(t, s.viewer.Open(1, 0))

	for i := 0; i < 2; i++ {
		page, err := s.Page()
		require.NoError(t, err)
		assert.Equal(t, []string{"b.jpg"}, page.Preload)
		assert.True(t, page.ScrollLocked)
	}

	resp := key(t, s, KeyArrowRight, false)
	assert.Equal(t, []string{"b.jpg", "a.jpg"}, resp.Preload)

	page, err := s.Page()
	require.NoError(t, err)
	assert.Empty(t, page.Preload)
}
