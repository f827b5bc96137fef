package service

import (
	"math"

	"go.uber.org/zap"

	"vetrina-catalogo/dom"
)

// Minimum horizontal travel before a touch gesture counts as a swipe
const (
	CardSwipeThreshold       = 30.0
	FullscreenSwipeThreshold = 50.0
)

// carouselView reflects a carousel index on screen
type carouselView interface {
	showImage(idx int)
	imageAt(idx int) *dom.Element
}

// CarouselController owns the per-product image index state machine
type CarouselController struct {
	store  *CatalogStore
	lazy   *LazyLoader
	views  map[int]carouselView
	logger *zap.Logger
}

// NewCarouselController creates a new CarouselController
func NewCarouselController(store *CatalogStore, lazy *LazyLoader, logger *zap.Logger) *CarouselController {
	return &CarouselController{
		store:  store,
		lazy:   lazy,
		views:  make(map[int]carouselView),
		logger: logger,
	}
}

// attach connects the on-screen view of a product carousel
func (c *CarouselController) attach(productID int, v carouselView) {
	c.views[productID] = v
}

// detach disconnects the view of a product carousel
func (c *CarouselController) detach(productID int) {
	delete(c.views, productID)
}

// Next advances the carousel by one image, wrapping to the first
func (c *CarouselController) Next(productID int) (int, bool) {
	return c.step(productID, 1)
}

// Prev moves the carousel back by one image, wrapping to the last
func (c *CarouselController) Prev(productID int) (int, bool) {
	return c.step(productID, -1)
}

// Goto jumps to image idx
func (c *CarouselController) Goto(productID, idx int) (int, bool) {
	return c.move(productID, idx)
}

// Swipe interprets a horizontal gesture. deltaX is start minus end, so a
// leftward swipe (positive) shows the next image.
func (c *CarouselController) Swipe(productID int, deltaX float64) (int, bool) {
	dir := swipeDirection(deltaX, CardSwipeThreshold)
	if dir == 0 {
		return 0, false
	}
	return c.step(productID, dir)
}

func (c *CarouselController) step(productID, dir int) (int, bool) {
	p, ok := c.store.Product(productID)
	if !ok {
		c.logger.Debug("Carousel step on unknown product", zap.Int("productId", productID))
		return 0, false
	}
	return c.move(productID, p.CurrentImageIndex+dir)
}

// move stores the new index and reflects it on the attached view
func (c *CarouselController) move(productID, idx int) (int, bool) {
	current, ok := c.store.setImageIndex(productID, idx)
	if !ok {
		c.logger.Debug("Carousel move on unknown product", zap.Int("productId", productID))
		return 0, false
	}
	if v, attached := c.views[productID]; attached {
		v.showImage(current)
		c.lazy.Bind(v.imageAt(current))
	}
	return current, true
}

// swipeDirection returns 1, -1 or 0 when the gesture is too short
func swipeDirection(deltaX, threshold float64) int {
	if math.Abs(deltaX) <= threshold {
		return 0
	}
	if deltaX > 0 {
		return 1
	}
	return -1
}
