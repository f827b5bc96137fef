package service

import (
	"strconv"

	"go.uber.org/zap"

	"vetrina-catalogo/dom"
	"vetrina-catalogo/models"
	"vetrina-catalogo/utils"
)

// fullscreenOpener opens the fullscreen viewer on a product image
type fullscreenOpener interface {
	Open(productID, imageIdx int) bool
}

// ProductCard is the display unit of one product. It keeps direct handles to
// every element it mutates after the first render.
type ProductCard struct {
	productID   int
	root        *dom.Element
	slider      *dom.Element
	images      []*dom.Element
	loaders     []*dom.Element
	errors      []*dom.Element
	dots        []*dom.Element
	prevBtn     *dom.Element
	nextBtn     *dom.Element
	pills       []*dom.Element
	price       *dom.Element
	failed      []bool
	touchStartX float64
}

// ProductID returns the id of the product shown by the card
func (c *ProductCard) ProductID() int { return c.productID }

// Root returns the card element
func (c *ProductCard) Root() *dom.Element { return c.root }

// Slider returns the carousel region
func (c *ProductCard) Slider() *dom.Element { return c.slider }

// Images returns the carousel images in order
func (c *ProductCard) Images() []*dom.Element { return c.images }

// Loaders returns the loading placeholders, one per image
func (c *ProductCard) Loaders() []*dom.Element { return c.loaders }

// Dots returns the carousel indicators, empty for single image products
func (c *ProductCard) Dots() []*dom.Element { return c.dots }

// PrevButton returns the previous-image control, nil for single image products
func (c *ProductCard) PrevButton() *dom.Element { return c.prevBtn }

// NextButton returns the next-image control, nil for single image products
func (c *ProductCard) NextButton() *dom.Element { return c.nextBtn }

// Pills returns the size pills
func (c *ProductCard) Pills() []*dom.Element { return c.pills }

// Price returns the price display, nil when the product has no sizes
func (c *ProductCard) Price() *dom.Element { return c.price }

func (c *ProductCard) showImage(idx int) {
	for i, img := range c.images {
		img.ToggleClass("active", i == idx)
		c.loaders[i].ToggleClass("active", i == idx)
		if c.errors[i] != nil {
			c.errors[i].ToggleClass("active", i == idx)
		}
	}
	for i, dot := range c.dots {
		dot.ToggleClass("active", i == idx)
	}
}

func (c *ProductCard) imageAt(idx int) *dom.Element {
	if idx < 0 || idx >= len(c.images) {
		return nil
	}
	return c.images[idx]
}

// CardRenderer builds the product grid
type CardRenderer struct {
	doc      *dom.Document
	grid     *dom.Element
	store    *CatalogStore
	carousel *CarouselController
	sizes    *SizeSelector
	lazy     *LazyLoader
	viewer   fullscreenOpener
	resolve  SourceResolver
	cards    []*ProductCard
	logger   *zap.Logger
}

// NewCardRenderer creates a new CardRenderer writing into its own grid container
func NewCardRenderer(
	doc *dom.Document,
	store *CatalogStore,
	carousel *CarouselController,
	sizes *SizeSelector,
	lazy *LazyLoader,
	viewer fullscreenOpener,
	resolve SourceResolver,
	logger *zap.Logger,
) *CardRenderer {
	if resolve == nil {
		resolve = DirectSources
	}
	grid := doc.CreateElement("div").AddClass("products-grid")
	grid.SetAttr("id", "productsGrid")
	return &CardRenderer{
		doc:      doc,
		grid:     grid,
		store:    store,
		carousel: carousel,
		sizes:    sizes,
		lazy:     lazy,
		viewer:   viewer,
		resolve:  resolve,
		logger:   logger,
	}
}

// Grid returns the grid container
func (r *CardRenderer) Grid() *dom.Element {
	return r.grid
}

// Cards returns the cards currently on screen
func (r *CardRenderer) Cards() []*ProductCard {
	return r.cards
}

// Card returns the card of a product currently on screen
func (r *CardRenderer) Card(productID int) (*ProductCard, bool) {
	for _, c := range r.cards {
		if c.productID == productID {
			return c, true
		}
	}
	return nil, false
}

// Render replaces the grid content with one card per product
func (r *CardRenderer) Render(products []models.Product) {
	r.teardown()

	if len(products) == 0 {
		empty := r.doc.CreateElement("p").AddClass("empty-results").SetText(utils.LabelNoProducts)
		r.grid.Append(empty)
		return
	}

	for i := range products {
		card := r.buildCard(&products[i])
		r.cards = append(r.cards, card)
		r.grid.Append(card.root)
	}
	r.logger.Debug("Grid rendered", zap.Int("cards", len(r.cards)))
}

// teardown detaches carousel views, pending lazy images and handlers of the current cards
func (r *CardRenderer) teardown() {
	for _, c := range r.cards {
		r.carousel.detach(c.productID)
		for _, img := range c.images {
			r.lazy.Forget(img)
		}
	}
	r.cards = nil
	// releasing the subtree also drops every handler bound inside it
	r.grid.Clear()
}

func (r *CardRenderer) buildCard(p *models.Product) *ProductCard {
	card := &ProductCard{
		productID: p.ID,
		root:      r.doc.CreateElement("div").AddClass("product-card"),
	}
	card.root.SetAttr("data-product-id", strconv.Itoa(p.ID))

	imageRegion := r.doc.CreateElement("div").AddClass("product-image")
	imageRegion.Append(r.buildSlider(card, p))

	info := r.doc.CreateElement("div").AddClass("product-info")
	info.Append(
		r.doc.CreateElement("div").AddClass("product-name").SetText(p.Name),
		r.doc.CreateElement("div").AddClass("product-category").SetText(p.Category),
	)
	if p.Description != "" {
		r.appendDescription(info, p)
	}

	variants := r.doc.CreateElement("div").AddClass("product-variants")
	if len(p.Sizes) > 0 {
		r.appendSizes(variants, card, p)
	}
	if len(p.Colors) > 0 {
		r.appendColors(variants, p)
	}
	info.Append(variants)

	// no sizes, no price section
	if len(p.Sizes) > 0 {
		info.Append(r.buildPriceSection(card, p))
	}

	card.root.Append(imageRegion, info)
	r.carousel.attach(p.ID, card)
	return card
}

func (r *CardRenderer) buildSlider(card *ProductCard, p *models.Product) *dom.Element {
	slider := r.doc.CreateElement("div").AddClass("image-slider")
	card.slider = slider
	card.failed = make([]bool, len(p.Images))
	card.errors = make([]*dom.Element, len(p.Images))

	for idx, ref := range p.Images {
		active := idx == p.CurrentImageIndex
		loader := r.doc.CreateElement("div").AddClass("image-loading").ToggleClass("active", active)
		img := r.doc.CreateElement("img").AddClass("slider-image").ToggleClass("active", active)
		img.SetAttr("alt", p.Name)
		img.SetAttr("loading", "lazy")
		img.SetAttr("style", "cursor: pointer")

		slider.Append(loader, img)
		card.loaders = append(card.loaders, loader)
		card.images = append(card.images, img)

		r.bindImage(card, idx)
		r.lazy.Register(img, r.resolve(ref, SizeMedium), active)
	}

	if len(p.Images) > 1 {
		card.prevBtn = r.doc.CreateElement("button").AddClass("slider-btn", "prev").SetText(utils.LabelPrev)
		card.nextBtn = r.doc.CreateElement("button").AddClass("slider-btn", "next").SetText(utils.LabelNext)
		r.doc.On(card.prevBtn, models.EventClick, func(*models.Event, *dom.Element) {
			r.carousel.Prev(card.productID)
		})
		r.doc.On(card.nextBtn, models.EventClick, func(*models.Event, *dom.Element) {
			r.carousel.Next(card.productID)
		})

		controls := r.doc.CreateElement("div").AddClass("slider-controls")
		for idx := range p.Images {
			dot := r.doc.CreateElement("div").AddClass("slider-dot").ToggleClass("active", idx == p.CurrentImageIndex)
			target := idx
			r.doc.On(dot, models.EventClick, func(*models.Event, *dom.Element) {
				r.carousel.Goto(card.productID, target)
			})
			controls.Append(dot)
			card.dots = append(card.dots, dot)
		}
		slider.Append(card.prevBtn, card.nextBtn, controls)
	}

	r.doc.On(slider, models.EventTouchStart, func(ev *models.Event, _ *dom.Element) {
		card.touchStartX = ev.ScreenX
	})
	r.doc.On(slider, models.EventTouchEnd, func(ev *models.Event, _ *dom.Element) {
		r.carousel.Swipe(card.productID, card.touchStartX-ev.ScreenX)
	})

	return slider
}

// bindImage wires click, load and error handling of image idx
func (r *CardRenderer) bindImage(card *ProductCard, idx int) {
	img := card.images[idx]

	r.doc.On(img, models.EventClick, func(*models.Event, *dom.Element) {
		p, ok := r.store.Product(card.productID)
		if !ok {
			return
		}
		r.viewer.Open(card.productID, p.CurrentImageIndex)
	})

	r.doc.On(img, models.EventImageLoad, func(*models.Event, *dom.Element) {
		card.loaders[idx].SetHidden(true)
	})

	r.doc.On(img, models.EventImageError, func(*models.Event, *dom.Element) {
		if card.failed[idx] {
			return
		}
		card.failed[idx] = true
		img.SetHidden(true)
		card.loaders[idx].SetHidden(true)

		// the placeholder takes the slot of the image and follows its active state
		placeholder := r.doc.CreateElement("div").AddClass("image-error").SetText(utils.LabelImageUnavailable)
		placeholder.ToggleClass("active", img.HasClass("active"))
		img.InsertAfter(placeholder)
		card.errors[idx] = placeholder
		r.logger.Warn("⚠️  Image failed to load",
			zap.Int("productId", card.productID),
			zap.Int("imageIdx", idx),
		)
	})
}

func (r *CardRenderer) appendDescription(info *dom.Element, p *models.Product) {
	rendered, err := utils.RenderMarkdown(p.Description)
	if err != nil {
		r.logger.Warn("⚠️  Skipping product description", zap.Int("productId", p.ID), zap.Error(err))
		return
	}
	desc := r.doc.CreateElement("div").AddClass("product-description")
	if err := desc.AppendRaw(rendered); err != nil {
		r.logger.Warn("⚠️  Skipping product description", zap.Int("productId", p.ID), zap.Error(err))
		desc.Remove()
		return
	}
	info.Append(desc)
}

func (r *CardRenderer) appendSizes(variants *dom.Element, card *ProductCard, p *models.Product) {
	pills := r.doc.CreateElement("div").AddClass("variant-pills")
	for idx, s := range p.Sizes {
		pill := r.doc.CreateElement("span").AddClass("variant-pill").ToggleClass("selected", idx == p.SelectedSizeIndex)
		pill.SetText(s.Size)
		target := idx
		r.doc.On(pill, models.EventClick, func(*models.Event, *dom.Element) {
			r.selectSize(card, target)
		})
		pills.Append(pill)
		card.pills = append(card.pills, pill)
	}
	variants.Append(
		r.doc.CreateElement("div").AddClass("variant-label").SetText(utils.LabelSizes),
		pills,
	)
}

// selectSize updates the store, the pill marking and the price of one card
func (r *CardRenderer) selectSize(card *ProductCard, k int) {
	variant, ok := r.sizes.Select(card.productID, k)
	if !ok {
		return
	}
	for i, pill := range card.pills {
		pill.ToggleClass("selected", i == k)
	}
	if card.price != nil {
		card.price.SetText(utils.FormatPrice(variant.Price))
	}
}

func (r *CardRenderer) appendColors(variants *dom.Element, p *models.Product) {
	display := r.doc.CreateElement("div").AddClass("colors-display")
	for _, color := range p.Colors {
		dot := r.doc.CreateElement("div").AddClass("color-dot")
		dot.SetAttr("style", "background-color: "+utils.MapColorToSwatch(color)+";")
		dot.SetAttr("title", color)
		display.Append(dot)
	}
	variants.Append(
		r.doc.CreateElement("div").AddClass("variant-label").SetText(utils.LabelColors),
		display,
	)
}

func (r *CardRenderer) buildPriceSection(card *ProductCard, p *models.Product) *dom.Element {
	section := r.doc.CreateElement("div").AddClass("price-section")
	selected, _ := p.SelectedSize()
	card.price = r.doc.CreateElement("div").AddClass("price-display").SetText(utils.FormatPrice(selected.Price))
	section.Append(card.price)
	if len(p.Sizes) > 1 {
		section.Append(r.doc.CreateElement("div").AddClass("price-note").SetText(utils.LabelChooseSize))
	}
	return section
}
