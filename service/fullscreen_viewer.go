package service

import (
	"strconv"

	"go.uber.org/zap"

	"vetrina-catalogo/dom"
	"vetrina-catalogo/models"
	"vetrina-catalogo/utils"
)

// Body styles applied while the viewer is open and after it closes
const (
	scrollLocked   = "overflow: hidden"
	scrollUnlocked = "overflow: auto"
)

// FullscreenViewer shows one product image at a time in a modal overlay.
// Its index is independent from the product carousel.
type FullscreenViewer struct {
	doc       *dom.Document
	store     *CatalogStore
	preloader ImagePreloaderInterface
	resolve   SourceResolver
	logger    *zap.Logger

	session *models.FullscreenSession

	overlay  *dom.Element
	image    *dom.Element
	closeBtn *dom.Element
	prevBtn  *dom.Element
	nextBtn  *dom.Element
	current  *dom.Element
	total    *dom.Element

	touchStartX float64
}

// NewFullscreenViewer creates a new FullscreenViewer and builds its hidden overlay
func NewFullscreenViewer(
	doc *dom.Document,
	store *CatalogStore,
	preloader ImagePreloaderInterface,
	resolve SourceResolver,
	logger *zap.Logger,
) *FullscreenViewer {
	if resolve == nil {
		resolve = DirectSources
	}
	v := &FullscreenViewer{
		doc:       doc,
		store:     store,
		preloader: preloader,
		resolve:   resolve,
		logger:    logger,
	}
	v.build()
	return v
}

func (v *FullscreenViewer) build() {
	v.overlay = v.doc.CreateElement("div").AddClass("fullscreen-modal")
	v.overlay.SetAttr("id", "fullscreenModal")
	v.overlay.SetAttr("role", "dialog")
	v.overlay.SetAttr("aria-modal", "true")

	v.closeBtn = v.doc.CreateElement("button").AddClass("fullscreen-close").SetText("×")
	v.closeBtn.SetAttr("aria-label", utils.LabelClose)
	v.prevBtn = v.doc.CreateElement("button").AddClass("fullscreen-nav", "fullscreen-prev").SetText(utils.LabelPrev)
	v.nextBtn = v.doc.CreateElement("button").AddClass("fullscreen-nav", "fullscreen-next").SetText(utils.LabelNext)

	v.image = v.doc.CreateElement("img").AddClass("fullscreen-image")
	v.image.SetAttr("id", "fullscreenImage")
	content := v.doc.CreateElement("div").AddClass("fullscreen-content").Append(v.image)

	v.current = v.doc.CreateElement("span").SetText("0")
	v.current.SetAttr("id", "currentImageNum")
	v.total = v.doc.CreateElement("span").SetText("0")
	v.total.SetAttr("id", "totalImageNum")
	counter := v.doc.CreateElement("div").AddClass("fullscreen-counter").Append(
		v.current,
		v.doc.CreateElement("span").SetText(" / "),
		v.total,
	)

	v.overlay.Append(v.closeBtn, v.prevBtn, content, v.nextBtn, counter)

	v.doc.On(v.closeBtn, models.EventClick, func(*models.Event, *dom.Element) { v.Close() })
	v.doc.On(v.prevBtn, models.EventClick, func(*models.Event, *dom.Element) { v.Prev() })
	v.doc.On(v.nextBtn, models.EventClick, func(*models.Event, *dom.Element) { v.Next() })
	v.doc.On(v.overlay, models.EventClick, func(_ *models.Event, target *dom.Element) {
		// only the backdrop itself, not the image or the controls
		if target == v.overlay {
			v.Close()
		}
	})
	v.doc.On(v.overlay, models.EventTouchStart, func(ev *models.Event, _ *dom.Element) {
		v.touchStartX = ev.ScreenX
	})
	v.doc.On(v.overlay, models.EventTouchEnd, func(ev *models.Event, _ *dom.Element) {
		v.Swipe(v.touchStartX - ev.ScreenX)
	})
}

// Overlay returns the overlay region
func (v *FullscreenViewer) Overlay() *dom.Element {
	return v.overlay
}

// Image returns the image slot
func (v *FullscreenViewer) Image() *dom.Element {
	return v.image
}

// CloseButton returns the close control
func (v *FullscreenViewer) CloseButton() *dom.Element {
	return v.closeBtn
}

// FocusableControls returns the controls the focus trap cycles through
func (v *FullscreenViewer) FocusableControls() []*dom.Element {
	return []*dom.Element{v.closeBtn, v.prevBtn, v.nextBtn}
}

// IsOpen reports whether the viewer has an active session
func (v *FullscreenViewer) IsOpen() bool {
	return v.session != nil
}

// Session returns a copy of the active session
func (v *FullscreenViewer) Session() (models.FullscreenSession, bool) {
	if v.session == nil {
		return models.FullscreenSession{}, false
	}
	return *v.session, true
}

// ScrollLocked reports whether background scrolling is locked
func (v *FullscreenViewer) ScrollLocked() bool {
	style, _ := v.doc.Body().Attr("style")
	return style == scrollLocked
}

// Open starts a new session on image imageIdx of the product.
// Any previous session is replaced. Unknown products are ignored.
func (v *FullscreenViewer) Open(productID, imageIdx int) bool {
	p, ok := v.store.Product(productID)
	if !ok {
		v.logger.Debug("Fullscreen open on unknown product", zap.Int("productId", productID))
		return false
	}

	v.session = &models.FullscreenSession{
		ProductID:  productID,
		CurrentIdx: wrapIndex(imageIdx, len(p.Images)),
	}
	v.image.SetAttr("alt", p.Name)
	v.show(&p)

	v.overlay.AddClass("active")
	v.doc.Body().SetAttr("style", scrollLocked)
	v.doc.Focus(v.closeBtn)
	return true
}

// Close ends the session and restores scrolling. Closing a closed viewer is a no-op.
func (v *FullscreenViewer) Close() {
	if v.session == nil {
		return
	}
	v.session = nil
	v.overlay.RemoveClass("active")
	v.doc.Body().SetAttr("style", scrollUnlocked)
	v.doc.Focus(nil)
}

// Next shows the following image, wrapping to the first
func (v *FullscreenViewer) Next() {
	v.step(1)
}

// Prev shows the previous image, wrapping to the last
func (v *FullscreenViewer) Prev() {
	v.step(-1)
}

// Swipe interprets a horizontal gesture on the overlay, deltaX is start minus end
func (v *FullscreenViewer) Swipe(deltaX float64) {
	if dir := swipeDirection(deltaX, FullscreenSwipeThreshold); dir != 0 {
		v.step(dir)
	}
}

func (v *FullscreenViewer) step(dir int) {
	if v.session == nil {
		return
	}
	p, ok := v.store.Product(v.session.ProductID)
	if !ok {
		return
	}
	v.session.CurrentIdx = wrapIndex(v.session.CurrentIdx+dir, len(p.Images))
	v.show(&p)
}

// show renders the session image and counter, then preloads the next image
func (v *FullscreenViewer) show(p *models.Product) {
	idx := v.session.CurrentIdx
	v.image.SetAttr("src", v.resolve(p.Images[idx], SizeFull))
	v.current.SetText(strconv.Itoa(idx + 1))
	v.total.SetText(strconv.Itoa(len(p.Images)))

	if v.preloader != nil {
		v.preloader.Preload(p.Images[(idx+1)%len(p.Images)])
	}
}
