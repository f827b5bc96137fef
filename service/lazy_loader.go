package service

import (
	"go.uber.org/zap"

	"vetrina-catalogo/dom"
)

// LazySourceAttr holds the real source of an image until it is bound
const LazySourceAttr = "data-lazy"

// LazyLoader binds image sources once, on first visibility or when the image
// becomes active. Bound images are never unbound.
type LazyLoader struct {
	observer VisibilityObserverInterface
	pending  map[string]*dom.Element
	logger   *zap.Logger
}

// NewLazyLoader creates a new LazyLoader. A nil observer binds every image immediately.
func NewLazyLoader(observer VisibilityObserverInterface, logger *zap.Logger) *LazyLoader {
	return &LazyLoader{
		observer: observer,
		pending:  make(map[string]*dom.Element),
		logger:   logger,
	}
}

// Register prepares img to load src. Active images and hosts without a
// visibility capability bind right away.
func (l *LazyLoader) Register(img *dom.Element, src string, active bool) {
	img.SetAttr(LazySourceAttr, src)
	if active || l.observer == nil {
		l.Bind(img)
		return
	}
	l.pending[img.ID()] = img
	l.observer.Observe(img, l.Bind)
}

// Bind resolves the real source of img. Calling it on a bound image is a no-op.
func (l *LazyLoader) Bind(img *dom.Element) {
	if img == nil || IsBound(img) {
		return
	}
	src, ok := img.Attr(LazySourceAttr)
	if !ok {
		return
	}
	img.SetAttr("src", src)
	if _, waiting := l.pending[img.ID()]; waiting {
		delete(l.pending, img.ID())
		l.observer.Unobserve(img)
	}
	l.logger.Debug("Image source bound", zap.String("element", img.ID()))
}

// Forget drops img from the pending set, used when its card is torn down
func (l *LazyLoader) Forget(img *dom.Element) {
	if _, waiting := l.pending[img.ID()]; !waiting {
		return
	}
	delete(l.pending, img.ID())
	l.observer.Unobserve(img)
}

// Pending returns the number of images still waiting for visibility
func (l *LazyLoader) Pending() int {
	return len(l.pending)
}

// IsBound reports whether img already has its real source
func IsBound(img *dom.Element) bool {
	_, ok := img.Attr("src")
	return ok
}
