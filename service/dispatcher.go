package service

import (
	"errors"

	"go.uber.org/zap"

	"vetrina-catalogo/dom"
	"vetrina-catalogo/models"
)

// Keys handled at document level
const (
	KeyEscape     = "Escape"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyTab        = "Tab"
)

// visibilityNotifier delivers host visibility notifications
type visibilityNotifier interface {
	Notify(id string) bool
}

// Dispatcher routes host input events either to the global keyboard surface
// or to the handlers bound on the target element
type Dispatcher struct {
	doc      *dom.Document
	viewer   *FullscreenViewer
	notifier visibilityNotifier
	logger   *zap.Logger
}

// NewDispatcher creates a new Dispatcher, notifier may be nil
func NewDispatcher(doc *dom.Document, viewer *FullscreenViewer, notifier visibilityNotifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		doc:      doc,
		viewer:   viewer,
		notifier: notifier,
		logger:   logger,
	}
}

// Dispatch handles one event and reports whether anything reacted to it.
// Stale or unknown targets are a no-op.
func (d *Dispatcher) Dispatch(ev *models.Event) bool {
	switch ev.Type {
	case models.EventKeyDown:
		return d.handleKey(ev)
	case models.EventVisible:
		if d.notifier == nil {
			return false
		}
		return d.notifier.Notify(ev.Target)
	}

	handled, err := d.doc.Dispatch(ev)
	if err != nil {
		if errors.Is(err, models.ErrElementNotFound) {
			d.logger.Debug("Ignoring event on stale element",
				zap.String("type", string(ev.Type)),
				zap.String("target", ev.Target),
			)
			return false
		}
		d.logger.Warn("⚠️  Event dispatch failed", zap.Error(err))
		return false
	}
	return handled
}

func (d *Dispatcher) handleKey(ev *models.Event) bool {
	if ev.Key == KeyEscape {
		if !d.viewer.IsOpen() {
			return false
		}
		d.viewer.Close()
		return true
	}

	if !d.viewer.IsOpen() {
		return false
	}

	switch ev.Key {
	case KeyArrowLeft:
		d.viewer.Prev()
		return true
	case KeyArrowRight:
		d.viewer.Next()
		return true
	case KeyTab:
		d.trapFocus(ev.Shift)
		return true
	}
	return false
}

// trapFocus cycles the focus among the overlay controls with wraparound
func (d *Dispatcher) trapFocus(backwards bool) {
	controls := d.viewer.FocusableControls()
	current := -1
	active := d.doc.ActiveElement()
	for i, c := range controls {
		if c == active {
			current = i
			break
		}
	}

	var next int
	switch {
	case current < 0 && backwards:
		next = len(controls) - 1
	case current < 0:
		next = 0
	case backwards:
		next = wrapIndex(current-1, len(controls))
	default:
		next = wrapIndex(current+1, len(controls))
	}
	d.doc.Focus(controls[next])
}
