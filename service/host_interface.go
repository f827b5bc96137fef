package service

import (
	"vetrina-catalogo/dom"
)

// VisibilityObserverInterface defines the viewport-intersection capability of the host.
// A nil observer means the host cannot report visibility.
type VisibilityObserverInterface interface {
	// Observe asks the host to call onVisible once el enters the viewport (within the proximity margin)
	Observe(el *dom.Element, onVisible func(el *dom.Element))
	// Unobserve stops notifications for el
	Unobserve(el *dom.Element)
}

// ImagePreloaderInterface defines the off-screen image prefetch capability of the host
type ImagePreloaderInterface interface {
	// Preload requests ref without inserting it into the document
	Preload(ref string)
}

// ImageWarmerInterface warms a server side image cache
type ImageWarmerInterface interface {
	Warm(ref, size string)
}

// ObserveAttr marks elements the host page must watch for visibility
const ObserveAttr = "data-observe"

// HostVisibilityObserver relays visibility notifications reported by the host page.
// Observed elements are marked so the page knows which ones to watch.
type HostVisibilityObserver struct {
	margin    int
	callbacks map[string]func(el *dom.Element)
	elements  map[string]*dom.Element
}

// NewHostVisibilityObserver creates an observer with the given proximity margin
func NewHostVisibilityObserver(margin int) *HostVisibilityObserver {
	return &HostVisibilityObserver{
		margin:    margin,
		callbacks: make(map[string]func(el *dom.Element)),
		elements:  make(map[string]*dom.Element),
	}
}

// Ensure HostVisibilityObserver implements VisibilityObserverInterface
var _ VisibilityObserverInterface = (*HostVisibilityObserver)(nil)

// Margin returns the proximity margin the host should apply
func (o *HostVisibilityObserver) Margin() int {
	return o.margin
}

// Observe registers el for a single visibility notification
func (o *HostVisibilityObserver) Observe(el *dom.Element, onVisible func(el *dom.Element)) {
	el.SetAttr(ObserveAttr, "")
	o.callbacks[el.ID()] = onVisible
	o.elements[el.ID()] = el
}

// Unobserve drops el from the observed set
func (o *HostVisibilityObserver) Unobserve(el *dom.Element) {
	el.RemoveAttr(ObserveAttr)
	delete(o.callbacks, el.ID())
	delete(o.elements, el.ID())
}

// Observed returns the number of elements still waiting for a notification
func (o *HostVisibilityObserver) Observed() int {
	return len(o.callbacks)
}

// Notify delivers a visibility notification for the element with the given identity.
// Unknown or already served identities are ignored.
func (o *HostVisibilityObserver) Notify(id string) bool {
	cb, ok := o.callbacks[id]
	if !ok {
		return false
	}
	cb(o.elements[id])
	return true
}

// PreloadQueue collects prefetch requests for the host page and optionally
// warms the server side image cache for the same reference
type PreloadQueue struct {
	resolve SourceResolver
	warmer  ImageWarmerInterface
	pending []string
}

// NewPreloadQueue creates a new PreloadQueue, warmer may be nil
func NewPreloadQueue(resolve SourceResolver, warmer ImageWarmerInterface) *PreloadQueue {
	if resolve == nil {
		resolve = DirectSources
	}
	return &PreloadQueue{
		resolve: resolve,
		warmer:  warmer,
	}
}

// Ensure PreloadQueue implements ImagePreloaderInterface
var _ ImagePreloaderInterface = (*PreloadQueue)(nil)

// Preload queues ref for the host, fire and forget
func (q *PreloadQueue) Preload(ref string) {
	q.pending = append(q.pending, q.resolve(ref, SizeFull))
	if q.warmer != nil {
		q.warmer.Warm(ref, SizeFull)
	}
}

// Pending returns a copy of the queued prefetch URLs without clearing them
func (q *PreloadQueue) Pending() []string {
	if len(q.pending) == 0 {
		return nil
	}
	return append([]string(nil), q.pending...)
}

// Drain returns and clears the queued prefetch URLs
func (q *PreloadQueue) Drain() []string {
	out := q.pending
	q.pending = nil
	return out
}
