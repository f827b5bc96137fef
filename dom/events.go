package dom

import (
	"fmt"

	"vetrina-catalogo/models"
)

// Handler handles an event. target is the element the event originated on,
// which may be a descendant of the element the handler is bound to.
type Handler func(ev *models.Event, target *Element)

// On binds h to events of type typ on el, replacing a previous binding
func (d *Document) On(el *Element, typ models.EventType, h Handler) {
	byType, ok := d.handlers[el.id]
	if !ok {
		byType = make(map[models.EventType]Handler)
		d.handlers[el.id] = byType
	}
	byType[typ] = h
}

// Off removes every handler bound to el
func (d *Document) Off(el *Element) {
	delete(d.handlers, el.id)
}

// Listeners returns the number of elements with at least one bound handler
func (d *Document) Listeners() int {
	return len(d.handlers)
}

// Dispatch delivers ev to its target and bubbles it up through the ancestors,
// invoking every matching handler on the way. It reports whether any handler ran.
// An unknown target yields models.ErrElementNotFound.
func (d *Document) Dispatch(ev *models.Event) (bool, error) {
	target, ok := d.elements[ev.Target]
	if !ok {
		return false, fmt.Errorf("%w: %q", models.ErrElementNotFound, ev.Target)
	}

	handled := false
	for n := target.node; n != nil; n = n.Parent {
		el, ok := d.byNode[n]
		if !ok {
			continue
		}
		if h, ok := d.handlers[el.id][ev.Type]; ok {
			h(ev, target)
			handled = true
			// a handler may have torn down the subtree it was running in
			if _, alive := d.byNode[n]; !alive {
				break
			}
		}
	}
	return handled, nil
}
