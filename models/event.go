package models

// EventType identifies a host input event
type EventType string

const (
	EventClick      EventType = "click"
	EventKeyDown    EventType = "keydown"
	EventTouchStart EventType = "touchstart"
	EventTouchEnd   EventType = "touchend"
	EventVisible    EventType = "visible"
	EventImageLoad  EventType = "load"
	EventImageError EventType = "error"
)

// Event represents an input event delivered by the host environment.
// Target is the data-el identity of the element the event happened on,
// empty for document level events (keyboard).
type Event struct {
	Type    EventType `json:"type"`
	Target  string    `json:"target,omitempty"`
	Key     string    `json:"key,omitempty"`
	Shift   bool      `json:"shift,omitempty"`
	ScreenX float64   `json:"screenX,omitempty"`
}

// EventResponse represents the regions returned to the host after an event
type EventResponse struct {
	Filters      string   `json:"filters"`
	Grid         string   `json:"grid"`
	Overlay      string   `json:"overlay"`
	ScrollLocked bool     `json:"scrollLocked"`
	Focus        string   `json:"focus,omitempty"`
	Preload      []string `json:"preload,omitempty"`
}

// Valid reports whether t is an event type the session understands
func (t EventType) Valid() bool {
	switch t {
	case EventClick, EventKeyDown, EventTouchStart, EventTouchEnd, EventVisible, EventImageLoad, EventImageError:
		return true
	}
	return false
}
