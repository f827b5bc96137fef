package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vetrina-catalogo/dom"
	"vetrina-catalogo/models"
	"vetrina-catalogo/repository"
)

// SessionOptions configures a browsing session
type SessionOptions struct {
	Source repository.ProductSourceInterface
	// Resolver maps image references to host URLs, DirectSources when nil
	Resolver SourceResolver
	// Warmer is told about preloaded images, may be nil
	Warmer ImageWarmerInterface
	// LazyLoad enables visibility based image binding
	LazyLoad        bool
	ProximityMargin int
	Logger          *zap.Logger
}

// Diagnostics is the operator view of a session
type Diagnostics struct {
	SessionID     string `json:"sessionId"`
	Products      int    `json:"products"`
	Received      int    `json:"received"`
	Quarantined   int    `json:"quarantined"`
	LoadError     string `json:"loadError"`
	PendingImages int    `json:"pendingImages"`
	FullscreenOn  bool   `json:"fullscreenOpen"`
}

// Session wires the catalog components around one document.
// Events are serialized, mirroring the single event queue of a browser page.
type Session struct {
	ID string

	mu         sync.Mutex
	doc        *dom.Document
	store      *CatalogStore
	observer   *HostVisibilityObserver
	preloads   *PreloadQueue
	lazy       *LazyLoader
	carousel   *CarouselController
	sizes      *SizeSelector
	viewer     *FullscreenViewer
	renderer   *CardRenderer
	filters    *FilterIndex
	dispatcher *Dispatcher
	loader     *CatalogLoader
	logger     *zap.Logger
}

// NewSession creates a new Session with an empty catalog
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resolve := opts.Resolver
	if resolve == nil {
		resolve = DirectSources
	}

	s := &Session{
		ID:     uuid.NewString(),
		doc:    dom.NewDocument(),
		store:  NewCatalogStore(),
		logger: logger.With(zap.String("component", "session")),
	}

	var observer VisibilityObserverInterface
	if opts.LazyLoad {
		s.observer = NewHostVisibilityObserver(opts.ProximityMargin)
		observer = s.observer
	}

	s.preloads = NewPreloadQueue(resolve, opts.Warmer)
	s.lazy = NewLazyLoader(observer, logger)
	s.carousel = NewCarouselController(s.store, s.lazy, logger)
	s.sizes = NewSizeSelector(s.store, logger)
	s.viewer = NewFullscreenViewer(s.doc, s.store, s.preloads, resolve, logger)
	s.renderer = NewCardRenderer(s.doc, s.store, s.carousel, s.sizes, s.lazy, s.viewer, resolve, logger)
	s.filters = NewFilterIndex(s.doc, s.store, s.renderer, logger)
	s.loader = NewCatalogLoader(opts.Source, s.store, s.filters, logger)

	var notifier visibilityNotifier
	if s.observer != nil {
		notifier = s.observer
	}
	s.dispatcher = NewDispatcher(s.doc, s.viewer, notifier, logger)

	s.doc.Body().Append(s.filters.Container(), s.renderer.Grid(), s.viewer.Overlay())
	return s
}

// Load performs the single catalog read of the session
func (s *Session) Load(ctx context.Context) (*models.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Load(ctx)
}

// HandleEvent dispatches a host event and returns the resulting regions
func (s *Session) HandleEvent(ev *models.Event) (*models.EventResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatcher.Dispatch(ev)

	filters, grid, overlay, err := s.regions()
	if err != nil {
		return nil, err
	}
	return &models.EventResponse{
		Filters:      filters,
		Grid:         grid,
		Overlay:      overlay,
		ScrollLocked: s.viewer.ScrollLocked(),
		Focus:        s.focusID(),
		Preload:      s.preloads.Drain(),
	}, nil
}

// Page returns the regions of the full page
func (s *Session) Page() (*models.CatalogPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filters, grid, overlay, err := s.regions()
	if err != nil {
		return nil, err
	}
	page := &models.CatalogPage{
		SessionID:    s.ID,
		Filters:      filters,
		Grid:         grid,
		Overlay:      overlay,
		ScrollLocked: s.viewer.ScrollLocked(),
		Focus:        s.focusID(),
		// page renders, snapshots included, leave the queue to the event channel
		Preload:      s.preloads.Pending(),
	}
	if s.observer != nil {
		page.LazyLoad = true
		page.ProximityMargin = s.observer.Margin()
	}
	return page, nil
}

// Products returns the catalog in its current session state
func (s *Session) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Products()
}

// Diagnostics returns the load outcome and a few runtime counters
func (s *Session) Diagnostics() Diagnostics {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.loader.Report()
	d := Diagnostics{
		SessionID:     s.ID,
		Products:      s.store.Len(),
		Received:      report.Received,
		Quarantined:   len(report.Quarantined),
		PendingImages: s.lazy.Pending(),
		FullscreenOn:  s.viewer.IsOpen(),
	}
	if err := s.loader.LastError(); err != nil {
		d.LoadError = err.Error()
	}
	return d
}

func (s *Session) regions() (filters, grid, overlay string, err error) {
	if filters, err = s.filters.Container().OuterHTML(); err != nil {
		return "", "", "", fmt.Errorf("failed to render filters: %w", err)
	}
	if grid, err = s.renderer.Grid().OuterHTML(); err != nil {
		return "", "", "", fmt.Errorf("failed to render grid: %w", err)
	}
	if overlay, err = s.viewer.Overlay().OuterHTML(); err != nil {
		return "", "", "", fmt.Errorf("failed to render overlay: %w", err)
	}
	return filters, grid, overlay, nil
}

func (s *Session) focusID() string {
	if el := s.doc.ActiveElement(); el != nil {
		return el.ID()
	}
	return ""
}
