package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"go.uber.org/zap"

	"vetrina-catalogo/models"
	"vetrina-catalogo/service"
)

const maxEventBytes = 4 << 10

// catalogSession is the browsing session the controller talks to
type catalogSession interface {
	HandleEvent(ev *models.Event) (*models.EventResponse, error)
	Page() (*models.CatalogPage, error)
	Diagnostics() service.Diagnostics
}

// CatalogController handles HTTP requests for the catalog page and its events
type CatalogController struct {
	session catalogSession
	tmpl    *template.Template
	title   string
	logger  *zap.Logger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(session catalogSession, tmpl *template.Template, title string, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		session: session,
		tmpl:    tmpl,
		title:   title,
		logger:  logger,
	}
}

// catalogView is the data passed to the catalog page template
type catalogView struct {
	Title           string
	SessionID       string
	Filters         template.HTML
	Grid            template.HTML
	Overlay         template.HTML
	ScrollLocked    bool
	Focus           string
	LazyLoad        bool
	ProximityMargin int
	Static          bool
}

// RenderCatalog handles GET /
// static=true renders a page that binds every image and sends no events, used for snapshots
func (c *CatalogController) RenderCatalog(w http.ResponseWriter, r *http.Request) {
	static := r.URL.Query().Get("static") == "true"

	var buf bytes.Buffer
	if err := c.WritePage(&buf, static); err != nil {
		c.logger.Error("❌ RenderCatalog failed", zap.Error(err))
		http.Error(w, "Failed to render catalog", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// WritePage renders the full catalog page of the session
func (c *CatalogController) WritePage(w io.Writer, static bool) error {
	page, err := c.session.Page()
	if err != nil {
		return err
	}

	// regions are serialized by the document model, which escapes all text
	view := catalogView{
		Title:           c.title,
		SessionID:       page.SessionID,
		Filters:         template.HTML(page.Filters),
		Grid:            template.HTML(page.Grid),
		Overlay:         template.HTML(page.Overlay),
		ScrollLocked:    page.ScrollLocked,
		Focus:           page.Focus,
		LazyLoad:        page.LazyLoad,
		ProximityMargin: page.ProximityMargin,
		Static:          static,
	}
	if err := c.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// HandleEvent handles POST /events
func (c *CatalogController) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var ev models.Event
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBytes)).Decode(&ev); err != nil {
		c.logger.Warn("❌ HandleEvent: invalid request body", zap.Error(err))
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if !ev.Type.Valid() {
		c.logger.Warn("❌ HandleEvent: unknown event type", zap.String("type", string(ev.Type)))
		http.Error(w, fmt.Sprintf("Unknown event type: %q", ev.Type), http.StatusBadRequest)
		return
	}

	resp, err := c.session.HandleEvent(&ev)
	if err != nil {
		c.logger.Error("❌ HandleEvent failed", zap.String("type", string(ev.Type)), zap.Error(err))
		http.Error(w, "Failed to handle event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// pingResponse is the body of GET /ping
type pingResponse struct {
	Status      string `json:"status"`
	Products    int    `json:"products"`
	Quarantined int    `json:"quarantined"`
	LoadError   string `json:"loadError"`
}

// Ping handles GET /ping
func (c *CatalogController) Ping(w http.ResponseWriter, r *http.Request) {
	diag := c.session.Diagnostics()
	writeJSON(w, http.StatusOK, pingResponse{
		Status:      "ok",
		Products:    diag.Products,
		Quarantined: diag.Quarantined,
		LoadError:   diag.LoadError,
	})
}
