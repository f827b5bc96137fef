package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vetrina-catalogo/app/controller"
	"vetrina-catalogo/repository"
	"vetrina-catalogo/service"
	"vetrina-catalogo/web"
)

func newTestRouter(t *testing.T, withImages bool) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
	  {"id": 1, "name": "Sciarpa", "category": "Accessori",
	   "sizes": [], "colors": ["Nero"], "images": ["s1.jpg"]}
	]`), 0o644))

	session := service.NewSession(service.SessionOptions{
		Source: repository.NewFileProductSource(path, repository.FormatJSON, logger),
		Logger: logger,
	})
	_, err := session.Load(context.Background())
	require.NoError(t, err)

	tmpl, err := web.CatalogTemplate()
	require.NoError(t, err)
	staticFS, err := web.StaticFS()
	require.NoError(t, err)

	controllers := &Controllers{
		Catalog: controller.NewCatalogController(session, tmpl, "Catalogo", logger),
	}
	if withImages {
		images := service.NewImageService(t.TempDir(), t.TempDir(), nil, http.DefaultClient, logger)
		controllers.Images = controller.NewImageController(images, logger)
	}
	return SetupRoutes(controllers, http.FS(staticFS))
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, true)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "ping", method: http.MethodGet, target: "/ping", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "page", method: http.MethodGet, target: "/", wantStatus: http.StatusOK, wantBody: "Sciarpa"},
		{name: "event", method: http.MethodPost, target: "/events", body: `{"type":"keydown","key":"Escape"}`, wantStatus: http.StatusOK, wantBody: "productsGrid"},
		{name: "events require POST", method: http.MethodGet, target: "/events", wantStatus: http.StatusMethodNotAllowed},
		{name: "stylesheet", method: http.MethodGet, target: "/static/style.css", wantStatus: http.StatusOK, wantBody: ".product-card"},
		{name: "script", method: http.MethodGet, target: "/static/app.js", wantStatus: http.StatusOK, wantBody: "IntersectionObserver"},
		{name: "missing image", method: http.MethodGet, target: "/images?src=nope.jpg", wantStatus: http.StatusNotFound},
		{name: "unknown route", method: http.MethodGet, target: "/admin", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRoutes_OptionalControllers(t *testing.T) {
	h := newTestRouter(t, false)

	for _, target := range []string{"/images?src=a.jpg", "/catalog/snapshot"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}
