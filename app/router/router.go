package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vetrina-catalogo/app/controller"
)

const requestTimeout = 60 * time.Second

// Controllers holds the HTTP handlers mounted by the router.
// Images and Snapshot are optional.
type Controllers struct {
	Catalog  *controller.CatalogController
	Images   *controller.ImageController
	Snapshot *controller.SnapshotController
}

// SetupRoutes builds the HTTP handler of the catalog server
func SetupRoutes(controllers *Controllers, static http.FileSystem) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// Ping endpoint
	r.Get("/ping", controllers.Catalog.Ping)

	// Catalog page and its event channel
	r.Get("/", controllers.Catalog.RenderCatalog)
	r.Post("/events", controllers.Catalog.HandleEvent)

	if controllers.Images != nil {
		r.Get("/images", controllers.Images.GetImage)
	}
	if controllers.Snapshot != nil {
		r.Get("/catalog/snapshot", controllers.Snapshot.GetSnapshot)
	}

	if static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static)))
	}

	return r
}
