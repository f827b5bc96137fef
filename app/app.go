package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vetrina-catalogo/app/controller"
	"vetrina-catalogo/app/router"
	"vetrina-catalogo/config"
	"vetrina-catalogo/db"
	"vetrina-catalogo/models"
	"vetrina-catalogo/repository"
	"vetrina-catalogo/service"
	"vetrina-catalogo/web"
)

// App holds the wired catalog server
type App struct {
	Config    *config.Config
	Session   *service.Session
	Catalog   *controller.CatalogController
	Snapshots *service.SnapshotService
	Handler   http.Handler

	conn   *sql.DB
	logger *zap.Logger
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, logger: logger}

	source, err := a.productSource(ctx)
	if err != nil {
		return nil, err
	}

	opts := service.SessionOptions{
		Source:          source,
		LazyLoad:        cfg.UI.LazyLoad,
		ProximityMargin: cfg.UI.ProximityMargin,
		Logger:          logger,
	}

	controllers := &router.Controllers{}

	if cfg.Images.Proxy {
		images, err := a.imageService(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts.Resolver = service.ProxySources("/images")
		opts.Warmer = images
		controllers.Images = controller.NewImageController(images, logger)
	}

	a.Session = service.NewSession(opts)

	tmpl, err := web.CatalogTemplate()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = controller.NewCatalogController(a.Session, tmpl, cfg.UI.Title, logger)
	controllers.Catalog = a.Catalog

	// the headless browser gets the static page so it never drives the session
	pageURL := strings.TrimSuffix(cfg.Server.BaseURL, "/") + "/?static=true"
	a.Snapshots = service.NewSnapshotService(pageURL, cfg.Chrome.Path, logger)
	controllers.Snapshot = controller.NewSnapshotController(a.Snapshots, logger)

	staticFS, err := web.StaticFS()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load static assets: %w", err)
	}
	a.Handler = router.SetupRoutes(controllers, http.FS(staticFS))

	return a, nil
}

// Load performs the single catalog read. A failed read leaves an empty,
// interactive catalog and is reported through the ping endpoint.
func (a *App) Load(ctx context.Context) *models.LoadReport {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	report, err := a.Session.Load(loadCtx)
	if err != nil {
		a.logger.Error("❌ Catalog load failed, serving an empty catalog", zap.Error(err))
	}
	return report
}

// Close releases the database connection, if any
func (a *App) Close() {
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Warn("⚠️  Failed to close database", zap.Error(err))
		}
		a.conn = nil
	}
}

// productSource builds the configured product source
func (a *App) productSource(ctx context.Context) (repository.ProductSourceInterface, error) {
	src := a.Config.Source

	switch src.Kind {
	case config.SourceJSON:
		return repository.NewFileProductSource(src.Path, repository.FormatJSON, a.logger), nil
	case config.SourceYAML:
		return repository.NewFileProductSource(src.Path, repository.FormatYAML, a.logger), nil
	case config.SourceHTTP:
		return repository.NewHTTPProductSource(src.URL, nil, a.logger), nil
	case config.SourcePostgres:
		return a.sqlSource(ctx, db.DriverPostgres, src.DatabaseURL, "postgres")
	case config.SourceSQLite:
		dsn := src.DatabaseURL
		if dsn == "" {
			dsn = src.Path
		}
		return a.sqlSource(ctx, db.DriverSQLite, dsn, "sqlite "+dsn)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSource, src.Kind)
	}
}

func (a *App) sqlSource(ctx context.Context, driver, dsn, label string) (repository.ProductSourceInterface, error) {
	conn, err := db.Open(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.conn = conn

	source, err := repository.NewSQLProductSource(conn, a.Config.Source.Table, label, a.logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return source, nil
}

// imageService builds the image proxy, with Drive when credentials are configured
func (a *App) imageService(ctx context.Context) (*service.ImageService, error) {
	cfg := a.Config.Images

	var drive service.DriveServiceInterface
	if cfg.DriveCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.DriveCredentials)
		if err != nil {
			return nil, err
		}
		drive = driveService
		a.logger.Info("✓ Drive image source enabled")
	}

	images := service.NewImageService(cfg.LocalDir, cfg.CacheDir, drive, nil, a.logger)
	if err := images.EnsureCacheDir(); err != nil {
		return nil, err
	}
	return images, nil
}
