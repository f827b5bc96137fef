package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"vetrina-catalogo/models"
	"vetrina-catalogo/repository"
	"vetrina-catalogo/utils"
)

// facetBuilder builds the filter region and the initial grid
type facetBuilder interface {
	Build()
}

// CatalogLoader performs the single read of the product source
type CatalogLoader struct {
	source  repository.ProductSourceInterface
	store   *CatalogStore
	filters facetBuilder
	logger  *zap.Logger

	mu      sync.Mutex
	loaded  bool
	report  models.LoadReport
	lastErr error
}

// NewCatalogLoader creates a new CatalogLoader
func NewCatalogLoader(source repository.ProductSourceInterface, store *CatalogStore, filters facetBuilder, logger *zap.Logger) *CatalogLoader {
	return &CatalogLoader{
		source:  source,
		store:   store,
		filters: filters,
		logger:  logger,
	}
}

// Load reads the source once, validates the records, populates the store and
// renders the initial page. A failed read leaves the catalog empty and is never retried.
func (l *CatalogLoader) Load(ctx context.Context) (*models.LoadReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return nil, models.ErrCatalogAlreadyLoaded
	}
	l.loaded = true

	l.logger.Info("🔍 Loading catalog", zap.String("source", l.source.Describe()))

	records, err := l.source.FetchProducts(ctx)
	if err != nil {
		l.lastErr = fmt.Errorf("failed to load catalog from %s: %w", l.source.Describe(), err)
		l.logger.Error("❌ Catalog load failed", zap.Error(l.lastErr))
		return nil, l.lastErr
	}

	products, report := ValidateRecords(records)
	for _, q := range report.Quarantined {
		l.logger.Warn("⚠️  Product quarantined",
			zap.Int("index", q.Index),
			zap.Int("productId", q.ID),
			zap.String("reason", q.Reason),
		)
	}

	l.store.populate(products)
	l.filters.Build()
	l.report = report

	l.logger.Info("✓ Catalog loaded",
		zap.Int("received", report.Received),
		zap.Int("accepted", report.Accepted),
		zap.Int("quarantined", len(report.Quarantined)),
	)
	return &report, nil
}

// Report returns the summary of the last successful load
func (l *CatalogLoader) Report() models.LoadReport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.report
}

// LastError returns the load failure, nil when the catalog loaded or was never read
func (l *CatalogLoader) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// ValidateRecords converts source records into products. Malformed records are
// quarantined with the reason instead of reaching the renderer.
func ValidateRecords(records []models.ProductRecord) ([]models.Product, models.LoadReport) {
	report := models.LoadReport{Received: len(records)}
	products := make([]models.Product, 0, len(records))
	seen := make(map[int]bool, len(records))

	for i, rec := range records {
		p, err := toProduct(rec)
		if err == nil && seen[rec.ID] {
			err = fmt.Errorf("%w: duplicate id %d", models.ErrInvalidProduct, rec.ID)
		}
		if err != nil {
			report.Quarantined = append(report.Quarantined, models.QuarantinedRecord{
				Index:  i,
				ID:     rec.ID,
				Reason: err.Error(),
			})
			continue
		}
		seen[rec.ID] = true
		products = append(products, p)
	}

	report.Accepted = len(products)
	return products, report
}

func toProduct(rec models.ProductRecord) (models.Product, error) {
	name := utils.SanitizeText(rec.Name)
	if name == "" {
		return models.Product{}, fmt.Errorf("%w: empty name", models.ErrInvalidProduct)
	}

	if len(rec.Images) == 0 {
		return models.Product{}, fmt.Errorf("%w: no images", models.ErrInvalidProduct)
	}
	images := make([]string, len(rec.Images))
	for i, ref := range rec.Images {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return models.Product{}, fmt.Errorf("%w: empty image reference at %d", models.ErrInvalidProduct, i)
		}
		images[i] = ref
	}

	sizes := make([]models.SizeVariant, len(rec.Sizes))
	for i, s := range rec.Sizes {
		label := utils.SanitizeText(s.Size)
		if label == "" {
			return models.Product{}, fmt.Errorf("%w: empty size label at %d", models.ErrInvalidProduct, i)
		}
		if s.Price.Valid && s.Price.Decimal.IsNegative() {
			return models.Product{}, fmt.Errorf("%w: negative price for size %s", models.ErrInvalidProduct, label)
		}
		sizes[i] = models.SizeVariant{Size: label, Price: s.Price}
	}

	colors := utils.SanitizeLabels(rec.Colors)
	if colors == nil {
		colors = []string{}
	}

	return models.Product{
		ID:          rec.ID,
		Name:        name,
		Category:    utils.SanitizeText(rec.Category),
		Tags:        utils.SanitizeLabels(rec.Tags),
		Sizes:       sizes,
		Colors:      colors,
		Images:      images,
		Description: strings.TrimSpace(rec.Description),
	}, nil
}
