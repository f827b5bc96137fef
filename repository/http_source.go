package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vetrina-catalogo/models"
)

// maxCatalogBytes bounds the size of a remote product document
const maxCatalogBytes = 8 << 20

// HTTPProductSource fetches the product list as JSON from a URL
type HTTPProductSource struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPProductSource creates a new HTTPProductSource
func NewHTTPProductSource(url string, client *http.Client, logger *zap.Logger) *HTTPProductSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPProductSource{
		url:    url,
		client: client,
		logger: logger,
	}
}

// Ensure HTTPProductSource implements ProductSourceInterface
var _ ProductSourceInterface = (*HTTPProductSource)(nil)

// Describe returns the remote location
func (s *HTTPProductSource) Describe() string {
	return "url " + s.url
}

// FetchProducts performs a single GET of the product document
func (s *HTTPProductSource) FetchProducts(ctx context.Context) ([]models.ProductRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read product response: %w", err)
	}

	records, err := decodeJSONProducts(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✓ Fetched product records", zap.String("url", s.url), zap.Int("count", len(records)))
	return records, nil
}
