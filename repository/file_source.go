package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"vetrina-catalogo/models"
)

// Document formats understood by FileProductSource
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FileProductSource reads the product list from a JSON or YAML file
type FileProductSource struct {
	path   string
	format string
	logger *zap.Logger
}

// NewFileProductSource creates a new FileProductSource
func NewFileProductSource(path, format string, logger *zap.Logger) *FileProductSource {
	return &FileProductSource{
		path:   path,
		format: format,
		logger: logger,
	}
}

// Ensure FileProductSource implements ProductSourceInterface
var _ ProductSourceInterface = (*FileProductSource)(nil)

// Describe returns the file location
func (s *FileProductSource) Describe() string {
	return fmt.Sprintf("%s file %s", s.format, s.path)
}

// FetchProducts reads and decodes the product file
func (s *FileProductSource) FetchProducts(ctx context.Context) ([]models.ProductRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product file: %w", err)
	}

	var records []models.ProductRecord
	switch s.format {
	case FormatYAML:
		records, err = decodeYAMLProducts(data)
	default:
		records, err = decodeJSONProducts(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.path, err)
	}

	s.logger.Info("✓ Read product records", zap.String("path", s.path), zap.Int("count", len(records)))
	return records, nil
}

func decodeJSONProducts(data []byte) ([]models.ProductRecord, error) {
	var records []models.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid product JSON: %w", err)
	}
	return records, nil
}

// decodeYAMLProducts decodes YAML through its JSON equivalent, so both formats
// share a single schema and the same null-price semantics
func decodeYAMLProducts(data []byte) ([]models.ProductRecord, error) {
	var raw []map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid product YAML: %w", err)
	}

	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML products: %w", err)
	}
	return decodeJSONProducts(asJSON)
}
