package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"vetrina-catalogo/models"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLProductSource reads the product list from a products table.
// tags, sizes, colors and images are JSON documents stored as text (or jsonb),
// rows are returned in position order.
//
//	CREATE TABLE products (
//	    id          INTEGER PRIMARY KEY,
//	    position    INTEGER NOT NULL DEFAULT 0,
//	    name        TEXT NOT NULL,
//	    category    TEXT NOT NULL,
//	    tags        TEXT,
//	    sizes       TEXT NOT NULL DEFAULT '[]',
//	    colors      TEXT NOT NULL DEFAULT '[]',
//	    images      TEXT NOT NULL DEFAULT '[]',
//	    description TEXT
//	);
type SQLProductSource struct {
	conn   *sql.DB
	table  string
	label  string
	logger *zap.Logger
}

// NewSQLProductSource creates a new SQLProductSource over an open connection
func NewSQLProductSource(conn *sql.DB, table, label string, logger *zap.Logger) (*SQLProductSource, error) {
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid products table name %q", table)
	}
	return &SQLProductSource{
		conn:   conn,
		table:  table,
		label:  label,
		logger: logger,
	}, nil
}

// Ensure SQLProductSource implements ProductSourceInterface
var _ ProductSourceInterface = (*SQLProductSource)(nil)

// Describe returns the database and table the products come from
func (s *SQLProductSource) Describe() string {
	return fmt.Sprintf("%s table %s", s.label, s.table)
}

// FetchProducts retrieves every product row in position order
func (s *SQLProductSource) FetchProducts(ctx context.Context) ([]models.ProductRecord, error) {
	query := fmt.Sprintf(`
		SELECT
			id,
			name,
			category,
			COALESCE(CAST(tags AS TEXT), ''),
			COALESCE(CAST(sizes AS TEXT), '[]'),
			COALESCE(CAST(colors AS TEXT), '[]'),
			COALESCE(CAST(images AS TEXT), '[]'),
			COALESCE(description, '')
		FROM %s
		ORDER BY position ASC, id ASC
	`, s.table)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		s.logger.Error("❌ Error querying products", zap.Error(err))
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var records []models.ProductRecord
	for rows.Next() {
		var rec models.ProductRecord
		var tags, sizes, colors, images string

		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Category,
			&tags,
			&sizes,
			&colors,
			&images,
			&rec.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}

		if tags != "" {
			if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
				return nil, fmt.Errorf("invalid tags for product %d: %w", rec.ID, err)
			}
		}
		if err := json.Unmarshal([]byte(sizes), &rec.Sizes); err != nil {
			return nil, fmt.Errorf("invalid sizes for product %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(colors), &rec.Colors); err != nil {
			return nil, fmt.Errorf("invalid colors for product %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(images), &rec.Images); err != nil {
			return nil, fmt.Errorf("invalid images for product %d: %w", rec.ID, err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error("❌ Error iterating products", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	s.logger.Info("✓ Fetched product rows", zap.String("source", s.Describe()), zap.Int("count", len(records)))
	return records, nil
}
