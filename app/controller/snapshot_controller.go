package controller

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vetrina-catalogo/service"
)

// validFormats is a map of valid format values
var validFormats = map[string]string{
	service.SnapshotPNG: "image/png",
	service.SnapshotPDF: "application/pdf",
}

// SnapshotController exports the catalog page as PNG or PDF
type SnapshotController struct {
	snapshots service.SnapshotServiceInterface
	logger    *zap.Logger
}

// NewSnapshotController creates a new SnapshotController
func NewSnapshotController(snapshots service.SnapshotServiceInterface, logger *zap.Logger) *SnapshotController {
	return &SnapshotController{
		snapshots: snapshots,
		logger:    logger,
	}
}

// GetSnapshot handles GET /catalog/snapshot?format=png|pdf
func (c *SnapshotController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = service.SnapshotPNG
	}
	contentType, ok := validFormats[format]
	if !ok {
		c.logger.Warn("❌ GetSnapshot: invalid format", zap.String("format", format))
		http.Error(w, "Invalid format. Valid formats: png, pdf", http.StatusBadRequest)
		return
	}

	data, err := c.snapshots.Capture(r.Context(), format)
	if err != nil {
		c.logger.Error("❌ GetSnapshot failed", zap.String("format", format), zap.Error(err))
		http.Error(w, "Failed to generate snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="catalogo.%s"`, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
