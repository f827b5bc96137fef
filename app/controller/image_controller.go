package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vetrina-catalogo/models"
	"vetrina-catalogo/service"
)

// validImageSizes is a map of valid size values
var validImageSizes = map[string]bool{
	service.SizeThumb:  true,
	service.SizeMedium: true,
	service.SizeFull:   true,
}

// ImageController serves optimized catalog images
type ImageController struct {
	images service.ImageServiceInterface
	logger *zap.Logger
}

// NewImageController creates a new ImageController
func NewImageController(images service.ImageServiceInterface, logger *zap.Logger) *ImageController {
	return &ImageController{
		images: images,
		logger: logger,
	}
}

// GetImage handles GET /images?src=...&size=thumb|medium|full
// Unavailable images answer 404 so the page reports a load error for that slot.
func (c *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	src := strings.TrimSpace(r.URL.Query().Get("src"))
	if src == "" {
		http.Error(w, "src parameter is required", http.StatusBadRequest)
		return
	}

	size := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("size")))
	if size == "" {
		size = service.SizeMedium
	}
	if !validImageSizes[size] {
		http.Error(w, "Invalid size. Valid sizes: thumb, medium, full", http.StatusBadRequest)
		return
	}

	data, err := c.images.Get(r.Context(), src, size)
	if err != nil {
		if errors.Is(err, models.ErrImageUnavailable) {
			c.logger.Warn("⚠️  Image unavailable", zap.String("src", src), zap.Error(err))
			http.Error(w, "Image not found", http.StatusNotFound)
			return
		}
		c.logger.Error("❌ GetImage failed", zap.String("src", src), zap.Error(err))
		http.Error(w, "Failed to load image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
